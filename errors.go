package photoshare

import "github.com/goliatone/go-errors"

const (
	TextCodeEmailTaken         = "EMAIL_TAKEN"
	TextCodeUsernameTaken      = "USERNAME_TAKEN"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeEmailNotVerified   = "EMAIL_NOT_VERIFIED"
	TextCodeAlreadyVerified    = "ALREADY_VERIFIED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeWrongTokenPurpose  = "WRONG_TOKEN_PURPOSE"
	TextCodeTokenRevoked       = "TOKEN_REVOKED"
	TextCodeIdentityNotFound   = "IDENTITY_NOT_FOUND"
)

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrUsernameTaken is returned when registering a username that already exists.
var ErrUsernameTaken = errors.New("username already exists", errors.CategoryConflict).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials is the single error surfaced for both unknown
// identifier and wrong password, so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid username or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrEmailNotVerified is returned on login before the email was verified.
var ErrEmailNotVerified = errors.New("email is not verified", errors.CategoryAuth).
	WithTextCode(TextCodeEmailNotVerified).
	WithCode(errors.CodeUnauthorized)

// ErrAlreadyVerified is returned when redeeming a verify token for a user
// whose email is already verified.
var ErrAlreadyVerified = errors.New("user is already verified", errors.CategoryConflict).
	WithTextCode(TextCodeAlreadyVerified).
	WithCode(errors.CodeConflict)

// ErrTokenMalformed covers bad signatures, foreign secrets, and payloads
// that do not decode.
var ErrTokenMalformed = errors.New("invalid token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token is past its expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrWrongTokenPurpose is returned when a token issued for one purpose is
// presented for another.
var ErrWrongTokenPurpose = errors.New("invalid token type", errors.CategoryAuth).
	WithTextCode(TextCodeWrongTokenPurpose).
	WithCode(errors.CodeUnauthorized)

// ErrTokenRevoked is returned for a refresh token that no longer matches
// the one stored on the user record.
var ErrTokenRevoked = errors.New("refresh token has been revoked", errors.CategoryAuth).
	WithTextCode(TextCodeTokenRevoked).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is returned when a user cannot be resolved. The login
// boundary remaps it to ErrInvalidCredentials; verification and password
// reset requests surface it as a 404.
var ErrIdentityNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeNotFound)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the internal hasher mismatch error. The
// login boundary remaps it to ErrInvalidCredentials.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)
