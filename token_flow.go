package photoshare

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// Default validity windows per purpose. Access tokens are short lived;
// refresh tokens outlive them; verify and forgot tokens get an hour to
// survive a mailbox round trip.
const (
	AccessTokenTTL  = 30 * time.Minute
	RefreshTokenTTL = 60 * time.Minute
	VerifyTokenTTL  = 60 * time.Minute
	ForgotTokenTTL  = 60 * time.Minute
)

// TokenFlow is the token lifecycle manager: it maps purposes to validity
// windows on issue, and to stored-state checks and side effects on redeem.
type TokenFlow struct {
	codec  TokenService
	users  UserStore
	logger Logger
	now    func() time.Time
}

// NewTokenFlow creates a TokenFlow backed by the given codec and user store.
func NewTokenFlow(codec TokenService, users UserStore) *TokenFlow {
	return &TokenFlow{
		codec:  codec,
		users:  users,
		logger: defLogger{},
		now:    time.Now,
	}
}

func (f *TokenFlow) WithLogger(logger Logger) *TokenFlow {
	if logger != nil {
		f.logger = logger
	}
	return f
}

// WithClock overrides the time source. Tests use it to step past expiry.
func (f *TokenFlow) WithClock(now func() time.Time) *TokenFlow {
	if now != nil {
		f.now = now
	}
	return f
}

// DefaultTTL returns the validity window used when Issue receives a zero ttl.
func DefaultTTL(purpose TokenPurpose) time.Duration {
	switch purpose {
	case TokenPurposeAccess:
		return AccessTokenTTL
	case TokenPurposeRefresh:
		return RefreshTokenTTL
	case TokenPurposeVerify:
		return VerifyTokenTTL
	case TokenPurposeForgot:
		return ForgotTokenTTL
	default:
		return AccessTokenTTL
	}
}

// Issue mints a token for the given purpose and subject. A zero ttl picks
// the per-purpose default.
func (f *TokenFlow) Issue(purpose TokenPurpose, subject uuid.UUID, ttl time.Duration) (string, error) {
	if ttl < 0 {
		return "", errors.New("token TTL must be non-negative", errors.CategoryBadInput)
	}
	if ttl == 0 {
		ttl = DefaultTTL(purpose)
	}

	issuedAt := f.now()
	return f.codec.Encode(purpose, subject, issuedAt, issuedAt.Add(ttl))
}

// Redeem decodes a token, enforces the expected purpose, resolves the
// subject against the user store, and applies purpose-specific side
// effects:
//
//   - verify: flips is_verified, rejecting users that already are
//   - refresh: rejects tokens that no longer match the stored value
//   - access, forgot: stateless beyond signature, expiry, and purpose
func (f *TokenFlow) Redeem(ctx context.Context, tokenString string, expected TokenPurpose) (*User, error) {
	claims, err := f.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	purpose, err := claims.Purpose()
	if err != nil {
		return nil, err
	}

	if purpose != expected {
		f.logger.Warn("token presented for wrong purpose", "have", purpose, "want", expected)
		return nil, ErrWrongTokenPurpose
	}

	uid, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, ErrTokenMalformed
	}

	user, err := f.users.FindByID(ctx, uid)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve token subject")
	}

	switch purpose {
	case TokenPurposeVerify:
		// The already-verified precondition travels with the write; two
		// concurrent redeems cannot both flip the flag.
		if err := f.users.MarkVerified(ctx, user.ID); err != nil {
			return nil, err
		}
		user.EmailVerified = true
	case TokenPurposeRefresh:
		if subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(tokenString)) != 1 {
			return nil, ErrTokenRevoked
		}
	}

	return user, nil
}
