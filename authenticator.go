package photoshare

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// RegisterPayload carries the signup form fields.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar,omitempty"`
}

func (p RegisterPayload) Valid() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.Length(3, 64)),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 128)),
	)
}

// LoginPayload carries the credentials presented at login.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p LoginPayload) Valid() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// ResetPasswordPayload carries the reset token and the replacement password.
type ResetPasswordPayload struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (p ResetPasswordPayload) Valid() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Token, validation.Required),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 128)),
	)
}

// LoginResult is what a successful credential or refresh exchange yields.
type LoginResult struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
}

// Authenticator drives registration, login, token refresh, email
// verification, and password recovery on top of the token flow.
type Authenticator struct {
	flow     *TokenFlow
	users    UserStore
	notifier Notifier
	logger   Logger
	origin   string
}

func NewAuthenticator(flow *TokenFlow, users UserStore, notifier Notifier, origin string) *Authenticator {
	return &Authenticator{
		flow:     flow,
		users:    users,
		notifier: notifier,
		logger:   defLogger{},
		origin:   origin,
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Register creates an unverified account and emails a verification token.
// Delivery failures are logged, never surfaced: the account exists either way.
func (a *Authenticator) Register(ctx context.Context, payload RegisterPayload) (*User, error) {
	if err := payload.Valid(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
			WithCode(goerrors.CodeBadRequest)
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	id, err := hashid.NewUUID(payload.Email)
	if err != nil {
		id = uuid.New()
	}

	user, err := a.users.Register(ctx, &User{
		ID:           id,
		Username:     payload.Username,
		Email:        payload.Email,
		Avatar:       payload.Avatar,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	a.sendVerification(ctx, user)

	return user, nil
}

// Login exchanges credentials for an access/refresh token pair. Unknown
// emails and wrong passwords collapse into the same error so callers can
// not probe which addresses have accounts. The verification gate runs
// before the password check; an unverified address is not treated as a
// secret.
func (a *Authenticator) Login(ctx context.Context, payload LoginPayload) (*LoginResult, error) {
	if err := payload.Valid(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload").
			WithCode(goerrors.CodeBadRequest)
	}

	user, err := a.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	if err := ComparePasswordAndHash(payload.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return a.issueSession(ctx, user)
}

// Refresh redeems a refresh token and issues a fresh access token. The
// stored refresh token is left alone, so the presented one keeps working
// until it expires or the session ends through login, logout, or reset.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	user, err := a.flow.Redeem(ctx, refreshToken, TokenPurposeRefresh)
	if err != nil {
		return nil, err
	}

	access, err := a.flow.Issue(TokenPurposeAccess, user.ID, AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refreshToken,
	}, nil
}

// RequestVerification re-sends the verification email. The send is
// unconditional for existing accounts; a token minted for an already
// verified account reports the conflict at redemption time.
func (a *Authenticator) RequestVerification(ctx context.Context, email string) error {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return err
	}

	a.sendVerification(ctx, user)

	return nil
}

// VerifyEmail redeems a verification token and flips the account to
// verified. A second redemption of the same token reports the conflict.
func (a *Authenticator) VerifyEmail(ctx context.Context, token string) (*User, error) {
	return a.flow.Redeem(ctx, token, TokenPurposeVerify)
}

// ForgotPassword emails a password reset token to the account holder.
func (a *Authenticator) ForgotPassword(ctx context.Context, email string) error {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return err
	}

	token, err := a.flow.Issue(TokenPurposeForgot, user.ID, ForgotTokenTTL)
	if err != nil {
		return err
	}

	go func() {
		if err := a.notifier.SendPasswordReset(context.WithoutCancel(ctx), user.Email, user.Username, token, a.origin); err != nil {
			a.logger.Error("password reset email to %s failed: %v", user.Email, err)
		}
	}()

	return nil
}

// ResetPassword redeems a reset token and replaces the password. Reset
// tokens stay redeemable until they expire, so a second reset with the
// same token succeeds; the expiry window is what bounds the exposure.
// Any stored refresh token is dropped, which ends the active session.
func (a *Authenticator) ResetPassword(ctx context.Context, payload ResetPasswordPayload) (*User, error) {
	if err := payload.Valid(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid reset payload").
			WithCode(goerrors.CodeBadRequest)
	}

	user, err := a.flow.Redeem(ctx, payload.Token, TokenPurposeForgot)
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	if err := a.users.ResetPassword(ctx, user.ID, hash); err != nil {
		return nil, err
	}

	user.PasswordHash = hash
	user.RefreshToken = ""

	return user, nil
}

// Logout clears the stored refresh token, which revokes the session's
// refresh capability. Outstanding access tokens still run out their TTL.
func (a *Authenticator) Logout(ctx context.Context, userID uuid.UUID) error {
	return a.users.StoreRefreshToken(ctx, userID, "")
}

func (a *Authenticator) issueSession(ctx context.Context, user *User) (*LoginResult, error) {
	access, err := a.flow.Issue(TokenPurposeAccess, user.ID, AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := a.flow.Issue(TokenPurposeRefresh, user.ID, RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	if err := a.users.StoreRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}

	user.RefreshToken = refresh

	return &LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (a *Authenticator) sendVerification(ctx context.Context, user *User) {
	token, err := a.flow.Issue(TokenPurposeVerify, user.ID, VerifyTokenTTL)
	if err != nil {
		a.logger.Error("minting verification token for %s failed: %v", user.Email, err)
		return
	}

	go func() {
		if err := a.notifier.SendVerification(context.WithoutCancel(ctx), user.Email, user.Username, token, a.origin); err != nil {
			a.logger.Error("verification email to %s failed: %v", user.Email, err)
		}
	}()
}
