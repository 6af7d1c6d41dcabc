package photoshare

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenService signs and verifies the compact, purposed tokens the auth
// core runs on. Decoding is a pure function of the token string and the
// signing key; it never consults external state.
type TokenService interface {
	Encode(purpose TokenPurpose, subject uuid.UUID, issuedAt, expiresAt time.Time) (string, error)
	Decode(tokenString string) (*TokenClaims, error)
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	issuer     string
	logger     Logger
}

// NewTokenService creates a new TokenService instance. The signing key is
// process-wide configuration; rotating it invalidates every outstanding
// token.
func NewTokenService(signingKey []byte, issuer string, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		issuer:     issuer,
		logger:     logger,
	}
}

// Encode produces a signed token embedding purpose, subject, and the
// issued/expiry window. Any change to the payload invalidates the
// signature.
func (ts *TokenServiceImpl) Encode(purpose TokenPurpose, subject uuid.UUID, issuedAt, expiresAt time.Time) (string, error) {
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UID:   subject.String(),
		TType: purpose.String(),
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// ensureTokenID stamps a jti so two tokens minted for the same subject,
// purpose, and second are still distinct strings. Revocation by
// stored-token replacement depends on that distinctness.
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}

// SignClaims signs arbitrary token claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *TokenClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signedString, nil
}

// Decode parses and validates a token string. It fails with
// ErrTokenExpired when past exp, and ErrTokenMalformed for bad
// signatures, foreign keys, unexpected algorithms, or unknown purpose
// tags. A subject is never returned from a token that failed validation.
func (ts *TokenServiceImpl) Decode(tokenString string) (*TokenClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService decode encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService decode could not map claims")
		return nil, ErrTokenMalformed
	}

	if _, err := ParseTokenPurpose(claims.TType); err != nil {
		ts.logger.Error("TokenService decode rejected unknown purpose tag", "ttype", claims.TType)
		return nil, err
	}

	if _, err := uuid.Parse(claims.UserID()); err != nil {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

var _ TokenService = (*TokenServiceImpl)(nil)
