package photoshare_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/photoshare"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var testSigningKey = []byte("test-signing-key")

func assertTextCode(t *testing.T, err error, textCode string) {
	t.Helper()

	var richErr *goerrors.Error
	if assert.True(t, goerrors.As(err, &richErr), "expected a rich error, got %v", err) {
		assert.Equal(t, textCode, richErr.TextCode)
	}
}

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := photoshare.NewTokenService(testSigningKey, "photoshare", nil)

	subject := uuid.New()
	issuedAt := time.Now()
	expiresAt := issuedAt.Add(30 * time.Minute)

	tokenString, err := svc.Encode(photoshare.TokenPurposeAccess, subject, issuedAt, expiresAt)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := svc.Decode(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, subject.String(), claims.UserID())

	purpose, err := claims.Purpose()
	assert.NoError(t, err)
	assert.Equal(t, photoshare.TokenPurposeAccess, purpose)

	assert.WithinDuration(t, expiresAt, claims.Expires(), time.Second)
	assert.WithinDuration(t, issuedAt, claims.IssuedAt(), time.Second)
}

func TestTokenServiceMintsDistinctTokens(t *testing.T) {
	svc := photoshare.NewTokenService(testSigningKey, "photoshare", nil)

	subject := uuid.New()
	issuedAt := time.Now()
	expiresAt := issuedAt.Add(30 * time.Minute)

	// Same subject, purpose, and second-granularity window must still
	// produce distinct strings, or revocation by replacement would be
	// a no-op.
	first, err := svc.Encode(photoshare.TokenPurposeRefresh, subject, issuedAt, expiresAt)
	assert.NoError(t, err)

	second, err := svc.Encode(photoshare.TokenPurposeRefresh, subject, issuedAt, expiresAt)
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)

	claims, err := svc.Decode(second)
	assert.NoError(t, err)
	assert.Equal(t, subject.String(), claims.UserID())
	assert.NotEmpty(t, claims.RegisteredClaims.ID)
}

func TestTokenServiceDecodeExpired(t *testing.T) {
	svc := photoshare.NewTokenService(testSigningKey, "photoshare", nil)

	issuedAt := time.Now().Add(-2 * time.Hour)
	tokenString, err := svc.Encode(photoshare.TokenPurposeAccess, uuid.New(), issuedAt, issuedAt.Add(time.Hour))
	assert.NoError(t, err)

	_, err = svc.Decode(tokenString)
	assert.ErrorIs(t, err, photoshare.ErrTokenExpired)
}

func TestTokenServiceDecodeForeignKey(t *testing.T) {
	minter := photoshare.NewTokenService([]byte("some-other-key"), "photoshare", nil)
	svc := photoshare.NewTokenService(testSigningKey, "photoshare", nil)

	now := time.Now()
	tokenString, err := minter.Encode(photoshare.TokenPurposeAccess, uuid.New(), now, now.Add(time.Hour))
	assert.NoError(t, err)

	_, err = svc.Decode(tokenString)
	assert.Error(t, err)
	assertTextCode(t, err, photoshare.TextCodeTokenMalformed)
}

func TestTokenServiceDecodeWrongIssuer(t *testing.T) {
	minter := photoshare.NewTokenService(testSigningKey, "someone-else", nil)
	svc := photoshare.NewTokenService(testSigningKey, "photoshare", nil)

	now := time.Now()
	tokenString, err := minter.Encode(photoshare.TokenPurposeAccess, uuid.New(), now, now.Add(time.Hour))
	assert.NoError(t, err)

	_, err = svc.Decode(tokenString)
	assert.Error(t, err)
	assertTextCode(t, err, photoshare.TextCodeTokenMalformed)
}

func TestTokenServiceDecodeGarbage(t *testing.T) {
	svc := photoshare.NewTokenService(testSigningKey, "photoshare", nil)

	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Decode(tokenString)
		assert.Error(t, err)
		assertTextCode(t, err, photoshare.TextCodeTokenMalformed)
	}
}

func TestTokenServiceDecodeUnknownPurposeTag(t *testing.T) {
	svc := photoshare.NewTokenService(testSigningKey, "photoshare", nil)

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":   "photoshare",
		"uid":   uuid.New().String(),
		"ttype": "banana",
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(now.Add(time.Hour)),
	})

	tokenString, err := token.SignedString(testSigningKey)
	assert.NoError(t, err)

	_, err = svc.Decode(tokenString)
	assert.ErrorIs(t, err, photoshare.ErrTokenMalformed)
}

func TestTokenServiceDecodeRejectsUnsignedToken(t *testing.T) {
	svc := photoshare.NewTokenService(testSigningKey, "photoshare", nil)

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"iss":   "photoshare",
		"uid":   uuid.New().String(),
		"ttype": "access",
		"exp":   jwt.NewNumericDate(now.Add(time.Hour)),
	})

	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = svc.Decode(tokenString)
	assert.Error(t, err)
	assertTextCode(t, err, photoshare.TextCodeTokenMalformed)
}

func TestTokenServiceDecodeRejectsNonUUIDSubject(t *testing.T) {
	svc := photoshare.NewTokenService(testSigningKey, "photoshare", nil)

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":   "photoshare",
		"uid":   "not-a-uuid",
		"ttype": "access",
		"exp":   jwt.NewNumericDate(now.Add(time.Hour)),
	})

	tokenString, err := token.SignedString(testSigningKey)
	assert.NoError(t, err)

	_, err = svc.Decode(tokenString)
	assert.ErrorIs(t, err, photoshare.ErrTokenMalformed)
}
