package photoshare_test

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/photoshare"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		code     int
		textCode string
	}{
		{"email taken", photoshare.ErrEmailTaken, 409, photoshare.TextCodeEmailTaken},
		{"username taken", photoshare.ErrUsernameTaken, 409, photoshare.TextCodeUsernameTaken},
		{"invalid credentials", photoshare.ErrInvalidCredentials, 401, photoshare.TextCodeInvalidCredentials},
		{"email not verified", photoshare.ErrEmailNotVerified, 401, photoshare.TextCodeEmailNotVerified},
		{"already verified", photoshare.ErrAlreadyVerified, 409, photoshare.TextCodeAlreadyVerified},
		{"token malformed", photoshare.ErrTokenMalformed, 401, photoshare.TextCodeTokenMalformed},
		{"token expired", photoshare.ErrTokenExpired, 401, photoshare.TextCodeTokenExpired},
		{"wrong token purpose", photoshare.ErrWrongTokenPurpose, 401, photoshare.TextCodeWrongTokenPurpose},
		{"token revoked", photoshare.ErrTokenRevoked, 401, photoshare.TextCodeTokenRevoked},
		{"identity not found", photoshare.ErrIdentityNotFound, 404, photoshare.TextCodeIdentityNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
		})
	}
}

func TestIdentityNotFoundIsNotFound(t *testing.T) {
	assert.True(t, goerrors.IsNotFound(photoshare.ErrIdentityNotFound))
	assert.False(t, goerrors.IsNotFound(photoshare.ErrInvalidCredentials))
}
