package photoshare_test

import (
	"testing"
	"time"

	"github.com/goliatone/photoshare"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionObjectGetters(t *testing.T) {
	id := uuid.New()
	issuedAt := time.Now()

	session := &photoshare.SessionObject{
		UserID:   id.String(),
		Issuer:   "photoshare",
		Purpose:  photoshare.TokenPurposeAccess,
		IssuedAt: &issuedAt,
	}

	assert.Equal(t, id.String(), session.GetUserID())
	assert.Equal(t, "photoshare", session.GetIssuer())
	assert.Equal(t, photoshare.TokenPurposeAccess, session.GetPurpose())
	assert.Equal(t, &issuedAt, session.GetIssuedAt())

	parsed, err := session.GetUserUUID()
	assert.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestSessionObjectRejectsBadUserID(t *testing.T) {
	session := &photoshare.SessionObject{UserID: "not-a-uuid"}

	_, err := session.GetUserUUID()
	assert.Error(t, err)
}
