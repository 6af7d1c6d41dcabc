package photoshare_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/photoshare"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestFlow(store photoshare.UserStore) *photoshare.TokenFlow {
	codec := photoshare.NewTokenService(testSigningKey, "photoshare", nil)
	return photoshare.NewTokenFlow(codec, store)
}

func seedUser(t *testing.T, store *memoryUserStore, verified bool) *photoshare.User {
	t.Helper()

	hash, err := photoshare.HashPassword("sekret-password")
	assert.NoError(t, err)

	user, err := store.Register(context.Background(), &photoshare.User{
		Username:     "margarita",
		Email:        "margarita@example.com",
		PasswordHash: hash,
	})
	assert.NoError(t, err)

	if verified {
		assert.NoError(t, store.MarkVerified(context.Background(), user.ID))
		user.EmailVerified = true
	}

	return user
}

func TestDefaultTTL(t *testing.T) {
	tests := []struct {
		purpose  photoshare.TokenPurpose
		expected time.Duration
	}{
		{photoshare.TokenPurposeAccess, 30 * time.Minute},
		{photoshare.TokenPurposeRefresh, 60 * time.Minute},
		{photoshare.TokenPurposeVerify, 60 * time.Minute},
		{photoshare.TokenPurposeForgot, 60 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.purpose.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, photoshare.DefaultTTL(tt.purpose))
		})
	}
}

func TestIssueUsesDefaultTTL(t *testing.T) {
	flow := newTestFlow(newMemoryUserStore())
	codec := photoshare.NewTokenService(testSigningKey, "photoshare", nil)

	tokenString, err := flow.Issue(photoshare.TokenPurposeAccess, uuid.New(), 0)
	assert.NoError(t, err)

	claims, err := codec.Decode(tokenString)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.Expires(), 5*time.Second)
}

func TestIssueRejectsNegativeTTL(t *testing.T) {
	flow := newTestFlow(newMemoryUserStore())

	_, err := flow.Issue(photoshare.TokenPurposeAccess, uuid.New(), -time.Minute)
	assert.Error(t, err)
}

func TestRedeemWrongPurpose(t *testing.T) {
	store := newMemoryUserStore()
	flow := newTestFlow(store)
	user := seedUser(t, store, true)

	tokenString, err := flow.Issue(photoshare.TokenPurposeAccess, user.ID, 0)
	assert.NoError(t, err)

	_, err = flow.Redeem(context.Background(), tokenString, photoshare.TokenPurposeRefresh)
	assert.ErrorIs(t, err, photoshare.ErrWrongTokenPurpose)
}

func TestRedeemUnknownSubject(t *testing.T) {
	flow := newTestFlow(newMemoryUserStore())

	tokenString, err := flow.Issue(photoshare.TokenPurposeAccess, uuid.New(), 0)
	assert.NoError(t, err)

	_, err = flow.Redeem(context.Background(), tokenString, photoshare.TokenPurposeAccess)
	assert.ErrorIs(t, err, photoshare.ErrIdentityNotFound)
}

func TestRedeemExpiredToken(t *testing.T) {
	store := newMemoryUserStore()
	user := seedUser(t, store, true)

	flow := newTestFlow(store).WithClock(func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	})

	tokenString, err := flow.Issue(photoshare.TokenPurposeAccess, user.ID, time.Hour)
	assert.NoError(t, err)

	_, err = flow.Redeem(context.Background(), tokenString, photoshare.TokenPurposeAccess)
	assert.ErrorIs(t, err, photoshare.ErrTokenExpired)
}

func TestRedeemVerifyFlipsTheFlag(t *testing.T) {
	store := newMemoryUserStore()
	flow := newTestFlow(store)
	user := seedUser(t, store, false)

	tokenString, err := flow.Issue(photoshare.TokenPurposeVerify, user.ID, 0)
	assert.NoError(t, err)

	redeemed, err := flow.Redeem(context.Background(), tokenString, photoshare.TokenPurposeVerify)
	assert.NoError(t, err)
	assert.True(t, redeemed.EmailVerified)

	stored, err := store.FindByID(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.True(t, stored.EmailVerified)
}

func TestRedeemVerifyTwiceConflicts(t *testing.T) {
	store := newMemoryUserStore()
	flow := newTestFlow(store)
	user := seedUser(t, store, false)

	tokenString, err := flow.Issue(photoshare.TokenPurposeVerify, user.ID, 0)
	assert.NoError(t, err)

	_, err = flow.Redeem(context.Background(), tokenString, photoshare.TokenPurposeVerify)
	assert.NoError(t, err)

	_, err = flow.Redeem(context.Background(), tokenString, photoshare.TokenPurposeVerify)
	assert.ErrorIs(t, err, photoshare.ErrAlreadyVerified)
}

func TestRedeemRefreshRequiresStoredToken(t *testing.T) {
	store := newMemoryUserStore()
	flow := newTestFlow(store)
	user := seedUser(t, store, true)

	tokenString, err := flow.Issue(photoshare.TokenPurposeRefresh, user.ID, 0)
	assert.NoError(t, err)

	// Nothing stored yet, so the token does not match.
	_, err = flow.Redeem(context.Background(), tokenString, photoshare.TokenPurposeRefresh)
	assert.ErrorIs(t, err, photoshare.ErrTokenRevoked)

	assert.NoError(t, store.StoreRefreshToken(context.Background(), user.ID, tokenString))

	redeemed, err := flow.Redeem(context.Background(), tokenString, photoshare.TokenPurposeRefresh)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, redeemed.ID)
}

func TestRedeemRefreshAfterReplacementIsRevoked(t *testing.T) {
	store := newMemoryUserStore()
	flow := newTestFlow(store)
	user := seedUser(t, store, true)

	first, err := flow.Issue(photoshare.TokenPurposeRefresh, user.ID, 0)
	assert.NoError(t, err)
	assert.NoError(t, store.StoreRefreshToken(context.Background(), user.ID, first))

	second, err := flow.Issue(photoshare.TokenPurposeRefresh, user.ID, 0)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.NoError(t, store.StoreRefreshToken(context.Background(), user.ID, second))

	_, err = flow.Redeem(context.Background(), first, photoshare.TokenPurposeRefresh)
	assert.ErrorIs(t, err, photoshare.ErrTokenRevoked)

	_, err = flow.Redeem(context.Background(), second, photoshare.TokenPurposeRefresh)
	assert.NoError(t, err)
}

func TestRedeemForgotIsNotSingleUse(t *testing.T) {
	store := newMemoryUserStore()
	flow := newTestFlow(store)
	user := seedUser(t, store, true)

	tokenString, err := flow.Issue(photoshare.TokenPurposeForgot, user.ID, 0)
	assert.NoError(t, err)

	// Forgot tokens carry no stored state; the expiry window alone bounds
	// how long they stay redeemable.
	for i := 0; i < 2; i++ {
		redeemed, err := flow.Redeem(context.Background(), tokenString, photoshare.TokenPurposeForgot)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, redeemed.ID)
	}
}
