package photoshare

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload carried by every token this service mints.
// The uid and ttype claim names are part of the wire format.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID   string `json:"uid,omitempty"`
	TType string `json:"ttype,omitempty"`
}

// UserID returns the subject user identifier.
func (c *TokenClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Purpose returns the parsed token purpose. The codec already rejected
// unknown tags, so this only fails on claims built by hand.
func (c *TokenClaims) Purpose() (TokenPurpose, error) {
	return ParseTokenPurpose(c.TType)
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
