package photoshare

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ Session = &SessionObject{}

// Session is what protected handlers read off the request context once
// the access token middleware has run.
type Session interface {
	GetUserID() string
	GetUserUUID() (uuid.UUID, error)
	GetIssuer() string
	GetIssuedAt() *time.Time
	GetPurpose() TokenPurpose
}

type SessionObject struct {
	UserID         string       `json:"user_id,omitempty"`
	Issuer         string       `json:"issuer,omitempty"`
	Purpose        TokenPurpose `json:"purpose,omitempty"`
	IssuedAt       *time.Time   `json:"issued_at,omitempty"`
	ExpirationDate *time.Time   `json:"expiration_date,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetPurpose() TokenPurpose {
	return s.Purpose
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s iss=%s ttype=%s iat=%s",
		s.UserID,
		s.Issuer,
		s.Purpose,
		issuedAt,
	)
}

func sessionFromClaims(claims *TokenClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrTokenMalformed
	}

	purpose, err := claims.Purpose()
	if err != nil {
		return nil, err
	}

	issuedAt := claims.IssuedAt()
	expiresAt := claims.Expires()

	return &SessionObject{
		UserID:         claims.UserID(),
		Issuer:         claims.RegisteredClaims.Issuer,
		Purpose:        purpose,
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
	}, nil
}
