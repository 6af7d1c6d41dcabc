package photoshare

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// UserStore is the user-record store the auth core talks to. The bun
// repository implements it; tests use an in-memory fake.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)

	// StoreRefreshToken replaces the single live refresh token on the user
	// record. Last write wins.
	StoreRefreshToken(ctx context.Context, id uuid.UUID, token string) error

	// MarkVerified flips is_verified false -> true. The precondition is
	// enforced in the same write; a user that is already verified returns
	// ErrAlreadyVerified.
	MarkVerified(ctx context.Context, id uuid.UUID) error

	// ResetPassword overwrites the stored password hash.
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Notifier delivers out-of-band email. Fire and forget: the auth core
// does not retry delivery failures.
type Notifier interface {
	SendVerification(ctx context.Context, email, username, token, origin string) error
	SendPasswordReset(ctx context.Context, email, username, token, origin string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
