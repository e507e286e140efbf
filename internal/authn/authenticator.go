// Package authn registers and signs in users and issues their session tokens.
package authn

import (
	"context"
	"errors"

	"github.com/CameronXie/digital-diner/internal/domain"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrIncorrectPassword is returned when a password change names the wrong current password.
	ErrIncorrectPassword = errors.New("current password is incorrect")
)

// Authenticator verifies an email and password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}
