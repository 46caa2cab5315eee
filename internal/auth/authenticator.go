// Package auth registers ledger owners and issues the session tokens that
// scope every friend, event and record to one owner.
package auth

import (
	"context"

	"github.com/maeumjangbu/ledger/internal/models"
)

var _ Authenticator = (*PasswordAuthenticator)(nil)

// Authenticator creates and verifies ledger owners. AuthService depends on
// this rather than on bcrypt directly.
type Authenticator interface {
	// Register creates an owner account. Emails are unique after
	// normalization; a taken email yields ErrEmailExists.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the owner for a matching email and credential,
	// or ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
