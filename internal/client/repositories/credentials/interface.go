// Package credentials persists the session credential in the client-local
// database. The stored token and the account it belongs to live and die
// together: Save writes both in one transaction, Clear removes both.
package credentials

import "context"

type Repository interface {
	// Token returns the stored bearer token, or "" when none is stored.
	Token(ctx context.Context) (string, error)

	// AccountEmail returns the email the stored token was issued for,
	// or "" when none is stored.
	AccountEmail(ctx context.Context) (string, error)

	// Save stores the token together with the account email, replacing any
	// previous credential, atomically.
	Save(ctx context.Context, token, accountEmail string) error

	// Clear removes any stored credential. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
