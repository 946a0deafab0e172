// Package session owns the token table: opaque session tokens mapped to user
// identities with a fixed TTL.
//
// The backing store is a deployment decision. The memory backend is
// single-instance only; when several server processes share one database the
// postgres or redis backend must be configured so a login on one instance is
// visible on the others. Re-login never invalidates prior sessions: each
// login issues an independent token, so every device holds its own.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrUnauthenticated is returned by Resolve for tokens that are unknown,
// expired, or destroyed.
var ErrUnauthenticated = errors.New("unauthenticated")

const DefaultTTL = 24 * time.Hour

type Manager interface {
	// Create issues a fresh opaque token bound to userID.
	Create(ctx context.Context, userID int64) (string, error)

	// Resolve returns the user the token is bound to, or ErrUnauthenticated.
	Resolve(ctx context.Context, token string) (int64, error)

	// Destroy removes the token. Destroying an unknown token is not an error.
	Destroy(ctx context.Context, token string) error
}

// Purger is implemented by backends whose expired entries need sweeping.
// The redis backend is absent here: key TTLs expire on their own.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
