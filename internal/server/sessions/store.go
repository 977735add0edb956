// Package sessions stores opaque session tokens mapped to user ids with a
// time-to-live. Backends: in-process memory, Redis and an embedded Badger
// database.
package sessions

import (
	"context"
	"time"
)

// KeyPrefix prefixes every token in the backing store.
const KeyPrefix = "auth_"

// Store is the session store adapter. Get returns
// common.ErrSessionNotFound for unknown and expired tokens.
type Store interface {
	Set(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
	Ping(ctx context.Context) error
	Close() error
}

// Key returns the store key for token.
func Key(token string) string {
	return KeyPrefix + token
}
