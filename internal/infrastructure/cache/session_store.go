// Package cache keeps signed-in sessions in Redis or in process memory.
package cache

import (
	"context"

	"github.com/billed/backend/internal/domain/session"
)

// DefaultKeyPrefix namespaces session keys in a shared store
const DefaultKeyPrefix = "billed:session:"

// SessionStore hands out the key-value view of one browser session.
type SessionStore interface {
	// ForSession returns the KV holding the "user" and "jwt" keys of sessionID
	ForSession(sessionID string) session.KV
	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
	Close() error
}

func sessionKey(prefix, sessionID, key string) string {
	return prefix + sessionID + ":" + key
}
