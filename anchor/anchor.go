// Package anchor fetches verification codes that were anchored on a
// blockchain for a document's lifecycle events.
//
// A NodeClient queries a Waves node directly. A CachedResolver wraps any
// Resolver with a cache and deduplicates concurrent lookups for the same
// transaction. Lookups that fail are reported with ErrUnavailable so callers
// can fall back to manual comparison.
package anchor

import (
	"context"
	"errors"
)

// Sentinel errors.
var (
	// ErrUnavailable is returned when the anchored code cannot be obtained.
	ErrUnavailable = errors.New("anchor: verification code unavailable")

	// ErrNoAnchor is returned when a document has no usable blockchain anchor.
	ErrNoAnchor = errors.New("anchor: document has no blockchain anchor")
)

// Resolver returns the verification code anchored in a transaction.
type Resolver interface {
	VerificationCode(ctx context.Context, txID string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, txID string) (string, error)

// VerificationCode calls f.
func (f ResolverFunc) VerificationCode(ctx context.Context, txID string) (string, error) {
	return f(ctx, txID)
}
