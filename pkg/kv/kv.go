// Package kv provides the string key-value stores the cart snapshot is
// persisted to.
package kv

import "context"

// Store is a string key-value store. Get reports ok=false for a missing key
// rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}
