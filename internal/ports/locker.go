package ports

import "context"

// KeyLocker serializes work on a single key across concurrent requests
type KeyLocker interface {
	// Lock blocks until the key is held or ctx is done.
	// The returned function releases the key.
	Lock(ctx context.Context, key string) (func(), error)
}
