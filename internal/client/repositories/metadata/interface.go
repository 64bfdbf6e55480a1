// Package metadata stores small client-side key/value pairs, such as the
// persisted session token, in the local SQLite database.
package metadata

import (
	"context"
)

// Repository is a key/value store. It satisfies session.TokenStore.
//
// Get returns (nil, nil) for a missing key; Set overwrites; Delete of a
// missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
