// Package common contains constants and small helpers shared by the client
// packages.
package common

const (
	// TokenMetadataKey is the well-known key under which the session token
	// is persisted in the local metadata store.
	TokenMetadataKey = "token"

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"

	// AuthorizationHeaderName carries the bearer credential.
	AuthorizationHeaderName = "Authorization"
)
