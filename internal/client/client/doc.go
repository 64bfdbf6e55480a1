// Package client is the transport layer of the SkillSwap client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): one
//     method per backend operation (auth, users, projects, skill-swaps).
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) that attaches
//     the session token as a bearer credential, optionally keeps a cookie
//     jar for cookie-based session affinity, and normalizes server field
//     names (from_user_id, creator_id, ...) into the models package.
//
// # Error Handling
//
// Every failure is converted into one of the typed errors of this package:
// *NetworkError when no response was received, *TransportError when the
// server answered with a non-success status (or an unreadable body). The
// higher layers add *AuthError and *CapabilityError. Match with errors.As,
// or with errors.Is against ErrUnauthorized / ErrNotSignedIn.
//
// Implementations hold no session state: the token is an explicit argument.
package client
