// Package session holds the authenticated identity and session token of the
// SkillSwap client.
//
// A Store is created once at startup. If a token was persisted by a previous
// run it starts token-only: authenticated for transport purposes, identity
// unknown until a users refresh for the same session confirms it (see
// Resolve). Login and Register set token and identity together; SignOut
// clears both. Each token change bumps the session epoch and is reported to
// the registered listeners after it has been applied, so any refresh they
// start reads the new token.
package session
