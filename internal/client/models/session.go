package models

// SessionState classifies a Session.
type SessionState int

const (
	// SignedOut: no token, no identity.
	SignedOut SessionState = iota
	// TokenOnly: a persisted token was restored but the identity behind it
	// has not been confirmed by the server yet.
	TokenOnly
	// SignedIn: token and identity are both present.
	SignedIn
)

func (s SessionState) String() string {
	switch s {
	case SignedOut:
		return "signed-out"
	case TokenOnly:
		return "token-only"
	case SignedIn:
		return "signed-in"
	default:
		return "unknown"
	}
}

// Session is a point-in-time copy of the authenticated identity and token.
type Session struct {
	Token    string
	Identity *User
}

// State derives the session state from which fields are populated.
func (s Session) State() SessionState {
	switch {
	case s.Token == "":
		return SignedOut
	case s.Identity == nil:
		return TokenOnly
	default:
		return SignedIn
	}
}

// Authenticated reports whether a token is present. A token-only session is
// authenticated for transport purposes but has no known identity.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
