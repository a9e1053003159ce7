package models

// User is the identity attached to a session.
type User struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Offline bool   `json:"isOffline,omitempty"`
}

// SessionKind discriminates the session variants.
type SessionKind int

const (
	// SessionAnonymous means nobody is logged in.
	SessionAnonymous SessionKind = iota
	// SessionOnline means the user authenticated against the server and a
	// bearer token is available.
	SessionOnline
	// SessionOffline means the user authenticated against the local account
	// store; no token exists and API writes are queued locally.
	SessionOffline
)

// Session is the canonical representation of "who is using the app".
//
// The original data model allowed token and user to be set independently and
// treated the presence of either as "logged in". Session collapses that
// ambiguity into a single variant: Anonymous, Online{token,user}, or
// Offline{user}.
type Session struct {
	Kind  SessionKind
	Token string
	User  User
}

func AnonymousSession() Session {
	return Session{Kind: SessionAnonymous}
}

func OnlineSession(token string, user User) Session {
	return Session{Kind: SessionOnline, Token: token, User: user}
}

func OfflineSession(user User) Session {
	user.Offline = true
	return Session{Kind: SessionOffline, User: user}
}

// LoggedIn reports whether the session belongs to an authenticated user.
func (s Session) LoggedIn() bool {
	return s.Kind != SessionAnonymous
}
