// Package session holds the authenticated user's credential as an explicit
// value with a defined lifecycle: established by login, passed to whatever
// needs it, cleared on logout or when the service rejects the token.
package session

import "backtest-client/internal/types"

type Session struct {
	Token string
	User  *types.User
}

// New returns an unauthenticated session.
func New() *Session {
	return &Session{}
}

// Establish stores a fresh credential after a successful login.
func (s *Session) Establish(token string, user types.User) {
	s.Token = token
	s.User = &user
}

// Authenticated reports whether a credential is present.
func (s *Session) Authenticated() bool {
	return s.Token != ""
}

// Clear drops the credential and user. Called on logout and on any 401.
func (s *Session) Clear() {
	s.Token = ""
	s.User = nil
}
