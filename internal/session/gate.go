// Package session implements the login state machine that guards protected pages.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/mtlprog/earth/internal/apperr"
)

// MessageLoginFailed is shown when an authenticator fails without a message of its own.
const MessageLoginFailed = "Login failed"

// User identifies an authenticated visitor.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Credentials are submitted by the login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the result of a successful login.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Authenticator checks credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (Session, error)
}

// Status is the gate's lifecycle state.
type Status int

const (
	StatusAnonymous Status = iota
	StatusAuthenticating
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// State is a snapshot of a gate. User is nil and Token empty unless authenticated.
type State struct {
	Status Status
	User   *User
	Token  string
	Error  string
}

// Gate tracks one visitor's login state:
// anonymous → authenticating → authenticated, or back to anonymous with an error.
type Gate struct {
	auth Authenticator

	mu      sync.Mutex
	status  Status
	session *Session
	lastErr *apperr.AuthError
}

// NewGate creates an anonymous gate.
func NewGate(auth Authenticator) *Gate {
	return &Gate{auth: auth}
}

// Login enters authenticating immediately, then settles. Any failure is returned as
// *apperr.AuthError and leaves the gate anonymous with the error retained.
func (g *Gate) Login(ctx context.Context, creds Credentials) (Session, error) {
	g.mu.Lock()
	g.status = StatusAuthenticating
	g.session = nil
	g.lastErr = nil
	g.mu.Unlock()

	s, err := g.auth.Authenticate(ctx, creds)
	if err == nil && (s.Token == "" || s.User.Username == "") {
		err = errors.New("authenticator returned an incomplete session")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err != nil {
		authErr := toAuthError(err)
		g.status = StatusAnonymous
		g.lastErr = authErr
		return Session{}, authErr
	}

	g.status = StatusAuthenticated
	g.session = &s
	return s, nil
}

// Logout clears the session and any error. It always succeeds.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = StatusAnonymous
	g.session = nil
	g.lastErr = nil
}

// IsAuthenticated answers the route guard.
func (g *Gate) IsAuthenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status == StatusAuthenticated
}

// State returns a snapshot of the gate.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := State{Status: g.status}
	if g.session != nil {
		user := g.session.User
		st.User = &user
		st.Token = g.session.Token
	}
	if g.lastErr != nil {
		st.Error = g.lastErr.Message
	}
	return st
}

func toAuthError(err error) *apperr.AuthError {
	var authErr *apperr.AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr
	}
	return &apperr.AuthError{Message: MessageLoginFailed}
}
