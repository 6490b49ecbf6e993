package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/mtlprog/earth/internal/apperr"
)

// MessageInvalidCredentials is returned for every rejected login.
const MessageInvalidCredentials = "Invalid credentials"

// MockAuthenticator accepts a single configured username/password pair.
type MockAuthenticator struct {
	username string
	password string
	email    string
	tokens   *TokenIssuer
	delay    time.Duration
}

// MockOption is a functional option for configuring a MockAuthenticator.
type MockOption func(*MockAuthenticator)

// WithCredentials replaces the accepted pair and the email reported for it.
func WithCredentials(username, password, email string) MockOption {
	return func(m *MockAuthenticator) {
		m.username = username
		m.password = password
		m.email = email
	}
}

// WithDelay simulates network latency.
func WithDelay(d time.Duration) MockOption {
	return func(m *MockAuthenticator) {
		m.delay = d
	}
}

// NewMockAuthenticator accepts ("user", "pass") unless configured otherwise.
func NewMockAuthenticator(tokens *TokenIssuer, opts ...MockOption) (*MockAuthenticator, error) {
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	m := &MockAuthenticator{
		username: "user",
		password: "pass",
		email:    "user@example.com",
		tokens:   tokens,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.username == "" || m.password == "" {
		return nil, errors.New("mock credentials must not be empty")
	}
	return m, nil
}

// Authenticate implements Authenticator.
func (m *MockAuthenticator) Authenticate(ctx context.Context, creds Credentials) (Session, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return Session{}, ctx.Err()
		}
	}

	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(m.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(m.password)) == 1
	if !userOK || !passOK {
		return Session{}, &apperr.AuthError{Message: MessageInvalidCredentials}
	}

	user := User{Username: m.username, Email: m.email}
	token, err := m.tokens.Issue(user)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{User: user, Token: token}, nil
}
