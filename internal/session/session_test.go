package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mtlprog/earth/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T, opts ...MockOption) *MockAuthenticator {
	t.Helper()
	tokens, err := NewTokenIssuer("test-key", time.Hour)
	require.NoError(t, err)
	auth, err := NewMockAuthenticator(tokens, opts...)
	require.NoError(t, err)
	return auth
}

// blockingAuthenticator settles only when release is closed.
type blockingAuthenticator struct {
	release chan struct{}
	next    Authenticator
}

func (b *blockingAuthenticator) Authenticate(ctx context.Context, creds Credentials) (Session, error) {
	<-b.release
	return b.next.Authenticate(ctx, creds)
}

type funcAuthenticator func(ctx context.Context, creds Credentials) (Session, error)

func (f funcAuthenticator) Authenticate(ctx context.Context, creds Credentials) (Session, error) {
	return f(ctx, creds)
}

func TestLoginRoundTrip(t *testing.T) {
	g := NewGate(newTestAuthenticator(t))
	assert.Equal(t, StatusAnonymous, g.State().Status)

	s, err := g.Login(context.Background(), Credentials{Username: "user", Password: "pass"})
	require.NoError(t, err)
	assert.Equal(t, "user", s.User.Username)
	assert.Equal(t, "user@example.com", s.User.Email)
	assert.NotEmpty(t, s.Token)

	st := g.State()
	assert.Equal(t, StatusAuthenticated, st.Status)
	require.NotNil(t, st.User)
	assert.Equal(t, "user", st.User.Username)
	assert.Equal(t, s.Token, st.Token)
	assert.Empty(t, st.Error)
	assert.True(t, g.IsAuthenticated())
}

func TestLoginInvalidCredentials(t *testing.T) {
	g := NewGate(newTestAuthenticator(t))

	_, err := g.Login(context.Background(), Credentials{Username: "x", Password: "y"})
	require.Error(t, err)

	var authErr *apperr.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Contains(t, authErr.Message, "Invalid credentials")

	st := g.State()
	assert.Equal(t, StatusAnonymous, st.Status)
	assert.Nil(t, st.User)
	assert.Empty(t, st.Token)
	assert.Equal(t, "Invalid credentials", st.Error)
	assert.False(t, g.IsAuthenticated())
}

func TestLoginIsAuthenticatingWhilePending(t *testing.T) {
	auth := &blockingAuthenticator{release: make(chan struct{}), next: newTestAuthenticator(t)}
	g := NewGate(auth)

	done := make(chan error, 1)
	go func() {
		_, err := g.Login(context.Background(), Credentials{Username: "user", Password: "pass"})
		done <- err
	}()

	require.Eventually(t, func() bool {
		return g.State().Status == StatusAuthenticating
	}, time.Second, time.Millisecond)
	assert.False(t, g.IsAuthenticated())

	close(auth.release)
	require.NoError(t, <-done)
	assert.True(t, g.IsAuthenticated())
}

func TestFailedLoginAfterSuccessClearsSession(t *testing.T) {
	g := NewGate(newTestAuthenticator(t))
	_, err := g.Login(context.Background(), Credentials{Username: "user", Password: "pass"})
	require.NoError(t, err)

	_, err = g.Login(context.Background(), Credentials{Username: "user", Password: "wrong"})
	require.Error(t, err)

	st := g.State()
	assert.Equal(t, StatusAnonymous, st.Status)
	assert.Nil(t, st.User)
	assert.Empty(t, st.Token)
}

func TestNewLoginClearsPreviousError(t *testing.T) {
	g := NewGate(newTestAuthenticator(t))
	_, _ = g.Login(context.Background(), Credentials{Username: "x", Password: "y"})
	require.NotEmpty(t, g.State().Error)

	_, err := g.Login(context.Background(), Credentials{Username: "user", Password: "pass"})
	require.NoError(t, err)
	assert.Empty(t, g.State().Error)
}

func TestLoginGenericFailure(t *testing.T) {
	g := NewGate(funcAuthenticator(func(ctx context.Context, creds Credentials) (Session, error) {
		return Session{}, errors.New("socket closed")
	}))

	_, err := g.Login(context.Background(), Credentials{})
	var authErr *apperr.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, MessageLoginFailed, authErr.Message)
}

func TestLoginIncompleteSessionIsRejected(t *testing.T) {
	g := NewGate(funcAuthenticator(func(ctx context.Context, creds Credentials) (Session, error) {
		return Session{User: User{Username: "user"}}, nil
	}))

	_, err := g.Login(context.Background(), Credentials{})
	require.Error(t, err)
	st := g.State()
	assert.Nil(t, st.User)
	assert.Empty(t, st.Token)
}

func TestLogout(t *testing.T) {
	g := NewGate(newTestAuthenticator(t))
	_, err := g.Login(context.Background(), Credentials{Username: "user", Password: "pass"})
	require.NoError(t, err)

	g.Logout()
	assert.Equal(t, State{Status: StatusAnonymous}, g.State())

	// Logout from anonymous and after an error also succeeds.
	g.Logout()
	_, _ = g.Login(context.Background(), Credentials{Username: "x", Password: "y"})
	g.Logout()
	assert.Equal(t, State{Status: StatusAnonymous}, g.State())
}

func TestMockAuthenticator(t *testing.T) {
	t.Run("custom credentials", func(t *testing.T) {
		auth := newTestAuthenticator(t, WithCredentials("admin", "secret", "admin@example.com"))
		s, err := auth.Authenticate(context.Background(), Credentials{Username: "admin", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", s.User.Email)

		_, err = auth.Authenticate(context.Background(), Credentials{Username: "user", Password: "pass"})
		assert.Error(t, err)
	})

	t.Run("delay honours context", func(t *testing.T) {
		auth := newTestAuthenticator(t, WithDelay(time.Hour))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := auth.Authenticate(ctx, Credentials{Username: "user", Password: "pass"})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("requires token issuer", func(t *testing.T) {
		_, err := NewMockAuthenticator(nil)
		assert.Error(t, err)
	})

	t.Run("rejects empty configured credentials", func(t *testing.T) {
		tokens, err := NewTokenIssuer("k", time.Hour)
		require.NoError(t, err)
		_, err = NewMockAuthenticator(tokens, WithCredentials("", "", ""))
		assert.Error(t, err)
	})
}

func TestTokenIssuer(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		tokens, err := NewTokenIssuer("k", time.Hour)
		require.NoError(t, err)

		token, err := tokens.Issue(User{Username: "user", Email: "user@example.com"})
		require.NoError(t, err)

		claims, err := tokens.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "user", claims.Subject)
		assert.Equal(t, "user@example.com", claims.Email)
	})

	t.Run("expired token", func(t *testing.T) {
		tokens, err := NewTokenIssuer("k", time.Minute)
		require.NoError(t, err)
		issuedAt := time.Now()
		tokens.now = func() time.Time { return issuedAt }

		token, err := tokens.Issue(User{Username: "user"})
		require.NoError(t, err)

		tokens.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
		_, err = tokens.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong key", func(t *testing.T) {
		a, err := NewTokenIssuer("a", time.Hour)
		require.NoError(t, err)
		b, err := NewTokenIssuer("b", time.Hour)
		require.NoError(t, err)

		token, err := a.Issue(User{Username: "user"})
		require.NoError(t, err)
		_, err = b.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		tokens, err := NewTokenIssuer("k", time.Hour)
		require.NoError(t, err)
		_, err = tokens.Parse("mock-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("invalid construction", func(t *testing.T) {
		_, err := NewTokenIssuer("", time.Hour)
		assert.Error(t, err)
		_, err = NewTokenIssuer("k", 0)
		assert.Error(t, err)
	})
}

func TestStore(t *testing.T) {
	created := 0
	s := NewStore(func() *Gate {
		created++
		return NewGate(nil)
	})
	defer s.Close()

	id, g := s.Create()
	assert.NotEmpty(t, id)
	assert.NotNil(t, g)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, s.Len())

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, g, got)

	_, ok = s.Get("not-a-uuid")
	assert.False(t, ok)
	_, ok = s.Get("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.False(t, ok)

	s.Delete(id)
	_, ok = s.Get(id)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestStore_IdleExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(func() *Gate { return NewGate(nil) },
		WithIdleTimeout(10*time.Minute),
		WithStoreClock(func() time.Time { return now }),
	)
	defer s.Close()

	active, _ := s.Create()
	idle, _ := s.Create()
	require.Equal(t, 2, s.Len())

	now = now.Add(8 * time.Minute)
	_, ok := s.Get(active)
	require.True(t, ok, "lookup refreshes the session")

	now = now.Add(5 * time.Minute)
	s.sweep()
	assert.Equal(t, 1, s.Len())
	_, ok = s.Get(idle)
	assert.False(t, ok)
	_, ok = s.Get(active)
	assert.True(t, ok)

	now = now.Add(11 * time.Minute)
	_, ok = s.Get(active)
	assert.False(t, ok, "expired session is not returned before the sweep runs")
	assert.Zero(t, s.Len())
}

func TestStore_MultipleClose(t *testing.T) {
	s := NewStore(func() *Gate { return nil })
	assert.NotPanics(t, func() {
		s.Close()
		s.Close()
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "anonymous", StatusAnonymous.String())
	assert.Equal(t, "authenticating", StatusAuthenticating.String())
	assert.Equal(t, "authenticated", StatusAuthenticated.String())
}
