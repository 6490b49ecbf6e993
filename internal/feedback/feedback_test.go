package feedback

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mtlprog/earth/internal/apperr"
	"github.com/mtlprog/earth/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSender struct {
	calls atomic.Int32
	err   error
	gate  chan struct{}
}

func (s *countingSender) Send(ctx context.Context, form Form) error {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	return s.err
}

var validForm = Form{Name: "Ada", Email: "ada@example.com", Message: "Hello"}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		form    Form
		missing []string
	}{
		{"all empty", Form{}, []string{"name", "email", "message"}},
		{"missing name", Form{Email: "a@b.c", Message: "hi"}, []string{"name"}},
		{"missing email", Form{Name: "A", Message: "hi"}, []string{"email"}},
		{"whitespace message", Form{Name: "A", Email: "a@b.c", Message: "   "}, []string{"message"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &countingSender{}
			c := NewController(sender)

			ack, err := c.Submit(context.Background(), tt.form)
			require.Error(t, err)
			assert.False(t, ack.ClearFields)

			var valErr *apperr.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, MessageFieldsRequired, valErr.Message)
			assert.Equal(t, tt.missing, valErr.Fields)
			assert.Zero(t, sender.calls.Load())

			st := c.State()
			assert.Equal(t, StatusError, st.Status)
			assert.Equal(t, MessageFieldsRequired, st.Error)
		})
	}
}

func TestSubmitSuccess(t *testing.T) {
	sender := &countingSender{}
	c := NewController(sender)

	ack, err := c.Submit(context.Background(), validForm)
	require.NoError(t, err)
	assert.True(t, ack.ClearFields)
	assert.Equal(t, int32(1), sender.calls.Load())
	assert.Equal(t, State{Status: StatusSuccess}, c.State())
}

func TestSubmitIsSubmittingWhilePending(t *testing.T) {
	sender := &countingSender{gate: make(chan struct{})}
	c := NewController(sender)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), validForm)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return c.State().Status == StatusSubmitting
	}, time.Second, time.Millisecond)

	close(sender.gate)
	require.NoError(t, <-done)
	assert.Equal(t, StatusSuccess, c.State().Status)
}

func TestSubmitSenderFailure(t *testing.T) {
	t.Run("plain error becomes network error", func(t *testing.T) {
		c := NewController(&countingSender{err: errors.New("connection refused")})

		_, err := c.Submit(context.Background(), validForm)
		var netErr *apperr.NetworkError
		require.True(t, errors.As(err, &netErr))
		assert.Equal(t, MessageSubmitFailed, netErr.Message)
		assert.Equal(t, StatusError, c.State().Status)
	})

	t.Run("network error kept", func(t *testing.T) {
		sent := &apperr.NetworkError{Message: "Service unavailable", StatusCode: 503}
		c := NewController(&countingSender{err: sent})

		_, err := c.Submit(context.Background(), validForm)
		assert.Same(t, sent, err)
		assert.Equal(t, "Service unavailable", c.State().Error)
	})

	t.Run("new submission clears previous error", func(t *testing.T) {
		sender := &countingSender{err: errors.New("boom")}
		c := NewController(sender)
		_, _ = c.Submit(context.Background(), validForm)
		require.NotEmpty(t, c.State().Error)

		sender.err = nil
		_, err := c.Submit(context.Background(), validForm)
		require.NoError(t, err)
		assert.Empty(t, c.State().Error)
	})
}

func TestReset(t *testing.T) {
	c := NewController(&countingSender{})
	_, _ = c.Submit(context.Background(), Form{})
	c.Reset()
	assert.Equal(t, State{Status: StatusIdle}, c.State())
}

func TestSubmitRecordsMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	c := NewController(&countingSender{}, WithMetrics(m))

	_, _ = c.Submit(context.Background(), validForm)
	_, _ = c.Submit(context.Background(), Form{})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedbackSubmissions.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedbackSubmissions.WithLabelValues("error")))
}

func TestMockSender(t *testing.T) {
	t.Run("accepts complete form", func(t *testing.T) {
		assert.NoError(t, NewMockSender(0).Send(context.Background(), validForm))
	})

	t.Run("rejects incomplete form", func(t *testing.T) {
		err := NewMockSender(0).Send(context.Background(), Form{Name: "A"})
		var valErr *apperr.ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, MessageFieldsRequired, valErr.Message)
	})

	t.Run("delay honours context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		err := NewMockSender(time.Hour).Send(ctx, validForm)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("endpoint rejection maps to network error", func(t *testing.T) {
		err := toNetworkError(NewMockSender(0).Send(context.Background(), Form{}))
		var netErr *apperr.NetworkError
		require.True(t, errors.As(err, &netErr))
		assert.Equal(t, MessageFieldsRequired, netErr.Message)
		assert.Equal(t, 400, netErr.StatusCode)
	})
}

func TestNewRepository(t *testing.T) {
	t.Run("nil pool returns error", func(t *testing.T) {
		repo, err := NewRepository(nil)
		assert.Nil(t, repo)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database pool is required")
	})
}

func TestQueries(t *testing.T) {
	t.Run("insert", func(t *testing.T) {
		query, args, err := insertQuery(validForm)
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO feedback (name,email,message) VALUES ($1,$2,$3) RETURNING id", query)
		assert.Equal(t, []any{"Ada", "ada@example.com", "Hello"}, args)
	})

	t.Run("recent", func(t *testing.T) {
		query, _, err := recentQuery(0)
		require.NoError(t, err)
		assert.Equal(t, "SELECT id, name, email, message, created_at FROM feedback ORDER BY created_at DESC, id DESC LIMIT 1", query)
	})
}
