// Package feedback validates and submits the contact form.
package feedback

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/mtlprog/earth/internal/apperr"
	"github.com/mtlprog/earth/internal/metrics"
)

// MessageFieldsRequired is the local validation message.
const MessageFieldsRequired = "All fields are required!"

// MessageSubmitFailed is shown when a sender fails without a message of its own.
const MessageSubmitFailed = "Failed to send message"

// Form is a contact form submission.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Trimmed returns f with surrounding whitespace removed from every field.
func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Validate reports missing fields as *apperr.ValidationError.
func (f Form) Validate() error {
	var missing []string
	if f.Name == "" {
		missing = append(missing, "name")
	}
	if f.Email == "" {
		missing = append(missing, "email")
	}
	if f.Message == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return &apperr.ValidationError{Message: MessageFieldsRequired, Fields: missing}
	}
	return nil
}

// Ack is returned by a successful submission.
type Ack struct {
	ClearFields bool `json:"clearFields"`
}

// Sender delivers a validated form.
type Sender interface {
	Send(ctx context.Context, form Form) error
}

// Status is the controller's lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSubmitting:
		return "submitting"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State is a snapshot of a controller.
type State struct {
	Status Status
	Error  string
}

// Controller runs one visitor's form submissions.
type Controller struct {
	sender  Sender
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	status  Status
	lastErr error
}

// ControllerOption is a functional option for configuring a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithMetrics records submission outcomes.
func WithMetrics(m *metrics.Metrics) ControllerOption {
	return func(c *Controller) {
		c.metrics = m
	}
}

// NewController creates an idle controller.
func NewController(sender Sender, opts ...ControllerOption) *Controller {
	c := &Controller{
		sender: sender,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit validates form locally, then hands it to the sender. Validation failures never reach
// the sender and return *apperr.ValidationError; sender failures return *apperr.NetworkError.
func (c *Controller) Submit(ctx context.Context, form Form) (Ack, error) {
	form = form.Trimmed()

	if err := form.Validate(); err != nil {
		c.settle(err)
		c.metrics.Feedback(err)
		return Ack{}, err
	}

	c.mu.Lock()
	c.status = StatusSubmitting
	c.lastErr = nil
	c.mu.Unlock()

	err := c.sender.Send(ctx, form)
	if err != nil {
		err = toNetworkError(err)
		c.logger.Warn("feedback submission failed", "error", err)
	}
	c.settle(err)
	c.metrics.Feedback(err)
	if err != nil {
		return Ack{}, err
	}
	return Ack{ClearFields: true}, nil
}

func (c *Controller) settle(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.status = StatusError
		c.lastErr = err
		return
	}
	c.status = StatusSuccess
	c.lastErr = nil
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{Status: c.status}
	if c.lastErr != nil {
		st.Error = apperr.Message(c.lastErr)
	}
	return st
}

// Reset returns the controller to idle.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusIdle
	c.lastErr = nil
}

func toNetworkError(err error) error {
	var netErr *apperr.NetworkError
	if errors.As(err, &netErr) {
		return netErr
	}
	var valErr *apperr.ValidationError
	if errors.As(err, &valErr) {
		return &apperr.NetworkError{Message: valErr.Message, StatusCode: http.StatusBadRequest, Err: err}
	}
	return &apperr.NetworkError{Message: MessageSubmitFailed, Err: err}
}
