package query

import (
	"errors"
	"time"

	"github.com/mtlprog/earth/internal/apperr"
)

// ErrNoKey is returned by Fetch when the key is empty, e.g. a detail lookup without a name.
var ErrNoKey = errors.New("query: empty cache key")

// Status is the lifecycle state of a cache entry.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Entry is a snapshot of one cached fetch. Data is set only on success, Err only on error.
type Entry[T any] struct {
	Key       string
	Status    Status
	Data      T
	Err       error
	UpdatedAt time.Time
}

// Message returns the displayable error message, or "" when the entry has not failed.
func (e Entry[T]) Message() string {
	if e.Status != StatusError {
		return ""
	}
	return apperr.Message(e.Err)
}

// Settled reports whether the entry reached success or error.
func (e Entry[T]) Settled() bool {
	return e.Status == StatusSuccess || e.Status == StatusError
}

// Summary is a data-free view of an entry for diagnostics.
type Summary struct {
	Key       string    `json:"key"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e Entry[T]) summary() Summary {
	return Summary{
		Key:       e.Key,
		Status:    e.Status.String(),
		Error:     e.Message(),
		UpdatedAt: e.UpdatedAt,
	}
}
