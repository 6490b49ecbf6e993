package countries

import (
	"context"
	"net/http"
	"sync"

	"github.com/mtlprog/earth/internal/apperr"
)

// Stub is an in-memory Fetcher keyed by request path. Unknown paths answer 404.
// It counts calls so tests can assert de-duplication.
type Stub struct {
	mu        sync.Mutex
	responses map[string][]Country
	errs      map[string]error
	gates     map[string]chan struct{}
	calls     map[string]int
}

// NewStub creates an empty stub.
func NewStub() *Stub {
	return &Stub{
		responses: make(map[string][]Country),
		errs:      make(map[string]error),
		gates:     make(map[string]chan struct{}),
		calls:     make(map[string]int),
	}
}

// Respond makes requests for req's path return list.
func (s *Stub) Respond(req Request, list []Country) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[req.Path] = list
	delete(s.errs, req.Path)
	return s
}

// Fail makes requests for req's path return err.
func (s *Stub) Fail(req Request, err error) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[req.Path] = err
	return s
}

// Hold blocks requests for req's path until the returned release func is called.
func (s *Stub) Hold(req Request) (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gates[req.Path] = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

// Calls returns how many times req's path was fetched.
func (s *Stub) Calls(req Request) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[req.Path]
}

// Fetch implements Fetcher.
func (s *Stub) Fetch(ctx context.Context, req Request) ([]Country, error) {
	s.mu.Lock()
	s.calls[req.Path]++
	gate := s.gates[req.Path]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &apperr.NetworkError{Message: failureMessage(req), Err: ctx.Err()}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.errs[req.Path]; ok {
		return nil, err
	}
	list, ok := s.responses[req.Path]
	if !ok {
		return nil, &apperr.NetworkError{Message: notFoundMessage(req), StatusCode: http.StatusNotFound}
	}
	return append([]Country(nil), list...), nil
}
