package upload

import (
	"context"
	"sync"
)

// StubTransport is a test transport that records sends and returns a
// canned response or error. Tracks call statistics for assertions.
type StubTransport struct {
	mu sync.Mutex

	// Response is returned from Send when Err is nil.
	Response *Response
	// Err, when set, is returned from every Send.
	Err error

	// Sends stores every SendRequest for inspection.
	Sends []*SendRequest
	// Closed indicates whether Close was called.
	Closed bool
}

// Send records the request and returns the canned result.
func (s *StubTransport) Send(_ context.Context, req *SendRequest) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sends = append(s.Sends, req)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Response, nil
}

// Close marks the stub closed.
func (s *StubTransport) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// SendCount returns the number of Send calls.
func (s *StubTransport) SendCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Sends)
}

// Verify StubTransport implements Transport.
var _ Transport = (*StubTransport)(nil)
