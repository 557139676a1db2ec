package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"rjboard/internal/upstream"
)

// stubDataService is an httptest-backed stand-in for the data service. It
// records every request so tests can assert which calls were (not) made.
type stubDataService struct {
	mu       sync.Mutex
	requests []stubRequest
	handler  http.HandlerFunc
	server   *httptest.Server
}

type stubRequest struct {
	Method string
	Path   string
}

func newStubDataService(t *testing.T, handler http.HandlerFunc) (*stubDataService, *upstream.Client) {
	t.Helper()
	stub := &stubDataService{handler: handler}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.requests = append(stub.requests, stubRequest{Method: r.Method, Path: r.URL.Path})
		stub.mu.Unlock()
		stub.handler(w, r)
	}))
	t.Cleanup(stub.server.Close)
	return stub, upstream.NewClient(stub.server.URL, 5*time.Second)
}

func (s *stubDataService) calls() []stubRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stubRequest(nil), s.requests...)
}

func (s *stubDataService) callsTo(method, path string) int {
	count := 0
	for _, req := range s.calls() {
		if req.Method == method && req.Path == path {
			count++
		}
	}
	return count
}

func writeEnvelope(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
