package testutil

import (
	"context"
	"sync"
)

// MockFetcher is a thread-safe mock implementation of acquire.Fetcher for testing
type MockFetcher struct {
	mu       sync.Mutex
	body     []byte
	fetchErr error
	fetched  []string
}

// NewMockFetcher creates a mock fetcher that returns body and err
func NewMockFetcher(body []byte, err error) *MockFetcher {
	return &MockFetcher{
		body:     body,
		fetchErr: err,
	}
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fetched = append(m.fetched, url)
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return append([]byte(nil), m.body...), nil
}

// GetFetchedURLs returns a copy of every URL passed to Fetch
func (m *MockFetcher) GetFetchedURLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]string, len(m.fetched))
	copy(result, m.fetched)
	return result
}

// GetFetchCallCount returns how many times Fetch was called
func (m *MockFetcher) GetFetchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fetched)
}

// FailingWriter is an io.Writer that accepts a fixed number of writes and
// then returns Err.
type FailingWriter struct {
	mu      sync.Mutex
	allowed int
	Err     error
	writes  []string
}

// NewFailingWriter creates a writer that fails after allowed writes
func NewFailingWriter(allowed int, err error) *FailingWriter {
	return &FailingWriter{
		allowed: allowed,
		Err:     err,
	}
}

// Write implements io.Writer
func (w *FailingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.writes) >= w.allowed {
		return 0, w.Err
	}
	w.writes = append(w.writes, string(p))
	return len(p), nil
}

// GetWrites returns a copy of the successful writes
func (w *FailingWriter) GetWrites() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	result := make([]string, len(w.writes))
	copy(result, w.writes)
	return result
}
