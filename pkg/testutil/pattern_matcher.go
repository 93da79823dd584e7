package testutil

import (
	"sync"
)

// MockMatcher is a mock implementation of filter.Matcher for testing.
// Texts listed in results match and map to the given output; everything
// else misses.
type MockMatcher struct {
	mu      sync.Mutex
	results map[string]string
	stages  int
	inputs  []string
}

// NewMockMatcher creates a new mock matcher reporting stages as its length
func NewMockMatcher(stages int, results map[string]string) *MockMatcher {
	if results == nil {
		results = map[string]string{}
	}
	return &MockMatcher{
		results: results,
		stages:  stages,
	}
}

// Match implements the Matcher interface
func (m *MockMatcher) Match(text string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, text)
	out, ok := m.results[text]
	return out, ok
}

// Len implements the Matcher interface
func (m *MockMatcher) Len() int {
	return m.stages
}

// GetInputs returns the texts passed to Match, in call order
func (m *MockMatcher) GetInputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]string, len(m.inputs))
	copy(result, m.inputs)
	return result
}

// GetMatchCallCount returns how many times Match was called
func (m *MockMatcher) GetMatchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}
