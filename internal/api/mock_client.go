package api

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of QAClient for testing
type MockClient struct {
	// Mock return values
	AnswerVal   string
	AnswerErr   error
	EndpointVal string

	// AnswerFunc overrides AnswerVal/AnswerErr when set
	AnswerFunc func(ctx context.Context, requestID, question string) (string, error)

	// Call recorders
	mu            sync.Mutex
	AnswerCalls   int
	LastQuestion  string
	LastRequestID string
	CloseCalled   bool
}

// Ensure MockClient implements QAClient
var _ QAClient = (*MockClient)(nil)

func (m *MockClient) Answer(ctx context.Context, requestID, question string) (string, error) {
	m.mu.Lock()
	m.AnswerCalls++
	m.LastQuestion = question
	m.LastRequestID = requestID
	fn := m.AnswerFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, requestID, question)
	}
	return m.AnswerVal, m.AnswerErr
}

func (m *MockClient) Endpoint() string {
	if m.EndpointVal == "" {
		return DefaultEndpoint
	}
	return m.EndpointVal
}

func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
}

// Calls returns the number of Answer calls made so far
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AnswerCalls
}
