package utils

import (
	"context"
	"errors"
	"sync"
)

// MockTextResponse is a canned response for MockTextClient.
type MockTextResponse struct {
	Content string
	Err     error
}

// MockTextClient returns canned responses in FIFO order and records every
// request. An empty queue yields an error, so an unconfigured mock behaves
// like an unreachable provider.
type MockTextClient struct {
	mu        sync.Mutex
	responses []MockTextResponse
	Calls     []TextRequest
}

func NewMockTextClient(responses ...MockTextResponse) *MockTextClient {
	return &MockTextClient{responses: responses}
}

func (m *MockTextClient) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		m.mu.Unlock()
		return "", &ProviderError{Provider: "mock", Err: errors.New("no canned response")}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Content, nil
}

func (m *MockTextClient) ModelID() string {
	return "mock"
}

func (m *MockTextClient) AddResponse(resp MockTextResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

func (m *MockTextClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
