package api

import (
	"context"
	"sync"

	"github.com/monument-ai/athena/internal/models"
)

// MockClient is a mock implementation of AthenaClientInterface for testing
type MockClient struct {
	// Mock return values
	PromptVal   string
	PromptErr   error
	HealthVal   *models.HealthStatus
	HealthErr   error
	BaseURLVal  string
	PromptFunc  func(ctx context.Context, prompt string) (string, error)
	mu          sync.Mutex
	prompts     []string
	CloseCalled bool
}

// Ensure MockClient implements AthenaClientInterface
var _ AthenaClientInterface = (*MockClient)(nil)

func (m *MockClient) Prompt(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	fn := m.PromptFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return m.PromptVal, m.PromptErr
}

func (m *MockClient) RequestReply(ctx context.Context, prompt string) string {
	return ReplyText(m.Prompt(ctx, prompt))
}

func (m *MockClient) Health(ctx context.Context) (*models.HealthStatus, error) {
	return m.HealthVal, m.HealthErr
}

func (m *MockClient) BaseURL() string {
	if m.BaseURLVal == "" {
		return models.DefaultBaseURL
	}
	return m.BaseURLVal
}

func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
}

// Prompts returns every prompt received, in order
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
