package services

import (
	"context"
	"sync"

	"github.com/hazelcreek/fable-engine/pkg/chat"
)

// MockLLM is a scriptable LLMService for tests.
type MockLLM struct {
	InitModelFunc    func(ctx context.Context, modelName string) error
	ChatFunc         func(ctx context.Context, messages []chat.Message) (*chat.Response, error)
	IsModelReadyFunc func(ctx context.Context, modelName string) (bool, error)

	// Call tracking.
	InitModelCalls []string
	ChatCalls      [][]chat.Message

	mu sync.Mutex // protects all fields above
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelCalls = append(m.InitModelCalls, modelName)
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

func (m *MockLLM) Chat(ctx context.Context, messages []chat.Message) (*chat.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCalls = append(m.ChatCalls, messages)
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}
	return &chat.Response{Text: "Mock response"}, nil
}

func (m *MockLLM) IsModelReady(ctx context.Context, modelName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsModelReadyFunc != nil {
		return m.IsModelReadyFunc(ctx, modelName)
	}
	return true, nil
}

// SetChatError scripts the mock to fail every completion.
func (m *MockLLM) SetChatError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, messages []chat.Message) (*chat.Response, error) {
		return nil, err
	}
}

// SetChatText scripts the mock to return fixed text.
func (m *MockLLM) SetChatText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, messages []chat.Message) (*chat.Response, error) {
		return &chat.Response{Text: text}, nil
	}
}

// ChatCallCount returns how many completions were requested.
func (m *MockLLM) ChatCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ChatCalls)
}
