// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import (
	"context"
	"sync"

	"github.com/poiesic/kehilla/ai"
)

// EmptyEnvelope is the default MockChatModel response.
const EmptyEnvelope = `{"institutions": []}`

// MockChatModel is a test double for ai.ChatModel.
// It is safe for concurrent use.
type MockChatModel struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns EmptyEnvelope.
	CompleteFunc func(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error)

	mu       sync.Mutex
	requests []ai.ChatRequest
}

var _ ai.ChatModel = (*MockChatModel)(nil)

// NewMockChatModel creates a mock chat model with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{}
}

// WithCompleteFunc sets the Complete behavior and returns the mock for chaining.
func (m *MockChatModel) WithCompleteFunc(fn func(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error)) *MockChatModel {
	m.CompleteFunc = fn
	return m
}

// Responding returns a mock that answers every request with content.
func Responding(content string) *MockChatModel {
	return NewMockChatModel().WithCompleteFunc(func(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
		return &ai.ChatResponse{Content: content}, nil
	})
}

// Failing returns a mock that fails every request with err.
func Failing(err error) *MockChatModel {
	return NewMockChatModel().WithCompleteFunc(func(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
		return nil, err
	})
}

// Complete records the request and returns the configured response.
func (m *MockChatModel) Complete(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.CompleteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return &ai.ChatResponse{Content: EmptyEnvelope}, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the recorded requests in call order.
func (m *MockChatModel) Requests() []ai.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ai.ChatRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Reset clears the recorded calls and custom behavior.
func (m *MockChatModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.CompleteFunc = nil
}
