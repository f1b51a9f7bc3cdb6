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

import "github.com/poiesic/kehilla/ai"

// MockProvider is a test double for ai.AIProvider.
type MockProvider struct {
	chat   *MockChatModel
	closed bool
}

// NewMockProvider creates a new mock provider with a default mock chat model.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockChatModel() to access the concrete type for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{chat: NewMockChatModel()}
}

// NewMockProviderWithChatModel creates a mock provider around a custom mock.
func NewMockProviderWithChatModel(chat *MockChatModel) ai.AIProvider {
	return &MockProvider{chat: chat}
}

// ChatModel returns the mock chat model.
func (p *MockProvider) ChatModel() ai.ChatModel {
	return p.chat
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockChatModel returns the underlying mock for test assertions.
func (p *MockProvider) GetMockChatModel() *MockChatModel {
	return p.chat
}
