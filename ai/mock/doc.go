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


// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.ChatModel and ai.AIProvider
// for use in unit tests. The mocks allow tests to run without external AI
// service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	resp, err := mockProvider.ChatModel().Complete(ctx, req)
//
//	// Custom behavior injection
//	mockChat := mock.NewMockChatModel().
//	    WithCompleteFunc(func(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
//	        return &ai.ChatResponse{Content: "[0, 1]"}, nil
//	    })
//
//	// Check call counts
//	count := mockChat.CallCount()
//
// # Default Behavior
//
//   - MockChatModel: Returns an empty institutions envelope
//   - MockProvider: Wraps a MockChatModel
package mock
