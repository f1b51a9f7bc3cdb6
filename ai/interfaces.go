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


package ai

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat-completion request.
type Message struct {
	Role    Role
	Content string
}

// ChatRequest is a single chat-completion call.
type ChatRequest struct {
	Messages []Message

	// Temperature is the sampling temperature. Discovery uses a low value to
	// favor factual, repeatable answers.
	Temperature float64

	// MaxTokens caps the completion length. Zero leaves the server default.
	MaxTokens int
}

// ChatResponse carries the content of choices[0].message.
type ChatResponse struct {
	Content      string
	Model        string
	FinishReason string
}

// ChatModel sends chat-completion requests to a generative-text service.
// Implementations must be safe for concurrent use.
type ChatModel interface {
	// Complete sends one request and returns the first choice.
	// Non-success HTTP outcomes and unreachable endpoints return a *TransportError.
	// A response without choices[0].message returns an error wrapping ErrSchema.
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// ChatModel returns the chat-completion service shared by discovery and
	// proximity judgment. The returned ChatModel is safe for concurrent use.
	ChatModel() ChatModel

	// Close releases resources held by the provider and its services.
	Close() error
}

// System builds a system-role message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User builds a user-role message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
