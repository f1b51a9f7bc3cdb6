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


package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/kehilla/ai"
	goopenai "github.com/sashabaranov/go-openai"
)

// ChatModel implements ai.ChatModel using the go-openai client.
type ChatModel struct {
	client *goopenai.Client
	model  string
	logger *slog.Logger
}

var _ ai.ChatModel = (*ChatModel)(nil)

// newChatModel is an internal constructor that returns the concrete type.
func newChatModel(config *ai.Config) (*ChatModel, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Local OpenAI-compatible servers accept any token.
	key := config.APIKey
	if key == "" {
		key = "none"
	}
	clientConfig := goopenai.DefaultConfig(key)
	clientConfig.BaseURL = config.Host

	return &ChatModel{
		client: goopenai.NewClientWithConfig(clientConfig),
		model:  config.Model,
		logger: slog.Default().With("component", "openai-chat"),
	}, nil
}

// NewChatModel creates an unguarded chat model from the configuration.
//
// Returns ai.ChatModel interface to enforce abstraction.
func NewChatModel(config *ai.Config) (ai.ChatModel, error) {
	return newChatModel(config)
}

// Complete sends one chat-completion request.
func (m *ChatModel) Complete(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	messages := make([]goopenai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = goopenai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	resp, err := m.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, transportError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ai.ErrSchema)
	}

	choice := resp.Choices[0]
	if missingMessage(choice.Message) {
		return nil, fmt.Errorf("%w: choice has no message", ai.ErrSchema)
	}
	m.logger.Debug("chat completion", "model", resp.Model, "finish_reason", choice.FinishReason,
		"total_tokens", resp.Usage.TotalTokens)

	return &ai.ChatResponse{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
	}, nil
}

// missingMessage reports a choice whose message object was absent from the
// response body; go-openai decodes that as the zero message.
func missingMessage(m goopenai.ChatCompletionMessage) bool {
	return m.Role == "" && m.Content == "" && len(m.MultiContent) == 0 && len(m.ToolCalls) == 0
}

// transportError maps go-openai failures onto ai.TransportError, keeping the
// HTTP status when the server answered.
func transportError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &ai.TransportError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &ai.TransportError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &ai.TransportError{Err: err}
}
