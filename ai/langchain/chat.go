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


package langchain

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/poiesic/kehilla/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// langchaingo reports HTTP failures as formatted text only.
var statusPattern = regexp.MustCompile(`status code: (\d{3})`)

// ChatModel implements ai.ChatModel using a langchaingo llms.Model.
type ChatModel struct {
	client llms.Model
	logger *slog.Logger
}

var _ ai.ChatModel = (*ChatModel)(nil)

func newChatModel(config *ai.Config) (*ChatModel, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	token := config.APIKey
	if token == "" {
		token = "none"
	}
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrInvalidConfig, err)
	}
	return newChatModelWithClient(client), nil
}

func newChatModelWithClient(client llms.Model) *ChatModel {
	return &ChatModel{
		client: client,
		logger: slog.Default().With("component", "langchain-chat"),
	}
}

// NewChatModel creates an unguarded chat model from the configuration.
//
// Returns ai.ChatModel interface to enforce abstraction.
func NewChatModel(config *ai.Config) (ai.ChatModel, error) {
	return newChatModel(config)
}

// Complete sends one chat-completion request.
func (m *ChatModel) Complete(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	content := make([]llms.MessageContent, len(req.Messages))
	for i, msg := range req.Messages {
		content[i] = llms.MessageContent{
			Role: messageType(msg.Role),
			Parts: []llms.ContentPart{
				llms.TextPart(msg.Content),
			},
		}
	}

	options := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		options = append(options, llms.WithMaxTokens(req.MaxTokens))
	}

	response, err := m.client.GenerateContent(ctx, content, options...)
	if err != nil {
		return nil, transportError(err)
	}

	if len(response.Choices) < 1 || response.Choices[0] == nil {
		m.logger.Debug("no choices returned from model")
		return nil, fmt.Errorf("%w: no choices returned", ai.ErrSchema)
	}

	choice := response.Choices[0]
	return &ai.ChatResponse{
		Content:      choice.Content,
		FinishReason: choice.StopReason,
	}, nil
}

func messageType(role ai.Role) llms.ChatMessageType {
	switch role {
	case ai.RoleSystem:
		return llms.ChatMessageTypeSystem
	case ai.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

func transportError(err error) error {
	status := 0
	if m := statusPattern.FindStringSubmatch(err.Error()); m != nil {
		status, _ = strconv.Atoi(m[1])
	}
	return &ai.TransportError{StatusCode: status, Err: err}
}
