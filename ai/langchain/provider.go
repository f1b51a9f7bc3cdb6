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
	"log/slog"

	"github.com/poiesic/kehilla/ai"
)

// Provider implements ai.AIProvider on top of langchaingo.
type Provider struct {
	chat   ai.ChatModel
	logger *slog.Logger
}

// NewProvider creates a new AI provider with a langchaingo chat model wrapped
// in ai.GuardedModel.
//
// Returns ai.AIProvider interface to enforce abstraction.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	chat, err := newChatModel(config)
	if err != nil {
		return nil, err
	}

	guarded, err := ai.NewGuardedModel(chat, config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		chat:   guarded,
		logger: slog.Default().With("component", "langchain-provider"),
	}, nil
}

// ChatModel returns the guarded chat-completion service.
func (p *Provider) ChatModel() ai.ChatModel {
	return p.chat
}

// Close is a no-op; the langchaingo client holds no resources.
func (p *Provider) Close() error {
	p.logger.Debug("closing langchain provider")
	return nil
}
