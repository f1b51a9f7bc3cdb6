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


package discovery

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/kehilla/ai"
	"github.com/poiesic/kehilla/core"
)

// Adapter runs external discovery against a chat model.
type Adapter struct {
	chat        ai.ChatModel
	temperature float64
	maxTokens   int
	textual     bool
	logger      *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter) error

// WithLogger sets the logger. If nil, uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger.With("component", "discovery")
		return nil
	}
}

// WithTextualFallback enables or disables the line-oriented parser for
// replies that are not structured. Disabled, such replies yield no records.
func WithTextualFallback(enabled bool) Option {
	return func(a *Adapter) error {
		a.textual = enabled
		return nil
	}
}

// WithMaxTokens overrides the output-token ceiling.
func WithMaxTokens(n int) Option {
	return func(a *Adapter) error {
		a.maxTokens = n
		return nil
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) Option {
	return func(a *Adapter) error {
		a.temperature = t
		return nil
	}
}

// NewAdapter creates a discovery adapter.
func NewAdapter(chat ai.ChatModel, opts ...Option) (*Adapter, error) {
	if chat == nil {
		return nil, ErrChatModelRequired
	}

	a := &Adapter{
		chat:        chat,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		textual:     true,
		logger:      slog.Default().With("component", "discovery"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Call sends the discovery request and classifies the outcome.
func (a *Adapter) Call(ctx context.Context, query string) Response {
	resp, err := a.chat.Complete(ctx, ai.ChatRequest{
		Messages: []ai.Message{
			ai.System(systemInstruction),
			ai.User(userMessage(query)),
		},
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		return TransportFailure{Err: err}
	}
	return Classify(resp.Content)
}

// Resolve converts a classified response to institutions. Only a
// TransportFailure produces an error.
func (a *Adapter) Resolve(resp Response) ([]core.Institution, error) {
	switch r := resp.(type) {
	case Structured:
		if r.Repaired {
			a.logger.Debug("discovery response parsed after repair", "count", len(r.Records))
		}
		return Institutions(r.Records), nil

	case RawText:
		if !a.textual {
			a.logger.Warn("discovery response is not structured, textual fallback disabled")
			return []core.Institution{}, nil
		}
		out := ParseTextualResponse(r.Text)
		a.logger.Warn("discovery response is not structured, used textual parser",
			"count", len(out), "preview", preview(r.Text))
		return out, nil

	case TransportFailure:
		a.logger.Error("discovery request failed", "status", ai.StatusCode(r.Err), "err", r.Err)
		return nil, r.Err

	default:
		return []core.Institution{}, nil
	}
}

// Discover returns institutions for the query, all tagged external.
// Transport and schema failures are returned; parse failures are not.
func (a *Adapter) Discover(ctx context.Context, query string) ([]core.Institution, error) {
	return a.Resolve(a.Call(ctx, query))
}

func preview(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
