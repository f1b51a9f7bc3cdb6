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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/poiesic/kehilla/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *ai.Config {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return ai.NewConfig(
		ai.WithHost(srv.URL),
		ai.WithModel("test-model"),
		ai.WithAPIKey("test-key"),
		ai.WithMaxRetries(0, time.Millisecond),
		ai.WithRequestsPerSecond(0, 0),
		ai.WithBreaker(0, 0),
	)
}

func TestChatModel_Complete(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	config := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "[0, 2]"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
		}`))
	})

	model, err := NewChatModel(config)
	require.NoError(t, err)

	resp, err := model.Complete(context.Background(), ai.ChatRequest{
		Messages:    []ai.Message{ai.System("be brief"), ai.User("synagogue")},
		Temperature: 0.1,
		MaxTokens:   2000,
	})
	require.NoError(t, err)

	assert.Equal(t, "[0, 2]", resp.Content)
	assert.Equal(t, "test-model", resp.Model)
	assert.Equal(t, "stop", resp.FinishReason)

	assert.Equal(t, "test-model", got.Model)
	assert.InDelta(t, 0.1, got.Temperature, 0.0001)
	assert.Equal(t, 2000, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "synagogue", got.Messages[1].Content)
}

func TestChatModel_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantSchema bool
	}{
		{name: "api error", status: http.StatusInternalServerError, body: `{"error": {"message": "boom", "type": "server_error"}}`, wantStatus: 500},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error": {"message": "bad key", "type": "invalid_request_error"}}`, wantStatus: 401},
		{name: "non-json error body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantStatus: 502},
		{name: "no choices", status: http.StatusOK, body: `{"id": "x", "object": "chat.completion", "choices": []}`, wantSchema: true},
		{name: "choice without message", status: http.StatusOK, body: `{"id": "x", "choices": [{"index": 0, "finish_reason": "stop"}]}`, wantSchema: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			model, err := NewChatModel(config)
			require.NoError(t, err)

			_, err = model.Complete(context.Background(), ai.ChatRequest{Messages: []ai.Message{ai.User("q")}})
			require.Error(t, err)
			if tt.wantSchema {
				assert.ErrorIs(t, err, ai.ErrSchema)
				assert.False(t, ai.IsTransport(err))
				return
			}
			assert.True(t, ai.IsTransport(err))
			assert.Equal(t, tt.wantStatus, ai.StatusCode(err))
		})
	}
}

func TestChatModel_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	model, err := NewChatModel(ai.NewConfig(ai.WithHost(url)))
	require.NoError(t, err)

	_, err = model.Complete(context.Background(), ai.ChatRequest{Messages: []ai.Message{ai.User("q")}})
	require.Error(t, err)
	assert.True(t, ai.IsTransport(err))
	assert.Equal(t, 0, ai.StatusCode(err))
}

func TestNewProvider(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		config := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		provider, err := NewProvider(config)
		require.NoError(t, err)
		defer provider.Close()

		_, isGuarded := provider.ChatModel().(*ai.GuardedModel)
		assert.True(t, isGuarded)

		_, err = provider.ChatModel().Complete(context.Background(), ai.ChatRequest{Messages: []ai.Message{ai.User("q")}})
		assert.Equal(t, http.StatusServiceUnavailable, ai.StatusCode(err))
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewProvider(ai.NewConfig(ai.WithModel("")))
		assert.ErrorIs(t, err, ai.ErrInvalidConfig)
	})
}
