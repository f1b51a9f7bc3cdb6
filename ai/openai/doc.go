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


// Package openai provides the chat-completion backend for kehilla using the
// go-openai client against OpenAI or any OpenAI-compatible service (Ollama,
// LocalAI, vLLM).
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithHost("https://api.openai.com"), // /v1 added automatically
//	    ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    ai.WithModel("gpt-4o-mini"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	resp, err := provider.ChatModel().Complete(ctx, ai.ChatRequest{
//	    Messages:    []ai.Message{ai.System(instruction), ai.User(query)},
//	    Temperature: 0.1,
//	    MaxTokens:   2000,
//	})
//
// The model returned by the provider is wrapped in ai.GuardedModel, so calls
// carry the configured timeout, rate limit, retry and circuit breaker.
package openai
