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


// Package ai provides abstractions for the generative-text services used by
// kehilla: external institution discovery and proximity judgment.
//
// Both features reduce to a single chat-completion call, so the package is
// built around two interfaces:
//
//   - ChatModel: sends one chat-completion request and returns choices[0]
//   - AIProvider: owns a ChatModel and its lifecycle
//
// # Implementation Packages
//
//   - ai/openai: go-openai client for OpenAI and compatible APIs (default)
//   - ai/langchain: langchaingo client for local OpenAI-compatible servers
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, langchain.NewProvider) return
// INTERFACE types. Mock constructors return CONCRETE types so tests can
// inject behavior and assert on call counts.
//
// # Failure Taxonomy
//
// A ChatModel reports two kinds of failure that callers must not swallow:
//
//   - *TransportError: unreachable service, non-2xx status, timeout or an
//     open circuit. StatusCode carries the HTTP status when there was one.
//   - ErrSchema: the response had no choices[0].message.
//
// GuardedModel wraps any ChatModel with the per-call deadline, rate limiter,
// retry policy and circuit breaker described by Config. Providers apply it
// automatically.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithAPIKey(key))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	resp, err := provider.ChatModel().Complete(ctx, ai.ChatRequest{
//	    Messages: []ai.Message{ai.User(prompt)},
//	})
//	if ai.IsTransport(err) {
//	    // degrade
//	}
package ai
