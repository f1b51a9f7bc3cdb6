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

import (
	"fmt"
	"strings"
	"time"
)

// Supported chat backends.
const (
	ProviderOpenAI    = "openai"
	ProviderLangChain = "langchain"
)

// Config holds configuration for AI service providers.
type Config struct {
	// Provider selects the chat backend: "openai" (go-openai) or "langchain".
	Provider string

	// Host is the base URL of the OpenAI-compatible chat-completion API.
	// Example: "https://api.openai.com/v1", "http://localhost:11434/v1"
	Host string

	// APIKey is sent as a bearer token. Local servers usually accept any value.
	APIKey string

	// Model is the chat model identifier.
	// Example: "gpt-4o-mini", "qwen2.5:7b"
	Model string

	// Timeout bounds every call. Expiry is reported as a transport failure.
	// Default: 12s
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the client-side rate limiter.
	// A non-positive rate disables limiting.
	RequestsPerSecond float64
	Burst             int

	// MaxRetries is the number of extra attempts after a retryable failure
	// (429 or 5xx). Default: 1
	MaxRetries int

	// RetryBaseDelay is the first backoff delay; it doubles on each retry.
	RetryBaseDelay time.Duration

	// BreakerFailures is the number of consecutive transport failures that
	// opens the circuit. Zero disables the breaker.
	BreakerFailures uint32

	// BreakerCooldown is how long the circuit stays open before probing.
	BreakerCooldown time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider selects the chat backend.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithHost sets the chat service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithModel sets the chat model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithRequestsPerSecond configures the rate limiter.
func WithRequestsPerSecond(rps float64, burst int) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
		c.Burst = burst
	}
}

// WithMaxRetries sets the retry budget and the first backoff delay.
func WithMaxRetries(n int, baseDelay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = n
		c.RetryBaseDelay = baseDelay
	}
}

// WithBreaker configures the circuit breaker.
func WithBreaker(failures uint32, cooldown time.Duration) ConfigOption {
	return func(c *Config) {
		c.BreakerFailures = failures
		c.BreakerCooldown = cooldown
	}
}

// DefaultConfig returns a Config with defaults for the hosted OpenAI API.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Host:              "https://api.openai.com/v1",
		Model:             "gpt-4o-mini",
		Timeout:           12 * time.Second,
		RequestsPerSecond: 2,
		Burst:             4,
		MaxRetries:        1,
		RetryBaseDelay:    250 * time.Millisecond,
		BreakerFailures:   3,
		BreakerCooldown:   30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434"),
//	    WithModel("qwen2.5:7b"),
//	    WithProvider(ProviderLangChain),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Provider {
	case ProviderOpenAI, ProviderLangChain:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}
	if c.Host == "" {
		return fmt.Errorf("%w: Host is required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: Model is required", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: Timeout must be positive", ErrInvalidConfig)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: MaxRetries must not be negative", ErrInvalidConfig)
	}
	if c.RequestsPerSecond > 0 && c.Burst < 1 {
		return fmt.Errorf("%w: Burst must be at least 1 when rate limiting", ErrInvalidConfig)
	}
	return nil
}
