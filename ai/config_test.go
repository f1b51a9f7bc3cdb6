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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Host)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with local server", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderLangChain),
			WithHost("http://localhost:11434"),
			WithModel("qwen2.5:7b"),
			WithAPIKey("ollama"),
		)

		assert.Equal(t, ProviderLangChain, cfg.Provider)
		assert.Equal(t, "http://localhost:11434", cfg.Host)
		assert.Equal(t, "qwen2.5:7b", cfg.Model)
		assert.Equal(t, "ollama", cfg.APIKey)
	})

	t.Run("with guard settings", func(t *testing.T) {
		cfg := NewConfig(
			WithTimeout(5*time.Second),
			WithRequestsPerSecond(10, 20),
			WithMaxRetries(3, time.Second),
			WithBreaker(5, time.Minute),
		)

		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, 10.0, cfg.RequestsPerSecond)
		assert.Equal(t, 20, cfg.Burst)
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.Equal(t, time.Second, cfg.RetryBaseDelay)
		assert.Equal(t, uint32(5), cfg.BreakerFailures)
		assert.Equal(t, time.Minute, cfg.BreakerCooldown)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{name: "already has /v1", host: "http://localhost:11434/v1", expected: "http://localhost:11434/v1"},
		{name: "missing /v1", host: "http://localhost:11434", expected: "http://localhost:11434/v1"},
		{name: "has trailing slash", host: "http://localhost:11434/", expected: "http://localhost:11434/v1"},
		{name: "empty host", host: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Host: tt.host, Provider: " OpenAI "}
			cfg.Normalize()

			assert.Equal(t, tt.expected, cfg.Host)
			assert.Equal(t, ProviderOpenAI, cfg.Provider)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "no api key is fine", mutate: func(c *Config) { c.APIKey = "" }},
		{name: "unknown provider", mutate: func(c *Config) { c.Provider = "bard" }, wantErr: true},
		{name: "missing host", mutate: func(c *Config) { c.Host = "" }, wantErr: true},
		{name: "missing model", mutate: func(c *Config) { c.Model = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: true},
		{name: "negative retries", mutate: func(c *Config) { c.MaxRetries = -1 }, wantErr: true},
		{name: "rate without burst", mutate: func(c *Config) { c.Burst = 0 }, wantErr: true},
		{name: "limiter disabled", mutate: func(c *Config) {
			c.RequestsPerSecond = 0
			c.Burst = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateNormalizesHost(t *testing.T) {
	cfg := NewConfig(WithHost("http://localhost:8080/"))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8080/v1", cfg.Host)
}
