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


package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/poiesic/kehilla/ai"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. KEHILLA_AI_MODEL.
const EnvPrefix = "KEHILLA"

var (
	// ErrReadConfig is returned when the config file cannot be read or parsed.
	ErrReadConfig = errors.New("unable to read config file")

	// ErrInvalid is returned for settings that fail validation.
	ErrInvalid = errors.New("invalid configuration")
)

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Data   DataConfig   `mapstructure:"data"`
	AI     AIConfig     `mapstructure:"ai"`
	Search SearchConfig `mapstructure:"search"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// DataConfig names where institutions come from. When DB is set the badger
// repository is read; otherwise Document is loaded, or the bundled sample
// when both are empty.
type DataConfig struct {
	DB       string `mapstructure:"db"`
	Document string `mapstructure:"document"`
}

type AIConfig struct {
	Provider          string        `mapstructure:"provider"` // openai, langchain
	Host              string        `mapstructure:"host"`
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryBaseDelay    time.Duration `mapstructure:"retry_base_delay"`
	BreakerFailures   uint32        `mapstructure:"breaker_failures"`
	BreakerCooldown   time.Duration `mapstructure:"breaker_cooldown"`
}

type SearchConfig struct {
	PoolSize           int  `mapstructure:"pool_size"`
	ProximityChunkSize int  `mapstructure:"proximity_chunk_size"`
	ProximityWorkers   int  `mapstructure:"proximity_workers"`
	TextualFallback    bool `mapstructure:"textual_fallback"`
	// ModelProximity enables the model-backed proximity judgment. When false
	// only the metro rule table is used.
	ModelProximity bool `mapstructure:"model_proximity"`
}

// Load reads configuration. An empty path skips the file; the format is
// taken from the file extension (yaml, toml, json).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrReadConfig, path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without consulting the
// environment or any file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	d := ai.DefaultConfig()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.addr", "localhost:8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("data.db", "")
	v.SetDefault("data.document", "")

	v.SetDefault("ai.provider", d.Provider)
	v.SetDefault("ai.host", d.Host)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", d.Model)
	v.SetDefault("ai.timeout", d.Timeout)
	v.SetDefault("ai.requests_per_second", d.RequestsPerSecond)
	v.SetDefault("ai.burst", d.Burst)
	v.SetDefault("ai.max_retries", d.MaxRetries)
	v.SetDefault("ai.retry_base_delay", d.RetryBaseDelay)
	v.SetDefault("ai.breaker_failures", d.BreakerFailures)
	v.SetDefault("ai.breaker_cooldown", d.BreakerCooldown)

	v.SetDefault("search.pool_size", 8)
	v.SetDefault("search.proximity_chunk_size", 100)
	v.SetDefault("search.proximity_workers", 4)
	v.SetDefault("search.textual_fallback", true)
	v.SetDefault("search.model_proximity", true)
}

// Validate checks settings that are not validated elsewhere.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	if c.Search.PoolSize <= 0 {
		return fmt.Errorf("%w: search.pool_size must be positive", ErrInvalid)
	}
	if c.Search.ProximityChunkSize <= 0 || c.Search.ProximityWorkers <= 0 {
		return fmt.Errorf("%w: proximity chunk size and workers must be positive", ErrInvalid)
	}
	return nil
}

// AIConfig converts the ai section into a validated *ai.Config.
func (c *Config) AIConfig() (*ai.Config, error) {
	cfg := ai.NewConfig(
		ai.WithProvider(c.AI.Provider),
		ai.WithHost(c.AI.Host),
		ai.WithAPIKey(c.AI.APIKey),
		ai.WithModel(c.AI.Model),
		ai.WithTimeout(c.AI.Timeout),
		ai.WithRequestsPerSecond(c.AI.RequestsPerSecond, c.AI.Burst),
		ai.WithMaxRetries(c.AI.MaxRetries, c.AI.RetryBaseDelay),
		ai.WithBreaker(c.AI.BreakerFailures, c.AI.BreakerCooldown),
	)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
