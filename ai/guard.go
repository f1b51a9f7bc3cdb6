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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// GuardedModel decorates a ChatModel with a per-call deadline, a client-side
// rate limiter, retries for 429/5xx and a circuit breaker. Every failure it
// produces on its own is a *TransportError, so callers route timeouts and an
// open circuit the same way as an unreachable service.
type GuardedModel struct {
	inner       ChatModel
	breaker     *gobreaker.CircuitBreaker
	limiter     *rate.Limiter
	timeout     time.Duration
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// GuardOption configures a GuardedModel.
type GuardOption func(*GuardedModel) error

// WithGuardLogger sets the logger. If nil, uses slog.Default().
func WithGuardLogger(logger *slog.Logger) GuardOption {
	return func(g *GuardedModel) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger.With("component", "chat-guard")
		return nil
	}
}

var _ ChatModel = (*GuardedModel)(nil)

// NewGuardedModel wraps inner with the guard settings from cfg.
func NewGuardedModel(inner ChatModel, cfg *Config, opts ...GuardOption) (ChatModel, error) {
	if inner == nil {
		return nil, fmt.Errorf("%w: chat model is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &GuardedModel{
		inner:       inner,
		timeout:     cfg.Timeout,
		maxAttempts: cfg.MaxRetries + 1,
		baseDelay:   cfg.RetryBaseDelay,
		logger:      slog.Default().With("component", "chat-guard"),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	if cfg.RequestsPerSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	if cfg.BreakerFailures > 0 {
		failures := cfg.BreakerFailures
		g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "chat:" + cfg.Model,
			MaxRequests: 1,
			Timeout:     cfg.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			// Only transport failures count against the circuit.
			IsSuccessful: func(err error) bool {
				return err == nil || !IsTransport(err)
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				g.logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			},
		})
	}

	return g, nil
}

// Complete sends the request through the guard.
func (g *GuardedModel) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp *ChatResponse
	err := RetryWithBackoff(ctx, func() error {
		r, err := g.attempt(ctx, req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}, g.maxAttempts, g.baseDelay, isRetryable)
	if err != nil {
		if !IsFatal(err) {
			// Cancellation before an attempt started.
			err = &TransportError{Err: err}
		}
		g.logger.Debug("chat completion failed", "status", StatusCode(err), "err", err)
		return nil, err
	}
	return resp, nil
}

func (g *GuardedModel) attempt(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: err}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	call := func() (*ChatResponse, error) {
		resp, err := g.inner.Complete(callCtx, req)
		if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, &TransportError{Err: fmt.Errorf("%w after %s", ErrTimeout, g.timeout)}
		}
		if err != nil && !IsFatal(err) {
			return nil, &TransportError{Err: err}
		}
		return resp, err
	}

	if g.breaker == nil {
		return call()
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		return call()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &TransportError{Err: fmt.Errorf("%w: %w", ErrCircuitOpen, err)}
	}
	if err != nil {
		return nil, err
	}
	return out.(*ChatResponse), nil
}

func isRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Retryable()
}
