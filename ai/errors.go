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
	"net/http"
)

var (
	// ErrSchema indicates a response envelope without choices[0].message.
	ErrSchema = errors.New("unexpected response envelope")

	// ErrTimeout indicates a call exceeded its per-request deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrCircuitOpen indicates the circuit breaker rejected the call.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrInvalidConfig indicates an AI configuration that failed validation.
	ErrInvalidConfig = errors.New("invalid ai config")

	// ErrInvalidMaxAttempts indicates a retry loop configured with no attempts.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)

// TransportError reports an unreachable service or a non-success HTTP status.
// StatusCode is zero when no response was received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport failure: %v", e.Err)
	}
	return fmt.Sprintf("transport failure: status %d: %v", e.StatusCode, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is worth another attempt:
// rate limiting, server errors and dropped connections. Timeouts are final.
func (e *TransportError) Retryable() bool {
	switch {
	case e.StatusCode == 0:
		return !errors.Is(e.Err, ErrCircuitOpen) &&
			!errors.Is(e.Err, ErrTimeout) &&
			!errors.Is(e.Err, context.Canceled)
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	default:
		return e.StatusCode >= http.StatusInternalServerError
	}
}

// IsTransport reports whether err is, or wraps, a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusCode extracts the HTTP status carried by a transport failure, or zero.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}

// IsFatal reports whether err must escape a recovery path: transport and schema
// failures of the discovery call.
func IsFatal(err error) bool {
	return IsTransport(err) || errors.Is(err, ErrSchema)
}
