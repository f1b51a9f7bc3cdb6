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


package proximity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/kehilla/ai"
	"github.com/poiesic/kehilla/core"
)

// DefaultChunkSize is the number of candidates enumerated in one judgment prompt.
const DefaultChunkSize = 100

// Filter decides which candidates are near the primary location.
type Filter struct {
	chat      ai.ChatModel
	chunkSize int
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Filter.
type Option func(*Filter) error

// WithLogger sets the logger. If nil, uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filter) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger.With("component", "proximity")
		return nil
	}
}

// WithChunkSize sets how many candidates go into one prompt.
func WithChunkSize(size int) Option {
	return func(f *Filter) error {
		if size < 1 {
			size = DefaultChunkSize
		}
		f.chunkSize = size
		return nil
	}
}

// WithPoolSize sets the number of judgment prompts in flight at once.
func WithPoolSize(size int) Option {
	return func(f *Filter) error {
		if size < 1 {
			size = 1
		}
		if f.pool != nil {
			f.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		f.pool = pool
		return nil
	}
}

// NewFilter creates a proximity filter. A nil chat model makes every call use
// the rule-table fallback.
func NewFilter(chat ai.ChatModel, opts ...Option) (*Filter, error) {
	pool, err := ants.NewPool(4)
	if err != nil {
		return nil, err
	}

	f := &Filter{
		chat:      chat,
		chunkSize: DefaultChunkSize,
		pool:      pool,
		logger:    slog.Default().With("component", "proximity"),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			f.Release()
			return nil, err
		}
	}
	return f, nil
}

// Filter returns the subset of candidates near phrases[0], in input order.
// Inputs are never modified. Judgment failures of any kind fall back to the
// rule table and are not reported.
func (f *Filter) Filter(ctx context.Context, candidates []core.Institution, phrases []string) []core.Institution {
	if len(phrases) == 0 || len(candidates) == 0 {
		return candidates
	}
	primary := strings.TrimSpace(phrases[0])
	if len(phrases) > 1 {
		f.logger.Debug("using first location phrase only", "primary", primary, "ignored", phrases[1:])
	}

	if f.chat == nil {
		return Fallback(candidates, primary)
	}

	selected, err := f.judge(ctx, candidates, primary)
	if err != nil {
		f.logger.Warn("proximity judgment failed, using rule table",
			"primary", primary, "metro", MetroName(primary), "err", err)
		return Fallback(candidates, primary)
	}
	f.logger.Debug("proximity judgment", "primary", primary, "candidates", len(candidates), "selected", len(selected))
	return selected
}

type chunkResult struct {
	indices []int
	err     error
}

func (f *Filter) judge(ctx context.Context, candidates []core.Institution, primary string) ([]core.Institution, error) {
	var chunks [][]core.Institution
	for start := 0; start < len(candidates); start += f.chunkSize {
		end := min(start+f.chunkSize, len(candidates))
		chunks = append(chunks, candidates[start:end])
	}

	results := make([]chunkResult, len(chunks))
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			indices, err := f.judgeChunk(ctx, chunk, primary)
			results[i] = chunkResult{indices: indices, err: err}
		}
		if err := f.pool.Submit(task); err != nil {
			// Pool released or overloaded; run inline.
			task()
		}
	}
	wg.Wait()

	var errs []error
	picked := make([]bool, len(candidates))
	for i, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		offset := i * f.chunkSize
		for _, idx := range r.indices {
			// Out-of-range indices are ignored.
			if idx >= 0 && idx < len(chunks[i]) {
				picked[offset+idx] = true
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	selected := []core.Institution{}
	for i, ok := range picked {
		if ok {
			selected = append(selected, candidates[i])
		}
	}
	return selected, nil
}

func (f *Filter) judgeChunk(ctx context.Context, chunk []core.Institution, primary string) ([]int, error) {
	resp, err := f.chat.Complete(ctx, ai.ChatRequest{
		Messages:    []ai.Message{ai.User(buildPrompt(primary, chunk))},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return ParseIndices(resp.Content)
}

// Release releases the worker pool.
func (f *Filter) Release() {
	if f.pool != nil {
		f.pool.Release()
	}
}
