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


package search

import (
	"context"
	"io"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// BatchResult pairs a query with its outcome.
type BatchResult struct {
	Query  string
	Result *Result
	Err    error
}

// Batch runs queries on workers goroutines and returns results in input order.
// Progress is written to progress when it is non-nil. A search that returns an
// error is recorded in its slot; the batch itself fails only when the pool
// cannot be created.
func (s *Searcher) Batch(ctx context.Context, queries []string, workers int, progress io.Writer) ([]BatchResult, error) {
	if workers <= 0 {
		return nil, ErrInvalidPoolSize
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	tracker := NewProgress(progress, len(queries), max(1, len(queries)/20))
	tracker.Start()

	results := make([]BatchResult, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		results[i].Query = q
		wg.Add(1)
		run := func() {
			defer wg.Done()
			res, err := s.Search(ctx, q)
			results[i].Result = res
			results[i].Err = err
			tracker.Record(res != nil && res.Degraded)
		}
		if err := pool.Submit(run); err != nil {
			s.logger.Warn("pool rejected batch query, running inline", "query", q, "err", err)
			run()
		}
	}
	wg.Wait()
	tracker.Finish()

	done, degraded := tracker.Counts()
	s.logger.Info("batch complete", "queries", done, "degraded", degraded, "elapsed", tracker.Elapsed())
	return results, nil
}
