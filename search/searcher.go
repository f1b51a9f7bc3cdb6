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
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/kehilla/core"
	"github.com/poiesic/kehilla/directory"
	"github.com/poiesic/kehilla/proximity"
	"github.com/poiesic/kehilla/query"
	"github.com/poiesic/kehilla/scoring"
)

// DefaultPoolSize is the number of local pipelines that may run at once.
const DefaultPoolSize = 8

// Discoverer finds institutions from general world knowledge.
// A returned error is a transport or schema failure; unparseable content is
// recovered by the implementation and never surfaces here.
type Discoverer interface {
	Discover(ctx context.Context, query string) ([]core.Institution, error)
}

// ProximityFilter narrows candidates to those near the first location phrase.
// It never fails; implementations fall back to a deterministic rule set.
type ProximityFilter interface {
	Filter(ctx context.Context, candidates []core.Institution, phrases []string) []core.Institution
}

// Result is the outcome of one query.
type Result struct {
	RequestID string
	Query     string
	State     State
	// Degraded is set when the result came from the offline keyword scan.
	Degraded bool
	// Institutions holds External followed by Local, or the degraded scan.
	Institutions []core.Institution
	External     []core.Institution
	Local        []core.Institution
	// Err is the discovery failure that caused degradation.
	Err error
}

// Searcher orchestrates discovery, proximity filtering and local scoring.
// It holds no per-query state and is safe for concurrent use.
type Searcher struct {
	store      *directory.Store
	discoverer Discoverer
	proximity  ProximityFilter
	analyzer   *query.Analyzer
	pool       *ants.Pool
	poolSize   int
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPoolSize sets how many local pipelines may run concurrently.
// Default is DefaultPoolSize.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size <= 0 {
			return ErrInvalidPoolSize
		}
		s.poolSize = size
		return nil
	}
}

// WithAnalyzer replaces the default query analyzer.
func WithAnalyzer(analyzer *query.Analyzer) Option {
	return func(s *Searcher) error {
		if analyzer != nil {
			s.analyzer = analyzer
		}
		return nil
	}
}

// ruleTable is the proximity filter used when no model-backed filter is supplied.
type ruleTable struct{}

func (ruleTable) Filter(_ context.Context, candidates []core.Institution, phrases []string) []core.Institution {
	if len(phrases) == 0 {
		return candidates
	}
	return proximity.Fallback(candidates, phrases[0])
}

// NewSearcher creates a new searcher. A nil filter selects the metro rule table.
func NewSearcher(store *directory.Store, discoverer Discoverer, filter ProximityFilter, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if discoverer == nil {
		return nil, ErrDiscovererRequired
	}
	if filter == nil {
		filter = ruleTable{}
	}

	s := &Searcher{
		store:      store,
		discoverer: discoverer,
		proximity:  filter,
		analyzer:   query.NewAnalyzer(),
		poolSize:   DefaultPoolSize,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return nil, err
	}
	s.pool = pool

	return s, nil
}

// Search runs one query. An empty or whitespace query is a no-op and yields
// an idle result. The returned error is non-nil only when ctx was already done.
func (s *Searcher) Search(ctx context.Context, q string) (*Result, error) {
	return s.SearchWithMonitor(ctx, q, nil)
}

// SearchWithMonitor runs one query, reporting each stage to monitor.
func (s *Searcher) SearchWithMonitor(ctx context.Context, q string, monitor SearchMonitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		return &Result{Query: q, State: StateIdle}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	logger := s.logger.With("request_id", requestID)
	monitor.Start(requestID, trimmed)

	result := &Result{RequestID: requestID, Query: trimmed, State: StateIdle}
	s.transition(result, StateDispatching, monitor)

	localCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	localDone := make(chan []core.Institution, 1)
	task := func() {
		localDone <- s.local(localCtx, trimmed, monitor)
	}
	if err := s.pool.Submit(task); err != nil {
		logger.Warn("pool rejected local pipeline, running inline", "err", err)
		go task()
	}

	external, err := s.discoverer.Discover(ctx, trimmed)
	monitor.AfterDiscovery(external, err)
	if err != nil {
		cancel()
		<-localDone
		logger.Warn("external discovery failed, degrading to offline search", "err", err)
		result.Err = err
		result.Degraded = true
		result.Institutions = s.Degraded(trimmed)
		s.transition(result, StateDegraded, monitor)
		monitor.Finish(result)
		return result, nil
	}

	local := <-localDone
	s.transition(result, StateReconciling, monitor)

	result.External = core.TagAll(external, core.SourceExternalDiscovery)
	result.Local = local
	result.Institutions = make([]core.Institution, 0, len(result.External)+len(result.Local))
	result.Institutions = append(result.Institutions, result.External...)
	result.Institutions = append(result.Institutions, result.Local...)

	s.transition(result, StateDone, monitor)
	logger.Debug("search complete", "external", len(result.External), "local", len(result.Local))
	monitor.Finish(result)
	return result, nil
}

// local runs analysis, proximity narrowing and proximity scoring.
// Queries without a detectable place contribute nothing.
func (s *Searcher) local(ctx context.Context, q string, monitor SearchMonitor) []core.Institution {
	analysis := s.analyzer.Analyze(q)
	monitor.AfterAnalysis(analysis)
	if !analysis.HasLocation {
		return nil
	}

	candidates := s.store.All()
	nearby := s.proximity.Filter(ctx, candidates, analysis.LocationPhrases)
	monitor.AfterProximity(len(candidates), nearby)

	ranked := scoring.Rank(scoring.ModeProximity, q, analysis.SearchTerms, nearby)
	monitor.AfterScoring(ranked)
	return core.TagAll(scoring.Institutions(ranked), core.SourceLocalDatabase)
}

func (s *Searcher) transition(result *Result, to State, monitor SearchMonitor) {
	from := result.State
	result.State = to
	monitor.StateChanged(from, to)
}

// Degraded scans the whole store in open-search mode, with no location
// gating and no external call.
func (s *Searcher) Degraded(q string) []core.Institution {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	analysis := s.analyzer.Analyze(q)
	ranked := scoring.Rank(scoring.ModeOpen, q, analysis.SearchTerms, s.store.All())
	return core.TagAll(scoring.Institutions(ranked), core.SourceLocalDatabase)
}

// Keyword runs the general scorer over the whole store. A non-positive limit
// uses the general-mode default.
func (s *Searcher) Keyword(q string, limit int) []core.Institution {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = scoring.ModeGeneral.Limit()
	}
	analysis := s.analyzer.Analyze(q)
	ranked := scoring.RankLimit(scoring.ModeGeneral, q, analysis.SearchTerms, s.store.All(), limit)
	return core.TagAll(scoring.Institutions(ranked), core.SourceLocalDatabase)
}

// Release returns the worker pool. The Searcher must not be used afterwards.
func (s *Searcher) Release() {
	s.pool.Release()
}
