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


// Package kehilla wires the institution store, the chat backend and the
// search orchestrator into one Directory.
package kehilla

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/kehilla/ai"
	"github.com/poiesic/kehilla/ai/langchain"
	"github.com/poiesic/kehilla/ai/openai"
	"github.com/poiesic/kehilla/core"
	"github.com/poiesic/kehilla/directory"
	"github.com/poiesic/kehilla/discovery"
	"github.com/poiesic/kehilla/proximity"
	"github.com/poiesic/kehilla/search"
	"github.com/poiesic/kehilla/storage"
	"github.com/poiesic/kehilla/storage/badger"
)

// ErrEmptyDatabase is returned when a database holds no institutions.
var ErrEmptyDatabase = errors.New("database holds no institutions; run import first")

// Directory owns the immutable institution store and everything a search
// needs. It is safe for concurrent use.
type Directory struct {
	backend   *badger.Backend
	repo      storage.InstitutionRepository
	store     *directory.Store
	provider  ai.AIProvider
	proximity *proximity.Filter
	searcher  *search.Searcher
	logger    *slog.Logger
}

// Option configures a Directory.
type Option func(*options)

type options struct {
	aiConfig        *ai.Config
	provider        ai.AIProvider
	dbPath          string
	documentPath    string
	store           *directory.Store
	logger          *slog.Logger
	poolSize        int
	chunkSize       int
	proximityPool   int
	textualFallback bool
	modelProximity  bool
}

// WithAIConfig sets the chat backend configuration. Default is ai.DefaultConfig().
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithProvider supplies a ready-made provider instead of building one from the AI config.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithDatabase loads institutions from a badger database directory.
func WithDatabase(path string) Option {
	return func(o *options) {
		o.dbPath = path
	}
}

// WithDocument loads institutions from a storage-form JSON document.
func WithDocument(path string) Option {
	return func(o *options) {
		o.documentPath = path
	}
}

// WithStore uses an already built store.
func WithStore(store *directory.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSearchPoolSize bounds concurrently running local pipelines.
func WithSearchPoolSize(size int) Option {
	return func(o *options) {
		o.poolSize = size
	}
}

// WithProximity sets the judgment chunk size and worker count.
func WithProximity(chunkSize, workers int) Option {
	return func(o *options) {
		o.chunkSize = chunkSize
		o.proximityPool = workers
	}
}

// WithModelProximity toggles the model-backed proximity judgment. When
// disabled only the metro rule table is used. Default is enabled.
func WithModelProximity(enabled bool) Option {
	return func(o *options) {
		o.modelProximity = enabled
	}
}

// WithTextualFallback toggles recovery of non-JSON discovery replies. Default is enabled.
func WithTextualFallback(enabled bool) Option {
	return func(o *options) {
		o.textualFallback = enabled
	}
}

// NewProvider builds the chat provider selected by cfg.Provider.
func NewProvider(cfg *ai.Config) (ai.AIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ai.ProviderLangChain:
		return langchain.NewProvider(cfg)
	default:
		return openai.NewProvider(cfg)
	}
}

// Open builds a Directory. Institutions come from, in order of preference,
// WithStore, WithDatabase, WithDocument, or the bundled sample document.
func Open(ctx context.Context, opts ...Option) (*Directory, error) {
	o := &options{
		aiConfig:        ai.DefaultConfig(),
		logger:          slog.Default(),
		poolSize:        search.DefaultPoolSize,
		chunkSize:       proximity.DefaultChunkSize,
		proximityPool:   4,
		textualFallback: true,
		modelProximity:  true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	d := &Directory{logger: o.logger}
	if err := d.loadStore(ctx, o); err != nil {
		d.Close()
		return nil, err
	}

	provider := o.provider
	if provider == nil {
		var err error
		provider, err = NewProvider(o.aiConfig)
		if err != nil {
			d.Close()
			return nil, err
		}
	}
	d.provider = provider
	chat := provider.ChatModel()

	adapter, err := discovery.NewAdapter(chat,
		discovery.WithLogger(o.logger),
		discovery.WithTextualFallback(o.textualFallback))
	if err != nil {
		d.Close()
		return nil, err
	}

	var filter search.ProximityFilter
	if o.modelProximity {
		d.proximity, err = proximity.NewFilter(chat,
			proximity.WithLogger(o.logger),
			proximity.WithChunkSize(o.chunkSize),
			proximity.WithPoolSize(o.proximityPool))
		if err != nil {
			d.Close()
			return nil, err
		}
		filter = d.proximity
	}

	d.searcher, err = search.NewSearcher(d.store, adapter, filter,
		search.WithLogger(o.logger),
		search.WithPoolSize(o.poolSize))
	if err != nil {
		d.Close()
		return nil, err
	}

	o.logger.Info("directory ready", "institutions", d.store.Len(), "postal_codes", len(d.store.ZipCodes()))
	return d, nil
}

func (d *Directory) loadStore(ctx context.Context, o *options) error {
	switch {
	case o.store != nil:
		d.store = o.store
	case o.dbPath != "":
		backend, err := badger.OpenBackend(o.dbPath, false)
		if err != nil {
			return err
		}
		d.backend = backend
		d.repo, err = badger.NewInstitutionRepository(backend)
		if err != nil {
			return err
		}
		d.store, err = directory.FromRepository(ctx, d.repo)
		if err != nil {
			return err
		}
		if d.store.Len() == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyDatabase, o.dbPath)
		}
	case o.documentPath != "":
		f, err := os.Open(o.documentPath)
		if err != nil {
			return err
		}
		defer f.Close()
		d.store, err = directory.Load(f)
		if err != nil {
			return err
		}
	default:
		d.store = directory.NewSampleStore()
	}
	return nil
}

// Close releases worker pools, the provider and the database.
func (d *Directory) Close() error {
	if d.searcher != nil {
		d.searcher.Release()
	}
	if d.proximity != nil {
		d.proximity.Release()
	}
	if d.provider != nil {
		if err := d.provider.Close(); err != nil {
			d.logger.Error("error closing AI provider", "err", err)
		}
	}
	if d.repo != nil {
		if err := d.repo.Close(); err != nil {
			d.logger.Error("error closing institution repository", "err", err)
			return err
		}
	}
	if d.backend != nil {
		if err := d.backend.Close(); err != nil {
			d.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}

// Store returns the institution store.
func (d *Directory) Store() *directory.Store {
	return d.store
}

// Searcher returns the search orchestrator.
func (d *Directory) Searcher() *search.Searcher {
	return d.searcher
}

// Search runs one orchestrated query.
func (d *Directory) Search(ctx context.Context, q string) (*search.Result, error) {
	return d.searcher.Search(ctx, q)
}

// NearbyZip lists institutions filed under or numerically near zip.
func (d *Directory) NearbyZip(zip string) []directory.ZipMatch {
	return d.store.NearbyZip(zip)
}

// ByCategory lists institutions in a named category.
func (d *Directory) ByCategory(category string) ([]core.Institution, error) {
	return d.store.ByCategory(category)
}

// ByAffiliation lists institutions whose denomination contains affiliation.
func (d *Directory) ByAffiliation(affiliation string) []core.Institution {
	return d.store.ByAffiliation(affiliation)
}

// Recommend suggests institutions for the given interests.
func (d *Directory) Recommend(preferences []string) []core.Institution {
	return d.store.Recommend(preferences)
}
