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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/poiesic/kehilla/core"
	"github.com/poiesic/kehilla/directory"
	"github.com/poiesic/kehilla/storage"
)

// DefaultBatchSize is the number of institutions written per repository call.
const DefaultBatchSize = 64

// Report summarizes one import.
type Report struct {
	PostalCodes int
	Read        int
	Stored      int
	// Skipped holds one error per invalid record, tagged with its position.
	Skipped []error
}

// Err joins the skipped-record errors, or returns nil when none were skipped.
func (r *Report) Err() error {
	return errors.Join(r.Skipped...)
}

// Importer writes institution documents into a repository.
type Importer struct {
	repo      storage.InstitutionRepository
	batchSize int
	logger    *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// WithBatchSize sets how many institutions are written per call.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(i *Importer) error {
		if size <= 0 {
			return ErrInvalidBatchSize
		}
		i.batchSize = size
		return nil
	}
}

// NewImporter creates an importer for repo.
func NewImporter(repo storage.InstitutionRepository, opts ...Option) (*Importer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	imp := &Importer{
		repo:      repo,
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(imp); err != nil {
			return nil, err
		}
	}
	imp.logger = imp.logger.With("component", "importer")
	return imp, nil
}

// Import decodes a storage-form document from r and stores its valid records.
// The returned error reports a malformed document or a failed write; skipped
// records are only listed in the Report.
func (imp *Importer) Import(ctx context.Context, r io.Reader) (*Report, error) {
	byZip, err := directory.LoadDocument(r)
	if err != nil {
		return nil, err
	}
	return imp.ImportPostalCodes(ctx, byZip)
}

// ImportStore persists the contents of an in-memory store.
func (imp *Importer) ImportStore(ctx context.Context, store *directory.Store) (*Report, error) {
	return imp.ImportPostalCodes(ctx, store.ByZipMap())
}

// ImportPostalCodes validates and stores a postal code table. Postal codes
// are written in ascending order.
func (imp *Importer) ImportPostalCodes(ctx context.Context, byZip map[string][]core.Institution) (*Report, error) {
	report := &Report{PostalCodes: len(byZip)}

	zips := make([]string, 0, len(byZip))
	for zip := range byZip {
		zips = append(zips, zip)
	}
	slices.Sort(zips)

	batch := make([]*core.Institution, 0, imp.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		stored, err := imp.repo.AddInstitutions(ctx, batch...)
		if err != nil {
			return fmt.Errorf("storing institutions: %w", err)
		}
		report.Stored += len(stored)
		batch = batch[:0]
		return nil
	}

	for _, zip := range zips {
		for idx := range byZip[zip] {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			inst := byZip[zip][idx]
			report.Read++
			if err := core.ValidateInstitution(&inst); err != nil {
				imp.logger.Warn("skipping invalid institution", "postal_code", zip, "ordinal", inst.Ordinal, "err", err)
				report.Skipped = append(report.Skipped, fmt.Errorf("%s[%d]: %w", zip, inst.Ordinal, err))
				continue
			}
			batch = append(batch, &inst)
			if len(batch) >= imp.batchSize {
				if err := flush(); err != nil {
					return report, err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return report, err
	}

	imp.logger.Info("import complete",
		"postal_codes", report.PostalCodes,
		"read", report.Read,
		"stored", report.Stored,
		"skipped", len(report.Skipped))
	return report, nil
}

// Export writes every stored institution to w in storage form.
func (imp *Importer) Export(ctx context.Context, w io.Writer) error {
	list, err := imp.repo.ListInstitutions(ctx)
	if err != nil {
		return err
	}
	byZip := make(map[string][]core.Institution)
	for _, inst := range list {
		byZip[inst.PostalCode] = append(byZip[inst.PostalCode], *inst)
	}
	return directory.EncodeDocument(w, byZip)
}
