package directory

import (
	"context"
	"io"
	"slices"

	"github.com/poiesic/kehilla/core"
	"github.com/poiesic/kehilla/storage"
)

// Store is the immutable in-memory institution table, keyed by postal code,
// with a flattened view in ascending postal code order.
// It is built once and never mutated, so it is safe for concurrent readers.
type Store struct {
	byZip map[string][]core.Institution
	zips  []string
	all   []core.Institution
}

// NewStore builds a Store from institutions grouped by postal code.
// Records are copied and tagged SourceLocalDatabase. Within a postal code,
// the given order is preserved.
func NewStore(byZip map[string][]core.Institution) *Store {
	s := &Store{
		byZip: make(map[string][]core.Institution, len(byZip)),
		zips:  make([]string, 0, len(byZip)),
	}
	for zip, list := range byZip {
		if len(list) == 0 {
			continue
		}
		tagged := make([]core.Institution, len(list))
		for i, inst := range list {
			inst.PostalCode = zip
			if inst.ID == 0 {
				inst.ID = core.IDFromContent(inst.ContentKey())
			}
			tagged[i] = inst.WithSource(core.SourceLocalDatabase)
		}
		s.byZip[zip] = tagged
		s.zips = append(s.zips, zip)
	}
	slices.Sort(s.zips)

	for _, zip := range s.zips {
		s.all = append(s.all, s.byZip[zip]...)
	}
	return s
}

// Load decodes a storage-form document and builds a Store from it.
func Load(r io.Reader) (*Store, error) {
	byZip, err := LoadDocument(r)
	if err != nil {
		return nil, err
	}
	return NewStore(byZip), nil
}

// FromRepository builds a Store from a persisted copy of the document.
func FromRepository(ctx context.Context, repo storage.InstitutionRepository) (*Store, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	list, err := repo.ListInstitutions(ctx)
	if err != nil {
		return nil, err
	}

	// ListInstitutions already yields document order within each postal code.
	byZip := make(map[string][]core.Institution)
	for _, inst := range list {
		byZip[inst.PostalCode] = append(byZip[inst.PostalCode], *inst)
	}
	return NewStore(byZip), nil
}

// All returns every institution in postal code order.
// The returned slice is a copy; records share program maps and must be treated as read-only.
func (s *Store) All() []core.Institution {
	return slices.Clone(s.all)
}

// ByZip returns the institutions filed under a postal code.
func (s *Store) ByZip(zip string) []core.Institution {
	return slices.Clone(s.byZip[zip])
}

// ZipCodes returns the known postal codes in ascending order.
func (s *Store) ZipCodes() []string {
	return slices.Clone(s.zips)
}

// Len returns the number of institutions in the store.
func (s *Store) Len() int {
	return len(s.all)
}

// ByZipMap returns a copy of the postal code table, suitable for re-encoding.
func (s *Store) ByZipMap() map[string][]core.Institution {
	out := make(map[string][]core.Institution, len(s.byZip))
	for zip, list := range s.byZip {
		out[zip] = slices.Clone(list)
	}
	return out
}
