package badger

import (
	"bytes"
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/kehilla/core"
	"github.com/poiesic/kehilla/storage"
)

// InstitutionRepository implements storage.InstitutionRepository for BadgerDB.
type InstitutionRepository struct {
	backend *Backend
}

var _ storage.InstitutionRepository = (*InstitutionRepository)(nil)

// NewInstitutionRepository creates a new InstitutionRepository.
func NewInstitutionRepository(backend *Backend) (storage.InstitutionRepository, error) {
	return newInstitutionRepository(backend)
}

func newInstitutionRepository(backend *Backend) (*InstitutionRepository, error) {
	if backend == nil {
		return nil, errors.New("badger backend required")
	}
	return &InstitutionRepository{
		backend: backend,
	}, nil
}

// Close releases resources. The backend is owned by the caller.
func (r *InstitutionRepository) Close() error {
	return nil
}

// AddInstitutions adds one or more institutions to storage.
func (r *InstitutionRepository) AddInstitutions(ctx context.Context, institutions ...*core.Institution) ([]*core.Institution, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, inst := range institutions {
			// Use content-based ID if not set
			if inst.ID == 0 {
				inst.ID = core.IDFromContent(inst.ContentKey())
			}

			key := makeInstitutionKey(inst.ID)
			if err := dropStaleIndex(tx, key, inst); err != nil {
				return err
			}

			// Store primary record
			if err := tx.Set(key, storage.MarshalInstitution(inst)); err != nil {
				return err
			}

			// Store postal code index
			zipKey := makeZipKey(inst.PostalCode, inst.Ordinal)
			if err := tx.Set(zipKey, storage.MarshalID(inst.ID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		r.backend.logger.Error("error adding institutions", "count", len(institutions), "err", err)
		return nil, err
	}

	return institutions, nil
}

// GetInstitution retrieves a single institution by ID.
func (r *InstitutionRepository) GetInstitution(ctx context.Context, id core.ID) (*core.Institution, error) {
	var result *core.Institution
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readInstitution(tx, makeInstitutionKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListByPostalCode returns the institutions filed under a postal code in document order.
func (r *InstitutionRepository) ListByPostalCode(ctx context.Context, postalCode string) ([]*core.Institution, error) {
	if postalCode == "" {
		return nil, storage.ErrInvalidQuery
	}
	return r.scanIndex(ctx, makePartialZipKey(postalCode))
}

// ListInstitutions returns every institution ordered by postal code, then document order.
func (r *InstitutionRepository) ListInstitutions(ctx context.Context) ([]*core.Institution, error) {
	return r.scanIndex(ctx, makeZipIndexPrefix())
}

// Count returns the number of stored institution records.
func (r *InstitutionRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeInstitutionPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	}, false)
	return count, err
}

// scanIndex walks postal code index entries under prefix and resolves each to its record.
func (r *InstitutionRepository) scanIndex(ctx context.Context, prefix []byte) ([]*core.Institution, error) {
	results := []*core.Institution{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			inst, err := readInstitution(tx, makeInstitutionKey(id))
			if err != nil {
				return err
			}
			if inst == nil || !bytes.Equal(iter.Item().Key(), makeZipKey(inst.PostalCode, inst.Ordinal)) {
				// The record is gone or now lives under another postal code or ordinal.
				r.backend.logger.Debug("skipping stale index entry", "id", id)
				continue
			}
			results = append(results, inst)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// dropStaleIndex removes the postal code index entry of the record previously
// stored at key when it moves, unless another record already took the slot.
func dropStaleIndex(tx *badger.Txn, key []byte, inst *core.Institution) error {
	prev, err := readInstitution(tx, key)
	if err != nil || prev == nil {
		return err
	}
	if prev.PostalCode == inst.PostalCode && prev.Ordinal == inst.Ordinal {
		return nil
	}

	oldKey := makeZipKey(prev.PostalCode, prev.Ordinal)
	item, err := tx.Get(oldKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var owner core.ID
	if err := item.Value(func(val []byte) error {
		var err error
		owner, err = storage.UnmarshalID(val)
		return err
	}); err != nil {
		return err
	}
	if owner != inst.ID {
		return nil
	}
	return tx.Delete(oldKey)
}

// readInstitution loads the record at key. Returns nil, nil when the key is absent.
func readInstitution(tx *badger.Txn, key []byte) (*core.Institution, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var inst *core.Institution
	err = item.Value(func(val []byte) error {
		var err error
		inst, err = storage.UnmarshalInstitution(val)
		return err
	})
	return inst, err
}
