package memory

import (
	"context"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// IdempotencyRepository implements usecase.IdempotencyRepository.
type IdempotencyRepository struct {
	store *Store
}

// Get returns the committed record for requestID.
func (r *IdempotencyRepository) Get(_ context.Context, requestID string) (*domain.IdempotencyRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.idempotency[requestID]
	if !ok {
		return nil, domain.ErrIdempotencyRecordNotFound
	}

	return cloneRecord(rec), nil
}

// Create buffers a claim. The request id uniqueness is enforced both now and
// at commit, so of two concurrent claims only one commits.
func (r *IdempotencyRepository) Create(_ context.Context, tx usecase.Transaction, record *domain.IdempotencyRecord) error {
	mtx, err := asTx(tx, r.store)
	if err != nil {
		return err
	}

	rec := cloneRecord(record)
	check := func(s *Store) error {
		if _, ok := s.idempotency[rec.RequestID]; ok {
			return domain.ErrDuplicateRequest
		}
		return nil
	}

	r.store.mu.Lock()
	err = check(r.store)
	r.store.mu.Unlock()
	if err != nil {
		return err
	}

	return mtx.buffer(write{
		check: check,
		apply: func(s *Store) { s.idempotency[rec.RequestID] = rec },
	})
}

// Finalize buffers the record's outcome. Only a committed PENDING record may
// be finalized.
func (r *IdempotencyRepository) Finalize(_ context.Context, tx usecase.Transaction, record *domain.IdempotencyRecord) error {
	mtx, err := asTx(tx, r.store)
	if err != nil {
		return err
	}

	rec := cloneRecord(record)

	return mtx.buffer(write{
		check: func(s *Store) error {
			existing, ok := s.idempotency[rec.RequestID]
			if !ok || existing.Status != domain.IdempotencyStatusPending {
				return domain.ErrIdempotencyRecordNotFound
			}
			return nil
		},
		apply: func(s *Store) { s.idempotency[rec.RequestID] = rec },
	})
}
