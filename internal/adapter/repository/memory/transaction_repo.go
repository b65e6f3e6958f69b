package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// Create buffers a new transaction. request_id is unique.
func (r *TransactionRepository) Create(_ context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	mtx, err := asTx(tx, r.store)
	if err != nil {
		return err
	}

	t := cloneTransaction(transaction)
	mtx.swapStatus(t.ID, t.Status)

	return mtx.buffer(write{
		check: func(s *Store) error {
			for _, existing := range s.transactions {
				if existing.RequestID == t.RequestID {
					return fmt.Errorf("memory: transaction request %s: %w", t.RequestID, domain.ErrDuplicateRequest)
				}
			}
			return nil
		},
		apply: func(s *Store) { s.transactions[t.ID] = t },
	})
}

// UpdateStatus buffers the transaction's final status. Like the SQL store it
// refuses transactions that are missing or no longer PENDING.
func (r *TransactionRepository) UpdateStatus(_ context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	mtx, err := asTx(tx, r.store)
	if err != nil {
		return err
	}

	id := transaction.ID
	status := transaction.Status
	reason := transaction.FailureReason
	updatedAt := transaction.UpdatedAt

	// Only a PENDING transaction may move to a final status
	prev, own := mtx.swapStatus(id, status)
	if own && prev != domain.TransactionStatusPending {
		return domain.ErrTransactionFinalized
	}

	return mtx.buffer(write{
		check: func(s *Store) error {
			if own {
				return nil
			}
			t, ok := s.transactions[id]
			if !ok || t.Status != domain.TransactionStatusPending {
				return domain.ErrTransactionFinalized
			}
			return nil
		},
		apply: func(s *Store) {
			t, ok := s.transactions[id]
			if !ok {
				return
			}
			t.Status = status
			t.FailureReason = reason
			t.UpdatedAt = updatedAt
		},
	})
}

// GetByID returns a committed transaction.
func (r *TransactionRepository) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	return cloneTransaction(t), nil
}

// ListByWallet returns transactions touching walletID, newest first.
func (r *TransactionRepository) ListByWallet(_ context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error) {
	r.store.mu.Lock()
	var result []*domain.Transaction
	for _, t := range r.store.transactions {
		if t.FromWalletID == walletID || t.ToWalletID == walletID {
			result = append(result, cloneTransaction(t))
		}
	}
	r.store.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return page(result, limit, offset), nil
}

// CountOriginatingSince counts committed transactions with walletID as
// source created at or after since.
func (r *TransactionRepository) CountOriginatingSince(_ context.Context, tx usecase.Transaction, walletID string, since time.Time) (int, error) {
	if _, err := asTx(tx, r.store); err != nil {
		return 0, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	count := 0
	for _, t := range r.store.transactions {
		if t.FromWalletID == walletID && !t.CreatedAt.Before(since) {
			count++
		}
	}

	return count, nil
}
