package memory

import (
	"context"
	"sort"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// BlacklistRepository implements usecase.BlacklistRepository.
type BlacklistRepository struct {
	store *Store
}

// Create buffers a blacklist entry. One entry per wallet.
func (r *BlacklistRepository) Create(_ context.Context, tx usecase.Transaction, entry *domain.BlacklistEntry) error {
	mtx, err := asTx(tx, r.store)
	if err != nil {
		return err
	}

	e := *entry

	return mtx.buffer(write{
		check: func(s *Store) error {
			if _, ok := s.blacklist[e.WalletID]; ok {
				return domain.ErrWalletAlreadyBlocked
			}
			return nil
		},
		apply: func(s *Store) { s.blacklist[e.WalletID] = &e },
	})
}

// Delete buffers removal of a wallet's entry.
func (r *BlacklistRepository) Delete(_ context.Context, tx usecase.Transaction, walletID string) error {
	mtx, err := asTx(tx, r.store)
	if err != nil {
		return err
	}

	return mtx.buffer(write{
		check: func(s *Store) error {
			if _, ok := s.blacklist[walletID]; !ok {
				return domain.ErrBlacklistEntryNotFound
			}
			return nil
		},
		apply: func(s *Store) { delete(s.blacklist, walletID) },
	})
}

// Exists reports whether walletID is blacklisted.
func (r *BlacklistRepository) Exists(_ context.Context, tx usecase.Transaction, walletID string) (bool, error) {
	if _, err := asTx(tx, r.store); err != nil {
		return false, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, ok := r.store.blacklist[walletID]

	return ok, nil
}

// List returns all entries, newest first.
func (r *BlacklistRepository) List(context.Context) ([]*domain.BlacklistEntry, error) {
	r.store.mu.Lock()
	result := make([]*domain.BlacklistEntry, 0, len(r.store.blacklist))
	for _, e := range r.store.blacklist {
		c := *e
		result = append(result, &c)
	}
	r.store.mu.Unlock()

	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })

	return result, nil
}
