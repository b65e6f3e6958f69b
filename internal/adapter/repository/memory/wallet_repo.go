package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	store *Store
}

// Create buffers a new wallet.
func (r *WalletRepository) Create(_ context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	mtx, err := asTx(tx, r.store)
	if err != nil {
		return err
	}

	w := cloneWallet(wallet)

	if err := mtx.buffer(write{
		check: func(s *Store) error {
			if _, ok := s.wallets[w.ID]; ok {
				return fmt.Errorf("memory: wallet %s: %w", w.ID, domain.ErrDuplicateRequest)
			}
			return nil
		},
		apply: func(s *Store) { s.wallets[w.ID] = w },
	}); err != nil {
		return err
	}

	mtx.stage(w)

	return nil
}

// GetByID returns the committed wallet.
func (r *WalletRepository) GetByID(_ context.Context, id string) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	w, ok := r.store.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}

	return cloneWallet(w), nil
}

// LockOne blocks until tx holds the wallet's lock.
func (r *WalletRepository) LockOne(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	mtx, err := asTx(tx, r.store)
	if err != nil {
		return nil, err
	}

	if _, ok := mtx.wallet(id); !ok {
		return nil, domain.ErrWalletNotFound
	}

	if err := mtx.lock(ctx, id); err != nil {
		return nil, err
	}

	w, ok := mtx.wallet(id)
	if !ok {
		return nil, domain.ErrWalletNotFound
	}

	return w, nil
}

// LockMany locks the existing wallets of the given currency in ascending id
// order.
func (r *WalletRepository) LockMany(ctx context.Context, tx usecase.Transaction, ids []string, currency string) ([]*domain.Wallet, error) {
	mtx, err := asTx(tx, r.store)
	if err != nil {
		return nil, err
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	wallets := make([]*domain.Wallet, 0, len(sorted))
	for i, id := range sorted {
		if i > 0 && sorted[i-1] == id {
			continue
		}

		w, ok := mtx.wallet(id)
		if !ok || w.Currency != currency {
			continue
		}

		if err := mtx.lock(ctx, id); err != nil {
			return nil, err
		}

		if w, ok = mtx.wallet(id); ok {
			wallets = append(wallets, w)
		}
	}

	return wallets, nil
}

// Update buffers the new wallet state.
func (r *WalletRepository) Update(_ context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	mtx, err := asTx(tx, r.store)
	if err != nil {
		return err
	}

	w := cloneWallet(wallet)

	if err := mtx.buffer(write{
		check: func(s *Store) error {
			if _, ok := s.wallets[w.ID]; !ok {
				return domain.ErrWalletNotFound
			}
			return nil
		},
		apply: func(s *Store) { s.wallets[w.ID] = w },
	}); err != nil {
		return err
	}

	mtx.stage(w)

	return nil
}

// List returns wallets ordered by creation time.
func (r *WalletRepository) List(_ context.Context, limit, offset int) ([]*domain.Wallet, error) {
	r.store.mu.Lock()
	wallets := make([]*domain.Wallet, 0, len(r.store.wallets))
	for _, w := range r.store.wallets {
		wallets = append(wallets, cloneWallet(w))
	}
	r.store.mu.Unlock()

	sort.Slice(wallets, func(i, j int) bool {
		if wallets[i].CreatedAt.Equal(wallets[j].CreatedAt) {
			return wallets[i].ID < wallets[j].ID
		}
		return wallets[i].CreatedAt.Before(wallets[j].CreatedAt)
	})

	return page(wallets, limit, offset), nil
}
