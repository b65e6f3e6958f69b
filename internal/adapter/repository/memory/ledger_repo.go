package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository. Entries are only
// ever appended.
type LedgerRepository struct {
	store *Store
}

// Append buffers a ledger entry.
func (r *LedgerRepository) Append(_ context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	mtx, err := asTx(tx, r.store)
	if err != nil {
		return err
	}

	e := cloneEntry(entry)

	return mtx.buffer(write{
		apply: func(s *Store) { s.ledger = append(s.ledger, e) },
	})
}

// ListByWallet returns a wallet's entries, newest first.
func (r *LedgerRepository) ListByWallet(_ context.Context, walletID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	r.store.mu.Lock()
	var result []*domain.LedgerEntry
	for i := len(r.store.ledger) - 1; i >= 0; i-- {
		if e := r.store.ledger[i]; e.WalletID == walletID {
			result = append(result, cloneEntry(e))
		}
	}
	r.store.mu.Unlock()

	return page(result, limit, offset), nil
}

// ListByTransaction returns a transaction's entries in append order.
func (r *LedgerRepository) ListByTransaction(_ context.Context, transactionID string) ([]*domain.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := []*domain.LedgerEntry{}
	for _, e := range r.store.ledger {
		if e.TransactionID == transactionID {
			result = append(result, cloneEntry(e))
		}
	}

	return result, nil
}

// SumByWallet returns the total credits and debits of a wallet.
func (r *LedgerRepository) SumByWallet(_ context.Context, walletID string) (decimal.Decimal, decimal.Decimal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	credits, debits := decimal.Zero, decimal.Zero
	for _, e := range r.store.ledger {
		if e.WalletID != walletID {
			continue
		}
		if e.Direction == domain.DirectionCredit {
			credits = credits.Add(e.Amount)
		} else {
			debits = debits.Add(e.Amount)
		}
	}

	return credits, debits, nil
}

// CheckConsistency returns the sum of all balances and the net of all
// entries.
func (r *LedgerRepository) CheckConsistency(context.Context) (decimal.Decimal, decimal.Decimal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	totalBalance := decimal.Zero
	for _, w := range r.store.wallets {
		totalBalance = totalBalance.Add(w.Balance)
	}

	totalNet := decimal.Zero
	for _, e := range r.store.ledger {
		totalNet = totalNet.Add(e.SignedAmount())
	}

	return totalBalance, totalNet, nil
}

// Entries returns every committed entry in append order.
func (r *LedgerRepository) Entries() []*domain.LedgerEntry {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := make([]*domain.LedgerEntry, 0, len(r.store.ledger))
	for _, e := range r.store.ledger {
		result = append(result, cloneEntry(e))
	}

	return result
}
