package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository. Rows are never
// updated or deleted; a trigger rejects both.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// Append inserts a ledger entry within a transaction.
func (r *LedgerRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	err = generated.New(pgxTx).CreateLedgerEntry(ctx, generated.CreateLedgerEntryParams{
		ID:            entry.ID,
		TransactionID: entry.TransactionID,
		WalletID:      entry.WalletID,
		Amount:        decimalToNumeric(entry.Amount),
		Currency:      entry.Currency,
		Direction:     string(entry.Direction),
		BalanceAfter:  decimalToNumeric(entry.BalanceAfter),
		CreatedAt:     timeToPgTimestamptz(entry.CreatedAt),
	})

	return mapError(err)
}

// ListByWallet returns a wallet's entries, newest first.
func (r *LedgerRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.ListLedgerEntriesByWallet(ctx, generated.ListLedgerEntriesByWalletParams{
		WalletID: walletID,
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return rowsToEntries(rows), nil
}

// ListByTransaction returns the entries a transaction produced.
func (r *LedgerRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.ListLedgerEntriesByTransaction(ctx, transactionID)
	if err != nil {
		return nil, mapError(err)
	}

	return rowsToEntries(rows), nil
}

// SumByWallet totals a wallet's credits and debits.
func (r *LedgerRepository) SumByWallet(ctx context.Context, walletID string) (credits, debits decimal.Decimal, err error) {
	row, err := r.queries.SumLedgerByWallet(ctx, walletID)
	if err != nil {
		return decimal.Zero, decimal.Zero, mapError(err)
	}

	if credits, err = numericToDecimal(row.Credits); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	if debits, err = numericToDecimal(row.Debits); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return credits, debits, nil
}

// CheckConsistency returns the sum of all wallet balances and the net sum of
// all ledger entries. The two must be equal.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (totalBalance, totalNet decimal.Decimal, err error) {
	row, err := r.queries.GetLedgerTotals(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, mapError(err)
	}

	if totalBalance, err = numericToDecimal(row.TotalBalance); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	if totalNet, err = numericToDecimal(row.TotalNet); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return totalBalance, totalNet, nil
}

func rowsToEntries(rows []generated.LedgerEntry) []*domain.LedgerEntry {
	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &domain.LedgerEntry{
			ID:            row.ID,
			TransactionID: row.TransactionID,
			WalletID:      row.WalletID,
			Amount:        mustDecimal(row.Amount),
			Currency:      row.Currency,
			Direction:     domain.Direction(row.Direction),
			BalanceAfter:  mustDecimal(row.BalanceAfter),
			CreatedAt:     row.CreatedAt.Time,
		})
	}

	return entries
}
