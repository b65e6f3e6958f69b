package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// BlacklistRepository implements usecase.BlacklistRepository.
type BlacklistRepository struct {
	queries *generated.Queries
}

// NewBlacklistRepository creates a new BlacklistRepository.
func NewBlacklistRepository(pool *pgxpool.Pool) *BlacklistRepository {
	return newBlacklistRepository(pool)
}

func newBlacklistRepository(db generated.DBTX) *BlacklistRepository {
	return &BlacklistRepository{queries: generated.New(db)}
}

// Create adds a blacklist entry.
func (r *BlacklistRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.BlacklistEntry) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	err = generated.New(pgxTx).CreateBlacklistEntry(ctx, generated.CreateBlacklistEntryParams{
		ID:        entry.ID,
		WalletID:  entry.WalletID,
		Reason:    entry.Reason,
		CreatedAt: timeToPgTimestamptz(entry.CreatedAt),
	})

	return mapError(err)
}

// Delete removes the wallet's entry.
func (r *BlacklistRepository) Delete(ctx context.Context, tx usecase.Transaction, walletID string) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	n, err := generated.New(pgxTx).DeleteBlacklistEntry(ctx, walletID)
	if err != nil {
		return mapError(err)
	}

	if n == 0 {
		return domain.ErrBlacklistEntryNotFound
	}

	return nil
}

// Exists reports whether the wallet is blacklisted.
func (r *BlacklistRepository) Exists(ctx context.Context, tx usecase.Transaction, walletID string) (bool, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return false, err
	}

	ok, err := generated.New(pgxTx).BlacklistEntryExists(ctx, walletID)
	if err != nil {
		return false, mapError(err)
	}

	return ok, nil
}

// List returns all entries, oldest first.
func (r *BlacklistRepository) List(ctx context.Context) ([]*domain.BlacklistEntry, error) {
	rows, err := r.queries.ListBlacklistEntries(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	entries := make([]*domain.BlacklistEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &domain.BlacklistEntry{
			ID:        row.ID,
			WalletID:  row.WalletID,
			Reason:    row.Reason,
			CreatedAt: row.CreatedAt.Time,
		})
	}

	return entries, nil
}
