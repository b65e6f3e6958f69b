package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	queries *generated.Queries
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return newWalletRepository(pool)
}

func newWalletRepository(db generated.DBTX) *WalletRepository {
	return &WalletRepository{queries: generated.New(db)}
}

// Create inserts a new wallet within a transaction.
func (r *WalletRepository) Create(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	err = generated.New(pgxTx).CreateWallet(ctx, generated.CreateWalletParams{
		ID:        wallet.ID,
		OwnerID:   wallet.OwnerID,
		Currency:  wallet.Currency,
		Status:    string(wallet.Status),
		Balance:   decimalToNumeric(wallet.Balance),
		Version:   wallet.Version,
		CreatedAt: timeToPgTimestamptz(wallet.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(wallet.UpdatedAt),
	})

	return mapError(err)
}

// GetByID retrieves a wallet without locking it.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	row, err := r.queries.GetWalletByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, mapError(err)
	}

	return rowToWallet(row), nil
}

// LockOne selects the wallet FOR UPDATE.
func (r *WalletRepository) LockOne(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return nil, err
	}

	row, err := generated.New(pgxTx).GetWalletByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, mapError(err)
	}

	return rowToWallet(row), nil
}

// LockMany selects the wallets FOR UPDATE. The query orders by id, so row
// locks are always taken in ascending id order.
func (r *WalletRepository) LockMany(ctx context.Context, tx usecase.Transaction, ids []string, currency string) ([]*domain.Wallet, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return nil, err
	}

	rows, err := generated.New(pgxTx).GetWalletsByIDsForUpdate(ctx, generated.GetWalletsByIDsForUpdateParams{
		Ids:      ids,
		Currency: currency,
	})
	if err != nil {
		return nil, mapError(err)
	}

	wallets := make([]*domain.Wallet, 0, len(rows))
	for _, row := range rows {
		wallets = append(wallets, rowToWallet(row))
	}

	return wallets, nil
}

// Update writes the wallet's status, balance and version.
func (r *WalletRepository) Update(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	n, err := generated.New(pgxTx).UpdateWallet(ctx, generated.UpdateWalletParams{
		ID:        wallet.ID,
		Status:    string(wallet.Status),
		Balance:   decimalToNumeric(wallet.Balance),
		Version:   wallet.Version,
		UpdatedAt: timeToPgTimestamptz(wallet.UpdatedAt),
	})
	if err != nil {
		return mapError(err)
	}

	if n == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// List returns wallets ordered by creation time.
func (r *WalletRepository) List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	rows, err := r.queries.ListWallets(ctx, generated.ListWalletsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, mapError(err)
	}

	wallets := make([]*domain.Wallet, 0, len(rows))
	for _, row := range rows {
		wallets = append(wallets, rowToWallet(row))
	}

	return wallets, nil
}

func rowToWallet(row generated.Wallet) *domain.Wallet {
	return &domain.Wallet{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Currency:  row.Currency,
		Status:    domain.WalletStatus(row.Status),
		Balance:   mustDecimal(row.Balance),
		Version:   row.Version,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
