package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts a transaction within a unit of work.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	err = generated.New(pgxTx).CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:            t.ID,
		RequestID:     t.RequestID,
		Type:          string(t.Type),
		Status:        string(t.Status),
		Amount:        decimalToNumeric(t.Amount),
		Currency:      t.Currency,
		FromWalletID:  nullableText(t.FromWalletID),
		ToWalletID:    nullableText(t.ToWalletID),
		Description:   nullableText(t.Description),
		FailureReason: nullableText(t.FailureReason),
		CreatedAt:     timeToPgTimestamptz(t.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(t.UpdatedAt),
	})

	return mapError(err)
}

// UpdateStatus moves a PENDING transaction to its final status.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	n, err := generated.New(pgxTx).UpdateTransactionStatus(ctx, generated.UpdateTransactionStatusParams{
		ID:            t.ID,
		Status:        string(t.Status),
		FailureReason: nullableText(t.FailureReason),
		UpdatedAt:     timeToPgTimestamptz(t.UpdatedAt),
	})
	if err != nil {
		return mapError(err)
	}

	if n == 0 {
		return domain.ErrTransactionFinalized
	}

	return nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, mapError(err)
	}

	return rowToTransaction(row), nil
}

// ListByWallet returns transactions touching the wallet, newest first.
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByWallet(ctx, generated.ListTransactionsByWalletParams{
		WalletID: nullableText(walletID),
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		return nil, mapError(err)
	}

	transactions := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, rowToTransaction(row))
	}

	return transactions, nil
}

// CountOriginatingSince counts transactions debiting the wallet created at
// or after since. It runs inside tx so it observes the caller's wallet lock.
func (r *TransactionRepository) CountOriginatingSince(ctx context.Context, tx usecase.Transaction, walletID string, since time.Time) (int, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return 0, err
	}

	n, err := generated.New(pgxTx).CountTransactionsFromWalletSince(ctx, generated.CountTransactionsFromWalletSinceParams{
		FromWalletID: nullableText(walletID),
		CreatedAt:    timeToPgTimestamptz(since),
	})
	if err != nil {
		return 0, mapError(err)
	}

	return int(n), nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:            row.ID,
		RequestID:     row.RequestID,
		Type:          domain.TransactionType(row.Type),
		Status:        domain.TransactionStatus(row.Status),
		Amount:        mustDecimal(row.Amount),
		Currency:      row.Currency,
		FromWalletID:  row.FromWalletID.String,
		ToWalletID:    row.ToWalletID.String,
		Description:   row.Description.String,
		FailureReason: row.FailureReason.String,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}
