package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countTransactionsFromWalletSince = `-- name: CountTransactionsFromWalletSince :one
SELECT COUNT(*) FROM transactions WHERE from_wallet_id = $1 AND created_at >= $2
`

type CountTransactionsFromWalletSinceParams struct {
	FromWalletID pgtype.Text        `json:"from_wallet_id"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CountTransactionsFromWalletSince(ctx context.Context, arg CountTransactionsFromWalletSinceParams) (int64, error) {
	row := q.db.QueryRow(ctx, countTransactionsFromWalletSince, arg.FromWalletID, arg.CreatedAt)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createTransaction = `-- name: CreateTransaction :exec
INSERT INTO transactions (id, request_id, type, status, amount, currency, from_wallet_id, to_wallet_id, description, failure_reason, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

type CreateTransactionParams struct {
	ID            string             `json:"id"`
	RequestID     string             `json:"request_id"`
	Type          string             `json:"type"`
	Status        string             `json:"status"`
	Amount        pgtype.Numeric     `json:"amount"`
	Currency      string             `json:"currency"`
	FromWalletID  pgtype.Text        `json:"from_wallet_id"`
	ToWalletID    pgtype.Text        `json:"to_wallet_id"`
	Description   pgtype.Text        `json:"description"`
	FailureReason pgtype.Text        `json:"failure_reason"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.Exec(ctx, createTransaction,
		arg.ID,
		arg.RequestID,
		arg.Type,
		arg.Status,
		arg.Amount,
		arg.Currency,
		arg.FromWalletID,
		arg.ToWalletID,
		arg.Description,
		arg.FailureReason,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getTransactionByID = `-- name: GetTransactionByID :one
SELECT id, request_id, type, status, amount, currency, from_wallet_id, to_wallet_id, description, failure_reason, created_at, updated_at FROM transactions WHERE id = $1
`

func (q *Queries) GetTransactionByID(ctx context.Context, id string) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransactionByID, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.RequestID,
		&i.Type,
		&i.Status,
		&i.Amount,
		&i.Currency,
		&i.FromWalletID,
		&i.ToWalletID,
		&i.Description,
		&i.FailureReason,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listTransactionsByWallet = `-- name: ListTransactionsByWallet :many
SELECT id, request_id, type, status, amount, currency, from_wallet_id, to_wallet_id, description, failure_reason, created_at, updated_at FROM transactions
WHERE from_wallet_id = $1 OR to_wallet_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListTransactionsByWalletParams struct {
	WalletID pgtype.Text `json:"wallet_id"`
	Limit    int32       `json:"limit"`
	Offset   int32       `json:"offset"`
}

func (q *Queries) ListTransactionsByWallet(ctx context.Context, arg ListTransactionsByWalletParams) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, listTransactionsByWallet, arg.WalletID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.RequestID,
			&i.Type,
			&i.Status,
			&i.Amount,
			&i.Currency,
			&i.FromWalletID,
			&i.ToWalletID,
			&i.Description,
			&i.FailureReason,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateTransactionStatus = `-- name: UpdateTransactionStatus :execrows
UPDATE transactions SET status = $2, failure_reason = $3, updated_at = $4
WHERE id = $1 AND status = 'PENDING'
`

type UpdateTransactionStatusParams struct {
	ID            string             `json:"id"`
	Status        string             `json:"status"`
	FailureReason pgtype.Text        `json:"failure_reason"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateTransactionStatus(ctx context.Context, arg UpdateTransactionStatusParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateTransactionStatus,
		arg.ID,
		arg.Status,
		arg.FailureReason,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
