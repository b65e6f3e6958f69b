package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLedgerEntry = `-- name: CreateLedgerEntry :exec
INSERT INTO ledger_entries (id, transaction_id, wallet_id, amount, currency, direction, balance_after, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateLedgerEntryParams struct {
	ID            string             `json:"id"`
	TransactionID string             `json:"transaction_id"`
	WalletID      string             `json:"wallet_id"`
	Amount        pgtype.Numeric     `json:"amount"`
	Currency      string             `json:"currency"`
	Direction     string             `json:"direction"`
	BalanceAfter  pgtype.Numeric     `json:"balance_after"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateLedgerEntry(ctx context.Context, arg CreateLedgerEntryParams) error {
	_, err := q.db.Exec(ctx, createLedgerEntry,
		arg.ID,
		arg.TransactionID,
		arg.WalletID,
		arg.Amount,
		arg.Currency,
		arg.Direction,
		arg.BalanceAfter,
		arg.CreatedAt,
	)
	return err
}

const getLedgerTotals = `-- name: GetLedgerTotals :one
SELECT
    (SELECT COALESCE(SUM(balance), 0) FROM wallets)::numeric AS total_balance,
    (SELECT COALESCE(SUM(CASE WHEN direction = 'CREDIT' THEN amount ELSE -amount END), 0) FROM ledger_entries)::numeric AS total_net
`

type GetLedgerTotalsRow struct {
	TotalBalance pgtype.Numeric `json:"total_balance"`
	TotalNet     pgtype.Numeric `json:"total_net"`
}

func (q *Queries) GetLedgerTotals(ctx context.Context) (GetLedgerTotalsRow, error) {
	row := q.db.QueryRow(ctx, getLedgerTotals)
	var i GetLedgerTotalsRow
	err := row.Scan(&i.TotalBalance, &i.TotalNet)
	return i, err
}

const listLedgerEntriesByTransaction = `-- name: ListLedgerEntriesByTransaction :many
SELECT id, transaction_id, wallet_id, amount, currency, direction, balance_after, created_at FROM ledger_entries
WHERE transaction_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListLedgerEntriesByTransaction(ctx context.Context, transactionID string) ([]LedgerEntry, error) {
	rows, err := q.db.Query(ctx, listLedgerEntriesByTransaction, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LedgerEntry
	for rows.Next() {
		var i LedgerEntry
		if err := rows.Scan(
			&i.ID,
			&i.TransactionID,
			&i.WalletID,
			&i.Amount,
			&i.Currency,
			&i.Direction,
			&i.BalanceAfter,
			&i.CreatedAt,
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

const listLedgerEntriesByWallet = `-- name: ListLedgerEntriesByWallet :many
SELECT id, transaction_id, wallet_id, amount, currency, direction, balance_after, created_at FROM ledger_entries
WHERE wallet_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListLedgerEntriesByWalletParams struct {
	WalletID string `json:"wallet_id"`
	Limit    int32  `json:"limit"`
	Offset   int32  `json:"offset"`
}

func (q *Queries) ListLedgerEntriesByWallet(ctx context.Context, arg ListLedgerEntriesByWalletParams) ([]LedgerEntry, error) {
	rows, err := q.db.Query(ctx, listLedgerEntriesByWallet, arg.WalletID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LedgerEntry
	for rows.Next() {
		var i LedgerEntry
		if err := rows.Scan(
			&i.ID,
			&i.TransactionID,
			&i.WalletID,
			&i.Amount,
			&i.Currency,
			&i.Direction,
			&i.BalanceAfter,
			&i.CreatedAt,
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

const sumLedgerByWallet = `-- name: SumLedgerByWallet :one
SELECT
    COALESCE(SUM(amount) FILTER (WHERE direction = 'CREDIT'), 0)::numeric AS credits,
    COALESCE(SUM(amount) FILTER (WHERE direction = 'DEBIT'), 0)::numeric AS debits
FROM ledger_entries
WHERE wallet_id = $1
`

type SumLedgerByWalletRow struct {
	Credits pgtype.Numeric `json:"credits"`
	Debits  pgtype.Numeric `json:"debits"`
}

func (q *Queries) SumLedgerByWallet(ctx context.Context, walletID string) (SumLedgerByWalletRow, error) {
	row := q.db.QueryRow(ctx, sumLedgerByWallet, walletID)
	var i SumLedgerByWalletRow
	err := row.Scan(&i.Credits, &i.Debits)
	return i, err
}
