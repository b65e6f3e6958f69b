package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createWallet = `-- name: CreateWallet :exec
INSERT INTO wallets (id, owner_id, currency, status, balance, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateWalletParams struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	Currency  string             `json:"currency"`
	Status    string             `json:"status"`
	Balance   pgtype.Numeric     `json:"balance"`
	Version   int64              `json:"version"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateWallet(ctx context.Context, arg CreateWalletParams) error {
	_, err := q.db.Exec(ctx, createWallet,
		arg.ID,
		arg.OwnerID,
		arg.Currency,
		arg.Status,
		arg.Balance,
		arg.Version,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getWalletByID = `-- name: GetWalletByID :one
SELECT id, owner_id, currency, status, balance, version, created_at, updated_at FROM wallets WHERE id = $1
`

func (q *Queries) GetWalletByID(ctx context.Context, id string) (Wallet, error) {
	row := q.db.QueryRow(ctx, getWalletByID, id)
	var i Wallet
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Currency,
		&i.Status,
		&i.Balance,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletByIDForUpdate = `-- name: GetWalletByIDForUpdate :one
SELECT id, owner_id, currency, status, balance, version, created_at, updated_at FROM wallets WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetWalletByIDForUpdate(ctx context.Context, id string) (Wallet, error) {
	row := q.db.QueryRow(ctx, getWalletByIDForUpdate, id)
	var i Wallet
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Currency,
		&i.Status,
		&i.Balance,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletsByIDsForUpdate = `-- name: GetWalletsByIDsForUpdate :many
SELECT id, owner_id, currency, status, balance, version, created_at, updated_at FROM wallets
WHERE id = ANY($1::text[]) AND currency = $2
ORDER BY id
FOR UPDATE
`

type GetWalletsByIDsForUpdateParams struct {
	Ids      []string `json:"ids"`
	Currency string   `json:"currency"`
}

func (q *Queries) GetWalletsByIDsForUpdate(ctx context.Context, arg GetWalletsByIDsForUpdateParams) ([]Wallet, error) {
	rows, err := q.db.Query(ctx, getWalletsByIDsForUpdate, arg.Ids, arg.Currency)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Wallet
	for rows.Next() {
		var i Wallet
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Currency,
			&i.Status,
			&i.Balance,
			&i.Version,
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

const listWallets = `-- name: ListWallets :many
SELECT id, owner_id, currency, status, balance, version, created_at, updated_at FROM wallets
ORDER BY created_at, id
LIMIT $1 OFFSET $2
`

type ListWalletsParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListWallets(ctx context.Context, arg ListWalletsParams) ([]Wallet, error) {
	rows, err := q.db.Query(ctx, listWallets, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Wallet
	for rows.Next() {
		var i Wallet
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Currency,
			&i.Status,
			&i.Balance,
			&i.Version,
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

const updateWallet = `-- name: UpdateWallet :execrows
UPDATE wallets SET status = $2, balance = $3, version = $4, updated_at = $5 WHERE id = $1
`

type UpdateWalletParams struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"`
	Balance   pgtype.Numeric     `json:"balance"`
	Version   int64              `json:"version"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateWallet(ctx context.Context, arg UpdateWalletParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateWallet,
		arg.ID,
		arg.Status,
		arg.Balance,
		arg.Version,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
