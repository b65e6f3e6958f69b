package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const blacklistEntryExists = `-- name: BlacklistEntryExists :one
SELECT EXISTS (SELECT 1 FROM blacklist_entries WHERE wallet_id = $1)
`

func (q *Queries) BlacklistEntryExists(ctx context.Context, walletID string) (bool, error) {
	row := q.db.QueryRow(ctx, blacklistEntryExists, walletID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const createBlacklistEntry = `-- name: CreateBlacklistEntry :exec
INSERT INTO blacklist_entries (id, wallet_id, reason, created_at) VALUES ($1, $2, $3, $4)
`

type CreateBlacklistEntryParams struct {
	ID        string             `json:"id"`
	WalletID  string             `json:"wallet_id"`
	Reason    string             `json:"reason"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateBlacklistEntry(ctx context.Context, arg CreateBlacklistEntryParams) error {
	_, err := q.db.Exec(ctx, createBlacklistEntry,
		arg.ID,
		arg.WalletID,
		arg.Reason,
		arg.CreatedAt,
	)
	return err
}

const deleteBlacklistEntry = `-- name: DeleteBlacklistEntry :execrows
DELETE FROM blacklist_entries WHERE wallet_id = $1
`

func (q *Queries) DeleteBlacklistEntry(ctx context.Context, walletID string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteBlacklistEntry, walletID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listBlacklistEntries = `-- name: ListBlacklistEntries :many
SELECT id, wallet_id, reason, created_at FROM blacklist_entries ORDER BY created_at DESC
`

func (q *Queries) ListBlacklistEntries(ctx context.Context) ([]BlacklistEntry, error) {
	rows, err := q.db.Query(ctx, listBlacklistEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BlacklistEntry
	for rows.Next() {
		var i BlacklistEntry
		if err := rows.Scan(
			&i.ID,
			&i.WalletID,
			&i.Reason,
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
