package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createIdempotencyRecord = `-- name: CreateIdempotencyRecord :exec
INSERT INTO idempotency_records (request_id, request_type, currency, from_wallet_id, to_wallet_id, status, request_hash, request_body, http_status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

type CreateIdempotencyRecordParams struct {
	RequestID    string             `json:"request_id"`
	RequestType  string             `json:"request_type"`
	Currency     string             `json:"currency"`
	FromWalletID pgtype.Text        `json:"from_wallet_id"`
	ToWalletID   pgtype.Text        `json:"to_wallet_id"`
	Status       string             `json:"status"`
	RequestHash  string             `json:"request_hash"`
	RequestBody  []byte             `json:"request_body"`
	HttpStatus   int32              `json:"http_status"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateIdempotencyRecord(ctx context.Context, arg CreateIdempotencyRecordParams) error {
	_, err := q.db.Exec(ctx, createIdempotencyRecord,
		arg.RequestID,
		arg.RequestType,
		arg.Currency,
		arg.FromWalletID,
		arg.ToWalletID,
		arg.Status,
		arg.RequestHash,
		arg.RequestBody,
		arg.HttpStatus,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const finalizeIdempotencyRecord = `-- name: FinalizeIdempotencyRecord :execrows
UPDATE idempotency_records
SET status = $2, response_body = $3, http_status = $4, fail_reason = $5, updated_at = $6
WHERE request_id = $1 AND status = 'PENDING'
`

type FinalizeIdempotencyRecordParams struct {
	RequestID    string             `json:"request_id"`
	Status       string             `json:"status"`
	ResponseBody []byte             `json:"response_body"`
	HttpStatus   int32              `json:"http_status"`
	FailReason   pgtype.Text        `json:"fail_reason"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) FinalizeIdempotencyRecord(ctx context.Context, arg FinalizeIdempotencyRecordParams) (int64, error) {
	result, err := q.db.Exec(ctx, finalizeIdempotencyRecord,
		arg.RequestID,
		arg.Status,
		arg.ResponseBody,
		arg.HttpStatus,
		arg.FailReason,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getIdempotencyRecord = `-- name: GetIdempotencyRecord :one
SELECT request_id, request_type, currency, from_wallet_id, to_wallet_id, status, request_hash, request_body, response_body, http_status, fail_reason, created_at, updated_at
FROM idempotency_records WHERE request_id = $1
`

func (q *Queries) GetIdempotencyRecord(ctx context.Context, requestID string) (IdempotencyRecord, error) {
	row := q.db.QueryRow(ctx, getIdempotencyRecord, requestID)
	var i IdempotencyRecord
	err := row.Scan(
		&i.RequestID,
		&i.RequestType,
		&i.Currency,
		&i.FromWalletID,
		&i.ToWalletID,
		&i.Status,
		&i.RequestHash,
		&i.RequestBody,
		&i.ResponseBody,
		&i.HttpStatus,
		&i.FailReason,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
