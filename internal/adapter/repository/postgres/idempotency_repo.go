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

// IdempotencyRepository implements usecase.IdempotencyRepository. The
// primary key on request_id turns concurrent claims into a unique
// violation for every caller but the first.
type IdempotencyRepository struct {
	queries *generated.Queries
}

// NewIdempotencyRepository creates a new IdempotencyRepository.
func NewIdempotencyRepository(pool *pgxpool.Pool) *IdempotencyRepository {
	return newIdempotencyRepository(pool)
}

func newIdempotencyRepository(db generated.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{queries: generated.New(db)}
}

// Get retrieves a record by request id.
func (r *IdempotencyRepository) Get(ctx context.Context, requestID string) (*domain.IdempotencyRecord, error) {
	row, err := r.queries.GetIdempotencyRecord(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIdempotencyRecordNotFound
		}
		return nil, mapError(err)
	}

	return rowToRecord(row), nil
}

// Create claims the request id.
func (r *IdempotencyRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.IdempotencyRecord) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	err = generated.New(pgxTx).CreateIdempotencyRecord(ctx, generated.CreateIdempotencyRecordParams{
		RequestID:    record.RequestID,
		RequestType:  string(record.RequestType),
		Currency:     record.Currency,
		FromWalletID: nullableText(record.FromWalletID),
		ToWalletID:   nullableText(record.ToWalletID),
		Status:       string(record.Status),
		RequestHash:  record.RequestHash,
		RequestBody:  record.RequestBody,
		HttpStatus:   int32(record.HTTPStatus),
		CreatedAt:    timeToPgTimestamptz(record.CreatedAt),
		UpdatedAt:    timeToPgTimestamptz(record.UpdatedAt),
	})

	return mapError(err)
}

// Finalize stores the outcome of a PENDING record.
func (r *IdempotencyRepository) Finalize(ctx context.Context, tx usecase.Transaction, record *domain.IdempotencyRecord) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	n, err := generated.New(pgxTx).FinalizeIdempotencyRecord(ctx, generated.FinalizeIdempotencyRecordParams{
		RequestID:    record.RequestID,
		Status:       string(record.Status),
		ResponseBody: record.ResponseBody,
		HttpStatus:   int32(record.HTTPStatus),
		FailReason:   nullableText(record.FailReason),
		UpdatedAt:    timeToPgTimestamptz(record.UpdatedAt),
	})
	if err != nil {
		return mapError(err)
	}

	if n == 0 {
		return domain.ErrIdempotencyRecordNotFound
	}

	return nil
}

func rowToRecord(row generated.IdempotencyRecord) *domain.IdempotencyRecord {
	return &domain.IdempotencyRecord{
		RequestID:    row.RequestID,
		RequestType:  domain.RequestType(row.RequestType),
		Currency:     row.Currency,
		FromWalletID: row.FromWalletID.String,
		ToWalletID:   row.ToWalletID.String,
		Status:       domain.IdempotencyStatus(row.Status),
		RequestHash:  row.RequestHash,
		RequestBody:  row.RequestBody,
		ResponseBody: row.ResponseBody,
		HTTPStatus:   int(row.HttpStatus),
		FailReason:   row.FailReason.String,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
