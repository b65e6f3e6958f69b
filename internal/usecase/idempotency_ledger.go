package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// IdempotencyLedger records request claims and outcomes. Every write runs in
// its own unit of work, separate from the business transaction it guards,
// and ignores caller cancellation so an outcome is never lost to a client
// disconnect.
type IdempotencyLedger struct {
	repo      IdempotencyRepository
	txManager TransactionManager
}

// NewIdempotencyLedger creates a new IdempotencyLedger.
func NewIdempotencyLedger(repo IdempotencyRepository, txManager TransactionManager) *IdempotencyLedger {
	return &IdempotencyLedger{
		repo:      repo,
		txManager: txManager,
	}
}

// Lookup returns the record for requestID, or nil if none exists.
func (l *IdempotencyLedger) Lookup(ctx context.Context, requestID string) (*domain.IdempotencyRecord, error) {
	record, err := l.repo.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrIdempotencyRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return record, nil
}

// Claim commits a PENDING record. Returns domain.ErrDuplicateRequest if
// another caller claimed the request id first.
func (l *IdempotencyLedger) Claim(ctx context.Context, record *domain.IdempotencyRecord) error {
	now := time.Now().UTC()
	record.Status = domain.IdempotencyStatusPending
	record.HTTPStatus = domain.HTTPStatusUnset
	record.CreatedAt = now
	record.UpdatedAt = now

	return l.write(ctx, func(ctx context.Context, tx Transaction) error {
		return l.repo.Create(ctx, tx, record)
	})
}

// Complete stores the successful response.
func (l *IdempotencyLedger) Complete(ctx context.Context, record *domain.IdempotencyRecord, httpStatus int, body []byte) error {
	record.Status = domain.IdempotencyStatusCompleted
	record.HTTPStatus = httpStatus
	record.ResponseBody = body
	record.FailReason = ""

	return l.finalize(ctx, record)
}

// Reject stores a recognized domain failure.
func (l *IdempotencyLedger) Reject(ctx context.Context, record *domain.IdempotencyRecord, httpStatus int, reason string) error {
	record.Status = domain.IdempotencyStatusRejected
	record.HTTPStatus = httpStatus
	record.FailReason = domain.TruncateReason(reason)

	return l.finalize(ctx, record)
}

// Fail stores an internal failure. reason must already be sanitized.
func (l *IdempotencyLedger) Fail(ctx context.Context, record *domain.IdempotencyRecord, httpStatus int, reason string) error {
	record.Status = domain.IdempotencyStatusFailed
	record.HTTPStatus = httpStatus
	record.FailReason = domain.TruncateReason(reason)

	return l.finalize(ctx, record)
}

func (l *IdempotencyLedger) finalize(ctx context.Context, record *domain.IdempotencyRecord) error {
	record.UpdatedAt = time.Now().UTC()

	return l.write(ctx, func(ctx context.Context, tx Transaction) error {
		return l.repo.Finalize(ctx, tx, record)
	})
}

func (l *IdempotencyLedger) write(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTransactionTimeout)
	defer cancel()

	return runInTx(ctx, l.txManager, func(tx Transaction) error {
		return fn(ctx, tx)
	})
}
