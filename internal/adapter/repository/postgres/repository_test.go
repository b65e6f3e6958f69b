package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/domain"
)

type foreignTx struct{}

func (foreignTx) Commit(context.Context) error   { return nil }
func (foreignTx) Rollback(context.Context) error { return nil }

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestMapError(t *testing.T) {
	dup := mapError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "idempotency_records_pkey"})
	assert.ErrorIs(t, dup, domain.ErrDuplicateRequest)

	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: pgErrLockNotAvailable}), domain.ErrLockTimeout)

	deadlock := &pgconn.PgError{Code: pgErrDeadlock}
	assert.Same(t, deadlock, mapError(deadlock))

	plain := errors.New("boom")
	assert.Same(t, plain, mapError(plain))
	assert.NoError(t, mapError(nil))
}

func TestRepositoriesRejectForeignTransaction(t *testing.T) {
	pool := newMockPool(t)

	_, err := newWalletRepository(pool).LockOne(context.Background(), foreignTx{}, "w-1")
	assert.ErrorIs(t, err, ErrUnexpectedTx)

	err = newIdempotencyRepository(pool).Create(context.Background(), foreignTx{}, &domain.IdempotencyRecord{})
	assert.ErrorIs(t, err, ErrUnexpectedTx)
}

func TestNumericRoundTrip(t *testing.T) {
	for _, v := range []string{"0", "100", "12.34", "-7.5", "0.0001"} {
		d := decimal.RequireFromString(v)
		got, err := numericToDecimal(decimalToNumeric(d))
		require.NoError(t, err)
		assert.True(t, d.Equal(got), "want %s got %s", d, got)
	}
}

func TestWalletRepositoryLockOneNotFound(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectQuery("FOR UPDATE").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err := newWalletRepository(pool).LockOne(context.Background(), tx, "missing")
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
	assertExpectations(t, pool)
}

func TestWalletRepositoryLockOneTimeout(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectQuery("FOR UPDATE").WithArgs("w-1").WillReturnError(&pgconn.PgError{Code: pgErrLockNotAvailable})

	_, err := newWalletRepository(pool).LockOne(context.Background(), tx, "w-1")
	assert.ErrorIs(t, err, domain.ErrLockTimeout)
	assertExpectations(t, pool)
}

func TestWalletRepositoryUpdateMissing(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("UPDATE wallets").WithArgs(anyArgs(5)...).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	w := domain.NewWallet("w-1", "owner", "USD", time.Now())
	err := newWalletRepository(pool).Update(context.Background(), tx, w)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
	assertExpectations(t, pool)
}

func TestIdempotencyRepositoryCreateDuplicate(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("INSERT INTO idempotency_records").
		WithArgs(anyArgs(11)...).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "idempotency_records_pkey"})

	err := newIdempotencyRepository(pool).Create(context.Background(), tx, &domain.IdempotencyRecord{
		RequestID:   "req-1",
		RequestType: domain.RequestTypeDeposit,
		Status:      domain.IdempotencyStatusPending,
		HTTPStatus:  domain.HTTPStatusUnset,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
	assertExpectations(t, pool)
}

func TestIdempotencyRepositoryGetNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM idempotency_records").WithArgs("req-1").WillReturnError(pgx.ErrNoRows)

	_, err := newIdempotencyRepository(pool).Get(context.Background(), "req-1")
	assert.ErrorIs(t, err, domain.ErrIdempotencyRecordNotFound)
	assertExpectations(t, pool)
}

func TestIdempotencyRepositoryFinalizeAlreadyTerminal(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("UPDATE idempotency_records").WithArgs(anyArgs(6)...).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := newIdempotencyRepository(pool).Finalize(context.Background(), tx, &domain.IdempotencyRecord{
		RequestID: "req-1",
		Status:    domain.IdempotencyStatusCompleted,
	})
	assert.ErrorIs(t, err, domain.ErrIdempotencyRecordNotFound)
	assertExpectations(t, pool)
}

func TestTransactionRepositoryUpdateStatusFinalized(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("UPDATE transactions").WithArgs(anyArgs(4)...).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := newTransactionRepository(pool).UpdateStatus(context.Background(), tx, &domain.Transaction{
		ID:     "tx-1",
		Status: domain.TransactionStatusCompleted,
	})
	assert.ErrorIs(t, err, domain.ErrTransactionFinalized)
	assertExpectations(t, pool)
}

func TestTransactionRepositoryCountOriginatingSince(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectQuery("SELECT COUNT").WithArgs(anyArgs(2)...).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := newTransactionRepository(pool).CountOriginatingSince(context.Background(), tx, "w-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assertExpectations(t, pool)
}

func TestBlacklistRepositoryDeleteMissing(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("DELETE FROM blacklist_entries").WithArgs("w-1").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := newBlacklistRepository(pool).Delete(context.Background(), tx, "w-1")
	assert.ErrorIs(t, err, domain.ErrBlacklistEntryNotFound)
	assertExpectations(t, pool)
}
