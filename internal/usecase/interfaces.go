package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	Create(ctx context.Context, tx Transaction, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	// LockOne blocks until it holds an exclusive lock on the wallet for the
	// lifetime of tx. Returns domain.ErrWalletNotFound if absent.
	LockOne(ctx context.Context, tx Transaction, id string) (*domain.Wallet, error)
	// LockMany locks the wallets with the given ids and currency in ascending
	// id order. Ids that do not exist or hold another currency are absent
	// from the result.
	LockMany(ctx context.Context, tx Transaction, ids []string, currency string) ([]*domain.Wallet, error)
	Update(ctx context.Context, tx Transaction, wallet *domain.Wallet) error
	List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, transaction *domain.Transaction) error
	UpdateStatus(ctx context.Context, tx Transaction, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error)
	CountOriginatingSince(ctx context.Context, tx Transaction, walletID string, since time.Time) (int, error)
}

// LedgerRepository defines data access for the append-only ledger.
type LedgerRepository interface {
	Append(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.LedgerEntry, error)
	ListByTransaction(ctx context.Context, transactionID string) ([]*domain.LedgerEntry, error)
	SumByWallet(ctx context.Context, walletID string) (credits, debits decimal.Decimal, err error)
	CheckConsistency(ctx context.Context) (totalBalance, totalNet decimal.Decimal, err error)
}

// IdempotencyRepository defines data access for idempotency records.
type IdempotencyRepository interface {
	// Get returns domain.ErrIdempotencyRecordNotFound if no record exists.
	Get(ctx context.Context, requestID string) (*domain.IdempotencyRecord, error)
	// Create returns domain.ErrDuplicateRequest if the request id is taken.
	Create(ctx context.Context, tx Transaction, record *domain.IdempotencyRecord) error
	Finalize(ctx context.Context, tx Transaction, record *domain.IdempotencyRecord) error
}

// BlacklistRepository defines data access for blacklist entries.
type BlacklistRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.BlacklistEntry) error
	Delete(ctx context.Context, tx Transaction, walletID string) error
	Exists(ctx context.Context, tx Transaction, walletID string) (bool, error)
	List(ctx context.Context) ([]*domain.BlacklistEntry, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a unit of work.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles unit of work lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient store failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
