package app

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gowallet/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gowallet/internal/adapter/repository/redis"
	"github.com/iho/gowallet/internal/usecase"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Storage is the set of repositories the services run on.
type Storage struct {
	TxManager    usecase.TransactionManager
	Wallets      usecase.WalletRepository
	Transactions usecase.TransactionRepository
	Ledger       usecase.LedgerRepository
	Idempotency  usecase.IdempotencyRepository
	Blacklist    usecase.BlacklistRepository
	Outbox       usecase.OutboxRepository
	IDGen        usecase.IDGenerator
	Retrier      usecase.Retrier
	DB           Pinger
}

// MemoryStorage runs everything on an in-process store.
func MemoryStorage(store *memory.Store) Storage {
	return Storage{
		TxManager:    store,
		Wallets:      store.Wallets(),
		Transactions: store.Transactions(),
		Ledger:       store.Ledger(),
		Idempotency:  store.Idempotency(),
		Blacklist:    store.Blacklist(),
		Outbox:       store.Outbox(),
		IDGen:        postgresRepo.NewULIDGenerator(),
		DB:           store,
	}
}

// PostgresStorage runs everything on pool. Every unit of work waits at most
// lockTimeout for a row lock.
func PostgresStorage(pool *pgxpool.Pool, lockTimeout time.Duration, logger zerolog.Logger) Storage {
	return Storage{
		TxManager:    postgresRepo.NewTxManager(pool, lockTimeout),
		Wallets:      postgresRepo.NewWalletRepository(pool),
		Transactions: postgresRepo.NewTransactionRepository(pool),
		Ledger:       postgresRepo.NewLedgerRepository(pool),
		Idempotency:  postgresRepo.NewIdempotencyRepository(pool),
		Blacklist:    postgresRepo.NewBlacklistRepository(pool),
		Outbox:       postgresRepo.NewOutboxRepository(pool),
		IDGen:        postgresRepo.NewULIDGenerator(),
		Retrier:      postgresRepo.NewRetrier(logger),
		DB:           pool,
	}
}

// WithIdempotencyCache serves terminal idempotency records from Redis.
func (s Storage) WithIdempotencyCache(client *goredis.Client, ttl time.Duration, logger zerolog.Logger) Storage {
	s.Idempotency = redisRepo.NewIdempotencyCache(client, s.Idempotency, ttl, logger)
	return s
}
