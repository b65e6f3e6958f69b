package usecase_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/adapter/repository/memory"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

type seqIDGen struct {
	n atomic.Int64
}

func (g *seqIDGen) Generate() string {
	return fmt.Sprintf("id-%08d", g.n.Add(1))
}

type harness struct {
	store     *memory.Store
	engine    *usecase.TransactionEngine
	service   *usecase.WalletService
	blacklist *usecase.BlacklistUseCase
	queries   *usecase.QueryUseCase
	idGen     *seqIDGen
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	policy    usecase.PolicyConfig
	updateErr error
}

func withPolicy(cfg usecase.PolicyConfig) harnessOption {
	return func(c *harnessConfig) { c.policy = cfg }
}

// withFailingUpdates makes every wallet update inside the engine fail.
func withFailingUpdates(err error) harnessOption {
	return func(c *harnessConfig) { c.updateErr = err }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	store := memory.NewStore(2 * time.Second)
	idGen := &seqIDGen{}

	cfg := harnessConfig{policy: usecase.PolicyConfig{MaxTransactions: 1000, Window: time.Minute}}
	for _, opt := range opts {
		opt(&cfg)
	}

	var walletRepo usecase.WalletRepository = store.Wallets()
	if cfg.updateErr != nil {
		walletRepo = &failingWalletRepo{WalletRepository: store.Wallets(), err: cfg.updateErr}
	}

	engine := usecase.NewTransactionEngine(usecase.EngineDeps{
		TxManager:       store,
		WalletRepo:      walletRepo,
		TransactionRepo: store.Transactions(),
		OutboxRepo:      store.Outbox(),
		Ledger:          usecase.NewLedgerWriter(store.Ledger(), idGen),
		Policy:          usecase.NewPolicyGuard(store.Transactions(), store.Blacklist(), cfg.policy),
		IDGen:           idGen,
	})

	service := usecase.NewWalletService(usecase.WalletServiceDeps{
		Idempotency: usecase.NewIdempotencyLedger(store.Idempotency(), store),
		Engine:      engine,
		TxManager:   store,
		WalletRepo:  walletRepo,
		OutboxRepo:  store.Outbox(),
		IDGen:       idGen,
		Logger:      zerolog.Nop(),
	})

	return &harness{
		store:     store,
		engine:    engine,
		service:   service,
		blacklist: usecase.NewBlacklistUseCase(store, store.Wallets(), store.Blacklist(), store.Outbox(), idGen, zerolog.Nop()),
		queries:   usecase.NewQueryUseCase(store.Wallets(), store.Transactions(), store.Ledger()),
		idGen:     idGen,
	}
}

// seedWallet commits an ACTIVE wallet with the given balance.
func (h *harness) seedWallet(t *testing.T, currency string, balance int64) *domain.Wallet {
	t.Helper()

	ctx := context.Background()
	w := domain.NewWallet(h.idGen.Generate(), "owner", currency, time.Now().UTC())
	w.Balance = decimal.NewFromInt(balance)

	tx, err := h.store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, h.store.Wallets().Create(ctx, tx, w))
	require.NoError(t, tx.Commit(ctx))

	return w
}

func (h *harness) balance(t *testing.T, walletID string) decimal.Decimal {
	t.Helper()

	w, err := h.store.Wallets().GetByID(context.Background(), walletID)
	require.NoError(t, err)

	return w.Balance
}

func (h *harness) entries(t *testing.T, walletID string) []*domain.LedgerEntry {
	t.Helper()

	entries, err := h.store.Ledger().ListByWallet(context.Background(), walletID, 1000, 0)
	require.NoError(t, err)

	return entries
}

func (h *harness) record(t *testing.T, requestID string) *domain.IdempotencyRecord {
	t.Helper()

	rec, err := h.store.Idempotency().Get(context.Background(), requestID)
	require.NoError(t, err)

	return rec
}

// failingWalletRepo fails Update, simulating a storage fault mid-operation.
type failingWalletRepo struct {
	usecase.WalletRepository
	err error
}

func (r *failingWalletRepo) Update(context.Context, usecase.Transaction, *domain.Wallet) error {
	return r.err
}

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
