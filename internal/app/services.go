package app

import (
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/usecase"
)

// Options tunes the service graph.
type Options struct {
	Policy  usecase.PolicyConfig
	Metrics usecase.MetricsRecorder
	Logger  zerolog.Logger
}

// Services is the fully wired application layer.
type Services struct {
	Wallets        *usecase.WalletService
	Blacklist      *usecase.BlacklistUseCase
	Queries        *usecase.QueryUseCase
	Reconciliation *usecase.ReconciliationUseCase
}

// NewServices wires the use cases on top of s.
func NewServices(s Storage, opts Options) *Services {
	engine := usecase.NewTransactionEngine(usecase.EngineDeps{
		TxManager:       s.TxManager,
		WalletRepo:      s.Wallets,
		TransactionRepo: s.Transactions,
		OutboxRepo:      s.Outbox,
		Ledger:          usecase.NewLedgerWriter(s.Ledger, s.IDGen),
		Policy:          usecase.NewPolicyGuard(s.Transactions, s.Blacklist, opts.Policy),
		IDGen:           s.IDGen,
		Retrier:         s.Retrier,
	})

	return &Services{
		Wallets: usecase.NewWalletService(usecase.WalletServiceDeps{
			Idempotency: usecase.NewIdempotencyLedger(s.Idempotency, s.TxManager),
			Engine:      engine,
			TxManager:   s.TxManager,
			WalletRepo:  s.Wallets,
			OutboxRepo:  s.Outbox,
			IDGen:       s.IDGen,
			Metrics:     opts.Metrics,
			Logger:      opts.Logger,
		}),
		Blacklist:      usecase.NewBlacklistUseCase(s.TxManager, s.Wallets, s.Blacklist, s.Outbox, s.IDGen, opts.Logger),
		Queries:        usecase.NewQueryUseCase(s.Wallets, s.Transactions, s.Ledger),
		Reconciliation: usecase.NewReconciliationUseCase(s.Wallets, s.Ledger),
	}
}
