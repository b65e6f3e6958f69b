package usecase

import (
	"context"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// PolicyConfig configures the per-wallet transaction ceiling.
type PolicyConfig struct {
	MaxTransactions int
	Window          time.Duration
}

// PolicyGuard decides whether a locked wallet may transact. It holds no
// state between calls; every check reads the store through the caller's
// unit of work.
type PolicyGuard struct {
	transactionRepo TransactionRepository
	blacklistRepo   BlacklistRepository
	cfg             PolicyConfig
	now             func() time.Time
}

// NewPolicyGuard creates a new PolicyGuard.
func NewPolicyGuard(transactionRepo TransactionRepository, blacklistRepo BlacklistRepository, cfg PolicyConfig) *PolicyGuard {
	if cfg.MaxTransactions <= 0 {
		cfg.MaxTransactions = DefaultRateLimitMaxTransactions
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultRateLimitWindow
	}

	return &PolicyGuard{
		transactionRepo: transactionRepo,
		blacklistRepo:   blacklistRepo,
		cfg:             cfg,
		now:             time.Now,
	}
}

// Check runs the rate limit, status and blacklist checks against wallet.
// The wallet must be locked by tx.
func (g *PolicyGuard) Check(ctx context.Context, tx Transaction, wallet *domain.Wallet) error {
	if err := g.checkRateLimit(ctx, tx, wallet.ID); err != nil {
		return err
	}

	if !wallet.IsActive() {
		return domain.NewWalletLockedError(wallet.LockedReason())
	}

	blocked, err := g.blacklistRepo.Exists(ctx, tx, wallet.ID)
	if err != nil {
		return err
	}
	if blocked {
		return domain.NewWalletLockedError(domain.SuspendedReason)
	}

	return nil
}

func (g *PolicyGuard) checkRateLimit(ctx context.Context, tx Transaction, walletID string) error {
	since := g.now().UTC().Add(-g.cfg.Window)

	count, err := g.transactionRepo.CountOriginatingSince(ctx, tx, walletID, since)
	if err != nil {
		return err
	}

	if count >= g.cfg.MaxTransactions {
		return domain.NewRateLimitExceededError(g.cfg.MaxTransactions, g.cfg.Window)
	}

	return nil
}
