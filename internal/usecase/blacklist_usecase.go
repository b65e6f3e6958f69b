package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
)

// BlacklistUseCase suspends and reinstates wallets.
type BlacklistUseCase struct {
	txManager     TransactionManager
	walletRepo    WalletRepository
	blacklistRepo BlacklistRepository
	outboxRepo    OutboxRepository
	idGen         IDGenerator
	logger        zerolog.Logger
}

// NewBlacklistUseCase creates a new BlacklistUseCase.
func NewBlacklistUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	blacklistRepo BlacklistRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *BlacklistUseCase {
	return &BlacklistUseCase{
		txManager:     txManager,
		walletRepo:    walletRepo,
		blacklistRepo: blacklistRepo,
		outboxRepo:    outboxRepo,
		idGen:         idGen,
		logger:        logger,
	}
}

// Block blacklists a wallet and marks it SUSPENDED.
func (uc *BlacklistUseCase) Block(ctx context.Context, walletID, reason string) (*domain.BlacklistEntry, error) {
	reason = strings.TrimSpace(reason)

	var entry *domain.BlacklistEntry
	err := runInTx(ctx, uc.txManager, func(tx Transaction) error {
		wallet, err := uc.lock(ctx, tx, walletID)
		if err != nil {
			return err
		}

		blocked, err := uc.blacklistRepo.Exists(ctx, tx, wallet.ID)
		if err != nil {
			return err
		}
		if blocked {
			return domain.NewConflictError("Wallet "+wallet.ID+" is already blacklisted", domain.ErrWalletAlreadyBlocked)
		}

		now := time.Now().UTC()
		entry = &domain.BlacklistEntry{
			ID:        uc.idGen.Generate(),
			WalletID:  wallet.ID,
			Reason:    domain.TruncateReason(reason),
			CreatedAt: now,
		}
		if err := uc.blacklistRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		return uc.setStatus(ctx, tx, wallet, domain.WalletStatusSuspended, domain.EventTypeWalletBlocked, now)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Str("wallet_id", walletID).Str("reason", entry.Reason).Msg("wallet blacklisted")

	return entry, nil
}

// Unblock removes a wallet from the blacklist and reactivates it.
func (uc *BlacklistUseCase) Unblock(ctx context.Context, walletID string) error {
	err := runInTx(ctx, uc.txManager, func(tx Transaction) error {
		wallet, err := uc.lock(ctx, tx, walletID)
		if err != nil {
			return err
		}

		blocked, err := uc.blacklistRepo.Exists(ctx, tx, wallet.ID)
		if err != nil {
			return err
		}
		if !blocked {
			return domain.NewNotFoundError("Wallet "+wallet.ID+" is not blacklisted", domain.ErrBlacklistEntryNotFound)
		}

		if err := uc.blacklistRepo.Delete(ctx, tx, wallet.ID); err != nil {
			return err
		}

		return uc.setStatus(ctx, tx, wallet, domain.WalletStatusActive, domain.EventTypeWalletUnblocked, time.Now().UTC())
	})
	if err != nil {
		return err
	}

	uc.logger.Info().Str("wallet_id", walletID).Msg("wallet removed from blacklist")

	return nil
}

// List returns all blacklist entries.
func (uc *BlacklistUseCase) List(ctx context.Context) ([]*domain.BlacklistEntry, error) {
	return uc.blacklistRepo.List(ctx)
}

func (uc *BlacklistUseCase) lock(ctx context.Context, tx Transaction, walletID string) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.LockOne(ctx, tx, walletID)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return nil, domain.NewWalletNotFoundError(walletID)
		}

		return nil, err
	}

	return wallet, nil
}

func (uc *BlacklistUseCase) setStatus(
	ctx context.Context,
	tx Transaction,
	wallet *domain.Wallet,
	status domain.WalletStatus,
	eventType string,
	now time.Time,
) error {
	wallet.Status = status
	wallet.Version++
	wallet.UpdatedAt = now

	if err := uc.walletRepo.Update(ctx, tx, wallet); err != nil {
		return err
	}

	if uc.outboxRepo == nil {
		return nil
	}

	return uc.outboxRepo.Create(ctx, tx, domain.NewWalletEvent(uc.idGen.Generate(), eventType, wallet, now))
}
