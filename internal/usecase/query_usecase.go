package usecase

import (
	"context"
	"errors"

	"github.com/iho/gowallet/internal/domain"
)

// QueryUseCase serves read-only views of wallets and their history.
type QueryUseCase struct {
	walletRepo      WalletRepository
	transactionRepo TransactionRepository
	ledgerRepo      LedgerRepository
}

// NewQueryUseCase creates a new QueryUseCase.
func NewQueryUseCase(walletRepo WalletRepository, transactionRepo TransactionRepository, ledgerRepo LedgerRepository) *QueryUseCase {
	return &QueryUseCase{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		ledgerRepo:      ledgerRepo,
	}
}

// GetWallet retrieves a wallet by ID.
func (uc *QueryUseCase) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return nil, domain.NewWalletNotFoundError(id)
		}

		return nil, err
	}

	return wallet, nil
}

// ListWallets lists wallets with pagination.
func (uc *QueryUseCase) ListWallets(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.walletRepo.List(ctx, limit, offset)
}

// ListTransactions lists the transactions touching a wallet, newest first.
func (uc *QueryUseCase) ListTransactions(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error) {
	if _, err := uc.GetWallet(ctx, walletID); err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.transactionRepo.ListByWallet(ctx, walletID, limit, offset)
}

// ListLedgerEntries lists the ledger entries of a wallet, newest first.
func (uc *QueryUseCase) ListLedgerEntries(ctx context.Context, walletID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	if _, err := uc.GetWallet(ctx, walletID); err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.ledgerRepo.ListByWallet(ctx, walletID, limit, offset)
}

// GetTransaction retrieves a transaction and its ledger entries.
func (uc *QueryUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, []*domain.LedgerEntry, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return nil, nil, domain.NewNotFoundError("Transaction with id: "+id+" not found", err)
		}

		return nil, nil, err
	}

	entries, err := uc.ledgerRepo.ListByTransaction(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return transaction, entries, nil
}
