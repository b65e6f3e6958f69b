package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// ReconciliationUseCase compares stored balances with the ledger.
type ReconciliationUseCase struct {
	walletRepo WalletRepository
	ledgerRepo LedgerRepository
	now        func() time.Time
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(walletRepo WalletRepository, ledgerRepo LedgerRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		now:        time.Now,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	WalletID          string          `json:"wallet_id"`
	Currency          string          `json:"currency"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	IsReconciled      bool            `json:"is_reconciled"`
	LastChecked       time.Time       `json:"last_checked"`
}

// ReconcileWallet compares a wallet's balance with the sum of its ledger
// entries.
func (uc *ReconciliationUseCase) ReconcileWallet(ctx context.Context, walletID string) (*ReconciliationResult, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	return uc.reconcile(ctx, wallet)
}

// ReconcileAll reconciles every wallet, up to domain.MaxReconcileLimit.
func (uc *ReconciliationUseCase) ReconcileAll(ctx context.Context) ([]*ReconciliationResult, error) {
	wallets, err := uc.walletRepo.List(ctx, domain.MaxReconcileLimit, 0)
	if err != nil {
		return nil, err
	}

	results := make([]*ReconciliationResult, 0, len(wallets))
	for _, wallet := range wallets {
		result, err := uc.reconcile(ctx, wallet)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile wallet %s: %w", wallet.ID, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// CheckLedgerConsistency verifies that the sum of all balances equals the
// net of all ledger entries.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) error {
	totalBalance, totalNet, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return err
	}

	if !totalBalance.Equal(totalNet) {
		return fmt.Errorf(
			"ledger inconsistency detected: balances=%s ledger=%s difference=%s",
			totalBalance.String(),
			totalNet.String(),
			totalBalance.Sub(totalNet).String(),
		)
	}

	return nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalWallets      int                     `json:"total_wallets"`
	ReconciledWallets int                     `json:"reconciled_wallets"`
	Discrepancies     []*ReconciliationResult `json:"discrepancies"`
	LedgerConsistent  bool                    `json:"ledger_consistent"`
	LedgerError       string                  `json:"ledger_error,omitempty"`
	CheckedAt         time.Time               `json:"checked_at"`
}

// GenerateReport reconciles all wallets and checks global consistency.
func (uc *ReconciliationUseCase) GenerateReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAll(ctx)
	if err != nil {
		return nil, err
	}

	ledgerErr := uc.CheckLedgerConsistency(ctx)

	report := &ReconciliationReport{
		TotalWallets:     len(results),
		Discrepancies:    make([]*ReconciliationResult, 0),
		LedgerConsistent: ledgerErr == nil,
		CheckedAt:        uc.now().UTC(),
	}
	if ledgerErr != nil {
		report.LedgerError = ledgerErr.Error()
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledWallets++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}

func (uc *ReconciliationUseCase) reconcile(ctx context.Context, wallet *domain.Wallet) (*ReconciliationResult, error) {
	credits, debits, err := uc.ledgerRepo.SumByWallet(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}

	calculated := credits.Sub(debits)
	difference := wallet.Balance.Sub(calculated)

	return &ReconciliationResult{
		WalletID:          wallet.ID,
		Currency:          wallet.Currency,
		RecordedBalance:   wallet.Balance,
		CalculatedBalance: calculated,
		Difference:        difference,
		IsReconciled:      difference.IsZero(),
		LastChecked:       uc.now().UTC(),
	}, nil
}
