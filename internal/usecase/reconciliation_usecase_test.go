package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

func TestReconcileWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)

	walletRepo.EXPECT().GetByID(gomock.Any(), "w1").Return(&domain.Wallet{ID: "w1", Currency: "USD", Balance: decimal.NewFromInt(150)}, nil)
	ledgerRepo.EXPECT().SumByWallet(gomock.Any(), "w1").Return(decimal.NewFromInt(200), decimal.NewFromInt(50), nil)

	uc := usecase.NewReconciliationUseCase(walletRepo, ledgerRepo)

	result, err := uc.ReconcileWallet(context.Background(), "w1")
	if err != nil {
		t.Fatalf("ReconcileWallet: %v", err)
	}

	if !result.IsReconciled || !result.Difference.IsZero() {
		t.Fatalf("expected reconciled wallet, got %+v", result)
	}
	if !result.CalculatedBalance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("calculated balance = %s", result.CalculatedBalance)
	}
}

func TestReconcileWallet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)

	walletRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrWalletNotFound)

	uc := usecase.NewReconciliationUseCase(walletRepo, ledgerRepo)
	if _, err := uc.ReconcileWallet(context.Background(), "missing"); !errors.Is(err, domain.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}
}

func TestCheckLedgerConsistency(t *testing.T) {
	tests := []struct {
		name    string
		balance decimal.Decimal
		net     decimal.Decimal
		err     error
		wantErr bool
	}{
		{name: "consistent", balance: decimal.NewFromInt(100), net: decimal.NewFromInt(100)},
		{name: "inconsistent", balance: decimal.NewFromInt(100), net: decimal.NewFromInt(90), wantErr: true},
		{name: "store error", err: errors.New("boom"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
			ledgerRepo.EXPECT().CheckConsistency(gomock.Any()).Return(tt.balance, tt.net, tt.err)

			uc := usecase.NewReconciliationUseCase(mocks.NewMockWalletRepository(ctrl), ledgerRepo)
			err := uc.CheckLedgerConsistency(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGenerateReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)

	wallets := []*domain.Wallet{
		{ID: "ok", Balance: decimal.NewFromInt(10)},
		{ID: "drift", Balance: decimal.NewFromInt(20)},
	}
	walletRepo.EXPECT().List(gomock.Any(), domain.MaxReconcileLimit, 0).Return(wallets, nil)
	ledgerRepo.EXPECT().SumByWallet(gomock.Any(), "ok").Return(decimal.NewFromInt(10), decimal.Zero, nil)
	ledgerRepo.EXPECT().SumByWallet(gomock.Any(), "drift").Return(decimal.NewFromInt(15), decimal.Zero, nil)
	ledgerRepo.EXPECT().CheckConsistency(gomock.Any()).Return(decimal.NewFromInt(30), decimal.NewFromInt(25), nil)

	uc := usecase.NewReconciliationUseCase(walletRepo, ledgerRepo)

	report, err := uc.GenerateReport(context.Background())
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	if report.TotalWallets != 2 || report.ReconciledWallets != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if len(report.Discrepancies) != 1 || report.Discrepancies[0].WalletID != "drift" {
		t.Fatalf("unexpected discrepancies: %+v", report.Discrepancies)
	}
	if !report.Discrepancies[0].Difference.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("difference = %s", report.Discrepancies[0].Difference)
	}
	if report.LedgerConsistent || report.LedgerError == "" {
		t.Fatalf("expected ledger inconsistency to be reported")
	}
}

func TestReconciliation_AfterMovements(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.seedWallet(t, "USD", 0)
	b := h.seedWallet(t, "USD", 0)

	deposit := usecase.DepositInput{RequestID: "00000000-0000-4000-8000-000000000001", WalletID: a.ID, Amount: amount(100), Currency: "USD"}
	if _, err := h.service.Deposit(ctx, deposit); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	transfer := usecase.TransferInput{RequestID: "00000000-0000-4000-8000-000000000002", FromWalletID: a.ID, ToWalletID: b.ID, Amount: amount(40), Currency: "USD"}
	if _, err := h.service.Transfer(ctx, transfer); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	uc := usecase.NewReconciliationUseCase(h.store.Wallets(), h.store.Ledger())
	report, err := uc.GenerateReport(ctx)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	if !report.LedgerConsistent || len(report.Discrepancies) != 0 || report.TotalWallets != 2 {
		t.Fatalf("expected a clean report, got %+v", report)
	}
}
