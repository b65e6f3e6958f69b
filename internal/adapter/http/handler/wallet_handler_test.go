package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

type walletServiceStub struct {
	createFn   func(ctx context.Context, input usecase.CreateWalletInput) (*usecase.Result, error)
	depositFn  func(ctx context.Context, input usecase.DepositInput) (*usecase.Result, error)
	withdrawFn func(ctx context.Context, input usecase.WithdrawInput) (*usecase.Result, error)
	transferFn func(ctx context.Context, input usecase.TransferInput) (*usecase.Result, error)
}

func (s *walletServiceStub) CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*usecase.Result, error) {
	return s.createFn(ctx, input)
}

func (s *walletServiceStub) Deposit(ctx context.Context, input usecase.DepositInput) (*usecase.Result, error) {
	return s.depositFn(ctx, input)
}

func (s *walletServiceStub) Withdraw(ctx context.Context, input usecase.WithdrawInput) (*usecase.Result, error) {
	return s.withdrawFn(ctx, input)
}

func (s *walletServiceStub) Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.Result, error) {
	return s.transferFn(ctx, input)
}

type walletQueriesStub struct {
	wallets      map[string]*domain.Wallet
	transactions []*domain.Transaction
	entries      []*domain.LedgerEntry
}

func (s *walletQueriesStub) GetWallet(_ context.Context, id string) (*domain.Wallet, error) {
	w, ok := s.wallets[id]
	if !ok {
		return nil, domain.NewWalletNotFoundError(id)
	}
	return w, nil
}

func (s *walletQueriesStub) ListWallets(context.Context, int, int) ([]*domain.Wallet, error) {
	result := make([]*domain.Wallet, 0, len(s.wallets))
	for _, w := range s.wallets {
		result = append(result, w)
	}
	return result, nil
}

func (s *walletQueriesStub) ListTransactions(_ context.Context, walletID string, _, _ int) ([]*domain.Transaction, error) {
	if _, ok := s.wallets[walletID]; !ok {
		return nil, domain.NewWalletNotFoundError(walletID)
	}
	return s.transactions, nil
}

func (s *walletQueriesStub) ListLedgerEntries(_ context.Context, walletID string, _, _ int) ([]*domain.LedgerEntry, error) {
	if _, ok := s.wallets[walletID]; !ok {
		return nil, domain.NewWalletNotFoundError(walletID)
	}
	return s.entries, nil
}

func (s *walletQueriesStub) GetTransaction(_ context.Context, id string) (*domain.Transaction, []*domain.LedgerEntry, error) {
	for _, t := range s.transactions {
		if t.ID == id {
			return t, s.entries, nil
		}
	}
	return nil, nil, domain.NewNotFoundError("Transaction not found", domain.ErrTransactionNotFound)
}

func TestWalletHandler_Create(t *testing.T) {
	var captured usecase.CreateWalletInput
	h := NewWalletHandler(&walletServiceStub{
		createFn: func(_ context.Context, input usecase.CreateWalletInput) (*usecase.Result, error) {
			captured = input
			return &usecase.Result{Body: []byte(`{"id":"w-1"}`), HTTPStatus: http.StatusCreated}, nil
		},
	}, &walletQueriesStub{})

	body := `{"request_id":"req-1","owner_id":"owner-1","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallets", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.RequestID != "req-1" || captured.OwnerID != "owner-1" || captured.Currency != "USD" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
	if rec.Body.String() != `{"id":"w-1"}` {
		t.Fatalf("expected cached body verbatim, got %s", rec.Body.String())
	}
}

func TestWalletHandler_RejectsMalformedBodies(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		createFn: func(context.Context, usecase.CreateWalletInput) (*usecase.Result, error) {
			t.Fatal("CreateWallet should not be called for invalid payload")
			return nil, nil
		},
		depositFn: func(context.Context, usecase.DepositInput) (*usecase.Result, error) {
			t.Fatal("Deposit should not be called for invalid payload")
			return nil, nil
		},
	}, &walletQueriesStub{})

	tests := []struct {
		name    string
		body    string
		handler http.HandlerFunc
	}{
		{"broken json", "{invalid json", h.Create},
		{"unknown field", `{"request_id":"r","owner":"x"}`, h.Create},
		{"non-numeric amount", `{"request_id":"r","amount":"ten","currency":"USD"}`, h.Deposit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			req = setChiURLParam(req, "id", "w-1")
			rec := httptest.NewRecorder()

			tt.handler(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestWalletHandler_DepositUsesPathWallet(t *testing.T) {
	var captured usecase.DepositInput
	h := NewWalletHandler(&walletServiceStub{
		depositFn: func(_ context.Context, input usecase.DepositInput) (*usecase.Result, error) {
			captured = input
			return &usecase.Result{Body: []byte(`{}`), HTTPStatus: http.StatusOK, Replayed: true}, nil
		},
	}, &walletQueriesStub{})

	body := `{"request_id":"req-2","amount":"50","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallets/w-9/deposit", bytes.NewBufferString(body))
	req = setChiURLParam(req, "id", "w-9")
	rec := httptest.NewRecorder()

	h.Deposit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.WalletID != "w-9" || !captured.Amount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected deposit input: %+v", captured)
	}
	if rec.Header().Get(ReplayedHeader) != "true" {
		t.Fatalf("expected replay header on replayed result")
	}
}

func TestWalletHandler_WithdrawFailureUsesTaxonomy(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		withdrawFn: func(context.Context, usecase.WithdrawInput) (*usecase.Result, error) {
			return nil, domain.NewTransactionFailedError(domain.FailureReasonInsufficientFunds)
		},
	}, &walletQueriesStub{})

	body := `{"request_id":"req-3","amount":"200","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallets/w-1/withdraw", bytes.NewBufferString(body))
	req = setChiURLParam(req, "id", "w-1")
	rec := httptest.NewRecorder()

	h.Withdraw(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] != "business" || resp["message"] != "Insufficient funds" {
		t.Fatalf("unexpected error body: %v", resp)
	}
}

func TestWalletHandler_Transfer(t *testing.T) {
	var captured usecase.TransferInput
	h := NewWalletHandler(&walletServiceStub{
		transferFn: func(_ context.Context, input usecase.TransferInput) (*usecase.Result, error) {
			captured = input
			return &usecase.Result{Body: []byte(`{}`), HTTPStatus: http.StatusOK}, nil
		},
	}, &walletQueriesStub{})

	body := `{"request_id":"req-4","from_wallet_id":"a","to_wallet_id":"b","amount":"1.5","currency":"EUR"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallets/transfer", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Transfer(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.FromWalletID != "a" || captured.ToWalletID != "b" || captured.Currency != "EUR" {
		t.Fatalf("unexpected transfer input: %+v", captured)
	}
}

func TestWalletHandler_Queries(t *testing.T) {
	now := time.Now()
	wallet := domain.NewWallet("w-1", "owner-1", "USD", now)
	tx := &domain.Transaction{ID: "tx-1", RequestID: "req-1", Type: domain.TransactionTypeDeposit, Status: domain.TransactionStatusCompleted, Amount: decimal.NewFromInt(5), Currency: "USD", ToWalletID: "w-1", CreatedAt: now}
	entry := &domain.LedgerEntry{ID: "le-1", TransactionID: "tx-1", WalletID: "w-1", Amount: decimal.NewFromInt(5), Currency: "USD", Direction: domain.DirectionCredit, BalanceAfter: decimal.NewFromInt(5), CreatedAt: now}

	h := NewWalletHandler(&walletServiceStub{}, &walletQueriesStub{
		wallets:      map[string]*domain.Wallet{"w-1": wallet},
		transactions: []*domain.Transaction{tx},
		entries:      []*domain.LedgerEntry{entry},
	})

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		id         string
		wantStatus int
	}{
		{"get wallet", h.Get, "w-1", http.StatusOK},
		{"get missing wallet", h.Get, "w-404", http.StatusNotFound},
		{"list transactions", h.ListTransactions, "w-1", http.StatusOK},
		{"list ledger", h.ListLedger, "w-1", http.StatusOK},
		{"ledger of missing wallet", h.ListLedger, "w-404", http.StatusNotFound},
		{"get transaction", h.GetTransaction, "tx-1", http.StatusOK},
		{"get missing transaction", h.GetTransaction, "tx-404", http.StatusNotFound},
		{"list wallets", h.List, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = setChiURLParam(req, "id", tt.id)
			rec := httptest.NewRecorder()

			tt.handler(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}
