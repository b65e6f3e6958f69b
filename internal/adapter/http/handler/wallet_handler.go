package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// WalletService defines the idempotent operations needed by WalletHandler.
type WalletService interface {
	CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*usecase.Result, error)
	Deposit(ctx context.Context, input usecase.DepositInput) (*usecase.Result, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*usecase.Result, error)
	Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.Result, error)
}

// WalletQueries defines the read side needed by WalletHandler.
type WalletQueries interface {
	GetWallet(ctx context.Context, id string) (*domain.Wallet, error)
	ListWallets(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
	ListTransactions(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error)
	ListLedgerEntries(ctx context.Context, walletID string, limit, offset int) ([]*domain.LedgerEntry, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, []*domain.LedgerEntry, error)
}

// WalletHandler handles wallet and transaction HTTP requests.
type WalletHandler struct {
	service WalletService
	queries WalletQueries
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(service WalletService, queries WalletQueries) *WalletHandler {
	return &WalletHandler{service: service, queries: queries}
}

// Create opens a wallet.
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWalletRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	h.respond(w)(h.service.CreateWallet(r.Context(), req.ToUseCaseInput()))
}

// Deposit credits the wallet in the URL.
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.MovementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	h.respond(w)(h.service.Deposit(r.Context(), req.ToDepositInput(chi.URLParam(r, "id"))))
}

// Withdraw debits the wallet in the URL.
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.MovementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	h.respond(w)(h.service.Withdraw(r.Context(), req.ToWithdrawInput(chi.URLParam(r, "id"))))
}

// Transfer moves money between two wallets.
func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	h.respond(w)(h.service.Transfer(r.Context(), req.ToUseCaseInput()))
}

func (h *WalletHandler) respond(w http.ResponseWriter) func(*usecase.Result, error) {
	return func(result *usecase.Result, err error) {
		if err != nil {
			writeError(w, err)
			return
		}

		writeResult(w, result)
	}
}

// Get retrieves a wallet by ID.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.queries.GetWallet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, usecase.NewWalletView(wallet, ""))
}

// List lists wallets.
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.queries.ListWallets(r.Context(), parseIntQuery(r, "limit", domain.DefaultPageLimit), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletsFromDomain(wallets))
}

// ListTransactions lists a wallet's transactions, newest first.
func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.queries.ListTransactions(
		r.Context(),
		chi.URLParam(r, "id"),
		parseIntQuery(r, "limit", domain.DefaultPageLimit),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, usecase.NewTransactionViews(transactions))
}

// ListLedger lists a wallet's ledger entries, newest first.
func (h *WalletHandler) ListLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := h.queries.ListLedgerEntries(
		r.Context(),
		chi.URLParam(r, "id"),
		parseIntQuery(r, "limit", domain.DefaultPageLimit),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerEntriesFromDomain(entries))
}

// GetTransaction returns a transaction and its ledger entries.
func (h *WalletHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transaction, entries, err := h.queries.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionDetailResponse{
		Transaction: usecase.NewTransactionView(transaction),
		Entries:     dto.LedgerEntriesFromDomain(entries),
	})
}
