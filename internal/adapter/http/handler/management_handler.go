package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// Blacklist defines the blacklist operations needed by ManagementHandler.
type Blacklist interface {
	Block(ctx context.Context, walletID, reason string) (*domain.BlacklistEntry, error)
	Unblock(ctx context.Context, walletID string) error
	List(ctx context.Context) ([]*domain.BlacklistEntry, error)
}

// Reconciler produces reconciliation reports.
type Reconciler interface {
	GenerateReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// ReportObserver is told the outcome of every report.
type ReportObserver interface {
	SetDiscrepancies(n int)
}

// ManagementHandler handles operator endpoints.
type ManagementHandler struct {
	blacklist  Blacklist
	reconciler Reconciler
	observer   ReportObserver
}

// NewManagementHandler creates a new ManagementHandler. observer may be nil.
func NewManagementHandler(blacklist Blacklist, reconciler Reconciler, observer ReportObserver) *ManagementHandler {
	return &ManagementHandler{blacklist: blacklist, reconciler: reconciler, observer: observer}
}

// Block blacklists a wallet.
func (h *ManagementHandler) Block(w http.ResponseWriter, r *http.Request) {
	var req dto.BlockWalletRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if req.WalletID == "" {
		writeBadRequest(w, "wallet_id is required")
		return
	}

	entry, err := h.blacklist.Block(r.Context(), req.WalletID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BlacklistEntryFromDomain(entry))
}

// Unblock removes a wallet from the blacklist.
func (h *ManagementHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	if err := h.blacklist.Unblock(r.Context(), chi.URLParam(r, "walletId")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListBlacklist lists blacklisted wallets.
func (h *ManagementHandler) ListBlacklist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.blacklist.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BlacklistEntriesFromDomain(entries))
}

// Reconciliation reports wallets whose balance disagrees with the ledger.
func (h *ManagementHandler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciler.GenerateReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if h.observer != nil {
		h.observer.SetDiscrepancies(len(report.Discrepancies))
	}

	writeJSON(w, http.StatusOK, report)
}
