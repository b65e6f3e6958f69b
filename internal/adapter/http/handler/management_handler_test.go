package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

type blacklistStub struct {
	blocked map[string]*domain.BlacklistEntry
}

func (s *blacklistStub) Block(_ context.Context, walletID, reason string) (*domain.BlacklistEntry, error) {
	if _, ok := s.blocked[walletID]; ok {
		return nil, domain.NewConflictError("Wallet is already blocked", domain.ErrWalletAlreadyBlocked)
	}
	entry := &domain.BlacklistEntry{ID: "bl-" + walletID, WalletID: walletID, Reason: reason, CreatedAt: time.Now()}
	s.blocked[walletID] = entry
	return entry, nil
}

func (s *blacklistStub) Unblock(_ context.Context, walletID string) error {
	if _, ok := s.blocked[walletID]; !ok {
		return domain.NewNotFoundError("Wallet is not blacklisted", domain.ErrBlacklistEntryNotFound)
	}
	delete(s.blocked, walletID)
	return nil
}

func (s *blacklistStub) List(context.Context) ([]*domain.BlacklistEntry, error) {
	result := make([]*domain.BlacklistEntry, 0, len(s.blocked))
	for _, e := range s.blocked {
		result = append(result, e)
	}
	return result, nil
}

type reconcilerStub struct {
	report *usecase.ReconciliationReport
}

func (s *reconcilerStub) GenerateReport(context.Context) (*usecase.ReconciliationReport, error) {
	return s.report, nil
}

type observerStub struct {
	discrepancies int
}

func (s *observerStub) SetDiscrepancies(n int) { s.discrepancies = n }

func TestManagementHandler_BlockUnblock(t *testing.T) {
	h := NewManagementHandler(&blacklistStub{blocked: map[string]*domain.BlacklistEntry{}}, &reconcilerStub{}, nil)

	block := func() int {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"wallet_id":"w-1","reason":"fraud"}`))
		rec := httptest.NewRecorder()
		h.Block(rec, req)
		return rec.Code
	}

	if code := block(); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if code := block(); code != http.StatusConflict {
		t.Fatalf("expected 409 for second block, got %d", code)
	}

	unblock := func() int {
		req := setChiURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "walletId", "w-1")
		rec := httptest.NewRecorder()
		h.Unblock(rec, req)
		return rec.Code
	}

	if code := unblock(); code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", code)
	}
	if code := unblock(); code != http.StatusNotFound {
		t.Fatalf("expected 404 for second unblock, got %d", code)
	}
}

func TestManagementHandler_BlockRequiresWallet(t *testing.T) {
	h := NewManagementHandler(&blacklistStub{blocked: map[string]*domain.BlacklistEntry{}}, &reconcilerStub{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"reason":"fraud"}`))
	rec := httptest.NewRecorder()
	h.Block(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestManagementHandler_ListBlacklist(t *testing.T) {
	stub := &blacklistStub{blocked: map[string]*domain.BlacklistEntry{
		"w-1": {ID: "bl-1", WalletID: "w-1", Reason: "fraud"},
	}}
	h := NewManagementHandler(stub, &reconcilerStub{}, nil)

	rec := httptest.NewRecorder()
	h.ListBlacklist(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var entries []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(entries) != 1 || entries[0]["wallet_id"] != "w-1" {
		t.Fatalf("unexpected entries: %v", entries)
	}
}

func TestManagementHandler_ReconciliationReportsDiscrepancies(t *testing.T) {
	observer := &observerStub{}
	h := NewManagementHandler(&blacklistStub{}, &reconcilerStub{report: &usecase.ReconciliationReport{
		TotalWallets:     2,
		Discrepancies:    []*usecase.ReconciliationResult{{WalletID: "w-2"}},
		LedgerConsistent: false,
	}}, observer)

	rec := httptest.NewRecorder()
	h.Reconciliation(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if observer.discrepancies != 1 {
		t.Fatalf("expected observer to see 1 discrepancy, got %d", observer.discrepancies)
	}
}
