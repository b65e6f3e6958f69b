package dto

import (
	"time"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// LedgerEntryResponse represents a ledger entry in API responses.
type LedgerEntryResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	WalletID      string    `json:"wallet_id"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Direction     string    `json:"direction"`
	BalanceAfter  string    `json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`
}

// LedgerEntryFromDomain converts a domain entry to a response.
func LedgerEntryFromDomain(e *domain.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		WalletID:      e.WalletID,
		Amount:        e.Amount.String(),
		Currency:      e.Currency,
		Direction:     string(e.Direction),
		BalanceAfter:  e.BalanceAfter.String(),
		CreatedAt:     e.CreatedAt,
	}
}

// LedgerEntriesFromDomain converts domain entries to responses.
func LedgerEntriesFromDomain(entries []*domain.LedgerEntry) []*LedgerEntryResponse {
	result := make([]*LedgerEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = LedgerEntryFromDomain(e)
	}
	return result
}

// TransactionDetailResponse is a transaction with the entries it produced.
type TransactionDetailResponse struct {
	Transaction *usecase.TransactionView `json:"transaction"`
	Entries     []*LedgerEntryResponse   `json:"entries"`
}

// BlacklistEntryResponse represents a blacklist entry in API responses.
type BlacklistEntryResponse struct {
	ID        string    `json:"id"`
	WalletID  string    `json:"wallet_id"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// BlacklistEntryFromDomain converts a domain entry to a response.
func BlacklistEntryFromDomain(e *domain.BlacklistEntry) *BlacklistEntryResponse {
	return &BlacklistEntryResponse{
		ID:        e.ID,
		WalletID:  e.WalletID,
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt,
	}
}

// BlacklistEntriesFromDomain converts domain entries to responses.
func BlacklistEntriesFromDomain(entries []*domain.BlacklistEntry) []*BlacklistEntryResponse {
	result := make([]*BlacklistEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = BlacklistEntryFromDomain(e)
	}
	return result
}

// WalletsFromDomain converts domain wallets to views.
func WalletsFromDomain(wallets []*domain.Wallet) []*usecase.WalletView {
	result := make([]*usecase.WalletView, len(wallets))
	for i, w := range wallets {
		result[i] = usecase.NewWalletView(w, "")
	}
	return result
}
