package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// WalletView is the client-facing shape of a wallet. Mutating operations
// cache its JSON encoding for replays.
type WalletView struct {
	RequestID string          `json:"request_id,omitempty"`
	ID        string          `json:"id,omitempty"`
	OwnerID   string          `json:"owner_id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Status    string          `json:"status"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// TransactionView is the client-facing shape of a transaction.
type TransactionView struct {
	ID            string           `json:"id,omitempty"`
	RequestID     string           `json:"request_id"`
	Type          string           `json:"type"`
	Status        string           `json:"status"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	FromWalletID  string           `json:"from_wallet_id,omitempty"`
	ToWalletID    string           `json:"to_wallet_id,omitempty"`
	Description   string           `json:"description,omitempty"`
	BalanceAfter  *decimal.Decimal `json:"balance_after,omitempty"`
	FailureReason string           `json:"failure_reason,omitempty"`
	CreatedAt     *time.Time       `json:"created_at,omitempty"`
}

// NewWalletView converts a domain wallet.
func NewWalletView(w *domain.Wallet, requestID string) *WalletView {
	createdAt := w.CreatedAt
	updatedAt := w.UpdatedAt

	return &WalletView{
		RequestID: requestID,
		ID:        w.ID,
		OwnerID:   w.OwnerID,
		Currency:  w.Currency,
		Balance:   w.Balance,
		Status:    string(w.Status),
		CreatedAt: &createdAt,
		UpdatedAt: &updatedAt,
	}
}

// NewTransactionView converts a domain transaction.
func NewTransactionView(t *domain.Transaction) *TransactionView {
	createdAt := t.CreatedAt

	return &TransactionView{
		ID:            t.ID,
		RequestID:     t.RequestID,
		Type:          string(t.Type),
		Status:        string(t.Status),
		Amount:        t.Amount,
		Currency:      t.Currency,
		FromWalletID:  t.FromWalletID,
		ToWalletID:    t.ToWalletID,
		Description:   t.Description,
		FailureReason: t.FailureReason,
		CreatedAt:     &createdAt,
	}
}

// NewTransactionViews converts a list of domain transactions.
func NewTransactionViews(transactions []*domain.Transaction) []*TransactionView {
	views := make([]*TransactionView, 0, len(transactions))
	for _, t := range transactions {
		views = append(views, NewTransactionView(t))
	}

	return views
}
