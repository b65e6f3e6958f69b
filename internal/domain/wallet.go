package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// WalletStatus is the lifecycle state of a wallet.
type WalletStatus string

const (
	WalletStatusPending   WalletStatus = "PENDING"
	WalletStatusActive    WalletStatus = "ACTIVE"
	WalletStatusSuspended WalletStatus = "SUSPENDED"
	WalletStatusClosed    WalletStatus = "CLOSED"
)

// Wallet holds a single-currency balance owned by a user.
type Wallet struct {
	ID        string
	OwnerID   string
	Currency  string
	Status    WalletStatus
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWallet returns an active wallet with a zero balance.
func NewWallet(id, ownerID, currency string, now time.Time) *Wallet {
	return &Wallet{
		ID:        id,
		OwnerID:   ownerID,
		Currency:  NormalizeCurrency(currency),
		Status:    WalletStatusActive,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive reports whether the wallet accepts money movements.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}

// CheckCurrency returns a currency mismatch error if currency differs from
// the wallet's.
func (w *Wallet) CheckCurrency(currency string) error {
	if w.Currency != NormalizeCurrency(currency) {
		return NewCurrencyMismatchError(w.ID, w.Currency, currency)
	}

	return nil
}

// HasFunds reports whether the wallet can be debited by amount without
// going negative.
func (w *Wallet) HasFunds(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// Credit adds amount to the balance and returns the new balance. The
// balance must stay below MaxAmount; otherwise the wallet is left untouched.
func (w *Wallet) Credit(amount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	next := w.Balance.Add(amount)
	if next.GreaterThanOrEqual(maxAmount) {
		return w.Balance, fmt.Errorf("%w: balance must stay below %s", ErrBalanceTooLarge, MaxAmount)
	}

	w.Balance = next
	w.Version++
	w.UpdatedAt = now

	return w.Balance, nil
}

// Debit subtracts amount from the balance and returns the new balance.
func (w *Wallet) Debit(amount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if !w.HasFunds(amount) {
		return w.Balance, ErrInsufficientFunds
	}

	w.Balance = w.Balance.Sub(amount)
	w.Version++
	w.UpdatedAt = now

	return w.Balance, nil
}

// LockedReason describes why a non-active wallet is denied.
func (w *Wallet) LockedReason() string {
	return fmt.Sprintf("Operation denied: wallet is locked. Current status: %s.", w.Status)
}
