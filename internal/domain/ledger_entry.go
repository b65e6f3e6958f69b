package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side of a ledger entry.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// LedgerEntry records one balance change of one wallet. Entries are never
// updated or deleted.
type LedgerEntry struct {
	ID            string
	TransactionID string
	WalletID      string
	Amount        decimal.Decimal
	Currency      string
	Direction     Direction
	BalanceAfter  decimal.Decimal
	CreatedAt     time.Time
}

// SignedAmount returns the amount as it affects the wallet balance.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Direction == DirectionDebit {
		return e.Amount.Neg()
	}

	return e.Amount
}
