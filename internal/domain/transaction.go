package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// TransactionStatus is the state of a transaction. PENDING moves exactly
// once to COMPLETED or FAILED.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// FailureReasonInsufficientFunds is recorded on transactions that would
// overdraw their source wallet.
const FailureReasonInsufficientFunds = "Insufficient funds"

// Transaction is a single money movement.
type Transaction struct {
	ID            string
	RequestID     string
	Type          TransactionType
	Status        TransactionStatus
	Amount        decimal.Decimal
	Currency      string
	FromWalletID  string
	ToWalletID    string
	Description   string
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Complete finalizes the transaction as COMPLETED.
func (t *Transaction) Complete(now time.Time) error {
	if t.Status != TransactionStatusPending {
		return ErrTransactionFinalized
	}

	t.Status = TransactionStatusCompleted
	t.UpdatedAt = now

	return nil
}

// Fail finalizes the transaction as FAILED with reason.
func (t *Transaction) Fail(reason string, now time.Time) error {
	if t.Status != TransactionStatusPending {
		return ErrTransactionFinalized
	}

	t.Status = TransactionStatusFailed
	t.FailureReason = reason
	t.UpdatedAt = now

	return nil
}

// IsFinal reports whether the transaction reached a terminal state.
func (t *Transaction) IsFinal() bool {
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusFailed
}

// SourceWalletID returns the wallet money leaves, or the target wallet for
// deposits. Rate limits are counted against it.
func (t *Transaction) SourceWalletID() string {
	if t.FromWalletID != "" {
		return t.FromWalletID
	}

	return t.ToWalletID
}
