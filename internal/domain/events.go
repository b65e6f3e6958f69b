package domain

import "time"

// Event types
const (
	EventTypeWalletCreated        = "wallet.created"
	EventTypeWalletBlocked        = "wallet.blocked"
	EventTypeWalletUnblocked      = "wallet.unblocked"
	EventTypeTransactionCompleted = "transaction.completed"
	EventTypeTransactionFailed    = "transaction.failed"
)

// Aggregate types
const (
	AggregateTypeWallet      = "wallet"
	AggregateTypeTransaction = "transaction"
)

// OutboxEvent is an event written in the same unit of work as the change it
// describes and published later.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewTransactionEvent builds the outbox event for a finalized transaction.
func NewTransactionEvent(id string, tx *Transaction) *OutboxEvent {
	eventType := EventTypeTransactionCompleted
	if tx.Status == TransactionStatusFailed {
		eventType = EventTypeTransactionFailed
	}

	payload := map[string]any{
		"transaction_id": tx.ID,
		"request_id":     tx.RequestID,
		"type":           string(tx.Type),
		"status":         string(tx.Status),
		"amount":         tx.Amount.String(),
		"currency":       tx.Currency,
	}
	if tx.FromWalletID != "" {
		payload["from_wallet_id"] = tx.FromWalletID
	}
	if tx.ToWalletID != "" {
		payload["to_wallet_id"] = tx.ToWalletID
	}
	if tx.FailureReason != "" {
		payload["failure_reason"] = tx.FailureReason
	}

	return &OutboxEvent{
		ID:            id,
		AggregateID:   tx.ID,
		AggregateType: AggregateTypeTransaction,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     tx.UpdatedAt,
	}
}

// NewWalletEvent builds a wallet lifecycle event.
func NewWalletEvent(id, eventType string, wallet *Wallet, now time.Time) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   wallet.ID,
		AggregateType: AggregateTypeWallet,
		EventType:     eventType,
		Payload: map[string]any{
			"wallet_id": wallet.ID,
			"owner_id":  wallet.OwnerID,
			"currency":  wallet.Currency,
			"status":    string(wallet.Status),
		},
		CreatedAt: now,
	}
}
