package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type BlacklistEntry struct {
	ID        string             `json:"id"`
	WalletID  string             `json:"wallet_id"`
	Reason    string             `json:"reason"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type IdempotencyRecord struct {
	RequestID    string             `json:"request_id"`
	RequestType  string             `json:"request_type"`
	Currency     string             `json:"currency"`
	FromWalletID pgtype.Text        `json:"from_wallet_id"`
	ToWalletID   pgtype.Text        `json:"to_wallet_id"`
	Status       string             `json:"status"`
	RequestHash  string             `json:"request_hash"`
	RequestBody  []byte             `json:"request_body"`
	ResponseBody []byte             `json:"response_body"`
	HttpStatus   int32              `json:"http_status"`
	FailReason   pgtype.Text        `json:"fail_reason"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

type LedgerEntry struct {
	ID            string             `json:"id"`
	TransactionID string             `json:"transaction_id"`
	WalletID      string             `json:"wallet_id"`
	Amount        pgtype.Numeric     `json:"amount"`
	Currency      string             `json:"currency"`
	Direction     string             `json:"direction"`
	BalanceAfter  pgtype.Numeric     `json:"balance_after"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}

type Transaction struct {
	ID            string             `json:"id"`
	RequestID     string             `json:"request_id"`
	Type          string             `json:"type"`
	Status        string             `json:"status"`
	Amount        pgtype.Numeric     `json:"amount"`
	Currency      string             `json:"currency"`
	FromWalletID  pgtype.Text        `json:"from_wallet_id"`
	ToWalletID    pgtype.Text        `json:"to_wallet_id"`
	Description   pgtype.Text        `json:"description"`
	FailureReason pgtype.Text        `json:"failure_reason"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type Wallet struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	Currency  string             `json:"currency"`
	Status    string             `json:"status"`
	Balance   pgtype.Numeric     `json:"balance"`
	Version   int64              `json:"version"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}
