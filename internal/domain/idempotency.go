package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
	"unicode/utf8"
)

// RequestType identifies the operation an idempotency record guards.
type RequestType string

const (
	RequestTypeCreateWallet RequestType = "CREATE_WALLET"
	RequestTypeDeposit      RequestType = "DEPOSIT"
	RequestTypeWithdraw     RequestType = "WITHDRAW"
	RequestTypeTransfer     RequestType = "TRANSFER"
)

// IdempotencyStatus is the state of an idempotency record.
type IdempotencyStatus string

const (
	IdempotencyStatusPending   IdempotencyStatus = "PENDING"
	IdempotencyStatusCompleted IdempotencyStatus = "COMPLETED"
	IdempotencyStatusFailed    IdempotencyStatus = "FAILED"
	IdempotencyStatusRejected  IdempotencyStatus = "REJECTED"
)

const (
	// MaxFailReasonLength bounds stored failure reasons.
	MaxFailReasonLength = 255

	// HTTPStatusUnset marks a record that has no final outcome yet.
	HTTPStatusUnset = -1
)

// IdempotencyRecord is the claim and outcome of one client request.
type IdempotencyRecord struct {
	RequestID    string
	RequestType  RequestType
	Currency     string
	FromWalletID string
	ToWalletID   string
	Status       IdempotencyStatus
	RequestHash  string
	RequestBody  []byte
	ResponseBody []byte
	HTTPStatus   int
	FailReason   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsTerminal reports whether the record holds a final outcome.
func (r *IdempotencyRecord) IsTerminal() bool {
	switch r.Status {
	case IdempotencyStatusCompleted, IdempotencyStatusFailed, IdempotencyStatusRejected:
		return true
	default:
		return false
	}
}

// Matches reports whether hash equals the hash stored at claim time.
func (r *IdempotencyRecord) Matches(hash string) bool {
	return r.RequestHash == hash
}

// CanonicalRequest is the hashed form of a request: a flat object of string
// fields. Empty values are omitted so optional fields do not change the hash.
type CanonicalRequest map[string]string

// Encode returns the canonical JSON encoding: keys in byte order, no
// insignificant whitespace.
func (c CanonicalRequest) Encode() ([]byte, error) {
	fields := make(map[string]string, len(c))
	for k, v := range c {
		if v != "" {
			fields[k] = v
		}
	}

	return json.Marshal(fields)
}

// HashRequest returns the hex SHA-256 of a canonical encoding.
func HashRequest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// TruncateReason cuts reason to MaxFailReasonLength runes.
func TruncateReason(reason string) string {
	if utf8.RuneCountInString(reason) <= MaxFailReasonLength {
		return reason
	}

	runes := []rune(reason)

	return string(runes[:MaxFailReasonLength])
}
