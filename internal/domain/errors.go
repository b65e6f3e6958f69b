package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// Wallet errors
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCurrencyMismatch  = errors.New("currency mismatch")
	ErrWalletLocked      = errors.New("wallet is locked")
	ErrLockTimeout       = errors.New("timed out waiting for wallet lock")

	// Transaction errors
	ErrSameWallet               = errors.New("cannot transfer to the same wallet")
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrTransactionFinalized     = errors.New("transaction already finalized")
	ErrRateLimitExceeded        = errors.New("transaction rate limit exceeded")
	ErrTransactionFailed        = errors.New("transaction failed")
	ErrUnsupportedOperationType = errors.New("unsupported operation type")

	// Idempotency errors
	ErrIdempotencyRecordNotFound = errors.New("idempotency record not found")
	ErrDuplicateRequest          = errors.New("request id already claimed")
	ErrRequestTampering          = errors.New("request id reused with a different payload")
	ErrPreviousRequestFailed     = errors.New("request previously failed")

	// Blacklist errors
	ErrBlacklistEntryNotFound = errors.New("blacklist entry not found")
	ErrWalletAlreadyBlocked   = errors.New("wallet is already blocked")
)

// ErrorKind classifies failures so the boundary layer can derive a status
// without parsing messages.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindNotFound        ErrorKind = "not_found"
	KindBusiness        ErrorKind = "business"
	KindLocked          ErrorKind = "locked"
	KindRateLimited     ErrorKind = "rate_limited"
	KindTampering       ErrorKind = "tampering"
	KindConflict        ErrorKind = "conflict"
	KindPreviousFailure ErrorKind = "previous_failure"
	KindInternal        ErrorKind = "internal"
)

// HTTPStatus returns the HTTP status associated with the kind.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindBusiness:
		return http.StatusUnprocessableEntity
	case KindLocked:
		return http.StatusLocked
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindTampering, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Recognized reports whether failures of this kind are expected domain
// outcomes that get recorded as REJECTED rather than FAILED.
func (k ErrorKind) Recognized() bool {
	switch k {
	case KindValidation, KindNotFound, KindBusiness, KindLocked, KindRateLimited:
		return true
	default:
		return false
	}
}

// Error is a classified domain failure.
type Error struct {
	Kind    ErrorKind
	Message string
	// Status overrides the kind's status; set when replaying a stored failure.
	Status int
	Err    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status to report for this error.
func (e *Error) HTTPStatus() int {
	if e.Status > 0 {
		return e.Status
	}

	return e.Kind.HTTPStatus()
}

// KindOf classifies any error. Bare sentinels are mapped to their kind and
// everything unknown is internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}

	switch {
	case errors.Is(err, ErrWalletNotFound):
		return KindNotFound
	case errors.Is(err, ErrSameWallet),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidCurrency),
		errors.Is(err, ErrInvalidRequestID),
		errors.Is(err, ErrCurrencyMismatch),
		errors.Is(err, ErrAmountTooLarge),
		errors.Is(err, ErrAmountPrecision),
		errors.Is(err, ErrBalanceTooLarge),
		errors.Is(err, ErrInvalidOwnerID):
		return KindValidation
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrTransactionFailed):
		return KindBusiness
	case errors.Is(err, ErrWalletLocked):
		return KindLocked
	case errors.Is(err, ErrRateLimitExceeded):
		return KindRateLimited
	case errors.Is(err, ErrRequestTampering):
		return KindTampering
	case errors.Is(err, ErrWalletAlreadyBlocked):
		return KindConflict
	case errors.Is(err, ErrBlacklistEntryNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

// HTTPStatusOf returns the HTTP status for any error.
func HTTPStatusOf(err error) int {
	var de *Error
	if errors.As(err, &de) {
		return de.HTTPStatus()
	}

	return KindOf(err).HTTPStatus()
}

// NewValidationError wraps a validation sentinel.
func NewValidationError(err error) *Error {
	return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
}

// NewCurrencyMismatchError reports that a wallet is held in another currency.
func NewCurrencyMismatchError(walletID, walletCurrency, providedCurrency string) *Error {
	return &Error{
		Kind: KindValidation,
		Message: fmt.Sprintf(
			"Operation rejected: Currency mismatch. [WalletID: %s | Wallet Currency: %s | Provided Currency: %s]",
			walletID, walletCurrency, providedCurrency,
		),
		Err: ErrCurrencyMismatch,
	}
}

// NewWalletNotFoundError reports a missing wallet.
func NewWalletNotFoundError(walletID string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("Wallet with id: %s not found", walletID),
		Err:     ErrWalletNotFound,
	}
}

// NewWalletLockedError reports a wallet that may not transact.
func NewWalletLockedError(message string) *Error {
	return &Error{Kind: KindLocked, Message: message, Err: ErrWalletLocked}
}

// NewRateLimitExceededError reports a wallet over its transaction ceiling.
func NewRateLimitExceededError(maxTransactions int, window time.Duration) *Error {
	return &Error{
		Kind:    KindRateLimited,
		Message: fmt.Sprintf("Transaction limit exceeded: max %d per %s", maxTransactions, formatWindow(window)),
		Err:     ErrRateLimitExceeded,
	}
}

func formatWindow(window time.Duration) string {
	if window >= time.Minute && window%time.Minute == 0 {
		return fmt.Sprintf("%d minute(s)", int(window/time.Minute))
	}

	return window.String()
}

// NewTransactionFailedError reports a business-level failure such as
// insufficient funds.
func NewTransactionFailedError(reason string) *Error {
	return &Error{Kind: KindBusiness, Message: reason, Err: ErrTransactionFailed}
}

// NewRequestTamperingError reports a request id reused with different content.
func NewRequestTamperingError(requestID string) *Error {
	return &Error{
		Kind:    KindTampering,
		Message: fmt.Sprintf("Request %s does not match the original request", requestID),
		Err:     ErrRequestTampering,
	}
}

// NewPreviousFailureError replays a stored failure.
func NewPreviousFailureError(status int, reason string) *Error {
	return &Error{
		Kind:    KindPreviousFailure,
		Message: reason,
		Status:  status,
		Err:     ErrPreviousRequestFailed,
	}
}

// NewConflictError reports a state conflict such as blocking a blocked wallet.
func NewConflictError(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

// NewNotFoundError reports a missing resource other than a wallet.
func NewNotFoundError(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

// NewInternalError hides err behind a generic message.
func NewInternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}
