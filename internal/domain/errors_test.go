package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"currency mismatch", NewCurrencyMismatchError("w1", "USD", "EUR"), KindValidation},
		{"wrapped sentinel", fmt.Errorf("lock: %w", ErrWalletNotFound), KindNotFound},
		{"same wallet", ErrSameWallet, KindValidation},
		{"insufficient funds", NewTransactionFailedError(FailureReasonInsufficientFunds), KindBusiness},
		{"locked", NewWalletLockedError(SuspendedReason), KindLocked},
		{"rate limited", NewRateLimitExceededError(5, time.Minute), KindRateLimited},
		{"tampering", NewRequestTamperingError("r1"), KindTampering},
		{"already blocked", ErrWalletAlreadyBlocked, KindConflict},
		{"unknown", errors.New("connection reset"), KindInternal},
		{"lock timeout", ErrLockTimeout, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestHTTPStatusOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{NewCurrencyMismatchError("w1", "USD", "EUR"), http.StatusBadRequest},
		{NewWalletNotFoundError("w1"), http.StatusNotFound},
		{NewTransactionFailedError("Insufficient funds"), http.StatusUnprocessableEntity},
		{NewWalletLockedError("locked"), http.StatusLocked},
		{NewRateLimitExceededError(1, time.Minute), http.StatusTooManyRequests},
		{NewRequestTamperingError("r1"), http.StatusConflict},
		{NewPreviousFailureError(http.StatusLocked, "locked"), http.StatusLocked},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatusOf(tt.err); got != tt.want {
			t.Fatalf("HTTPStatusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	err := NewCurrencyMismatchError("w1", "USD", "EUR")
	want := "Operation rejected: Currency mismatch. [WalletID: w1 | Wallet Currency: USD | Provided Currency: EUR]"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatal("expected currency mismatch to unwrap to its sentinel")
	}

	if got := NewWalletNotFoundError("w9").Error(); got != "Wallet with id: w9 not found" {
		t.Fatalf("unexpected message %q", got)
	}

	if got := NewRateLimitExceededError(10, time.Minute).Error(); got != "Transaction limit exceeded: max 10 per 1 minute(s)" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestRecognizedKinds(t *testing.T) {
	t.Parallel()

	for _, k := range []ErrorKind{KindValidation, KindNotFound, KindBusiness, KindLocked, KindRateLimited} {
		if !k.Recognized() {
			t.Fatalf("expected %s to be recognized", k)
		}
	}

	for _, k := range []ErrorKind{KindInternal, KindTampering, KindPreviousFailure, KindConflict} {
		if k.Recognized() {
			t.Fatalf("expected %s not to be recognized", k)
		}
	}
}
