package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestWalletCreditDebit(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	w := NewWallet("w1", "owner", "usd", now)

	if w.Currency != "USD" || w.Status != WalletStatusActive || !w.Balance.IsZero() {
		t.Fatalf("unexpected new wallet: %+v", w)
	}

	got, err := w.Credit(decimal.NewFromInt(100), now)
	if err != nil {
		t.Fatalf("unexpected credit error: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected balance 100, got %s", got)
	}

	got, err = w.Debit(decimal.NewFromInt(40), now)
	if err != nil {
		t.Fatalf("unexpected debit error: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected balance 60, got %s", got)
	}

	if w.Version != 2 {
		t.Fatalf("expected version 2, got %d", w.Version)
	}
}

func TestWalletDebitInsufficientFunds(t *testing.T) {
	t.Parallel()

	w := &Wallet{ID: "w1", Balance: decimal.NewFromInt(100)}

	_, err := w.Debit(decimal.NewFromInt(200), time.Now())
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if !w.Balance.Equal(decimal.NewFromInt(100)) || w.Version != 0 {
		t.Fatalf("expected wallet untouched, got balance=%s version=%d", w.Balance, w.Version)
	}
}

func TestWalletCheckCurrency(t *testing.T) {
	t.Parallel()

	w := &Wallet{ID: "w1", Currency: "USD"}

	if err := w.CheckCurrency("usd"); err != nil {
		t.Fatalf("expected matching currency, got %v", err)
	}

	if err := w.CheckCurrency("EUR"); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected currency mismatch, got %v", err)
	}
}

func TestWalletLockedReason(t *testing.T) {
	t.Parallel()

	w := &Wallet{Status: WalletStatusSuspended}
	want := "Operation denied: wallet is locked. Current status: SUSPENDED."
	if got := w.LockedReason(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWalletCreditRejectsOverflow(t *testing.T) {
	t.Parallel()

	start := decimal.RequireFromString("999999999999999")
	w := &Wallet{ID: "w1", Balance: start}

	if _, err := w.Credit(start, time.Now()); !errors.Is(err, ErrBalanceTooLarge) {
		t.Fatalf("expected ErrBalanceTooLarge, got %v", err)
	}
	if KindOf(ErrBalanceTooLarge) != KindValidation {
		t.Fatalf("expected validation kind, got %s", KindOf(ErrBalanceTooLarge))
	}

	if !w.Balance.Equal(start) || w.Version != 0 {
		t.Fatalf("expected wallet untouched, got balance=%s version=%d", w.Balance, w.Version)
	}
}
