package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/usecase"
)

func TestCreateWalletRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateWalletRequest{RequestID: "req-1", OwnerID: "owner-1", Currency: "usd"}

	got := req.ToUseCaseInput()
	want := usecase.CreateWalletInput{RequestID: "req-1", OwnerID: "owner-1", Currency: "usd"}

	if got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

func TestMovementRequest_Conversions(t *testing.T) {
	req := &MovementRequest{
		RequestID:   "req-1",
		Amount:      decimal.RequireFromString("12.50"),
		Currency:    "EUR",
		Description: "top up",
	}

	deposit := req.ToDepositInput("w-1")
	if deposit.WalletID != "w-1" || !deposit.Amount.Equal(req.Amount) || deposit.Description != "top up" {
		t.Fatalf("unexpected deposit input: %+v", deposit)
	}

	withdraw := req.ToWithdrawInput("w-2")
	if withdraw.WalletID != "w-2" || withdraw.RequestID != "req-1" || withdraw.Currency != "EUR" {
		t.Fatalf("unexpected withdraw input: %+v", withdraw)
	}
}

func TestTransferRequest_DecodesStringAndNumberAmounts(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string amount", `{"request_id":"r","from_wallet_id":"a","to_wallet_id":"b","amount":"10.25","currency":"USD"}`, "10.25"},
		{"number amount", `{"request_id":"r","from_wallet_id":"a","to_wallet_id":"b","amount":7,"currency":"USD"}`, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TransferRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("decode failed: %v", err)
			}

			input := req.ToUseCaseInput()
			if input.Amount.String() != tt.want || input.FromWalletID != "a" || input.ToWalletID != "b" {
				t.Fatalf("unexpected transfer input: %+v", input)
			}
		})
	}
}
