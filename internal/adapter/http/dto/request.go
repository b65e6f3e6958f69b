package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/usecase"
)

// CreateWalletRequest represents a request to open a wallet.
type CreateWalletRequest struct {
	RequestID string `json:"request_id"`
	OwnerID   string `json:"owner_id"`
	Currency  string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateWalletRequest) ToUseCaseInput() usecase.CreateWalletInput {
	return usecase.CreateWalletInput{
		RequestID: r.RequestID,
		OwnerID:   r.OwnerID,
		Currency:  r.Currency,
	}
}

// MovementRequest is the body of a deposit or withdrawal. The wallet comes
// from the URL.
type MovementRequest struct {
	RequestID   string          `json:"request_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
}

// ToDepositInput converts to a deposit of walletID.
func (r *MovementRequest) ToDepositInput(walletID string) usecase.DepositInput {
	return usecase.DepositInput{
		RequestID:   r.RequestID,
		WalletID:    walletID,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Description: r.Description,
	}
}

// ToWithdrawInput converts to a withdrawal from walletID.
func (r *MovementRequest) ToWithdrawInput(walletID string) usecase.WithdrawInput {
	return usecase.WithdrawInput{
		RequestID:   r.RequestID,
		WalletID:    walletID,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Description: r.Description,
	}
}

// TransferRequest represents a request to move money between wallets.
type TransferRequest struct {
	RequestID    string          `json:"request_id"`
	FromWalletID string          `json:"from_wallet_id"`
	ToWalletID   string          `json:"to_wallet_id"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Description  string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		RequestID:    r.RequestID,
		FromWalletID: r.FromWalletID,
		ToWalletID:   r.ToWalletID,
		Amount:       r.Amount,
		Currency:     r.Currency,
		Description:  r.Description,
	}
}

// BlockWalletRequest represents a request to blacklist a wallet.
type BlockWalletRequest struct {
	WalletID string `json:"wallet_id"`
	Reason   string `json:"reason"`
}
