package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// ErrNoUnitOfWork is returned when the ledger is written outside a unit of work.
var ErrNoUnitOfWork = errors.New("ledger append requires an open unit of work")

// LedgerWriter appends audit entries for balance changes. It never opens
// its own unit of work, so entries commit or roll back with the caller's.
type LedgerWriter struct {
	ledgerRepo LedgerRepository
	idGen      IDGenerator
}

// NewLedgerWriter creates a new LedgerWriter.
func NewLedgerWriter(ledgerRepo LedgerRepository, idGen IDGenerator) *LedgerWriter {
	return &LedgerWriter{
		ledgerRepo: ledgerRepo,
		idGen:      idGen,
	}
}

// Append records one balance change of wallet caused by transaction.
func (w *LedgerWriter) Append(
	ctx context.Context,
	tx Transaction,
	transaction *domain.Transaction,
	wallet *domain.Wallet,
	direction domain.Direction,
	amount decimal.Decimal,
	balanceAfter decimal.Decimal,
) (*domain.LedgerEntry, error) {
	if tx == nil {
		return nil, ErrNoUnitOfWork
	}

	entry := &domain.LedgerEntry{
		ID:            w.idGen.Generate(),
		TransactionID: transaction.ID,
		WalletID:      wallet.ID,
		Amount:        amount,
		Currency:      wallet.Currency,
		Direction:     direction,
		BalanceAfter:  balanceAfter,
		CreatedAt:     time.Now().UTC(),
	}

	if err := w.ledgerRepo.Append(ctx, tx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}
