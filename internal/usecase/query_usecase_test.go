package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

func TestQueryUseCase_History(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	wallet := h.seedWallet(t, "USD", 0)

	for i := 1; i <= 3; i++ {
		_, err := h.service.Deposit(ctx, usecase.DepositInput{
			RequestID: fmt.Sprintf("00000000-0000-4000-8000-00000000000%d", i),
			WalletID:  wallet.ID,
			Amount:    amount(int64(i)),
			Currency:  "USD",
		})
		require.NoError(t, err)
	}

	transactions, err := h.queries.ListTransactions(ctx, wallet.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.True(t, transactions[0].Amount.Equal(amount(3)), "newest first")

	entries, err := h.queries.ListLedgerEntries(ctx, wallet.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].BalanceAfter.Equal(amount(6)))

	tx, ledger, err := h.queries.GetTransaction(ctx, transactions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, tx.Status)
	assert.Len(t, ledger, 1)
}

func TestQueryUseCase_NotFound(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.queries.GetWallet(ctx, "missing")
	assert.Equal(t, "Wallet with id: missing not found", err.Error())
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = h.queries.ListTransactions(ctx, "missing", 10, 0)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, _, err = h.queries.GetTransaction(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}
