package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

type engineMocks struct {
	txManager *mocks.MockTransactionManager
	tx        *mocks.MockTransaction
	wallets   *mocks.MockWalletRepository
	txs       *mocks.MockTransactionRepository
	ledger    *mocks.MockLedgerRepository
	blacklist *mocks.MockBlacklistRepository
	idGen     *mocks.MockIDGenerator
	engine    *usecase.TransactionEngine
}

func newEngineMocks(t *testing.T) *engineMocks {
	ctrl := gomock.NewController(t)
	m := &engineMocks{
		txManager: mocks.NewMockTransactionManager(ctrl),
		tx:        mocks.NewMockTransaction(ctrl),
		wallets:   mocks.NewMockWalletRepository(ctrl),
		txs:       mocks.NewMockTransactionRepository(ctrl),
		ledger:    mocks.NewMockLedgerRepository(ctrl),
		blacklist: mocks.NewMockBlacklistRepository(ctrl),
		idGen:     mocks.NewMockIDGenerator(ctrl),
	}

	m.idGen.EXPECT().Generate().Return("gen").AnyTimes()
	m.txManager.EXPECT().Begin(gomock.Any()).Return(m.tx, nil).AnyTimes()
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

	m.engine = usecase.NewTransactionEngine(usecase.EngineDeps{
		TxManager:       m.txManager,
		WalletRepo:      m.wallets,
		TransactionRepo: m.txs,
		Ledger:          usecase.NewLedgerWriter(m.ledger, m.idGen),
		Policy:          usecase.NewPolicyGuard(m.txs, m.blacklist, usecase.PolicyConfig{}),
		IDGen:           m.idGen,
	})

	return m
}

func TestTransactionEngine_TransferLocksInAscendingOrder(t *testing.T) {
	m := newEngineMocks(t)

	from := &domain.Wallet{ID: "wallet-b", Currency: "USD", Status: domain.WalletStatusActive, Balance: decimal.NewFromInt(100)}
	to := &domain.Wallet{ID: "wallet-a", Currency: "USD", Status: domain.WalletStatusActive, Balance: decimal.Zero}

	m.wallets.EXPECT().
		LockMany(gomock.Any(), m.tx, []string{"wallet-a", "wallet-b"}, "USD").
		Return([]*domain.Wallet{to, from}, nil)
	m.txs.EXPECT().CountOriginatingSince(gomock.Any(), m.tx, gomock.Any(), gomock.Any()).Return(0, nil).Times(2)
	m.blacklist.EXPECT().Exists(gomock.Any(), m.tx, gomock.Any()).Return(false, nil).Times(2)
	m.txs.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)

	gomock.InOrder(
		m.wallets.EXPECT().Update(gomock.Any(), m.tx, from).Return(nil),
		m.wallets.EXPECT().Update(gomock.Any(), m.tx, to).Return(nil),
	)

	var directions []domain.Direction
	m.ledger.EXPECT().Append(gomock.Any(), m.tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, e *domain.LedgerEntry) error {
			directions = append(directions, e.Direction)
			return nil
		}).Times(2)
	m.txs.EXPECT().UpdateStatus(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

	movement, err := m.engine.Transfer(context.Background(), usecase.TransferInput{
		RequestID:    "req",
		FromWalletID: "wallet-b",
		ToWalletID:   "wallet-a",
		Amount:       decimal.NewFromInt(40),
		Currency:     "usd",
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if movement.Transaction.Status != domain.TransactionStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", movement.Transaction.Status)
	}
	if !movement.BalanceAfter.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected source balance 60, got %s", movement.BalanceAfter)
	}
	if len(directions) != 2 || directions[0] != domain.DirectionDebit || directions[1] != domain.DirectionCredit {
		t.Fatalf("unexpected ledger directions %v", directions)
	}
}

func TestTransactionEngine_TransferMissingWallet(t *testing.T) {
	tests := []struct {
		name     string
		lookup   func(m *engineMocks)
		wantKind domain.ErrorKind
	}{
		{
			name: "not found",
			lookup: func(m *engineMocks) {
				m.wallets.EXPECT().GetByID(gomock.Any(), "b").Return(nil, domain.ErrWalletNotFound)
			},
			wantKind: domain.KindNotFound,
		},
		{
			name: "other currency",
			lookup: func(m *engineMocks) {
				m.wallets.EXPECT().GetByID(gomock.Any(), "b").Return(&domain.Wallet{ID: "b", Currency: "EUR"}, nil)
			},
			wantKind: domain.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newEngineMocks(t)

			m.wallets.EXPECT().
				LockMany(gomock.Any(), m.tx, []string{"a", "b"}, "USD").
				Return([]*domain.Wallet{{ID: "a", Currency: "USD", Status: domain.WalletStatusActive}}, nil)
			tt.lookup(m)

			_, err := m.engine.Transfer(context.Background(), usecase.TransferInput{
				RequestID:    "req",
				FromWalletID: "a",
				ToWalletID:   "b",
				Amount:       decimal.NewFromInt(1),
				Currency:     "USD",
			})
			if got := domain.KindOf(err); got != tt.wantKind {
				t.Fatalf("expected %s, got %s (%v)", tt.wantKind, got, err)
			}
		})
	}
}

func TestTransactionEngine_ValidatesBeforeLocking(t *testing.T) {
	m := newEngineMocks(t)

	_, err := m.engine.Deposit(context.Background(), usecase.DepositInput{WalletID: "a", Amount: decimal.NewFromInt(-5), Currency: "USD"})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}

	_, err = m.engine.Withdraw(context.Background(), usecase.WithdrawInput{WalletID: "a", Amount: decimal.RequireFromString("0.00001"), Currency: "USD"})
	if !errors.Is(err, domain.ErrAmountPrecision) {
		t.Fatalf("expected precision error, got %v", err)
	}

	_, err = m.engine.Transfer(context.Background(), usecase.TransferInput{FromWalletID: "a", ToWalletID: "a", Amount: decimal.NewFromInt(1), Currency: "USD"})
	if !errors.Is(err, domain.ErrSameWallet) {
		t.Fatalf("expected same wallet error, got %v", err)
	}
}

func TestTransactionEngine_RetriesTransientFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newEngineMocks(t)
	retrier := mocks.NewMockRetrier(ctrl)

	engine := usecase.NewTransactionEngine(usecase.EngineDeps{
		TxManager:       m.txManager,
		WalletRepo:      m.wallets,
		TransactionRepo: m.txs,
		Ledger:          usecase.NewLedgerWriter(m.ledger, m.idGen),
		Policy:          usecase.NewPolicyGuard(m.txs, m.blacklist, usecase.PolicyConfig{}),
		IDGen:           m.idGen,
		Retrier:         retrier,
	})

	transient := errors.New("deadlock detected")
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, op func() error) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Fatalf("unit of work must carry a deadline")
			}
			if err := op(); !errors.Is(err, transient) {
				t.Fatalf("expected transient failure on first attempt, got %v", err)
			}
			return op()
		})

	wallet := func() *domain.Wallet {
		return &domain.Wallet{ID: "a", Currency: "USD", Status: domain.WalletStatusActive, Balance: decimal.NewFromInt(10)}
	}
	gomock.InOrder(
		m.wallets.EXPECT().LockOne(gomock.Any(), m.tx, "a").Return(nil, transient),
		m.wallets.EXPECT().LockOne(gomock.Any(), m.tx, "a").Return(wallet(), nil),
	)
	m.txs.EXPECT().CountOriginatingSince(gomock.Any(), m.tx, "a", gomock.Any()).Return(0, nil)
	m.blacklist.EXPECT().Exists(gomock.Any(), m.tx, "a").Return(false, nil)
	m.txs.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.wallets.EXPECT().Update(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.ledger.EXPECT().Append(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.txs.EXPECT().UpdateStatus(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

	movement, err := engine.Deposit(context.Background(), usecase.DepositInput{RequestID: "r", WalletID: "a", Amount: decimal.NewFromInt(5), Currency: "USD"})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !movement.BalanceAfter.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected 15, got %s", movement.BalanceAfter)
	}
}

func TestLedgerWriter_RequiresUnitOfWork(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := usecase.NewLedgerWriter(mocks.NewMockLedgerRepository(ctrl), mocks.NewMockIDGenerator(ctrl))

	_, err := writer.Append(
		context.Background(),
		nil,
		&domain.Transaction{ID: "t"},
		&domain.Wallet{ID: "w"},
		domain.DirectionCredit,
		decimal.NewFromInt(1),
		decimal.NewFromInt(1),
	)
	if !errors.Is(err, usecase.ErrNoUnitOfWork) {
		t.Fatalf("expected ErrNoUnitOfWork, got %v", err)
	}
}

func TestLedgerWriter_Append(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLedgerRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	idGen.EXPECT().Generate().Return("entry-1")
	repo.EXPECT().Append(gomock.Any(), tx, gomock.Any()).Return(nil)

	writer := usecase.NewLedgerWriter(repo, idGen)
	entry, err := writer.Append(
		context.Background(),
		tx,
		&domain.Transaction{ID: "t"},
		&domain.Wallet{ID: "w", Currency: "GBP"},
		domain.DirectionDebit,
		decimal.NewFromInt(3),
		decimal.NewFromInt(7),
	)
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if entry.ID != "entry-1" || entry.Currency != "GBP" || entry.TransactionID != "t" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if time.Since(entry.CreatedAt) > time.Minute {
		t.Fatalf("entry timestamp not set")
	}
}
