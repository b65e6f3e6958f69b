package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// TransactionEngine moves money. Every operation runs in one unit of work:
// lock, validate, mutate, append ledger entries and finalize commit or roll
// back together.
type TransactionEngine struct {
	txManager       TransactionManager
	walletRepo      WalletRepository
	transactionRepo TransactionRepository
	outboxRepo      OutboxRepository
	ledger          *LedgerWriter
	policy          *PolicyGuard
	idGen           IDGenerator
	retrier         Retrier
}

// EngineDeps holds the collaborators of a TransactionEngine.
type EngineDeps struct {
	TxManager       TransactionManager
	WalletRepo      WalletRepository
	TransactionRepo TransactionRepository
	OutboxRepo      OutboxRepository
	Ledger          *LedgerWriter
	Policy          *PolicyGuard
	IDGen           IDGenerator
	Retrier         Retrier
}

// NewTransactionEngine creates a new TransactionEngine.
func NewTransactionEngine(deps EngineDeps) *TransactionEngine {
	if deps.Retrier == nil {
		deps.Retrier = noRetry{}
	}

	return &TransactionEngine{
		txManager:       deps.TxManager,
		walletRepo:      deps.WalletRepo,
		transactionRepo: deps.TransactionRepo,
		outboxRepo:      deps.OutboxRepo,
		ledger:          deps.Ledger,
		policy:          deps.Policy,
		idGen:           deps.IDGen,
		retrier:         deps.Retrier,
	}
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	RequestID   string
	WalletID    string
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	RequestID   string
	WalletID    string
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// TransferInput represents input for a transfer between two wallets.
type TransferInput struct {
	RequestID    string
	FromWalletID string
	ToWalletID   string
	Amount       decimal.Decimal
	Currency     string
	Description  string
}

// Movement is the finalized transaction and the resulting balance of the
// wallet the caller acted on: the target of a deposit, the source otherwise.
type Movement struct {
	Transaction  *domain.Transaction
	BalanceAfter decimal.Decimal
}

// Deposit credits a wallet.
func (e *TransactionEngine) Deposit(ctx context.Context, input DepositInput) (*Movement, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, domain.NewValidationError(err)
	}

	currency := domain.NormalizeCurrency(input.Currency)

	var movement *Movement
	err := e.execute(ctx, func(ctx context.Context, tx Transaction) error {
		wallet, err := e.lockOne(ctx, tx, input.WalletID)
		if err != nil {
			return err
		}

		if err := wallet.CheckCurrency(currency); err != nil {
			return err
		}

		if err := e.policy.Check(ctx, tx, wallet); err != nil {
			return err
		}

		now := time.Now().UTC()
		transaction := e.newTransaction(input.RequestID, domain.TransactionTypeDeposit, input.Amount, currency, "", wallet.ID, input.Description, now)
		if err := e.transactionRepo.Create(ctx, tx, transaction); err != nil {
			return err
		}

		balance, err := wallet.Credit(input.Amount, now)
		if err != nil {
			return domain.NewValidationError(err)
		}

		if err := e.walletRepo.Update(ctx, tx, wallet); err != nil {
			return err
		}

		if _, err := e.ledger.Append(ctx, tx, transaction, wallet, domain.DirectionCredit, input.Amount, balance); err != nil {
			return err
		}

		if err := e.complete(ctx, tx, transaction, now); err != nil {
			return err
		}

		movement = &Movement{Transaction: transaction, BalanceAfter: balance}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

// Withdraw debits a wallet. Insufficient funds is not an error: the
// transaction is persisted FAILED and returned.
func (e *TransactionEngine) Withdraw(ctx context.Context, input WithdrawInput) (*Movement, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, domain.NewValidationError(err)
	}

	currency := domain.NormalizeCurrency(input.Currency)

	var movement *Movement
	err := e.execute(ctx, func(ctx context.Context, tx Transaction) error {
		wallet, err := e.lockOne(ctx, tx, input.WalletID)
		if err != nil {
			return err
		}

		if err := wallet.CheckCurrency(currency); err != nil {
			return err
		}

		if err := e.policy.Check(ctx, tx, wallet); err != nil {
			return err
		}

		now := time.Now().UTC()
		transaction := e.newTransaction(input.RequestID, domain.TransactionTypeWithdraw, input.Amount, currency, wallet.ID, "", input.Description, now)
		if err := e.transactionRepo.Create(ctx, tx, transaction); err != nil {
			return err
		}

		if !wallet.HasFunds(input.Amount) {
			if err := e.fail(ctx, tx, transaction, domain.FailureReasonInsufficientFunds, now); err != nil {
				return err
			}

			movement = &Movement{Transaction: transaction, BalanceAfter: wallet.Balance}

			return nil
		}

		balance, err := wallet.Debit(input.Amount, now)
		if err != nil {
			return err
		}

		if err := e.walletRepo.Update(ctx, tx, wallet); err != nil {
			return err
		}

		if _, err := e.ledger.Append(ctx, tx, transaction, wallet, domain.DirectionDebit, input.Amount, balance); err != nil {
			return err
		}

		if err := e.complete(ctx, tx, transaction, now); err != nil {
			return err
		}

		movement = &Movement{Transaction: transaction, BalanceAfter: balance}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

// Transfer moves money between two wallets of the same currency.
// Insufficient funds is persisted as a FAILED transaction, as in Withdraw.
func (e *TransactionEngine) Transfer(ctx context.Context, input TransferInput) (*Movement, error) {
	// Validate inputs before taking any lock
	if input.FromWalletID == input.ToWalletID {
		return nil, domain.NewValidationError(domain.ErrSameWallet)
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, domain.NewValidationError(err)
	}

	currency := domain.NormalizeCurrency(input.Currency)

	// Lock in ascending id order so opposite transfers cannot deadlock
	ids := []string{input.FromWalletID, input.ToWalletID}
	sort.Strings(ids)

	var movement *Movement
	err := e.execute(ctx, func(ctx context.Context, tx Transaction) error {
		wallets, err := e.walletRepo.LockMany(ctx, tx, ids, currency)
		if err != nil {
			return err
		}

		if len(wallets) != len(ids) {
			return e.diagnoseMissing(ctx, ids, wallets, currency)
		}

		byID := make(map[string]*domain.Wallet, len(wallets))
		for _, w := range wallets {
			byID[w.ID] = w
		}

		from := byID[input.FromWalletID]
		to := byID[input.ToWalletID]

		if err := from.CheckCurrency(currency); err != nil {
			return err
		}
		if err := to.CheckCurrency(currency); err != nil {
			return err
		}

		if err := e.policy.Check(ctx, tx, from); err != nil {
			return err
		}
		if err := e.policy.Check(ctx, tx, to); err != nil {
			return err
		}

		now := time.Now().UTC()
		transaction := e.newTransaction(input.RequestID, domain.TransactionTypeTransfer, input.Amount, currency, from.ID, to.ID, input.Description, now)
		if err := e.transactionRepo.Create(ctx, tx, transaction); err != nil {
			return err
		}

		if !from.HasFunds(input.Amount) {
			if err := e.fail(ctx, tx, transaction, domain.FailureReasonInsufficientFunds, now); err != nil {
				return err
			}

			movement = &Movement{Transaction: transaction, BalanceAfter: from.Balance}

			return nil
		}

		fromBalance, err := from.Debit(input.Amount, now)
		if err != nil {
			return err
		}
		toBalance, err := to.Credit(input.Amount, now)
		if err != nil {
			return domain.NewValidationError(err)
		}

		if err := e.walletRepo.Update(ctx, tx, from); err != nil {
			return err
		}
		if err := e.walletRepo.Update(ctx, tx, to); err != nil {
			return err
		}

		if _, err := e.ledger.Append(ctx, tx, transaction, from, domain.DirectionDebit, input.Amount, fromBalance); err != nil {
			return err
		}
		if _, err := e.ledger.Append(ctx, tx, transaction, to, domain.DirectionCredit, input.Amount, toBalance); err != nil {
			return err
		}

		if err := e.complete(ctx, tx, transaction, now); err != nil {
			return err
		}

		movement = &Movement{Transaction: transaction, BalanceAfter: fromBalance}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

// execute runs fn in a unit of work detached from caller cancellation: once
// locks are taken the operation runs to completion.
func (e *TransactionEngine) execute(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTransactionTimeout)
	defer cancel()

	return e.retrier.Retry(ctx, func() error {
		return runInTx(ctx, e.txManager, func(tx Transaction) error {
			return fn(ctx, tx)
		})
	})
}

func (e *TransactionEngine) lockOne(ctx context.Context, tx Transaction, id string) (*domain.Wallet, error) {
	wallet, err := e.walletRepo.LockOne(ctx, tx, id)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return nil, domain.NewWalletNotFoundError(id)
		}

		return nil, err
	}

	return wallet, nil
}

// diagnoseMissing explains why LockMany returned fewer wallets than asked.
func (e *TransactionEngine) diagnoseMissing(ctx context.Context, ids []string, locked []*domain.Wallet, currency string) error {
	found := make(map[string]bool, len(locked))
	for _, w := range locked {
		found[w.ID] = true
	}

	for _, id := range ids {
		if found[id] {
			continue
		}

		wallet, err := e.walletRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrWalletNotFound) {
				return domain.NewWalletNotFoundError(id)
			}

			return err
		}

		return domain.NewCurrencyMismatchError(wallet.ID, wallet.Currency, currency)
	}

	return domain.NewWalletNotFoundError(ids[0])
}

func (e *TransactionEngine) newTransaction(
	requestID string,
	txType domain.TransactionType,
	amount decimal.Decimal,
	currency, fromWalletID, toWalletID, description string,
	now time.Time,
) *domain.Transaction {
	return &domain.Transaction{
		ID:           e.idGen.Generate(),
		RequestID:    requestID,
		Type:         txType,
		Status:       domain.TransactionStatusPending,
		Amount:       amount,
		Currency:     currency,
		FromWalletID: fromWalletID,
		ToWalletID:   toWalletID,
		Description:  description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (e *TransactionEngine) complete(ctx context.Context, tx Transaction, transaction *domain.Transaction, now time.Time) error {
	if err := transaction.Complete(now); err != nil {
		return err
	}

	return e.finalize(ctx, tx, transaction)
}

func (e *TransactionEngine) fail(ctx context.Context, tx Transaction, transaction *domain.Transaction, reason string, now time.Time) error {
	if err := transaction.Fail(reason, now); err != nil {
		return err
	}

	return e.finalize(ctx, tx, transaction)
}

func (e *TransactionEngine) finalize(ctx context.Context, tx Transaction, transaction *domain.Transaction) error {
	if err := e.transactionRepo.UpdateStatus(ctx, tx, transaction); err != nil {
		return err
	}

	if e.outboxRepo == nil {
		return nil
	}

	return e.outboxRepo.Create(ctx, tx, domain.NewTransactionEvent(e.idGen.Generate(), transaction))
}
