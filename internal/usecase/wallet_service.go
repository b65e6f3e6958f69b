package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// Generic reasons stored for internal failures. Raw errors are logged, never
// cached.
const (
	ReasonCreateWalletFailed = "Wallet creation failed"
	ReasonDepositFailed      = "Deposit failed"
	ReasonWithdrawFailed     = "Withdraw failed"
	ReasonTransferFailed     = "Transfer failed"
)

// MetricsRecorder receives operation telemetry.
type MetricsRecorder interface {
	ObserveOperation(operation, outcome string, duration time.Duration)
	IncIdempotencyReplay(status string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(string, string, time.Duration) {}
func (noopMetrics) IncIdempotencyReplay(string)                    {}

// Result is a mutating operation's response. Body is the exact JSON cached
// for replays, so a replayed COMPLETED result is byte-identical to the
// original.
type Result struct {
	Body       []byte
	HTTPStatus int
	Replayed   bool
	Pending    bool
}

// Decode unmarshals the body into v.
func (r *Result) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// WalletService wraps every mutating operation in the idempotency protocol:
// look up the request id, claim it, run the business logic, record the
// outcome.
type WalletService struct {
	idempotency *IdempotencyLedger
	engine      *TransactionEngine
	txManager   TransactionManager
	walletRepo  WalletRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	metrics     MetricsRecorder
	logger      zerolog.Logger
}

// WalletServiceDeps holds the collaborators of a WalletService.
type WalletServiceDeps struct {
	Idempotency *IdempotencyLedger
	Engine      *TransactionEngine
	TxManager   TransactionManager
	WalletRepo  WalletRepository
	OutboxRepo  OutboxRepository
	IDGen       IDGenerator
	Metrics     MetricsRecorder
	Logger      zerolog.Logger
}

// NewWalletService creates a new WalletService.
func NewWalletService(deps WalletServiceDeps) *WalletService {
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}

	return &WalletService{
		idempotency: deps.Idempotency,
		engine:      deps.Engine,
		txManager:   deps.TxManager,
		walletRepo:  deps.WalletRepo,
		outboxRepo:  deps.OutboxRepo,
		idGen:       deps.IDGen,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
	}
}

// CreateWalletInput represents input for creating a wallet.
type CreateWalletInput struct {
	RequestID string
	OwnerID   string
	Currency  string
}

// CreateWallet opens a new ACTIVE wallet with a zero balance.
func (s *WalletService) CreateWallet(ctx context.Context, input CreateWalletInput) (*Result, error) {
	currency := domain.NormalizeCurrency(input.Currency)

	return s.execute(ctx, operation{
		requestID:     input.RequestID,
		requestType:   domain.RequestTypeCreateWallet,
		currency:      currency,
		successStatus: http.StatusCreated,
		failReason:    ReasonCreateWalletFailed,
		canonical: domain.CanonicalRequest{
			"operation":  string(domain.RequestTypeCreateWallet),
			"request_id": input.RequestID,
			"owner_id":   input.OwnerID,
			"currency":   currency,
		},
		pending: func() any {
			return &WalletView{
				RequestID: input.RequestID,
				OwnerID:   input.OwnerID,
				Currency:  currency,
				Balance:   decimal.Zero,
				Status:    string(domain.WalletStatusPending),
			}
		},
		run: func(ctx context.Context) (any, error) {
			wallet, err := s.createWallet(ctx, input.OwnerID, currency)
			if err != nil {
				return nil, err
			}

			return NewWalletView(wallet, input.RequestID), nil
		},
	})
}

// Deposit credits a wallet.
func (s *WalletService) Deposit(ctx context.Context, input DepositInput) (*Result, error) {
	input.Currency = domain.NormalizeCurrency(input.Currency)

	return s.execute(ctx, operation{
		requestID:     input.RequestID,
		requestType:   domain.RequestTypeDeposit,
		currency:      input.Currency,
		toWalletID:    input.WalletID,
		successStatus: http.StatusOK,
		failReason:    ReasonDepositFailed,
		canonical: domain.CanonicalRequest{
			"operation":   string(domain.RequestTypeDeposit),
			"request_id":  input.RequestID,
			"wallet_id":   input.WalletID,
			"amount":      input.Amount.String(),
			"currency":    input.Currency,
			"description": input.Description,
		},
		pending: func() any {
			return pendingTransaction(input.RequestID, domain.TransactionTypeDeposit, input.Amount, input.Currency, "", input.WalletID, input.Description)
		},
		run: func(ctx context.Context) (any, error) {
			return movementView(s.engine.Deposit(ctx, input))
		},
	})
}

// Withdraw debits a wallet.
func (s *WalletService) Withdraw(ctx context.Context, input WithdrawInput) (*Result, error) {
	input.Currency = domain.NormalizeCurrency(input.Currency)

	return s.execute(ctx, operation{
		requestID:     input.RequestID,
		requestType:   domain.RequestTypeWithdraw,
		currency:      input.Currency,
		fromWalletID:  input.WalletID,
		successStatus: http.StatusOK,
		failReason:    ReasonWithdrawFailed,
		canonical: domain.CanonicalRequest{
			"operation":   string(domain.RequestTypeWithdraw),
			"request_id":  input.RequestID,
			"wallet_id":   input.WalletID,
			"amount":      input.Amount.String(),
			"currency":    input.Currency,
			"description": input.Description,
		},
		pending: func() any {
			return pendingTransaction(input.RequestID, domain.TransactionTypeWithdraw, input.Amount, input.Currency, input.WalletID, "", input.Description)
		},
		run: func(ctx context.Context) (any, error) {
			return movementView(s.engine.Withdraw(ctx, input))
		},
	})
}

// Transfer moves money between two wallets.
func (s *WalletService) Transfer(ctx context.Context, input TransferInput) (*Result, error) {
	input.Currency = domain.NormalizeCurrency(input.Currency)

	return s.execute(ctx, operation{
		requestID:     input.RequestID,
		requestType:   domain.RequestTypeTransfer,
		currency:      input.Currency,
		fromWalletID:  input.FromWalletID,
		toWalletID:    input.ToWalletID,
		successStatus: http.StatusOK,
		failReason:    ReasonTransferFailed,
		canonical: domain.CanonicalRequest{
			"operation":      string(domain.RequestTypeTransfer),
			"request_id":     input.RequestID,
			"from_wallet_id": input.FromWalletID,
			"to_wallet_id":   input.ToWalletID,
			"amount":         input.Amount.String(),
			"currency":       input.Currency,
			"description":    input.Description,
		},
		pending: func() any {
			return pendingTransaction(input.RequestID, domain.TransactionTypeTransfer, input.Amount, input.Currency, input.FromWalletID, input.ToWalletID, input.Description)
		},
		run: func(ctx context.Context) (any, error) {
			return movementView(s.engine.Transfer(ctx, input))
		},
	})
}

type operation struct {
	requestID     string
	requestType   domain.RequestType
	currency      string
	fromWalletID  string
	toWalletID    string
	successStatus int
	failReason    string
	canonical     domain.CanonicalRequest
	pending       func() any
	run           func(ctx context.Context) (any, error)
}

func (s *WalletService) execute(ctx context.Context, op operation) (*Result, error) {
	start := time.Now()

	result, err := s.guard(ctx, op)

	s.metrics.ObserveOperation(string(op.requestType), outcomeOf(result, err), time.Since(start))

	return result, err
}

func (s *WalletService) guard(ctx context.Context, op operation) (*Result, error) {
	if err := domain.ValidateRequestID(op.requestID); err != nil {
		return nil, domain.NewValidationError(err)
	}

	body, err := op.canonical.Encode()
	if err != nil {
		return nil, domain.NewInternalError(op.failReason, err)
	}
	hash := domain.HashRequest(body)

	// A lost claim race re-reads the winner's record, so this loops at most twice
	for range 2 {
		result, replayed, err := s.replay(ctx, op, hash)
		if err != nil || replayed {
			return result, err
		}

		record := &domain.IdempotencyRecord{
			RequestID:    op.requestID,
			RequestType:  op.requestType,
			Currency:     op.currency,
			FromWalletID: op.fromWalletID,
			ToWalletID:   op.toWalletID,
			RequestHash:  hash,
			RequestBody:  body,
		}

		err = s.idempotency.Claim(ctx, record)
		if errors.Is(err, domain.ErrDuplicateRequest) {
			continue
		}
		if err != nil {
			s.logger.Error().Err(err).Str("request_id", op.requestID).Msg("failed to claim request")
			return nil, domain.NewInternalError(op.failReason, err)
		}

		return s.run(ctx, op, record)
	}

	return nil, domain.NewInternalError(op.failReason, domain.ErrDuplicateRequest)
}

// replay answers from an existing record. The bool reports whether a record
// was found.
func (s *WalletService) replay(ctx context.Context, op operation, hash string) (*Result, bool, error) {
	record, err := s.idempotency.Lookup(ctx, op.requestID)
	if err != nil {
		s.logger.Error().Err(err).Str("request_id", op.requestID).Msg("failed to look up request")
		return nil, false, domain.NewInternalError(op.failReason, err)
	}

	if record == nil {
		return nil, false, nil
	}

	if !record.Matches(hash) {
		s.logger.Warn().
			Str("request_id", op.requestID).
			Str("request_type", string(op.requestType)).
			Msg("request id reused with a different payload")
		return nil, true, domain.NewRequestTamperingError(op.requestID)
	}

	s.metrics.IncIdempotencyReplay(string(record.Status))

	switch record.Status {
	case domain.IdempotencyStatusFailed, domain.IdempotencyStatusRejected:
		return nil, true, domain.NewPreviousFailureError(record.HTTPStatus, record.FailReason)

	case domain.IdempotencyStatusPending:
		body, err := json.Marshal(op.pending())
		if err != nil {
			return nil, true, domain.NewInternalError(op.failReason, err)
		}

		return &Result{Body: body, HTTPStatus: http.StatusAccepted, Replayed: true, Pending: true}, true, nil

	case domain.IdempotencyStatusCompleted:
		if len(record.ResponseBody) == 0 {
			s.logger.Error().Str("request_id", op.requestID).Msg("completed request has no cached response")
			return nil, true, domain.NewInternalError(op.failReason, errors.New("empty cached response"))
		}

		return &Result{Body: record.ResponseBody, HTTPStatus: record.HTTPStatus, Replayed: true}, true, nil

	default:
		return nil, true, domain.NewInternalError(op.failReason, errors.New("unknown idempotency status "+string(record.Status)))
	}
}

func (s *WalletService) run(ctx context.Context, op operation, record *domain.IdempotencyRecord) (*Result, error) {
	value, err := op.run(ctx)
	if err != nil {
		return nil, s.recordFailure(ctx, op, record, err)
	}

	body, err := json.Marshal(value)
	if err != nil {
		return nil, s.recordFailure(ctx, op, record, err)
	}

	if err := s.idempotency.Complete(ctx, record, op.successStatus, body); err != nil {
		s.logger.Error().Err(err).Str("request_id", op.requestID).Msg("failed to record completed request")
	}

	return &Result{Body: body, HTTPStatus: op.successStatus}, nil
}

// recordFailure stores the outcome of a failed run and returns the error to
// report to the caller.
func (s *WalletService) recordFailure(ctx context.Context, op operation, record *domain.IdempotencyRecord, cause error) error {
	kind := domain.KindOf(cause)

	if kind.Recognized() {
		if err := s.idempotency.Reject(ctx, record, domain.HTTPStatusOf(cause), cause.Error()); err != nil {
			s.logger.Error().Err(err).Str("request_id", op.requestID).Msg("failed to record rejected request")
		}

		return cause
	}

	s.logger.Error().
		Err(cause).
		Str("request_id", op.requestID).
		Str("request_type", string(op.requestType)).
		Msg("request failed")

	if err := s.idempotency.Fail(ctx, record, http.StatusInternalServerError, op.failReason); err != nil {
		s.logger.Error().Err(err).Str("request_id", op.requestID).Msg("failed to record failed request")
	}

	return domain.NewInternalError(op.failReason, cause)
}

func (s *WalletService) createWallet(ctx context.Context, ownerID, currency string) (*domain.Wallet, error) {
	if err := domain.ValidateOwnerID(ownerID); err != nil {
		return nil, domain.NewValidationError(err)
	}

	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, domain.NewValidationError(err)
	}

	now := time.Now().UTC()
	wallet := domain.NewWallet(s.idGen.Generate(), ownerID, currency, now)

	err := runInTx(ctx, s.txManager, func(tx Transaction) error {
		if err := s.walletRepo.Create(ctx, tx, wallet); err != nil {
			return err
		}

		if s.outboxRepo == nil {
			return nil
		}

		return s.outboxRepo.Create(ctx, tx, domain.NewWalletEvent(s.idGen.Generate(), domain.EventTypeWalletCreated, wallet, now))
	})
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

// movementView turns an engine result into the response to cache. A FAILED
// transaction becomes a business error so it is recorded as REJECTED.
func movementView(movement *Movement, err error) (any, error) {
	if err != nil {
		return nil, err
	}

	if movement.Transaction.Status == domain.TransactionStatusFailed {
		return nil, domain.NewTransactionFailedError(movement.Transaction.FailureReason)
	}

	view := NewTransactionView(movement.Transaction)
	balance := movement.BalanceAfter
	view.BalanceAfter = &balance

	return view, nil
}

func pendingTransaction(
	requestID string,
	txType domain.TransactionType,
	amount decimal.Decimal,
	currency, fromWalletID, toWalletID, description string,
) *TransactionView {
	return &TransactionView{
		RequestID:    requestID,
		Type:         string(txType),
		Status:       string(domain.TransactionStatusPending),
		Amount:       amount,
		Currency:     currency,
		FromWalletID: fromWalletID,
		ToWalletID:   toWalletID,
		Description:  description,
	}
}

func outcomeOf(result *Result, err error) string {
	switch {
	case err != nil:
		return string(domain.KindOf(err))
	case result.Pending:
		return "pending"
	case result.Replayed:
		return "replayed"
	default:
		return "completed"
	}
}
