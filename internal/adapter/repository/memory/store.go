// Package memory provides an in-process implementation of the repository
// interfaces. Wallet rows are guarded by real exclusive locks held for the
// lifetime of a unit of work, and writes become visible atomically on commit.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// ErrTxDone is returned when a finished unit of work is used again.
var ErrTxDone = errors.New("memory: transaction already committed or rolled back")

// ErrInvalidTx is returned when a repository receives a foreign unit of work.
var ErrInvalidTx = errors.New("memory: transaction does not belong to this store")

// DefaultLockTimeout bounds how long a unit of work waits for a wallet lock.
const DefaultLockTimeout = 5 * time.Second

var (
	_ usecase.TransactionManager    = (*Store)(nil)
	_ usecase.WalletRepository      = (*WalletRepository)(nil)
	_ usecase.TransactionRepository = (*TransactionRepository)(nil)
	_ usecase.LedgerRepository      = (*LedgerRepository)(nil)
	_ usecase.IdempotencyRepository = (*IdempotencyRepository)(nil)
	_ usecase.BlacklistRepository   = (*BlacklistRepository)(nil)
	_ usecase.OutboxRepository      = (*OutboxRepository)(nil)
)

// Store holds all tables in memory.
type Store struct {
	mu sync.Mutex

	wallets      map[string]*domain.Wallet
	transactions map[string]*domain.Transaction
	ledger       []*domain.LedgerEntry
	idempotency  map[string]*domain.IdempotencyRecord
	blacklist    map[string]*domain.BlacklistEntry
	outbox       []*domain.OutboxEvent

	locksMu     sync.Mutex
	locks       map[string]chan struct{}
	lockTimeout time.Duration
}

// NewStore creates an empty store. A non-positive lockTimeout selects
// DefaultLockTimeout.
func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	return &Store{
		wallets:      make(map[string]*domain.Wallet),
		transactions: make(map[string]*domain.Transaction),
		idempotency:  make(map[string]*domain.IdempotencyRecord),
		blacklist:    make(map[string]*domain.BlacklistEntry),
		locks:        make(map[string]chan struct{}),
		lockTimeout:  lockTimeout,
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Begin starts a unit of work.
func (s *Store) Begin(context.Context) (usecase.Transaction, error) {
	return &Tx{
		store:    s,
		held:     make(map[string]bool),
		wallets:  make(map[string]*domain.Wallet),
		statuses: make(map[string]domain.TransactionStatus),
	}, nil
}

// Wallets returns the wallet repository.
func (s *Store) Wallets() *WalletRepository { return &WalletRepository{store: s} }

// Transactions returns the transaction repository.
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{store: s} }

// Ledger returns the ledger repository.
func (s *Store) Ledger() *LedgerRepository { return &LedgerRepository{store: s} }

// Idempotency returns the idempotency repository.
func (s *Store) Idempotency() *IdempotencyRepository { return &IdempotencyRepository{store: s} }

// Blacklist returns the blacklist repository.
func (s *Store) Blacklist() *BlacklistRepository { return &BlacklistRepository{store: s} }

// Outbox returns the outbox repository.
func (s *Store) Outbox() *OutboxRepository { return &OutboxRepository{store: s} }

func (s *Store) lockChan(id string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}

	return ch
}

func (s *Store) acquire(ctx context.Context, id string) error {
	ch := s.lockChan(id)

	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return domain.ErrLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release(id string) {
	<-s.lockChan(id)
}

// write is one buffered mutation. check runs for every write before any
// apply, so a commit is all or nothing.
type write struct {
	check func(s *Store) error
	apply func(s *Store)
}

// Tx is a unit of work against a Store.
type Tx struct {
	store *Store

	mu      sync.Mutex
	held    map[string]bool
	wallets map[string]*domain.Wallet
	writes  []write
	done    bool

	// statuses of transactions created or updated in this unit of work
	statuses map[string]domain.TransactionStatus
}

// Commit applies buffered writes atomically and releases held locks.
func (tx *Tx) Commit(context.Context) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	if tx.done {
		return ErrTxDone
	}
	defer tx.finish()

	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range tx.writes {
		if w.check == nil {
			continue
		}
		if err := w.check(s); err != nil {
			return err
		}
	}

	for _, w := range tx.writes {
		w.apply(s)
	}

	return nil
}

// Rollback discards buffered writes and releases held locks. Rolling back a
// finished unit of work is a no-op.
func (tx *Tx) Rollback(context.Context) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	if tx.done {
		return nil
	}

	tx.finish()

	return nil
}

func (tx *Tx) finish() {
	tx.done = true
	tx.writes = nil

	for id := range tx.held {
		tx.store.release(id)
	}
	tx.held = nil
}

func (tx *Tx) buffer(w write) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	if tx.done {
		return ErrTxDone
	}

	tx.writes = append(tx.writes, w)

	return nil
}

// swapStatus records the status of transaction id in this unit of work and
// returns the one recorded before, if any.
func (tx *Tx) swapStatus(id string, status domain.TransactionStatus) (domain.TransactionStatus, bool) {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	prev, ok := tx.statuses[id]
	tx.statuses[id] = status

	return prev, ok
}

// lock takes the row lock on id unless tx already holds it.
func (tx *Tx) lock(ctx context.Context, id string) error {
	tx.mu.Lock()
	if tx.done {
		tx.mu.Unlock()
		return ErrTxDone
	}
	if tx.held[id] {
		tx.mu.Unlock()
		return nil
	}
	tx.mu.Unlock()

	if err := tx.store.acquire(ctx, id); err != nil {
		return err
	}

	tx.mu.Lock()
	defer tx.mu.Unlock()

	if tx.done {
		tx.store.release(id)
		return ErrTxDone
	}
	tx.held[id] = true

	return nil
}

// wallet returns the wallet as seen by tx: its own pending version if any,
// otherwise the committed one.
func (tx *Tx) wallet(id string) (*domain.Wallet, bool) {
	tx.mu.Lock()
	pending, ok := tx.wallets[id]
	tx.mu.Unlock()
	if ok {
		return cloneWallet(pending), true
	}

	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	committed, ok := tx.store.wallets[id]
	if !ok {
		return nil, false
	}

	return cloneWallet(committed), true
}

func (tx *Tx) stage(w *domain.Wallet) {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	tx.wallets[w.ID] = cloneWallet(w)
}

func asTx(tx usecase.Transaction, s *Store) (*Tx, error) {
	mtx, ok := tx.(*Tx)
	if !ok || mtx == nil || mtx.store != s {
		return nil, ErrInvalidTx
	}

	return mtx, nil
}

func cloneWallet(w *domain.Wallet) *domain.Wallet {
	c := *w
	return &c
}

func cloneTransaction(t *domain.Transaction) *domain.Transaction {
	c := *t
	return &c
}

func cloneEntry(e *domain.LedgerEntry) *domain.LedgerEntry {
	c := *e
	return &c
}

func cloneRecord(r *domain.IdempotencyRecord) *domain.IdempotencyRecord {
	c := *r
	c.RequestBody = append([]byte(nil), r.RequestBody...)
	c.ResponseBody = append([]byte(nil), r.ResponseBody...)
	return &c
}

func cloneEvent(e *domain.OutboxEvent) *domain.OutboxEvent {
	c := *e
	c.Payload = make(map[string]any, len(e.Payload))
	for k, v := range e.Payload {
		c.Payload[k] = v
	}
	if e.PublishedAt != nil {
		t := *e.PublishedAt
		c.PublishedAt = &t
	}
	return &c
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}

	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}

	return items[offset:end]
}
