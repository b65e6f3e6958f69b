package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

const (
	// DefaultIdempotencyTTL is how long a terminal record stays cached.
	DefaultIdempotencyTTL = 24 * time.Hour

	idempotencyKeyPrefix = "idempotency:"
)

// IdempotencyCache is a read-through cache in front of an
// IdempotencyRepository. Only terminal records are cached: they never change
// again, so a cached copy cannot go stale. Redis failures degrade to the
// underlying repository.
type IdempotencyCache struct {
	next   usecase.IdempotencyRepository
	cache  *Cache
	ttl    time.Duration
	logger zerolog.Logger
}

var _ usecase.IdempotencyRepository = (*IdempotencyCache)(nil)

// NewIdempotencyCache wraps next with a Redis cache.
func NewIdempotencyCache(client *redis.Client, next usecase.IdempotencyRepository, ttl time.Duration, logger zerolog.Logger) *IdempotencyCache {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}

	return &IdempotencyCache{
		next:   next,
		cache:  NewCache(client, idempotencyKeyPrefix),
		ttl:    ttl,
		logger: logger,
	}
}

type cachedRecord struct {
	RequestID    string    `json:"request_id"`
	RequestType  string    `json:"request_type"`
	Currency     string    `json:"currency"`
	FromWalletID string    `json:"from_wallet_id,omitempty"`
	ToWalletID   string    `json:"to_wallet_id,omitempty"`
	Status       string    `json:"status"`
	RequestHash  string    `json:"request_hash"`
	RequestBody  []byte    `json:"request_body"`
	ResponseBody []byte    `json:"response_body,omitempty"`
	HTTPStatus   int       `json:"http_status"`
	FailReason   string    `json:"fail_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Get serves terminal records from Redis and falls back to the repository.
func (c *IdempotencyCache) Get(ctx context.Context, requestID string) (*domain.IdempotencyRecord, error) {
	raw, err := c.cache.Get(ctx, requestID)
	switch {
	case err == nil:
		var cr cachedRecord
		if jsonErr := json.Unmarshal(raw, &cr); jsonErr == nil {
			return fromCached(cr), nil
		}
		c.logger.Warn().Str("request_id", requestID).Msg("discarding undecodable cached idempotency record")
	case !errors.Is(err, ErrCacheMiss):
		c.logger.Warn().Err(err).Str("request_id", requestID).Msg("idempotency cache read failed")
	}

	record, err := c.next.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if record.IsTerminal() {
		c.store(ctx, record)
	}

	return record, nil
}

// Create delegates to the repository.
func (c *IdempotencyCache) Create(ctx context.Context, tx usecase.Transaction, record *domain.IdempotencyRecord) error {
	return c.next.Create(ctx, tx, record)
}

// Finalize delegates to the repository. The record is cached on its next
// read, after the unit of work has committed.
func (c *IdempotencyCache) Finalize(ctx context.Context, tx usecase.Transaction, record *domain.IdempotencyRecord) error {
	return c.next.Finalize(ctx, tx, record)
}

func (c *IdempotencyCache) store(ctx context.Context, record *domain.IdempotencyRecord) {
	raw, err := json.Marshal(toCached(record))
	if err != nil {
		return
	}

	if err := c.cache.Set(ctx, record.RequestID, raw, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("request_id", record.RequestID).Msg("idempotency cache write failed")
	}
}

func toCached(r *domain.IdempotencyRecord) cachedRecord {
	return cachedRecord{
		RequestID:    r.RequestID,
		RequestType:  string(r.RequestType),
		Currency:     r.Currency,
		FromWalletID: r.FromWalletID,
		ToWalletID:   r.ToWalletID,
		Status:       string(r.Status),
		RequestHash:  r.RequestHash,
		RequestBody:  r.RequestBody,
		ResponseBody: r.ResponseBody,
		HTTPStatus:   r.HTTPStatus,
		FailReason:   r.FailReason,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func fromCached(cr cachedRecord) *domain.IdempotencyRecord {
	return &domain.IdempotencyRecord{
		RequestID:    cr.RequestID,
		RequestType:  domain.RequestType(cr.RequestType),
		Currency:     cr.Currency,
		FromWalletID: cr.FromWalletID,
		ToWalletID:   cr.ToWalletID,
		Status:       domain.IdempotencyStatus(cr.Status),
		RequestHash:  cr.RequestHash,
		RequestBody:  cr.RequestBody,
		ResponseBody: cr.ResponseBody,
		HTTPStatus:   cr.HTTPStatus,
		FailReason:   cr.FailReason,
		CreatedAt:    cr.CreatedAt,
		UpdatedAt:    cr.UpdatedAt,
	}
}
