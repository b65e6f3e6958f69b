package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a business unit
	// of work once it has been detached from the caller's context.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultRateLimitMaxTransactions is the default number of outgoing
	// transactions a wallet may start within one window.
	DefaultRateLimitMaxTransactions = 10

	// DefaultRateLimitWindow is the default rate limit window.
	DefaultRateLimitWindow = time.Minute
)
