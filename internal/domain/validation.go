package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrInvalidRequestID = errors.New("invalid request id")
	ErrInvalidOwnerID   = errors.New("invalid owner id")
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrAmountPrecision  = errors.New("amount has too many decimal places")
	ErrBalanceTooLarge  = errors.New("resulting balance exceeds maximum allowed")
)

// Validation constants
const (
	MaxAmount         = "1000000000000000" // numeric(19,4)
	MaxAmountScale    = 4
	MaxOwnerIDLength  = 255
	DefaultPageLimit  = 20
	MaxPageLimit      = 100
	MaxReconcileLimit = 10000
)

var maxAmount = decimal.RequireFromString(MaxAmount)

var supportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// ValidateCurrency checks that currency is one of the supported codes.
func ValidateCurrency(currency string) error {
	currency = NormalizeCurrency(currency)

	if !supportedCurrencies[currency] {
		return fmt.Errorf("%w: %q is not supported", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateAmount checks that amount is positive and fits numeric(19,4).
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if -amount.Exponent() > MaxAmountScale && !amount.Equal(amount.Truncate(MaxAmountScale)) {
		return fmt.Errorf("%w: at most %d are allowed", ErrAmountPrecision, MaxAmountScale)
	}

	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: maximum amount is below %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateRequestID checks that id is a UUID.
func ValidateRequestID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q is not a UUID", ErrInvalidRequestID, id)
	}

	return nil
}

// ValidateOwnerID checks that an owner id is present and bounded.
func ValidateOwnerID(ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return fmt.Errorf("%w: owner id is required", ErrInvalidOwnerID)
	}

	if len(ownerID) > MaxOwnerIDLength {
		return fmt.Errorf("%w: owner id exceeds %d characters", ErrInvalidOwnerID, MaxOwnerIDLength)
	}

	return nil
}

// ValidatePagination clamps limit and offset to sane values.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
