package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/gowallet/internal/domain"
)

// PostgreSQL error codes.
const (
	pgErrUniqueViolation      = "23505"
	pgErrLockNotAvailable     = "55P03"
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
)

// ErrUnexpectedTx is returned when a repository receives a unit of work it
// did not create.
var ErrUnexpectedTx = errors.New("postgres: unexpected transaction type")

// mapError translates driver errors into domain sentinels. Unknown errors
// pass through unchanged so the retrier can still inspect them.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgErrUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrDuplicateRequest, pgErr.ConstraintName)
	case pgErrLockNotAvailable:
		return domain.ErrLockTimeout
	default:
		return err
	}
}
