package catalog

import (
	"database/sql/driver"
	"errors"
	"net"

	"github.com/example/catalog-service/domain/product"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// classify turns a repository error into a structured product error.
// write reports whether the failed call was a mutation; store outages are
// conflicts for writes and unclassified for reads.
func classify(err error, id int64, write bool, message string) error {
	if err == nil {
		return nil
	}

	var perr *product.Error
	if errors.As(err, &perr) {
		return perr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return product.NotFound(id)
	case isConstraintViolation(err):
		return product.StorageConflict(message, err)
	case isConnectivityFailure(err):
		if write {
			return product.StorageConflict(message, err)
		}
		return product.Unclassified(message, err)
	default:
		return product.Unclassified(message, err)
	}
}

func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	// Class 23: integrity constraint violation.
	return errors.As(err, &pgErr) && len(pgErr.Code) == 5 && pgErr.Code[:2] == "23"
}

func isConnectivityFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception.
		return len(pgErr.Code) == 5 && pgErr.Code[:2] == "08"
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
