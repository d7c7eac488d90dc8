package postgres

import (
	"database/sql"
	"errors"
)

// isNotFound reports whether err is the driver's empty-result sentinel.
// Repositories translate it into their (value, bool, error) contract
// instead of surfacing it as an error.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
