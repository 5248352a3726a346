package session

import (
	"errors"
	"fmt"
)

// ErrClosed is wrapped by every use-after-close error. The full error text
// names the handle, e.g. "ifxstmt2: resource is closed".
var ErrClosed = errors.New("resource is closed")

// maxSQLInError bounds how much substituted SQL is attached to an execution
// error.
const maxSQLInError = 512

func closedErr(handle string) error {
	return fmt.Errorf("%s: %w", handle, ErrClosed)
}

// execErr enriches a driver execution error with the final substituted SQL.
func execErr(err error, sql string) error {
	if len(sql) > maxSQLInError {
		sql = sql[:maxSQLInError] + "..."
	}
	return fmt.Errorf("%w (sql: %s)", err, sql)
}
