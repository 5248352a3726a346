// Package sqlitedrv adapts an embedded SQLite database to the driver
// interfaces. It exists so the access layer can be used and benchmarked
// without a native Informix client installed.
package sqlitedrv

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ifxcli/ifxcli/internal/ifx/driver"
	"github.com/ifxcli/ifxcli/internal/ifx/dsn"
	"github.com/mattn/go-sqlite3"
)

// Driver opens SQLite databases. The DATABASE connection string attribute
// is the database file path; a DSN with no DATABASE opens an in-memory
// database.
type Driver struct{}

// New creates the SQLite driver.
func New() *Driver {
	return &Driver{}
}

// Connect implements driver.Driver.
func (d *Driver) Connect(connStr string) (driver.Conn, error) {
	cfg, err := dsn.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", driver.ErrConnect, err)
	}

	path := cfg.Database
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", driver.ErrConnect, err)
	}

	// A single native connection keeps session state like temp tables and
	// open transactions on the one handle the caller thinks it owns.
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)
	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s", driver.ErrConnect, err)
	}

	return &conn{db: db}, nil
}

type conn struct {
	db *sql.DB
}

// Execute implements driver.Conn. Read statements yield their rows, write
// statements complete with an empty result.
func (c *conn) Execute(query string) (driver.Result, error) {
	readOnly, err := c.isReadOnly(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", driver.ErrExecute, err)
	}

	if !readOnly {
		if _, err := c.db.ExecContext(context.Background(), query); err != nil {
			return nil, fmt.Errorf("%w: %s", driver.ErrExecute, err)
		}
		return &result{}, nil
	}

	rows, err := c.db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", driver.ErrExecute, err)
	}

	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("%w: %s", driver.ErrExecute, err)
	}

	return &result{rows: rows, cols: cols}, nil
}

// isReadOnly asks SQLite whether the compiled statement writes. This is the
// engine's own answer, not a keyword heuristic.
func (c *conn) isReadOnly(query string) (bool, error) {
	sqlConn, err := c.db.Conn(context.Background())
	if err != nil {
		return false, fmt.Errorf("failed to get connection: %w", err)
	}
	defer func() {
		_ = sqlConn.Close()
	}()

	readOnly := false
	err = sqlConn.Raw(func(driverConn any) error {
		sqliteConn := driverConn.(*sqlite3.SQLiteConn)
		drvStmt, err := sqliteConn.Prepare(query)
		if err != nil {
			return err
		}
		defer func() {
			_ = drvStmt.Close()
		}()
		readOnly = drvStmt.(*sqlite3.SQLiteStmt).Readonly()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to prepare statement: %w", err)
	}

	return readOnly, nil
}

// Disconnect implements driver.Conn.
func (c *conn) Disconnect() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// result adapts sql.Rows to driver.Result. A write result has nil rows and
// reports end of data immediately.
type result struct {
	rows *sql.Rows
	cols []string
}

// Columns reports the column names in statement order.
func (r *result) Columns() []string {
	return r.cols
}

// Fetch implements driver.Result.
func (r *result) Fetch() (driver.Row, bool, error) {
	if r.rows == nil {
		return nil, false, nil
	}

	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return nil, false, fmt.Errorf("%w: %s", driver.ErrExecute, err)
		}
		return nil, false, nil
	}

	values := make([]any, len(r.cols))
	ptrs := make([]any, len(r.cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		return nil, false, fmt.Errorf("%w: %s", driver.ErrExecute, err)
	}

	row := make(driver.Row, len(r.cols))
	for i, col := range r.cols {
		if b, ok := values[i].([]byte); ok {
			row[col] = string(b)
			continue
		}
		row[col] = values[i]
	}

	return row, true, nil
}

// Close implements driver.Result.
func (r *result) Close() error {
	if r.rows == nil {
		return nil
	}
	err := r.rows.Close()
	r.rows = nil
	return err
}
