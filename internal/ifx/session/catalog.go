package session

import (
	"fmt"
	"strings"

	"github.com/ifxcli/ifxcli/internal/ifx/driver"
	"github.com/ifxcli/ifxcli/internal/ifx/quote"
	"github.com/ifxcli/ifxcli/internal/log"
)

// AllRows prepares, executes and fully drains a statement, closing both the
// statement and its result set before returning the data rows as ordered
// lists.
func (c *Connection) AllRows(sqlTemplate string, args ...any) ([][]any, error) {
	rows := [][]any{}
	err := c.EachRow(sqlTemplate, ModeList, func(row any) (Signal, error) {
		rows = append(rows, row.([]any))
		return Continue, nil
	}, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AllRowsDict is AllRows with name-keyed rows.
func (c *Connection) AllRowsDict(sqlTemplate string, args ...any) ([]driver.Row, error) {
	rows := []driver.Row{}
	err := c.EachRow(sqlTemplate, ModeDict, func(row any) (Signal, error) {
		rows = append(rows, row.(driver.Row))
		return Continue, nil
	}, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// EachRow prepares and executes a statement and iterates its rows. The
// statement (and with it the result set) is closed when the iteration ends,
// including when the body returns an error: close-on-error, but the error
// still propagates.
func (c *Connection) EachRow(
	sqlTemplate string, mode RowMode, body func(row any) (Signal, error), args ...any,
) error {
	stmt, err := c.Prepare(sqlTemplate)
	if err != nil {
		return err
	}
	defer func() {
		_ = stmt.Close()
	}()

	rs, err := stmt.Execute(args...)
	if err != nil {
		return err
	}

	return rs.ForEach(mode, body)
}

// catalogRows runs a catalog query. Catalog arguments are always names or
// patterns, so every parameter carries a string hint: a numeric-looking
// table name must not lose its quotes.
func (c *Connection) catalogRows(sqlTemplate string, args ...any) ([][]any, error) {
	stmt, err := c.Prepare(sqlTemplate)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i := range args {
		stmt.SetHint(i, quote.HintString)
	}

	rs, err := stmt.Execute(args...)
	if err != nil {
		return nil, err
	}

	rows := [][]any{}
	err = rs.ForEach(ModeList, func(row any) (Signal, error) {
		rows = append(rows, row.([]any))
		return Continue, nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// globToLike translates a simple glob pattern into SQL LIKE syntax:
// * becomes % and ? becomes _. An empty pattern matches everything.
func globToLike(pattern string) string {
	if pattern == "" {
		return "%"
	}
	pattern = strings.ReplaceAll(pattern, "*", "%")
	return strings.ReplaceAll(pattern, "?", "_")
}

// Tables returns the user table names matching the glob pattern. Tables
// with tabid below 100 are the engine's own catalogs and are excluded.
func (c *Connection) Tables(pattern string) ([]string, error) {
	rows, err := c.catalogRows(
		"SELECT tabname FROM systables WHERE tabtype = 'T' AND tabid >= 100 AND tabname LIKE ? ORDER BY tabname",
		globToLike(pattern),
	)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, toString(row[0]))
	}
	return names, nil
}

// TableColumns returns name, type and length for the columns of a table
// whose names match the glob pattern.
func (c *Connection) TableColumns(table, pattern string) ([][]any, error) {
	return c.catalogRows(
		"SELECT c.colname, c.coltype, c.collength FROM syscolumns c, systables t"+
			" WHERE c.tabid = t.tabid AND t.tabname = ? AND c.colname LIKE ? ORDER BY c.colno",
		table, globToLike(pattern),
	)
}

// PrimaryKeys returns the primary key columns of a table. Engines without
// the constraint catalog make the query fail; that is a documented degraded
// mode, so the failure is logged and an empty result returned instead of an
// error.
func (c *Connection) PrimaryKeys(table string) ([][]any, error) {
	rows, err := c.catalogRows(
		"SELECT c.colname FROM systables t, sysconstraints n, syscolumns c"+
			" WHERE t.tabname = ? AND n.tabid = t.tabid AND n.constrtype = 'P' AND c.tabid = t.tabid",
		table,
	)
	if err != nil {
		c.logger.WarnNs(log.NsSession, "primary key catalog unavailable", log.KV{
			"connection": c.name,
			"table":      table,
			"error":      err.Error(),
		})
		return [][]any{}, nil
	}
	return rows, nil
}

// ForeignKeys is not implemented and always returns an empty result.
func (c *Connection) ForeignKeys(table string) ([][]any, error) {
	_ = table
	return [][]any{}, nil
}

// BeginTransaction starts a transaction. Plain pass-through SQL: no retry,
// no savepoints.
func (c *Connection) BeginTransaction() error {
	return c.executeAndDiscard("BEGIN WORK")
}

// Commit commits the current transaction.
func (c *Connection) Commit() error {
	return c.executeAndDiscard("COMMIT WORK")
}

// Rollback rolls back the current transaction.
func (c *Connection) Rollback() error {
	return c.executeAndDiscard("ROLLBACK WORK")
}

// executeAndDiscard issues fixed SQL and closes the resulting cursor.
func (c *Connection) executeAndDiscard(sql string) error {
	res, err := c.execute(sql)
	if err != nil {
		return err
	}
	if err := res.Close(); err != nil {
		c.logger.WarnNs(log.NsSession, "error closing result", log.KV{
			"connection": c.name,
			"error":      err.Error(),
		})
	}
	return nil
}

func toString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
