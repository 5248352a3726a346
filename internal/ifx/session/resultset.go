package session

import (
	"fmt"
	"sort"

	"github.com/ifxcli/ifxcli/internal/ifx/driver"
	"github.com/ifxcli/ifxcli/internal/log"
	"github.com/orsinium-labs/enum"
)

// RowMode selects the shape rows are handed to the caller in.
type RowMode enum.Member[string]

var (
	// ModeList yields rows as ordered value lists following the column order.
	ModeList = RowMode{Value: "list"}
	// ModeDict yields rows as name-keyed maps without reordering.
	ModeDict = RowMode{Value: "dict"}

	// RowModes enumerates every valid row shape.
	RowModes = enum.New(ModeList, ModeDict)
)

// Signal is returned by a ForEach body to control the iteration.
type Signal int

const (
	// Continue proceeds to the next row.
	Continue Signal = iota
	// Stop ends the iteration early. Nothing is closed implicitly.
	Stop
)

// ColumnDescriber is optionally implemented by driver results that know the
// column order up front (engines with a describe primitive). Without it,
// column names are inferred from the first fetched row.
type ColumnDescriber interface {
	Columns() []string
}

// ResultSet owns a native result handle, the lazily discovered column order
// and a running count of fetched rows.
type ResultSet struct {
	name       string
	stmt       *Statement
	res        driver.Result
	cols       []string
	colsKnown  bool
	pending    driver.Row
	hasPending bool
	done       bool
	fetched    int
	closed     bool
}

// Name returns the unique handle name of the result set.
func (rs *ResultSet) Name() string {
	return rs.name
}

// Statement returns the owning statement. Introspection only.
func (rs *ResultSet) Statement() *Statement {
	return rs.stmt
}

// Fetched returns how many rows have been fetched from the driver so far,
// including a row consumed internally by column discovery.
func (rs *ResultSet) Fetched() int {
	return rs.fetched
}

// Columns returns the column names. If they are not known yet and the
// driver cannot describe them, a row is fetched to learn them: its key set
// becomes the fixed column order (sorted, since the native row is
// unordered) and the row itself is cached so the next fetch still returns
// it. An empty result leaves the column list empty.
func (rs *ResultSet) Columns() ([]string, error) {
	if rs.closed {
		return nil, closedErr(rs.name)
	}
	if rs.colsKnown {
		return rs.cols, nil
	}

	if describer, ok := rs.res.(ColumnDescriber); ok {
		rs.cols = describer.Columns()
		rs.colsKnown = true
		return rs.cols, nil
	}

	row, ok, err := rs.fetchRaw()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	rs.pending = row
	rs.hasPending = true
	return rs.cols, nil
}

// Next fetches the next row as an ordered value list. The second return
// value is false at end of data, and stays false on every later call; end
// of data is never an error.
func (rs *ResultSet) Next() ([]any, bool, error) {
	row, ok, err := rs.nextDict()
	if err != nil || !ok {
		return nil, false, err
	}
	return rs.materializeList(row), true, nil
}

// NextDict fetches the next row as a name-keyed map, without reordering.
func (rs *ResultSet) NextDict() (driver.Row, bool, error) {
	return rs.nextDict()
}

// NextRow fetches the next row in the requested shape. The returned value
// is a []any for ModeList or a driver.Row for ModeDict; ok is false at end
// of data.
func (rs *ResultSet) NextRow(mode RowMode) (any, bool, error) {
	switch mode {
	case ModeDict:
		row, ok, err := rs.nextDict()
		if err != nil || !ok {
			return nil, false, err
		}
		return row, true, nil
	case ModeList:
		row, ok, err := rs.Next()
		if err != nil || !ok {
			return nil, false, err
		}
		return row, true, nil
	default:
		return nil, false, fmt.Errorf("unknown row mode %q", mode.Value)
	}
}

// FetchAll drains the result set and returns the header row (the column
// names) followed by every data row as ordered lists.
func (rs *ResultSet) FetchAll() ([][]any, error) {
	cols, err := rs.Columns()
	if err != nil {
		return nil, err
	}

	header := make([]any, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	all := [][]any{header}

	for {
		row, ok, err := rs.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return all, nil
		}
		all = append(all, row)
	}
}

// ForEach invokes body for every remaining row in the requested shape. A
// Stop signal ends the iteration early without closing anything: closing
// stays the caller's (or the owning statement's) responsibility. An error
// returned by the body closes the result set and propagates.
func (rs *ResultSet) ForEach(mode RowMode, body func(row any) (Signal, error)) error {
	for {
		row, ok, err := rs.NextRow(mode)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		signal, err := body(row)
		if err != nil {
			_ = rs.Close()
			return err
		}
		if signal == Stop {
			return nil
		}
	}
}

// Close releases the native result handle exactly once and detaches the
// result set from its statement. Idempotent and best-effort.
func (rs *ResultSet) Close() error {
	if rs.closed {
		return nil
	}
	rs.closed = true

	if err := rs.res.Close(); err != nil {
		rs.stmt.conn.logger.WarnNs(log.NsSession, "error closing result", log.KV{
			"handle": rs.name,
			"error":  err.Error(),
		})
	}
	delete(rs.stmt.results, rs.name)

	return nil
}

// nextDict returns the pending row if column discovery cached one, else
// fetches from the driver.
func (rs *ResultSet) nextDict() (driver.Row, bool, error) {
	if rs.closed {
		return nil, false, closedErr(rs.name)
	}

	if rs.hasPending {
		row := rs.pending
		rs.pending = nil
		rs.hasPending = false
		return row, true, nil
	}

	return rs.fetchRaw()
}

// fetchRaw performs a native fetch and, on the first row, fixes the column
// order from the row's key set. The native row is unordered, so the
// inferred order is the sorted key set; drivers that know better implement
// ColumnDescriber.
func (rs *ResultSet) fetchRaw() (driver.Row, bool, error) {
	if rs.done {
		return nil, false, nil
	}

	row, ok, err := rs.res.Fetch()
	if err != nil {
		return nil, false, fmt.Errorf("fetch failed on %s: %w", rs.name, err)
	}
	if !ok {
		rs.done = true
		return nil, false, nil
	}

	rs.fetched++
	if !rs.colsKnown {
		rs.cols = inferColumns(rs.res, row)
		rs.colsKnown = true
	}
	return row, true, nil
}

// materializeList reorders a native row into the fixed column order. A
// column present in the order but absent from the row yields an empty
// placeholder.
func (rs *ResultSet) materializeList(row driver.Row) []any {
	out := make([]any, len(rs.cols))
	for i, col := range rs.cols {
		if value, ok := row[col]; ok {
			out[i] = value
		} else {
			out[i] = ""
		}
	}
	return out
}

func inferColumns(res driver.Result, row driver.Row) []string {
	if describer, ok := res.(ColumnDescriber); ok {
		return describer.Columns()
	}

	cols := make([]string, 0, len(row))
	for name := range row {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}
