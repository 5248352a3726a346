// Package mockdrv provides a scripted in-memory driver used by tests. Rows
// are queued per SQL text and every native handle transition is counted, so
// tests can assert that the access layer releases each handle exactly once.
package mockdrv

import (
	"fmt"

	"github.com/ifxcli/ifxcli/internal/ifx/driver"
)

// Driver is a scripted driver.Driver implementation.
type Driver struct {
	// ConnectErr, when set, makes every Connect call fail.
	ConnectErr error
	// DisconnectErr, when set, is returned by every Disconnect call.
	DisconnectErr error
	// CloseResultErr, when set, is returned by every result Close call.
	CloseResultErr error

	scripts  map[string][]driver.Row
	failures map[string]string
	executed []string

	openConns   int
	openResults int
}

// New creates an empty scripted driver. SQL that has not been scripted
// executes successfully and yields an empty result.
func New() *Driver {
	return &Driver{
		scripts:  map[string][]driver.Row{},
		failures: map[string]string{},
	}
}

// Script makes every execution of sql yield the given rows.
func (d *Driver) Script(sql string, rows ...driver.Row) {
	d.scripts[sql] = rows
}

// Fail makes every execution of sql fail with the given diagnostic text.
func (d *Driver) Fail(sql string, diag string) {
	d.failures[sql] = diag
}

// Executed returns every SQL string that reached the driver, in order.
func (d *Driver) Executed() []string {
	return d.executed
}

// OpenConns returns the number of currently open connections.
func (d *Driver) OpenConns() int {
	return d.openConns
}

// OpenResults returns the number of currently open result handles.
func (d *Driver) OpenResults() int {
	return d.openResults
}

// Connect implements driver.Driver.
func (d *Driver) Connect(connStr string) (driver.Conn, error) {
	if d.ConnectErr != nil {
		return nil, fmt.Errorf("%w: %s", driver.ErrConnect, d.ConnectErr)
	}

	d.openConns++
	return &conn{drv: d, connStr: connStr}, nil
}

type conn struct {
	drv     *Driver
	connStr string
	closed  bool
}

func (c *conn) Execute(sql string) (driver.Result, error) {
	if c.closed {
		return nil, fmt.Errorf("%w: connection is closed", driver.ErrExecute)
	}

	c.drv.executed = append(c.drv.executed, sql)

	if diag, ok := c.drv.failures[sql]; ok {
		return nil, fmt.Errorf("%w: %s", driver.ErrExecute, diag)
	}

	rows := c.drv.scripts[sql]
	c.drv.openResults++
	return &result{drv: c.drv, rows: rows}, nil
}

func (c *conn) Disconnect() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.drv.openConns--
	return c.drv.DisconnectErr
}

type result struct {
	drv    *Driver
	rows   []driver.Row
	pos    int
	closed bool
}

func (r *result) Fetch() (driver.Row, bool, error) {
	if r.closed || r.pos >= len(r.rows) {
		return nil, false, nil
	}

	src := r.rows[r.pos]
	r.pos++

	// Hand out a copy so callers cannot mutate the script.
	row := make(driver.Row, len(src))
	for name, value := range src {
		row[name] = value
	}
	return row, true, nil
}

func (r *result) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.drv.openResults--
	return r.drv.CloseResultErr
}
