// Package session implements the three-tier resource model of the access
// layer: Connection, Statement and ResultSet. Each handle owns its children
// and cascade-closes them, child before parent, so a native handle is never
// released twice. The model is synchronous and not internally locked: a
// Connection and everything it spawns must be confined to one goroutine or
// externally synchronized.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/ifxcli/ifxcli/internal/ifx/driver"
	"github.com/ifxcli/ifxcli/internal/log"
	"github.com/ifxcli/ifxcli/internal/util/syncutil"
)

// Handle name sequences are the only process-wide mutable state in the core.
var (
	connSeq syncutil.Counter
	stmtSeq syncutil.Counter
	resSeq  syncutil.Counter
)

// Config represents the configuration for a Connection.
type Config struct {
	// Driver is the native driver to connect through.
	Driver driver.Driver
	// ConnStr is the full KEY=VALUE;... connection string, typically
	// rendered by dsn.Resolve.
	ConnStr string
	// ConnectTimeout bounds connection establishment. It is applied once,
	// at connect time; individual operations have no timeout. Defaults to
	// 30 seconds.
	ConnectTimeout time.Duration
	// Logger is optional; teardown diagnostics are discarded without it.
	Logger log.Logger
}

// Connection owns a native connection handle and the statements prepared
// on it.
type Connection struct {
	name   string
	conn   driver.Conn
	logger log.Logger
	stmts  map[string]*Statement
	closed bool
}

// Connect opens a connection through the configured driver.
func Connect(cfg Config) (*Connection, error) {
	if cfg.Driver == nil {
		return nil, errors.New("driver is required")
	}
	if !cfg.Logger.IsInitialized() {
		cfg.Logger = log.NewNopLogger()
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}

	conn, err := connectWithTimeout(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c := &Connection{
		name:   connSeq.NextName("ifxconn"),
		conn:   conn,
		logger: cfg.Logger,
		stmts:  map[string]*Statement{},
	}

	c.logger.DebugNs(log.NsSession, "connection opened", log.KV{"handle": c.name})
	return c, nil
}

// connectWithTimeout runs the driver's blocking connect with an upper bound.
// On timeout the late connection, if it ever arrives, is disconnected in the
// background; the driver call itself cannot be cancelled.
func connectWithTimeout(cfg Config) (driver.Conn, error) {
	type outcome struct {
		conn driver.Conn
		err  error
	}

	ch := make(chan outcome, 1)
	go func() {
		conn, err := cfg.Driver.Connect(cfg.ConnStr)
		ch <- outcome{conn: conn, err: err}
	}()

	timer := time.NewTimer(cfg.ConnectTimeout)
	defer timer.Stop()

	select {
	case out := <-ch:
		return out.conn, out.err
	case <-timer.C:
		go func() {
			if out := <-ch; out.conn != nil {
				_ = out.conn.Disconnect()
			}
		}()
		return nil, fmt.Errorf("%w: timeout after %s", driver.ErrConnect, cfg.ConnectTimeout)
	}
}

// Name returns the unique handle name of the connection.
func (c *Connection) Name() string {
	return c.name
}

// Prepare creates a statement from a SQL template. The template may contain
// ? or :name placeholders, or none; it is re-substituted on every Execute.
func (c *Connection) Prepare(sqlTemplate string) (*Statement, error) {
	if c.closed {
		return nil, closedErr(c.name)
	}

	s := &Statement{
		name:     stmtSeq.NextName("ifxstmt"),
		conn:     c,
		template: sqlTemplate,
		results:  map[string]*ResultSet{},
	}
	c.stmts[s.name] = s

	c.logger.DebugNs(log.NsSession, "statement prepared", log.KV{
		"handle":     s.name,
		"connection": c.name,
	})
	return s, nil
}

// execute sends a final substituted SQL string to the driver on behalf of a
// statement.
func (c *Connection) execute(sql string) (driver.Result, error) {
	if c.closed {
		return nil, closedErr(c.name)
	}

	res, err := c.conn.Execute(sql)
	if err != nil {
		return nil, execErr(err, sql)
	}
	return res, nil
}

// Close releases the connection and everything it owns: every statement is
// closed (cascading into its result sets) before the native connection is
// released. Close is idempotent and best-effort; teardown failures are
// logged, never surfaced.
func (c *Connection) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	for name, stmt := range c.stmts {
		_ = stmt.Close()
		delete(c.stmts, name)
	}

	if err := c.conn.Disconnect(); err != nil {
		c.logger.WarnNs(log.NsSession, "error disconnecting", log.KV{
			"handle": c.name,
			"error":  err.Error(),
		})
	}

	c.logger.DebugNs(log.NsSession, "connection closed", log.KV{"handle": c.name})
	return nil
}
