// Package driver defines the boundary between the access layer and a native
// database driver. A driver only needs to provide four primitives: connect,
// execute, fetch and the matching teardown calls. Everything else (statement
// templating, cursors, column inference) is built on top of these.
package driver

import "errors"

var (
	// ErrConnect indicates an authentication or transport failure while
	// establishing a connection.
	ErrConnect = errors.New("connection failed")

	// ErrExecute indicates a failed SQL execution. The connection remains
	// usable after this error.
	ErrExecute = errors.New("execution failed")
)

// Row is a single fetched row as an unordered column name to value mapping.
// A nil value represents SQL NULL. Drivers decide the concrete value types;
// the access layer never assumes more than "scalar or nil".
type Row map[string]any

// Driver opens native connections for a concrete database engine.
type Driver interface {
	// Connect opens a connection using a full connection string in
	// KEY=VALUE;KEY={VALUE};... syntax. Errors wrap ErrConnect.
	Connect(connStr string) (Conn, error)
}

// Conn is a native connection handle.
type Conn interface {
	// Execute runs a final, fully substituted SQL string and returns a
	// result handle, even for statements that produce no rows. A statement
	// affecting zero rows is a success, not an error. Errors wrap
	// ErrExecute and carry the engine's diagnostic text.
	Execute(sql string) (Result, error)

	// Disconnect releases the native connection. It is idempotent and
	// best-effort; callers tearing down log and swallow its error.
	Disconnect() error
}

// Result is a native result/cursor handle.
type Result interface {
	// Fetch returns the next row. The second return value is false when
	// the engine reports end of data, which is not an error. Calling Fetch
	// again after end of data keeps returning false.
	Fetch() (Row, bool, error)

	// Close releases the native result handle. It is idempotent and
	// best-effort.
	Close() error
}
