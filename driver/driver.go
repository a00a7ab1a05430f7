// Package driver defines the adapter contract sqlstash sits on top of.
//
// The registry layer never talks to a concrete database library; it only
// sees these interfaces. The stock implementation lives in
// driver/sqldriver and is backed by database/sql, but anything that can
// connect, prepare, execute and report liveness can serve.
package driver

import "context"

// ConnectInfo carries everything needed to establish a connection.
type ConnectInfo struct {
	DataSource string
	User       string
	Password   string
	Options    Options
}

// Options are the per-connection behavior flags. They mirror the
// classic DBI attribute trio.
type Options struct {
	// RaiseError controls whether driver errors should be treated as
	// failures by the adapter (as opposed to merely printed).
	RaiseError bool
	// AutoCommit controls the default transaction behavior.
	AutoCommit bool
	// PrintError requests that the adapter log driver errors even when
	// they are returned to the caller.
	PrintError bool
}

// DefaultOptions returns the option set applied when the caller supplies
// none: errors raise, auto-commit off, no error printing.
func DefaultOptions() Options {
	return Options{RaiseError: true, AutoCommit: false, PrintError: false}
}

// Merge returns o when supplied and base otherwise. Partial, key-wise
// merging happens at the declaration layer; by the time options reach
// the driver they are complete.
func Merge(base Options, o *Options) Options {
	if o == nil {
		return base
	}
	return *o
}

// Driver establishes connections. Implementations are expected to be
// stateless and safe for reuse.
type Driver interface {
	Connect(ctx context.Context, info ConnectInfo) (Conn, error)
}

// Conn is a live database connection.
type Conn interface {
	// Prepare compiles query into a one-shot statement owned by the
	// caller.
	Prepare(ctx context.Context, query string) (Stmt, error)

	// PrepareCached behaves like Prepare but shares a single compiled
	// statement per distinct query text on this connection.
	PrepareCached(ctx context.Context, query string) (Stmt, error)

	// Ping reports whether the connection is still usable.
	Ping(ctx context.Context) error

	Close() error
}

// Stmt is a compiled statement.
type Stmt interface {
	// Query executes the statement and returns its row cursor.
	Query(ctx context.Context, args ...any) (Rows, error)

	// Exec executes the statement and returns the affected row count,
	// or -1 when the driver cannot report one.
	Exec(ctx context.Context, args ...any) (int64, error)

	Close() error
}

// Rows is a forward-only row cursor, shaped after database/sql.Rows.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}
