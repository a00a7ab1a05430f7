// Package sqldriver implements the sqlstash driver contract on top of
// database/sql. PostgreSQL, MySQL and SQLite are supported through the
// usual blank-imported drivers.
package sqldriver

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/satishbabariya/sqlstash/driver"
)

// Driver connects through database/sql. The zero value is ready to use.
type Driver struct{}

// New creates a new database/sql-backed driver.
func New() *Driver {
	return &Driver{}
}

// Connect opens and verifies a connection for info. The data source
// must carry a provider scheme, e.g. "postgres://host/db",
// "mysql://host:3306/db" or "sqlite://file:app.db".
func (d *Driver) Connect(ctx context.Context, info driver.ConnectInfo) (driver.Conn, error) {
	driverName, dsn, err := resolveDSN(info)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driverName, err)
	}

	// sql.Open validates nothing; ping so a bad data source fails here
	// rather than on first use.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", driverName, err)
	}

	return &Conn{
		db:       db,
		prepared: make(map[string]*sql.Stmt),
	}, nil
}

// getDriverName maps provider names to Go database driver names.
func getDriverName(provider string) string {
	switch provider {
	case "postgresql", "postgres":
		return "postgres"
	case "mysql":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return ""
	}
}

// resolveDSN splits the provider scheme off the data source and builds
// the driver-specific DSN, folding in credentials when supplied.
func resolveDSN(info driver.ConnectInfo) (driverName, dsn string, err error) {
	provider, rest, ok := strings.Cut(info.DataSource, "://")
	if !ok {
		return "", "", fmt.Errorf("data source %q has no provider scheme", info.DataSource)
	}

	driverName = getDriverName(provider)
	if driverName == "" {
		return "", "", fmt.Errorf("unsupported provider: %s", provider)
	}

	switch driverName {
	case "postgres":
		u, perr := url.Parse(info.DataSource)
		if perr != nil {
			return "", "", fmt.Errorf("invalid postgres data source: %w", perr)
		}
		u.Scheme = "postgres"
		if info.User != "" {
			u.User = url.UserPassword(info.User, info.Password)
		}
		dsn = u.String()
	case "mysql":
		// go-sql-driver format: user:pass@tcp(host:port)/db?params
		hostport, path, _ := strings.Cut(rest, "/")
		var b strings.Builder
		if info.User != "" {
			b.WriteString(info.User)
			if info.Password != "" {
				b.WriteString(":")
				b.WriteString(info.Password)
			}
			b.WriteString("@")
		}
		fmt.Fprintf(&b, "tcp(%s)/%s", hostport, path)
		dsn = b.String()
	case "sqlite3":
		dsn = rest
	}

	return driverName, dsn, nil
}

// Conn wraps a *sql.DB plus the shared prepared-statement cache keyed
// by SQL text.
type Conn struct {
	db       *sql.DB
	mu       sync.RWMutex
	prepared map[string]*sql.Stmt
}

// Prepare compiles a one-shot statement owned by the caller.
func (c *Conn) Prepare(ctx context.Context, query string) (driver.Stmt, error) {
	stmt, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	return &Stmt{stmt: stmt}, nil
}

// PrepareCached returns the shared compiled statement for query,
// compiling it on first use. All callers with equal query text on this
// connection receive the same underlying statement.
func (c *Conn) PrepareCached(ctx context.Context, query string) (driver.Stmt, error) {
	c.mu.RLock()
	stmt, ok := c.prepared[query]
	c.mu.RUnlock()

	if ok && stmt != nil {
		return &Stmt{stmt: stmt, shared: true}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check under the write lock so a racing caller does not prepare
	// the same text twice.
	if stmt, ok := c.prepared[query]; ok && stmt != nil {
		return &Stmt{stmt: stmt, shared: true}, nil
	}

	stmt, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	c.prepared[query] = stmt
	return &Stmt{stmt: stmt, shared: true}, nil
}

// Ping tests the connection.
func (c *Conn) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close releases all shared prepared statements, then the connection.
func (c *Conn) Close() error {
	c.mu.Lock()
	for query, stmt := range c.prepared {
		stmt.Close()
		delete(c.prepared, query)
	}
	c.mu.Unlock()
	return c.db.Close()
}

// Stmt wraps a *sql.Stmt. Shared statements belong to the connection
// cache, so Close on them is a no-op.
type Stmt struct {
	stmt   *sql.Stmt
	shared bool
}

// Query executes the statement and returns its cursor. *sql.Rows
// satisfies driver.Rows directly.
func (s *Stmt) Query(ctx context.Context, args ...any) (driver.Rows, error) {
	rows, err := s.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	return rows, nil
}

// Exec executes the statement and returns the affected row count, or -1
// when the driver does not report one.
func (s *Stmt) Exec(ctx context.Context, args ...any) (int64, error) {
	result, err := s.stmt.ExecContext(ctx, args...)
	if err != nil {
		return 0, fmt.Errorf("statement execution failed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return -1, nil
	}
	return affected, nil
}

// Close releases the statement unless it is owned by the connection's
// shared cache.
func (s *Stmt) Close() error {
	if s.shared {
		return nil
	}
	return s.stmt.Close()
}
