package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/satishbabariya/sqlstash/driver"
)

// fakeDriver is an in-memory driver adapter for registry tests. It
// counts connects, lets tests fail the next connect or kill a live
// connection's liveness probe, and serves canned rows.
type fakeDriver struct {
	mu       sync.Mutex
	connects int
	failNext error
	conns    []*fakeConn

	// rows served by every statement executed on this driver
	cols []string
	rows [][]any
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{}
}

func (d *fakeDriver) serve(cols []string, rows [][]any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cols = cols
	d.rows = rows
}

func (d *fakeDriver) Connect(ctx context.Context, info driver.ConnectInfo) (driver.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failNext != nil {
		err := d.failNext
		d.failNext = nil
		return nil, err
	}

	d.connects++
	conn := &fakeConn{drv: d, info: info, cached: make(map[string]*fakeStmt)}
	d.conns = append(d.conns, conn)
	return conn, nil
}

func (d *fakeDriver) connectCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connects
}

type fakeConn struct {
	drv  *fakeDriver
	info driver.ConnectInfo

	mu       sync.Mutex
	dead     bool
	closed   bool
	prepares int
	cached   map[string]*fakeStmt
}

func (c *fakeConn) kill() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dead = true
}

func (c *fakeConn) Prepare(ctx context.Context, query string) (driver.Stmt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prepares++
	return &fakeStmt{conn: c, query: query}, nil
}

func (c *fakeConn) PrepareCached(ctx context.Context, query string) (driver.Stmt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prepares++
	if stmt, ok := c.cached[query]; ok {
		return stmt, nil
	}
	stmt := &fakeStmt{conn: c, query: query}
	c.cached[query] = stmt
	return stmt, nil
}

func (c *fakeConn) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dead {
		return fmt.Errorf("connection is dead")
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

type fakeStmt struct {
	conn  *fakeConn
	query string
	execs int
}

func (s *fakeStmt) Query(ctx context.Context, args ...any) (driver.Rows, error) {
	s.execs++
	s.conn.drv.mu.Lock()
	cols := s.conn.drv.cols
	rows := s.conn.drv.rows
	s.conn.drv.mu.Unlock()
	return &fakeRows{cols: cols, rows: rows, pos: -1}, nil
}

func (s *fakeStmt) Exec(ctx context.Context, args ...any) (int64, error) {
	s.execs++
	return int64(len(args)), nil
}

func (s *fakeStmt) Close() error { return nil }

type fakeRows struct {
	cols   []string
	rows   [][]any
	pos    int
	closed bool
}

func (r *fakeRows) Columns() ([]string, error) { return r.cols, nil }

func (r *fakeRows) Next() bool {
	if r.closed {
		return false
	}
	r.pos++
	return r.pos < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.pos < 0 || r.pos >= len(r.rows) {
		return fmt.Errorf("scan called without a row")
	}
	row := r.rows[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %d destinations, got %d", len(row), len(dest))
	}
	for i, v := range row {
		p, ok := dest[i].(*any)
		if !ok {
			return fmt.Errorf("destination %d is not *any", i)
		}
		*p = v
	}
	return nil
}

func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Close() error {
	r.closed = true
	return nil
}
