package registry

import (
	"context"
	"sync"

	"github.com/satishbabariya/sqlstash/driver"
	"github.com/satishbabariya/sqlstash/internal/debug"
)

// ConnSpec is an immutable registered connection description.
type ConnSpec struct {
	Name       string
	DataSource string
	User       string
	Password   string
	Options    driver.Options
}

// connEntry is one connection registry slot: the spec plus the lazily
// established cached connection. The entry lives on the declaring
// scope, so every derived scope shares the same live connection.
type connEntry struct {
	spec ConnSpec

	mu   sync.Mutex
	conn driver.Conn
}

// RegisterConnection registers a named connection on this scope. The
// name must not already be registered on this scope; shadowing a name
// inherited from an ancestor is allowed. Options merge over the
// defaults (RaiseError on, AutoCommit off, PrintError off) with the
// caller's values winning.
func (s *Scope) RegisterConnection(name, dataSource, user, password string, opts *driver.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.conns[name]; dup {
		return &RegistrationError{Kind: "connection", Name: name, Reason: "already registered on scope " + s.name}
	}

	entry := &connEntry{
		spec: ConnSpec{
			Name:       name,
			DataSource: dataSource,
			User:       user,
			Password:   password,
			Options:    driver.Merge(driver.DefaultOptions(), opts),
		},
	}

	s.conns[name] = entry
	s.connOrder = append(s.connOrder, name)
	s.connAccessors[name] = func(ctx context.Context, caller *Scope) (driver.Conn, error) {
		return caller.connectEntry(ctx, entry)
	}

	debug.Debug("registered connection", "scope", s.name, "name", name, "datasource", dataSource)
	return nil
}

// ConnectionSpec returns the spec registered under name as resolved
// from this scope.
func (s *Scope) ConnectionSpec(name string) (ConnSpec, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		entry := cur.conns[name]
		cur.mu.RUnlock()
		if entry != nil {
			return entry.spec, true
		}
	}
	return ConnSpec{}, false
}

// Conn returns the live connection registered under name, establishing
// it on first use. A cached connection is probed for liveness before it
// is handed out; if the probe fails the connection is transparently
// replaced. Conn never returns a dead handle.
func (s *Scope) Conn(ctx context.Context, name string) (driver.Conn, error) {
	acc := s.findConnAccessor(name)
	if acc == nil {
		return nil, &UsageError{Op: "Conn", Reason: "connection " + name + " is not registered"}
	}
	return acc(ctx, s)
}

// connectEntry implements the lazy-connect / liveness-probe cycle for
// one registry slot. The entry lock makes the connect initialize-once:
// two goroutines racing on a cold name trigger a single driver connect.
func (s *Scope) connectEntry(ctx context.Context, entry *connEntry) (driver.Conn, error) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.conn != nil {
		if err := entry.conn.Ping(ctx); err == nil {
			return entry.conn, nil
		}
		debug.Warn("cached connection failed liveness probe, reconnecting",
			"connection", entry.spec.Name)
		entry.conn.Close()
		entry.conn = nil
	}

	conn, err := s.driver.Connect(ctx, driver.ConnectInfo{
		DataSource: entry.spec.DataSource,
		User:       entry.spec.User,
		Password:   entry.spec.Password,
		Options:    entry.spec.Options,
	})
	if err != nil {
		// Not cached: the next access retries.
		return nil, &ConnectionError{Name: entry.spec.Name, Err: err}
	}

	debug.Debug("connection established", "connection", entry.spec.Name)
	entry.conn = conn
	return conn, nil
}
