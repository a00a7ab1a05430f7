package registry

import (
	"context"
	"sync"

	"github.com/satishbabariya/sqlstash/driver"
	"github.com/satishbabariya/sqlstash/internal/debug"
)

// CachePolicy controls whether a statement's prepared handle is kept in
// the registry slot between accesses.
type CachePolicy int

const (
	// Cached statements share one prepared handle per name; the driver
	// additionally shares the compiled statement per SQL text.
	Cached CachePolicy = iota
	// Uncached statements are prepared one-shot on every access.
	Uncached
)

// StmtSpec is an immutable registered statement description.
type StmtSpec struct {
	Name       string
	Template   string
	Connection string
	Cache      CachePolicy
}

// StmtOption adjusts a statement registration.
type StmtOption func(*StmtSpec)

// WithCachePolicy overrides the default Cached policy.
func WithCachePolicy(p CachePolicy) StmtOption {
	return func(spec *StmtSpec) { spec.Cache = p }
}

// stmtEntry is one statement registry slot: the spec plus the cached
// prepared handle for the no-argument case. Like connections, the slot
// lives on the declaring scope and is shared by the whole hierarchy.
// conn records which connection the handle was prepared on; when the
// resolved connection differs (reconnect, or a shadowed resolution from
// a derived scope) the handle is stale and must be rebuilt.
type stmtEntry struct {
	spec StmtSpec

	mu     sync.Mutex
	handle *Handle
	conn   driver.Conn
}

// RegisterStatement registers a named SQL statement on this scope,
// bound to a registered connection name. Registration fails when the
// statement name is already present on this scope or when the
// connection name does not resolve from this scope; a failed
// registration installs no accessor.
func (s *Scope) RegisterStatement(name, template, connection string, opts ...StmtOption) error {
	if !s.resolvesConnection(connection) {
		return &RegistrationError{Kind: "statement", Name: name,
			Reason: "connection " + connection + " is not registered"}
	}

	spec := StmtSpec{Name: name, Template: template, Connection: connection, Cache: Cached}
	for _, opt := range opts {
		opt(&spec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.stmts[name]; dup {
		return &RegistrationError{Kind: "statement", Name: name, Reason: "already registered on scope " + s.name}
	}

	entry := &stmtEntry{spec: spec}
	s.stmts[name] = entry
	s.stmtOrder = append(s.stmtOrder, name)
	s.stmtAccessors[name] = func(ctx context.Context, caller *Scope, args ...any) (*Handle, error) {
		return caller.buildStatement(ctx, entry, args...)
	}

	debug.Debug("registered statement", "scope", s.name, "name", name, "connection", connection)
	return nil
}

// StatementSpec returns the spec registered under name as resolved
// from this scope.
func (s *Scope) StatementSpec(name string) (StmtSpec, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		entry := cur.stmts[name]
		cur.mu.RUnlock()
		if entry != nil {
			return entry.spec, true
		}
	}
	return StmtSpec{}, false
}

// Stmt returns a prepared handle for the statement registered under
// name. With no template arguments and the default Cached policy the
// handle is created once and reused; template arguments always produce
// an independent one-shot handle.
func (s *Scope) Stmt(ctx context.Context, name string, args ...any) (*Handle, error) {
	acc := s.findStmtAccessor(name)
	if acc == nil {
		return nil, &UsageError{Op: "Stmt", Reason: "statement " + name + " is not registered"}
	}
	return acc(ctx, s, args...)
}

// buildStatement resolves the target connection from the calling scope
// (so a shadowed connection on a derived scope takes effect for
// inherited statements), then returns the cached handle or prepares a
// new one.
func (s *Scope) buildStatement(ctx context.Context, entry *stmtEntry, args ...any) (*Handle, error) {
	conn, err := s.Conn(ctx, entry.spec.Connection)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	cacheable := len(args) == 0 && entry.spec.Cache == Cached

	if cacheable && entry.handle != nil {
		replaced := entry.conn != conn
		if !replaced && !entry.handle.Active() {
			return entry.handle, nil
		}
		if replaced {
			// The connection the handle was prepared on has been
			// replaced; its compiled statement went down with it.
			debug.Debug("cached handle outlived its connection, rebuilding",
				"statement", entry.spec.Name)
		} else {
			// A handle with an undrained cursor was requested again.
			// Warn once, drain it, and fall through to rebuild.
			debug.Warn("statement handle still active, draining before rebuild",
				"statement", entry.spec.Name)
		}
		if err := entry.handle.Finish(); err != nil {
			debug.Warn("failed to drain stale handle", "statement", entry.spec.Name, "error", err)
		}
		entry.handle = nil
		entry.conn = nil
	}

	text, err := renderTemplate(entry.spec.Template, args...)
	if err != nil {
		return nil, err
	}

	var stmt driver.Stmt
	if cacheable {
		stmt, err = conn.PrepareCached(ctx, text)
	} else {
		stmt, err = conn.Prepare(ctx, text)
	}
	if err != nil {
		// Not cached: the next access retries.
		return nil, &PrepareError{Name: entry.spec.Name, SQL: text, Err: err}
	}

	handle := newHandle(entry.spec, text, stmt)
	if cacheable {
		entry.handle = handle
		entry.conn = conn
	}
	return handle, nil
}
