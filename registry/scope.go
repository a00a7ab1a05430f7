// Package registry implements the sqlstash core: named connection and
// statement registries arranged in a scope hierarchy, with lazily
// created, cached handles shared across the whole hierarchy.
//
// A Scope plays the role of a declaring class. Deriving a scope models
// subclassing: every name registered on an ancestor is resolvable and
// invokable from a derived scope, and resolves to the *same* cached
// handle. A derived scope may shadow an inherited name by registering
// it locally; re-registering a name already present on the same scope
// is a hard error.
package registry

import (
	"sync"

	"github.com/satishbabariya/sqlstash/driver"
)

// Scope is one node in a registration hierarchy. Registrations bind to
// the receiving scope; lookups walk from the scope to its root with
// most-derived-wins semantics.
//
// Registration is expected during an application's initialization
// phase, but each scope carries its own lock so concurrent first
// accesses still perform exactly one connect or prepare per name.
type Scope struct {
	name   string
	parent *Scope
	driver driver.Driver

	mu        sync.RWMutex
	conns     map[string]*connEntry
	connOrder []string
	stmts     map[string]*stmtEntry
	stmtOrder []string

	// Accessor tables: name -> handle-producing closure, installed on
	// successful registration and consulted by the generic dispatchers
	// Conn and Stmt.
	connAccessors map[string]connAccessor
	stmtAccessors map[string]stmtAccessor
}

// NewScope creates a hierarchy root backed by drv. Fresh roots give
// tests full isolation; applications typically create one root at
// startup.
func NewScope(name string, drv driver.Driver) *Scope {
	return &Scope{
		name:          name,
		driver:        drv,
		conns:         make(map[string]*connEntry),
		stmts:         make(map[string]*stmtEntry),
		connAccessors: make(map[string]connAccessor),
		stmtAccessors: make(map[string]stmtAccessor),
	}
}

// Derive creates a child scope. The child sees every name registered on
// its ancestors and shares their cached handles.
func (s *Scope) Derive(name string) *Scope {
	child := NewScope(name, s.driver)
	child.parent = s
	return child
}

// Name returns the scope's name.
func (s *Scope) Name() string { return s.name }

// ConnectionNames returns the registered connection names visible from
// this scope, inherited names included, in insertion order from the
// root down, de-duplicated.
func (s *Scope) ConnectionNames() []string {
	return s.collectNames(func(sc *Scope) []string { return sc.connOrder })
}

// StatementNames returns the registered statement names visible from
// this scope, inherited names included, in insertion order from the
// root down, de-duplicated.
func (s *Scope) StatementNames() []string {
	return s.collectNames(func(sc *Scope) []string { return sc.stmtOrder })
}

func (s *Scope) collectNames(order func(*Scope) []string) []string {
	var chain []*Scope
	for cur := s; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	seen := make(map[string]bool)
	var names []string
	// Root first so base registrations keep their positions.
	for i := len(chain) - 1; i >= 0; i-- {
		sc := chain[i]
		sc.mu.RLock()
		for _, name := range order(sc) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		sc.mu.RUnlock()
	}
	return names
}

// findConnAccessor walks the chain for the accessor registered under
// name, nearest scope first.
func (s *Scope) findConnAccessor(name string) connAccessor {
	for cur := s; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		acc := cur.connAccessors[name]
		cur.mu.RUnlock()
		if acc != nil {
			return acc
		}
	}
	return nil
}

// findStmtAccessor walks the chain for the accessor registered under
// name, nearest scope first.
func (s *Scope) findStmtAccessor(name string) stmtAccessor {
	for cur := s; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		acc := cur.stmtAccessors[name]
		cur.mu.RUnlock()
		if acc != nil {
			return acc
		}
	}
	return nil
}

// resolvesConnection reports whether name is a registered connection
// visible from this scope. Used to validate statement registrations.
func (s *Scope) resolvesConnection(name string) bool {
	return s.findConnAccessor(name) != nil
}
