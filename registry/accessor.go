package registry

import (
	"context"

	"github.com/satishbabariya/sqlstash/driver"
)

// ConnAccessor is a retrieval operation bound to one connection name.
type ConnAccessor func(ctx context.Context) (driver.Conn, error)

// StmtAccessor is a retrieval operation bound to one statement name.
type StmtAccessor func(ctx context.Context, args ...any) (*Handle, error)

// connAccessor and stmtAccessor are the registry-table closures
// installed at registration time. They receive the calling scope so
// dispatch stays dynamic: a derived scope that shadows a name resolves
// its own definition while ancestors keep theirs.
type (
	connAccessor func(ctx context.Context, caller *Scope) (driver.Conn, error)
	stmtAccessor func(ctx context.Context, caller *Scope, args ...any) (*Handle, error)
)

// ConnFunc returns an accessor bound to the named connection as seen
// from this scope. The name must resolve now; a bound accessor is never
// created for an unregistered name.
func (s *Scope) ConnFunc(name string) (ConnAccessor, error) {
	if s.findConnAccessor(name) == nil {
		return nil, &UsageError{Op: "ConnFunc", Reason: "connection " + name + " is not registered"}
	}
	return func(ctx context.Context) (driver.Conn, error) {
		return s.Conn(ctx, name)
	}, nil
}

// StmtFunc returns an accessor bound to the named statement as seen
// from this scope.
func (s *Scope) StmtFunc(name string) (StmtAccessor, error) {
	if s.findStmtAccessor(name) == nil {
		return nil, &UsageError{Op: "StmtFunc", Reason: "statement " + name + " is not registered"}
	}
	return func(ctx context.Context, args ...any) (*Handle, error) {
		return s.Stmt(ctx, name, args...)
	}, nil
}
