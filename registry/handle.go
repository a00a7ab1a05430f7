package registry

import (
	"context"
	"fmt"
	"reflect"

	"github.com/satishbabariya/sqlstash/driver"
)

// HandleState tracks a handle through its lifecycle.
type HandleState int

const (
	StateUnprepared HandleState = iota
	StatePrepared
	StateExecuting
	StateActive   // executed, rows pending
	StateFinished // cursor drained or explicitly finished
)

func (s HandleState) String() string {
	switch s {
	case StateUnprepared:
		return "unprepared"
	case StatePrepared:
		return "prepared"
	case StateExecuting:
		return "executing"
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Handle is a prepared-statement handle: the driver statement, its
// spec, the rendered SQL, the current row cursor, and any bound output
// targets. Handles follow the core's single-threaded model and are not
// safe for concurrent use; the registries guard themselves, handles do
// not.
type Handle struct {
	spec  StmtSpec
	sql   string
	stmt  driver.Stmt
	state HandleState

	rows  driver.Rows
	cols  []string
	bound []any
}

func newHandle(spec StmtSpec, sql string, stmt driver.Stmt) *Handle {
	return &Handle{spec: spec, sql: sql, stmt: stmt, state: StatePrepared}
}

// Name returns the registered statement name.
func (h *Handle) Name() string { return h.spec.Name }

// SQL returns the rendered statement text this handle was prepared
// with.
func (h *Handle) SQL() string { return h.sql }

// State returns the handle's lifecycle state.
func (h *Handle) State() HandleState { return h.state }

// Active reports whether the handle has an executed, undrained cursor.
func (h *Handle) Active() bool { return h.state == StateActive }

// Columns returns the result column names of the pending cursor, or nil
// when the handle has none.
func (h *Handle) Columns() ([]string, error) {
	if h.cols != nil {
		return h.cols, nil
	}
	if h.rows == nil {
		return nil, nil
	}
	cols, err := h.rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	h.cols = cols
	return cols, nil
}

// Execute runs the statement with positional bind values and leaves the
// handle Active with a pending cursor. Re-executing a Finished handle
// is allowed; an Active handle is drained first. The returned count is
// -1, the row-cursor result indicator; use Exec for statements that
// report an affected row count instead of rows.
func (h *Handle) Execute(ctx context.Context, args ...any) (int64, error) {
	if h.state == StateActive {
		if err := h.Finish(); err != nil {
			return 0, err
		}
	}

	h.state = StateExecuting
	rows, err := h.stmt.Query(ctx, args...)
	if err != nil {
		h.state = StatePrepared
		return 0, err
	}

	h.rows = rows
	h.cols = nil
	h.bound = nil
	h.state = StateActive
	return -1, nil
}

// ExecuteBound runs the statement with bind values plus bound output
// targets: pointers that receive the row's column values on each
// subsequent fetch. Every target must be a non-nil pointer; a malformed
// shape is rejected as a UsageError before the driver is touched.
func (h *Handle) ExecuteBound(ctx context.Context, values []any, targets []any) (int64, error) {
	for i, t := range targets {
		rv := reflect.ValueOf(t)
		if !rv.IsValid() || rv.Kind() != reflect.Ptr || rv.IsNil() {
			return 0, &UsageError{
				Op:     "ExecuteBound",
				Reason: fmt.Sprintf("bound output target %d is not a non-nil pointer", i),
			}
		}
	}
	for i, v := range values {
		if _, structured := v.([]any); structured {
			return 0, &UsageError{
				Op:     "ExecuteBound",
				Reason: fmt.Sprintf("bind value %d is a list; pass a flat value list", i),
			}
		}
	}

	n, err := h.Execute(ctx, values...)
	if err != nil {
		return n, err
	}
	h.bound = targets
	return n, nil
}

// Exec runs the statement for its side effects and returns the affected
// row count. The handle finishes immediately; there is no cursor.
func (h *Handle) Exec(ctx context.Context, args ...any) (int64, error) {
	if h.state == StateActive {
		if err := h.Finish(); err != nil {
			return 0, err
		}
	}

	h.state = StateExecuting
	affected, err := h.stmt.Exec(ctx, args...)
	h.state = StateFinished
	return affected, err
}

// Fetch advances the cursor one row, filling bound output targets when
// present. It returns false with no error on normal exhaustion, after
// which the handle is Finished.
func (h *Handle) Fetch() (bool, error) {
	row, err := h.nextRow()
	if err != nil || row == nil {
		return false, err
	}
	return true, nil
}

// FetchValues returns the next row as an ordered value slice, filling
// bound output targets when present. At end of data it returns
// (nil, nil), never an error for normal exhaustion.
func (h *Handle) FetchValues() ([]any, error) {
	return h.nextRow()
}

// FetchMap returns the next row keyed by column name. At end of data it
// returns (nil, nil) and may be called repeatedly past exhaustion with
// no effect beyond the sentinel.
func (h *Handle) FetchMap() (map[string]any, error) {
	row, err := h.nextRow()
	if err != nil || row == nil {
		return nil, err
	}

	m := make(map[string]any, len(h.cols))
	for i, col := range h.cols {
		m[col] = row[i]
	}
	return m, nil
}

// FetchAllValues drains the cursor eagerly into a slice of rows. The
// handle is Finished afterwards.
func (h *Handle) FetchAllValues() ([][]any, error) {
	var all [][]any
	for {
		row, err := h.nextRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return all, nil
		}
		all = append(all, row)
	}
}

// FetchAllMaps drains the cursor eagerly into a slice of column-keyed
// rows. The handle is Finished afterwards.
func (h *Handle) FetchAllMaps() ([]map[string]any, error) {
	var all []map[string]any
	for {
		row, err := h.FetchMap()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return all, nil
		}
		all = append(all, row)
	}
}

// Finish closes the pending cursor, if any, and marks the handle
// Finished. Finishing a Finished handle is a no-op; execution may
// restart from Finished.
func (h *Handle) Finish() error {
	h.state = StateFinished
	if h.rows == nil {
		return nil
	}
	rows := h.rows
	h.rows = nil
	return rows.Close()
}

// nextRow is the single cursor-advancing primitive behind every fetch
// variant. It returns (nil, nil) at end of data and finishes the
// handle, making all fetch operations idempotent past exhaustion.
func (h *Handle) nextRow() ([]any, error) {
	if h.state != StateActive || h.rows == nil {
		return nil, nil
	}

	if !h.rows.Next() {
		err := h.rows.Err()
		if ferr := h.Finish(); err == nil {
			err = ferr
		}
		return nil, err
	}

	if _, err := h.Columns(); err != nil {
		return nil, err
	}
	if len(h.bound) > 0 && len(h.bound) != len(h.cols) {
		return nil, &UsageError{
			Op:     "Fetch",
			Reason: fmt.Sprintf("%d bound output targets for %d columns", len(h.bound), len(h.cols)),
		}
	}

	values := make([]any, len(h.cols))
	ptrs := make([]any, len(h.cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := h.rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	for i, target := range h.bound {
		if err := assignValue(target, values[i]); err != nil {
			return nil, fmt.Errorf("failed to set bound target %d: %w", i, err)
		}
	}

	return values, nil
}

// assignValue stores a column value into a bound output pointer,
// converting when the types allow it.
func assignValue(target any, value any) error {
	dest := reflect.ValueOf(target).Elem()

	if value == nil {
		dest.Set(reflect.Zero(dest.Type()))
		return nil
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(dest.Type()) {
		dest.Set(v)
		return nil
	}
	if v.Type().ConvertibleTo(dest.Type()) {
		dest.Set(v.Convert(dest.Type()))
		return nil
	}

	// Drivers commonly hand text columns back as []byte.
	if b, ok := value.([]byte); ok && dest.Kind() == reflect.String {
		dest.SetString(string(b))
		return nil
	}

	return fmt.Errorf("cannot convert %s to %s", v.Type(), dest.Type())
}
