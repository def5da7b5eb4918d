package database

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"

	"gorm.io/gorm"
)

// Policy errors raised by the client itself, before or instead of touching
// the backend. Match them with errors.Is.
var (
	// ErrEmptyUpdate is returned by Update when the value map is empty.
	ErrEmptyUpdate = errors.New("update requires at least one value")

	// ErrNoRecordsAffected is returned by Delete with errorWhenEmpty when
	// the filter matched zero rows.
	ErrNoRecordsAffected = errors.New("no records affected")

	// ErrInvalidFetchMode is returned by Retrieve for a mode other than
	// FetchOne or FetchAll.
	ErrInvalidFetchMode = errors.New("invalid fetch mode")
)

// UnknownColumnError reports a reference to a column the table does not
// declare. It is detected client-side before any SQL is sent.
type UnknownColumnError struct {
	Column string
	Table  string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q in table %q", e.Column, e.Table)
}

// RecordError wraps a backend failure of a data operation, such as a
// constraint violation. The original driver error is preserved as the cause.
type RecordError struct {
	Op    string
	Table string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s on table %q failed: %v", e.Op, e.Table, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// ConnectionError wraps a connectivity failure. Unlike RecordError it
// usually warrants a retry once the backend is reachable again.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ErrorCategory classifies errors returned by the client.
type ErrorCategory string

const (
	// CategoryNone means no error.
	CategoryNone ErrorCategory = "none"

	// CategoryValidation covers client-side failures: unknown columns,
	// empty updates, strict deletes that matched nothing, bad arguments.
	CategoryValidation ErrorCategory = "validation"

	// CategoryRecord covers backend data failures such as constraint
	// violations.
	CategoryRecord ErrorCategory = "record"

	// CategoryConnection covers connectivity failures.
	CategoryConnection ErrorCategory = "connection"

	// CategoryUnknown covers everything else.
	CategoryUnknown ErrorCategory = "unknown"
)

// GetErrorCategory classifies an error returned by any client operation.
func (d *Database) GetErrorCategory(err error) ErrorCategory {
	return categorize(err)
}

// IsRetryable reports whether the operation may succeed if repeated,
// which is the case for connectivity failures only. The client never
// retries on its own; that decision belongs to the caller.
func (d *Database) IsRetryable(err error) bool {
	return categorize(err) == CategoryConnection
}

// IsTemporary reports whether the error reflects a transient backend
// condition rather than a flaw in the request.
func (d *Database) IsTemporary(err error) bool {
	return categorize(err) == CategoryConnection
}

// IsCritical reports whether the error is neither a policy failure nor a
// known backend condition, and likely needs investigation.
func (d *Database) IsCritical(err error) bool {
	return categorize(err) == CategoryUnknown
}

func categorize(err error) ErrorCategory {
	if err == nil {
		return CategoryNone
	}

	var unknownColumn *UnknownColumnError
	switch {
	case errors.As(err, &unknownColumn),
		errors.Is(err, ErrEmptyUpdate),
		errors.Is(err, ErrNoRecordsAffected),
		errors.Is(err, ErrInvalidFetchMode):
		return CategoryValidation
	}

	var connErr *ConnectionError
	if errors.As(err, &connErr) || isConnectivityError(err) {
		return CategoryConnection
	}

	var recordErr *RecordError
	if errors.As(err, &recordErr) {
		return CategoryRecord
	}

	return CategoryUnknown
}

// classifyError wraps a raw backend error into the typed taxonomy. Policy
// and already-typed errors pass through unchanged so the classification is
// stable across the session boundary.
func classifyError(op, table string, err error) error {
	if err == nil {
		return nil
	}

	switch categorize(err) {
	case CategoryValidation, CategoryRecord:
		return err
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return err
	}

	if isConnectivityError(err) {
		return &ConnectionError{Err: err}
	}

	return &RecordError{Op: op, Table: table, Err: err}
}

// isConnectivityError recognizes transport-level failures as surfaced by
// the sql package and the underlying drivers.
func isConnectivityError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.EOF) ||
		errors.Is(err, gorm.ErrInvalidDB) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
