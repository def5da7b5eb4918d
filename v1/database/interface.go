package database

import (
	"context"

	"gorm.io/gorm"
)

// Record is a single row represented as a column-name-to-value map.
type Record = map[string]interface{}

// Filters maps column names to values that matching rows must equal.
// All entries are combined with AND.
type Filters = map[string]interface{}

// FetchMode selects how many rows Retrieve returns.
type FetchMode string

const (
	// FetchOne returns at most one record.
	FetchOne FetchMode = "one"

	// FetchAll returns every matching record.
	FetchAll FetchMode = "all"
)

// Query describes which rows an operation targets and which columns it
// returns. The zero value matches every row and returns full rows.
type Query struct {
	// Filters are equality predicates, combined with AND.
	Filters Filters

	// Conditions are additional predicates and modifiers beyond simple
	// equality, built with the condition constructors (GT, In, OrderBy, ...).
	Conditions []Condition

	// Columns optionally projects the result to the named columns.
	// Empty means full rows.
	Columns []string
}

// Logger is the logging surface the database client needs.
// The logger package's *Logger satisfies it.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Client is the main database client interface providing schema-validated,
// transactional CRUD operations over dynamic tables.
//
// Every operation validates the referenced columns against the supplied
// Table before any SQL is issued, then runs inside its own transaction with
// commit-on-success and rollback-on-failure semantics. Operations are
// blocking and safe for concurrent use; each call borrows its own connection
// from the shared pool.
//
// This interface allows applications to:
//   - Switch between the supported backends without code changes
//   - Write backend-agnostic data access logic
//   - Mock database operations easily for testing
//
// The Database type implements this interface.
type Client interface {
	// Create inserts one row into the table.
	Create(ctx context.Context, table Table, record Record) error

	// BulkCreate inserts all records in one statement. An empty slice is a
	// no-op and touches neither the pool nor the backend.
	BulkCreate(ctx context.Context, table Table, records []Record) error

	// Retrieve returns the rows matching q. With FetchOne the result holds
	// at most one record (nil slice when absent); with FetchAll it holds
	// every match. Row order is unspecified unless q includes OrderBy.
	Retrieve(ctx context.Context, table Table, q Query, mode FetchMode) ([]Record, error)

	// Update applies values to every row matching q, after acquiring the
	// dialect's exclusive table lock. Fails with ErrEmptyUpdate when values
	// is empty.
	Update(ctx context.Context, table Table, q Query, values Record) error

	// Delete removes the rows matching q. When q.Columns is set, the
	// projected values of the removed rows are captured before deletion and
	// returned. With errorWhenEmpty, zero affected rows fail with
	// ErrNoRecordsAffected.
	Delete(ctx context.Context, table Table, q Query, errorWhenEmpty bool) ([]Record, error)

	// Exists reports whether at least one row matches q, without fetching
	// full rows.
	Exists(ctx context.Context, table Table, q Query) (bool, error)

	// Execute runs raw parameterized SQL. params binds named parameters
	// (referenced as @name in the statement); caller values are never
	// interpolated into the SQL text. With fetch the resulting rows are
	// returned, otherwise the statement is executed and committed.
	Execute(ctx context.Context, sql string, params map[string]interface{}, fetch bool) ([]Record, error)

	// Raw GORM access for advanced use cases.
	DB() *gorm.DB

	// Descriptor returns the canonical connection descriptor with the
	// password redacted.
	Descriptor() string

	// Error classification helpers, see errors.go.
	GetErrorCategory(err error) ErrorCategory
	IsRetryable(err error) bool
	IsTemporary(err error) bool
	IsCritical(err error) bool

	// Lifecycle management.
	GracefulShutdown() error
}
