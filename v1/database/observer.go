package database

import (
	"time"

	"github.com/Aleph-Alpha/rdb/v1/observability"
)

// observeOperation notifies the observer about an operation if one is
// configured. This is used internally to track database operations for
// metrics and tracing.
//
// Notes:
//   - resource: the table the operation targeted, empty for raw statements
//   - size: the number of rows the operation touched
func (d *Database) observeOperation(operation, resource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if d == nil || d.observer == nil {
		return
	}

	d.observer.ObserveOperation(observability.OperationContext{
		Component: "database",
		Operation: operation,
		Resource:  resource,
		Duration:  duration,
		Error:     err,
		Size:      size,
		Metadata:  metadata,
	})
}
