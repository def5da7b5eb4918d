package observability

import "time"

// OperationContext describes a single completed client operation.
// It is passed by value to observers and must not be retained mutably.
type OperationContext struct {
	// Component identifies the client that performed the operation,
	// for example "database".
	Component string

	// Operation is the name of the operation, for example "create",
	// "retrieve" or "execute".
	Operation string

	// Resource is the primary resource the operation touched, such as a
	// table name. May be empty for operations without a single resource.
	Resource string

	// SubResource carries additional context like a column name or a raw
	// statement verb. Usually empty.
	SubResource string

	// Duration is how long the operation took, including any transaction
	// commit or rollback.
	Duration time.Duration

	// Error is the error the operation returned, or nil on success.
	Error error

	// Size is an operation-specific magnitude, such as the number of rows
	// written, read or deleted.
	Size int64

	// Metadata holds optional extra attributes. May be nil.
	Metadata map[string]interface{}
}

// Observer receives completed operations from instrumented clients.
//
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// MultiObserver fans every operation out to a list of observers, in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver returns an observer that forwards each operation to all
// of the given observers. Nil entries are skipped.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	return &MultiObserver{observers: filtered}
}

// ObserveOperation forwards the operation to every registered observer.
func (m *MultiObserver) ObserveOperation(ctx OperationContext) {
	for _, o := range m.observers {
		o.ObserveOperation(ctx)
	}
}
