package database

import (
	"sync"

	"github.com/Aleph-Alpha/rdb/v1/observability"
)

// testObserver is a mock observer for testing.
type testObserver struct {
	mu         sync.Mutex
	operations []observability.OperationContext
}

func (t *testObserver) ObserveOperation(ctx observability.OperationContext) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.operations = append(t.operations, ctx)
}

func (t *testObserver) GetOperations() []observability.OperationContext {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]observability.OperationContext, len(t.operations))
	copy(out, t.operations)
	return out
}
