package ports

import "context"

// CounterRepository issues strictly increasing values from named persisted
// counters.
type CounterRepository interface {
	// Next atomically increments the counter and returns the post-increment
	// value. The read-increment-return is a single indivisible operation at
	// the storage layer: concurrent callers always observe distinct values.
	// Returns domain.ErrCounterNotFound when the counter does not exist.
	// Next performs no internal retries; a successful call must not be
	// retried by the caller.
	Next(ctx context.Context, name string) (int64, error)
	// Ensure creates the counter with the given start value if it does not
	// exist yet. An existing counter is never reset.
	Ensure(ctx context.Context, name string, start int64) error
}
