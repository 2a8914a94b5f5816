package sync

import "context"

// Gather fans out fn over n items concurrently and fans the results back in,
// in input order, with per-item error isolation. One item failing never
// aborts the rest; callers decide what to do with individual errors.
//
// Independent ledger reads are always issued this way rather than
// sequentially, to bound wall-clock latency by the slowest read instead of
// the sum.
func Gather[T any](ctx context.Context, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, []error) {
	values := make([]T, n)
	errs := make([]error, n)
	if n == 0 {
		return values, errs
	}

	done := make(chan int, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			values[i], errs[i] = fn(ctx, i)
			done <- i
		}(i)
	}
	for i := 0; i < n; i++ {
		<-done
	}
	return values, errs
}
