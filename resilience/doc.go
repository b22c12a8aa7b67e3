// Package resilience guards writes to an unreliable sink.
//
// Two patterns are provided and composed by Executor:
//
//   - Retry repeats an operation that failed with a transient error, with
//     exponential backoff. IsTransient recognizes the interrupted and
//     would-block system call errors that file opens can return.
//
//   - CircuitBreaker stops calling a sink after repeated failures and
//     rejects calls with ErrCircuitOpen until its reset timeout elapses,
//     then lets one probe through.
//
// The breaker wraps the retry, so one exhausted retry sequence counts as a
// single breaker failure:
//
//	exec := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{RetryIf: resilience.IsTransient})),
//	)
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return appendRecord(ctx)
//	})
package resilience
