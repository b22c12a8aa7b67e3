// Package health checks the pieces a probe process depends on: the log
// sink, its circuit breaker and the source files code introspection reads.
//
// A Checker reports a Result with one of three statuses. An Aggregator runs
// a set of checkers in parallel under one timeout and folds their results
// into an overall status:
//
//	agg := health.NewAggregator(health.AggregatorConfig{Timeout: time.Second})
//	agg.Register(health.NewSinkChecker(writer))
//	agg.Register(health.NewSourceChecker(coderender.Default()))
//
//	reports := agg.CheckAll(ctx)
//	if health.Overall(reports) == health.StatusUnhealthy {
//	    // the log cannot be written
//	}
//
// The probe CLI exposes the same checks as "probe doctor".
package health
