package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a CheckAll run when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// AggregatorConfig configures an Aggregator.
type AggregatorConfig struct {
	// Timeout bounds a whole CheckAll run.
	// Default: 5s
	Timeout time.Duration

	// Sequential runs the checkers one after another instead of in
	// parallel.
	Sequential bool
}

// Report pairs a checker name with its result.
type Report struct {
	Name   string
	Result Result
}

// Aggregator runs a set of checkers.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Ordering: reports come back in registration order.
type Aggregator struct {
	config AggregatorConfig

	mu       sync.RWMutex
	checkers []Checker
}

// NewAggregator creates an empty Aggregator.
func NewAggregator(config AggregatorConfig) *Aggregator {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Aggregator{config: config}
}

// Register adds c. Names must be unique.
func (a *Aggregator) Register(c Checker) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, existing := range a.checkers {
		if existing.Name() == c.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicateChecker, c.Name())
		}
	}
	a.checkers = append(a.checkers, c)
	return nil
}

// Names returns the registered checker names in order.
func (a *Aggregator) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, len(a.checkers))
	for i, c := range a.checkers {
		names[i] = c.Name()
	}
	return names
}

// CheckAll runs every checker and returns one report per checker.
func (a *Aggregator) CheckAll(ctx context.Context) []Report {
	a.mu.RLock()
	checkers := append([]Checker(nil), a.checkers...)
	a.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	reports := make([]Report, len(checkers))
	if a.config.Sequential {
		for i, c := range checkers {
			reports[i] = Report{Name: c.Name(), Result: run(ctx, c)}
		}
		return reports
	}

	var g errgroup.Group
	for i, c := range checkers {
		g.Go(func() error {
			reports[i] = Report{Name: c.Name(), Result: run(ctx, c)}
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

// Overall folds reports into one status: the worst one seen. No reports is
// healthy.
func Overall(reports []Report) Status {
	status := StatusHealthy
	for _, r := range reports {
		status = max(status, r.Result.Status)
	}
	return status
}

// run executes c, giving up when ctx ends. A checker that ignores ctx keeps
// running in the background; its result is dropped.
func run(ctx context.Context, c Checker) Result {
	start := time.Now()
	done := make(chan Result, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- Unhealthy("check panicked", fmt.Errorf("%w: %v", ErrCheckPanicked, p))
			}
		}()
		done <- c.Check(ctx)
	}()

	var result Result
	select {
	case result = <-done:
	case <-ctx.Done():
		result = Unhealthy("check timed out", ErrCheckTimeout)
	}
	result.Duration = time.Since(start)
	return result
}
