package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrPanic wraps a panic recovered from a task.
var ErrPanic = errors.New("task panicked")

// RetryConfig holds options for retry logic.
type RetryConfig struct {
	Attempts       int           // number of attempts, including the first one
	InitialBackoff time.Duration // backoff before the second attempt, doubled after each failure
}

// Retry calls fn up to cfg.Attempts times with exponential backoff.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}
	backoff := cfg.InitialBackoff
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if attempt == cfg.Attempts {
			return err
		}
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// StartWorkerPool runs workerCount goroutines which process tasks from tasks
// until the channel is closed or ctx is cancelled. A panicking task is turned
// into an error wrapping ErrPanic and the worker keeps going.
// The first error returned by any task is returned once all workers exit.
func StartWorkerPool[T any](
	ctx context.Context,
	tasks <-chan T,
	workerCount int,
	fn func(ctx context.Context, task T) error,
) error {
	if workerCount <= 0 {
		workerCount = 1
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task, ok := <-tasks:
					if !ok {
						return
					}
					if err := safeCall(ctx, task, fn); err != nil {
						// Keep only the first error.
						select {
						case errCh <- err:
						default:
						}
					}
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)

	return <-errCh
}

func safeCall[T any](ctx context.Context, task T, fn func(ctx context.Context, task T) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(ctx, task)
}
