package orchestrator

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig bounds the retry behavior of a single step invocation.
// Transient failures back off exponentially up to MaxAttempts; not-ready
// failures poll at a fixed, longer interval against a separate time budget,
// since they signal an upstream resource that exists but has not become
// usable yet.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	NotReadyInterval time.Duration
	NotReadyBudget   time.Duration

	// OnRetry, when set, is called before each backoff sleep with the attempt
	// number just completed and the classified error that caused the retry.
	OnRetry func(attempt int, class Classification, err error)
}

// DefaultRetryConfig returns the retry bounds used when none are configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:      5,
		BaseDelay:        2 * time.Second,
		MaxDelay:         60 * time.Second,
		NotReadyInterval: 30 * time.Second,
		NotReadyBudget:   10 * time.Minute,
	}
}

// RetryOutcome summarizes how a retried invocation ended.
type RetryOutcome struct {
	Result   *Result
	Attempts int
	// LastClass is the classification of the final error, if any.
	LastClass Classification
	Err       error
}

// RunWithRetry invokes fn until it succeeds, fails fatally, or exhausts its
// budget. Conflict and not-found classifications are the idempotent step's
// responsibility and must be resolved before an error escapes fn; if one
// reaches this policy it is treated as fatal, since retrying cannot fix a
// broken step contract.
func RunWithRetry(ctx context.Context, cfg RetryConfig, fn func(context.Context) (*Result, error)) RetryOutcome {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var (
		attempts      int
		lastErr       error
		lastClass     Classification
		notReadySince time.Time
	)
	delay := cfg.BaseDelay

	for {
		attempts++
		result, err := fn(ctx)
		if err == nil {
			return RetryOutcome{Result: result, Attempts: attempts}
		}

		lastErr = err
		lastClass = ClassificationOf(err)

		var wait time.Duration
		switch lastClass {
		case ClassTransient:
			if attempts >= cfg.MaxAttempts {
				return RetryOutcome{
					Attempts:  attempts,
					LastClass: lastClass,
					Err:       fmt.Errorf("exhausted %d attempts: %w", attempts, lastErr),
				}
			}
			wait = delay
			delay *= 2
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

		case ClassNotReady:
			if notReadySince.IsZero() {
				notReadySince = time.Now()
			}
			if time.Since(notReadySince) >= cfg.NotReadyBudget {
				return RetryOutcome{
					Attempts:  attempts,
					LastClass: lastClass,
					Err:       fmt.Errorf("dependency not ready after %v: %w", cfg.NotReadyBudget, lastErr),
				}
			}
			wait = cfg.NotReadyInterval

		default:
			// Fatal, timeout, or a classification that should never have
			// escaped the step. Not retried.
			return RetryOutcome{Attempts: attempts, LastClass: lastClass, Err: lastErr}
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempts, lastClass, lastErr)
		}

		select {
		case <-ctx.Done():
			return RetryOutcome{
				Attempts:  attempts,
				LastClass: lastClass,
				Err:       fmt.Errorf("cancelled after %d attempts: %w", attempts, ctx.Err()),
			}
		case <-time.After(wait):
		}
	}
}
