package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:      3,
		BaseDelay:        5 * time.Millisecond,
		MaxDelay:         20 * time.Millisecond,
		NotReadyInterval: 5 * time.Millisecond,
		NotReadyBudget:   50 * time.Millisecond,
	}
}

func TestRunWithRetry_Success(t *testing.T) {
	t.Parallel()
	attempts := 0
	outcome := RunWithRetry(context.Background(), fastRetryConfig(), func(context.Context) (*Result, error) {
		attempts++
		return &Result{Outputs: Outputs{"id": "x"}}, nil
	})

	if outcome.Err != nil {
		t.Errorf("Expected no error, got: %v", outcome.Err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got: %d", attempts)
	}
	if outcome.Result.Outputs["id"] != "x" {
		t.Errorf("Expected result outputs to be preserved")
	}
}

func TestRunWithRetry_TransientRecovers(t *testing.T) {
	t.Parallel()
	attempts := 0
	outcome := RunWithRetry(context.Background(), fastRetryConfig(), func(context.Context) (*Result, error) {
		attempts++
		if attempts < 3 {
			return nil, Classify(ClassTransient, errors.New("503"))
		}
		return &Result{}, nil
	})

	if outcome.Err != nil {
		t.Errorf("Expected recovery after retries, got: %v", outcome.Err)
	}
	if outcome.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got: %d", outcome.Attempts)
	}
}

func TestRunWithRetry_TransientExhaustsExactlyMaxAttempts(t *testing.T) {
	t.Parallel()
	attempts := 0
	cfg := fastRetryConfig()
	start := time.Now()
	outcome := RunWithRetry(context.Background(), cfg, func(context.Context) (*Result, error) {
		attempts++
		return nil, Classify(ClassTransient, errors.New("always 503"))
	})
	elapsed := time.Since(start)

	if outcome.Err == nil {
		t.Fatal("Expected error after exhaustion, got nil")
	}
	if attempts != cfg.MaxAttempts {
		t.Errorf("Expected exactly %d attempts, got: %d", cfg.MaxAttempts, attempts)
	}
	if outcome.LastClass != ClassTransient {
		t.Errorf("Expected last classification transient, got: %s", outcome.LastClass)
	}
	// Backoff envelope: base + 2*base sleeps for 3 attempts, plus slack.
	envelope := 10*cfg.BaseDelay + 100*time.Millisecond
	if elapsed > envelope {
		t.Errorf("Expected elapsed within %v, got: %v", envelope, elapsed)
	}
}

func TestRunWithRetry_FatalNotRetried(t *testing.T) {
	t.Parallel()
	attempts := 0
	outcome := RunWithRetry(context.Background(), fastRetryConfig(), func(context.Context) (*Result, error) {
		attempts++
		return nil, Classify(ClassFatal, errors.New("403 forbidden"))
	})

	if outcome.Err == nil {
		t.Fatal("Expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for fatal error, got: %d", attempts)
	}
}

func TestRunWithRetry_UnclassifiedNotRetried(t *testing.T) {
	t.Parallel()
	attempts := 0
	outcome := RunWithRetry(context.Background(), fastRetryConfig(), func(context.Context) (*Result, error) {
		attempts++
		return nil, errors.New("bare error")
	})

	if outcome.Err == nil {
		t.Fatal("Expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for unclassified error, got: %d", attempts)
	}
	if outcome.LastClass != ClassFatal {
		t.Errorf("Expected fatal classification, got: %s", outcome.LastClass)
	}
}

func TestRunWithRetry_NotReadyUsesSeparateBudget(t *testing.T) {
	t.Parallel()
	attempts := 0
	cfg := fastRetryConfig()
	cfg.MaxAttempts = 2 // NotReady must not be limited by the transient attempt cap
	outcome := RunWithRetry(context.Background(), cfg, func(context.Context) (*Result, error) {
		attempts++
		return nil, Classify(ClassNotReady, errors.New("capacity resuming"))
	})

	if outcome.Err == nil {
		t.Fatal("Expected error after budget exhaustion, got nil")
	}
	if attempts <= cfg.MaxAttempts {
		t.Errorf("Expected more than %d attempts under the not-ready budget, got: %d", cfg.MaxAttempts, attempts)
	}
	if outcome.LastClass != ClassNotReady {
		t.Errorf("Expected not-ready classification, got: %s", outcome.LastClass)
	}
}

func TestRunWithRetry_NotReadyThenSuccess(t *testing.T) {
	t.Parallel()
	attempts := 0
	outcome := RunWithRetry(context.Background(), fastRetryConfig(), func(context.Context) (*Result, error) {
		attempts++
		if attempts < 4 {
			return nil, Classify(ClassNotReady, errors.New("workspace not yet indexed"))
		}
		return &Result{}, nil
	})

	if outcome.Err != nil {
		t.Errorf("Expected recovery, got: %v", outcome.Err)
	}
	if outcome.Attempts != 4 {
		t.Errorf("Expected 4 attempts, got: %d", outcome.Attempts)
	}
}

func TestRunWithRetry_ContextCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	outcome := RunWithRetry(ctx, fastRetryConfig(), func(context.Context) (*Result, error) {
		attempts++
		return nil, Classify(ClassTransient, errors.New("boom"))
	})

	if outcome.Err == nil {
		t.Fatal("Expected error due to cancellation, got nil")
	}
	if !errors.Is(outcome.Err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", outcome.Err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt before cancellation check, got: %d", attempts)
	}
}

func TestRunWithRetry_OnRetryCallback(t *testing.T) {
	t.Parallel()
	var notified []Classification
	cfg := fastRetryConfig()
	cfg.OnRetry = func(attempt int, class Classification, err error) {
		notified = append(notified, class)
	}

	RunWithRetry(context.Background(), cfg, func(context.Context) (*Result, error) {
		return nil, Classify(ClassTransient, errors.New("boom"))
	})

	// MaxAttempts=3 means two retries were scheduled.
	if len(notified) != 2 {
		t.Errorf("Expected 2 retry notifications, got: %d", len(notified))
	}
}
