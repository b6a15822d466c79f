package orchestrator

import (
	"context"
	"time"
)

// TerminalFunc decides whether an observed state ends a convergence poll.
// Returning done=true stops the poll successfully; returning an error stops
// it immediately (used for failure states like a capacity reporting
// "Failed", which further polling cannot repair).
type TerminalFunc func(state string) (done bool, err error)

// StateIn returns a TerminalFunc satisfied by any of the given states.
func StateIn(states ...string) TerminalFunc {
	return func(state string) (bool, error) {
		for _, s := range states {
			if state == s {
				return true, nil
			}
		}
		return false, nil
	}
}

// ObservedStatus wraps statusFn so every successfully observed state is
// emitted as a poll progress event. Status errors stay silent; the retry
// and failure paths report those.
func ObservedStatus(obs Observer, step string, statusFn func(context.Context) (string, error)) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		state, err := statusFn(ctx)
		if err == nil {
			obs.Event(Event{Type: EventPollProgress, Step: step, Message: state})
		}
		return state, err
	}
}

// PollUntil repeatedly calls statusFn until isTerminal accepts the observed
// state or timeout elapses. The state is checked immediately, then once per
// interval. On timeout the last observed state is returned with
// timedOut=true and no error: the owning step decides whether to proceed
// with a warning or fail, per its declared tolerance.
//
// Transient statusFn errors do not abort the poll; a long convergence wait
// should survive a rate-limit blip. Any other error classification aborts.
// Cancellation is honored at the next interval check.
func PollUntil(ctx context.Context, statusFn func(context.Context) (string, error), isTerminal TerminalFunc, interval, timeout time.Duration) (state string, timedOut bool, err error) {
	deadline := time.Now().Add(timeout)

	for {
		observed, err := statusFn(ctx)
		if err != nil {
			if !IsTransient(err) {
				return state, false, err
			}
		} else {
			state = observed
			done, err := isTerminal(state)
			if err != nil {
				return state, false, err
			}
			if done {
				return state, false, nil
			}
		}

		if time.Now().Add(interval).After(deadline) {
			return state, true, nil
		}

		select {
		case <-ctx.Done():
			return state, false, ctx.Err()
		case <-time.After(interval):
		}
	}
}
