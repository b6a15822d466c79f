package orchestrator

import (
	"context"
	"fmt"
)

// Ensure implements the idempotent get-or-create contract shared by every
// provisioning step:
//
//  1. Look the resource up by its natural key (exact match).
//  2. If found, return it without mutating anything.
//  3. If absent, create it.
//  4. If creation reports a conflict (a create race, or a duplicate name),
//     re-query and return the winner. "Already exists" is never a failure.
//
// get must return a not-found classified error when the resource is absent.
// Any other classification from get or create is returned unchanged for the
// retry policy to interpret.
func Ensure[T any](ctx context.Context, get func(context.Context) (T, error), create func(context.Context) (T, error)) (resource T, existing bool, err error) {
	var zero T

	resource, err = get(ctx)
	if err == nil {
		return resource, true, nil
	}
	if !IsNotFound(err) {
		return zero, false, err
	}

	resource, err = create(ctx)
	if err == nil {
		return resource, false, nil
	}
	if !IsConflict(err) {
		return zero, false, err
	}

	// Lost a create race. The resource exists now; re-query for its
	// identifiers.
	resource, err = get(ctx)
	if err != nil {
		return zero, false, fmt.Errorf("re-query after create conflict: %w", err)
	}
	return resource, true, nil
}
