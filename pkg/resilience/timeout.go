// SPDX-License-Identifier: Apache-2.0
// Package resilience provides the timeout boundary applied to blocking
// collaborator calls (model generation, context lookups).
package resilience

import (
	"context"
	"time"

	"github.com/jllopis/agentlink/pkg/errors"
)

// WithTimeout executes fn under a deadline. A zero duration disables the
// boundary. On expiry the in-flight call is abandoned (nothing beyond the
// context signals the collaborator) and an error with the supplied code is
// returned.
func WithTimeout[T any](ctx context.Context, duration time.Duration, code errors.ErrorCode, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if duration == 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := fn(ctx)
		done <- result{value, err}
	}()

	select {
	case <-ctx.Done():
		return zero, errors.New(code, "operation exceeded timeout", ctx.Err()).
			WithContext("timeout", duration.String()).
			WithRecoverable(true)
	case res := <-done:
		return res.value, res.err
	}
}
