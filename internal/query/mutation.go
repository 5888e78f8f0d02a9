package query

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type mutationConfig struct {
	invalidates []Key
	success     string
}

// MutationOption configures a Mutation.
type MutationOption func(*mutationConfig)

// Invalidates declares the reads a successful mutation makes stale.
func Invalidates(keys ...Key) MutationOption {
	return func(cfg *mutationConfig) {
		cfg.invalidates = append(cfg.invalidates, keys...)
	}
}

// WithSuccessMessage shows message after a successful run.
func WithSuccessMessage(message string) MutationOption {
	return func(cfg *mutationConfig) {
		cfg.success = message
	}
}

// Mutation is a write against the remote API.
type Mutation[In, Out any] struct {
	client  *Client
	fn      func(context.Context, In) (Out, error)
	cfg     mutationConfig
	pending atomic.Int32
}

// NewMutation wraps fn with the façade error handling and invalidation.
func NewMutation[In, Out any](c *Client, fn func(context.Context, In) (Out, error), opts ...MutationOption) *Mutation[In, Out] {
	m := &Mutation[In, Out]{client: c, fn: fn}
	for _, opt := range opts {
		opt(&m.cfg)
	}
	return m
}

// Run executes the mutation. On failure the error is reported like a failed
// read and returned; on success the declared keys are invalidated.
func (m *Mutation[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	m.pending.Add(1)
	defer m.pending.Add(-1)

	_, generation := m.client.session.Snapshot()
	out, err := m.fn(ctx, in)
	if err != nil {
		m.client.fail(context.WithoutCancel(ctx), generation, err)
		var zero Out
		return zero, err
	}

	if len(m.cfg.invalidates) > 0 {
		if err := m.client.Invalidate(context.WithoutCancel(ctx), m.cfg.invalidates...); err != nil {
			m.client.logger.Error("invalidate after mutation failed", slog.String("error", err.Error()))
		}
	}
	if m.cfg.success != "" {
		m.client.notifier.Success(m.cfg.success)
	}
	return out, nil
}

// Pending reports whether a run is in progress.
func (m *Mutation[In, Out]) Pending() bool {
	return m.pending.Load() > 0
}
