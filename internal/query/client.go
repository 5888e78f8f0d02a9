// Package query is the read/write façade over the remote storefront API. Reads
// are cached by key and de-duplicated while in flight; failures become user
// notifications; an unauthorized response ends the session once.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
)

const (
	DefaultTTL     = 5 * time.Minute
	DefaultTimeout = 10 * time.Second

	MessageSessionExpired = "Your session has expired. Please sign in again."
	MessageGenericFailure = "Something went wrong. Please try again."
)

// SessionStore is the part of the session the façade reacts to.
type SessionStore interface {
	Snapshot() (model.Session, uint64)
	Expire(ctx context.Context, generation uint64) bool
	Subscribe(fn func(model.SessionEvent)) func()
}

// Notifier shows one-line messages to the user.
type Notifier interface {
	Error(message string)
	Success(message string)
}

// UserMessager is implemented by errors that carry a message fit for the user.
type UserMessager interface {
	UserMessage() string
}

// Options tunes freshness and the timeout of a shared fetch.
type Options struct {
	TTL     time.Duration
	Timeout time.Duration
}

type flight struct {
	stale bool
}

// Client owns the read cache and the in-flight reads.
type Client struct {
	cache    Cache
	session  SessionStore
	notifier Notifier
	logger   *slog.Logger
	ttl      time.Duration
	timeout  time.Duration

	group singleflight.Group

	mu       sync.Mutex
	inflight map[string]*flight

	unsubscribe func()
}

// NewClient builds the façade and clears its cache whenever the session ends.
func NewClient(cache Cache, session SessionStore, notifier Notifier, logger *slog.Logger, opts Options) *Client {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	c := &Client{
		cache:    cache,
		session:  session,
		notifier: notifier,
		logger:   logger,
		ttl:      opts.TTL,
		timeout:  opts.Timeout,
		inflight: make(map[string]*flight),
	}
	c.unsubscribe = session.Subscribe(func(e model.SessionEvent) {
		if e.Kind != model.SessionCleared {
			return
		}
		if err := c.InvalidateAll(context.Background()); err != nil {
			c.logger.Error("clear query cache failed", slog.String("error", err.Error()))
		}
	})
	return c
}

// Close detaches the client from the session store.
func (c *Client) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Query returns the cached value of key while fresh, otherwise fetches it.
// Concurrent calls for the same key share one fetch. A caller whose ctx ends
// gets ctx.Err() while the shared fetch goes on for the others.
func Query[T any](ctx context.Context, c *Client, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	encoded := key.encode()

	if raw, ok := c.lookup(ctx, encoded); ok {
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			return value, nil
		}
		c.logger.Warn("dropping undecodable cache entry", slog.String("key", key.String()))
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(encoded, func() (any, error) {
		return c.run(detached, key, encoded, func(ctx context.Context) ([]byte, error) {
			value, err := fetch(ctx)
			if err != nil {
				return nil, err
			}
			return json.Marshal(value)
		})
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		var value T
		if err := json.Unmarshal(res.Val.([]byte), &value); err != nil {
			return zero, fmt.Errorf("decode %s: %w", key, err)
		}
		return value, nil
	}
}

// Poll runs a background read such as a status check. The result is neither
// cached nor shared. Only an unauthorized failure reaches the user, so a
// failing poll does not notify on every round.
func Poll[T any](ctx context.Context, c *Client, fetch func(ctx context.Context) (T, error)) (T, error) {
	_, generation := c.session.Snapshot()
	value, err := fetch(ctx)
	if err != nil && errors.Is(err, domainErrors.ErrUnauthorized) {
		c.fail(context.WithoutCancel(ctx), generation, err)
	}
	return value, err
}

func (c *Client) run(parent context.Context, key Key, encoded string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	if raw, ok := c.lookup(parent, encoded); ok {
		return raw, nil
	}

	_, generation := c.session.Snapshot()
	f := c.begin(encoded)
	defer c.end(encoded, f)

	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	raw, err := fetch(ctx)
	if err != nil {
		c.logger.Warn("query failed", slog.String("key", key.String()), slog.String("error", err.Error()))
		c.fail(parent, generation, err)
		return nil, err
	}

	c.mu.Lock()
	if !f.stale {
		if err := c.cache.Set(parent, encoded, raw, c.ttl); err != nil {
			c.logger.Error("cache store failed", slog.String("key", key.String()), slog.String("error", err.Error()))
		}
	}
	c.mu.Unlock()
	return raw, nil
}

func (c *Client) lookup(ctx context.Context, encoded string) ([]byte, bool) {
	raw, ok, err := c.cache.Get(ctx, encoded)
	if err != nil {
		c.logger.Error("cache lookup failed", slog.String("error", err.Error()))
		return nil, false
	}
	return raw, ok
}

func (c *Client) begin(encoded string) *flight {
	f := &flight{}
	c.mu.Lock()
	c.inflight[encoded] = f
	c.mu.Unlock()
	return f
}

func (c *Client) end(encoded string, f *flight) {
	c.mu.Lock()
	if c.inflight[encoded] == f {
		delete(c.inflight, encoded)
	}
	c.mu.Unlock()
}

// Loading reports whether a fetch for key is in flight.
func (c *Client) Loading(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[key.encode()]
	return ok
}

// fail turns err into at most one notification. generation is the session
// state observed when the failed request started.
func (c *Client) fail(ctx context.Context, generation uint64, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrUnauthorized):
		if c.session.Expire(ctx, generation) {
			c.notifier.Error(MessageSessionExpired)
		}
	case errors.Is(err, domainErrors.ErrValidation), errors.Is(err, context.Canceled):
	default:
		c.notifier.Error(userMessage(err))
	}
}

func userMessage(err error) string {
	var m UserMessager
	if errors.As(err, &m) {
		if msg := strings.TrimSpace(m.UserMessage()); msg != "" {
			return msg
		}
	}
	return MessageGenericFailure
}

// Invalidate drops every cached read under the given prefixes. Reads already
// in flight for those keys still answer their callers but are not cached.
func (c *Client) Invalidate(ctx context.Context, prefixes ...Key) error {
	var errs []error
	for _, prefix := range prefixes {
		encoded := prefix.encode()

		c.mu.Lock()
		for key, f := range c.inflight {
			if strings.HasPrefix(key, encoded) {
				f.stale = true
				c.group.Forget(key)
			}
		}
		c.mu.Unlock()

		if err := c.cache.DeletePrefix(ctx, encoded); err != nil {
			errs = append(errs, fmt.Errorf("invalidate %s: %w", prefix, err))
		}
	}
	return errors.Join(errs...)
}

// InvalidateAll empties the cache.
func (c *Client) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	for key, f := range c.inflight {
		f.stale = true
		c.group.Forget(key)
	}
	c.mu.Unlock()
	return c.cache.Clear(ctx)
}
