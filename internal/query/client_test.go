package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/notify"
	"github.com/polkiloo/bookmart/internal/session"
	"github.com/polkiloo/bookmart/internal/test"
)

type cartView struct {
	ID    int64   `json:"id"`
	Items []int64 `json:"items"`
}

type fixture struct {
	client *Client
	cache  *MemoryCache
	store  *session.Store
	repo   *test.SessionRepositoryStub
	hub    *notify.Hub
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := testLogger()
	repo := &test.SessionRepositoryStub{}
	store := session.NewStore(repo, logger)
	require.NoError(t, store.Set(context.Background(), model.Session{Token: "token", Role: model.RoleCustomer, UserID: 42}))

	hub := notify.NewHub(logger)
	cache := NewMemoryCache()
	client := NewClient(cache, store, hub, logger, Options{TTL: time.Minute, Timeout: time.Second})
	t.Cleanup(client.Close)
	return &fixture{client: client, cache: cache, store: store, repo: repo, hub: hub}
}

func errorMessages(ns []notify.Notification) []string {
	var out []string
	for _, n := range ns {
		if n.Level == notify.LevelError {
			out = append(out, n.Message)
		}
	}
	return out
}

// blockingFetch counts calls and blocks until release is closed.
type blockingFetch struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingFetch() *blockingFetch {
	return &blockingFetch{started: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingFetch) wait(ctx context.Context) {
	b.calls.Add(1)
	b.once.Do(func() { close(b.started) })
	select {
	case <-b.release:
	case <-ctx.Done():
	}
}

func TestQueryConcurrentCallsShareOneFetch(t *testing.T) {
	f := newFixture(t)
	key := Key{"cart", "42"}
	fetch := newBlockingFetch()

	fetchCart := func(ctx context.Context) (cartView, error) {
		fetch.wait(ctx)
		return cartView{ID: 42, Items: []int64{1, 2}}, nil
	}

	results := make([]cartView, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = Query(context.Background(), f.client, key, fetchCart)
	}()
	<-fetch.started
	assert.True(t, f.client.Loading(key))

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = Query(context.Background(), f.client, key, fetchCart)
	}()
	time.Sleep(20 * time.Millisecond)
	close(fetch.release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), fetch.calls.Load())
	assert.Equal(t, results[0], results[1])
	assert.False(t, f.client.Loading(key))

	results[0].Items[0] = 99
	assert.Equal(t, int64(1), results[1].Items[0], "callers must not share decoded values")
}

func TestQueryServesFreshCacheAndRefetchesAfterTTL(t *testing.T) {
	f := newFixture(t)
	current := time.Now()
	f.cache.now = func() time.Time { return current }

	var calls atomic.Int32
	fetch := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	first, err := Query(context.Background(), f.client, Key{"books"}, fetch)
	require.NoError(t, err)
	second, err := Query(context.Background(), f.client, Key{"books"}, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)

	current = current.Add(time.Minute)
	third, err := Query(context.Background(), f.client, Key{"books"}, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, third)
}

func TestQueryUnauthorizedClearsSessionOnce(t *testing.T) {
	f := newFixture(t)
	fetch := newBlockingFetch()
	unauthorized := func(ctx context.Context) (cartView, error) {
		fetch.wait(ctx)
		return cartView{}, domainErrors.ErrUnauthorized
	}

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = Query(context.Background(), f.client, Key{"x"}, unauthorized)
		}(i)
	}
	<-fetch.started
	time.Sleep(20 * time.Millisecond)
	close(fetch.release)
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, domainErrors.ErrUnauthorized)
	}
	assert.False(t, f.store.Current().Active())
	assert.Equal(t, 1, f.repo.ClearCount())
	assert.Equal(t, []string{MessageSessionExpired}, errorMessages(f.hub.Drain()))
}

func TestQueryUnauthorizedAfterSessionChangeKeepsNewSession(t *testing.T) {
	f := newFixture(t)
	fetch := newBlockingFetch()

	done := make(chan error, 1)
	go func() {
		_, err := Query(context.Background(), f.client, Key{"x"}, func(ctx context.Context) (int, error) {
			fetch.wait(ctx)
			return 0, domainErrors.ErrUnauthorized
		})
		done <- err
	}()
	<-fetch.started

	require.NoError(t, f.store.Set(context.Background(), model.Session{Token: "fresh", Role: model.RoleCustomer, UserID: 42}))
	close(fetch.release)
	assert.ErrorIs(t, <-done, domainErrors.ErrUnauthorized)

	assert.Equal(t, "fresh", f.store.Current().Token)
	assert.Empty(t, errorMessages(f.hub.Drain()))
}

type apiFailure struct{ msg string }

func (e apiFailure) Error() string       { return "api: " + e.msg }
func (e apiFailure) UserMessage() string { return e.msg }

func TestQueryFailureNotifiesAndIsNotCached(t *testing.T) {
	f := newFixture(t)
	var calls atomic.Int32
	fetch := func(context.Context) (int, error) {
		calls.Add(1)
		return 0, apiFailure{msg: "Book is out of stock"}
	}

	_, err := Query(context.Background(), f.client, Key{"book", "1"}, fetch)
	require.Error(t, err)
	_, err = Query(context.Background(), f.client, Key{"book", "1"}, fetch)
	require.Error(t, err)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []string{"Book is out of stock", "Book is out of stock"}, errorMessages(f.hub.Drain()))
	assert.True(t, f.store.Current().Active())

	_, err = Query(context.Background(), f.client, Key{"book", "2"}, func(context.Context) (int, error) {
		return 0, errors.New("connection reset")
	})
	require.Error(t, err)
	assert.Equal(t, []string{MessageGenericFailure}, errorMessages(f.hub.Drain()))
}

func TestQueryCallerCancellationDoesNotCancelSharedFetch(t *testing.T) {
	f := newFixture(t)
	fetch := newBlockingFetch()
	load := func(ctx context.Context) (string, error) {
		fetch.wait(ctx)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "value", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancelled := make(chan error, 1)
	go func() {
		_, err := Query(ctx, f.client, Key{"slow"}, load)
		cancelled <- err
	}()
	<-fetch.started

	waiting := make(chan string, 1)
	go func() {
		v, _ := Query(context.Background(), f.client, Key{"slow"}, load)
		waiting <- v
	}()

	cancel()
	assert.ErrorIs(t, <-cancelled, context.Canceled)

	close(fetch.release)
	assert.Equal(t, "value", <-waiting)

	cached, err := Query(context.Background(), f.client, Key{"slow"}, func(context.Context) (string, error) {
		return "refetched", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "value", cached)
	assert.Empty(t, errorMessages(f.hub.Drain()))
}

func TestInvalidateDuringFlightSkipsStaleStore(t *testing.T) {
	f := newFixture(t)
	fetch := newBlockingFetch()

	done := make(chan string, 1)
	go func() {
		v, _ := Query(context.Background(), f.client, Key{"cart", "42"}, func(ctx context.Context) (string, error) {
			fetch.wait(ctx)
			return "before", nil
		})
		done <- v
	}()
	<-fetch.started

	require.NoError(t, f.client.Invalidate(context.Background(), Key{"cart"}))
	close(fetch.release)
	assert.Equal(t, "before", <-done)

	after, err := Query(context.Background(), f.client, Key{"cart", "42"}, func(context.Context) (string, error) {
		return "after", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after", after)
}

func TestInvalidateMatchesWholeSegments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, key := range []Key{{"cart", "4"}, {"cart", "42"}, {"orders", "4"}} {
		_, err := Query(ctx, f.client, key, func(context.Context) (string, error) { return "cached", nil })
		require.NoError(t, err)
	}

	require.NoError(t, f.client.Invalidate(ctx, Key{"cart", "4"}))

	_, ok, _ := f.cache.Get(ctx, Key{"cart", "4"}.encode())
	assert.False(t, ok)
	_, ok, _ = f.cache.Get(ctx, Key{"cart", "42"}.encode())
	assert.True(t, ok)
	_, ok, _ = f.cache.Get(ctx, Key{"orders", "4"}.encode())
	assert.True(t, ok)
}

func TestSessionClearEmptiesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := Query(ctx, f.client, Key{"cart", "42"}, func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	require.NoError(t, f.store.Clear(ctx, session.ReasonLogout))

	_, ok, _ := f.cache.Get(ctx, Key{"cart", "42"}.encode())
	assert.False(t, ok)
}

func TestKeyEncoding(t *testing.T) {
	assert.Equal(t, "cart/42/", Key{"cart", "42"}.encode())
	assert.Equal(t, "search/a%2Fb/", Key{"search", "a/b"}.encode())
	assert.Equal(t, "cart:42", Key{"cart", "42"}.String())
}

func TestPollExpiresSessionOnUnauthorized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	unauthorized := func(context.Context) (int, error) {
		return 0, domainErrors.ErrUnauthorized
	}

	_, err := Poll(ctx, f.client, unauthorized)
	require.ErrorIs(t, err, domainErrors.ErrUnauthorized)
	_, err = Poll(ctx, f.client, unauthorized)
	require.ErrorIs(t, err, domainErrors.ErrUnauthorized)

	assert.False(t, f.store.Current().Active())
	assert.Equal(t, []string{MessageSessionExpired}, errorMessages(f.hub.Drain()))
}

func TestPollDoesNotReportOtherFailures(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("gateway down")

	_, err := Poll(context.Background(), f.client, func(context.Context) (int, error) {
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	assert.True(t, f.store.Current().Active())
	assert.Empty(t, f.hub.Drain())
}

func TestPollDoesNotCache(t *testing.T) {
	f := newFixture(t)
	var calls atomic.Int32
	fetch := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	first, err := Poll(context.Background(), f.client, fetch)
	require.NoError(t, err)
	second, err := Poll(context.Background(), f.client, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}
