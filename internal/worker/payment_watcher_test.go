package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polkiloo/bookmart/internal/adapter/storefront"
	"github.com/polkiloo/bookmart/internal/domain/model"
	testhelpers "github.com/polkiloo/bookmart/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewPaymentWatcherDefaults(t *testing.T) {
	w := NewPaymentWatcher(&testhelpers.PaymentFacadeStub{}, 0, 0, 0, testLogger())
	if w.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", w.batchSize)
	}
	if w.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", w.workers)
	}
	if w.pollInterval != 5*time.Second {
		t.Fatalf("expected default poll interval, got %s", w.pollInterval)
	}
}

func TestPaymentWatcherSettlesResolvedPayments(t *testing.T) {
	facade := &testhelpers.PaymentFacadeStub{
		Batches: [][]model.PendingPayment{{{OrderID: 1}, {OrderID: 2}, {OrderID: 3}}},
		CheckFn: func(_ context.Context, p model.PendingPayment) (model.PaymentStatus, error) {
			switch p.OrderID {
			case 1:
				return model.PaymentPaid, nil
			case 2:
				return model.PaymentFailed, nil
			default:
				return model.PaymentPending, nil
			}
		},
	}
	w := NewPaymentWatcher(facade, 10*time.Millisecond, 3, 2, testLogger())
	w.Start(context.Background())

	waitFor(t, time.Second, func() bool { return facade.Checks() >= 3 && len(facade.SettledCalls()) >= 2 })
	w.Stop()

	settled := map[int64]model.PaymentStatus{}
	for _, c := range facade.SettledCalls() {
		settled[c.OrderID] = c.Status
	}
	if len(settled) != 2 || settled[1] != model.PaymentPaid || settled[2] != model.PaymentFailed {
		t.Fatalf("unexpected settled payments: %v", settled)
	}
}

func TestPaymentWatcherKeepsRunningAfterStartContextEnds(t *testing.T) {
	facade := &testhelpers.PaymentFacadeStub{Batches: [][]model.PendingPayment{{}, {{OrderID: 9}}}}
	w := NewPaymentWatcher(facade, 5*time.Millisecond, 1, 1, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()

	waitFor(t, time.Second, func() bool { return len(facade.SettledCalls()) == 1 })
	w.Stop()
}

func TestPaymentWatcherBacksOffWhenThrottled(t *testing.T) {
	var attempts int32
	facade := &testhelpers.PaymentFacadeStub{
		Batches: [][]model.PendingPayment{{{OrderID: 1}}, {{OrderID: 1}}},
		CheckFn: func(context.Context, model.PendingPayment) (model.PaymentStatus, error) {
			if atomic.AddInt32(&attempts, 1) == 1 {
				return "", &storefront.APIError{Status: http.StatusTooManyRequests}
			}
			return model.PaymentPaid, nil
		},
	}
	w := NewPaymentWatcher(facade, 5*time.Millisecond, 1, 1, testLogger())
	w.Start(context.Background())

	waitFor(t, time.Second, func() bool { return len(facade.SettledCalls()) > 0 })
	w.Stop()

	if atomic.LoadInt32(&attempts) < 2 {
		t.Fatalf("expected a retry after throttling, got %d attempts", attempts)
	}
}

func TestPaymentWatcherSurvivesErrors(t *testing.T) {
	var rounds int32
	facade := &testhelpers.PaymentFacadeStub{
		PendingFn: func(context.Context, int) ([]model.PendingPayment, error) {
			if atomic.AddInt32(&rounds, 1) == 1 {
				return nil, errors.New("db down")
			}
			return []model.PendingPayment{{OrderID: 4}}, nil
		},
		CheckFn: func(context.Context, model.PendingPayment) (model.PaymentStatus, error) {
			return model.PaymentPaid, nil
		},
		SettleFn: func(context.Context, model.PendingPayment, model.PaymentStatus) error {
			return errors.New("resolve failed")
		},
	}
	w := NewPaymentWatcher(facade, 5*time.Millisecond, 1, 1, testLogger())
	w.Start(context.Background())

	waitFor(t, time.Second, func() bool { return facade.Checks() >= 2 })
	w.Stop()
}

func TestPaymentWatcherStopWithoutStart(t *testing.T) {
	w := NewPaymentWatcher(&testhelpers.PaymentFacadeStub{}, time.Second, 1, 1, testLogger())
	w.Stop()
}
