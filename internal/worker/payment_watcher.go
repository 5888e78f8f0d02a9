package worker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/polkiloo/bookmart/internal/adapter/storefront"
	"github.com/polkiloo/bookmart/internal/domain/model"
)

// PaymentFacade exposes the subset of application functionality required by the watcher.
type PaymentFacade interface {
	PendingPayments(ctx context.Context, limit int) ([]model.PendingPayment, error)
	CheckPayment(ctx context.Context, p model.PendingPayment) (model.PaymentStatus, error)
	SettlePayment(ctx context.Context, p model.PendingPayment, status model.PaymentStatus) error
}

// PaymentWatcher polls pending online payments and settles them concurrently.
type PaymentWatcher struct {
	facade       PaymentFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.PendingPayment
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentWatcher constructs the watcher worker pool.
func NewPaymentWatcher(facade PaymentFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentWatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &PaymentWatcher{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.PendingPayment, batchSize*workers),
	}
}

// Start launches background polling. The watcher keeps running after ctx
// ends; Stop terminates it.
func (w *PaymentWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	w.cancel = cancel

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.worker(runCtx)
	}

	w.wg.Add(1)
	go w.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (w *PaymentWatcher) Stop() {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *PaymentWatcher) dispatch(ctx context.Context) {
	defer w.wg.Done()
	defer close(w.jobs)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.fetchAndDispatch(ctx)
		}
	}
}

func (w *PaymentWatcher) fetchAndDispatch(ctx context.Context) {
	payments, err := w.facade.PendingPayments(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("fetch pending payments failed", slog.String("error", err.Error()))
		return
	}
	for _, p := range payments {
		select {
		case <-ctx.Done():
			return
		case w.jobs <- p:
		}
	}
}

func (w *PaymentWatcher) worker(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-w.jobs:
			if !ok {
				return
			}
			w.handlePayment(ctx, p)
		}
	}
}

func (w *PaymentWatcher) handlePayment(ctx context.Context, p model.PendingPayment) {
	status, err := w.facade.CheckPayment(ctx, p)
	if err != nil {
		var apiErr *storefront.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusTooManyRequests || apiErr.Status == http.StatusServiceUnavailable) {
			w.logger.Warn("payment check throttled", slog.Int64("order_id", p.OrderID), slog.Int("status", apiErr.Status))
			w.sleep(ctx, w.pollInterval)
			return
		}
		w.logger.Error("payment check failed", slog.Int64("order_id", p.OrderID), slog.String("error", err.Error()))
		return
	}
	if !status.Resolved() {
		return
	}

	if err := w.facade.SettlePayment(ctx, p, status); err != nil {
		w.logger.Error("settle payment failed", slog.Int64("order_id", p.OrderID), slog.String("error", err.Error()))
	}
}

func (w *PaymentWatcher) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
