package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

// SettleCall stores information about SettlePayment invocations.
type SettleCall struct {
	OrderID int64
	Status  model.PaymentStatus
}

// PaymentFacadeStub mimics watcher interactions with the shell facade.
type PaymentFacadeStub struct {
	Batches   [][]model.PendingPayment
	PendingFn func(context.Context, int) ([]model.PendingPayment, error)
	CheckFn   func(context.Context, model.PendingPayment) (model.PaymentStatus, error)
	SettleFn  func(context.Context, model.PendingPayment, model.PaymentStatus) error
	Settled   []SettleCall
	mu        sync.Mutex
	calls     int32
	checks    int32
}

// Lock exposes internal mutex for external synchronization.
func (s *PaymentFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *PaymentFacadeStub) Unlock() { s.mu.Unlock() }

// PendingPayments returns batches from the configured queue.
func (s *PaymentFacadeStub) PendingPayments(ctx context.Context, limit int) ([]model.PendingPayment, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.calls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// CheckPayment returns the configured status, PAID by default.
func (s *PaymentFacadeStub) CheckPayment(ctx context.Context, p model.PendingPayment) (model.PaymentStatus, error) {
	atomic.AddInt32(&s.checks, 1)
	if s.CheckFn != nil {
		return s.CheckFn(ctx, p)
	}
	return model.PaymentPaid, nil
}

// Checks returns how many payments were checked.
func (s *PaymentFacadeStub) Checks() int {
	return int(atomic.LoadInt32(&s.checks))
}

// SettlePayment records settle requests.
func (s *PaymentFacadeStub) SettlePayment(ctx context.Context, p model.PendingPayment, status model.PaymentStatus) error {
	if s.SettleFn != nil {
		return s.SettleFn(ctx, p, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Settled = append(s.Settled, SettleCall{OrderID: p.OrderID, Status: status})
	return nil
}

// SettledCalls returns a copy of recorded settle calls.
func (s *PaymentFacadeStub) SettledCalls() []SettleCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SettleCall(nil), s.Settled...)
}
