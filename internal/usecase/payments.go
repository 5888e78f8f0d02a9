package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/domain/repository"
	"github.com/polkiloo/bookmart/internal/query"
)

// PaymentNotifier tells the user how a tracked payment ended.
type PaymentNotifier interface {
	Success(message string)
	Error(message string)
}

// PaymentTracker follows online payments that were still pending when the
// order was submitted.
type PaymentTracker struct {
	api      PaymentStatusAPI
	sessions SessionReader
	payments repository.PendingPaymentRepository
	queries  *query.Client
	notifier PaymentNotifier
	logger   *slog.Logger
}

// NewPaymentTracker constructs PaymentTracker.
func NewPaymentTracker(
	api PaymentStatusAPI,
	sessions SessionReader,
	payments repository.PendingPaymentRepository,
	queries *query.Client,
	notifier PaymentNotifier,
	logger *slog.Logger,
) *PaymentTracker {
	return &PaymentTracker{
		api:      api,
		sessions: sessions,
		payments: payments,
		queries:  queries,
		notifier: notifier,
		logger:   logger,
	}
}

// Claim takes up to limit pending payments for one polling round.
func (t *PaymentTracker) Claim(ctx context.Context, limit int) ([]model.PendingPayment, error) {
	return t.payments.ClaimBatch(ctx, limit)
}

// Check asks the remote API for the current status of p. Payments of a user
// other than the signed-in one stay pending since the API would refuse the
// request.
func (t *PaymentTracker) Check(ctx context.Context, p model.PendingPayment) (model.PaymentStatus, error) {
	s := t.sessions.Current()
	if !s.Active() || s.UserID != p.UserID {
		return model.PaymentPending, nil
	}

	if p.PaymentID != 0 {
		payment, err := query.Poll(ctx, t.queries, func(ctx context.Context) (model.Payment, error) {
			return t.api.Payment(ctx, p.PaymentID)
		})
		if err != nil {
			return "", fmt.Errorf("payment %d: %w", p.PaymentID, err)
		}
		return normalizeStatus(payment.Status), nil
	}

	order, err := query.Poll(ctx, t.queries, func(ctx context.Context) (model.Order, error) {
		return t.api.Order(ctx, p.OrderID)
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return model.PaymentFailed, nil
		}
		return "", fmt.Errorf("order %d: %w", p.OrderID, err)
	}
	return orderPaymentStatus(order), nil
}

func normalizeStatus(status model.PaymentStatus) model.PaymentStatus {
	switch strings.ToUpper(string(status)) {
	case "PAID", "SUCCESS", "COMPLETED":
		return model.PaymentPaid
	case "FAILED", "CANCELLED", "CANCELED", "EXPIRED":
		return model.PaymentFailed
	default:
		return model.PaymentPending
	}
}

func orderPaymentStatus(o model.Order) model.PaymentStatus {
	if o.Paid {
		return model.PaymentPaid
	}
	switch strings.ToUpper(o.Status) {
	case "CANCELLED", "CANCELED", "FAILED":
		return model.PaymentFailed
	default:
		return model.PaymentPending
	}
}

// Settle records the final status of p, refreshes the orders and tells the
// user. A still pending status is left for the next round.
func (t *PaymentTracker) Settle(ctx context.Context, p model.PendingPayment, status model.PaymentStatus) error {
	if !status.Resolved() {
		return nil
	}
	if err := t.payments.Resolve(ctx, p.OrderID, status); err != nil {
		return fmt.Errorf("resolve payment of order %d: %w", p.OrderID, err)
	}
	if err := t.queries.Invalidate(ctx, OrdersPrefix); err != nil {
		t.logger.Warn("invalidate orders failed", slog.Int64("order_id", p.OrderID), slog.String("error", err.Error()))
	}

	if status == model.PaymentPaid {
		t.notifier.Success(fmt.Sprintf("Payment for order #%d received", p.OrderID))
	} else {
		t.notifier.Error(fmt.Sprintf("Payment for order #%d failed", p.OrderID))
	}
	t.logger.Info("payment settled",
		slog.Int64("order_id", p.OrderID),
		slog.String("status", string(status)),
	)
	return nil
}

// Pending lists the tracked payments of the signed-in user, newest first.
func (t *PaymentTracker) Pending(ctx context.Context) ([]model.PendingPayment, error) {
	s := t.sessions.Current()
	if !s.Active() {
		return nil, domainErrors.ErrNoSession
	}
	return t.payments.ListByUser(ctx, s.UserID)
}
