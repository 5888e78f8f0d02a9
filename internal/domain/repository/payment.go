package repository

import (
	"context"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

// PendingPaymentRepository tracks online payments awaiting confirmation, one per order.
type PendingPaymentRepository interface {
	Add(ctx context.Context, payment model.PendingPayment) error
	// ClaimBatch returns up to limit pending payments not claimed by another worker.
	ClaimBatch(ctx context.Context, limit int) ([]model.PendingPayment, error)
	Resolve(ctx context.Context, orderID int64, status model.PaymentStatus) error
	ListByUser(ctx context.Context, userID int64) ([]model.PendingPayment, error)
}
