package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod selects how an order is paid.
type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentMoMo PaymentMethod = "MOMO"
)

// PaymentStatus is the remote status of a payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Resolved reports whether the payment reached a final status.
func (s PaymentStatus) Resolved() bool {
	return s == PaymentPaid || s == PaymentFailed
}

// ShippingInfo is the delivery contact entered at checkout.
type ShippingInfo struct {
	FullName string
	Phone    string
	Email    string
	Address  string
	Note     string
}

// OrderItemRequest is one line of an order submission.
type OrderItemRequest struct {
	BookID       int64
	Quantity     int
	DiscountCode string
}

// OrderRequest is submitted to the remote order endpoint.
type OrderRequest struct {
	CustomerID int64
	Items      []OrderItemRequest
	VoucherID  *int64
	Shipping   ShippingInfo
}

// Order is the confirmation returned by the remote API.
type Order struct {
	ID            int64
	CustomerID    int64
	Status        string
	TotalAmount   decimal.Decimal
	Items         []LineItem
	TransactionID string
	Paid          bool
	CreatedAt     time.Time
}

// Payment describes a payment created for an order.
type Payment struct {
	ID      int64
	OrderID int64
	Method  PaymentMethod
	Amount  decimal.Decimal
	Status  PaymentStatus
	PayURL  string
}

// PendingPayment is an online payment awaiting confirmation. PaymentID is zero
// when the gateway did not report one.
type PendingPayment struct {
	PaymentID int64
	OrderID   int64
	UserID    int64
	Method    PaymentMethod
	Status    PaymentStatus
	CreatedAt time.Time
}

// PaymentURLs are the browser return page and the gateway notification
// endpoint of an online payment.
type PaymentURLs struct {
	ReturnURL string
	NotifyURL string
}

// CheckoutResult is returned to the UI after a successful submission.
type CheckoutResult struct {
	Order   Order
	Payment Payment
}

// CallbackResult is what the payment return page shows.
type CallbackResult struct {
	OrderID int64
	Success bool
	Message string
}
