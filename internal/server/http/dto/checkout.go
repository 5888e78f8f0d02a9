package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherResponse is a discount code.
type VoucherResponse struct {
	ID                int64           `json:"id"`
	Code              string          `json:"code"`
	DiscountAmount    decimal.Decimal `json:"discountAmount"`
	IsPercentage      bool            `json:"isPercentage"`
	MinOrderValue     decimal.Decimal `json:"minOrderValue"`
	ExpiryDate        time.Time       `json:"expiryDate"`
	IsActive          bool            `json:"isActive"`
	ApplicableBookIDs []int64         `json:"applicableBookIds"`
}

// EvaluationResponse is a voucher with its usability for the selection.
type EvaluationResponse struct {
	Voucher       VoucherResponse `json:"voucher"`
	Usable        bool            `json:"usable"`
	Reason        string          `json:"reason,omitempty"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	Shortfall     decimal.Decimal `json:"shortfall"`
	Applied       bool            `json:"applied"`
}

// VoucherListResponse is the voucher picker content.
type VoucherListResponse struct {
	Vouchers []EvaluationResponse `json:"vouchers"`
	Usable   int                  `json:"usable"`
	Unusable int                  `json:"unusable"`
	BestID   *int64               `json:"bestId,omitempty"`
}

// ApplyVoucherRequest selects the voucher to apply.
type ApplyVoucherRequest struct {
	VoucherID int64 `json:"voucherId"`
}

// QuoteResponse is the priced selection.
type QuoteResponse struct {
	Items     []LineItemResponse `json:"items"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Discount  decimal.Decimal    `json:"discount"`
	Payable   decimal.Decimal    `json:"payable"`
	Voucher   *VoucherResponse   `json:"voucher,omitempty"`
	ItemSaved decimal.Decimal    `json:"itemSaved"`
}

// SubmitRequest places the order of the selection.
type SubmitRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Note     string `json:"note"`
	Method   string `json:"paymentMethod"`
}

// OrderResponse is a placed order.
type OrderResponse struct {
	ID            int64              `json:"id"`
	Status        string             `json:"status"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	Items         []LineItemResponse `json:"items,omitempty"`
	TransactionID string             `json:"transactionId,omitempty"`
	Paid          bool               `json:"paid"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// PaymentResponse is the payment started for an order.
type PaymentResponse struct {
	ID     int64           `json:"id,omitempty"`
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
	PayURL string          `json:"payUrl,omitempty"`
}

// CheckoutResponse is returned by a successful submission.
type CheckoutResponse struct {
	Order   OrderResponse   `json:"order"`
	Payment PaymentResponse `json:"payment"`
}

// CallbackResponse is shown on the payment return page.
type CallbackResponse struct {
	OrderID int64  `json:"orderId"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TrackedPaymentResponse is an online payment followed by the shell.
type TrackedPaymentResponse struct {
	OrderID   int64     `json:"orderId"`
	PaymentID int64     `json:"paymentId,omitempty"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
