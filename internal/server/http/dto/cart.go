package dto

import "github.com/shopspring/decimal"

// LineItemResponse is one book line of a cart, quote or order.
type LineItemResponse struct {
	BookID    int64           `json:"bookId"`
	Title     string          `json:"title,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// CartResponse is the cart of the signed-in user.
type CartResponse struct {
	ID         int64              `json:"id"`
	Items      []LineItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
}

// AddToCartRequest adds Quantity copies of a book.
type AddToCartRequest struct {
	BookID   int64 `json:"bookId"`
	Quantity int   `json:"quantity"`
}

// SelectionRequest lists the cart books chosen for checkout.
type SelectionRequest struct {
	BookIDs []int64 `json:"bookIds"`
}

// SelectionResponse is the persisted checkout draft.
type SelectionResponse struct {
	BookIDs          []int64 `json:"bookIds"`
	AppliedVoucherID *int64  `json:"appliedVoucherId,omitempty"`
}
