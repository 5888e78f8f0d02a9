package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutDraft keeps the selection and applied voucher between checkout steps.
type CheckoutDraft struct {
	UserID           int64
	SelectedBookIDs  []int64
	AppliedVoucherID *int64
	UpdatedAt        time.Time
}

// Quote is the priced view of the current draft.
type Quote struct {
	Items    []LineItem
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Payable  decimal.Decimal
	Voucher  *Voucher
	// ItemSaved is what the voucher saves when priced book by book, as the
	// cart shows it next to each title.
	ItemSaved decimal.Decimal
}
