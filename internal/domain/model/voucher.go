package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is a promotional code owned by the remote catalog.
type Voucher struct {
	ID                int64
	Code              string
	DiscountAmount    decimal.Decimal
	IsPercentage      bool
	MinOrderValue     decimal.Decimal
	ExpiryDate        time.Time
	IsActive          bool
	ApplicableBookIDs []int64
}

// AppliesTo reports whether bookID is listed by the voucher.
func (v Voucher) AppliesTo(bookID int64) bool {
	for _, id := range v.ApplicableBookIDs {
		if id == bookID {
			return true
		}
	}
	return false
}

// BlockingReason explains why a voucher cannot be used on a cart.
type BlockingReason string

const (
	ReasonNone              BlockingReason = ""
	ReasonExpired           BlockingReason = "EXPIRED"
	ReasonInvalid           BlockingReason = "INVALID"
	ReasonInactive          BlockingReason = "INACTIVE"
	ReasonNoApplicableItems BlockingReason = "NO_APPLICABLE_ITEMS"
	ReasonBelowMinimum      BlockingReason = "BELOW_MINIMUM"
)

// Evaluation is the derived usability of one voucher against the current selection.
type Evaluation struct {
	Voucher       Voucher
	Usable        bool
	Reason        BlockingReason
	DiscountValue decimal.Decimal
	// Shortfall is the amount still missing to reach MinOrderValue.
	Shortfall decimal.Decimal
	Applied   bool
}

// VoucherTab selects which evaluations a voucher list shows.
type VoucherTab string

const (
	TabAll      VoucherTab = "all"
	TabUsable   VoucherTab = "usable"
	TabUnusable VoucherTab = "unusable"
)

// NewVoucher carries the fields a seller submits when creating a voucher.
type NewVoucher struct {
	Code           string
	DiscountAmount decimal.Decimal
	IsPercentage   bool
	MinOrderValue  decimal.Decimal
	ExpiryDate     time.Time
}

// VoucherList is the voucher picker content for the current selection.
type VoucherList struct {
	Evaluations []Evaluation
	Usable      int
	Unusable    int
	Best        *Voucher
}
