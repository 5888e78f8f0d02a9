package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewVoucherRequest creates a voucher.
type NewVoucherRequest struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	IsPercentage   bool            `json:"isPercentage"`
	MinOrderValue  decimal.Decimal `json:"minOrderValue"`
	ExpiryDate     time.Time       `json:"expiryDate"`
}

// AssignBooksRequest lists the books a voucher applies to.
type AssignBooksRequest struct {
	BookIDs []int64 `json:"bookIds"`
}
