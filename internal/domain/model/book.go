package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book is a catalog entry listed by a seller.
type Book struct {
	ID       int64
	Title    string
	Author   string
	Category string
	Price    decimal.Decimal
	Stock    int
	ImageURL string
	SellerID int64
}

// PricedBook is a book with the best voucher price a customer would see.
type PricedBook struct {
	Book            Book
	DiscountedPrice decimal.Decimal
	Saved           decimal.Decimal
	Voucher         *Voucher
}

// Review is customer feedback left on a book.
type Review struct {
	ID         int64
	BookID     int64
	CustomerID int64
	Rating     int
	Comment    string
	CreatedAt  time.Time
}
