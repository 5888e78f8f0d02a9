package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookResponse is a catalog entry with its best voucher price.
type BookResponse struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Author          string          `json:"author"`
	Category        string          `json:"category,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
	Saved           decimal.Decimal `json:"saved"`
	VoucherCode     string          `json:"voucherCode,omitempty"`
	Stock           int             `json:"stock"`
	ImageURL        string          `json:"imageUrl,omitempty"`
}

// ReviewRequest is a new review of a book.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewResponse is a review of a book.
type ReviewResponse struct {
	ID         int64     `json:"id"`
	BookID     int64     `json:"bookId"`
	CustomerID int64     `json:"customerId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RatingResponse is the average rating of a book.
type RatingResponse struct {
	BookID  int64   `json:"bookId"`
	Average float64 `json:"average"`
}

// ImageResponse echoes an uploaded image for preview.
type ImageResponse struct {
	MIME    string `json:"mime"`
	Size    int    `json:"size"`
	DataURL string `json:"dataUrl"`
}
