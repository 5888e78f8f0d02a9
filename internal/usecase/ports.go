package usecase

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

// SessionReader exposes the signed-in user.
type SessionReader interface {
	Current() model.Session
}

// SessionWriter changes the process-wide session.
type SessionWriter interface {
	SessionReader
	Set(ctx context.Context, session model.Session) error
	Clear(ctx context.Context, reason string) error
}

// AuthAPI is the remote authentication surface.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (model.Session, error)
	Logout(ctx context.Context) error
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ForgotPassword(ctx context.Context, email string) error
	Register(ctx context.Context, r model.Registration) error
	Customer(ctx context.Context, id int64) (model.Customer, error)
}

// CartAPI is the remote cart surface.
type CartAPI interface {
	Cart(ctx context.Context, userID int64) (model.Cart, error)
	AddToCart(ctx context.Context, userID, bookID int64, quantity int) error
	RemoveFromCart(ctx context.Context, userID, bookID int64) error
}

// VoucherAPI is the remote discount code surface.
type VoucherAPI interface {
	AvailableVouchers(ctx context.Context, userID int64, orderValue decimal.Decimal) ([]model.Voucher, error)
	Vouchers(ctx context.Context) ([]model.Voucher, error)
	RecordVoucherUsage(ctx context.Context, userID, voucherID int64) error
	CreateVoucher(ctx context.Context, v model.NewVoucher) (model.Voucher, error)
	AssignVoucherBooks(ctx context.Context, voucherID int64, bookIDs []int64) error
	DeleteVoucher(ctx context.Context, voucherID int64) error
}

// OrderAPI is the remote order surface.
type OrderAPI interface {
	CreateOrder(ctx context.Context, r model.OrderRequest) (model.Order, error)
	Orders(ctx context.Context, customerID int64) ([]model.Order, error)
	Order(ctx context.Context, id int64) (model.Order, error)
	CancelOrder(ctx context.Context, id int64) error
}

// PaymentAPI is the remote payment surface.
type PaymentAPI interface {
	CreateCODPayment(ctx context.Context, order model.Order, discount decimal.Decimal) (model.Payment, error)
	CreateMoMoPayment(ctx context.Context, order model.Order, discount decimal.Decimal, urls model.PaymentURLs) (model.Payment, error)
	MoMoCallback(ctx context.Context, params url.Values) error
	Payment(ctx context.Context, id int64) (model.Payment, error)
}

// PaymentStatusAPI looks up the remote state of a started payment.
type PaymentStatusAPI interface {
	Payment(ctx context.Context, id int64) (model.Payment, error)
	Order(ctx context.Context, id int64) (model.Order, error)
}

// CatalogAPI is the remote book and feedback surface.
type CatalogAPI interface {
	Books(ctx context.Context) ([]model.Book, error)
	Book(ctx context.Context, id int64) (model.Book, error)
	SearchBooks(ctx context.Context, query string) ([]model.Book, error)
	Reviews(ctx context.Context, bookID int64) ([]model.Review, error)
	CreateReview(ctx context.Context, r model.Review) (model.Review, error)
	AverageRating(ctx context.Context, bookID int64) (float64, error)
	UploadBookImage(ctx context.Context, bookID int64, filename, mimeType string, data []byte) error
}

// StorefrontAPI is everything the use cases need from the remote API.
type StorefrontAPI interface {
	AuthAPI
	CartAPI
	VoucherAPI
	OrderAPI
	PaymentAPI
	CatalogAPI
}
