package handlers

import (
	"context"
	"io"
	"net/url"

	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/media"
	"github.com/polkiloo/bookmart/internal/notify"
	pkgAuth "github.com/polkiloo/bookmart/internal/pkg/auth"
)

// SessionFacade describes sign in, sign up and profile capabilities.
type SessionFacade interface {
	Login(ctx context.Context, username, password string) (model.Session, string, error)
	Logout(ctx context.Context) error
	CurrentSession() (model.Session, error)
	ParseToken(token string) (pkgAuth.Claims, error)
	Profile(ctx context.Context) (model.Customer, error)
	BeginRegistration(ctx context.Context, form model.Registration) error
	CompleteRegistration(ctx context.Context, email, otp string) error
	ForgotPassword(ctx context.Context, email string) error
}

// CatalogFacade provides books and reviews.
type CatalogFacade interface {
	Books(ctx context.Context) ([]model.PricedBook, error)
	Book(ctx context.Context, bookID int64) (model.PricedBook, error)
	SearchBooks(ctx context.Context, keyword string) ([]model.PricedBook, error)
	Reviews(ctx context.Context, bookID int64) ([]model.Review, error)
	AverageRating(ctx context.Context, bookID int64) (float64, error)
	AddReview(ctx context.Context, bookID int64, rating int, comment string) (model.Review, error)
}

// CartFacade manages the cart and the checkout selection.
type CartFacade interface {
	Cart(ctx context.Context) (model.Cart, error)
	AddToCart(ctx context.Context, bookID int64, quantity int) error
	RemoveFromCart(ctx context.Context, bookID int64) error
	SelectItems(ctx context.Context, bookIDs []int64) (model.CheckoutDraft, error)
	Selection(ctx context.Context) (model.CheckoutDraft, error)
}

// CheckoutFacade prices the selection and places orders.
type CheckoutFacade interface {
	Vouchers(ctx context.Context, tab model.VoucherTab, search string) (model.VoucherList, error)
	ApplyVoucher(ctx context.Context, voucherID int64) (model.Quote, error)
	ClearVoucher(ctx context.Context) error
	Quote(ctx context.Context) (model.Quote, error)
	Submit(ctx context.Context, shipping model.ShippingInfo, method model.PaymentMethod) (model.CheckoutResult, error)
	PaymentCallback(ctx context.Context, params url.Values) (model.CallbackResult, error)
}

// OrderFacade lists and cancels placed orders.
type OrderFacade interface {
	Orders(ctx context.Context) ([]model.Order, error)
	Order(ctx context.Context, orderID int64) (model.Order, error)
	CancelOrder(ctx context.Context, orderID int64) error
	TrackedPayments(ctx context.Context) ([]model.PendingPayment, error)
}

// SellerFacade manages vouchers and book covers.
type SellerFacade interface {
	SellerVouchers(ctx context.Context) ([]model.Voucher, error)
	CreateVoucher(ctx context.Context, v model.NewVoucher) (model.Voucher, error)
	AssignVoucherBooks(ctx context.Context, voucherID int64, bookIDs []int64) error
	DeleteVoucher(ctx context.Context, voucherID int64) error
	UploadBookImage(ctx context.Context, bookID int64, filename string, r io.Reader) (media.Image, error)
}

// NotificationFacade hands pending user messages to the UI.
type NotificationFacade interface {
	Notifications() []notify.Notification
}

// ShellFacade aggregates the full set of operations used across handlers.
type ShellFacade interface {
	SessionFacade
	CatalogFacade
	CartFacade
	CheckoutFacade
	OrderFacade
	SellerFacade
	NotificationFacade
}
