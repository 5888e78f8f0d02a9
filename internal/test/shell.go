package test

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/media"
	"github.com/polkiloo/bookmart/internal/notify"
	pkgAuth "github.com/polkiloo/bookmart/internal/pkg/auth"
)

// SessionFacadeStub provides controllable behaviour for session endpoints.
type SessionFacadeStub struct {
	LoginFn    func(context.Context, string, string) (model.Session, string, error)
	LogoutFn   func(context.Context) error
	Session    model.Session
	SessionErr error
	ParseFn    func(string) (pkgAuth.Claims, error)
	ProfileFn  func(context.Context) (model.Customer, error)
	BeginFn    func(context.Context, model.Registration) error
	CompleteFn func(context.Context, string, string) error
	ForgotFn   func(context.Context, string) error
}

// Login delegates to LoginFn or signs in user 1 as a customer.
func (s SessionFacadeStub) Login(ctx context.Context, username, password string) (model.Session, string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, username, password)
	}
	return model.Session{Token: "api-token", Role: model.RoleCustomer, UserID: 1}, "shell-token", nil
}

func (s SessionFacadeStub) Logout(ctx context.Context) error {
	if s.LogoutFn != nil {
		return s.LogoutFn(ctx)
	}
	return nil
}

// CurrentSession returns Session, or SessionErr when set.
func (s SessionFacadeStub) CurrentSession() (model.Session, error) {
	if s.SessionErr != nil {
		return model.Session{}, s.SessionErr
	}
	return s.Session, nil
}

// ParseToken delegates to ParseFn or accepts any token for Session.
func (s SessionFacadeStub) ParseToken(token string) (pkgAuth.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return pkgAuth.Claims{UserID: s.Session.UserID, Role: string(s.Session.Role)}, nil
}

func (s SessionFacadeStub) Profile(ctx context.Context) (model.Customer, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx)
	}
	return model.Customer{ID: s.Session.UserID, Username: "reader"}, nil
}

func (s SessionFacadeStub) BeginRegistration(ctx context.Context, form model.Registration) error {
	if s.BeginFn != nil {
		return s.BeginFn(ctx, form)
	}
	return nil
}

func (s SessionFacadeStub) CompleteRegistration(ctx context.Context, email, otp string) error {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, email, otp)
	}
	return nil
}

func (s SessionFacadeStub) ForgotPassword(ctx context.Context, email string) error {
	if s.ForgotFn != nil {
		return s.ForgotFn(ctx, email)
	}
	return nil
}

// CatalogFacadeStub simulates the catalog.
type CatalogFacadeStub struct {
	BooksFn     func(context.Context) ([]model.PricedBook, error)
	BookFn      func(context.Context, int64) (model.PricedBook, error)
	SearchFn    func(context.Context, string) ([]model.PricedBook, error)
	ReviewsFn   func(context.Context, int64) ([]model.Review, error)
	RatingFn    func(context.Context, int64) (float64, error)
	AddReviewFn func(context.Context, int64, int, string) (model.Review, error)
}

// Books returns BooksFn result or a single priced book.
func (s CatalogFacadeStub) Books(ctx context.Context) ([]model.PricedBook, error) {
	if s.BooksFn != nil {
		return s.BooksFn(ctx)
	}
	return []model.PricedBook{samplePricedBook(1)}, nil
}

func (s CatalogFacadeStub) Book(ctx context.Context, bookID int64) (model.PricedBook, error) {
	if s.BookFn != nil {
		return s.BookFn(ctx, bookID)
	}
	return samplePricedBook(bookID), nil
}

func (s CatalogFacadeStub) SearchBooks(ctx context.Context, keyword string) ([]model.PricedBook, error) {
	if s.SearchFn != nil {
		return s.SearchFn(ctx, keyword)
	}
	return nil, nil
}

func (s CatalogFacadeStub) Reviews(ctx context.Context, bookID int64) ([]model.Review, error) {
	if s.ReviewsFn != nil {
		return s.ReviewsFn(ctx, bookID)
	}
	return nil, nil
}

func (s CatalogFacadeStub) AverageRating(ctx context.Context, bookID int64) (float64, error) {
	if s.RatingFn != nil {
		return s.RatingFn(ctx, bookID)
	}
	return 0, nil
}

func (s CatalogFacadeStub) AddReview(ctx context.Context, bookID int64, rating int, comment string) (model.Review, error) {
	if s.AddReviewFn != nil {
		return s.AddReviewFn(ctx, bookID, rating, comment)
	}
	return model.Review{ID: 1, BookID: bookID, Rating: rating, Comment: comment, CreatedAt: time.Unix(0, 0)}, nil
}

func samplePricedBook(id int64) model.PricedBook {
	price := decimal.NewFromInt(100)
	return model.PricedBook{
		Book:            model.Book{ID: id, Title: "Book", Author: "Author", Price: price, Stock: 3},
		DiscountedPrice: price,
		Saved:           decimal.Zero,
	}
}

// CartFacadeStub simulates cart operations.
type CartFacadeStub struct {
	CartFn      func(context.Context) (model.Cart, error)
	AddFn       func(context.Context, int64, int) error
	RemoveFn    func(context.Context, int64) error
	SelectFn    func(context.Context, []int64) (model.CheckoutDraft, error)
	SelectionFn func(context.Context) (model.CheckoutDraft, error)
}

func (s CartFacadeStub) Cart(ctx context.Context) (model.Cart, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx)
	}
	return model.Cart{}, nil
}

func (s CartFacadeStub) AddToCart(ctx context.Context, bookID int64, quantity int) error {
	if s.AddFn != nil {
		return s.AddFn(ctx, bookID, quantity)
	}
	return nil
}

func (s CartFacadeStub) RemoveFromCart(ctx context.Context, bookID int64) error {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, bookID)
	}
	return nil
}

// SelectItems delegates to SelectFn or echoes the selection.
func (s CartFacadeStub) SelectItems(ctx context.Context, bookIDs []int64) (model.CheckoutDraft, error) {
	if s.SelectFn != nil {
		return s.SelectFn(ctx, bookIDs)
	}
	return model.CheckoutDraft{SelectedBookIDs: bookIDs}, nil
}

func (s CartFacadeStub) Selection(ctx context.Context) (model.CheckoutDraft, error) {
	if s.SelectionFn != nil {
		return s.SelectionFn(ctx)
	}
	return model.CheckoutDraft{}, nil
}

// CheckoutFacadeStub simulates voucher selection and order submission.
type CheckoutFacadeStub struct {
	VouchersFn func(context.Context, model.VoucherTab, string) (model.VoucherList, error)
	ApplyFn    func(context.Context, int64) (model.Quote, error)
	ClearFn    func(context.Context) error
	QuoteFn    func(context.Context) (model.Quote, error)
	SubmitFn   func(context.Context, model.ShippingInfo, model.PaymentMethod) (model.CheckoutResult, error)
	CallbackFn func(context.Context, url.Values) (model.CallbackResult, error)
}

func (s CheckoutFacadeStub) Vouchers(ctx context.Context, tab model.VoucherTab, search string) (model.VoucherList, error) {
	if s.VouchersFn != nil {
		return s.VouchersFn(ctx, tab, search)
	}
	return model.VoucherList{}, nil
}

func (s CheckoutFacadeStub) ApplyVoucher(ctx context.Context, voucherID int64) (model.Quote, error) {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, voucherID)
	}
	return model.Quote{}, nil
}

func (s CheckoutFacadeStub) ClearVoucher(ctx context.Context) error {
	if s.ClearFn != nil {
		return s.ClearFn(ctx)
	}
	return nil
}

func (s CheckoutFacadeStub) Quote(ctx context.Context) (model.Quote, error) {
	if s.QuoteFn != nil {
		return s.QuoteFn(ctx)
	}
	return model.Quote{}, nil
}

// Submit delegates to SubmitFn or places order 1 with the chosen method.
func (s CheckoutFacadeStub) Submit(ctx context.Context, shipping model.ShippingInfo, method model.PaymentMethod) (model.CheckoutResult, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, shipping, method)
	}
	return model.CheckoutResult{
		Order:   model.Order{ID: 1, Status: "PENDING"},
		Payment: model.Payment{OrderID: 1, Method: method, Status: model.PaymentPending},
	}, nil
}

func (s CheckoutFacadeStub) PaymentCallback(ctx context.Context, params url.Values) (model.CallbackResult, error) {
	if s.CallbackFn != nil {
		return s.CallbackFn(ctx, params)
	}
	return model.CallbackResult{}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	OrdersFn   func(context.Context) ([]model.Order, error)
	OrderFn    func(context.Context, int64) (model.Order, error)
	CancelFn   func(context.Context, int64) error
	PaymentsFn func(context.Context) ([]model.PendingPayment, error)
}

// Orders returns OrdersFn result or a single order.
func (s OrderFacadeStub) Orders(ctx context.Context) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx)
	}
	return []model.Order{{ID: 1, Status: "PENDING", CreatedAt: time.Unix(0, 0)}}, nil
}

func (s OrderFacadeStub) Order(ctx context.Context, orderID int64) (model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID)
	}
	return model.Order{ID: orderID, Status: "PENDING"}, nil
}

func (s OrderFacadeStub) CancelOrder(ctx context.Context, orderID int64) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID)
	}
	return nil
}

func (s OrderFacadeStub) TrackedPayments(ctx context.Context) ([]model.PendingPayment, error) {
	if s.PaymentsFn != nil {
		return s.PaymentsFn(ctx)
	}
	return nil, nil
}

// SellerFacadeStub simulates the seller back office.
type SellerFacadeStub struct {
	VouchersFn func(context.Context) ([]model.Voucher, error)
	CreateFn   func(context.Context, model.NewVoucher) (model.Voucher, error)
	AssignFn   func(context.Context, int64, []int64) error
	DeleteFn   func(context.Context, int64) error
	UploadFn   func(context.Context, int64, string, io.Reader) (media.Image, error)
}

func (s SellerFacadeStub) SellerVouchers(ctx context.Context) ([]model.Voucher, error) {
	if s.VouchersFn != nil {
		return s.VouchersFn(ctx)
	}
	return nil, nil
}

// CreateVoucher delegates to CreateFn or echoes v as voucher 1.
func (s SellerFacadeStub) CreateVoucher(ctx context.Context, v model.NewVoucher) (model.Voucher, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, v)
	}
	return model.Voucher{
		ID:             1,
		Code:           v.Code,
		DiscountAmount: v.DiscountAmount,
		IsPercentage:   v.IsPercentage,
		MinOrderValue:  v.MinOrderValue,
		ExpiryDate:     v.ExpiryDate,
		IsActive:       true,
	}, nil
}

func (s SellerFacadeStub) AssignVoucherBooks(ctx context.Context, voucherID int64, bookIDs []int64) error {
	if s.AssignFn != nil {
		return s.AssignFn(ctx, voucherID, bookIDs)
	}
	return nil
}

func (s SellerFacadeStub) DeleteVoucher(ctx context.Context, voucherID int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, voucherID)
	}
	return nil
}

// UploadBookImage delegates to UploadFn or previews the content.
func (s SellerFacadeStub) UploadBookImage(ctx context.Context, bookID int64, filename string, r io.Reader) (media.Image, error) {
	if s.UploadFn != nil {
		return s.UploadFn(ctx, bookID, filename, r)
	}
	return media.Preview(ctx, r, 0)
}

// ShellFacadeStub combines the stubs above into a complete shell facade.
type ShellFacadeStub struct {
	SessionFacadeStub
	CatalogFacadeStub
	CartFacadeStub
	CheckoutFacadeStub
	OrderFacadeStub
	SellerFacadeStub

	NotificationsFn func() []notify.Notification
}

func (s ShellFacadeStub) Notifications() []notify.Notification {
	if s.NotificationsFn != nil {
		return s.NotificationsFn()
	}
	return []notify.Notification{}
}
