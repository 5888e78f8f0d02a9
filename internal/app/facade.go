package app

import (
	"context"
	"io"
	"net/url"

	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/media"
	"github.com/polkiloo/bookmart/internal/notify"
	pkgAuth "github.com/polkiloo/bookmart/internal/pkg/auth"
	"github.com/polkiloo/bookmart/internal/usecase"
)

// ShellFacade is the single entry point of the HTTP handlers and the payment
// watcher into the use cases.
type ShellFacade struct {
	auth     *usecase.AuthUseCase
	cart     *usecase.CartUseCase
	checkout *usecase.CheckoutUseCase
	catalog  *usecase.CatalogUseCase
	seller   *usecase.SellerUseCase
	payments *usecase.PaymentTracker
	tokens   pkgAuth.Strategy
	hub      *notify.Hub
}

func NewShellFacade(
	auth *usecase.AuthUseCase,
	cart *usecase.CartUseCase,
	checkout *usecase.CheckoutUseCase,
	catalog *usecase.CatalogUseCase,
	seller *usecase.SellerUseCase,
	payments *usecase.PaymentTracker,
	tokens pkgAuth.Strategy,
	hub *notify.Hub,
) *ShellFacade {
	return &ShellFacade{
		auth:     auth,
		cart:     cart,
		checkout: checkout,
		catalog:  catalog,
		seller:   seller,
		payments: payments,
		tokens:   tokens,
		hub:      hub,
	}
}

// Login signs in remotely and issues the shell token bound to the session.
func (f *ShellFacade) Login(ctx context.Context, username, password string) (model.Session, string, error) {
	s, err := f.auth.Login(ctx, username, password)
	if err != nil {
		return model.Session{}, "", err
	}
	token, err := f.tokens.IssueToken(s.UserID, string(s.Role))
	if err != nil {
		return model.Session{}, "", err
	}
	return s, token, nil
}

func (f *ShellFacade) Logout(ctx context.Context) error {
	return f.auth.Logout(ctx)
}

func (f *ShellFacade) CurrentSession() (model.Session, error) {
	return f.auth.Current()
}

func (f *ShellFacade) ParseToken(token string) (pkgAuth.Claims, error) {
	return f.tokens.ParseToken(token)
}

func (f *ShellFacade) Profile(ctx context.Context) (model.Customer, error) {
	return f.auth.Profile(ctx)
}

func (f *ShellFacade) BeginRegistration(ctx context.Context, form model.Registration) error {
	return f.auth.BeginRegistration(ctx, form)
}

func (f *ShellFacade) CompleteRegistration(ctx context.Context, email, otp string) error {
	return f.auth.CompleteRegistration(ctx, email, otp)
}

func (f *ShellFacade) ForgotPassword(ctx context.Context, email string) error {
	return f.auth.ForgotPassword(ctx, email)
}

func (f *ShellFacade) Books(ctx context.Context) ([]model.PricedBook, error) {
	return f.catalog.Books(ctx)
}

func (f *ShellFacade) Book(ctx context.Context, bookID int64) (model.PricedBook, error) {
	return f.catalog.Book(ctx, bookID)
}

func (f *ShellFacade) SearchBooks(ctx context.Context, keyword string) ([]model.PricedBook, error) {
	return f.catalog.Search(ctx, keyword)
}

func (f *ShellFacade) Reviews(ctx context.Context, bookID int64) ([]model.Review, error) {
	return f.catalog.Reviews(ctx, bookID)
}

func (f *ShellFacade) AverageRating(ctx context.Context, bookID int64) (float64, error) {
	return f.catalog.AverageRating(ctx, bookID)
}

func (f *ShellFacade) AddReview(ctx context.Context, bookID int64, rating int, comment string) (model.Review, error) {
	return f.catalog.AddReview(ctx, bookID, rating, comment)
}

func (f *ShellFacade) Cart(ctx context.Context) (model.Cart, error) {
	return f.cart.View(ctx)
}

func (f *ShellFacade) AddToCart(ctx context.Context, bookID int64, quantity int) error {
	return f.cart.Add(ctx, bookID, quantity)
}

func (f *ShellFacade) RemoveFromCart(ctx context.Context, bookID int64) error {
	return f.cart.Remove(ctx, bookID)
}

func (f *ShellFacade) SelectItems(ctx context.Context, bookIDs []int64) (model.CheckoutDraft, error) {
	return f.cart.Select(ctx, bookIDs)
}

func (f *ShellFacade) Selection(ctx context.Context) (model.CheckoutDraft, error) {
	return f.cart.Selection(ctx)
}

func (f *ShellFacade) Vouchers(ctx context.Context, tab model.VoucherTab, search string) (model.VoucherList, error) {
	return f.checkout.Vouchers(ctx, tab, search)
}

func (f *ShellFacade) ApplyVoucher(ctx context.Context, voucherID int64) (model.Quote, error) {
	return f.checkout.Apply(ctx, voucherID)
}

func (f *ShellFacade) ClearVoucher(ctx context.Context) error {
	return f.checkout.ClearVoucher(ctx)
}

func (f *ShellFacade) Quote(ctx context.Context) (model.Quote, error) {
	return f.checkout.Quote(ctx)
}

func (f *ShellFacade) Submit(ctx context.Context, shipping model.ShippingInfo, method model.PaymentMethod) (model.CheckoutResult, error) {
	return f.checkout.Submit(ctx, shipping, method)
}

func (f *ShellFacade) PaymentCallback(ctx context.Context, params url.Values) (model.CallbackResult, error) {
	return f.checkout.PaymentCallback(ctx, params)
}

func (f *ShellFacade) Orders(ctx context.Context) ([]model.Order, error) {
	return f.checkout.Orders(ctx)
}

func (f *ShellFacade) Order(ctx context.Context, orderID int64) (model.Order, error) {
	return f.checkout.Order(ctx, orderID)
}

func (f *ShellFacade) CancelOrder(ctx context.Context, orderID int64) error {
	return f.checkout.CancelOrder(ctx, orderID)
}

func (f *ShellFacade) TrackedPayments(ctx context.Context) ([]model.PendingPayment, error) {
	return f.payments.Pending(ctx)
}

func (f *ShellFacade) SellerVouchers(ctx context.Context) ([]model.Voucher, error) {
	return f.seller.Vouchers(ctx)
}

func (f *ShellFacade) CreateVoucher(ctx context.Context, v model.NewVoucher) (model.Voucher, error) {
	return f.seller.CreateVoucher(ctx, v)
}

func (f *ShellFacade) AssignVoucherBooks(ctx context.Context, voucherID int64, bookIDs []int64) error {
	return f.seller.AssignBooks(ctx, voucherID, bookIDs)
}

func (f *ShellFacade) DeleteVoucher(ctx context.Context, voucherID int64) error {
	return f.seller.DeleteVoucher(ctx, voucherID)
}

func (f *ShellFacade) UploadBookImage(ctx context.Context, bookID int64, filename string, r io.Reader) (media.Image, error) {
	return f.seller.UploadBookImage(ctx, bookID, filename, r)
}

func (f *ShellFacade) Notifications() []notify.Notification {
	return f.hub.Drain()
}

func (f *ShellFacade) PendingPayments(ctx context.Context, limit int) ([]model.PendingPayment, error) {
	return f.payments.Claim(ctx, limit)
}

func (f *ShellFacade) CheckPayment(ctx context.Context, p model.PendingPayment) (model.PaymentStatus, error) {
	return f.payments.Check(ctx, p)
}

func (f *ShellFacade) SettlePayment(ctx context.Context, p model.PendingPayment, status model.PaymentStatus) error {
	return f.payments.Settle(ctx, p, status)
}
