package test

import (
	"context"
	"net/url"
	"sync"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
)

// StorefrontStub is an in-memory remote API. Errs maps a method name to the
// error it returns; Calls counts invocations per method name.
type StorefrontStub struct {
	mu sync.Mutex

	Errs  map[string]error
	Calls map[string]int

	Users      map[string]model.Session
	OTP        string
	Registered []model.Registration
	Customers  map[int64]model.Customer

	Carts         map[int64]model.Cart
	Available     []model.Voucher
	AllVouchers   []model.Voucher
	UsedVouchers  []int64
	Assignments   map[int64][]int64
	Deleted       []int64
	NewVouchers   []model.NewVoucher
	OrderRequests []model.OrderRequest
	OrderList     []model.Order
	Cancelled     []int64
	Payments      []model.Payment
	Callbacks     []url.Values
	PayURL        string

	Catalog    []model.Book
	ReviewList []model.Review
	Rating     float64
	Uploads    []string
}

// NewStorefrontStub constructs an empty stub.
func NewStorefrontStub() *StorefrontStub {
	return &StorefrontStub{
		Errs:        make(map[string]error),
		Calls:       make(map[string]int),
		Users:       make(map[string]model.Session),
		Customers:   make(map[int64]model.Customer),
		OTP:         "123456",
		Carts:       make(map[int64]model.Cart),
		Assignments: make(map[int64][]int64),
		PayURL:      "https://pay.example/1",
	}
}

func (s *StorefrontStub) record(name string) error {
	s.Calls[name]++
	return s.Errs[name]
}

// SetErr configures the error returned by method name.
func (s *StorefrontStub) SetErr(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errs[name] = err
}

// CallCount returns how many times method name was invoked.
func (s *StorefrontStub) CallCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls[name]
}

// TotalCalls sums invocations of every method.
func (s *StorefrontStub) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.Calls {
		total += n
	}
	return total
}

func (s *StorefrontStub) Login(ctx context.Context, username, password string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Login"); err != nil {
		return model.Session{}, err
	}
	session, ok := s.Users[username+":"+password]
	if !ok {
		return model.Session{}, domainErrors.ErrUnauthorized
	}
	return session, nil
}

func (s *StorefrontStub) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("Logout")
}

func (s *StorefrontStub) SendOTP(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("SendOTP")
}

func (s *StorefrontStub) VerifyOTP(ctx context.Context, email, otp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("VerifyOTP"); err != nil {
		return err
	}
	if otp != s.OTP {
		return domainErrors.Invalid("otp", "wrong code")
	}
	return nil
}

func (s *StorefrontStub) ForgotPassword(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("ForgotPassword")
}

func (s *StorefrontStub) Register(ctx context.Context, r model.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Register"); err != nil {
		return err
	}
	s.Registered = append(s.Registered, r)
	return nil
}

func (s *StorefrontStub) Customer(ctx context.Context, id int64) (model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Customer"); err != nil {
		return model.Customer{}, err
	}
	c, ok := s.Customers[id]
	if !ok {
		return model.Customer{}, domainErrors.ErrNotFound
	}
	return c, nil
}

func (s *StorefrontStub) Cart(ctx context.Context, userID int64) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Cart"); err != nil {
		return model.Cart{}, err
	}
	cart := s.Carts[userID]
	cart.UserID = userID
	cart.Items = append([]model.LineItem(nil), cart.Items...)
	return cart, nil
}

func (s *StorefrontStub) AddToCart(ctx context.Context, userID, bookID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("AddToCart"); err != nil {
		return err
	}
	cart := s.Carts[userID]
	for i := range cart.Items {
		if cart.Items[i].BookID == bookID {
			cart.Items[i].Quantity += quantity
			s.Carts[userID] = cart
			return nil
		}
	}
	price := decimal.Zero
	title := ""
	for _, b := range s.Catalog {
		if b.ID == bookID {
			price, title = b.Price, b.Title
		}
	}
	cart.Items = append(cart.Items, model.LineItem{BookID: bookID, Title: title, Quantity: quantity, UnitPrice: price})
	s.Carts[userID] = cart
	return nil
}

func (s *StorefrontStub) RemoveFromCart(ctx context.Context, userID, bookID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("RemoveFromCart"); err != nil {
		return err
	}
	cart := s.Carts[userID]
	kept := cart.Items[:0:0]
	for _, item := range cart.Items {
		if item.BookID != bookID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	s.Carts[userID] = cart
	return nil
}

func (s *StorefrontStub) AvailableVouchers(ctx context.Context, userID int64, orderValue decimal.Decimal) ([]model.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("AvailableVouchers"); err != nil {
		return nil, err
	}
	return append([]model.Voucher(nil), s.Available...), nil
}

func (s *StorefrontStub) Vouchers(ctx context.Context) ([]model.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Vouchers"); err != nil {
		return nil, err
	}
	return append([]model.Voucher(nil), s.AllVouchers...), nil
}

func (s *StorefrontStub) RecordVoucherUsage(ctx context.Context, userID, voucherID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("RecordVoucherUsage"); err != nil {
		return err
	}
	s.UsedVouchers = append(s.UsedVouchers, voucherID)
	return nil
}

func (s *StorefrontStub) CreateVoucher(ctx context.Context, v model.NewVoucher) (model.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateVoucher"); err != nil {
		return model.Voucher{}, err
	}
	s.NewVouchers = append(s.NewVouchers, v)
	created := model.Voucher{
		ID:             int64(len(s.AllVouchers) + 1),
		Code:           v.Code,
		DiscountAmount: v.DiscountAmount,
		IsPercentage:   v.IsPercentage,
		MinOrderValue:  v.MinOrderValue,
		ExpiryDate:     v.ExpiryDate,
		IsActive:       true,
	}
	s.AllVouchers = append(s.AllVouchers, created)
	return created, nil
}

func (s *StorefrontStub) AssignVoucherBooks(ctx context.Context, voucherID int64, bookIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("AssignVoucherBooks"); err != nil {
		return err
	}
	s.Assignments[voucherID] = append([]int64(nil), bookIDs...)
	return nil
}

func (s *StorefrontStub) DeleteVoucher(ctx context.Context, voucherID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteVoucher"); err != nil {
		return err
	}
	s.Deleted = append(s.Deleted, voucherID)
	return nil
}

func (s *StorefrontStub) CreateOrder(ctx context.Context, r model.OrderRequest) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateOrder"); err != nil {
		return model.Order{}, err
	}
	s.OrderRequests = append(s.OrderRequests, r)
	order := model.Order{
		ID:            int64(len(s.OrderRequests)),
		CustomerID:    r.CustomerID,
		Status:        "PENDING",
		TransactionID: "tx-" + decimal.NewFromInt(int64(len(s.OrderRequests))).String(),
	}
	s.OrderList = append(s.OrderList, order)
	return order, nil
}

func (s *StorefrontStub) Orders(ctx context.Context, customerID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Orders"); err != nil {
		return nil, err
	}
	var out []model.Order
	for _, o := range s.OrderList {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *StorefrontStub) Order(ctx context.Context, id int64) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Order"); err != nil {
		return model.Order{}, err
	}
	for _, o := range s.OrderList {
		if o.ID == id {
			return o, nil
		}
	}
	return model.Order{}, domainErrors.ErrNotFound
}

func (s *StorefrontStub) CancelOrder(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CancelOrder"); err != nil {
		return err
	}
	for i := range s.OrderList {
		if s.OrderList[i].ID == id {
			s.OrderList[i].Status = "CANCELLED"
			s.Cancelled = append(s.Cancelled, id)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *StorefrontStub) Payment(ctx context.Context, id int64) (model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Payment"); err != nil {
		return model.Payment{}, err
	}
	for _, p := range s.Payments {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Payment{}, domainErrors.ErrNotFound
}

func (s *StorefrontStub) CreateCODPayment(ctx context.Context, order model.Order, discount decimal.Decimal) (model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateCODPayment"); err != nil {
		return model.Payment{}, err
	}
	p := model.Payment{ID: int64(len(s.Payments) + 1), OrderID: order.ID, Method: model.PaymentCOD, Amount: order.TotalAmount, Status: model.PaymentPending}
	s.Payments = append(s.Payments, p)
	return p, nil
}

func (s *StorefrontStub) CreateMoMoPayment(ctx context.Context, order model.Order, discount decimal.Decimal, urls model.PaymentURLs) (model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateMoMoPayment"); err != nil {
		return model.Payment{}, err
	}
	p := model.Payment{OrderID: order.ID, Method: model.PaymentMoMo, Amount: order.TotalAmount, Status: model.PaymentPending, PayURL: s.PayURL}
	s.Payments = append(s.Payments, p)
	return p, nil
}

func (s *StorefrontStub) MoMoCallback(ctx context.Context, params url.Values) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("MoMoCallback"); err != nil {
		return err
	}
	s.Callbacks = append(s.Callbacks, params)
	return nil
}

func (s *StorefrontStub) Books(ctx context.Context) ([]model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Books"); err != nil {
		return nil, err
	}
	return append([]model.Book(nil), s.Catalog...), nil
}

func (s *StorefrontStub) Book(ctx context.Context, id int64) (model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Book"); err != nil {
		return model.Book{}, err
	}
	for _, b := range s.Catalog {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Book{}, domainErrors.ErrNotFound
}

func (s *StorefrontStub) SearchBooks(ctx context.Context, query string) ([]model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("SearchBooks"); err != nil {
		return nil, err
	}
	return append([]model.Book(nil), s.Catalog...), nil
}

func (s *StorefrontStub) Reviews(ctx context.Context, bookID int64) ([]model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Reviews"); err != nil {
		return nil, err
	}
	var out []model.Review
	for _, r := range s.ReviewList {
		if r.BookID == bookID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *StorefrontStub) CreateReview(ctx context.Context, r model.Review) (model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateReview"); err != nil {
		return model.Review{}, err
	}
	r.ID = int64(len(s.ReviewList) + 1)
	s.ReviewList = append(s.ReviewList, r)
	return r, nil
}

func (s *StorefrontStub) AverageRating(ctx context.Context, bookID int64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("AverageRating"); err != nil {
		return 0, err
	}
	return s.Rating, nil
}

func (s *StorefrontStub) UploadBookImage(ctx context.Context, bookID int64, filename, mimeType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UploadBookImage"); err != nil {
		return err
	}
	s.Uploads = append(s.Uploads, filename+":"+mimeType)
	return nil
}
