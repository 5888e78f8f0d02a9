package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/domain/repository"
	"github.com/polkiloo/bookmart/internal/pricing"
	"github.com/polkiloo/bookmart/internal/query"
)

// CheckoutAPI is the remote surface used by checkout.
type CheckoutAPI interface {
	CartAPI
	VoucherAPI
	OrderAPI
	PaymentAPI
}

type paymentStart struct {
	order    model.Order
	discount decimal.Decimal
	method   model.PaymentMethod
}

type voucherUse struct {
	userID    int64
	voucherID int64
}

// CheckoutUseCase prices the selection, keeps the applied voucher and submits orders.
type CheckoutUseCase struct {
	api      CheckoutAPI
	sessions SessionReader
	queries  *query.Client
	drafts   repository.DraftRepository
	payments repository.PendingPaymentRepository
	urls     model.PaymentURLs
	logger   *slog.Logger
	now      func() time.Time

	createOrder  *query.Mutation[model.OrderRequest, model.Order]
	useVoucher   *query.Mutation[voucherUse, struct{}]
	removeItem   *query.Mutation[cartLine, struct{}]
	startPayment *query.Mutation[paymentStart, model.Payment]
	callback     *query.Mutation[url.Values, struct{}]
	cancelOrder  *query.Mutation[int64, struct{}]
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	api CheckoutAPI,
	sessions SessionReader,
	queries *query.Client,
	drafts repository.DraftRepository,
	payments repository.PendingPaymentRepository,
	urls model.PaymentURLs,
	logger *slog.Logger,
) *CheckoutUseCase {
	u := &CheckoutUseCase{
		api:      api,
		sessions: sessions,
		queries:  queries,
		drafts:   drafts,
		payments: payments,
		urls:     urls,
		logger:   logger,
		now:      time.Now,
	}
	u.createOrder = query.NewMutation(queries, api.CreateOrder, query.Invalidates(OrdersPrefix))
	u.useVoucher = query.NewMutation(queries, func(ctx context.Context, v voucherUse) (struct{}, error) {
		return struct{}{}, api.RecordVoucherUsage(ctx, v.userID, v.voucherID)
	}, query.Invalidates(VouchersPrefix, DiscountPrefix))
	u.removeItem = query.NewMutation(queries, func(ctx context.Context, l cartLine) (struct{}, error) {
		return struct{}{}, api.RemoveFromCart(ctx, l.userID, l.bookID)
	}, query.Invalidates(CartPrefix))
	u.startPayment = query.NewMutation(queries, func(ctx context.Context, p paymentStart) (model.Payment, error) {
		if p.method == model.PaymentMoMo {
			return api.CreateMoMoPayment(ctx, p.order, p.discount, u.urls)
		}
		return api.CreateCODPayment(ctx, p.order, p.discount)
	}, query.Invalidates(OrdersPrefix))
	u.callback = query.NewMutation(queries, func(ctx context.Context, params url.Values) (struct{}, error) {
		return struct{}{}, api.MoMoCallback(ctx, params)
	}, query.Invalidates(OrdersPrefix))
	u.cancelOrder = query.NewMutation(queries, func(ctx context.Context, orderID int64) (struct{}, error) {
		return struct{}{}, api.CancelOrder(ctx, orderID)
	}, query.Invalidates(OrdersPrefix), query.WithSuccessMessage("Order cancelled"))
	return u
}

type checkoutState struct {
	session model.Session
	draft   *model.CheckoutDraft
	items   []model.LineItem
	evals   []model.Evaluation
}

func (u *CheckoutUseCase) load(ctx context.Context) (*checkoutState, error) {
	s := u.sessions.Current()
	if !s.Active() {
		return nil, domainErrors.ErrNoSession
	}
	draft, err := u.drafts.Get(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	cart, err := loadCart(ctx, u.queries, u.api, s.UserID)
	if err != nil {
		return nil, err
	}
	items := cart.Selected(draft.SelectedBookIDs)

	vouchers, err := u.availableVouchers(ctx, s.UserID, pricing.Subtotal(items))
	if err != nil {
		return nil, err
	}

	evals := pricing.Evaluate(items, vouchers, u.now())
	if draft.AppliedVoucherID != nil {
		pricing.MarkApplied(evals, *draft.AppliedVoucherID)
	}
	return &checkoutState{session: s, draft: draft, items: items, evals: evals}, nil
}

func (u *CheckoutUseCase) availableVouchers(ctx context.Context, userID int64, orderValue decimal.Decimal) ([]model.Voucher, error) {
	return query.Query(ctx, u.queries, availableVouchersKey(userID, orderValue), func(ctx context.Context) ([]model.Voucher, error) {
		vouchers, err := u.api.AvailableVouchers(ctx, userID, orderValue)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return []model.Voucher{}, nil
		}
		return vouchers, err
	})
}

func (st *checkoutState) evaluation(voucherID int64) (model.Evaluation, bool) {
	for _, e := range st.evals {
		if e.Voucher.ID == voucherID {
			return e, true
		}
	}
	return model.Evaluation{}, false
}

// applied returns the evaluation of the applied voucher while it is usable.
func (st *checkoutState) applied() *model.Evaluation {
	if st.draft.AppliedVoucherID == nil {
		return nil
	}
	e, ok := st.evaluation(*st.draft.AppliedVoucherID)
	if !ok || !e.Usable {
		return nil
	}
	return &e
}

func (st *checkoutState) quote() model.Quote {
	subtotal := pricing.Subtotal(st.items)
	q := model.Quote{
		Items:     st.items,
		Subtotal:  subtotal,
		Discount:  decimal.Zero,
		Payable:   subtotal,
		ItemSaved: decimal.Zero,
	}
	if e := st.applied(); e != nil {
		v := e.Voucher
		q.Voucher = &v
		q.Discount = e.DiscountValue
		q.Payable = pricing.Payable(subtotal, e.DiscountValue)
		q.ItemSaved = pricing.SelectedItemsDiscount(st.items, &v).TotalSaved
	}
	return q
}

// Vouchers evaluates the vouchers offered for the current selection.
func (u *CheckoutUseCase) Vouchers(ctx context.Context, tab model.VoucherTab, search string) (model.VoucherList, error) {
	st, err := u.load(ctx)
	if err != nil {
		return model.VoucherList{}, err
	}
	usable, unusable := pricing.Count(st.evals)
	return model.VoucherList{
		Evaluations: pricing.Filter(st.evals, tab, search),
		Usable:      usable,
		Unusable:    unusable,
		Best:        pricing.PickBest(st.evals),
	}, nil
}

// Apply keeps voucherID in the draft. A voucher that cannot be used is
// rejected with a validation error and nothing is sent to the API.
func (u *CheckoutUseCase) Apply(ctx context.Context, voucherID int64) (model.Quote, error) {
	st, err := u.load(ctx)
	if err != nil {
		return model.Quote{}, err
	}
	e, ok := st.evaluation(voucherID)
	if !ok {
		return model.Quote{}, fmt.Errorf("%w: %w", domainErrors.ErrVoucherNotApplicable,
			domainErrors.Invalid("voucherId", "voucher is not available"))
	}
	if !e.Usable {
		return model.Quote{}, fmt.Errorf("%w: %w", domainErrors.ErrVoucherNotApplicable,
			domainErrors.Invalid("voucherId", reasonMessage(e)))
	}

	st.draft.UserID = st.session.UserID
	st.draft.AppliedVoucherID = &voucherID
	st.draft.UpdatedAt = u.now()
	if err := u.drafts.Save(ctx, *st.draft); err != nil {
		return model.Quote{}, err
	}
	pricing.MarkApplied(st.evals, voucherID)
	return st.quote(), nil
}

func reasonMessage(e model.Evaluation) string {
	switch e.Reason {
	case model.ReasonExpired:
		return "voucher has expired"
	case model.ReasonInactive:
		return "voucher is not active"
	case model.ReasonNoApplicableItems:
		return "voucher does not apply to the selected books"
	case model.ReasonBelowMinimum:
		return fmt.Sprintf("add %s more to use this voucher", e.Shortfall.StringFixed(0))
	default:
		return "voucher is not valid"
	}
}

// ClearVoucher removes the applied voucher from the draft.
func (u *CheckoutUseCase) ClearVoucher(ctx context.Context) error {
	s := u.sessions.Current()
	if !s.Active() {
		return domainErrors.ErrNoSession
	}
	draft, err := u.drafts.Get(ctx, s.UserID)
	if err != nil {
		return err
	}
	if draft.AppliedVoucherID == nil {
		return nil
	}
	draft.AppliedVoucherID = nil
	draft.UpdatedAt = u.now()
	return u.drafts.Save(ctx, *draft)
}

// Quote prices the selection with the applied voucher. A voucher that stopped
// being usable is ignored.
func (u *CheckoutUseCase) Quote(ctx context.Context) (model.Quote, error) {
	st, err := u.load(ctx)
	if err != nil {
		return model.Quote{}, err
	}
	return st.quote(), nil
}

// Submit places the order for the selection and starts its payment.
func (u *CheckoutUseCase) Submit(ctx context.Context, shipping model.ShippingInfo, method model.PaymentMethod) (model.CheckoutResult, error) {
	if method != model.PaymentCOD && method != model.PaymentMoMo {
		return model.CheckoutResult{}, domainErrors.Invalid("method", "unsupported payment method")
	}
	if err := ValidateShipping(shipping); err != nil {
		return model.CheckoutResult{}, err
	}

	st, err := u.load(ctx)
	if err != nil {
		return model.CheckoutResult{}, err
	}
	if len(st.items) == 0 {
		return model.CheckoutResult{}, domainErrors.ErrEmptySelection
	}
	if st.draft.AppliedVoucherID != nil && st.applied() == nil {
		return model.CheckoutResult{}, fmt.Errorf("%w: %w", domainErrors.ErrVoucherNotApplicable,
			domainErrors.Invalid("voucherId", "applied voucher can no longer be used"))
	}

	quote := st.quote()
	userID := st.session.UserID
	order, err := u.createOrder.Run(ctx, orderRequest(userID, quote, shipping))
	if err != nil {
		return model.CheckoutResult{}, err
	}
	result := model.CheckoutResult{Order: order}

	if quote.Voucher != nil {
		if _, err := u.useVoucher.Run(ctx, voucherUse{userID: userID, voucherID: quote.Voucher.ID}); err != nil {
			u.logger.Warn("record voucher usage failed",
				slog.Int64("order_id", order.ID),
				slog.Int64("voucher_id", quote.Voucher.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	for _, item := range quote.Items {
		if _, err := u.removeItem.Run(ctx, cartLine{userID: userID, bookID: item.BookID}); err != nil {
			u.logger.Warn("remove ordered item from cart failed",
				slog.Int64("order_id", order.ID),
				slog.Int64("book_id", item.BookID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := u.drafts.Delete(ctx, userID); err != nil {
		u.logger.Warn("delete checkout draft failed", slog.Int64("user_id", userID), slog.String("error", err.Error()))
	}

	payment, err := u.startPayment.Run(ctx, paymentStart{order: order, discount: quote.Discount, method: method})
	if err != nil {
		return result, err
	}
	result.Payment = payment

	if method == model.PaymentMoMo {
		pending := model.PendingPayment{
			PaymentID: payment.ID,
			OrderID:   order.ID,
			UserID:    userID,
			Method:    model.PaymentMoMo,
			Status:    model.PaymentPending,
			CreatedAt: u.now(),
		}
		if err := u.payments.Add(ctx, pending); err != nil {
			u.logger.Error("track pending payment failed", slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
		}
	}
	return result, nil
}

func orderRequest(userID int64, quote model.Quote, shipping model.ShippingInfo) model.OrderRequest {
	req := model.OrderRequest{
		CustomerID: userID,
		Items:      make([]model.OrderItemRequest, 0, len(quote.Items)),
		Shipping:   shipping,
	}
	if quote.Voucher != nil {
		id := quote.Voucher.ID
		req.VoucherID = &id
	}
	for _, item := range quote.Items {
		line := model.OrderItemRequest{BookID: item.BookID, Quantity: item.Quantity}
		if quote.Voucher != nil && quote.Voucher.AppliesTo(item.BookID) {
			line.DiscountCode = quote.Voucher.Code
		}
		req.Items = append(req.Items, line)
	}
	return req
}

// PaymentCallback forwards the gateway return parameters and settles the
// tracked payment of the order.
func (u *CheckoutUseCase) PaymentCallback(ctx context.Context, params url.Values) (model.CallbackResult, error) {
	result := model.CallbackResult{
		Success: params.Get("resultCode") == "0",
		Message: params.Get("message"),
	}
	orderID, err := strconv.ParseInt(params.Get("orderId"), 10, 64)
	if err != nil {
		return result, domainErrors.Invalid("orderId", "order id is missing")
	}
	result.OrderID = orderID

	if _, err := u.callback.Run(ctx, params); err != nil {
		return result, err
	}

	status := model.PaymentFailed
	if result.Success {
		status = model.PaymentPaid
	}
	if err := u.payments.Resolve(ctx, orderID, status); err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		u.logger.Error("resolve pending payment failed", slog.Int64("order_id", orderID), slog.String("error", err.Error()))
	}
	return result, nil
}

// Orders lists the orders of the signed-in user.
func (u *CheckoutUseCase) Orders(ctx context.Context) ([]model.Order, error) {
	s := u.sessions.Current()
	if !s.Active() {
		return nil, domainErrors.ErrNoSession
	}
	return query.Query(ctx, u.queries, OrdersKey(s.UserID), func(ctx context.Context) ([]model.Order, error) {
		return u.api.Orders(ctx, s.UserID)
	})
}

// Order returns one order of the signed-in user. Orders of other customers
// are reported as not found.
func (u *CheckoutUseCase) Order(ctx context.Context, orderID int64) (model.Order, error) {
	s := u.sessions.Current()
	if !s.Active() {
		return model.Order{}, domainErrors.ErrNoSession
	}
	order, err := query.Query(ctx, u.queries, orderKey(s.UserID, orderID), func(ctx context.Context) (model.Order, error) {
		return u.api.Order(ctx, orderID)
	})
	if err != nil {
		return model.Order{}, err
	}
	if order.CustomerID != s.UserID {
		return model.Order{}, domainErrors.ErrNotFound
	}
	return order, nil
}

// CancelOrder cancels an order of the signed-in user and stops tracking its
// payment.
func (u *CheckoutUseCase) CancelOrder(ctx context.Context, orderID int64) error {
	if _, err := u.Order(ctx, orderID); err != nil {
		return err
	}
	if _, err := u.cancelOrder.Run(ctx, orderID); err != nil {
		return err
	}
	if err := u.payments.Resolve(ctx, orderID, model.PaymentFailed); err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		u.logger.Error("resolve pending payment failed", slog.Int64("order_id", orderID), slog.String("error", err.Error()))
	}
	return nil
}
