package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/domain/repository"
	"github.com/polkiloo/bookmart/internal/notify"
	"github.com/polkiloo/bookmart/internal/query"
	"github.com/polkiloo/bookmart/internal/session"
)

// Module provides the storefront use cases to the fx container.
var Module = fx.Provide(
	newAuth,
	newCart,
	newCheckout,
	newCatalog,
	newSeller,
	newPaymentTracker,
)

type params struct {
	fx.In

	API      StorefrontAPI
	Session  *session.Store
	Queries  *query.Client
	Drafts   repository.DraftRepository
	Payments repository.PendingPaymentRepository
	URLs     model.PaymentURLs
	Notifier *notify.Hub
	Logger   *slog.Logger
}

func newAuth(p params) *AuthUseCase {
	return NewAuthUseCase(p.API, p.Session, p.Queries, p.Logger)
}

func newCart(p params) *CartUseCase {
	return NewCartUseCase(p.API, p.Session, p.Queries, p.Drafts)
}

func newCheckout(p params) *CheckoutUseCase {
	return NewCheckoutUseCase(p.API, p.Session, p.Queries, p.Drafts, p.Payments, p.URLs, p.Logger)
}

func newCatalog(p params) *CatalogUseCase {
	return NewCatalogUseCase(p.API, p.Session, p.Queries)
}

func newSeller(p params) *SellerUseCase {
	return NewSellerUseCase(p.API, p.Session, p.Queries)
}

func newPaymentTracker(p params) *PaymentTracker {
	return NewPaymentTracker(p.API, p.Session, p.Payments, p.Queries, p.Notifier, p.Logger)
}
