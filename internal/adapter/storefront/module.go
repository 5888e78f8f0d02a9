package storefront

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/bookmart/internal/config"
	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/session"
)

// Module exposes the storefront API client to the fx graph.
var Module = fx.Provide(newClient, newPaymentURLs)

type clientParams struct {
	fx.In

	Config  *config.Config
	Session *session.Store
	Logger  *slog.Logger
}

func newClient(p clientParams) (*HTTPClient, error) {
	return NewHTTPClient(p.Config.APIBaseURL, p.Config.RequestTimeout, p.Session, p.Logger)
}

func newPaymentURLs(cfg *config.Config) model.PaymentURLs {
	return model.PaymentURLs{ReturnURL: cfg.PaymentReturnURL, NotifyURL: cfg.PaymentNotifyURL}
}
