package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/bookmart/internal/adapter/storefront"
	"github.com/polkiloo/bookmart/internal/app"
	"github.com/polkiloo/bookmart/internal/config"
	"github.com/polkiloo/bookmart/internal/logger"
	"github.com/polkiloo/bookmart/internal/notify"
	"github.com/polkiloo/bookmart/internal/pkg/auth"
	"github.com/polkiloo/bookmart/internal/query"
	"github.com/polkiloo/bookmart/internal/server/http/handlers"
	"github.com/polkiloo/bookmart/internal/server/http/router"
	"github.com/polkiloo/bookmart/internal/session"
	"github.com/polkiloo/bookmart/internal/storage/postgres"
	"github.com/polkiloo/bookmart/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		notify.Module,
		session.Module,
		query.Module,
		storefront.Module,
		fx.Provide(func(c *storefront.HTTPClient) usecase.StorefrontAPI { return c }),
		usecase.Module,
		app.Module,
		fx.Provide(func(f *app.ShellFacade) handlers.ShellFacade { return f }),
		router.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
