package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/bookmart/internal/config"
	"github.com/polkiloo/bookmart/internal/notify"
	"github.com/polkiloo/bookmart/internal/session"
)

// Module wires the query cache and client.
var Module = fx.Provide(newCache, newClient)

type cacheParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newCache(p cacheParams) Cache {
	if p.Config.RedisAddr == "" {
		return NewMemoryCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         p.Config.RedisAddr,
		Password:     p.Config.RedisPassword,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			p.Logger.Info("query cache backed by redis", slog.String("addr", p.Config.RedisAddr))
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return NewRedisCache(client, InstanceNamespace())
}

type clientParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cache     Cache
	Session   *session.Store
	Notifier  *notify.Hub
	Config    *config.Config
	Logger    *slog.Logger
}

func newClient(p clientParams) *Client {
	client := NewClient(p.Cache, p.Session, p.Notifier, p.Logger, Options{
		TTL:     p.Config.CacheTTL,
		Timeout: p.Config.RequestTimeout,
	})
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			client.Close()
			return nil
		},
	})
	return client
}
