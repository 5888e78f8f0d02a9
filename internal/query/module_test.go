package query

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/bookmart/internal/config"
	"github.com/polkiloo/bookmart/internal/domain/repository"
	"github.com/polkiloo/bookmart/internal/notify"
	"github.com/polkiloo/bookmart/internal/session"
	"github.com/polkiloo/bookmart/internal/test"
)

func moduleApp(t *testing.T, cfg *config.Config, cache *Cache) *fxtest.App {
	return fxtest.New(t,
		fx.NopLogger,
		fx.Supply(cfg, testLogger()),
		fx.Provide(func() repository.SessionRepository { return &test.SessionRepositoryStub{} }),
		fx.Provide(session.NewStore, notify.NewHub),
		Module,
		fx.Populate(cache),
	)
}

func TestModuleUsesMemoryCacheWithoutRedis(t *testing.T) {
	var cache Cache
	app := moduleApp(t, &config.Config{}, &cache)
	app.RequireStart()
	defer app.RequireStop()

	if _, ok := cache.(*MemoryCache); !ok {
		t.Fatalf("expected memory cache, got %T", cache)
	}
}

func TestModuleUsesRedisWhenConfigured(t *testing.T) {
	srv := miniredis.RunT(t)
	var cache Cache
	app := moduleApp(t, &config.Config{RedisAddr: srv.Addr()}, &cache)
	app.RequireStart()
	defer app.RequireStop()

	if _, ok := cache.(*RedisCache); !ok {
		t.Fatalf("expected redis cache, got %T", cache)
	}
	if err := cache.Set(context.Background(), "k/", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	keys := srv.Keys()
	if len(keys) != 1 || !strings.HasPrefix(keys[0], defaultNamespace) || keys[0] == defaultNamespace+"k/" {
		t.Fatalf("expected key in a per-process namespace, got %v", keys)
	}
}
