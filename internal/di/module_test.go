package di

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/bookmart/internal/adapter/storefront"
	"github.com/polkiloo/bookmart/internal/app"
	"github.com/polkiloo/bookmart/internal/config"
	"github.com/polkiloo/bookmart/internal/domain/repository"
	"github.com/polkiloo/bookmart/internal/storage/postgres"
	"github.com/polkiloo/bookmart/internal/test"
	"github.com/polkiloo/bookmart/internal/usecase"
	"github.com/polkiloo/bookmart/internal/worker"
)

var (
	_ usecase.StorefrontAPI = (*storefront.HTTPClient)(nil)
	_ usecase.StorefrontAPI = (*test.StorefrontStub)(nil)
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:          ":0",
		APIBaseURL:          "http://localhost:8080",
		DatabaseURI:         "postgres://stub",
		SessionSecret:       "secret",
		CacheTTL:            time.Minute,
		RequestTimeout:      time.Second,
		PaymentPollInterval: time.Millisecond,
		WorkerPoolSize:      1,
		PollBatchSize:       1,
		ShutdownTimeout:     time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var (
		facade  *app.ShellFacade
		server  *http.Server
		watcher *worker.PaymentWatcher
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.SessionRepository(&test.SessionRepositoryStub{})),
			fx.Replace(repository.DraftRepository(test.NewDraftRepositoryStub())),
			fx.Replace(repository.PendingPaymentRepository(&test.PendingPaymentRepositoryStub{})),
			fx.Replace(usecase.StorefrontAPI(test.NewStorefrontStub())),
		),
		fx.Populate(&facade, &server, &watcher),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil || watcher == nil {
		t.Fatal("expected shell facade and payment watcher instances")
	}
	if server == nil || server.Handler == nil || server.Addr != ":0" {
		t.Fatalf("unexpected http server %+v", server)
	}
}
