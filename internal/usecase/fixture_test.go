package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/notify"
	"github.com/polkiloo/bookmart/internal/query"
	"github.com/polkiloo/bookmart/internal/session"
	"github.com/polkiloo/bookmart/internal/test"
)

const customerID = 7

type fixture struct {
	api      *test.StorefrontStub
	store    *session.Store
	queries  *query.Client
	hub      *notify.Hub
	drafts   *test.DraftRepositoryStub
	payments *test.PendingPaymentRepositoryStub
	logger   *slog.Logger
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newFixture(t *testing.T, signedIn bool) *fixture {
	t.Helper()
	logger := testLogger()
	store := session.NewStore(&test.SessionRepositoryStub{}, logger)
	if signedIn {
		if err := store.Set(context.Background(), model.Session{Token: "token", Role: model.RoleCustomer, UserID: customerID}); err != nil {
			t.Fatalf("set session: %v", err)
		}
	}
	hub := notify.NewHub(logger)
	queries := query.NewClient(query.NewMemoryCache(), store, hub, logger, query.Options{TTL: time.Minute, Timeout: time.Second})
	t.Cleanup(queries.Close)
	return &fixture{
		api:      test.NewStorefrontStub(),
		store:    store,
		queries:  queries,
		hub:      hub,
		drafts:   test.NewDraftRepositoryStub(),
		payments: &test.PendingPaymentRepositoryStub{},
		logger:   logger,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func levels(ns []notify.Notification, level notify.Level) []string {
	var out []string
	for _, n := range ns {
		if n.Level == level {
			out = append(out, n.Message)
		}
	}
	return out
}
