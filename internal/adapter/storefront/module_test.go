package storefront

import (
	"testing"

	"github.com/polkiloo/bookmart/internal/config"
	"github.com/polkiloo/bookmart/internal/session"
	"github.com/polkiloo/bookmart/internal/test"
)

func TestNewClientUsesConfig(t *testing.T) {
	cfg := &config.Config{APIBaseURL: "http://example.com"}
	store := session.NewStore(&test.SessionRepositoryStub{}, testLogger())
	client, err := newClient(clientParams{Config: cfg, Session: store, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil {
		t.Fatal("expected client instance")
	}

	urls := newPaymentURLs(&config.Config{PaymentReturnURL: "r", PaymentNotifyURL: "n"})
	if urls.ReturnURL != "r" || urls.NotifyURL != "n" {
		t.Fatalf("unexpected urls %+v", urls)
	}
}
