package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/notify"
)

func newCartFixture(t *testing.T, signedIn bool) (*CartUseCase, *fixture) {
	t.Helper()
	f := newFixture(t, signedIn)
	f.api.Carts[customerID] = model.Cart{ID: 1, Items: []model.LineItem{
		{BookID: 1, Title: "Go in Action", Quantity: 2, UnitPrice: dec("50000")},
		{BookID: 2, Title: "The Go Programming Language", Quantity: 1, UnitPrice: dec("30000")},
	}}
	f.api.Catalog = []model.Book{{ID: 3, Title: "Concurrency in Go", Price: dec("120000")}}
	return NewCartUseCase(f.api, f.store, f.queries, f.drafts), f
}

func TestCartUseCaseViewIsCachedUntilAdd(t *testing.T) {
	uc, f := newCartFixture(t, true)
	ctx := context.Background()

	cart, err := uc.View(ctx)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(cart.Items) != 2 || cart.UserID != customerID {
		t.Fatalf("unexpected cart %+v", cart)
	}
	if _, err := uc.View(ctx); err != nil {
		t.Fatalf("second view failed: %v", err)
	}
	if f.api.CallCount("Cart") != 1 {
		t.Fatalf("expected cached cart, got %d calls", f.api.CallCount("Cart"))
	}

	if err := uc.Add(ctx, 3, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, err = uc.View(ctx)
	if err != nil {
		t.Fatalf("view after add failed: %v", err)
	}
	if f.api.CallCount("Cart") != 2 {
		t.Fatalf("expected refetch after add, got %d calls", f.api.CallCount("Cart"))
	}
	if !cart.Contains(3) {
		t.Fatalf("expected added book in cart: %+v", cart.Items)
	}
	if msgs := levels(f.hub.Drain(), notify.LevelSuccess); len(msgs) != 1 || msgs[0] != "Added to cart" {
		t.Fatalf("unexpected notifications %v", msgs)
	}
}

func TestCartUseCaseAddValidatesInput(t *testing.T) {
	uc, f := newCartFixture(t, true)

	if err := uc.Add(context.Background(), 1, 0); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := uc.Add(context.Background(), 0, 1); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.api.CallCount("AddToCart") != 0 {
		t.Fatal("invalid input must not reach the API")
	}
}

func TestCartUseCaseSelectKeepsCartOrder(t *testing.T) {
	uc, f := newCartFixture(t, true)

	draft, err := uc.Select(context.Background(), []int64{2, 99, 1, 1})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(draft.SelectedBookIDs) != 2 || draft.SelectedBookIDs[0] != 1 || draft.SelectedBookIDs[1] != 2 {
		t.Fatalf("unexpected selection %v", draft.SelectedBookIDs)
	}
	stored, err := uc.Selection(context.Background())
	if err != nil {
		t.Fatalf("selection failed: %v", err)
	}
	if len(stored.SelectedBookIDs) != 2 || f.drafts.Drafts[customerID].UserID != customerID {
		t.Fatalf("selection not stored: %+v", stored)
	}
}

func TestCartUseCaseRemoveUpdatesSelection(t *testing.T) {
	uc, f := newCartFixture(t, true)
	ctx := context.Background()

	if _, err := uc.Select(ctx, []int64{1, 2}); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if err := uc.Remove(ctx, 1); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	draft := f.drafts.Drafts[customerID]
	if len(draft.SelectedBookIDs) != 1 || draft.SelectedBookIDs[0] != 2 {
		t.Fatalf("unexpected selection after remove %v", draft.SelectedBookIDs)
	}
	cart, err := uc.View(ctx)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if cart.Contains(1) {
		t.Fatal("expected book 1 to be removed")
	}
}

func TestCartUseCaseRemoveFailureKeepsSelection(t *testing.T) {
	uc, f := newCartFixture(t, true)
	ctx := context.Background()

	if _, err := uc.Select(ctx, []int64{1, 2}); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	f.api.SetErr("RemoveFromCart", errors.New("boom"))

	if err := uc.Remove(ctx, 1); err == nil {
		t.Fatal("expected error")
	}
	if len(f.drafts.Drafts[customerID].SelectedBookIDs) != 2 {
		t.Fatal("selection must not change when the remote remove fails")
	}
	if msgs := levels(f.hub.Drain(), notify.LevelError); len(msgs) != 1 {
		t.Fatalf("expected one error notification, got %v", msgs)
	}
}

func TestCartUseCaseRequiresSession(t *testing.T) {
	uc, f := newCartFixture(t, false)

	if _, err := uc.View(context.Background()); err != domainErrors.ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := uc.Add(context.Background(), 1, 1); err != domainErrors.ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if f.api.TotalCalls() != 0 {
		t.Fatal("expected no API calls without a session")
	}
}
