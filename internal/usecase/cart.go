package usecase

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/domain/repository"
	"github.com/polkiloo/bookmart/internal/query"
)

type cartLine struct {
	userID   int64
	bookID   int64
	quantity int
}

// CartUseCase reads and edits the remote cart and keeps the checkout selection.
type CartUseCase struct {
	api      CartAPI
	sessions SessionReader
	queries  *query.Client
	drafts   repository.DraftRepository
	now      func() time.Time

	add    *query.Mutation[cartLine, struct{}]
	remove *query.Mutation[cartLine, struct{}]
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(api CartAPI, sessions SessionReader, queries *query.Client, drafts repository.DraftRepository) *CartUseCase {
	return &CartUseCase{
		api:      api,
		sessions: sessions,
		queries:  queries,
		drafts:   drafts,
		now:      time.Now,
		add: query.NewMutation(queries, func(ctx context.Context, l cartLine) (struct{}, error) {
			return struct{}{}, api.AddToCart(ctx, l.userID, l.bookID, l.quantity)
		}, query.Invalidates(CartPrefix), query.WithSuccessMessage("Added to cart")),
		remove: query.NewMutation(queries, func(ctx context.Context, l cartLine) (struct{}, error) {
			return struct{}{}, api.RemoveFromCart(ctx, l.userID, l.bookID)
		}, query.Invalidates(CartPrefix)),
	}
}

func (u *CartUseCase) userID() (int64, error) {
	s := u.sessions.Current()
	if !s.Active() {
		return 0, domainErrors.ErrNoSession
	}
	return s.UserID, nil
}

// View returns the cart of the signed-in user.
func (u *CartUseCase) View(ctx context.Context) (model.Cart, error) {
	userID, err := u.userID()
	if err != nil {
		return model.Cart{}, err
	}
	return loadCart(ctx, u.queries, u.api, userID)
}

func loadCart(ctx context.Context, queries *query.Client, api CartAPI, userID int64) (model.Cart, error) {
	return query.Query(ctx, queries, CartKey(userID), func(ctx context.Context) (model.Cart, error) {
		return api.Cart(ctx, userID)
	})
}

// Add puts quantity copies of bookID into the cart.
func (u *CartUseCase) Add(ctx context.Context, bookID int64, quantity int) error {
	userID, err := u.userID()
	if err != nil {
		return err
	}
	if bookID <= 0 {
		return domainErrors.Invalid("bookId", "book is required")
	}
	if quantity <= 0 {
		return domainErrors.Invalid("quantity", "quantity must be positive")
	}
	_, err = u.add.Run(ctx, cartLine{userID: userID, bookID: bookID, quantity: quantity})
	return err
}

// Remove drops bookID from the cart and from the checkout selection.
func (u *CartUseCase) Remove(ctx context.Context, bookID int64) error {
	userID, err := u.userID()
	if err != nil {
		return err
	}
	if _, err := u.remove.Run(ctx, cartLine{userID: userID, bookID: bookID}); err != nil {
		return err
	}

	draft, err := u.drafts.Get(ctx, userID)
	if err != nil {
		return err
	}
	kept := draft.SelectedBookIDs[:0:0]
	for _, id := range draft.SelectedBookIDs {
		if id != bookID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(draft.SelectedBookIDs) {
		return nil
	}
	draft.SelectedBookIDs = kept
	draft.UpdatedAt = u.now()
	return u.drafts.Save(ctx, *draft)
}

// Select stores which cart items go to checkout. Unknown and duplicate ids are
// dropped; cart order is kept.
func (u *CartUseCase) Select(ctx context.Context, bookIDs []int64) (model.CheckoutDraft, error) {
	userID, err := u.userID()
	if err != nil {
		return model.CheckoutDraft{}, err
	}
	cart, err := loadCart(ctx, u.queries, u.api, userID)
	if err != nil {
		return model.CheckoutDraft{}, err
	}

	selected := make([]int64, 0, len(bookIDs))
	for _, item := range cart.Selected(bookIDs) {
		selected = append(selected, item.BookID)
	}

	draft, err := u.drafts.Get(ctx, userID)
	if err != nil {
		return model.CheckoutDraft{}, err
	}
	draft.UserID = userID
	draft.SelectedBookIDs = selected
	draft.UpdatedAt = u.now()
	if err := u.drafts.Save(ctx, *draft); err != nil {
		return model.CheckoutDraft{}, err
	}
	return *draft, nil
}

// Selection returns the stored checkout draft.
func (u *CartUseCase) Selection(ctx context.Context) (model.CheckoutDraft, error) {
	userID, err := u.userID()
	if err != nil {
		return model.CheckoutDraft{}, err
	}
	draft, err := u.drafts.Get(ctx, userID)
	if err != nil {
		return model.CheckoutDraft{}, err
	}
	return *draft, nil
}
