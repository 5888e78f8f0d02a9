package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/pricing"
	"github.com/polkiloo/bookmart/internal/query"
)

// CatalogReadAPI is the remote surface used by the catalog.
type CatalogReadAPI interface {
	CatalogAPI
	Vouchers(ctx context.Context) ([]model.Voucher, error)
}

// CatalogUseCase lists books with their best voucher price and handles reviews.
type CatalogUseCase struct {
	api      CatalogReadAPI
	sessions SessionReader
	queries  *query.Client
	now      func() time.Time

	addReview *query.Mutation[model.Review, model.Review]
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(api CatalogReadAPI, sessions SessionReader, queries *query.Client) *CatalogUseCase {
	return &CatalogUseCase{
		api:      api,
		sessions: sessions,
		queries:  queries,
		now:      time.Now,
		addReview: query.NewMutation(queries, api.CreateReview,
			query.Invalidates(ReviewsPrefix), query.WithSuccessMessage("Thanks for your review")),
	}
}

func (u *CatalogUseCase) vouchers(ctx context.Context) ([]model.Voucher, error) {
	return query.Query(ctx, u.queries, allVouchersKey, func(ctx context.Context) ([]model.Voucher, error) {
		vouchers, err := u.api.Vouchers(ctx)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return []model.Voucher{}, nil
		}
		return vouchers, err
	})
}

func (u *CatalogUseCase) price(ctx context.Context, books []model.Book) ([]model.PricedBook, error) {
	vouchers, err := u.vouchers(ctx)
	if err != nil {
		return nil, err
	}
	now := u.now()
	priced := make([]model.PricedBook, 0, len(books))
	for _, b := range books {
		v := pricing.FindApplicable(b.ID, vouchers, now)
		p := pricing.DiscountedPrice(b.Price, v)
		priced = append(priced, model.PricedBook{
			Book:            b,
			DiscountedPrice: p.DiscountedPrice,
			Saved:           p.Saved,
			Voucher:         v,
		})
	}
	return priced, nil
}

// Books lists the catalog.
func (u *CatalogUseCase) Books(ctx context.Context) ([]model.PricedBook, error) {
	books, err := query.Query(ctx, u.queries, allBooksKey, u.api.Books)
	if err != nil {
		return nil, err
	}
	return u.price(ctx, books)
}

// Book returns one book with its best voucher price.
func (u *CatalogUseCase) Book(ctx context.Context, bookID int64) (model.PricedBook, error) {
	book, err := query.Query(ctx, u.queries, bookKey(bookID), func(ctx context.Context) (model.Book, error) {
		return u.api.Book(ctx, bookID)
	})
	if err != nil {
		return model.PricedBook{}, err
	}
	priced, err := u.price(ctx, []model.Book{book})
	if err != nil {
		return model.PricedBook{}, err
	}
	return priced[0], nil
}

// Search matches books by keyword; an empty keyword lists the catalog.
func (u *CatalogUseCase) Search(ctx context.Context, keyword string) ([]model.PricedBook, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return u.Books(ctx)
	}
	books, err := query.Query(ctx, u.queries, searchKey(strings.ToLower(keyword)), func(ctx context.Context) ([]model.Book, error) {
		return u.api.SearchBooks(ctx, keyword)
	})
	if err != nil {
		return nil, err
	}
	return u.price(ctx, books)
}

// Reviews lists the feedback on bookID.
func (u *CatalogUseCase) Reviews(ctx context.Context, bookID int64) ([]model.Review, error) {
	return query.Query(ctx, u.queries, reviewsKey(bookID), func(ctx context.Context) ([]model.Review, error) {
		reviews, err := u.api.Reviews(ctx, bookID)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return []model.Review{}, nil
		}
		return reviews, err
	})
}

// AverageRating returns the mean rating of bookID, zero without reviews.
func (u *CatalogUseCase) AverageRating(ctx context.Context, bookID int64) (float64, error) {
	return query.Query(ctx, u.queries, ratingKey(bookID), func(ctx context.Context) (float64, error) {
		avg, err := u.api.AverageRating(ctx, bookID)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return 0, nil
		}
		return avg, err
	})
}

// AddReview posts feedback of the signed-in customer.
func (u *CatalogUseCase) AddReview(ctx context.Context, bookID int64, rating int, comment string) (model.Review, error) {
	s := u.sessions.Current()
	if !s.Active() {
		return model.Review{}, domainErrors.ErrNoSession
	}
	if rating < 1 || rating > 5 {
		return model.Review{}, domainErrors.Invalid("rating", "rating must be between 1 and 5")
	}
	return u.addReview.Run(ctx, model.Review{
		BookID:     bookID,
		CustomerID: s.UserID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	})
}
