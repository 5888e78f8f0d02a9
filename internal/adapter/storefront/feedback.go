package storefront

import (
	"context"
	"net/http"
	"strconv"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

func (c *HTTPClient) CreateReview(ctx context.Context, r model.Review) (model.Review, error) {
	var dto reviewDTO
	err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/feedbacks/create",
		body: struct {
			CustomerID int64  `json:"customerId"`
			BookID     int64  `json:"bookId"`
			Rating     int    `json:"rating"`
			Comment    string `json:"comment"`
		}{CustomerID: r.CustomerID, BookID: r.BookID, Rating: r.Rating, Comment: r.Comment},
	}, &dto)
	if err != nil {
		return model.Review{}, err
	}
	return dto.toModel(), nil
}

// Reviews returns the feedback left on bookID. The API only lists all feedback,
// so the result is filtered here.
func (c *HTTPClient) Reviews(ctx context.Context, bookID int64) ([]model.Review, error) {
	var dtos []reviewDTO
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/feedbacks/getall"}, &dtos); err != nil {
		return nil, err
	}
	reviews := make([]model.Review, 0, len(dtos))
	for _, d := range dtos {
		if d.BookID == bookID {
			reviews = append(reviews, d.toModel())
		}
	}
	return reviews, nil
}

// AverageRating returns zero for a book without feedback.
func (c *HTTPClient) AverageRating(ctx context.Context, bookID int64) (float64, error) {
	var avg float64
	err := c.call(ctx, request{method: http.MethodGet, path: "/api/feedbacks/average-rating/" + strconv.FormatInt(bookID, 10)}, &avg)
	return avg, err
}
