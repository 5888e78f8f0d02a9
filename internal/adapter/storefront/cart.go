package storefront

import (
	"context"
	"net/http"
	"strconv"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

type cartLineDTO struct {
	BookID   int64 `json:"bookId"`
	Quantity int   `json:"quantity"`
}

func (c *HTTPClient) Cart(ctx context.Context, userID int64) (model.Cart, error) {
	var dto cartDTO
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/v1/cart/get/" + strconv.FormatInt(userID, 10)}, &dto); err != nil {
		return model.Cart{}, err
	}
	cart := dto.toModel()
	if cart.UserID == 0 {
		cart.UserID = userID
	}
	return cart, nil
}

func (c *HTTPClient) AddToCart(ctx context.Context, userID, bookID int64, quantity int) error {
	return c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/v1/cart/add",
		body: struct {
			UserID    int64         `json:"userId"`
			CartItems []cartLineDTO `json:"cartItems"`
		}{UserID: userID, CartItems: []cartLineDTO{{BookID: bookID, Quantity: quantity}}},
	}, nil)
}

func (c *HTTPClient) RemoveFromCart(ctx context.Context, userID, bookID int64) error {
	return c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/v1/cart/remove/",
		body: struct {
			UserID int64 `json:"userId"`
			BookID int64 `json:"bookId"`
		}{UserID: userID, BookID: bookID},
	}, nil)
}
