package storefront

import (
	"context"
	"net/http"
	"strconv"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

func (c *HTTPClient) CreateOrder(ctx context.Context, r model.OrderRequest) (model.Order, error) {
	var dto orderDTO
	if err := c.call(ctx, request{method: http.MethodPost, path: "/api/orders/create", body: newOrderRequest(r)}, &dto); err != nil {
		return model.Order{}, err
	}
	return dto.toModel(), nil
}

func (c *HTTPClient) Orders(ctx context.Context, customerID int64) ([]model.Order, error) {
	var dtos []orderDTO
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/orders/customer/" + strconv.FormatInt(customerID, 10)}, &dtos); err != nil {
		return nil, err
	}
	orders := make([]model.Order, 0, len(dtos))
	for _, d := range dtos {
		orders = append(orders, d.toModel())
	}
	return orders, nil
}

func (c *HTTPClient) Order(ctx context.Context, id int64) (model.Order, error) {
	var dto orderDTO
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/orders/getbyid/" + strconv.FormatInt(id, 10)}, &dto); err != nil {
		return model.Order{}, err
	}
	return dto.toModel(), nil
}

func (c *HTTPClient) CancelOrder(ctx context.Context, id int64) error {
	return c.call(ctx, request{method: http.MethodPost, path: "/api/orders/cancel/" + strconv.FormatInt(id, 10)}, nil)
}
