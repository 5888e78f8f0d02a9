package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

// AvailableVouchers lists the vouchers offered to a user for an order value.
func (c *HTTPClient) AvailableVouchers(ctx context.Context, userID int64, orderValue decimal.Decimal) ([]model.Voucher, error) {
	var dtos []voucherDTO
	err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/discounts/available",
		body: struct {
			UserID     int64           `json:"userId"`
			OrderValue decimal.Decimal `json:"orderValue"`
		}{UserID: userID, OrderValue: orderValue},
	}, &dtos)
	if err != nil {
		return nil, err
	}
	return toVouchers(dtos), nil
}

func (c *HTTPClient) Vouchers(ctx context.Context) ([]model.Voucher, error) {
	var dtos []voucherDTO
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/discounts/all"}, &dtos); err != nil {
		return nil, err
	}
	return toVouchers(dtos), nil
}

// RecordVoucherUsage tells the API that userID spent voucherID on an order.
func (c *HTTPClient) RecordVoucherUsage(ctx context.Context, userID, voucherID int64) error {
	return c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/discounts/add-user/" + strconv.FormatInt(voucherID, 10),
		query:  url.Values{"userId": {strconv.FormatInt(userID, 10)}},
	}, nil)
}

func (c *HTTPClient) CreateVoucher(ctx context.Context, v model.NewVoucher) (model.Voucher, error) {
	var dto voucherDTO
	err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/discounts/create",
		body: newVoucherDTO{
			Code:           v.Code,
			DiscountAmount: v.DiscountAmount,
			Percentage:     v.IsPercentage,
			MinOrderValue:  v.MinOrderValue,
			ExpiryDate:     Timestamp{Time: v.ExpiryDate},
			Active:         true,
		},
	}, &dto)
	if err != nil {
		return model.Voucher{}, err
	}
	return dto.toModel(), nil
}

// AssignVoucherBooks replaces the list of books a voucher applies to.
func (c *HTTPClient) AssignVoucherBooks(ctx context.Context, voucherID int64, bookIDs []int64) error {
	if bookIDs == nil {
		bookIDs = []int64{}
	}
	return c.call(ctx, request{
		method: http.MethodPut,
		path:   "/api/discounts/books-applicable/" + strconv.FormatInt(voucherID, 10),
		body: struct {
			BookIDs []int64 `json:"bookIds"`
		}{BookIDs: bookIDs},
	}, nil)
}

func (c *HTTPClient) DeleteVoucher(ctx context.Context, voucherID int64) error {
	return c.call(ctx, request{method: http.MethodDelete, path: "/api/discounts/delete/" + strconv.FormatInt(voucherID, 10)}, nil)
}
