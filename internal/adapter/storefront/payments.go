package storefront

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

// CreateCODPayment registers a cash-on-delivery payment for order.
func (c *HTTPClient) CreateCODPayment(ctx context.Context, order model.Order, discount decimal.Decimal) (model.Payment, error) {
	var dto paymentDTO
	err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/payments/create",
		body: struct {
			OrderID  int64           `json:"orderId"`
			Amount   decimal.Decimal `json:"amount"`
			Method   string          `json:"method"`
			Discount decimal.Decimal `json:"discount"`
		}{OrderID: order.ID, Amount: order.TotalAmount, Method: string(model.PaymentCOD), Discount: discount},
	}, &dto)
	if err != nil {
		return model.Payment{}, err
	}
	payment := dto.toModel()
	if payment.OrderID == 0 {
		payment.OrderID = order.ID
	}
	if payment.Method == "" {
		payment.Method = model.PaymentCOD
	}
	return payment, nil
}

type momoCreateResponse struct {
	PayURL     string `json:"payUrl"`
	ResultCode any    `json:"resultCode"`
	Message    string `json:"message"`
}

// CreateMoMoPayment starts an online payment and returns the URL the buyer must open.
func (c *HTTPClient) CreateMoMoPayment(ctx context.Context, order model.Order, discount decimal.Decimal, urls model.PaymentURLs) (model.Payment, error) {
	var resp momoCreateResponse
	err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/payments/momo/create",
		body: struct {
			TransactionID string          `json:"transactionId"`
			OrderID       int64           `json:"orderId"`
			OrderInfo     string          `json:"orderInfo"`
			Discount      decimal.Decimal `json:"discount"`
			ReturnURL     string          `json:"returnUrl"`
			NotifyURL     string          `json:"notifyUrl"`
		}{
			TransactionID: order.TransactionID,
			OrderID:       order.ID,
			OrderInfo:     fmt.Sprintf("Payment for order %d", order.ID),
			Discount:      discount,
			ReturnURL:     urls.ReturnURL,
			NotifyURL:     urls.NotifyURL,
		},
	}, &resp)
	if err != nil {
		return model.Payment{}, err
	}

	code := fmt.Sprint(resp.ResultCode)
	if (code != "0" && code != "00") || resp.PayURL == "" {
		message := resp.Message
		if message == "" {
			message = "payment gateway rejected the request"
		}
		return model.Payment{}, &APIError{Status: http.StatusBadGateway, Message: message}
	}

	return model.Payment{
		OrderID: order.ID,
		Method:  model.PaymentMoMo,
		Amount:  order.TotalAmount,
		Status:  model.PaymentPending,
		PayURL:  resp.PayURL,
	}, nil
}

// MoMoCallback forwards the gateway redirect parameters to the API.
func (c *HTTPClient) MoMoCallback(ctx context.Context, params url.Values) error {
	body := make(map[string]string, len(params))
	for key := range params {
		body[key] = params.Get(key)
	}
	return c.call(ctx, request{method: http.MethodPost, path: "/api/payments/momo/callback", body: body}, nil)
}

func (c *HTTPClient) Payment(ctx context.Context, id int64) (model.Payment, error) {
	var dto paymentDTO
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/payments/get/" + strconv.FormatInt(id, 10)}, &dto); err != nil {
		return model.Payment{}, err
	}
	return dto.toModel(), nil
}
