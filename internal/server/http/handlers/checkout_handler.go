package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/server/http/dto"
)

// CheckoutHandler prices the selection and places orders.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler creates CheckoutHandler instance.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Vouchers handles GET /api/checkout/vouchers?tab=&q=.
func (h *CheckoutHandler) Vouchers(c *gin.Context) {
	tab := model.VoucherTab(strings.ToLower(c.DefaultQuery("tab", string(model.TabAll))))
	switch tab {
	case model.TabAll, model.TabUsable, model.TabUnusable:
	default:
		badRequest(c, "unknown tab")
		return
	}

	list, err := h.facade.Vouchers(c.Request.Context(), tab, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVoucherListResponse(list))
}

// ApplyVoucher handles POST /api/checkout/voucher.
func (h *CheckoutHandler) ApplyVoucher(c *gin.Context) {
	var req dto.ApplyVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VoucherID <= 0 {
		badRequest(c, "malformed request")
		return
	}
	quote, err := h.facade.ApplyVoucher(c.Request.Context(), req.VoucherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// ClearVoucher handles DELETE /api/checkout/voucher.
func (h *CheckoutHandler) ClearVoucher(c *gin.Context) {
	if err := h.facade.ClearVoucher(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Quote handles GET /api/checkout/quote.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	quote, err := h.facade.Quote(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// Submit handles POST /api/checkout.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request")
		return
	}

	method := model.PaymentMethod(strings.ToUpper(req.Method))
	if method == "" {
		method = model.PaymentCOD
	}
	if method != model.PaymentCOD && method != model.PaymentMoMo {
		badRequest(c, "unknown payment method")
		return
	}

	result, err := h.facade.Submit(c.Request.Context(), model.ShippingInfo{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Note:     req.Note,
	}, method)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CheckoutResponse{
		Order:   toOrderResponse(result.Order),
		Payment: toPaymentResponse(result.Payment),
	})
}

// PaymentReturn handles GET /api/payments/momo/return, the page the payment
// gateway redirects to.
func (h *CheckoutHandler) PaymentReturn(c *gin.Context) {
	result, err := h.facade.PaymentCallback(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CallbackResponse{
		OrderID: result.OrderID,
		Success: result.Success,
		Message: result.Message,
	})
}
