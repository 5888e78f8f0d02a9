package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bookmart/internal/server/http/dto"
)

// OrderHandler lists and cancels orders of the signed-in user.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler creates OrderHandler instance.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.CancelOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Payments handles GET /api/payments.
func (h *OrderHandler) Payments(c *gin.Context) {
	payments, err := h.facade.TrackedPayments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.TrackedPaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, dto.TrackedPaymentResponse{
			OrderID:   p.OrderID,
			PaymentID: p.PaymentID,
			Method:    string(p.Method),
			Status:    string(p.Status),
			CreatedAt: p.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}
