package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bookmart/internal/server/http/dto"
)

// CartHandler manages the cart and the checkout selection.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler creates CartHandler instance.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.facade.Cart(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CartResponse{
		ID:         cart.ID,
		Items:      toLineItems(cart.Items),
		TotalPrice: cart.TotalPrice,
	})
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := h.facade.AddToCart(c.Request.Context(), req.BookID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveItem handles DELETE /api/cart/items/:bookId.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	if err := h.facade.RemoveFromCart(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Selection handles GET /api/cart/selection.
func (h *CartHandler) Selection(c *gin.Context) {
	draft, err := h.facade.Selection(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSelectionResponse(draft))
}

// Select handles PUT /api/cart/selection.
func (h *CartHandler) Select(c *gin.Context) {
	var req dto.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request")
		return
	}
	draft, err := h.facade.SelectItems(c.Request.Context(), req.BookIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSelectionResponse(draft))
}
