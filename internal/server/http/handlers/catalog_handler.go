package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bookmart/internal/server/http/dto"
)

// CatalogHandler serves books, reviews and ratings.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler creates CatalogHandler instance.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// List handles GET /api/books, optionally filtered by ?q.
func (h *CatalogHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	keyword := strings.TrimSpace(c.Query("q"))

	var (
		resp []dto.BookResponse
		err  error
	)
	if keyword == "" {
		books, listErr := h.facade.Books(ctx)
		resp, err = toBookResponses(books), listErr
	} else {
		books, searchErr := h.facade.SearchBooks(ctx, keyword)
		resp, err = toBookResponses(books), searchErr
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/books/:id.
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	book, err := h.facade.Book(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookResponse(book))
}

// Reviews handles GET /api/books/:id/reviews.
func (h *CatalogHandler) Reviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviews, err := h.facade.Reviews(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		resp = append(resp, toReviewResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

// Rating handles GET /api/books/:id/rating.
func (h *CatalogHandler) Rating(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	avg, err := h.facade.AverageRating(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RatingResponse{BookID: id, Average: avg})
}

// AddReview handles POST /api/books/:id/reviews.
func (h *CatalogHandler) AddReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request")
		return
	}
	review, err := h.facade.AddReview(c.Request.Context(), id, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(review))
}
