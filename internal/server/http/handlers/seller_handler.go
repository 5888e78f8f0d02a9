package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/server/http/dto"
)

const imageField = "image"

// SellerHandler manages vouchers and book covers.
type SellerHandler struct {
	facade SellerFacade
}

// NewSellerHandler creates SellerHandler instance.
func NewSellerHandler(facade SellerFacade) *SellerHandler {
	return &SellerHandler{facade: facade}
}

// Vouchers handles GET /api/seller/vouchers.
func (h *SellerHandler) Vouchers(c *gin.Context) {
	vouchers, err := h.facade.SellerVouchers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.VoucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		resp = append(resp, toVoucherResponse(v))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateVoucher handles POST /api/seller/vouchers.
func (h *SellerHandler) CreateVoucher(c *gin.Context) {
	var req dto.NewVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request")
		return
	}
	v, err := h.facade.CreateVoucher(c.Request.Context(), model.NewVoucher{
		Code:           req.Code,
		DiscountAmount: req.DiscountAmount,
		IsPercentage:   req.IsPercentage,
		MinOrderValue:  req.MinOrderValue,
		ExpiryDate:     req.ExpiryDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toVoucherResponse(v))
}

// AssignBooks handles PUT /api/seller/vouchers/:id/books.
func (h *SellerHandler) AssignBooks(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request")
		return
	}
	if err := h.facade.AssignVoucherBooks(c.Request.Context(), id, req.BookIDs); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteVoucher handles DELETE /api/seller/vouchers/:id.
func (h *SellerHandler) DeleteVoucher(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.DeleteVoucher(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage handles POST /api/books/:id/image with a multipart "image" file.
func (h *SellerHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	header, err := c.FormFile(imageField)
	if err != nil {
		badRequest(c, "image file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, "image file is unreadable")
		return
	}
	defer file.Close()

	img, err := h.facade.UploadBookImage(c.Request.Context(), id, header.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ImageResponse{
		MIME:    img.MIME,
		Size:    len(img.Data),
		DataURL: img.DataURL(),
	})
}
