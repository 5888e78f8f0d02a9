package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/server/http/dto"
	"github.com/polkiloo/bookmart/internal/server/http/middleware"
)

const tokenMaxAge = 24 * 60 * 60

// SessionHandler processes sign in, sign out and registration.
type SessionHandler struct {
	facade SessionFacade
}

// NewSessionHandler creates SessionHandler instance.
func NewSessionHandler(facade SessionFacade) *SessionHandler {
	return &SessionHandler{facade: facade}
}

// Login handles POST /api/session.
func (h *SessionHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request")
		return
	}

	session, token, err := h.facade.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token, tokenMaxAge)
	c.JSON(http.StatusOK, dto.SessionResponse{UserID: session.UserID, Role: string(session.Role)})
}

// Logout handles DELETE /api/session.
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.facade.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	middleware.ClearAuthCookie(c)
	c.Status(http.StatusNoContent)
}

// Current handles GET /api/session.
func (h *SessionHandler) Current(c *gin.Context) {
	session, err := h.facade.CurrentSession()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{UserID: session.UserID, Role: string(session.Role)})
}

// Profile handles GET /api/session/profile.
func (h *SessionHandler) Profile(c *gin.Context) {
	customer, err := h.facade.Profile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{
		ID:       customer.ID,
		Username: customer.Username,
		FullName: customer.FullName,
		Email:    customer.Email,
		Phone:    customer.Phone,
		Address:  customer.Address,
	})
}

// BeginRegistration handles POST /api/registration.
func (h *SessionHandler) BeginRegistration(c *gin.Context) {
	var req dto.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request")
		return
	}

	err := h.facade.BeginRegistration(c.Request.Context(), model.Registration{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
		Phone:           req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// CompleteRegistration handles POST /api/registration/verify.
func (h *SessionHandler) CompleteRegistration(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request")
		return
	}
	if err := h.facade.CompleteRegistration(c.Request.Context(), req.Email, req.OTP); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// ForgotPassword handles POST /api/password/forgot.
func (h *SessionHandler) ForgotPassword(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request")
		return
	}
	if err := h.facade.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
