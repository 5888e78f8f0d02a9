package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NotificationHandler drains user facing messages.
type NotificationHandler struct {
	facade NotificationFacade
}

// NewNotificationHandler creates NotificationHandler instance.
func NewNotificationHandler(facade NotificationFacade) *NotificationHandler {
	return &NotificationHandler{facade: facade}
}

// List handles GET /api/notifications. Every message is returned once.
func (h *NotificationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.facade.Notifications())
}
