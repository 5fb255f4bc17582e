package handler

import (
	"net/http"

	"animedrop/internal/microservices/http-api/dto"
	"animedrop/internal/microservices/http-api/middleware"
	"animedrop/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// RegisterRoutes expects rg to be authenticated already.
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/unread-count", h.UnreadCount)
	rg.PUT("/read-all", h.MarkAllRead)
	rg.PUT("/:id/read", h.MarkRead)
	rg.DELETE("/:id", h.Delete)
}

func (h *NotificationHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.svc.List(ctx, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Notifications retrieved", dto.FromModelsToNotificationResponses(list))
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.svc.UnreadCount(ctx, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Unread count retrieved", dto.UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	n, err := h.svc.MarkRead(ctx, c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification marked as read", dto.FromModelToNotificationResponse(n))
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.svc.MarkAllRead(ctx, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "All notifications marked as read")
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Notification deleted")
}
