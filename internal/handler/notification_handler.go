package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizium-api/internal/middleware"
	"github.com/yourusername/quizium-api/internal/service"
)

// NotificationHandler обрабатывает запросы уведомлений
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler создает новый обработчик уведомлений
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListMyNotifications возвращает уведомления текущего пользователя
func (h *NotificationHandler) ListMyNotifications(c *gin.Context) {
	page, pageSize := pagination(c)

	notifications, total, err := h.notificationService.ListUserNotifications(middleware.UserID(c), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "total": total, "page": page, "page_size": pageSize})
}

// MarkAsRead помечает уведомление прочитанным
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	notification, err := h.notificationService.MarkAsRead(paramUint(c, "notificationID"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}
