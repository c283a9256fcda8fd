package notification

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/services"
	"github.com/unilink-app/unilink-api/utils/middleware"
	"github.com/unilink-app/unilink-api/utils/response"
)

// NotificationHandler handles the in-app notification feed
type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListNotifications handles GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	notifications, total, err := h.service.List(c.Context(), services.ListNotificationsOptions{
		UserID:     userID,
		UnreadOnly: c.Query("unread", "") == "true",
		Category:   c.Query("category", ""),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Paginated(c, notifications, response.CalculatePagination(page, limit, total))
}

// MarkRead handles PUT /api/v1/notifications/:notification_id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	notificationID, err := strconv.ParseUint(c.Params("notification_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid notification id")
	}

	if err := h.service.MarkRead(c.Context(), userID, uint(notificationID)); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Notification marked as read", nil)
}

// MarkAllRead handles PUT /api/v1/notifications/read
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	if err := h.service.MarkAllRead(c.Context(), userID); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "All notifications marked as read", nil)
}
