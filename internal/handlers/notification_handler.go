package handlers

import (
	"net/http"
	"strconv"

	"github.com/Akinkuowo/Swophere/internal/models"
	"github.com/Akinkuowo/Swophere/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// NotificationHandler handles notification-related HTTP requests.
// Notifications are only ever created as side effects of messaging and
// agreement operations; these routes read, flag and delete them.
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications/:username", h.GetNotifications)
	g.GET("/notifications/:username/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:username/mark-all-read", h.MarkAllAsRead)
	g.PUT("/notifications/:username/read", h.MarkAsRead) // :username is the notification id here
	g.DELETE("/notifications/:username/clear-all", h.ClearAll)
	g.DELETE("/notifications/:username", h.DeleteNotification) // :username is the notification id here
}

// GetNotifications returns one page of a user's notifications, the total
// matching the filter, and the user's overall unread count.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	username := c.Param("username")

	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	unreadOnly := c.QueryParam("unreadOnly") == "true"

	notifications, total, err := h.notificationRepository.GetByUser(username, limit, offset, unreadOnly)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	// unread count is independent of the unreadOnly filter
	unreadCount, err := h.notificationRepository.GetUnreadCount(username)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"notifications": notifications,
		"pagination": echo.Map{
			"total":   total,
			"limit":   limit,
			"offset":  offset,
			"hasMore": total > int64(offset+limit),
		},
		"unreadCount": unreadCount,
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	username := c.Param("username")

	unreadCount, err := h.notificationRepository.GetUnreadCount(username)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"unreadCount": unreadCount,
	})
}

// MarkAsRead marks a single notification as read. Only the owner may do
// this. Idempotent.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	notificationID := c.Param("username")

	var req models.NotificationOwnerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if req.Username == "" {
		return fail(c, http.StatusBadRequest, "Username is required")
	}

	notification, err := h.notificationRepository.GetNotificationByID(notificationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "Notification not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if notification.UserID != req.Username {
		return fail(c, http.StatusForbidden, "Not authorized to modify this notification")
	}

	if err := h.notificationRepository.MarkAsRead(notificationID); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	notification.IsRead = true

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"notification": notification,
	})
}

// MarkAllAsRead marks every unread notification owned by a user as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	username := c.Param("username")

	count, err := h.notificationRepository.MarkAllAsRead(username)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "All notifications marked as read",
		"count":   count,
	})
}

// DeleteNotification hard-deletes a single notification, owner-only
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	notificationID := c.Param("username")

	var req models.NotificationOwnerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if req.Username == "" {
		return fail(c, http.StatusBadRequest, "Username is required")
	}

	notification, err := h.notificationRepository.GetNotificationByID(notificationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "Notification not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if notification.UserID != req.Username {
		return fail(c, http.StatusForbidden, "Not authorized to delete this notification")
	}

	if err := h.notificationRepository.DeleteNotification(notificationID); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Notification deleted successfully",
	})
}

// ClearAll hard-deletes every notification owned by a user
func (h *NotificationHandler) ClearAll(c echo.Context) error {
	username := c.Param("username")

	count, err := h.notificationRepository.ClearAll(username)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "All notifications cleared",
		"count":   count,
	})
}
