package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Akinkuowo/Swophere/internal/models"
	"github.com/Akinkuowo/Swophere/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// MessageHandler handles direct-messaging HTTP requests
type MessageHandler struct {
	messageRepository      repositories.MessageRepository
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repositories.MessageRepository, notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *MessageHandler {
	return &MessageHandler{
		messageRepository:      messageRepo,
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterMessageRoutes registers messaging routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/messages/threads/:username", h.GetThreads)
	g.GET("/messages/unread/:username", h.GetUnreadCount)
	g.GET("/messages/:user1/:user2", h.GetConversation)
	g.POST("/messages/send", h.SendMessage)
	g.POST("/messages/mark-read", h.MarkRead)
	g.DELETE("/messages/conversation/:username/:otherUser", h.DeleteConversation)
	g.DELETE("/messages/:messageId", h.DeleteMessage)
}

// GetThreads returns the viewer's conversation summaries, newest first.
// Threads are a read-time projection over the full message set: messages
// are grouped by counterpart, keeping the most recent message per group
// and OR-ing the unread flags of incoming messages.
func (h *MessageHandler) GetThreads(c echo.Context) error {
	username := c.Param("username")

	messages, err := h.messageRepository.GetMessagesByUser(username)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	byOther := make(map[string]*models.Thread)
	var order []string

	// messages arrive newest-first, so the first one seen per counterpart
	// is the thread head and insertion order is already the sort order
	for i := range messages {
		msg := &messages[i]
		other := msg.FromUser
		if msg.FromUser == username {
			other = msg.ToUser
		}

		if thread, ok := byOther[other]; ok {
			if !msg.Read && msg.ToUser == username {
				thread.Unread = true
			}
			continue
		}

		byOther[other] = &models.Thread{
			ID:          msg.ID,
			OtherUser:   other,
			LastMessage: msg.Message,
			Timestamp:   msg.Timestamp,
			Unread:      !msg.Read && msg.ToUser == username,
		}
		order = append(order, other)
	}

	threads := make([]models.Thread, 0, len(order))
	for _, other := range order {
		threads = append(threads, *byOther[other])
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"threads": threads,
	})
}

// GetConversation returns all messages between two users oldest-first.
// Side effect: every unread message addressed to user1 from user2 is
// marked read, along with user1's matching MESSAGE notifications. The
// returned messages carry their pre-update read flags; the new state is
// visible from the next fetch on.
func (h *MessageHandler) GetConversation(c echo.Context) error {
	user1 := c.Param("user1")
	user2 := c.Param("user2")

	messages, err := h.messageRepository.GetConversation(user1, user2)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if len(messages) > 0 {
		changed, err := h.messageRepository.MarkConversationRead(user1, user2)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "Internal server error")
		}
		if changed > 0 {
			if err := h.notificationRepository.MarkMessageNotificationsRead(user1, user2); err != nil {
				log.Printf("Failed to mark message notifications read for %s: %v", user1, err)
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"messages": messages,
	})
}

// SendMessage sends a directed message and emits a best-effort MESSAGE
// notification to the recipient.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if req.FromUser == "" || req.ToUser == "" || req.Message == "" {
		return fail(c, http.StatusBadRequest, "All fields (fromUser, toUser, message) are required")
	}

	trimmed := strings.TrimSpace(req.Message)
	if trimmed == "" {
		return fail(c, http.StatusBadRequest, "Message cannot be empty")
	}

	fromUser, err := h.userRepository.GetUserByUsername(req.FromUser)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "Sender user not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	toUser, err := h.userRepository.GetUserByUsername(req.ToUser)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "Recipient user not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if req.FromUser == req.ToUser {
		return fail(c, http.StatusBadRequest, "You cannot send messages to yourself")
	}

	newMessage := &models.Message{
		FromUser:  req.FromUser,
		ToUser:    req.ToUser,
		Message:   trimmed,
		Read:      false,
		Timestamp: time.Now(),
	}
	if err := h.messageRepository.CreateMessage(newMessage); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	// Notification creation is best-effort; a failure here never fails
	// the send.
	preview := trimmed
	if runes := []rune(trimmed); len(runes) > 50 {
		preview = string(runes[:50]) + "..."
	}
	metadata, _ := json.Marshal(map[string]string{
		"senderName":     fromUser.DisplayName(),
		"messagePreview": preview,
	})
	notification := &models.Notification{
		UserID:          toUser.Username,
		Type:            models.NotificationTypeMessage,
		Title:           "New Message",
		Message:         fromUser.DisplayName() + " sent you a message",
		RelatedID:       newMessage.ID,
		RelatedUsername: req.FromUser,
		Metadata:        metadata,
	}
	if err := h.notificationRepository.CreateNotification(notification); err != nil {
		log.Printf("Failed to create in-app notification: %v", err)
	} else {
		log.Printf("In-app notification created for %s about message from %s", req.ToUser, req.FromUser)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "Message sent successfully",
		"messageId": newMessage.ID,
		"timestamp": newMessage.Timestamp,
	})
}

// MarkRead marks all messages from otherUser to username as read and
// updates the matching MESSAGE notifications. Idempotent.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	var req models.MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if req.Username == "" || req.OtherUser == "" {
		return fail(c, http.StatusBadRequest, "Username and otherUser are required")
	}

	count, err := h.messageRepository.MarkConversationRead(req.Username, req.OtherUser)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if count > 0 {
		if err := h.notificationRepository.MarkMessageNotificationsRead(req.Username, req.OtherUser); err != nil {
			log.Printf("Failed to mark message notifications read for %s: %v", req.Username, err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Messages marked as read",
		"count":   count,
	})
}

// GetUnreadCount returns the number of unread messages addressed to a user
func (h *MessageHandler) GetUnreadCount(c echo.Context) error {
	username := c.Param("username")

	unreadCount, err := h.messageRepository.CountUnread(username)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"unreadCount": unreadCount,
	})
}

// DeleteMessage deletes a single message. Only the sender may delete;
// notifications raised by the message are cascade-deleted.
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	messageID := c.Param("messageId")

	var req struct {
		Username string `json:"username"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if req.Username == "" {
		return fail(c, http.StatusBadRequest, "Username is required")
	}

	message, err := h.messageRepository.GetMessageByID(messageID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "Message not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if message.FromUser != req.Username {
		return fail(c, http.StatusForbidden, "You can only delete your own messages")
	}

	if err := h.messageRepository.DeleteMessage(messageID); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if err := h.notificationRepository.DeleteByRelatedIDs(models.NotificationTypeMessage, []string{messageID}); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Message deleted successfully",
	})
}

// DeleteConversation deletes every message between the pair and cascades
// deletion of the notifications those messages raised. Either participant
// (or anyone naming the pair) may call this; there is no authorization
// check on the route.
func (h *MessageHandler) DeleteConversation(c echo.Context) error {
	username := c.Param("username")
	otherUser := c.Param("otherUser")

	messageIDs, err := h.messageRepository.DeleteConversation(username, otherUser)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if err := h.notificationRepository.DeleteByRelatedIDs(models.NotificationTypeMessage, messageIDs); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Conversation deleted successfully",
	})
}
