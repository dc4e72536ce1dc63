package repositories

import (
	"time"

	"github.com/Akinkuowo/Swophere/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	CreateMessage(message *models.Message) error
	GetMessageByID(id string) (*models.Message, error)
	GetMessagesByUser(username string) ([]models.Message, error)
	GetConversation(userA, userB string) ([]models.Message, error)
	MarkConversationRead(viewer, other string) (int64, error)
	CountUnread(username string) (int64, error)
	DeleteMessage(id string) error
	DeleteConversation(userA, userB string) ([]string, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// CreateMessage inserts a new message, assigning its id and timestamp if unset
func (r *PostgresMessageRepository) CreateMessage(message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	return r.db.Create(message).Error
}

// GetMessageByID retrieves a single message
func (r *PostgresMessageRepository) GetMessageByID(id string) (*models.Message, error) {
	var message models.Message
	if err := r.db.Where("id = ?", id).First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetMessagesByUser retrieves every message sent or received by a user,
// newest first. Used by the thread projection.
func (r *PostgresMessageRepository) GetMessagesByUser(username string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("from_user = ? OR to_user = ?", username, username).
		Order("timestamp DESC").
		Find(&messages).Error
	return messages, err
}

// GetConversation retrieves all messages between two users in either
// direction, oldest first.
func (r *PostgresMessageRepository) GetConversation(userA, userB string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("(from_user = ? AND to_user = ?) OR (from_user = ? AND to_user = ?)",
		userA, userB, userB, userA).
		Order("timestamp ASC").
		Find(&messages).Error
	return messages, err
}

// MarkConversationRead marks every unread message from other to viewer as
// read and returns the number of rows changed. Idempotent.
func (r *PostgresMessageRepository) MarkConversationRead(viewer, other string) (int64, error) {
	res := r.db.Model(&models.Message{}).
		Where("from_user = ? AND to_user = ? AND read = ?", other, viewer, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

// CountUnread counts unread messages addressed to a user
func (r *PostgresMessageRepository) CountUnread(username string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("to_user = ? AND read = ?", username, false).
		Count(&count).Error
	return count, err
}

// DeleteMessage deletes a single message by id
func (r *PostgresMessageRepository) DeleteMessage(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Message{}).Error
}

// DeleteConversation deletes every message between the pair in either
// direction and returns the ids of the deleted messages so the caller can
// cascade notification deletion.
func (r *PostgresMessageRepository) DeleteConversation(userA, userB string) ([]string, error) {
	pair := "(from_user = ? AND to_user = ?) OR (from_user = ? AND to_user = ?)"

	var ids []string
	if err := r.db.Model(&models.Message{}).
		Where(pair, userA, userB, userB, userA).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	if err := r.db.Where(pair, userA, userB, userB, userA).
		Delete(&models.Message{}).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
