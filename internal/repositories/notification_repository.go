package repositories

import (
	"time"

	"github.com/Akinkuowo/Swophere/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetNotificationByID(id string) (*models.Notification, error)
	GetByUser(username string, limit, offset int, unreadOnly bool) ([]models.Notification, int64, error)
	GetUnreadCount(username string) (int64, error)
	MarkAsRead(id string) error
	MarkAllAsRead(username string) (int64, error)
	MarkMessageNotificationsRead(username, relatedUsername string) error
	DeleteNotification(id string) error
	DeleteByRelatedIDs(notifType string, relatedIDs []string) error
	ClearAll(username string) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a NotificationRepository backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetNotificationByID(id string) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.Where("id = ?", id).First(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// GetByUser returns one page of a user's notifications newest-first along
// with the total count matching the filter.
func (r *postgresNotificationRepository) GetByUser(username string, limit, offset int, unreadOnly bool) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := r.db.Model(&models.Notification{}).Where("user_id = ?", username)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(username string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", username, false).
		Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(id string) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *postgresNotificationRepository) MarkAllAsRead(username string) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", username, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// MarkMessageNotificationsRead marks a user's unread MESSAGE notifications
// about a given counterpart as read. Called when the user views the
// conversation with that counterpart.
func (r *postgresNotificationRepository) MarkMessageNotificationsRead(username, relatedUsername string) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND related_username = ? AND is_read = ?",
			username, models.NotificationTypeMessage, relatedUsername, false).
		Update("is_read", true).Error
}

func (r *postgresNotificationRepository) DeleteNotification(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Notification{}).Error
}

// DeleteByRelatedIDs deletes notifications of a given type whose related
// entity is among the given ids. Used to cascade message deletion.
func (r *postgresNotificationRepository) DeleteByRelatedIDs(notifType string, relatedIDs []string) error {
	if len(relatedIDs) == 0 {
		return nil
	}
	return r.db.Where("type = ? AND related_id IN ?", notifType, relatedIDs).
		Delete(&models.Notification{}).Error
}

func (r *postgresNotificationRepository) ClearAll(username string) (int64, error) {
	res := r.db.Where("user_id = ?", username).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
