package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nivedh-git/attendsysbackend/models"
	"gorm.io/gorm"
)

// NotificationRepository handles database operations for stored notifications
type NotificationRepository struct {
	DB *gorm.DB
}

// Ensure NotificationRepository implements NotificationRepositoryInterface
var _ NotificationRepositoryInterface = (*NotificationRepository)(nil)

// NewNotificationRepository creates a new instance of NotificationRepository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

// Create stores a notification, assigning a UUID if the caller did not
func (r *NotificationRepository) Create(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt == 0 {
		notification.CreatedAt = time.Now().Unix()
	}
	if notification.Severity == "" {
		notification.Severity = models.SeverityInfo
	}

	err := r.DB.Create(notification).Error
	if err != nil {
		return fmt.Errorf("failed to create notification for identity %d: %w", notification.IdentityID, err)
	}
	return nil
}

// ListByIdentity retrieves notifications for an identity, newest first
func (r *NotificationRepository) ListByIdentity(identityID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.DB.Where("identity_id = ?", identityID).Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for identity %d: %w", identityID, err)
	}
	return notifications, nil
}

// MarkRead flags a notification as read
func (r *NotificationRepository) MarkRead(id string) error {
	result := r.DB.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
