package services

import (
	"context"

	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/pkg/logger"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PersistentNotificationSink writes one notification row per delivered
// user. Rows stay until the user marks them read.
type PersistentNotificationSink struct {
	db *gorm.DB
}

func NewPersistentNotificationSink(db *gorm.DB) *PersistentNotificationSink {
	return &PersistentNotificationSink{db: db}
}

func (s *PersistentNotificationSink) Deliver(ctx context.Context, user *models.User, activity *models.Activity, title, description string, params map[string]interface{}) {
	notification := models.Notification{
		UserID:      user.ID,
		ActivityID:  activity.ID,
		Title:       title,
		Description: description,
		Params:      params,
	}
	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		logger.Error("notification_persist_failed", err, map[string]interface{}{
			"user_id":     user.ID,
			"activity_id": activity.ID,
		})
		return
	}
	logger.Info("notification_delivered", map[string]interface{}{
		"user_id":     user.ID,
		"activity_id": activity.ID,
		"title":       title,
		"description": description,
	})
}

// NotificationService backs the per-user notification feed endpoints.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, p utils.PaginationParams) ([]models.Notification, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := utils.ApplyPagination(query.Order("created_at DESC"), p).Find(&notifications).Error
	return notifications, total, err
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flips one notification owned by the user. Returns
// gorm.ErrRecordNotFound when the row does not exist or belongs to
// someone else.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "updated_at": gorm.Expr("NOW()")})
	return result.RowsAffected, result.Error
}
