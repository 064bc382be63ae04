package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// NotificationRepo реализует repository.NotificationRepository
type NotificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo создает новый репозиторий уведомлений
func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create создает новое уведомление
func (r *NotificationRepo) Create(notification *entity.Notification) error {
	return r.db.Create(notification).Error
}

// GetByID возвращает уведомление по ID
func (r *NotificationRepo) GetByID(id uint) (*entity.Notification, error) {
	var notification entity.Notification
	err := r.db.First(&notification, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// ListByUser возвращает уведомления пользователя, новые первыми, с пагинацией
func (r *NotificationRepo) ListByUser(userID uint, limit, offset int) ([]entity.Notification, int64, error) {
	var notifications []entity.Notification
	var total int64

	query := r.db.Where("user_id = ?", userID)
	if err := query.Model(&entity.Notification{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// UpdateStatus обновляет статус уведомления
func (r *NotificationRepo) UpdateStatus(id uint, status string) error {
	res := r.db.Model(&entity.Notification{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
