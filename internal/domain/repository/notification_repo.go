package repository

import (
	"github.com/yourusername/quizium-api/internal/domain/entity"
)

// NotificationRepository определяет методы для работы с уведомлениями
type NotificationRepository interface {
	Create(notification *entity.Notification) error
	GetByID(id uint) (*entity.Notification, error)
	ListByUser(userID uint, limit, offset int) ([]entity.Notification, int64, error)
	UpdateStatus(id uint, status string) error
}
