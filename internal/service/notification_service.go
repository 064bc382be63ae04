package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	"github.com/yourusername/quizium-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// NotificationService предоставляет методы для работы с уведомлениями
// и фоновый обход напоминаний о повторном прохождении викторин.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	analytics        *AnalyticsService
	emailService     EmailService
}

// NewNotificationService создает новый сервис уведомлений
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	analytics *AnalyticsService,
	emailService EmailService,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		analytics:        analytics,
		emailService:     emailService,
	}
}

// ListUserNotifications возвращает уведомления пользователя
func (s *NotificationService) ListUserNotifications(userID uint, page, pageSize int) ([]entity.Notification, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	return s.notificationRepo.ListByUser(userID, limit, offset)
}

// MarkAsRead помечает уведомление прочитанным. Только свое уведомление.
func (s *NotificationService) MarkAsRead(notificationID, actorID uint) (*entity.Notification, error) {
	notification, err := s.notificationRepo.GetByID(notificationID)
	if err != nil {
		return nil, err
	}
	if notification.UserID != actorID {
		return nil, fmt.Errorf("%w: users can only read their own notifications", apperrors.ErrForbidden)
	}

	if err := s.notificationRepo.UpdateStatus(notificationID, entity.NotificationStatusRead); err != nil {
		return nil, err
	}
	notification.Status = entity.NotificationStatusRead
	return notification, nil
}

// SendRetakeReminders обходит всех пользователей и создает уведомления о
// викторинах, которые пора пройти снова (с последней попытки прошло больше
// frequency_days). Отправка письма — best-effort: ошибка логируется и не
// останавливает обход.
func (s *NotificationService) SendRetakeReminders(ctx context.Context, now time.Time) error {
	users, err := s.userRepo.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	reminded := 0
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		due, err := s.analytics.QuizzesDueForUser(user.ID, now)
		if err != nil {
			log.Printf("[NotificationService] Не удалось определить викторины для пользователя %d: %v", user.ID, err)
			continue
		}

		for _, quiz := range due {
			notification := &entity.Notification{
				UserID: user.ID,
				Text:   fmt.Sprintf("You have to take the quiz %q!", quiz.Name),
				Status: entity.NotificationStatusSent,
			}
			if err := s.notificationRepo.Create(notification); err != nil {
				log.Printf("[NotificationService] Не удалось создать уведомление для пользователя %d: %v", user.ID, err)
				continue
			}
			reminded++

			if err := s.emailService.SendRetakeReminder(ctx, user.Email, quiz.Name, quiz.FrequencyDays); err != nil {
				log.Printf("[NotificationService] Не удалось отправить письмо пользователю %d: %v", user.ID, err)
			}
		}
	}

	if reminded > 0 {
		log.Printf("[NotificationService] Создано напоминаний о повторном прохождении: %d", reminded)
	}
	return nil
}
