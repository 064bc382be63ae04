package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// MockNotificationRepository реализует repository.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(notification *entity.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(id uint) (*entity.Notification, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListByUser(userID uint, limit, offset int) ([]entity.Notification, int64, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) UpdateStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func TestMarkAsRead_OwnNotification(t *testing.T) {
	notificationRepo := new(MockNotificationRepository)
	s := &NotificationService{notificationRepo: notificationRepo}

	notification := &entity.Notification{ID: 7, UserID: 20, Status: entity.NotificationStatusSent}
	notificationRepo.On("GetByID", uint(7)).Return(notification, nil)
	notificationRepo.On("UpdateStatus", uint(7), entity.NotificationStatusRead).Return(nil)

	updated, err := s.MarkAsRead(7, 20)

	require.NoError(t, err)
	assert.True(t, updated.IsRead())
}

func TestMarkAsRead_ForeignNotification_Forbidden(t *testing.T) {
	notificationRepo := new(MockNotificationRepository)
	s := &NotificationService{notificationRepo: notificationRepo}

	notification := &entity.Notification{ID: 7, UserID: 20, Status: entity.NotificationStatusSent}
	notificationRepo.On("GetByID", uint(7)).Return(notification, nil)

	_, err := s.MarkAsRead(7, 99)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	notificationRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestSendRetakeReminders_CreatesNotificationPerDueQuiz(t *testing.T) {
	// Arrange: одна викторина просрочена, вторая еще нет
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	resultRepo := new(MockResultRepository)
	quizRepo := new(MockQuizRepository)
	roles := new(MockRoleChecker)

	analytics := createTestAnalyticsService(resultRepo, quizRepo, roles)
	s := NewNotificationService(notificationRepo, userRepo, analytics, &NoopEmailService{})

	now := time.Date(2025, 6, 10, 3, 0, 0, 0, time.UTC)
	userRepo.On("ListAll").Return([]entity.User{{ID: 20, Email: "u@example.com"}}, nil)
	resultRepo.On("GetByUser", uint(20)).Return([]entity.Result{
		resultAt(20, 3, 50, now.Add(-8*24*time.Hour)),
		resultAt(20, 4, 70, now.Add(-24*time.Hour)),
	}, nil)
	quizRepo.On("GetByID", uint(3)).Return(&entity.Quiz{ID: 3, Name: "Safety basics", FrequencyDays: 7}, nil)
	quizRepo.On("GetByID", uint(4)).Return(&entity.Quiz{ID: 4, Name: "Fire drill", FrequencyDays: 7}, nil)
	notificationRepo.On("Create", mock.MatchedBy(func(n *entity.Notification) bool {
		return n.UserID == 20 && n.Text == `You have to take the quiz "Safety basics"!`
	})).Return(nil)

	// Act
	err := s.SendRetakeReminders(context.Background(), now)

	// Assert
	require.NoError(t, err)
	notificationRepo.AssertNumberOfCalls(t, "Create", 1)
}
