package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// Моки объявлены в action_service_test.go и quiz_service_test.go

func createTestAnalyticsService(
	resultRepo *MockResultRepository,
	quizRepo *MockQuizRepository,
	roles *MockRoleChecker,
) *AnalyticsService {
	return &AnalyticsService{
		resultRepo: resultRepo,
		quizRepo:   quizRepo,
		roles:      roles,
	}
}

func resultAt(userID, quizID uint, score int, createdAt time.Time) entity.Result {
	return entity.Result{
		UserID:    userID,
		CompanyID: 1,
		QuizID:    quizID,
		Score:     score,
		CreatedAt: createdAt,
	}
}

func TestUserAverageScore_NoResults_ReturnsZero(t *testing.T) {
	resultRepo := new(MockResultRepository)
	quizRepo := new(MockQuizRepository)
	roles := new(MockRoleChecker)
	s := createTestAnalyticsService(resultRepo, quizRepo, roles)

	resultRepo.On("GetByUser", uint(20)).Return([]entity.Result{}, nil)

	avg, err := s.UserAverageScore(20)

	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
}

func TestUserAverageScoresOverTime_SameDateGroupsToOnePoint(t *testing.T) {
	// Три результата за один календарный день усредняются в одну точку
	resultRepo := new(MockResultRepository)
	quizRepo := new(MockQuizRepository)
	roles := new(MockRoleChecker)
	s := createTestAnalyticsService(resultRepo, quizRepo, roles)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	resultRepo.On("GetAll").Return([]entity.Result{
		resultAt(20, 3, 80, day.Add(9*time.Hour)),
		resultAt(20, 3, 90, day.Add(13*time.Hour)),
		resultAt(20, 4, 100, day.Add(18*time.Hour)),
	}, nil)

	points, err := s.UserAverageScoresOverTime()

	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, uint(20), points[0].UserID)
	assert.Equal(t, "2025-06-01", points[0].Date)
	assert.InDelta(t, 90.0, points[0].Average, 1e-9)
}

func TestUserAverageScoresOverTime_DifferentDaysStaySeparate(t *testing.T) {
	resultRepo := new(MockResultRepository)
	quizRepo := new(MockQuizRepository)
	roles := new(MockRoleChecker)
	s := createTestAnalyticsService(resultRepo, quizRepo, roles)

	day1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	resultRepo.On("GetAll").Return([]entity.Result{
		resultAt(20, 3, 40, day1),
		resultAt(20, 3, 100, day2),
	}, nil)

	points, err := s.UserAverageScoresOverTime()

	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.InDelta(t, 40.0, points[0].Average, 1e-9)
	assert.InDelta(t, 100.0, points[1].Average, 1e-9)
}

func TestUserQuizAverageScoresOverTime_KeyedByQuizAndDate(t *testing.T) {
	resultRepo := new(MockResultRepository)
	quizRepo := new(MockQuizRepository)
	roles := new(MockRoleChecker)
	s := createTestAnalyticsService(resultRepo, quizRepo, roles)

	day := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	resultRepo.On("GetByUser", uint(20)).Return([]entity.Result{
		resultAt(20, 3, 60, day),
		resultAt(20, 3, 80, day.Add(time.Hour)),
		resultAt(20, 4, 100, day),
	}, nil)

	points, err := s.UserQuizAverageScoresOverTime(20)

	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, uint(3), points[0].QuizID)
	assert.InDelta(t, 70.0, points[0].Average, 1e-9)
	assert.Equal(t, uint(4), points[1].QuizID)
	assert.InDelta(t, 100.0, points[1].Average, 1e-9)
}

func TestCompanyQuizzesLastAttempts_TracksMaxAndLooksUpNameOnce(t *testing.T) {
	// Название запрашивается при первом результате викторины,
	// максимум created_at обновляется по всем результатам
	resultRepo := new(MockResultRepository)
	quizRepo := new(MockQuizRepository)
	roles := new(MockRoleChecker)
	s := createTestAnalyticsService(resultRepo, quizRepo, roles)

	roles.On("CanManageQuizzes", uint(1), uint(10)).Return(true, nil)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	resultRepo.On("GetByCompany", uint(1)).Return([]entity.Result{
		resultAt(20, 3, 50, base),
		resultAt(21, 3, 70, base.Add(48*time.Hour)),
		resultAt(22, 3, 90, base.Add(24*time.Hour)),
	}, nil)
	quizRepo.On("GetByID", uint(3)).Return(&entity.Quiz{ID: 3, Name: "Safety basics", CompanyID: 1}, nil)

	attempts, err := s.CompanyQuizzesLastAttempts(1, 10)

	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "Safety basics", attempts[0].QuizName)
	assert.Equal(t, base.Add(48*time.Hour), attempts[0].LastAttempt)
	quizRepo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestCompanyQuizzesLastAttempts_DeletedQuizHistorySurvives(t *testing.T) {
	// Журнал результатов переживает удаление викторины: попытки по
	// удаленной викторине остаются в сводке, теряется только название
	resultRepo := new(MockResultRepository)
	quizRepo := new(MockQuizRepository)
	roles := new(MockRoleChecker)
	s := createTestAnalyticsService(resultRepo, quizRepo, roles)

	roles.On("CanManageQuizzes", uint(1), uint(10)).Return(true, nil)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	resultRepo.On("GetByCompany", uint(1)).Return([]entity.Result{
		resultAt(20, 3, 50, base),
		resultAt(21, 3, 70, base.Add(24*time.Hour)),
	}, nil)
	quizRepo.On("GetByID", uint(3)).Return(nil, apperrors.ErrNotFound)

	attempts, err := s.CompanyQuizzesLastAttempts(1, 10)

	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, uint(3), attempts[0].QuizID)
	assert.Empty(t, attempts[0].QuizName)
	assert.Equal(t, base.Add(24*time.Hour), attempts[0].LastAttempt)
}

func TestCompanyQuizzesLastAttempts_NotManager_Forbidden(t *testing.T) {
	resultRepo := new(MockResultRepository)
	quizRepo := new(MockQuizRepository)
	roles := new(MockRoleChecker)
	s := createTestAnalyticsService(resultRepo, quizRepo, roles)

	roles.On("CanManageQuizzes", uint(1), uint(20)).Return(false, nil)

	_, err := s.CompanyQuizzesLastAttempts(1, 20)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	resultRepo.AssertNotCalled(t, "GetByCompany", mock.Anything)
}

func TestCompanyUsersLastAttempts_MaxPerUser(t *testing.T) {
	resultRepo := new(MockResultRepository)
	quizRepo := new(MockQuizRepository)
	roles := new(MockRoleChecker)
	s := createTestAnalyticsService(resultRepo, quizRepo, roles)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	resultRepo.On("GetByCompany", uint(1)).Return([]entity.Result{
		resultAt(20, 3, 50, base),
		resultAt(20, 4, 70, base.Add(time.Hour)),
		resultAt(21, 3, 90, base.Add(2*time.Hour)),
	}, nil)

	attempts, err := s.CompanyUsersLastAttempts(1)

	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, uint(20), attempts[0].UserID)
	assert.Equal(t, base.Add(time.Hour), attempts[0].LastAttempt)
	assert.Equal(t, uint(21), attempts[1].UserID)
}

func TestQuizzesDueForUser_ElapsedBeyondFrequency(t *testing.T) {
	resultRepo := new(MockResultRepository)
	quizRepo := new(MockQuizRepository)
	roles := new(MockRoleChecker)
	s := createTestAnalyticsService(resultRepo, quizRepo, roles)

	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	resultRepo.On("GetByUser", uint(20)).Return([]entity.Result{
		// Последняя попытка 8 дней назад, интервал 7 дней: пора
		resultAt(20, 3, 50, now.Add(-8*24*time.Hour)),
		// Последняя попытка 2 дня назад, интервал 7 дней: рано
		resultAt(20, 4, 70, now.Add(-2*24*time.Hour)),
		// Интервал 0: напоминания выключены
		resultAt(20, 5, 90, now.Add(-30*24*time.Hour)),
	}, nil)
	quizRepo.On("GetByID", uint(3)).Return(&entity.Quiz{ID: 3, Name: "Safety basics", FrequencyDays: 7}, nil)
	quizRepo.On("GetByID", uint(4)).Return(&entity.Quiz{ID: 4, Name: "Fire drill", FrequencyDays: 7}, nil)
	quizRepo.On("GetByID", uint(5)).Return(&entity.Quiz{ID: 5, Name: "One-off", FrequencyDays: 0}, nil)

	due, err := s.QuizzesDueForUser(20, now)

	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, uint(3), due[0].ID)
}

func TestQuizzesDueForUser_DeletedQuizSkipped(t *testing.T) {
	resultRepo := new(MockResultRepository)
	quizRepo := new(MockQuizRepository)
	roles := new(MockRoleChecker)
	s := createTestAnalyticsService(resultRepo, quizRepo, roles)

	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	resultRepo.On("GetByUser", uint(20)).Return([]entity.Result{
		resultAt(20, 3, 50, now.Add(-8*24*time.Hour)),
	}, nil)
	quizRepo.On("GetByID", uint(3)).Return(nil, apperrors.ErrNotFound)

	due, err := s.QuizzesDueForUser(20, now)

	require.NoError(t, err)
	assert.Empty(t, due)
}
