package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// ============================================================================
// Моки для QuizService
// MockCompanyRepository и MockUserRepository объявлены в action_service_test.go
// ============================================================================

// MockQuizRepository реализует repository.QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(quiz *entity.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(id uint) (*entity.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetWithQuestions(id uint) (*entity.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ListByCompany(companyID uint, limit, offset int) ([]entity.Quiz, int64, error) {
	args := m.Called(companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Quiz), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuizRepository) Update(quiz *entity.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockQuestionRepository реализует repository.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(questions []entity.Question) error {
	args := m.Called(questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByQuizID(quizID uint) ([]entity.Question, error) {
	args := m.Called(quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockResultRepository реализует repository.ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Save(result *entity.Result) error {
	args := m.Called(result)
	return args.Error(0)
}

func (m *MockResultRepository) GetByUser(userID uint) ([]entity.Result, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Result), args.Error(1)
}

func (m *MockResultRepository) GetByCompany(companyID uint) ([]entity.Result, error) {
	args := m.Called(companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Result), args.Error(1)
}

func (m *MockResultRepository) GetAll() ([]entity.Result, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Result), args.Error(1)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepository) Keys(pattern string) ([]string, error) {
	args := m.Called(pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockRoleChecker реализует roleChecker
type MockRoleChecker struct {
	mock.Mock
}

func (m *MockRoleChecker) GetRoleInCompany(companyID, userID uint) (entity.Role, error) {
	args := m.Called(companyID, userID)
	return args.Get(0).(entity.Role), args.Error(1)
}

func (m *MockRoleChecker) CanManageQuizzes(companyID, userID uint) (bool, error) {
	args := m.Called(companyID, userID)
	return args.Bool(0), args.Error(1)
}

func createTestQuizService(
	quizRepo *MockQuizRepository,
	questionRepo *MockQuestionRepository,
	resultRepo *MockResultRepository,
	cacheRepo *MockCacheRepository,
	roles *MockRoleChecker,
) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		cacheRepo:    cacheRepo,
		roles:        roles,
	}
}

func validQuestions() []QuestionInput {
	return []QuestionInput{
		{Text: "2+2?", AnswerChoices: []string{"3", "4"}, CorrectAnswer: "4"},
		{Text: "3+3?", AnswerChoices: []string{"5", "6"}, CorrectAnswer: "6"},
	}
}

// testQuiz строит викторину с 4 вопросами для тестов прохождения
func testQuizWithQuestions() *entity.Quiz {
	return &entity.Quiz{
		ID:        3,
		Name:      "Safety basics",
		CompanyID: 1,
		Questions: []entity.Question{
			{ID: 101, QuizID: 3, Text: "q1", AnswerChoices: entity.StringArray{"a", "b"}, CorrectAnswer: "a"},
			{ID: 102, QuizID: 3, Text: "q2", AnswerChoices: entity.StringArray{"a", "b"}, CorrectAnswer: "b"},
			{ID: 103, QuizID: 3, Text: "q3", AnswerChoices: entity.StringArray{"a", "b"}, CorrectAnswer: "a"},
			{ID: 104, QuizID: 3, Text: "q4", AnswerChoices: entity.StringArray{"a", "b"}, CorrectAnswer: "b"},
		},
	}
}

// ============================================================================
// CreateQuiz
// ============================================================================

func TestCreateQuiz_Valid_PersistsQuizWithQuestions(t *testing.T) {
	// Arrange
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	resultRepo := new(MockResultRepository)
	cacheRepo := new(MockCacheRepository)
	roles := new(MockRoleChecker)
	s := createTestQuizService(quizRepo, questionRepo, resultRepo, cacheRepo, roles)

	roles.On("CanManageQuizzes", uint(1), uint(10)).Return(true, nil)
	quizRepo.On("Create", mock.MatchedBy(func(q *entity.Quiz) bool {
		return q.CompanyID == 1 && len(q.Questions) == 2
	})).Return(nil)

	// Act
	quiz, err := s.CreateQuiz(1, 10, "Onboarding", "", 7, validQuestions())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 7, quiz.FrequencyDays)
	assert.Len(t, quiz.Questions, 2)
	quizRepo.AssertExpectations(t)
}

func TestCreateQuiz_SingleQuestion_ValidationErrorNoSideEffects(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	resultRepo := new(MockResultRepository)
	cacheRepo := new(MockCacheRepository)
	roles := new(MockRoleChecker)
	s := createTestQuizService(quizRepo, questionRepo, resultRepo, cacheRepo, roles)

	roles.On("CanManageQuizzes", uint(1), uint(10)).Return(true, nil)

	_, err := s.CreateQuiz(1, 10, "Onboarding", "", 7, validQuestions()[:1])

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	quizRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateQuiz_TooFewChoices_ValidationError(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	resultRepo := new(MockResultRepository)
	cacheRepo := new(MockCacheRepository)
	roles := new(MockRoleChecker)
	s := createTestQuizService(quizRepo, questionRepo, resultRepo, cacheRepo, roles)

	roles.On("CanManageQuizzes", uint(1), uint(10)).Return(true, nil)

	questions := validQuestions()
	questions[1].AnswerChoices = []string{"6"}
	questions[1].CorrectAnswer = "6"

	_, err := s.CreateQuiz(1, 10, "Onboarding", "", 7, questions)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	quizRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateQuiz_NotManager_Forbidden(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	resultRepo := new(MockResultRepository)
	cacheRepo := new(MockCacheRepository)
	roles := new(MockRoleChecker)
	s := createTestQuizService(quizRepo, questionRepo, resultRepo, cacheRepo, roles)

	roles.On("CanManageQuizzes", uint(1), uint(20)).Return(false, nil)

	_, err := s.CreateQuiz(1, 20, "Onboarding", "", 7, validQuestions())

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestDeleteQuiz_DoesNotTouchResultHistory(t *testing.T) {
	// Удаление викторины не трогает журнал результатов: попытки по
	// удаленной викторине остаются доступными аналитике
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	resultRepo := new(MockResultRepository)
	cacheRepo := new(MockCacheRepository)
	roles := new(MockRoleChecker)
	s := createTestQuizService(quizRepo, questionRepo, resultRepo, cacheRepo, roles)

	roles.On("CanManageQuizzes", uint(1), uint(10)).Return(true, nil)
	quizRepo.On("GetByID", uint(3)).Return(&entity.Quiz{ID: 3, CompanyID: 1}, nil)
	quizRepo.On("Delete", uint(3)).Return(nil)

	err := s.DeleteQuiz(3, 10)

	require.NoError(t, err)
	quizRepo.AssertCalled(t, "Delete", uint(3))
	resultRepo.AssertExpectations(t)
	assert.Empty(t, resultRepo.Calls, "журнал результатов не должен затрагиваться")
}

// ============================================================================
// TakeQuiz
// ============================================================================

func TestTakeQuiz_ThreeOfFourCorrect_Score75(t *testing.T) {
	// Arrange
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	resultRepo := new(MockResultRepository)
	cacheRepo := new(MockCacheRepository)
	roles := new(MockRoleChecker)
	s := createTestQuizService(quizRepo, questionRepo, resultRepo, cacheRepo, roles)

	quizRepo.On("GetWithQuestions", uint(3)).Return(testQuizWithQuestions(), nil)
	roles.On("GetRoleInCompany", uint(1), uint(20)).Return(entity.RoleMember, nil)
	resultRepo.On("Save", mock.Anything).Return(nil)
	cacheRepo.On("SetJSON", mock.Anything, mock.Anything, transcriptTTL).Return(nil)

	answers := map[uint]string{
		101: "a", // верно
		102: "b", // верно
		103: "a", // верно
		104: "a", // неверно
	}

	// Act
	result, err := s.TakeQuiz(20, 3, answers)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, result.CorrectAnswers)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, 75, result.Score)
	resultRepo.AssertNumberOfCalls(t, "Save", 1)
	cacheRepo.AssertNumberOfCalls(t, "SetJSON", 4)
}

func TestTakeQuiz_OmittedAnswersCountAsIncorrect(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	resultRepo := new(MockResultRepository)
	cacheRepo := new(MockCacheRepository)
	roles := new(MockRoleChecker)
	s := createTestQuizService(quizRepo, questionRepo, resultRepo, cacheRepo, roles)

	quizRepo.On("GetWithQuestions", uint(3)).Return(testQuizWithQuestions(), nil)
	roles.On("GetRoleInCompany", uint(1), uint(20)).Return(entity.RoleMember, nil)
	resultRepo.On("Save", mock.Anything).Return(nil)
	cacheRepo.On("SetJSON", mock.Anything, mock.Anything, transcriptTTL).Return(nil)

	// Два ответа из четырех пропущены
	answers := map[uint]string{
		101: "a",
		102: "b",
	}

	result, err := s.TakeQuiz(20, 3, answers)

	require.NoError(t, err)
	assert.Equal(t, 2, result.CorrectAnswers)
	assert.Equal(t, 50, result.Score)
}

func TestTakeQuiz_CacheFailure_AttemptStillSucceeds(t *testing.T) {
	// Недоступный кеш не должен ломать попытку: транскрипт — best-effort
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	resultRepo := new(MockResultRepository)
	cacheRepo := new(MockCacheRepository)
	roles := new(MockRoleChecker)
	s := createTestQuizService(quizRepo, questionRepo, resultRepo, cacheRepo, roles)

	quizRepo.On("GetWithQuestions", uint(3)).Return(testQuizWithQuestions(), nil)
	roles.On("GetRoleInCompany", uint(1), uint(20)).Return(entity.RoleMember, nil)
	resultRepo.On("Save", mock.Anything).Return(nil)
	cacheRepo.On("SetJSON", mock.Anything, mock.Anything, transcriptTTL).Return(errors.New("redis: connection refused"))

	result, err := s.TakeQuiz(20, 3, map[uint]string{101: "a"})

	require.NoError(t, err)
	assert.Equal(t, 25, result.Score)
	resultRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestTakeQuiz_NotMember_Forbidden(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	resultRepo := new(MockResultRepository)
	cacheRepo := new(MockCacheRepository)
	roles := new(MockRoleChecker)
	s := createTestQuizService(quizRepo, questionRepo, resultRepo, cacheRepo, roles)

	quizRepo.On("GetWithQuestions", uint(3)).Return(testQuizWithQuestions(), nil)
	roles.On("GetRoleInCompany", uint(1), uint(20)).Return(entity.RoleInvited, nil)

	_, err := s.TakeQuiz(20, 3, map[uint]string{101: "a"})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	resultRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestTakeQuiz_TranscriptKeysFollowAttemptPrefix(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	resultRepo := new(MockResultRepository)
	cacheRepo := new(MockCacheRepository)
	roles := new(MockRoleChecker)
	s := createTestQuizService(quizRepo, questionRepo, resultRepo, cacheRepo, roles)

	quizRepo.On("GetWithQuestions", uint(3)).Return(testQuizWithQuestions(), nil)
	roles.On("GetRoleInCompany", uint(1), uint(20)).Return(entity.RoleMember, nil)
	resultRepo.On("Save", mock.Anything).Return(nil)
	cacheRepo.On("SetJSON", "user:20:company:1:quiz:3:question:101", mock.Anything, transcriptTTL).Return(nil)
	cacheRepo.On("SetJSON", "user:20:company:1:quiz:3:question:102", mock.Anything, transcriptTTL).Return(nil)
	cacheRepo.On("SetJSON", "user:20:company:1:quiz:3:question:103", mock.Anything, transcriptTTL).Return(nil)
	cacheRepo.On("SetJSON", "user:20:company:1:quiz:3:question:104", mock.Anything, transcriptTTL).Return(nil)

	_, err := s.TakeQuiz(20, 3, map[uint]string{101: "a"})

	require.NoError(t, err)
	cacheRepo.AssertExpectations(t)
}

// ============================================================================
// UpdateQuestion
// ============================================================================

func TestUpdateQuestion_CorrectAnswerMustStayAmongChoices(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	resultRepo := new(MockResultRepository)
	cacheRepo := new(MockCacheRepository)
	roles := new(MockRoleChecker)
	s := createTestQuizService(quizRepo, questionRepo, resultRepo, cacheRepo, roles)

	question := &entity.Question{ID: 101, QuizID: 3, Text: "q1", AnswerChoices: entity.StringArray{"a", "b"}, CorrectAnswer: "a"}
	questionRepo.On("GetByID", uint(101)).Return(question, nil)
	quizRepo.On("GetByID", uint(3)).Return(&entity.Quiz{ID: 3, CompanyID: 1}, nil)
	roles.On("CanManageQuizzes", uint(1), uint(10)).Return(true, nil)

	wrong := "z"
	_, err := s.UpdateQuestion(101, 10, nil, nil, &wrong)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	questionRepo.AssertNotCalled(t, "Update", mock.Anything)
}
