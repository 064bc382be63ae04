package service

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	"github.com/yourusername/quizium-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// transcriptTTL — время жизни транскрипта ответов в кеше
const transcriptTTL = 48 * time.Hour

// roleChecker предоставляет проверки роли пользователя в компании.
// Реализуется ActionService.
type roleChecker interface {
	GetRoleInCompany(companyID, userID uint) (entity.Role, error)
	CanManageQuizzes(companyID, userID uint) (bool, error)
}

// QuestionInput — входные данные одного вопроса при создании викторины
type QuestionInput struct {
	Text          string
	AnswerChoices []string
	CorrectAnswer string
}

// QuizService предоставляет методы для работы с викторинами:
// создание, обновление и прохождение с подсчетом очков
type QuizService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	resultRepo   repository.ResultRepository
	cacheRepo    repository.CacheRepository
	roles        roleChecker
}

// NewQuizService создает новый сервис викторин
func NewQuizService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	resultRepo repository.ResultRepository,
	cacheRepo repository.CacheRepository,
	roles roleChecker,
) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		cacheRepo:    cacheRepo,
		roles:        roles,
	}
}

// requireManager проверяет право управлять викторинами компании
func (s *QuizService) requireManager(companyID, actorID uint) error {
	ok, err := s.roles.CanManageQuizzes(companyID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: only the company owner or an admin can manage quizzes", apperrors.ErrForbidden)
	}
	return nil
}

// validateQuestions проверяет структуру вопросов новой викторины
func validateQuestions(questions []QuestionInput) error {
	if len(questions) < 2 {
		return fmt.Errorf("%w: quiz must have at least 2 questions", apperrors.ErrValidation)
	}
	for i, q := range questions {
		if q.Text == "" {
			return fmt.Errorf("%w: question %d has empty text", apperrors.ErrValidation, i+1)
		}
		if len(q.AnswerChoices) < 2 {
			return fmt.Errorf("%w: question %d must have at least 2 answer choices", apperrors.ErrValidation, i+1)
		}
		found := false
		for _, choice := range q.AnswerChoices {
			if choice == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: correct answer of question %d is not among its choices", apperrors.ErrValidation, i+1)
		}
	}
	return nil
}

// CreateQuiz создает викторину вместе с вопросами. Только владелец или
// администратор компании. Валидация выполняется до записи: при ошибке
// в БД не остается ни викторины, ни вопросов; сама запись атомарна —
// GORM вставляет викторину и ассоциированные вопросы одной транзакцией.
func (s *QuizService) CreateQuiz(companyID, creatorID uint, name, description string, frequencyDays int, questions []QuestionInput) (*entity.Quiz, error) {
	if err := s.requireManager(companyID, creatorID); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, fmt.Errorf("%w: quiz name is required", apperrors.ErrValidation)
	}
	if frequencyDays < 0 {
		return nil, fmt.Errorf("%w: frequency_days must not be negative", apperrors.ErrValidation)
	}
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	quiz := &entity.Quiz{
		Name:          name,
		Description:   description,
		FrequencyDays: frequencyDays,
		CompanyID:     companyID,
	}
	for _, q := range questions {
		quiz.Questions = append(quiz.Questions, entity.Question{
			Text:          q.Text,
			AnswerChoices: q.AnswerChoices,
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	log.Printf("[QuizService] Создана викторина %d (%q) в компании %d, вопросов: %d", quiz.ID, quiz.Name, companyID, len(quiz.Questions))
	return quiz, nil
}

// GetQuiz возвращает викторину вместе с вопросами
func (s *QuizService) GetQuiz(quizID uint) (*entity.Quiz, error) {
	return s.quizRepo.GetWithQuestions(quizID)
}

// ListCompanyQuizzes возвращает викторины компании с пагинацией
func (s *QuizService) ListCompanyQuizzes(companyID uint, page, pageSize int) ([]entity.Quiz, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	return s.quizRepo.ListByCompany(companyID, limit, offset)
}

// UpdateQuiz обновляет название, описание и интервал повторного прохождения.
// Только владелец или администратор компании.
func (s *QuizService) UpdateQuiz(quizID, actorID uint, name, description *string, frequencyDays *int) (*entity.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(quiz.CompanyID, actorID); err != nil {
		return nil, err
	}

	if name != nil {
		if *name == "" {
			return nil, fmt.Errorf("%w: quiz name is required", apperrors.ErrValidation)
		}
		quiz.Name = *name
	}
	if description != nil {
		quiz.Description = *description
	}
	if frequencyDays != nil {
		if *frequencyDays < 0 {
			return nil, fmt.Errorf("%w: frequency_days must not be negative", apperrors.ErrValidation)
		}
		quiz.FrequencyDays = *frequencyDays
	}

	if err := s.quizRepo.Update(quiz); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}
	return quiz, nil
}

// UpdateQuestion обновляет один вопрос викторины.
// Только владелец или администратор компании.
func (s *QuizService) UpdateQuestion(questionID, actorID uint, text *string, answerChoices []string, correctAnswer *string) (*entity.Question, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizRepo.GetByID(question.QuizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(quiz.CompanyID, actorID); err != nil {
		return nil, err
	}

	if text != nil {
		if *text == "" {
			return nil, fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
		}
		question.Text = *text
	}
	if answerChoices != nil {
		if len(answerChoices) < 2 {
			return nil, fmt.Errorf("%w: question must have at least 2 answer choices", apperrors.ErrValidation)
		}
		question.AnswerChoices = answerChoices
	}
	if correctAnswer != nil {
		question.CorrectAnswer = *correctAnswer
	}

	// Согласованность после частичного обновления: правильный ответ
	// обязан оставаться среди вариантов
	valid := false
	for _, choice := range question.AnswerChoices {
		if choice == question.CorrectAnswer {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w: correct answer is not among the answer choices", apperrors.ErrValidation)
	}

	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

// DeleteQuiz удаляет викторину. Только владелец или администратор компании.
func (s *QuizService) DeleteQuiz(quizID, actorID uint) error {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return err
	}
	if err := s.requireManager(quiz.CompanyID, actorID); err != nil {
		return err
	}
	return s.quizRepo.Delete(quizID)
}

// TakeQuiz обрабатывает прохождение викторины: сверяет ответы со снимком
// вопросов, считает очки и сохраняет один неизменяемый результат.
// Пропущенный ответ считается неверным, сравнение — точное строковое.
// Транскрипт ответов пишется в кеш по принципу best-effort: недоступность
// кеша логируется, но не отменяет попытку.
func (s *QuizService) TakeQuiz(userID, quizID uint, answers map[uint]string) (*entity.Result, error) {
	quiz, err := s.quizRepo.GetWithQuestions(quizID)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.GetRoleInCompany(quiz.CompanyID, userID)
	if err != nil {
		return nil, err
	}
	if !role.IsMembershipTier() {
		return nil, fmt.Errorf("%w: only company members can take its quizzes", apperrors.ErrForbidden)
	}

	total := len(quiz.Questions)
	if total == 0 {
		return nil, fmt.Errorf("%w: quiz has no questions", apperrors.ErrValidation)
	}

	correct := 0
	transcripts := make([]entity.AnswerTranscript, 0, total)
	for _, question := range quiz.Questions {
		userAnswer, ok := answers[question.ID]
		isCorrect := ok && question.IsCorrect(userAnswer)
		if isCorrect {
			correct++
		}
		transcripts = append(transcripts, entity.AnswerTranscript{
			UserID:     userID,
			CompanyID:  quiz.CompanyID,
			QuizID:     quiz.ID,
			QuestionID: question.ID,
			UserAnswer: userAnswer,
			IsCorrect:  isCorrect,
		})
	}

	score := int(math.Round(float64(correct) / float64(total) * 100))

	result := &entity.Result{
		UserID:         userID,
		CompanyID:      quiz.CompanyID,
		QuizID:         quiz.ID,
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
	}
	if err := s.resultRepo.Save(result); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}

	s.cacheTranscripts(transcripts)

	log.Printf("[QuizService] Пользователь %d прошел викторину %d: %d/%d, очки %d", userID, quiz.ID, correct, total, score)
	return result, nil
}

// cacheTranscripts пишет транскрипты попытки в кеш. Ошибки только логируются.
func (s *QuizService) cacheTranscripts(transcripts []entity.AnswerTranscript) {
	for i := range transcripts {
		t := &transcripts[i]
		if err := s.cacheRepo.SetJSON(t.CacheKey(), t, transcriptTTL); err != nil {
			log.Printf("[QuizService] Не удалось записать транскрипт %s в кеш: %v", t.CacheKey(), err)
		}
	}
}
