package service

import (
	"fmt"
	"time"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	"github.com/yourusername/quizium-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// ScorePoint — одна точка истории очков
type ScorePoint struct {
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyAverage — средние очки за один календарный день
type DailyAverage struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Average float64 `json:"average"`
}

// UserDailyAverage — средние очки пользователя за день
type UserDailyAverage struct {
	UserID  uint    `json:"user_id"`
	Date    string  `json:"date"`
	Average float64 `json:"average"`
}

// QuizDailyAverage — средние очки по викторине за день
type QuizDailyAverage struct {
	QuizID  uint    `json:"quiz_id"`
	Date    string  `json:"date"`
	Average float64 `json:"average"`
}

// QuizLastAttempt — последняя попытка по викторине
type QuizLastAttempt struct {
	QuizID      uint      `json:"quiz_id"`
	QuizName    string    `json:"quiz_name"`
	LastAttempt time.Time `json:"last_attempt"`
}

// UserLastAttempt — последняя попытка пользователя в компании
type UserLastAttempt struct {
	UserID      uint      `json:"user_id"`
	LastAttempt time.Time `json:"last_attempt"`
}

// AnalyticsService — чистые свертки над журналом результатов.
// Журнал только читается, никакие строки не изменяются.
type AnalyticsService struct {
	resultRepo repository.ResultRepository
	quizRepo   repository.QuizRepository
	roles      roleChecker
}

// NewAnalyticsService создает новый сервис аналитики
func NewAnalyticsService(
	resultRepo repository.ResultRepository,
	quizRepo repository.QuizRepository,
	roles roleChecker,
) *AnalyticsService {
	return &AnalyticsService{
		resultRepo: resultRepo,
		quizRepo:   quizRepo,
		roles:      roles,
	}
}

// dateKey приводит время к календарной дате
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// UserAverageScore возвращает средние очки пользователя по всем попыткам.
// Возвращает 0, если попыток не было.
func (s *AnalyticsService) UserAverageScore(userID uint) (float64, error) {
	results, err := s.resultRepo.GetByUser(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load results: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}

	sum := 0
	for _, r := range results {
		sum += r.Score
	}
	return float64(sum) / float64(len(results)), nil
}

// QuizScoreSeries группирует весь журнал по викторинам и возвращает
// полную серию (score, created_at) каждой викторины.
// Дальнейшую свертку выполняет вызывающая сторона.
func (s *AnalyticsService) QuizScoreSeries() (map[uint][]ScorePoint, error) {
	results, err := s.resultRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	series := make(map[uint][]ScorePoint)
	for _, r := range results {
		series[r.QuizID] = append(series[r.QuizID], ScorePoint{Score: r.Score, CreatedAt: r.CreatedAt})
	}
	return series, nil
}

// CompanyQuizzesLastAttempts возвращает для каждой викторины компании время
// самой свежей попытки вместе с названием. Только владелец или администратор.
// Название викторины запрашивается один раз на викторину — при первом
// встреченном результате; максимум времени обновляется по всем результатам.
func (s *AnalyticsService) CompanyQuizzesLastAttempts(companyID, actorID uint) ([]QuizLastAttempt, error) {
	ok, err := s.roles.CanManageQuizzes(companyID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: only the company owner or an admin can view company analytics", apperrors.ErrForbidden)
	}

	results, err := s.resultRepo.GetByCompany(companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	byQuiz := make(map[uint]*QuizLastAttempt)
	order := make([]uint, 0)
	for _, r := range results {
		entry, seen := byQuiz[r.QuizID]
		if !seen {
			name := ""
			if quiz, err := s.quizRepo.GetByID(r.QuizID); err == nil {
				name = quiz.Name
			}
			entry = &QuizLastAttempt{QuizID: r.QuizID, QuizName: name, LastAttempt: r.CreatedAt}
			byQuiz[r.QuizID] = entry
			order = append(order, r.QuizID)
			continue
		}
		if r.CreatedAt.After(entry.LastAttempt) {
			entry.LastAttempt = r.CreatedAt
		}
	}

	attempts := make([]QuizLastAttempt, 0, len(order))
	for _, quizID := range order {
		attempts = append(attempts, *byQuiz[quizID])
	}
	return attempts, nil
}

// UserAverageScoresOverTime группирует весь журнал по парам
// (пользователь, календарная дата); среднее каждой группы — одна точка.
func (s *AnalyticsService) UserAverageScoresOverTime() ([]UserDailyAverage, error) {
	results, err := s.resultRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	type key struct {
		userID uint
		date   string
	}
	sums := make(map[key]int)
	counts := make(map[key]int)
	order := make([]key, 0)
	for _, r := range results {
		k := key{userID: r.UserID, date: dateKey(r.CreatedAt)}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += r.Score
		counts[k]++
	}

	points := make([]UserDailyAverage, 0, len(order))
	for _, k := range order {
		points = append(points, UserDailyAverage{
			UserID:  k.userID,
			Date:    k.date,
			Average: float64(sums[k]) / float64(counts[k]),
		})
	}
	return points, nil
}

// UserQuizAverageScoresOverTime — то же группирование, ограниченное одним
// пользователем и разбитое по викторинам.
func (s *AnalyticsService) UserQuizAverageScoresOverTime(userID uint) ([]QuizDailyAverage, error) {
	results, err := s.resultRepo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	type key struct {
		quizID uint
		date   string
	}
	sums := make(map[key]int)
	counts := make(map[key]int)
	order := make([]key, 0)
	for _, r := range results {
		k := key{quizID: r.QuizID, date: dateKey(r.CreatedAt)}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += r.Score
		counts[k]++
	}

	points := make([]QuizDailyAverage, 0, len(order))
	for _, k := range order {
		points = append(points, QuizDailyAverage{
			QuizID:  k.quizID,
			Date:    k.date,
			Average: float64(sums[k]) / float64(counts[k]),
		})
	}
	return points, nil
}

// CompanyUsersLastAttempts возвращает для каждого пользователя компании
// максимум created_at среди его результатов.
func (s *AnalyticsService) CompanyUsersLastAttempts(companyID uint) ([]UserLastAttempt, error) {
	results, err := s.resultRepo.GetByCompany(companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	byUser := make(map[uint]time.Time)
	order := make([]uint, 0)
	for _, r := range results {
		last, seen := byUser[r.UserID]
		if !seen {
			order = append(order, r.UserID)
		}
		if !seen || r.CreatedAt.After(last) {
			byUser[r.UserID] = r.CreatedAt
		}
	}

	attempts := make([]UserLastAttempt, 0, len(order))
	for _, userID := range order {
		attempts = append(attempts, UserLastAttempt{UserID: userID, LastAttempt: byUser[userID]})
	}
	return attempts, nil
}

// QuizzesDueForUser возвращает викторины, которые пользователю пора пройти
// снова: с последней попытки прошло больше frequency_days. Викторины с
// нулевым интервалом напоминаний не порождают.
// Это решение переиспользует журнал последних попыток и используется
// фоновой задачей напоминаний.
func (s *AnalyticsService) QuizzesDueForUser(userID uint, now time.Time) ([]entity.Quiz, error) {
	results, err := s.resultRepo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	lastByQuiz := make(map[uint]time.Time)
	order := make([]uint, 0)
	for _, r := range results {
		last, seen := lastByQuiz[r.QuizID]
		if !seen {
			order = append(order, r.QuizID)
		}
		if !seen || r.CreatedAt.After(last) {
			lastByQuiz[r.QuizID] = r.CreatedAt
		}
	}

	due := make([]entity.Quiz, 0)
	for _, quizID := range order {
		quiz, err := s.quizRepo.GetByID(quizID)
		if err != nil {
			// Викторина могла быть удалена после попыток
			continue
		}
		if quiz.FrequencyDays <= 0 {
			continue
		}
		if now.Sub(lastByQuiz[quizID]) > quiz.RetakeInterval() {
			due = append(due, *quiz)
		}
	}
	return due, nil
}
