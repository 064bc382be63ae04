package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizium-api/internal/middleware"
	"github.com/yourusername/quizium-api/internal/service"
)

// AnalyticsHandler отдает агрегаты по журналу результатов
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler создает новый обработчик аналитики
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetMyAverageScore возвращает средние очки текущего пользователя
func (h *AnalyticsHandler) GetMyAverageScore(c *gin.Context) {
	avg, err := h.analyticsService.UserAverageScore(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"average_score": avg})
}

// GetQuizScoreSeries возвращает серии очков по всем викторинам
func (h *AnalyticsHandler) GetQuizScoreSeries(c *gin.Context) {
	series, err := h.analyticsService.QuizScoreSeries()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

// GetUserAveragesOverTime возвращает средние очки пользователей по дням
func (h *AnalyticsHandler) GetUserAveragesOverTime(c *gin.Context) {
	points, err := h.analyticsService.UserAverageScoresOverTime()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// GetMyQuizAveragesOverTime возвращает средние очки текущего пользователя
// по викторинам и дням
func (h *AnalyticsHandler) GetMyQuizAveragesOverTime(c *gin.Context) {
	points, err := h.analyticsService.UserQuizAverageScoresOverTime(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// GetCompanyQuizzesLastAttempts возвращает последние попытки по викторинам
// компании. Только владелец или администратор.
func (h *AnalyticsHandler) GetCompanyQuizzesLastAttempts(c *gin.Context) {
	attempts, err := h.analyticsService.CompanyQuizzesLastAttempts(paramUint(c, "companyID"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}

// GetCompanyUsersLastAttempts возвращает последние попытки пользователей компании
func (h *AnalyticsHandler) GetCompanyUsersLastAttempts(c *gin.Context) {
	attempts, err := h.analyticsService.CompanyUsersLastAttempts(paramUint(c, "companyID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}
