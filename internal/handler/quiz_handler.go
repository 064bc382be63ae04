package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizium-api/internal/handler/dto"
	"github.com/yourusername/quizium-api/internal/middleware"
	"github.com/yourusername/quizium-api/internal/service"
)

// QuizHandler обрабатывает запросы, связанные с викторинами
type QuizHandler struct {
	quizService   *service.QuizService
	exportService *service.ExportService
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(quizService *service.QuizService, exportService *service.ExportService) *QuizHandler {
	return &QuizHandler{
		quizService:   quizService,
		exportService: exportService,
	}
}

// CreateQuiz создает викторину вместе с вопросами
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions := make([]service.QuestionInput, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, service.QuestionInput{
			Text:          q.Text,
			AnswerChoices: q.AnswerChoices,
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	quiz, err := h.quizService.CreateQuiz(paramUint(c, "companyID"), middleware.UserID(c), req.Name, req.Description, req.FrequencyDays, questions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz возвращает викторину вместе с вопросами.
// Правильные ответы скрыты сериализацией entity.Question.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.quizService.GetQuiz(paramUint(c, "quizID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// ListCompanyQuizzes возвращает викторины компании
func (h *QuizHandler) ListCompanyQuizzes(c *gin.Context) {
	page, pageSize := pagination(c)

	quizzes, total, err := h.quizService.ListCompanyQuizzes(paramUint(c, "companyID"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes, "total": total, "page": page, "page_size": pageSize})
}

// UpdateQuiz обновляет викторину
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	var req dto.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.UpdateQuiz(paramUint(c, "quizID"), middleware.UserID(c), req.Name, req.Description, req.FrequencyDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// UpdateQuestion обновляет один вопрос
func (h *QuizHandler) UpdateQuestion(c *gin.Context) {
	var req dto.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.quizService.UpdateQuestion(paramUint(c, "questionID"), middleware.UserID(c), req.Text, req.AnswerChoices, req.CorrectAnswer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// DeleteQuiz удаляет викторину
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	if err := h.quizService.DeleteQuiz(paramUint(c, "quizID"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}

// TakeQuiz принимает ответы попытки и возвращает результат
func (h *QuizHandler) TakeQuiz(c *gin.Context) {
	var req dto.TakeQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.quizService.TakeQuiz(middleware.UserID(c), paramUint(c, "quizID"), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ExportAnswers отдает транскрипт ответов одной попытки.
// Формат задается query-параметром format: json (по умолчанию), csv, xlsx.
func (h *QuizHandler) ExportAnswers(c *gin.Context) {
	userID := paramUint(c, "userID")
	companyID := paramUint(c, "companyID")
	quizID := paramUint(c, "quizID")

	transcripts, err := h.exportService.GetTranscripts(userID, companyID, quizID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("answers_u%d_q%d", userID, quizID)
	switch c.DefaultQuery("format", "json") {
	case "csv":
		data, err := h.exportService.RenderCSV(transcripts)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx":
		data, err := h.exportService.RenderXLSX(transcripts)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusOK, gin.H{"answers": transcripts})
	}
}
