package entity

import "fmt"

// AnswerTranscript — эфемерная запись ответа на один вопрос попытки.
// Хранится только в кеше (TTL 48 часов), используется для экспорта и аудита.
// Не авторитетна: подсчет очков никогда не читает ее обратно.
type AnswerTranscript struct {
	UserID     uint   `json:"user_id"`
	CompanyID  uint   `json:"company_id"`
	QuizID     uint   `json:"quiz_id"`
	QuestionID uint   `json:"question_id"`
	UserAnswer string `json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`
}

// CacheKey возвращает ключ записи в кеше
func (t *AnswerTranscript) CacheKey() string {
	return fmt.Sprintf("%squestion:%d", TranscriptKeyPrefix(t.UserID, t.CompanyID, t.QuizID), t.QuestionID)
}

// TranscriptKeyPrefix возвращает префикс ключей одной попытки.
// По этому префиксу экспорт выбирает все ответы попытки.
func TranscriptKeyPrefix(userID, companyID, quizID uint) string {
	return fmt.Sprintf("user:%d:company:%d:quiz:%d:", userID, companyID, quizID)
}
