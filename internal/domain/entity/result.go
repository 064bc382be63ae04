package entity

import (
	"time"
)

// Result представляет неизменяемую запись одного прохождения викторины.
// Строка создается ровно один раз на попытку и никогда не обновляется:
// история результатов — журнал, по которому считается аналитика.
type Result struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	CompanyID      uint      `gorm:"not null;index" json:"company_id"`
	QuizID         uint      `gorm:"not null;index" json:"quiz_id"`
	Score          int       `gorm:"not null;default:0" json:"score"`
	TotalQuestions int       `gorm:"not null;default:0" json:"total_questions"`
	CorrectAnswers int       `gorm:"not null;default:0" json:"correct_answers"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Result) TableName() string {
	return "results"
}
