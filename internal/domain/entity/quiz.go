package entity

import (
	"time"
)

// Quiz представляет викторину компании
type Quiz struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500;not null;default:''" json:"description"`
	// FrequencyDays — минимальный интервал повторного прохождения в днях.
	// Используется фоновой задачей напоминаний.
	FrequencyDays int        `gorm:"not null;default:0" json:"frequency_days"`
	CompanyID     uint       `gorm:"not null;index" json:"company_id"`
	Questions     []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// RetakeInterval возвращает интервал повторного прохождения как Duration
func (q *Quiz) RetakeInterval() time.Duration {
	return time.Duration(q.FrequencyDays) * 24 * time.Hour
}
