package entity

import (
	"time"
)

// Константы статусов уведомления
const (
	NotificationStatusSent = "sent"
	NotificationStatusRead = "read"
)

// Notification представляет уведомление пользователя
// (например, напоминание о повторном прохождении викторины)
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Text      string    `gorm:"size:500;not null" json:"text"`
	Status    string    `gorm:"size:20;not null;default:'sent'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Notification) TableName() string {
	return "notifications"
}

// IsRead проверяет, прочитано ли уведомление
func (n *Notification) IsRead() bool {
	return n.Status == NotificationStatusRead
}
