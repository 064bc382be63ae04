package entity

import (
	"time"
)

// Company представляет компанию, владеющую викторинами
type Company struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"size:500;not null;default:''" json:"description"`
	IsVisible   bool      `gorm:"not null;default:true" json:"is_visible"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Company) TableName() string {
	return "companies"
}

// IsOwnedBy проверяет, является ли пользователь владельцем компании.
// Владелец не материализуется строкой Action: право владения всегда
// проверяется сравнением owner_id.
func (c *Company) IsOwnedBy(userID uint) bool {
	return c.OwnerID == userID
}
