package repository

import (
	"github.com/yourusername/quizium-api/internal/domain/entity"
)

// RefreshTokenRepository интерфейс для работы с refresh-токенами
type RefreshTokenRepository interface {
	// CreateToken создает новый refresh-токен и возвращает его ID
	CreateToken(refreshToken *entity.RefreshToken) (uint, error)

	// GetByHash находит refresh-токен по SHA-256 хешу значения
	GetByHash(tokenHash string) (*entity.RefreshToken, error)

	// Revoke помечает токен отозванным
	Revoke(tokenHash string) error

	// RevokeAllForUser помечает все токены пользователя отозванными
	RevokeAllForUser(userID uint) error

	// CleanupExpired удаляет просроченные токены, возвращает число удаленных
	CleanupExpired() (int64, error)
}
