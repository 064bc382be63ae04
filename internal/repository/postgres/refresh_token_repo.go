package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// RefreshTokenRepo реализует repository.RefreshTokenRepository
type RefreshTokenRepo struct {
	db *gorm.DB
}

// NewRefreshTokenRepo создает новый репозиторий refresh-токенов
func NewRefreshTokenRepo(db *gorm.DB) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

// CreateToken создает новый refresh-токен и возвращает его ID
func (r *RefreshTokenRepo) CreateToken(refreshToken *entity.RefreshToken) (uint, error) {
	if err := r.db.Create(refreshToken).Error; err != nil {
		return 0, err
	}
	return refreshToken.ID, nil
}

// GetByHash находит refresh-токен по SHA-256 хешу значения
func (r *RefreshTokenRepo) GetByHash(tokenHash string) (*entity.RefreshToken, error) {
	var token entity.RefreshToken
	err := r.db.Where("token_hash = ?", tokenHash).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Revoke помечает токен отозванным
func (r *RefreshTokenRepo) Revoke(tokenHash string) error {
	res := r.db.Model(&entity.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", tokenHash).
		Update("revoked_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RevokeAllForUser помечает все токены пользователя отозванными
func (r *RefreshTokenRepo) RevokeAllForUser(userID uint) error {
	return r.db.Model(&entity.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

// CleanupExpired удаляет просроченные токены, возвращает число удаленных
func (r *RefreshTokenRepo) CleanupExpired() (int64, error) {
	res := r.db.Where("expires_at < ?", time.Now()).Delete(&entity.RefreshToken{})
	return res.RowsAffected, res.Error
}
