package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	"github.com/yourusername/quizium-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
	"github.com/yourusername/quizium-api/pkg/auth"
)

// TokenPair — пара access/refresh токенов, выдаваемая клиенту
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService отвечает за регистрацию, вход и ротацию refresh-токенов.
// Значение refresh-токена — случайный UUID; в БД хранится только его
// SHA-256 хеш.
type AuthService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtService       *auth.JWTService
	refreshLifetime  time.Duration
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtService *auth.JWTService,
	refreshLifetimeHrs int,
) *AuthService {
	if refreshLifetimeHrs <= 0 {
		refreshLifetimeHrs = 24 * 30
	}
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtService:       jwtService,
		refreshLifetime:  time.Duration(refreshLifetimeHrs) * time.Hour,
	}
}

// hashToken возвращает SHA-256 хеш значения refresh-токена
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Register создает нового пользователя. Пароль хешируется хуком BeforeSave.
func (s *AuthService) Register(username, email, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", apperrors.ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: password,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	log.Printf("[AuthService] Зарегистрирован пользователь %d (%s)", user.ID, user.Email)
	return user, nil
}

// Login проверяет учетные данные и выдает пару токенов
func (s *AuthService) Login(email, password string) (*entity.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, nil, err
	}
	if !user.CheckPassword(password) {
		return nil, nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh ротирует refresh-токен: старый отзывается, выдается новая пара
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	stored, err := s.refreshTokenRepo.GetByHash(hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown refresh token", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !stored.IsValid() {
		return nil, fmt.Errorf("%w: refresh token expired or revoked", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(stored.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokenRepo.Revoke(stored.TokenHash); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return s.issueTokens(user)
}

// Logout отзывает refresh-токен сессии
func (s *AuthService) Logout(refreshToken string) error {
	err := s.refreshTokenRepo.Revoke(hashToken(refreshToken))
	if errors.Is(err, apperrors.ErrNotFound) {
		// Уже отозван или никогда не существовал: выход идемпотентен
		return nil
	}
	return err
}

// LogoutAll отзывает все refresh-токены пользователя
func (s *AuthService) LogoutAll(userID uint) error {
	return s.refreshTokenRepo.RevokeAllForUser(userID)
}

// issueTokens выдает access-токен и новый refresh-токен
func (s *AuthService) issueTokens(user *entity.User) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshValue := uuid.NewString()
	record := entity.NewRefreshToken(user.ID, hashToken(refreshValue), time.Now().Add(s.refreshLifetime))
	if _, err := s.refreshTokenRepo.CreateToken(record); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshValue}, nil
}

// CleanupExpiredTokens удаляет просроченные refresh-токены
func (s *AuthService) CleanupExpiredTokens() {
	deleted, err := s.refreshTokenRepo.CleanupExpired()
	if err != nil {
		log.Printf("[AuthService] Ошибка очистки просроченных refresh-токенов: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[AuthService] Удалено просроченных refresh-токенов: %d", deleted)
	}
}
