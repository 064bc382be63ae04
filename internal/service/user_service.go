package service

import (
	"fmt"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	"github.com/yourusername/quizium-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// UserService предоставляет методы для работы с пользователями
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUserByID возвращает пользователя по ID
func (s *UserService) GetUserByID(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

// ListUsers возвращает список пользователей с пагинацией
func (s *UserService) ListUsers(page, pageSize int) ([]entity.User, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	return s.userRepo.List(limit, offset)
}

// UpdateProfile обновляет профиль. Пользователь меняет только свой профиль.
func (s *UserService) UpdateProfile(userID, actorID uint, username, password *string) (*entity.User, error) {
	if userID != actorID {
		return nil, fmt.Errorf("%w: users can only update their own profile", apperrors.ErrForbidden)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if username != nil {
		if *username == "" {
			return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
		}
		user.Username = *username
	}
	if password != nil {
		if len(*password) < 6 {
			return nil, fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
		}
		// Хеширование выполнит хук BeforeSave
		user.Password = *password
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser удаляет аккаунт. Пользователь удаляет только свой аккаунт.
func (s *UserService) DeleteUser(userID, actorID uint) error {
	if userID != actorID {
		return fmt.Errorf("%w: users can only delete their own account", apperrors.ErrForbidden)
	}
	return s.userRepo.Delete(userID)
}
