package repository

import (
	"github.com/yourusername/quizium-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	List(limit, offset int) ([]entity.User, int64, error)
	ListAll() ([]entity.User, error)
	Update(user *entity.User) error
	Delete(id uint) error
}
