package repository

import (
	"github.com/yourusername/quizium-api/internal/domain/entity"
)

// QuizRepository определяет методы для работы с викторинами
type QuizRepository interface {
	Create(quiz *entity.Quiz) error
	GetByID(id uint) (*entity.Quiz, error)
	GetWithQuestions(id uint) (*entity.Quiz, error)
	ListByCompany(companyID uint, limit, offset int) ([]entity.Quiz, int64, error)
	Update(quiz *entity.Quiz) error
	Delete(id uint) error
}
