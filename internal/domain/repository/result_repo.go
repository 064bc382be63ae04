package repository

import (
	"github.com/yourusername/quizium-api/internal/domain/entity"
)

// ResultRepository определяет методы для работы с журналом результатов.
// Строки результатов неизменяемы: интерфейс намеренно не содержит Update/Delete.
type ResultRepository interface {
	Save(result *entity.Result) error
	GetByUser(userID uint) ([]entity.Result, error)
	GetByCompany(companyID uint) ([]entity.Result, error)
	GetAll() ([]entity.Result, error)
}
