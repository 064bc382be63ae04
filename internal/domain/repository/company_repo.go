package repository

import (
	"github.com/yourusername/quizium-api/internal/domain/entity"
)

// CompanyRepository определяет методы для работы с компаниями
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id uint) (*entity.Company, error)
	GetByName(name string) (*entity.Company, error)
	List(limit, offset int) ([]entity.Company, int64, error)
	Update(company *entity.Company) error
	Delete(id uint) error
}
