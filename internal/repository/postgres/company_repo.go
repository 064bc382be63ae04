package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// CompanyRepo реализует repository.CompanyRepository
type CompanyRepo struct {
	db *gorm.DB
}

// NewCompanyRepo создает новый репозиторий компаний
func NewCompanyRepo(db *gorm.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// Create создает новую компанию
func (r *CompanyRepo) Create(company *entity.Company) error {
	if err := r.db.Create(company).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID возвращает компанию по ID
func (r *CompanyRepo) GetByID(id uint) (*entity.Company, error) {
	var company entity.Company
	err := r.db.First(&company, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// GetByName возвращает компанию по имени (имя глобально уникально)
func (r *CompanyRepo) GetByName(name string) (*entity.Company, error) {
	var company entity.Company
	err := r.db.Where("name = ?", name).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// List возвращает компании с пагинацией
func (r *CompanyRepo) List(limit, offset int) ([]entity.Company, int64, error) {
	var companies []entity.Company
	var total int64

	if err := r.db.Model(&entity.Company{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at").
		Limit(limit).
		Offset(offset).
		Find(&companies).Error
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

// Update обновляет компанию
func (r *CompanyRepo) Update(company *entity.Company) error {
	if err := r.db.Save(company).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete удаляет компанию
func (r *CompanyRepo) Delete(id uint) error {
	res := r.db.Delete(&entity.Company{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
