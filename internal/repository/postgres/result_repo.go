package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/quizium-api/internal/domain/entity"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Save сохраняет итоговый результат попытки.
// Результаты неизменяемы: только INSERT, никаких UPDATE.
func (r *ResultRepo) Save(result *entity.Result) error {
	return r.db.Create(result).Error
}

// GetByUser возвращает все результаты пользователя
func (r *ResultRepo) GetByUser(userID uint) ([]entity.Result, error) {
	var results []entity.Result
	err := r.db.Where("user_id = ?", userID).
		Order("created_at").
		Find(&results).Error
	// Пустой слайс — валидный результат, на ErrRecordNotFound не проверяем
	return results, err
}

// GetByCompany возвращает все результаты компании
func (r *ResultRepo) GetByCompany(companyID uint) ([]entity.Result, error) {
	var results []entity.Result
	err := r.db.Where("company_id = ?", companyID).
		Order("created_at").
		Find(&results).Error
	return results, err
}

// GetAll возвращает весь журнал результатов
func (r *ResultRepo) GetAll() ([]entity.Result, error) {
	var results []entity.Result
	err := r.db.Order("created_at").Find(&results).Error
	return results, err
}
