package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// ActionRepo реализует repository.ActionRepository
type ActionRepo struct {
	db *gorm.DB
}

// NewActionRepo создает новый репозиторий строк связи пользователь-компания
func NewActionRepo(db *gorm.DB) *ActionRepo {
	return &ActionRepo{db: db}
}

// Create создает новую строку связи.
// Уникальный индекс (company_id, user_id) — последняя линия защиты от гонки
// встречных invite/request: проигравший получает ErrAlreadyExists.
func (r *ActionRepo) Create(tx *gorm.DB, action *entity.Action) error {
	db := r.conn(tx)
	if err := db.Create(action).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID возвращает строку по ID
func (r *ActionRepo) GetByID(id uint) (*entity.Action, error) {
	var action entity.Action
	err := r.db.First(&action, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &action, nil
}

// GetByPair возвращает строку для пары (company, user)
func (r *ActionRepo) GetByPair(companyID, userID uint) (*entity.Action, error) {
	var action entity.Action
	err := r.db.Where("company_id = ? AND user_id = ?", companyID, userID).
		First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &action, nil
}

// GetByPairForUpdate возвращает строку для пары под блокировкой SELECT ... FOR UPDATE.
// Блокировка удерживается до конца транзакции tx: конкурирующий переход для той же
// пары дождется коммита и увидит уже обновленную роль.
func (r *ActionRepo) GetByPairForUpdate(tx *gorm.DB, companyID, userID uint) (*entity.Action, error) {
	var action entity.Action
	err := r.conn(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &action, nil
}

// UpdateRole обновляет роль строки
func (r *ActionRepo) UpdateRole(tx *gorm.DB, actionID uint, role entity.Role) error {
	res := r.conn(tx).Model(&entity.Action{}).
		Where("id = ?", actionID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет строку связи
func (r *ActionRepo) Delete(tx *gorm.DB, actionID uint) error {
	res := r.conn(tx).Delete(&entity.Action{}, actionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListByUserAndRole возвращает строки пользователя с точным совпадением роли, с пагинацией
func (r *ActionRepo) ListByUserAndRole(userID uint, role entity.Role, limit, offset int) ([]entity.Action, int64, error) {
	return r.list(r.db.Where("user_id = ? AND role = ?", userID, role), limit, offset)
}

// ListByCompanyAndRole возвращает строки компании с точным совпадением роли, с пагинацией
func (r *ActionRepo) ListByCompanyAndRole(companyID uint, role entity.Role, limit, offset int) ([]entity.Action, int64, error) {
	return r.list(r.db.Where("company_id = ? AND role = ?", companyID, role), limit, offset)
}

func (r *ActionRepo) list(query *gorm.DB, limit, offset int) ([]entity.Action, int64, error) {
	var actions []entity.Action
	var total int64

	if err := query.Model(&entity.Action{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at").
		Limit(limit).
		Offset(offset).
		Find(&actions).Error
	if err != nil {
		return nil, 0, err
	}
	return actions, total, nil
}

// conn возвращает переданную транзакцию либо базовое подключение
func (r *ActionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
