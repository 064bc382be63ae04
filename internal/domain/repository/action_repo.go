package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/quizium-api/internal/domain/entity"
)

// ActionRepository определяет методы для работы со строками связи
// пользователь-компания. Все переходы ролей выполняются внутри транзакции
// с блокировкой строки, чтобы встречные invite/request не создали дубликат
// и не потеряли авто-разрешение.
type ActionRepository interface {
	// Create создает новую строку. Возвращает apperrors.ErrAlreadyExists
	// при нарушении уникального индекса (company_id, user_id).
	Create(tx *gorm.DB, action *entity.Action) error

	// GetByID возвращает строку по ID
	GetByID(id uint) (*entity.Action, error)

	// GetByPair возвращает строку для пары (company, user) без блокировки
	GetByPair(companyID, userID uint) (*entity.Action, error)

	// GetByPairForUpdate возвращает строку для пары под блокировкой
	// SELECT ... FOR UPDATE. Должен вызываться внутри транзакции tx.
	GetByPairForUpdate(tx *gorm.DB, companyID, userID uint) (*entity.Action, error)

	// UpdateRole обновляет роль строки
	UpdateRole(tx *gorm.DB, actionID uint, role entity.Role) error

	// Delete удаляет строку
	Delete(tx *gorm.DB, actionID uint) error

	// ListByUserAndRole возвращает строки пользователя с точным совпадением роли
	ListByUserAndRole(userID uint, role entity.Role, limit, offset int) ([]entity.Action, int64, error)

	// ListByCompanyAndRole возвращает строки компании с точным совпадением роли
	ListByCompanyAndRole(companyID uint, role entity.Role, limit, offset int) ([]entity.Action, int64, error)
}
