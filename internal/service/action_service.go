package service

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	"github.com/yourusername/quizium-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// ActionService реализует переходы ролей пользователь-компания:
// приглашения, заявки на вступление, принятие/отклонение, исключение,
// назначение и снятие администраторов.
type ActionService struct {
	actionRepo  repository.ActionRepository
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
	db          *gorm.DB

	// runInTx выполняет функцию внутри транзакции БД.
	// Вынесено в поле, чтобы тесты могли подставить свою границу транзакции.
	runInTx func(fn func(tx *gorm.DB) error) error
}

// NewActionService создает новый сервис переходов ролей
func NewActionService(
	actionRepo repository.ActionRepository,
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
) *ActionService {
	s := &ActionService{
		actionRepo:  actionRepo,
		companyRepo: companyRepo,
		userRepo:    userRepo,
		db:          db,
	}
	s.runInTx = func(fn func(tx *gorm.DB) error) error {
		return db.Transaction(fn)
	}
	return s
}

// maxTransitionAttempts ограничивает перезапуски перехода при гонке создания
const maxTransitionAttempts = 3

// applyRoleAction применяет действие к паре (company, user) атомарно.
// Проигранная гонка создания (нарушение уникального индекса) обрывает
// текущую транзакцию на стороне Postgres, поэтому внутри нее нельзя
// перечитать строку. Вместо этого переход перезапускается целиком в новой
// транзакции: повторное чтение под FOR UPDATE видит строку, закоммиченную
// победителем, и действие применяется уже к ней — авто-разрешение не теряется.
func (s *ActionService) applyRoleAction(companyID, userID uint, action entity.RoleAction) (*entity.Action, error) {
	var (
		result *entity.Action
		err    error
	)
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		result, err = s.runRoleTransition(companyID, userID, action)
		if !errors.Is(err, apperrors.ErrAlreadyExists) {
			return result, err
		}
	}
	return nil, fmt.Errorf("role transition kept losing the create race: %w", err)
}

// runRoleTransition выполняет одну попытку перехода в собственной транзакции.
// Возвращает apperrors.ErrAlreadyExists, если создание строки проиграло
// гонку встречному invite/request.
func (s *ActionService) runRoleTransition(companyID, userID uint, action entity.RoleAction) (*entity.Action, error) {
	var result *entity.Action

	err := s.runInTx(func(tx *gorm.DB) error {
		row, err := s.actionRepo.GetByPairForUpdate(tx, companyID, userID)
		current := entity.RoleNone
		switch {
		case err == nil:
			current = row.Role
		case errors.Is(err, apperrors.ErrNotFound):
			row = nil
		default:
			return fmt.Errorf("failed to lock action row: %w", err)
		}

		transition, err := entity.ApplyRoleAction(current, action)
		if err != nil {
			return err
		}

		if row == nil {
			newRow := &entity.Action{CompanyID: companyID, UserID: userID, Role: transition.Next}
			if err := s.actionRepo.Create(tx, newRow); err != nil {
				return err
			}
			result = newRow
			return nil
		}

		if transition.Delete {
			if err := s.actionRepo.Delete(tx, row.ID); err != nil {
				return err
			}
			result = nil
			return nil
		}

		if err := s.actionRepo.UpdateRole(tx, row.ID, transition.Next); err != nil {
			return err
		}
		row.Role = transition.Next
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// requireOwner проверяет, что actor — владелец компании
func (s *ActionService) requireOwner(companyID, actorID uint) (*entity.Company, error) {
	company, err := s.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if !company.IsOwnedBy(actorID) {
		return nil, fmt.Errorf("%w: only the company owner can do this", apperrors.ErrForbidden)
	}
	return company, nil
}

// CreateInvite приглашает пользователя в компанию. Только владелец компании.
// Встречная заявка REQUESTED авто-разрешается сразу в MEMBER.
func (s *ActionService) CreateInvite(companyID, inviterID, targetUserID uint) (*entity.Action, error) {
	if _, err := s.requireOwner(companyID, inviterID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(targetUserID); err != nil {
		return nil, err
	}

	action, err := s.applyRoleAction(companyID, targetUserID, entity.ActionInvite)
	if err != nil {
		return nil, err
	}
	log.Printf("[ActionService] Пользователь %d приглашен в компанию %d (роль: %s)", targetUserID, companyID, action.Role)
	return action, nil
}

// CancelInvite отменяет приглашение. Только владелец компании приглашения.
func (s *ActionService) CancelInvite(actionID, actorID uint) error {
	action, err := s.actionRepo.GetByID(actionID)
	if err != nil {
		return err
	}
	if _, err := s.requireOwner(action.CompanyID, actorID); err != nil {
		return err
	}

	return s.runInTx(func(tx *gorm.DB) error {
		return s.actionRepo.Delete(tx, action.ID)
	})
}

// RespondToInvite принимает или отклоняет приглашение. Только приглашенный
// пользователь. Отклонение сохраняет строку с ролью DECLINED.
func (s *ActionService) RespondToInvite(actionID, actorID uint, accept bool) (*entity.Action, error) {
	action, err := s.actionRepo.GetByID(actionID)
	if err != nil {
		return nil, err
	}
	if action.UserID != actorID {
		return nil, fmt.Errorf("%w: only the invited user can respond", apperrors.ErrForbidden)
	}

	roleAction := entity.ActionDeclineInvite
	if accept {
		roleAction = entity.ActionAcceptInvite
	}
	return s.applyRoleAction(action.CompanyID, action.UserID, roleAction)
}

// CreateRequest отправляет заявку на вступление в компанию.
// Встречное приглашение INVITED авто-разрешается сразу в MEMBER.
func (s *ActionService) CreateRequest(companyID, requesterID uint) (*entity.Action, error) {
	company, err := s.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company.IsOwnedBy(requesterID) {
		return nil, apperrors.ErrAlreadyInCompany
	}

	action, err := s.applyRoleAction(companyID, requesterID, entity.ActionRequest)
	if err != nil {
		return nil, err
	}
	log.Printf("[ActionService] Пользователь %d подал заявку в компанию %d (роль: %s)", requesterID, companyID, action.Role)
	return action, nil
}

// CancelRequest отменяет заявку на вступление. Только сам податель заявки.
func (s *ActionService) CancelRequest(actionID, actorID uint) error {
	action, err := s.actionRepo.GetByID(actionID)
	if err != nil {
		return err
	}
	if action.UserID != actorID {
		return fmt.Errorf("%w: only the requester can cancel the request", apperrors.ErrForbidden)
	}

	return s.runInTx(func(tx *gorm.DB) error {
		return s.actionRepo.Delete(tx, action.ID)
	})
}

// RespondToRequest принимает или отклоняет заявку на вступление.
// Только владелец компании.
func (s *ActionService) RespondToRequest(actionID, actorID uint, accept bool) (*entity.Action, error) {
	action, err := s.actionRepo.GetByID(actionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireOwner(action.CompanyID, actorID); err != nil {
		return nil, err
	}

	roleAction := entity.ActionDeclineRequest
	if accept {
		roleAction = entity.ActionAcceptRequest
	}
	return s.applyRoleAction(action.CompanyID, action.UserID, roleAction)
}

// RemoveUser исключает пользователя из компании. Только владелец;
// исключить можно только роль MEMBER (администраторы сначала снимаются).
func (s *ActionService) RemoveUser(companyID, targetUserID, actorID uint) error {
	if _, err := s.requireOwner(companyID, actorID); err != nil {
		return err
	}

	_, err := s.applyRoleAction(companyID, targetUserID, entity.ActionRemoveUser)
	if err != nil {
		return err
	}
	log.Printf("[ActionService] Пользователь %d исключен из компании %d", targetUserID, companyID)
	return nil
}

// AssignAdmin назначает участника администратором. Только владелец;
// требуется текущая роль MEMBER.
func (s *ActionService) AssignAdmin(companyID, targetUserID, actorID uint) (*entity.Action, error) {
	if _, err := s.requireOwner(companyID, actorID); err != nil {
		return nil, err
	}
	return s.applyRoleAction(companyID, targetUserID, entity.ActionAssignAdmin)
}

// RemoveAdmin снимает администратора до обычного участника. Только владелец.
func (s *ActionService) RemoveAdmin(companyID, targetUserID, actorID uint) (*entity.Action, error) {
	if _, err := s.requireOwner(companyID, actorID); err != nil {
		return nil, err
	}
	return s.applyRoleAction(companyID, targetUserID, entity.ActionRemoveAdmin)
}

// GetRoleInCompany возвращает текущую роль пользователя в компании.
// Владелец компании получает RoleOwner без обращения к строкам Action.
func (s *ActionService) GetRoleInCompany(companyID, userID uint) (entity.Role, error) {
	company, err := s.companyRepo.GetByID(companyID)
	if err != nil {
		return entity.RoleNone, err
	}
	if company.IsOwnedBy(userID) {
		return entity.RoleOwner, nil
	}

	action, err := s.actionRepo.GetByPair(companyID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return entity.RoleNone, nil
		}
		return entity.RoleNone, err
	}
	return action.Role, nil
}

// CanManageQuizzes проверяет право управлять викторинами компании
// (владелец или администратор)
func (s *ActionService) CanManageQuizzes(companyID, userID uint) (bool, error) {
	role, err := s.GetRoleInCompany(companyID, userID)
	if err != nil {
		return false, err
	}
	return role == entity.RoleOwner || role == entity.RoleAdmin, nil
}

// normalizePage приводит пагинацию к смещению: страницы нумеруются с 1
func normalizePage(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return pageSize, (page - 1) * pageSize
}

// ListUserRequests возвращает заявки пользователя на вступление
func (s *ActionService) ListUserRequests(userID uint, page, pageSize int) ([]entity.Action, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	return s.actionRepo.ListByUserAndRole(userID, entity.RoleRequested, limit, offset)
}

// ListUserInvites возвращает приглашения пользователя
func (s *ActionService) ListUserInvites(userID uint, page, pageSize int) ([]entity.Action, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	return s.actionRepo.ListByUserAndRole(userID, entity.RoleInvited, limit, offset)
}

// ListCompanyRequests возвращает заявки на вступление в компанию.
// Только владелец компании.
func (s *ActionService) ListCompanyRequests(companyID, actorID uint, page, pageSize int) ([]entity.Action, int64, error) {
	if _, err := s.requireOwner(companyID, actorID); err != nil {
		return nil, 0, err
	}
	limit, offset := normalizePage(page, pageSize)
	return s.actionRepo.ListByCompanyAndRole(companyID, entity.RoleRequested, limit, offset)
}

// ListCompanyInvited возвращает приглашенных в компанию пользователей.
// Только владелец компании.
func (s *ActionService) ListCompanyInvited(companyID, actorID uint, page, pageSize int) ([]entity.Action, int64, error) {
	if _, err := s.requireOwner(companyID, actorID); err != nil {
		return nil, 0, err
	}
	limit, offset := normalizePage(page, pageSize)
	return s.actionRepo.ListByCompanyAndRole(companyID, entity.RoleInvited, limit, offset)
}

// ListCompanyMembers возвращает участников компании.
// Владелец не появляется в списке: его членство не материализовано строкой.
func (s *ActionService) ListCompanyMembers(companyID uint, page, pageSize int) ([]entity.Action, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	return s.actionRepo.ListByCompanyAndRole(companyID, entity.RoleMember, limit, offset)
}

// ListCompanyAdmins возвращает администраторов компании
func (s *ActionService) ListCompanyAdmins(companyID uint, page, pageSize int) ([]entity.Action, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	return s.actionRepo.ListByCompanyAndRole(companyID, entity.RoleAdmin, limit, offset)
}
