package entity

import (
	"time"

	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// Role — роль пользователя в компании.
// Одно и то же поле хранит и текущий уровень членства (member, admin),
// и состояние незавершенного процесса (invited, requested, declined, blocked).
type Role string

// Константы ролей в компании
const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleMember    Role = "member"
	RoleInvited   Role = "invited"
	RoleRequested Role = "requested"
	RoleDeclined  Role = "declined"
	RoleBlocked   Role = "blocked"

	// RoleNone — отсутствие строки Action для пары (company, user)
	RoleNone Role = ""
)

// RoleAction — действие над связью пользователь-компания
type RoleAction string

// Константы действий
const (
	ActionInvite         RoleAction = "invite"
	ActionRequest        RoleAction = "request"
	ActionAcceptInvite   RoleAction = "accept_invite"
	ActionDeclineInvite  RoleAction = "decline_invite"
	ActionAcceptRequest  RoleAction = "accept_request"
	ActionDeclineRequest RoleAction = "decline_request"
	ActionRemoveUser     RoleAction = "remove_user"
	ActionAssignAdmin    RoleAction = "assign_admin"
	ActionRemoveAdmin    RoleAction = "remove_admin"
)

// Action представляет единственную строку связи между пользователем и компанией.
// Инвариант: не более одной строки на пару (company_id, user_id) — уникальный
// индекс в БД плюс блокировка строки при переходах.
type Action struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CompanyID uint      `gorm:"not null;index;uniqueIndex:idx_company_user" json:"company_id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_company_user" json:"user_id"`
	Role      Role      `gorm:"size:20;not null;index" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Action) TableName() string {
	return "actions"
}

// IsMembershipTier возвращает true для ролей действительного членства
func (r Role) IsMembershipTier() bool {
	return r == RoleMember || r == RoleAdmin || r == RoleOwner
}

// Transition — результат применения действия к текущей роли
type Transition struct {
	// Next — роль после перехода. RoleNone означает удаление строки.
	Next Role
	// Delete — строку нужно удалить, а не обновить
	Delete bool
}

// transitionTable: текущая роль × действие → переход либо ошибка.
// Таблица делает правила легальности переходов исчерпывающими и проверяемыми
// отдельно от вызывающего кода. Авто-разрешение встречных приглашения и заявки
// закодировано здесь: invite поверх requested (и request поверх invited)
// переводит строку сразу в member.
var transitionTable = map[Role]map[RoleAction]Transition{
	RoleNone: {
		ActionInvite:  {Next: RoleInvited},
		ActionRequest: {Next: RoleRequested},
	},
	RoleInvited: {
		ActionRequest:       {Next: RoleMember}, // авто-разрешение
		ActionAcceptInvite:  {Next: RoleMember},
		ActionDeclineInvite: {Next: RoleDeclined},
	},
	RoleRequested: {
		ActionInvite:         {Next: RoleMember}, // авто-разрешение
		ActionAcceptRequest:  {Next: RoleMember},
		ActionDeclineRequest: {Next: RoleDeclined},
	},
	RoleDeclined: {
		// Отклонение не запрещает новый цикл приглашения/заявки
		ActionInvite:  {Next: RoleInvited},
		ActionRequest: {Next: RoleRequested},
	},
	RoleMember: {
		ActionRemoveUser:  {Next: RoleNone, Delete: true},
		ActionAssignAdmin: {Next: RoleAdmin},
	},
	RoleAdmin: {
		ActionRemoveAdmin: {Next: RoleMember},
	},
	RoleOwner:   {},
	RoleBlocked: {},
}

// transitionErrors: специфичные ошибки для запрещенных комбинаций.
// Комбинации, отсутствующие и здесь, и в transitionTable, получают
// ErrActionNotAllowed.
var transitionErrors = map[Role]map[RoleAction]error{
	RoleNone: {
		// Адресация по паре: отсутствие строки — это "не найдено", а не запрет
		ActionRemoveUser:  apperrors.ErrNotFound,
		ActionAssignAdmin: apperrors.ErrNotFound,
		ActionRemoveAdmin: apperrors.ErrNotFound,
	},
	RoleInvited: {
		ActionInvite: apperrors.ErrAlreadyInvited,
	},
	RoleRequested: {
		ActionRequest: apperrors.ErrDuplicateRequest,
	},
	RoleMember: {
		ActionInvite:        apperrors.ErrAlreadyMember,
		ActionRequest:       apperrors.ErrAlreadyInCompany,
		ActionAcceptRequest: apperrors.ErrAlreadyInCompany,
	},
	RoleAdmin: {
		ActionInvite:        apperrors.ErrAlreadyMember,
		ActionRequest:       apperrors.ErrAlreadyInCompany,
		ActionAcceptRequest: apperrors.ErrAlreadyInCompany,
	},
	RoleOwner: {
		ActionInvite:        apperrors.ErrAlreadyMember,
		ActionRequest:       apperrors.ErrAlreadyInCompany,
		ActionAcceptRequest: apperrors.ErrAlreadyInCompany,
	},
	RoleBlocked: {
		ActionInvite:  apperrors.ErrBlocked,
		ActionRequest: apperrors.ErrBlocked,
	},
}

// ApplyRoleAction применяет действие к текущей роли по таблице переходов.
// Для принятий/отклонений из неподходящего состояния возвращает ErrInvalidState,
// для остальных запрещенных комбинаций — ErrActionNotAllowed или специфичную
// ошибку конфликта.
func ApplyRoleAction(current Role, action RoleAction) (Transition, error) {
	if t, ok := transitionTable[current][action]; ok {
		return t, nil
	}
	if err, ok := transitionErrors[current][action]; ok {
		return Transition{}, err
	}
	switch action {
	case ActionAcceptInvite, ActionDeclineInvite, ActionAcceptRequest, ActionDeclineRequest:
		return Transition{}, apperrors.ErrInvalidState
	}
	return Transition{}, apperrors.ErrActionNotAllowed
}
