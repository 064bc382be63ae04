package errors

import (
	"errors"
	"fmt"
)

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния
	// (например, повторное приглашение уже приглашенного пользователя).
	ErrConflict = errors.New("resource state conflict")

	// ErrInvalidState используется, когда действие недопустимо из текущей роли
	// (например, принятие приглашения, которого нет).
	ErrInvalidState = errors.New("invalid state for requested action")
)

// Ошибки переходов ролей в компании.
// Каждая оборачивает базовый вид, поэтому errors.Is работает и по конкретной
// ошибке, и по ErrConflict/ErrInvalidState.
var (
	ErrAlreadyInvited   = fmt.Errorf("%w: user is already invited to the company", ErrConflict)
	ErrAlreadyMember    = fmt.Errorf("%w: user is already a member of the company", ErrConflict)
	ErrAlreadyInCompany = fmt.Errorf("%w: user is already in the company", ErrConflict)
	ErrDuplicateRequest = fmt.Errorf("%w: join request already sent to the company", ErrConflict)
	ErrBlocked          = fmt.Errorf("%w: user is blocked by the company", ErrConflict)

	// ErrActionNotAllowed — переход запрещен таблицей переходов ролей
	// (например, удаление администратора через remove_user).
	ErrActionNotAllowed = fmt.Errorf("%w: action is not allowed for the current role", ErrInvalidState)
)

// ErrAlreadyExists используется при нарушении уникальности (имя компании, email).
var ErrAlreadyExists = fmt.Errorf("%w: already exists", ErrConflict)
