package domain

import (
	"errors"
	"fmt"
)

// Доменные ошибки
var (
	// ErrUnauthenticated возвращается когда запрос выполнен без валидной личности
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidToken возвращается когда JWT токен невалиден или отозван
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidCredentials возвращается при неверном логине или пароле
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotGroupMember возвращается когда пользователь не состоит в группе
	ErrNotGroupMember = errors.New("caller is not a member of the group")

	// ErrForbidden возвращается когда у пользователя нет нужной роли или владения
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound возвращается когда ресурс не найден
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound возвращается когда пользователь не найден
	ErrUserNotFound = fmt.Errorf("user: %w", ErrNotFound)

	// ErrGroupNotFound возвращается когда группа не найдена
	ErrGroupNotFound = fmt.Errorf("group: %w", ErrNotFound)

	// ErrTaskNotFound возвращается когда задача не найдена
	ErrTaskNotFound = fmt.Errorf("task: %w", ErrNotFound)

	// ErrUsernameTaken возвращается при попытке создать пользователя с занятым именем
	ErrUsernameTaken = errors.New("username already exists")

	// ErrAdminOwnsGroups возвращается при удалении пользователя, который администрирует группы
	ErrAdminOwnsGroups = errors.New("user still administers task groups")
)

// ValidationError описывает отсутствующее или некорректное поле запроса
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError создает ошибку валидации для поля
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeUnauthenticated ErrorCode = "UNAUTHENTICATED"   // Нет валидной личности
	CodeValidation      ErrorCode = "VALIDATION_ERROR"  // Некорректное поле
	CodeNotGroupMember  ErrorCode = "NOT_GROUP_MEMBER"  // Пользователь вне группы
	CodeForbidden       ErrorCode = "FORBIDDEN"         // Недостаточно прав
	CodeNotFound        ErrorCode = "NOT_FOUND"         // Ресурс не найден
	CodeUsernameTaken   ErrorCode = "USERNAME_TAKEN"    // Имя пользователя занято
	CodeAdminOwnsGroups ErrorCode = "ADMIN_OWNS_GROUPS" // Пользователь администрирует группы
	CodeInternal        ErrorCode = "INTERNAL_ERROR"    // Внутренняя ошибка
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return CodeValidation
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrInvalidCredentials):
		return CodeUnauthenticated
	case errors.Is(err, ErrNotGroupMember):
		return CodeNotGroupMember
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrUsernameTaken):
		return CodeUsernameTaken
	case errors.Is(err, ErrAdminOwnsGroups):
		return CodeAdminOwnsGroups
	default:
		return CodeInternal
	}
}
