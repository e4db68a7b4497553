package apperr

import (
	"errors"
	"net/http"
)

// Классы ошибок предметной области. Обработчики сопоставляют их с HTTP статусами
var (
	ErrValidation      = errors.New("некорректные данные")
	ErrNotFound        = errors.New("запись не найдена")
	ErrPermission      = errors.New("доступ запрещён")
	ErrConflict        = errors.New("конфликт версий записи")
	ErrExternalService = errors.New("внешний сервис недоступен")
)

// StatusCode возвращает HTTP статус для ошибки предметной области
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
