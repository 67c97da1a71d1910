package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/task-tracker/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки; Field заполняется для ошибок валидации
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.MapErrorToCode(err)

	switch code {
	case domain.CodeValidation:
		var validationErr *domain.ValidationError
		errors.As(err, &validationErr)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{
			Error: ErrorDetail{
				Code:    string(code),
				Message: validationErr.Message,
				Field:   validationErr.Field,
			},
		})
	case domain.CodeUnauthenticated:
		RespondWithError(w, r, http.StatusUnauthorized, string(code), err.Error())
	case domain.CodeNotGroupMember:
		RespondWithError(w, r, http.StatusForbidden, string(code), "you are not a member of this group")
	case domain.CodeForbidden:
		RespondWithError(w, r, http.StatusForbidden, string(code), "you do not have permission to perform this action")
	case domain.CodeNotFound:
		RespondWithError(w, r, http.StatusNotFound, string(code), err.Error())
	case domain.CodeUsernameTaken, domain.CodeAdminOwnsGroups:
		RespondWithError(w, r, http.StatusConflict, string(code), err.Error())
	default:
		// Внутренние детали логируются, но не отдаются клиенту
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		RespondWithError(w, r, http.StatusInternalServerError, string(domain.CodeInternal), "internal server error")
	}
}

// respondBadRequest отправляет ответ о некорректном запросе (тело или параметры пути)
func respondBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", message)
}
