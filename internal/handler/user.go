package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aidar/task-tracker/internal/domain"
	"github.com/aidar/task-tracker/internal/middleware"
	"github.com/aidar/task-tracker/internal/service"
)

// UserHandler обрабатывает эндпоинты пользователей
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUserRequest представляет тело запроса на создание пользователя
type CreateUserRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UserResponse представляет ответ с пользователем
type UserResponse struct {
	User *domain.User `json:"user"`
}

// UsersResponse представляет ответ со списком пользователей
type UsersResponse struct {
	Users []*domain.User `json:"users"`
}

// List обрабатывает GET /admin/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context(), middleware.GetCallerFromContext(r.Context()))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if users == nil {
		users = []*domain.User{}
	}
	RespondWithJSON(w, r, http.StatusOK, UsersResponse{Users: users})
}

// Create обрабатывает POST /admin/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	user, err := h.userService.Create(r.Context(), middleware.GetCallerFromContext(r.Context()), service.UserInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, UserResponse{User: user})
}

// Delete обрабатывает DELETE /admin/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	if err := h.userService.Delete(r.Context(), middleware.GetCallerFromContext(r.Context()), userID); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
