package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aidar/task-tracker/internal/domain"
	"github.com/aidar/task-tracker/internal/middleware"
	"github.com/aidar/task-tracker/internal/service"
)

// GroupHandler обрабатывает эндпоинты групп задач
type GroupHandler struct {
	groupService *service.GroupService
}

// NewGroupHandler создает новый GroupHandler
func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// GroupRequest представляет тело запроса на создание или изменение группы
type GroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GroupResponse представляет ответ с группой
type GroupResponse struct {
	Group *domain.Group `json:"group"`
}

// MemberRequest представляет тело запроса на добавление участника
type MemberRequest struct {
	UserID int64 `json:"user_id"`
}

// Create обрабатывает POST /admin/groups
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req GroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	group, err := h.groupService.Create(r.Context(), middleware.GetCallerFromContext(r.Context()), service.GroupInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, GroupResponse{Group: group})
}

// Get обрабатывает GET /groups/{id}
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	group, err := h.groupService.Get(r.Context(), middleware.GetCallerFromContext(r.Context()), groupID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, group)
}

// Update обрабатывает PUT /admin/groups/{id}
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	var req GroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	group, err := h.groupService.Update(r.Context(), middleware.GetCallerFromContext(r.Context()), groupID, service.GroupInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, GroupResponse{Group: group})
}

// Delete обрабатывает DELETE /admin/groups/{id}
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	if err := h.groupService.Delete(r.Context(), middleware.GetCallerFromContext(r.Context()), groupID); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddMember обрабатывает POST /admin/groups/{id}/members
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	var req MemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	change, err := h.groupService.AddMember(r.Context(), middleware.GetCallerFromContext(r.Context()), groupID, req.UserID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, change)
}

// RemoveMember обрабатывает DELETE /admin/groups/{id}/members/{userID}
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	userID, err := pathID(r, "userID")
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	change, err := h.groupService.RemoveMember(r.Context(), middleware.GetCallerFromContext(r.Context()), groupID, userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, change)
}
