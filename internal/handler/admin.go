package handler

import (
	"net/http"

	"github.com/aidar/task-tracker/internal/domain"
	"github.com/aidar/task-tracker/internal/middleware"
	"github.com/aidar/task-tracker/internal/service"
)

// AdminHandler обрабатывает панель администратора
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler создает новый AdminHandler
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// DashboardResponse представляет панель администратора
type DashboardResponse struct {
	Groups []domain.Group `json:"groups"`
	Users  []*domain.User `json:"users"`
}

// Dashboard обрабатывает GET /admin
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.adminService.Dashboard(r.Context(), middleware.GetCallerFromContext(r.Context()))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, DashboardResponse{
		Groups: dashboard.Groups,
		Users:  dashboard.Users,
	})
}
