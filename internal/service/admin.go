package service

import (
	"context"

	"github.com/aidar/task-tracker/internal/authz"
	"github.com/aidar/task-tracker/internal/domain"
	"github.com/aidar/task-tracker/internal/repository"
)

// Dashboard is the admin landing view
type Dashboard struct {
	Groups []domain.Group
	Users  []*domain.User
}

// AdminService assembles the admin dashboard
type AdminService struct {
	userRepo  repository.UserRepository
	groupRepo repository.GroupRepository
	guard     *Guard
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo repository.UserRepository, groupRepo repository.GroupRepository, guard *Guard) *AdminService {
	return &AdminService{
		userRepo:  userRepo,
		groupRepo: groupRepo,
		guard:     guard,
	}
}

// Dashboard returns the groups the caller administers and the users that
// can be added to them
func (s *AdminService) Dashboard(ctx context.Context, caller domain.Caller) (*Dashboard, error) {
	subject, err := s.guard.Authorize(ctx, caller, authz.ActionViewDashboard, authz.Resource{})
	if err != nil {
		return nil, err
	}

	groups, err := s.groupRepo.ListByAdmin(ctx, subject.UserID)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListNonAdmins(ctx)
	if err != nil {
		return nil, err
	}

	if groups == nil {
		groups = []domain.Group{}
	}
	if users == nil {
		users = []*domain.User{}
	}

	return &Dashboard{Groups: groups, Users: users}, nil
}
