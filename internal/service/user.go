package service

import (
	"context"

	"github.com/aidar/task-tracker/internal/authz"
	"github.com/aidar/task-tracker/internal/domain"
	"github.com/aidar/task-tracker/internal/repository"
)

// UserInput carries the fields of the user creation form
type UserInput struct {
	Username        string
	Password        string
	ConfirmPassword string
}

// UserService handles business logic for users
type UserService struct {
	userRepo  repository.UserRepository
	groupRepo repository.GroupRepository
	hasher    *PasswordHasher
	guard     *Guard
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	hasher *PasswordHasher,
	guard *Guard,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		groupRepo: groupRepo,
		hasher:    hasher,
		guard:     guard,
	}
}

// Create registers a regular (non-admin) user on behalf of a site admin
func (s *UserService) Create(ctx context.Context, caller domain.Caller, in UserInput) (*domain.User, error) {
	if _, err := s.guard.Authorize(ctx, caller, authz.ActionCreateUser, authz.Resource{}); err != nil {
		return nil, err
	}
	return s.Provision(ctx, in, false)
}

// Provision creates a user without any authorization check. It backs the
// offline provisioning tool, which is how the first site admin is created.
func (s *UserService) Provision(ctx context.Context, in UserInput, isAdmin bool) (*domain.User, error) {
	username, err := validateUserFields(in.Username, in.Password, in.ConfirmPassword)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes a user with their tasks and memberships. A user who still
// administers groups cannot be deleted.
func (s *UserService) Delete(ctx context.Context, caller domain.Caller, userID int64) error {
	subject, err := s.guard.requireAuthenticated(ctx, caller)
	if err != nil {
		return err
	}

	if err := s.guard.Check(ctx, subject, authz.ActionDeleteUser, authz.UserResource(userID)); err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	administered, err := s.groupRepo.ListByAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if len(administered) > 0 {
		return domain.ErrAdminOwnsGroups
	}

	return s.userRepo.Delete(ctx, userID)
}

// List returns all users
func (s *UserService) List(ctx context.Context, caller domain.Caller) ([]*domain.User, error) {
	if _, err := s.guard.Authorize(ctx, caller, authz.ActionListUsers, authz.Resource{}); err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx)
}
