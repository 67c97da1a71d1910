package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aidar/task-tracker/internal/authz"
	"github.com/aidar/task-tracker/internal/domain"
	"github.com/aidar/task-tracker/internal/repository"
)

// Guard resolves the caller's current role and memberships and runs the
// authorization predicate. Nothing is cached between calls: membership
// can change between two requests from the same caller.
type Guard struct {
	userRepo  repository.UserRepository
	groupRepo repository.GroupRepository
	logger    *slog.Logger
}

// NewGuard creates a new Guard
func NewGuard(userRepo repository.UserRepository, groupRepo repository.GroupRepository, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		userRepo:  userRepo,
		groupRepo: groupRepo,
		logger:    logger,
	}
}

// Subject loads the caller's user row and groups. An anonymous caller, or
// one whose account no longer exists, yields the anonymous subject.
func (g *Guard) Subject(ctx context.Context, caller domain.Caller) (authz.Subject, []domain.Group, error) {
	if !caller.IsAuthenticated() {
		return authz.NewSubject(nil, nil), nil, nil
	}

	user, err := g.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return authz.NewSubject(nil, nil), nil, nil
		}
		return authz.Subject{}, nil, err
	}

	groups, err := g.groupRepo.ListByMember(ctx, user.ID)
	if err != nil {
		return authz.Subject{}, nil, err
	}

	groupIDs := make([]int64, 0, len(groups))
	for _, group := range groups {
		groupIDs = append(groupIDs, group.ID)
	}

	return authz.NewSubject(user, groupIDs), groups, nil
}

// Check authorizes the action and logs denials.
func (g *Guard) Check(ctx context.Context, subject authz.Subject, action authz.Action, resource authz.Resource) error {
	result := authz.Authorize(subject, action, resource)
	if result.Allowed() {
		return nil
	}

	g.logger.InfoContext(ctx, "Access denied",
		"user_id", subject.UserID,
		"action", string(action),
		"reason", result.Reason.String(),
		"group_id", resource.GroupID,
	)
	return result.Err()
}

// Authorize is Subject followed by Check.
func (g *Guard) Authorize(ctx context.Context, caller domain.Caller, action authz.Action, resource authz.Resource) (authz.Subject, error) {
	subject, _, err := g.Subject(ctx, caller)
	if err != nil {
		return authz.Subject{}, err
	}
	if err := g.Check(ctx, subject, action, resource); err != nil {
		return authz.Subject{}, err
	}
	return subject, nil
}

// requireAuthenticated resolves the subject and fails fast for anonymous
// callers, before any target lookup happens.
func (g *Guard) requireAuthenticated(ctx context.Context, caller domain.Caller) (authz.Subject, error) {
	subject, _, err := g.Subject(ctx, caller)
	if err != nil {
		return authz.Subject{}, err
	}
	if !subject.Authenticated() {
		return authz.Subject{}, domain.ErrUnauthenticated
	}
	return subject, nil
}
