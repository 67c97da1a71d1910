package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aidar/task-tracker/internal/authz"
	"github.com/aidar/task-tracker/internal/domain"
	"github.com/aidar/task-tracker/internal/repository"
)

// GroupInput carries the user-supplied group fields
type GroupInput struct {
	Name        string
	Description string
}

// GroupService handles business logic for task groups and their members
type GroupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	guard     *Guard
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository, guard *Guard) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		guard:     guard,
	}
}

// Create makes a new group administered by the caller. The caller is not
// added as a member.
func (s *GroupService) Create(ctx context.Context, caller domain.Caller, in GroupInput) (*domain.Group, error) {
	subject, err := s.guard.Authorize(ctx, caller, authz.ActionCreateGroup, authz.Resource{})
	if err != nil {
		return nil, err
	}

	if err := validateGroupFields(in.Name, in.Description); err != nil {
		return nil, err
	}

	group := &domain.Group{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		AdminID:     subject.UserID,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// Get returns a group with its members
func (s *GroupService) Get(ctx context.Context, caller domain.Caller, groupID int64) (*domain.GroupWithMembers, error) {
	group, err := s.authorizeGroup(ctx, caller, authz.ActionViewGroup, groupID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.groupRepo.ListMemberships(ctx, []int64{group.ID})
	if err != nil {
		return nil, err
	}

	members := make([]domain.Member, 0, len(memberships))
	for _, m := range memberships {
		members = append(members, domain.Member{UserID: m.UserID, Username: m.Username})
	}

	return &domain.GroupWithMembers{Group: *group, Members: members}, nil
}

// Update renames a group or changes its description
func (s *GroupService) Update(ctx context.Context, caller domain.Caller, groupID int64, in GroupInput) (*domain.Group, error) {
	group, err := s.authorizeGroup(ctx, caller, authz.ActionEditGroup, groupID)
	if err != nil {
		return nil, err
	}

	if err := validateGroupFields(in.Name, in.Description); err != nil {
		return nil, err
	}

	group.Name = strings.TrimSpace(in.Name)
	group.Description = in.Description
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// Delete removes a group together with all of its tasks
func (s *GroupService) Delete(ctx context.Context, caller domain.Caller, groupID int64) error {
	if _, err := s.authorizeGroup(ctx, caller, authz.ActionDeleteGroup, groupID); err != nil {
		return err
	}
	return s.groupRepo.Delete(ctx, groupID)
}

// AddMember adds a user to the group. Adding an existing member is an
// informational no-op.
func (s *GroupService) AddMember(ctx context.Context, caller domain.Caller, groupID, userID int64) (*domain.MembershipChange, error) {
	group, user, err := s.authorizeMembership(ctx, caller, groupID, userID)
	if err != nil {
		return nil, err
	}

	added, err := s.groupRepo.AddMember(ctx, group.ID, user.ID)
	if err != nil {
		return nil, err
	}

	if !added {
		return &domain.MembershipChange{
			Changed: false,
			Message: fmt.Sprintf("user %q is already a member of the group", user.Username),
		}, nil
	}
	return &domain.MembershipChange{
		Changed: true,
		Message: fmt.Sprintf("user %q added to the group", user.Username),
	}, nil
}

// RemoveMember removes a user from the group. Removing a non-member is an
// informational no-op. Tasks the user already created stay in the group.
func (s *GroupService) RemoveMember(ctx context.Context, caller domain.Caller, groupID, userID int64) (*domain.MembershipChange, error) {
	group, user, err := s.authorizeMembership(ctx, caller, groupID, userID)
	if err != nil {
		return nil, err
	}

	removed, err := s.groupRepo.RemoveMember(ctx, group.ID, user.ID)
	if err != nil {
		return nil, err
	}

	if !removed {
		return &domain.MembershipChange{
			Changed: false,
			Message: fmt.Sprintf("user %q is not a member of the group", user.Username),
		}, nil
	}
	return &domain.MembershipChange{
		Changed: true,
		Message: fmt.Sprintf("user %q removed from the group", user.Username),
	}, nil
}

func (s *GroupService) authorizeGroup(ctx context.Context, caller domain.Caller, action authz.Action, groupID int64) (*domain.Group, error) {
	subject, err := s.guard.requireAuthenticated(ctx, caller)
	if err != nil {
		return nil, err
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Check(ctx, subject, action, authz.GroupResource(group)); err != nil {
		return nil, err
	}

	return group, nil
}

func (s *GroupService) authorizeMembership(ctx context.Context, caller domain.Caller, groupID, userID int64) (*domain.Group, *domain.User, error) {
	group, err := s.authorizeGroup(ctx, caller, authz.ActionManageMembers, groupID)
	if err != nil {
		return nil, nil, err
	}

	if userID == 0 {
		return nil, nil, domain.NewValidationError("user_id", "user is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return group, user, nil
}
