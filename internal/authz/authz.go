// Package authz decides whether a caller may perform an operation on a
// task, group or user. Authorize is a pure function: it performs no I/O
// and keeps no state, so callers must build the Subject from the current
// store contents on every request.
//
// Rules are deny-by-default. Every action requires an authenticated
// subject; beyond that:
//
//	task/view        any authenticated caller (visibility is scoped by the board)
//	task/create      member of the target group
//	task/edit|delete member of the task's group, and owner or site admin
//	group/view       member of the group or its admin
//	group/create     site admin
//	group/edit|delete site admin who is the admin of that group
//	group/members    admin of that group
//	user/create|list site admin
//	user/delete      site admin, never self
//	admin/dashboard  site admin
package authz

import (
	"fmt"
	"slices"

	"github.com/aidar/task-tracker/internal/domain"
)

// Action identifies an operation gated by Authorize.
type Action string

// Known actions.
const (
	ActionViewTasks     Action = "task/view"
	ActionCreateTask    Action = "task/create"
	ActionEditTask      Action = "task/edit"
	ActionDeleteTask    Action = "task/delete"
	ActionViewGroup     Action = "group/view"
	ActionCreateGroup   Action = "group/create"
	ActionEditGroup     Action = "group/edit"
	ActionDeleteGroup   Action = "group/delete"
	ActionManageMembers Action = "group/members"
	ActionCreateUser    Action = "user/create"
	ActionListUsers     Action = "user/list"
	ActionDeleteUser    Action = "user/delete"
	ActionViewDashboard Action = "admin/dashboard"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Deny means the action is not permitted.
	Deny Decision = iota

	// Allow means the action is permitted.
	Allow
)

// String returns "allow" or "deny".
func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Reason describes why a check was denied. ReasonNone accompanies Allow.
type Reason int

const (
	ReasonNone Reason = iota

	// ReasonUnauthenticated means there is no caller identity.
	ReasonUnauthenticated

	// ReasonNotGroupMember means the caller is outside the target group.
	ReasonNotGroupMember

	// ReasonNotOwner means the caller is in the group but neither owns
	// the task nor holds the admin role.
	ReasonNotOwner

	// ReasonNotSiteAdmin means the action needs is_admin.
	ReasonNotSiteAdmin

	// ReasonNotGroupAdmin means the caller is not the admin of this
	// particular group.
	ReasonNotGroupAdmin

	// ReasonSelfTarget means the caller tried to act on their own account.
	ReasonSelfTarget

	// ReasonUnknownAction means the action is not recognised.
	ReasonUnknownAction
)

// String returns a human-readable reason.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnauthenticated:
		return "not authenticated"
	case ReasonNotGroupMember:
		return "not a member of the group"
	case ReasonNotOwner:
		return "neither task owner nor admin"
	case ReasonNotSiteAdmin:
		return "admin role required"
	case ReasonNotGroupAdmin:
		return "not the admin of this group"
	case ReasonSelfTarget:
		return "cannot target own account"
	case ReasonUnknownAction:
		return "unknown action"
	default:
		return "unknown"
	}
}

// Result describes the outcome of an authorization check.
type Result struct {
	Action   Action
	Decision Decision

	// Reason is only meaningful when Decision is Deny.
	Reason Reason
}

// Allowed reports whether the decision is Allow.
func (r Result) Allowed() bool {
	return r.Decision == Allow
}

// Err converts a denial into the matching domain error. Returns nil on Allow.
func (r Result) Err() error {
	if r.Decision == Allow {
		return nil
	}
	switch r.Reason {
	case ReasonUnauthenticated:
		return domain.ErrUnauthenticated
	case ReasonNotGroupMember:
		return domain.ErrNotGroupMember
	default:
		return fmt.Errorf("%w: %s: %s", domain.ErrForbidden, r.Action, r.Reason)
	}
}

// Subject is the acting user together with their current group memberships.
type Subject struct {
	UserID  int64
	IsAdmin bool
	groups  map[int64]struct{}
}

// NewSubject builds a subject from a freshly loaded user row and the ids
// of the groups the user currently belongs to. A nil user yields the
// anonymous subject.
func NewSubject(user *domain.User, groupIDs []int64) Subject {
	if user == nil {
		return Subject{}
	}
	groups := make(map[int64]struct{}, len(groupIDs))
	for _, id := range groupIDs {
		groups[id] = struct{}{}
	}
	return Subject{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		groups:  groups,
	}
}

// Authenticated reports whether the subject carries an identity.
func (s Subject) Authenticated() bool {
	return s.UserID != 0
}

// IsMember reports whether the subject belongs to the group.
func (s Subject) IsMember(groupID int64) bool {
	_, ok := s.groups[groupID]
	return ok
}

// GroupIDs returns the subject's group ids in ascending order.
func (s Subject) GroupIDs() []int64 {
	ids := make([]int64, 0, len(s.groups))
	for id := range s.groups {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Resource carries the attributes of the target entity that the rules
// inspect. Unused fields stay zero.
type Resource struct {
	GroupID      int64 // target group, or the task's group
	GroupAdminID int64
	OwnerID      int64 // task owner
	UserID       int64 // target account for user/delete
}

// GroupResource describes a group as an authorization target.
func GroupResource(group *domain.Group) Resource {
	return Resource{GroupID: group.ID, GroupAdminID: group.AdminID}
}

// TaskResource describes a task as an authorization target.
func TaskResource(task *domain.Task) Resource {
	return Resource{GroupID: task.GroupID, OwnerID: task.OwnerID}
}

// UserResource describes a user account as an authorization target.
func UserResource(userID int64) Resource {
	return Resource{UserID: userID}
}

// Authorize checks whether subject may perform action on resource.
func Authorize(subject Subject, action Action, resource Resource) Result {
	if !subject.Authenticated() {
		return deny(action, ReasonUnauthenticated)
	}

	switch action {
	case ActionViewTasks:
		return allow(action)

	case ActionCreateTask:
		if !subject.IsMember(resource.GroupID) {
			return deny(action, ReasonNotGroupMember)
		}
		return allow(action)

	case ActionEditTask, ActionDeleteTask:
		if !subject.IsMember(resource.GroupID) {
			return deny(action, ReasonNotGroupMember)
		}
		if subject.UserID != resource.OwnerID && !subject.IsAdmin {
			return deny(action, ReasonNotOwner)
		}
		return allow(action)

	case ActionViewGroup:
		if subject.IsMember(resource.GroupID) || subject.UserID == resource.GroupAdminID {
			return allow(action)
		}
		return deny(action, ReasonNotGroupMember)

	case ActionCreateGroup, ActionCreateUser, ActionListUsers, ActionViewDashboard:
		if !subject.IsAdmin {
			return deny(action, ReasonNotSiteAdmin)
		}
		return allow(action)

	case ActionEditGroup, ActionDeleteGroup:
		if !subject.IsAdmin {
			return deny(action, ReasonNotSiteAdmin)
		}
		if subject.UserID != resource.GroupAdminID {
			return deny(action, ReasonNotGroupAdmin)
		}
		return allow(action)

	case ActionManageMembers:
		if subject.UserID != resource.GroupAdminID {
			return deny(action, ReasonNotGroupAdmin)
		}
		return allow(action)

	case ActionDeleteUser:
		if !subject.IsAdmin {
			return deny(action, ReasonNotSiteAdmin)
		}
		if subject.UserID == resource.UserID {
			return deny(action, ReasonSelfTarget)
		}
		return allow(action)

	default:
		return deny(action, ReasonUnknownAction)
	}
}

func allow(action Action) Result {
	return Result{Action: action, Decision: Allow}
}

func deny(action Action, reason Reason) Result {
	return Result{Action: action, Decision: Deny, Reason: reason}
}
