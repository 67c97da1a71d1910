package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/task-tracker/internal/domain"
)

const (
	homeGroupID = 1
	workGroupID = 2
)

// Ana is a site admin and the admin of Home, and a member of Home.
// Bob is a plain member of Home. Carl is a plain member of Work.
// Dora is a site admin who administers Work but is not a member of it.
var (
	ana  = NewSubject(&domain.User{ID: 1, Username: "ana", IsAdmin: true}, []int64{homeGroupID})
	bob  = NewSubject(&domain.User{ID: 2, Username: "bob"}, []int64{homeGroupID})
	carl = NewSubject(&domain.User{ID: 3, Username: "carl"}, []int64{workGroupID})
	dora = NewSubject(&domain.User{ID: 4, Username: "dora", IsAdmin: true}, nil)

	home = &domain.Group{ID: homeGroupID, Name: "Home", AdminID: 1}
	work = &domain.Group{ID: workGroupID, Name: "Work", AdminID: 4}

	bobsTask = &domain.Task{ID: 10, GroupID: homeGroupID, OwnerID: 2}
	anasTask = &domain.Task{ID: 11, GroupID: homeGroupID, OwnerID: 1}
	carlTask = &domain.Task{ID: 12, GroupID: workGroupID, OwnerID: 3}
)

func TestAuthorize_Anonymous(t *testing.T) {
	anonymous := NewSubject(nil, nil)

	for _, action := range []Action{
		ActionViewTasks, ActionCreateTask, ActionEditTask, ActionDeleteTask,
		ActionViewGroup, ActionCreateGroup, ActionEditGroup, ActionDeleteGroup,
		ActionManageMembers, ActionCreateUser, ActionListUsers, ActionDeleteUser,
		ActionViewDashboard,
	} {
		result := Authorize(anonymous, action, TaskResource(bobsTask))
		assert.Equal(t, Deny, result.Decision, action)
		assert.Equal(t, ReasonUnauthenticated, result.Reason, action)
		assert.ErrorIs(t, result.Err(), domain.ErrUnauthenticated, action)
	}
}

func TestAuthorize_Rules(t *testing.T) {
	tests := []struct {
		name     string
		subject  Subject
		action   Action
		resource Resource
		want     Reason
		allowed  bool
	}{
		{"member views tasks", bob, ActionViewTasks, Resource{}, ReasonNone, true},
		{"groupless user views tasks", dora, ActionViewTasks, Resource{}, ReasonNone, true},

		{"member creates task in own group", bob, ActionCreateTask, GroupResource(home), ReasonNone, true},
		{"outsider creates task", carl, ActionCreateTask, GroupResource(home), ReasonNotGroupMember, false},
		{"group admin without membership creates task", dora, ActionCreateTask, GroupResource(work), ReasonNotGroupMember, false},

		{"owner edits own task", bob, ActionEditTask, TaskResource(bobsTask), ReasonNone, true},
		{"owner deletes own task", bob, ActionDeleteTask, TaskResource(bobsTask), ReasonNone, true},
		{"admin member edits someone else's task", ana, ActionEditTask, TaskResource(bobsTask), ReasonNone, true},
		{"admin member deletes someone else's task", ana, ActionDeleteTask, TaskResource(bobsTask), ReasonNone, true},
		{"member edits another member's task", bob, ActionEditTask, TaskResource(anasTask), ReasonNotOwner, false},
		{"member deletes another member's task", bob, ActionDeleteTask, TaskResource(anasTask), ReasonNotOwner, false},
		{"outsider deletes task", bob, ActionDeleteTask, TaskResource(carlTask), ReasonNotGroupMember, false},
		{"site admin outside group edits task", dora, ActionEditTask, TaskResource(carlTask), ReasonNotGroupMember, false},

		{"member views group", bob, ActionViewGroup, GroupResource(home), ReasonNone, true},
		{"admin views own group without membership", dora, ActionViewGroup, GroupResource(work), ReasonNone, true},
		{"outsider views group", carl, ActionViewGroup, GroupResource(home), ReasonNotGroupMember, false},

		{"site admin creates group", ana, ActionCreateGroup, Resource{}, ReasonNone, true},
		{"member creates group", bob, ActionCreateGroup, Resource{}, ReasonNotSiteAdmin, false},

		{"group admin edits group", ana, ActionEditGroup, GroupResource(home), ReasonNone, true},
		{"other admin edits group", dora, ActionEditGroup, GroupResource(home), ReasonNotGroupAdmin, false},
		{"other admin deletes group", ana, ActionDeleteGroup, GroupResource(work), ReasonNotGroupAdmin, false},
		{"member deletes group", bob, ActionDeleteGroup, GroupResource(home), ReasonNotSiteAdmin, false},

		{"group admin manages members", ana, ActionManageMembers, GroupResource(home), ReasonNone, true},
		{"group admin without membership manages members", dora, ActionManageMembers, GroupResource(work), ReasonNone, true},
		{"other admin manages members", dora, ActionManageMembers, GroupResource(home), ReasonNotGroupAdmin, false},
		{"member manages members", bob, ActionManageMembers, GroupResource(home), ReasonNotGroupAdmin, false},

		{"site admin creates user", ana, ActionCreateUser, Resource{}, ReasonNone, true},
		{"member creates user", bob, ActionCreateUser, Resource{}, ReasonNotSiteAdmin, false},
		{"member lists users", bob, ActionListUsers, Resource{}, ReasonNotSiteAdmin, false},
		{"site admin deletes user", ana, ActionDeleteUser, UserResource(2), ReasonNone, true},
		{"site admin deletes self", ana, ActionDeleteUser, UserResource(1), ReasonSelfTarget, false},
		{"member deletes user", bob, ActionDeleteUser, UserResource(3), ReasonNotSiteAdmin, false},

		{"site admin opens dashboard", dora, ActionViewDashboard, Resource{}, ReasonNone, true},
		{"member opens dashboard", carl, ActionViewDashboard, Resource{}, ReasonNotSiteAdmin, false},

		{"unknown action", ana, Action("task/archive"), TaskResource(anasTask), ReasonUnknownAction, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Authorize(tt.subject, tt.action, tt.resource)
			assert.Equal(t, tt.allowed, result.Allowed())
			assert.Equal(t, tt.want, result.Reason)
			assert.Equal(t, tt.action, result.Action)
			if tt.allowed {
				assert.NoError(t, result.Err())
			} else {
				assert.Error(t, result.Err())
			}
		})
	}
}

func TestResult_Err(t *testing.T) {
	err := Authorize(carl, ActionEditTask, TaskResource(bobsTask)).Err()
	assert.ErrorIs(t, err, domain.ErrNotGroupMember)
	assert.False(t, errors.Is(err, domain.ErrForbidden))

	err = Authorize(bob, ActionEditTask, TaskResource(anasTask)).Err()
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, err.Error(), "task/edit")
	assert.Contains(t, err.Error(), ReasonNotOwner.String())
}

// Membership is the only relation consulted: a user outside every group
// can never create, edit or delete a task regardless of ownership.
func TestAuthorize_OwnershipWithoutMembership(t *testing.T) {
	former := NewSubject(&domain.User{ID: 2, Username: "bob"}, nil)

	assert.Equal(t, ReasonNotGroupMember, Authorize(former, ActionEditTask, TaskResource(bobsTask)).Reason)
	assert.Equal(t, ReasonNotGroupMember, Authorize(former, ActionDeleteTask, TaskResource(bobsTask)).Reason)
	assert.Equal(t, ReasonNotGroupMember, Authorize(former, ActionCreateTask, GroupResource(home)).Reason)
}

func TestSubject(t *testing.T) {
	subject := NewSubject(&domain.User{ID: 7, IsAdmin: true}, []int64{5, 3, 9})

	assert.True(t, subject.Authenticated())
	assert.True(t, subject.IsMember(3))
	assert.False(t, subject.IsMember(4))
	assert.Equal(t, []int64{3, 5, 9}, subject.GroupIDs())

	anonymous := NewSubject(nil, []int64{1})
	assert.False(t, anonymous.Authenticated())
	assert.False(t, anonymous.IsMember(1))
	assert.Empty(t, anonymous.GroupIDs())
}

func TestDecisionAndReasonStrings(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "deny", Deny.String())
	assert.Equal(t, "admin role required", ReasonNotSiteAdmin.String())
	assert.Equal(t, "unknown", Reason(99).String())
}
