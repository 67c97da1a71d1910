// Package board builds the task list a caller sees: the visible set of
// tasks across the caller's groups, narrowed by optional group and user
// filters, ordered by date and bucketed by calendar month, together with
// the member roster used to populate filter selectors.
//
// Everything here is pure; fetching the inputs is the service's job.
package board

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/aidar/task-tracker/internal/domain"
)

// Filter holds the optional narrowing requested by the caller.
type Filter struct {
	GroupID *int64
	UserID  *int64
}

// Period is one (year, month) bucket of tasks.
type Period struct {
	Year  int
	Month time.Month
	Label string
	Tasks []domain.Task
}

// Board is the aggregated view handed to the presentation layer.
type Board struct {
	Periods []Period
	Total   int

	// Members is the roster for the user selector.
	Members []domain.Member

	// Groups are the caller's groups, for the group selector.
	Groups []domain.Group

	// Applied is the filter that was actually used. A requested group the
	// caller does not belong to is dropped here.
	Applied Filter
}

// Input is everything Build needs, as loaded from the store.
type Input struct {
	// Groups the caller currently belongs to.
	Groups []domain.Group

	// Tasks is a superset of the visible set; Build restricts it.
	Tasks []domain.Task

	// Memberships of the caller's groups, used for the roster.
	Memberships []domain.Membership

	Requested Filter
}

// Resolve drops a group filter that does not name one of the caller's
// groups; the caller then sees the full visible set instead of an empty
// list. The user filter is kept as is.
func Resolve(groupIDs []int64, requested Filter) Filter {
	applied := Filter{UserID: requested.UserID}
	if requested.GroupID != nil && slices.Contains(groupIDs, *requested.GroupID) {
		applied.GroupID = requested.GroupID
	}
	return applied
}

// Build runs the whole pipeline: visible set, group filter, user filter,
// ordering, month grouping and roster.
func Build(in Input) *Board {
	groupIDs := make([]int64, 0, len(in.Groups))
	for _, g := range in.Groups {
		groupIDs = append(groupIDs, g.ID)
	}

	applied := Resolve(groupIDs, in.Requested)
	tasks := Select(in.Tasks, groupIDs, applied)

	rosterGroups := groupIDs
	if applied.GroupID != nil {
		rosterGroups = []int64{*applied.GroupID}
	}

	return &Board{
		Periods: GroupByMonth(tasks),
		Total:   len(tasks),
		Members: Roster(in.Memberships, rosterGroups),
		Groups:  in.Groups,
		Applied: applied,
	}
}

// Select keeps the tasks that belong to one of groupIDs and match the
// applied filter, ordered ascending by date. Tasks on the same date keep
// creation order.
func Select(tasks []domain.Task, groupIDs []int64, applied Filter) []domain.Task {
	selected := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if !slices.Contains(groupIDs, task.GroupID) {
			continue
		}
		if applied.GroupID != nil && task.GroupID != *applied.GroupID {
			continue
		}
		if applied.UserID != nil && task.OwnerID != *applied.UserID {
			continue
		}
		selected = append(selected, task)
	}

	slices.SortStableFunc(selected, func(a, b domain.Task) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return selected
}

type monthKey struct {
	year  int
	month time.Month
}

// GroupByMonth partitions tasks into (year, month) buckets. Buckets appear
// in the order their first task appears; tasks keep their relative order.
func GroupByMonth(tasks []domain.Task) []Period {
	periods := []Period{}
	index := make(map[monthKey]int)

	for _, task := range tasks {
		key := monthKey{year: task.Date.Year(), month: task.Date.Month()}
		i, ok := index[key]
		if !ok {
			i = len(periods)
			index[key] = i
			periods = append(periods, Period{
				Year:  key.year,
				Month: key.month,
				Label: PeriodLabel(key.year, key.month),
			})
		}
		periods[i].Tasks = append(periods[i].Tasks, task)
	}

	return periods
}

// PeriodLabel formats a bucket heading, e.g. "March 2024".
func PeriodLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month, year)
}

// Roster returns the distinct members of the given groups sorted by
// username. The roster comes from membership, not from tasks, so it is
// populated even when no task matches.
func Roster(memberships []domain.Membership, groupIDs []int64) []domain.Member {
	seen := make(map[int64]struct{})
	members := []domain.Member{}

	for _, m := range memberships {
		if !slices.Contains(groupIDs, m.GroupID) {
			continue
		}
		if _, ok := seen[m.UserID]; ok {
			continue
		}
		seen[m.UserID] = struct{}{}
		members = append(members, domain.Member{UserID: m.UserID, Username: m.Username})
	}

	slices.SortFunc(members, func(a, b domain.Member) int {
		if c := cmp.Compare(a.Username, b.Username); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return members
}
