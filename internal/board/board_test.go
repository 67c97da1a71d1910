package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/task-tracker/internal/domain"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateLayout, s)
	require.NoError(t, err)
	return d
}

func ptr(v int64) *int64 { return &v }

func taskIDs(tasks []domain.Task) []int64 {
	ids := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

// fixture: caller belongs to Home(1) and Work(2); Club(3) is foreign.
func fixture(t *testing.T) Input {
	return Input{
		Groups: []domain.Group{
			{ID: 1, Name: "Home", AdminID: 10},
			{ID: 2, Name: "Work", AdminID: 11},
		},
		Tasks: []domain.Task{
			{ID: 1, GroupID: 1, OwnerID: 10, Date: date(t, "2024-04-02"), Description: "Pay rent"},
			{ID: 2, GroupID: 2, OwnerID: 12, Date: date(t, "2024-03-15"), Description: "Report"},
			{ID: 3, GroupID: 1, OwnerID: 12, Date: date(t, "2024-03-01"), Description: "Buy milk"},
			{ID: 4, GroupID: 3, OwnerID: 13, Date: date(t, "2024-03-01"), Description: "Foreign"},
			{ID: 5, GroupID: 2, OwnerID: 10, Date: date(t, "2024-03-01"), Description: "Standup"},
			{ID: 6, GroupID: 1, OwnerID: 10, Date: date(t, "2025-01-20"), Description: "Taxes"},
		},
		Memberships: []domain.Membership{
			{GroupID: 1, UserID: 12, Username: "bob"},
			{GroupID: 1, UserID: 10, Username: "ana"},
			{GroupID: 2, UserID: 12, Username: "bob"},
			{GroupID: 2, UserID: 14, Username: "carl"},
			{GroupID: 3, UserID: 13, Username: "zed"},
		},
	}
}

func TestBuild_VisibleSet(t *testing.T) {
	b := Build(fixture(t))

	assert.Equal(t, 5, b.Total)
	require.Len(t, b.Periods, 3)

	assert.Equal(t, "March 2024", b.Periods[0].Label)
	assert.Equal(t, 2024, b.Periods[0].Year)
	assert.Equal(t, time.March, b.Periods[0].Month)
	// Same date keeps creation order: 3 before 5.
	assert.Equal(t, []int64{3, 5, 2}, taskIDs(b.Periods[0].Tasks))

	assert.Equal(t, "April 2024", b.Periods[1].Label)
	assert.Equal(t, []int64{1}, taskIDs(b.Periods[1].Tasks))

	assert.Equal(t, "January 2025", b.Periods[2].Label)
	assert.Equal(t, []int64{6}, taskIDs(b.Periods[2].Tasks))

	assert.Equal(t, []domain.Member{
		{UserID: 10, Username: "ana"},
		{UserID: 12, Username: "bob"},
		{UserID: 14, Username: "carl"},
	}, b.Members)
	assert.Nil(t, b.Applied.GroupID)
}

func TestBuild_GroupFilter(t *testing.T) {
	in := fixture(t)
	in.Requested = Filter{GroupID: ptr(2)}

	b := Build(in)

	assert.Equal(t, 2, b.Total)
	require.Len(t, b.Periods, 1)
	assert.Equal(t, []int64{5, 2}, taskIDs(b.Periods[0].Tasks))
	require.NotNil(t, b.Applied.GroupID)
	assert.Equal(t, int64(2), *b.Applied.GroupID)

	// Roster narrows to the filtered group.
	assert.Equal(t, []domain.Member{
		{UserID: 12, Username: "bob"},
		{UserID: 14, Username: "carl"},
	}, b.Members)
}

func TestBuild_ForeignGroupFilterIsIgnored(t *testing.T) {
	unfiltered := Build(fixture(t))

	for _, groupID := range []int64{3, 999} {
		in := fixture(t)
		in.Requested = Filter{GroupID: ptr(groupID)}

		b := Build(in)

		assert.Nil(t, b.Applied.GroupID)
		assert.Equal(t, unfiltered.Total, b.Total)
		assert.Equal(t, unfiltered.Periods, b.Periods)
		assert.Equal(t, unfiltered.Members, b.Members)
	}
}

func TestBuild_UserFilter(t *testing.T) {
	in := fixture(t)
	in.Requested = Filter{UserID: ptr(10)}

	b := Build(in)

	assert.Equal(t, 3, b.Total)
	require.Len(t, b.Periods, 3)
	assert.Equal(t, []int64{5}, taskIDs(b.Periods[0].Tasks))
	assert.Equal(t, []int64{1}, taskIDs(b.Periods[1].Tasks))
	assert.Equal(t, []int64{6}, taskIDs(b.Periods[2].Tasks))
}

func TestBuild_UserFilterIsNotCrossChecked(t *testing.T) {
	in := fixture(t)
	// Ana (10) is not a member of Work, yet owns task 5 there.
	in.Requested = Filter{GroupID: ptr(2), UserID: ptr(10)}

	b := Build(in)

	assert.Equal(t, 1, b.Total)
	assert.Equal(t, []int64{5}, taskIDs(b.Periods[0].Tasks))

	// A user with no tasks at all yields an empty board, not an error.
	in.Requested = Filter{UserID: ptr(404)}
	b = Build(in)
	assert.Equal(t, 0, b.Total)
	assert.Empty(t, b.Periods)
	assert.NotEmpty(t, b.Members)
}

func TestBuild_NoGroups(t *testing.T) {
	b := Build(Input{
		Tasks: fixture(t).Tasks,
	})

	assert.Equal(t, 0, b.Total)
	assert.NotNil(t, b.Periods)
	assert.Empty(t, b.Periods)
	assert.NotNil(t, b.Members)
	assert.Empty(t, b.Members)
}

func TestBuild_NoTasksKeepsRoster(t *testing.T) {
	in := fixture(t)
	in.Tasks = nil

	b := Build(in)

	assert.Equal(t, 0, b.Total)
	assert.Empty(t, b.Periods)
	assert.Len(t, b.Members, 3)
}

func TestGroupByMonth_Idempotent(t *testing.T) {
	in := fixture(t)
	selected := Select(in.Tasks, []int64{1, 2}, Filter{})

	first := GroupByMonth(selected)
	second := GroupByMonth(selected)
	assert.Equal(t, first, second)

	// Re-selecting an already ordered set changes nothing.
	again := Select(selected, []int64{1, 2}, Filter{})
	assert.Equal(t, taskIDs(selected), taskIDs(again))
}

func TestGroupByMonth_FirstSeenOrder(t *testing.T) {
	// Unsorted input: buckets follow first appearance, not the calendar.
	tasks := []domain.Task{
		{ID: 1, Date: date(t, "2024-05-01")},
		{ID: 2, Date: date(t, "2024-01-01")},
		{ID: 3, Date: date(t, "2024-05-20")},
	}

	periods := GroupByMonth(tasks)

	require.Len(t, periods, 2)
	assert.Equal(t, "May 2024", periods[0].Label)
	assert.Equal(t, []int64{1, 3}, taskIDs(periods[0].Tasks))
	assert.Equal(t, "January 2024", periods[1].Label)
}

func TestGroupByMonth_SameMonthDifferentYears(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Date: date(t, "2023-03-05")},
		{ID: 2, Date: date(t, "2024-03-05")},
	}

	periods := GroupByMonth(tasks)

	require.Len(t, periods, 2)
	assert.Equal(t, "March 2023", periods[0].Label)
	assert.Equal(t, "March 2024", periods[1].Label)
}

func TestRoster_TiesByID(t *testing.T) {
	members := Roster([]domain.Membership{
		{GroupID: 1, UserID: 9, Username: "sam"},
		{GroupID: 1, UserID: 3, Username: "sam"},
		{GroupID: 2, UserID: 3, Username: "sam"},
	}, []int64{1, 2})

	assert.Equal(t, []domain.Member{
		{UserID: 3, Username: "sam"},
		{UserID: 9, Username: "sam"},
	}, members)
}

func TestResolve(t *testing.T) {
	applied := Resolve([]int64{1, 2}, Filter{GroupID: ptr(2), UserID: ptr(7)})
	require.NotNil(t, applied.GroupID)
	assert.Equal(t, int64(2), *applied.GroupID)
	assert.Equal(t, int64(7), *applied.UserID)

	applied = Resolve([]int64{1, 2}, Filter{GroupID: ptr(5)})
	assert.Nil(t, applied.GroupID)
	assert.Nil(t, applied.UserID)

	applied = Resolve(nil, Filter{GroupID: ptr(1)})
	assert.Nil(t, applied.GroupID)
}
