package aggregator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/untibullet/issue-activity-report/internal/models"
)

func d(s string) models.Date {
	return models.MustParseDate(s)
}

func fixtureIssues() []models.IssueRecord {
	return []models.IssueRecord{
		{Number: 1, Title: "Long running", State: models.StateClosed, Assignees: models.Assignees{"alice"},
			CreatedAt: d("2024-01-01"), ClosedAt: d("2024-02-01"), CommentsCount: 4, ActivePeople: 2},
		{Number: 2, Title: "Fresh", State: models.StateOpen, Assignees: models.Assignees{"bob", "carol"},
			CreatedAt: d("2024-01-16"), CommentsCount: 1, ActivePeople: 3},
		{Number: 3, Title: "Unassigned", State: models.StateOpen,
			CreatedAt: d("2024-01-18"), CommentsCount: 0, ActivePeople: 1},
		{Number: 4, Title: "Quick fix", State: models.StateClosed, Assignees: models.Assignees{"alice", "dave"},
			CreatedAt: d("2024-01-19"), ClosedAt: d("2024-01-20"), CommentsCount: 7, ActivePeople: 2},
	}
}

func numbers(issues []models.IssueRecord) []int {
	out := make([]int, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Number)
	}
	return out
}

func TestFilterIssues_UnionSemantics(t *testing.T) {
	issue := []models.IssueRecord{{
		Number: 10, State: models.StateClosed, CreatedAt: d("2024-01-01"), ClosedAt: d("2024-02-01"),
	}}

	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{name: "neither endpoint in window", start: "2024-01-15", end: "2024-01-20", want: 0},
		{name: "created in window", start: "2023-12-01", end: "2024-01-10", want: 1},
		{name: "closed in window", start: "2024-01-25", end: "2024-02-05", want: 1},
		{name: "bounds are inclusive on created", start: "2024-01-01", end: "2024-01-01", want: 1},
		{name: "bounds are inclusive on closed", start: "2024-02-01", end: "2024-02-01", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterIssues(issue, d(tt.start), d(tt.end))
			assert.Len(t, got, tt.want)
		})
	}
}

func TestFilterIssues_KeepsInputOrder(t *testing.T) {
	issues := fixtureIssues()
	// переставим, чтобы порядок не совпадал с номерами
	issues[0], issues[3] = issues[3], issues[0]

	got := FilterIssues(issues, d("2024-01-15"), d("2024-02-10"))
	assert.Equal(t, []int{4, 2, 3, 1}, numbers(got))
}

func TestFilterIssues_Idempotent(t *testing.T) {
	issues := fixtureIssues()

	first := FilterIssues(issues, d("2024-01-17"), d("2024-01-31"))
	second := FilterIssues(issues, d("2024-01-17"), d("2024-01-31"))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated filtering differs (-first +second):\n%s", diff)
	}
}

func TestFilterIssues_DoesNotAliasInput(t *testing.T) {
	issues := fixtureIssues()

	got := FilterIssues(issues, d("2024-01-01"), d("2024-12-31"))
	require.NotEmpty(t, got)
	got[0].Assignees[0] = "mallory"
	got[0].Title = "changed"

	assert.Equal(t, "alice", issues[0].Assignees[0])
	assert.Equal(t, "Long running", issues[0].Title)
}

func TestFilterIssues_EmptyWindow(t *testing.T) {
	got := FilterIssues(fixtureIssues(), d("2099-01-01"), d("2099-01-02"))
	assert.Empty(t, got)
	assert.NotNil(t, got)

	summary := Summarize(got, ActiveUsers(got))
	assert.Equal(t, models.SummaryCounters{}, summary)
}

func TestActiveUsers(t *testing.T) {
	issues := fixtureIssues()
	issues = append(issues, models.IssueRecord{
		Number: 5, State: models.StateOpen, CreatedAt: d("2024-01-02"),
		Assignees: models.Assignees{models.NoneAssigned},
	})

	got := ActiveUsers(issues)
	assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, got.Sorted())
	assert.False(t, got.Has(models.NoneAssigned))
}

func TestSummarize_Consistency(t *testing.T) {
	issues := fixtureIssues()
	windows := [][2]string{
		{"2024-01-01", "2024-12-31"},
		{"2024-01-15", "2024-01-18"},
		{"2024-01-20", "2024-02-01"},
		{"2023-01-01", "2023-01-31"},
	}

	for _, w := range windows {
		filtered := FilterIssues(issues, d(w[0]), d(w[1]))
		s := Summarize(filtered, ActiveUsers(filtered))

		sum := 0
		for _, i := range filtered {
			sum += i.CommentsCount
		}
		assert.Equal(t, s.Total, s.Open+s.Closed, "window %v", w)
		assert.Equal(t, len(filtered), s.Total, "window %v", w)
		assert.Equal(t, sum, s.TotalComments, "window %v", w)
	}
}

func TestSummarize_FullWindow(t *testing.T) {
	filtered := FilterIssues(fixtureIssues(), d("2024-01-01"), d("2024-12-31"))

	got := Summarize(filtered, ActiveUsers(filtered))
	assert.Equal(t, models.SummaryCounters{
		Total: 4, Open: 2, Closed: 2, TotalComments: 12, ActivePeople: 4,
	}, got)
}

func TestFilterUserActivity(t *testing.T) {
	activity := []models.UserActivityRecord{
		{User: "alice", Assigned: 2, Closed: 1},
		{User: "bob"},
		{User: "erin", Comments: 3},
		{User: "frank"},
		{User: "gina", Closed: 2},
	}
	active := UserSet{"bob": {}}

	t.Run("union of active users and non-zero counters", func(t *testing.T) {
		got := FilterUserActivity(activity, active, false, nil)
		assert.Equal(t, []string{"alice", "bob", "erin", "gina"}, users(got))
	})

	t.Run("subgroup restricts to roster", func(t *testing.T) {
		got := FilterUserActivity(activity, active, true, NewRoster("bob", "gina", "frank"))
		assert.Equal(t, []string{"bob", "gina"}, users(got))
	})

	t.Run("roster is ignored when subgroup is off", func(t *testing.T) {
		got := FilterUserActivity(activity, active, false, NewRoster("bob"))
		assert.Len(t, got, 4)
	})

	t.Run("empty roster with subgroup yields nothing", func(t *testing.T) {
		got := FilterUserActivity(activity, active, true, NewRoster())
		assert.Empty(t, got)
	})
}

func users(rows []models.UserActivityRecord) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.User)
	}
	return out
}

func TestRankTopUsers_OrderAndLimit(t *testing.T) {
	activity := []models.UserActivityRecord{
		{User: "low", Assigned: 1},
		{User: "high", Assigned: 5, Closed: 5, Comments: 5},
		{User: "mid", Comments: 7},
	}

	got := RankTopUsers(activity, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "high", got[0].User)
	assert.Equal(t, 15, got[0].Score)
	assert.Equal(t, "mid", got[1].User)
}

func TestRankTopUsers_DefaultLimit(t *testing.T) {
	activity := make([]models.UserActivityRecord, 0, 30)
	for i := 0; i < 30; i++ {
		activity = append(activity, models.UserActivityRecord{User: string(rune('a' + i)), Comments: i})
	}

	got := RankTopUsers(activity, 0)
	require.Len(t, got, DefaultTopUsers)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestRankTopUsers_TiesAreNotDropped(t *testing.T) {
	activity := []models.UserActivityRecord{
		{User: "ann", Assigned: 2, Closed: 1},
		{User: "ben", Comments: 3},
		{User: "cat", Assigned: 1},
	}

	got := RankTopUsers(activity, DefaultTopUsers)
	require.Len(t, got, 3)

	// порядок внутри равных весов не фиксируется, проверяем только состав
	assert.ElementsMatch(t, []string{"ann", "ben"}, []string{got[0].User, got[1].User})
	assert.Equal(t, "cat", got[2].User)
}

func TestRankTopUsers_Empty(t *testing.T) {
	got := RankTopUsers(nil, 5)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFilterDailyActivity(t *testing.T) {
	daily := []models.DailyActivityRecord{
		{Date: d("2024-01-01"), IssuesCreated: 1},
		{Date: d("2024-01-02"), IssuesClosed: 1},
		{Date: d("2024-01-03"), Comments: 2},
		{Date: d("2024-01-04"), ActiveUsers: 3},
	}

	got := FilterDailyActivity(daily, d("2024-01-02"), d("2024-01-03"))
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-02", got[0].Date.String())
	assert.Equal(t, "2024-01-03", got[1].Date.String())

	assert.Empty(t, FilterDailyActivity(daily, d("2099-01-01"), d("2099-01-02")))
}

func TestCompute(t *testing.T) {
	in := Inputs{
		Issues: fixtureIssues(),
		Users: []models.UserActivityRecord{
			{User: "alice", Assigned: 2, Closed: 1, Comments: 4},
			{User: "bob", Assigned: 1},
			{User: "zed"},
		},
		Daily: []models.DailyActivityRecord{
			{Date: d("2024-01-16"), IssuesCreated: 1},
			{Date: d("2024-02-20")},
		},
	}
	state := models.FilterState{StartDate: d("2024-01-15"), EndDate: d("2024-01-31")}

	got := Compute(in, state, NewRoster("bob"), DefaultTopUsers)
	assert.Equal(t, []int{2, 3, 4}, numbers(got.Issues))
	assert.Len(t, got.Daily, 1)
	assert.Equal(t, []string{"alice", "bob"}, users(got.Users))
	assert.Equal(t, 4, got.Summary.ActivePeople)
	require.Len(t, got.Ranked, 2)
	assert.Equal(t, "alice", got.Ranked[0].User)

	state.SubgroupOnly = true
	subUsers, ranked := ComputeUsers(in, state, NewRoster("bob"), DefaultTopUsers)
	assert.Equal(t, []string{"bob"}, users(subUsers))
	require.Len(t, ranked, 1)
	assert.Equal(t, 1, ranked[0].Score)
}
