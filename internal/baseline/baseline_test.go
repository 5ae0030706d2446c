package baseline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/untibullet/issue-activity-report/internal/models"
)

func strPtr(s string) *string {
	return &s
}

func fixtureExport() models.RawExport {
	return models.RawExport{
		Metadata: models.Metadata{
			Repository:      "org/repo",
			SubgroupMembers: []string{"alice"},
		},
		Issues: []models.RawIssue{
			{
				Number:           1,
				Title:            "Closed after two days",
				CreatedAt:        "2024-01-01T09:00:00Z",
				ClosedAt:         strPtr("2024-01-03T18:00:00Z"),
				Creator:          "alice",
				Assignees:        []string{"bob"},
				State:            models.StateClosed,
				CommentsCount:    3,
				CommentsByAuthor: map[string]int{"carol": 3},
			},
			{
				Number:    2,
				Title:     "Still open",
				CreatedAt: "2024-01-02T10:00:00Z",
				Creator:   "dave",
				State:     models.StateOpen,
			},
		},
	}
}

func TestBuild_IssueRows(t *testing.T) {
	ds, err := Build(fixtureExport(), Options{})
	require.NoError(t, err)
	require.Len(t, ds.Issues, 2)

	first := ds.Issues[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, models.StateClosed, first.State)
	assert.Equal(t, "2024-01-01", first.CreatedAt.String())
	assert.Equal(t, "2024-01-03", first.ClosedAt.String())
	assert.Equal(t, models.Assignees{"bob"}, first.Assignees)
	// bob, alice, carol
	assert.Equal(t, 3, first.ActivePeople)

	second := ds.Issues[1]
	assert.Equal(t, models.StateOpen, second.State)
	assert.True(t, second.ClosedAt.IsZero())
	assert.Equal(t, models.NoneAssigned, second.Assignees.String())
	assert.Equal(t, 1, second.ActivePeople)
}

func TestBuild_UserActivity(t *testing.T) {
	ds, err := Build(fixtureExport(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []models.UserActivityRecord{
		{User: "alice", Closed: 1},
		{User: "bob", Assigned: 1},
		{User: "carol", Comments: 3},
		{User: "dave"},
	}, ds.UserActivity)
}

func TestBuild_DailyActivity(t *testing.T) {
	ds, err := Build(fixtureExport(), Options{})
	require.NoError(t, err)
	require.Len(t, ds.DailyActivity, 3)

	dates := []string{}
	for _, day := range ds.DailyActivity {
		dates = append(dates, day.Date.String())
	}
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, dates)

	assert.Equal(t, 1, ds.DailyActivity[0].IssuesCreated)
	assert.Equal(t, 1, ds.DailyActivity[1].IssuesCreated)
	assert.Equal(t, 1, ds.DailyActivity[2].IssuesClosed)

	// три комментария за три дня жизни задачи
	for _, day := range ds.DailyActivity {
		assert.Equal(t, 1, day.Comments, day.Date.String())
	}

	// 01: alice, bob (создание), carol (комментарии)
	assert.Equal(t, 3, ds.DailyActivity[0].ActiveUsers)
	// 02: dave (создание), carol
	assert.Equal(t, 2, ds.DailyActivity[1].ActiveUsers)
	// 03: alice (закрытие), carol
	assert.Equal(t, 2, ds.DailyActivity[2].ActiveUsers)
}

func TestBuild_OpenIssueCommentsSpreadToAsOf(t *testing.T) {
	raw := models.RawExport{Issues: []models.RawIssue{
		{Number: 1, CreatedAt: "2024-01-01", ClosedAt: strPtr("2024-01-02"), Creator: "a"},
		{Number: 2, CreatedAt: "2024-01-01", Creator: "b", CommentsByAuthor: map[string]int{"c": 4}},
	}}

	ds, err := Build(raw, Options{AsOf: models.MustParseDate("2024-01-04")})
	require.NoError(t, err)

	// ряд продлен до даты отчета, 4 комментария на 4 дня жизни
	require.Len(t, ds.DailyActivity, 4)
	assert.Equal(t, "2024-01-04", ds.DailyActivity[3].Date.String())
	for _, day := range ds.DailyActivity {
		assert.Equal(t, 1, day.Comments, day.Date.String())
		assert.GreaterOrEqual(t, day.ActiveUsers, 1, day.Date.String())
	}
}

func TestBuild_CommentTotalsArePreserved(t *testing.T) {
	raw := models.RawExport{Issues: []models.RawIssue{
		{Number: 1, CreatedAt: "2024-01-01", ClosedAt: strPtr("2024-01-03"), Creator: "a",
			CommentsByAuthor: map[string]int{"c": 4}},
		{Number: 2, CreatedAt: "2024-01-10", Creator: "b",
			CommentsByAuthor: map[string]int{"c": 2, "d": 4}},
	}}

	// дата отчета раньше создания открытой задачи
	ds, err := Build(raw, Options{AsOf: models.MustParseDate("2024-01-05")})
	require.NoError(t, err)
	require.Len(t, ds.DailyActivity, 10)

	comments := make([]int, 0, len(ds.DailyActivity))
	total := 0
	for _, day := range ds.DailyActivity {
		comments = append(comments, day.Comments)
		total += day.Comments
	}
	assert.Equal(t, []int{2, 1, 1, 0, 0, 0, 0, 0, 0, 6}, comments)
	assert.Equal(t, 10, total)
	// b создал задачу, c и d комментировали
	assert.Equal(t, 3, ds.DailyActivity[9].ActiveUsers)
}

func TestBuild_Roster(t *testing.T) {
	ds, err := Build(fixtureExport(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, ds.Roster)

	ds, err = Build(fixtureExport(), Options{Roster: []string{"bob", "carol"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, ds.Roster)
}

func TestBuild_StateDerivedFromClosedAt(t *testing.T) {
	raw := models.RawExport{Issues: []models.RawIssue{
		{Number: 7, CreatedAt: "2024-03-01", ClosedAt: strPtr("2024-03-02")},
	}}

	ds, err := Build(raw, Options{})
	require.NoError(t, err)
	assert.Equal(t, models.StateClosed, ds.Issues[0].State)
}

func TestBuild_Empty(t *testing.T) {
	ds, err := Build(models.RawExport{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, ds.Issues)
	assert.Empty(t, ds.UserActivity)
	assert.NotNil(t, ds.DailyActivity)
	assert.Empty(t, ds.DailyActivity)
}

func TestBuild_BadRecordNamesIssue(t *testing.T) {
	tests := []struct {
		name  string
		issue models.RawIssue
		field string
	}{
		{name: "missing created_at", issue: models.RawIssue{Number: 42}, field: "created_at"},
		{name: "garbage created_at", issue: models.RawIssue{Number: 42, CreatedAt: "yesterday"}, field: "created_at"},
		{name: "garbage closed_at", issue: models.RawIssue{Number: 42, CreatedAt: "2024-01-01", ClosedAt: strPtr("soon")}, field: "closed_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(models.RawExport{Issues: []models.RawIssue{tt.issue}}, Options{})
			require.Error(t, err)

			var recErr *RecordError
			require.True(t, errors.As(err, &recErr))
			assert.Equal(t, 42, recErr.Number)
			assert.Equal(t, tt.field, recErr.Field)
			assert.Contains(t, err.Error(), "#42")
		})
	}
}
