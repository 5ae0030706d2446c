package models

import (
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain date", in: "2024-01-15", want: "2024-01-15"},
		{name: "utc timestamp", in: "2024-01-15T23:59:59Z", want: "2024-01-15"},
		{name: "offset keeps local date", in: "2024-01-15T01:00:00+03:00", want: "2024-01-15"},
		{name: "timestamp without zone", in: "2024-01-15T08:30:00", want: "2024-01-15"},
		{name: "surrounding spaces", in: "  2024-01-15 ", want: "2024-01-15"},
		{name: "empty is unset", in: "", want: ""},
		{name: "garbage", in: "15/01/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDate_Arithmetic(t *testing.T) {
	start := NewDate(2024, time.February, 27)

	assert.Equal(t, "2024-03-01", start.AddDays(3).String())
	assert.Equal(t, 3, start.DaysUntil(start.AddDays(3)))
	assert.Equal(t, -2, start.DaysUntil(start.AddDays(-2)))

	assert.True(t, start.Within(start, start))
	assert.True(t, start.AddDays(1).Within(start, start.AddDays(2)))
	assert.False(t, start.AddDays(3).Within(start, start.AddDays(2)))
	assert.False(t, start.AddDays(-1).Within(start, start.AddDays(2)))
}

func TestDate_Civil(t *testing.T) {
	d := MustParseDate("2024-12-31")
	assert.Equal(t, civil.Date{Year: 2024, Month: time.December, Day: 31}, d.Civil())
	assert.True(t, FromCivil(d.Civil()).Equal(d))
	assert.True(t, FromCivil(civil.Date{Year: 2024, Month: time.February, Day: 30}).IsZero())

	assert.Equal(t, "2025-01-01", d.AddDays(1).String())
	assert.Equal(t, -1, d.Compare(d.AddDays(1)))
	assert.Equal(t, 1, d.AddDays(1).Compare(d))
	assert.Equal(t, 0, d.Compare(MustParseDate("2024-12-31T10:00:00Z")))

	assert.True(t, Date{}.Time().IsZero())
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), d.Time())
}

func TestDate_JSON(t *testing.T) {
	var holder struct {
		A Date `json:"a"`
		B Date `json:"b"`
		C Date `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "2024-05-01", "b": null, "c": ""}`), &holder))
	assert.Equal(t, "2024-05-01", holder.A.String())
	assert.True(t, holder.B.IsZero())
	assert.True(t, holder.C.IsZero())

	out, err := json.Marshal(holder)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": "2024-05-01", "b": null, "c": null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"a": 20240501}`), &holder))
}

func TestAssignees_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Assignees
	}{
		{name: "array", in: `["alice", "bob"]`, want: Assignees{"alice", "bob"}},
		{name: "comma string", in: `"alice, bob"`, want: Assignees{"alice", "bob"}},
		{name: "none marker", in: `"None"`, want: Assignees{}},
		{name: "none inside array", in: `["None", "carol", ""]`, want: Assignees{"carol"}},
		{name: "empty array", in: `[]`, want: Assignees{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Assignees
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssignees_String(t *testing.T) {
	assert.Equal(t, NoneAssigned, Assignees(nil).String())
	assert.Equal(t, "alice, bob", Assignees{"alice", "bob"}.String())

	out, err := json.Marshal(Assignees(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestNewUserTableRow(t *testing.T) {
	tests := []struct {
		name string
		in   UserActivityRecord
		want UserTableRow
	}{
		{
			name: "partially closed",
			in:   UserActivityRecord{User: "alice", Assigned: 4, Closed: 1},
			want: UserTableRow{User: "alice", Assigned: 4, Open: 3, Closed: 1, CompletionRate: 25},
		},
		{
			name: "closed more than assigned keeps negative open",
			in:   UserActivityRecord{User: "bob", Assigned: 1, Closed: 3},
			want: UserTableRow{User: "bob", Assigned: 1, Open: -2, Closed: 3, CompletionRate: 300},
		},
		{
			name: "nothing assigned",
			in:   UserActivityRecord{User: "carol", Closed: 2, Comments: 5},
			want: UserTableRow{User: "carol", Open: -2, Closed: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewUserTableRow(tt.in))
		})
	}
}

func TestDerivedViews_Clone(t *testing.T) {
	views := DerivedViews{
		Issues: []IssueRecord{{Number: 1, Assignees: Assignees{"alice"}}},
		Users:  []UserActivityRecord{{User: "alice", Assigned: 1}},
	}

	clone := views.Clone()
	clone.Issues[0].Assignees[0] = "bob"
	clone.Users[0].Assigned = 9

	assert.Equal(t, "alice", views.Issues[0].Assignees[0])
	assert.Equal(t, 1, views.Users[0].Assigned)
}

func TestUserActivityRecord_Score(t *testing.T) {
	assert.Equal(t, 6, UserActivityRecord{Assigned: 1, Closed: 2, Comments: 3}.Score())
}
