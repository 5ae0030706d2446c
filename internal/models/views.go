package models

import "slices"

// FilterState текущий выбор пользователя: окно дат и флаг подгруппы
type FilterState struct {
	StartDate    Date `json:"start_date"`
	EndDate      Date `json:"end_date"`
	SubgroupOnly bool `json:"subgroup_only"`
}

// HasWindow сообщает, что обе границы окна заданы
func (f FilterState) HasWindow() bool {
	return !f.StartDate.IsZero() && !f.EndDate.IsZero()
}

// SummaryCounters сводные счетчики по отфильтрованным задачам
type SummaryCounters struct {
	Total         int `json:"total_issues"`
	Open          int `json:"open_issues"`
	Closed        int `json:"closed_issues"`
	TotalComments int `json:"total_comments"`
	ActivePeople  int `json:"active_people"`
}

// RankedUser пользователь в рейтинге вместе с его весом
type RankedUser struct {
	UserActivityRecord
	Score int `json:"score"`
}

// UserTableRow строка таблицы назначений по пользователям
type UserTableRow struct {
	User           string  `json:"user"`
	Assigned       int     `json:"assigned"`
	Open           int     `json:"open"`
	Closed         int     `json:"closed"`
	CompletionRate float64 `json:"completion_rate"`
}

// NewUserTableRow строит строку таблицы. Open = Assigned - Closed и может быть отрицательным.
func NewUserTableRow(u UserActivityRecord) UserTableRow {
	rate := 0.0
	if u.Assigned > 0 {
		rate = float64(u.Closed) / float64(u.Assigned) * 100
	}
	return UserTableRow{
		User:           u.User,
		Assigned:       u.Assigned,
		Open:           u.Assigned - u.Closed,
		Closed:         u.Closed,
		CompletionRate: rate,
	}
}

// UserTable строит таблицу назначений в порядке входных строк
func UserTable(users []UserActivityRecord) []UserTableRow {
	rows := make([]UserTableRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, NewUserTableRow(u))
	}
	return rows
}

// DerivedViews полный набор производных представлений для одного состояния фильтра
type DerivedViews struct {
	Issues  []IssueRecord         `json:"issues"`
	Daily   []DailyActivityRecord `json:"daily_activity"`
	Users   []UserActivityRecord  `json:"user_activity"`
	Ranked  []RankedUser          `json:"ranked_users"`
	Summary SummaryCounters       `json:"summary"`
}

// Clone возвращает независимую копию представлений
func (v DerivedViews) Clone() DerivedViews {
	out := DerivedViews{
		Issues:  CloneIssues(v.Issues),
		Daily:   slices.Clone(v.Daily),
		Users:   slices.Clone(v.Users),
		Ranked:  slices.Clone(v.Ranked),
		Summary: v.Summary,
	}
	return out
}

// CloneIssues копирует задачи вместе со списками исполнителей
func CloneIssues(issues []IssueRecord) []IssueRecord {
	if issues == nil {
		return nil
	}
	out := make([]IssueRecord, len(issues))
	for i, issue := range issues {
		issue.Assignees = slices.Clone(issue.Assignees)
		out[i] = issue
	}
	return out
}
