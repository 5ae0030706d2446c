package sink

import (
	"fmt"

	"github.com/untibullet/issue-activity-report/internal/models"
)

// IssueRow плоская строка таблицы задач
type IssueRow struct {
	Number        int    `csv:"number"`
	Title         string `csv:"title"`
	State         string `csv:"state"`
	Assignees     string `csv:"assignees"`
	CreatedAt     string `csv:"created_at"`
	ClosedAt      string `csv:"closed_at"`
	CommentsCount int    `csv:"comments_count"`
	ActivePeople  int    `csv:"active_people"`
	URL           string `csv:"url"`
}

// UserRow строка таблицы назначений, процент уже отформатирован
type UserRow struct {
	User           string `csv:"user"`
	Assigned       int    `csv:"total_assigned"`
	Open           int    `csv:"open"`
	Closed         int    `csv:"closed"`
	Comments       int    `csv:"comments"`
	CompletionRate string `csv:"completion_rate"`
}

type DailyRow struct {
	Date          string `csv:"date"`
	IssuesCreated int    `csv:"issues_created"`
	IssuesClosed  int    `csv:"issues_closed"`
	Comments      int    `csv:"comments"`
	ActiveUsers   int    `csv:"active_users"`
}

type RankedRow struct {
	Rank     int    `csv:"rank"`
	User     string `csv:"user"`
	Assigned int    `csv:"assigned"`
	Closed   int    `csv:"closed"`
	Comments int    `csv:"comments"`
	Score    int    `csv:"score"`
}

type SummaryRow struct {
	Total         int `csv:"total_issues"`
	Open          int `csv:"open_issues"`
	Closed        int `csv:"closed_issues"`
	TotalComments int `csv:"total_comments"`
	ActivePeople  int `csv:"active_people"`
}

func IssueRows(issues []models.IssueRecord) []IssueRow {
	rows := make([]IssueRow, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, IssueRow{
			Number:        issue.Number,
			Title:         issue.Title,
			State:         string(issue.State),
			Assignees:     issue.Assignees.String(),
			CreatedAt:     issue.CreatedAt.String(),
			ClosedAt:      issue.ClosedLabel(),
			CommentsCount: issue.CommentsCount,
			ActivePeople:  issue.ActivePeople,
			URL:           issue.URL,
		})
	}
	return rows
}

// UserRows строит таблицу назначений. Open не обрезается снизу.
func UserRows(users []models.UserActivityRecord) []UserRow {
	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		t := models.NewUserTableRow(u)
		rows = append(rows, UserRow{
			User:           t.User,
			Assigned:       t.Assigned,
			Open:           t.Open,
			Closed:         t.Closed,
			Comments:       u.Comments,
			CompletionRate: FormatRate(t.CompletionRate),
		})
	}
	return rows
}

func DailyRows(daily []models.DailyActivityRecord) []DailyRow {
	rows := make([]DailyRow, 0, len(daily))
	for _, day := range daily {
		rows = append(rows, DailyRow{
			Date:          day.Date.String(),
			IssuesCreated: day.IssuesCreated,
			IssuesClosed:  day.IssuesClosed,
			Comments:      day.Comments,
			ActiveUsers:   day.ActiveUsers,
		})
	}
	return rows
}

func RankedRows(ranked []models.RankedUser) []RankedRow {
	rows := make([]RankedRow, 0, len(ranked))
	for i, u := range ranked {
		rows = append(rows, RankedRow{
			Rank:     i + 1,
			User:     u.User,
			Assigned: u.Assigned,
			Closed:   u.Closed,
			Comments: u.Comments,
			Score:    u.Score,
		})
	}
	return rows
}

// FormatRate форматирует процент выполнения с одним знаком
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}
