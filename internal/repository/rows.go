package repository

import (
	"time"

	"github.com/untibullet/issue-activity-report/internal/models"
)

// dateArg значение параметра для колонки DATE: nil для незаданной даты
func dateArg(d models.Date) interface{} {
	if d.IsZero() {
		return nil
	}
	return d.Time()
}

func dateFromNullable(t *time.Time) models.Date {
	if t == nil {
		return models.Date{}
	}
	return models.DateOf(*t)
}

func issueRows(reportID int64, issues []models.IssueRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(issues))
	for i, issue := range issues {
		assignees := []string(issue.Assignees)
		if assignees == nil {
			assignees = []string{}
		}
		rows = append(rows, []interface{}{
			reportID, i, issue.Number, issue.Title, string(issue.State), assignees,
			dateArg(issue.CreatedAt), dateArg(issue.ClosedAt),
			issue.CommentsCount, issue.ActivePeople, issue.URL,
		})
	}
	return rows
}

func userRows(reportID int64, users []models.UserActivityRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(users))
	for i, u := range users {
		rows = append(rows, []interface{}{reportID, i, u.User, u.Assigned, u.Closed, u.Comments})
	}
	return rows
}

func dailyRows(reportID int64, daily []models.DailyActivityRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(daily))
	for _, d := range daily {
		rows = append(rows, []interface{}{reportID, dateArg(d.Date), d.IssuesCreated, d.IssuesClosed, d.Comments, d.ActiveUsers})
	}
	return rows
}

func rosterRows(reportID int64, roster []string) [][]interface{} {
	rows := make([][]interface{}, 0, len(roster))
	seen := make(map[string]struct{}, len(roster))
	for _, user := range roster {
		if _, dup := seen[user]; dup || user == "" {
			continue
		}
		seen[user] = struct{}{}
		rows = append(rows, []interface{}{reportID, len(rows), user})
	}
	return rows
}
