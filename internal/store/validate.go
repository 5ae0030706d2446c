package store

import (
	"fmt"

	"github.com/untibullet/issue-activity-report/internal/models"
)

// Имена коллекций в сообщениях об ошибках
const (
	CollectionIssues        = "issues"
	CollectionUserActivity  = "user_activity"
	CollectionDailyActivity = "daily_activity"
)

// MalformedRecordError нарушение контракта поставщика данных: запись не прошла проверку
type MalformedRecordError struct {
	Collection string
	Index      int
	Key        string
	Reason     string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record #%d (%s): %s", e.Collection, e.Index, e.Key, e.Reason)
}

func malformed(collection string, index int, key, format string, args ...any) *MalformedRecordError {
	return &MalformedRecordError{
		Collection: collection,
		Index:      index,
		Key:        key,
		Reason:     fmt.Sprintf(format, args...),
	}
}

// Validate проверяет все три коллекции датасета
func Validate(ds models.Dataset) error {
	if err := validateIssues(ds.Issues); err != nil {
		return err
	}
	if err := validateUsers(ds.UserActivity); err != nil {
		return err
	}
	return validateDaily(ds.DailyActivity)
}

func validateIssues(issues []models.IssueRecord) error {
	seen := make(map[int]struct{}, len(issues))
	for i, issue := range issues {
		key := fmt.Sprintf("number=%d", issue.Number)
		if issue.Number <= 0 {
			return malformed(CollectionIssues, i, key, "number must be positive")
		}
		if _, dup := seen[issue.Number]; dup {
			return malformed(CollectionIssues, i, key, "duplicate issue number")
		}
		seen[issue.Number] = struct{}{}

		if issue.CreatedAt.IsZero() {
			return malformed(CollectionIssues, i, key, "created_at is missing")
		}
		switch issue.State {
		case models.StateOpen:
			if !issue.ClosedAt.IsZero() {
				return malformed(CollectionIssues, i, key, "open issue has closed_at %s", issue.ClosedAt)
			}
		case models.StateClosed:
			if issue.ClosedAt.IsZero() {
				return malformed(CollectionIssues, i, key, "closed issue has no closed_at")
			}
			if issue.ClosedAt.Before(issue.CreatedAt) {
				return malformed(CollectionIssues, i, key, "closed_at %s is before created_at %s", issue.ClosedAt, issue.CreatedAt)
			}
		default:
			return malformed(CollectionIssues, i, key, "unknown state %q", issue.State)
		}
		if issue.CommentsCount < 0 {
			return malformed(CollectionIssues, i, key, "comments_count is negative")
		}
		if issue.ActivePeople < 0 {
			return malformed(CollectionIssues, i, key, "active_people is negative")
		}
	}
	return nil
}

func validateUsers(users []models.UserActivityRecord) error {
	seen := make(map[string]struct{}, len(users))
	for i, u := range users {
		key := fmt.Sprintf("user=%q", u.User)
		if u.User == "" {
			return malformed(CollectionUserActivity, i, key, "user is missing")
		}
		if _, dup := seen[u.User]; dup {
			return malformed(CollectionUserActivity, i, key, "duplicate user")
		}
		seen[u.User] = struct{}{}
		if u.Assigned < 0 || u.Closed < 0 || u.Comments < 0 {
			return malformed(CollectionUserActivity, i, key, "counters must be non-negative")
		}
	}
	return nil
}

func validateDaily(daily []models.DailyActivityRecord) error {
	seen := make(map[string]struct{}, len(daily))
	for i, d := range daily {
		key := fmt.Sprintf("date=%s", d.Date)
		if d.Date.IsZero() {
			return malformed(CollectionDailyActivity, i, key, "date is missing")
		}
		if _, dup := seen[d.Date.String()]; dup {
			return malformed(CollectionDailyActivity, i, key, "duplicate date")
		}
		seen[d.Date.String()] = struct{}{}
		if d.IssuesCreated < 0 || d.IssuesClosed < 0 || d.Comments < 0 || d.ActiveUsers < 0 {
			return malformed(CollectionDailyActivity, i, key, "counters must be non-negative")
		}
	}
	return nil
}
