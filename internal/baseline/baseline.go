// Package baseline строит три входные коллекции отчета (задачи, дневной ряд,
// счетчики пользователей) из сырой выгрузки сборщика.
package baseline

import (
	"fmt"
	"sort"

	"github.com/untibullet/issue-activity-report/internal/models"
)

// Options параметры построения
type Options struct {
	// AsOf дата отчета: конец жизни открытых задач при распределении комментариев
	// по дням. Дневной ряд продлевается до нее. Нулевое значение означает
	// последнюю дату создания или закрытия в выгрузке.
	AsOf models.Date
	// Roster состав подгруппы, заменяющий metadata.devops_team_members
	Roster []string
}

// RecordError задача выгрузки, которую нельзя разобрать
type RecordError struct {
	Index  int
	Number int
	Field  string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("collector issue #%d (index %d): %s: %v", e.Number, e.Index, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

type parsedIssue struct {
	raw     models.RawIssue
	created models.Date
	closed  models.Date
}

// Build превращает выгрузку сборщика в датасет хранилища
func Build(raw models.RawExport, opts Options) (models.Dataset, error) {
	parsed := make([]parsedIssue, 0, len(raw.Issues))
	for i, issue := range raw.Issues {
		created, err := models.ParseDate(issue.CreatedAt)
		if err != nil {
			return models.Dataset{}, &RecordError{Index: i, Number: issue.Number, Field: "created_at", Err: err}
		}
		if created.IsZero() {
			return models.Dataset{}, &RecordError{Index: i, Number: issue.Number, Field: "created_at", Err: fmt.Errorf("missing")}
		}
		var closed models.Date
		if issue.ClosedAt != nil {
			closed, err = models.ParseDate(*issue.ClosedAt)
			if err != nil {
				return models.Dataset{}, &RecordError{Index: i, Number: issue.Number, Field: "closed_at", Err: err}
			}
		}
		parsed = append(parsed, parsedIssue{raw: issue, created: created, closed: closed})
	}

	roster := opts.Roster
	if len(roster) == 0 {
		roster = raw.Metadata.SubgroupMembers
	}

	return models.Dataset{
		Metadata:      raw.Metadata,
		Issues:        issueRows(parsed),
		UserActivity:  userActivity(parsed),
		DailyActivity: dailyActivity(parsed, opts.AsOf),
		Roster:        roster,
	}, nil
}

func issueRows(parsed []parsedIssue) []models.IssueRecord {
	rows := make([]models.IssueRecord, 0, len(parsed))
	for _, p := range parsed {
		state := p.raw.State
		if state != models.StateOpen && state != models.StateClosed {
			state = models.StateOpen
			if !p.closed.IsZero() {
				state = models.StateClosed
			}
		}

		people := make(map[string]struct{})
		for _, a := range p.raw.Assignees {
			people[a] = struct{}{}
		}
		if p.raw.Creator != "" {
			people[p.raw.Creator] = struct{}{}
		}
		for author := range p.raw.CommentsByAuthor {
			people[author] = struct{}{}
		}

		assignees := make(models.Assignees, 0, len(p.raw.Assignees))
		assignees = append(assignees, p.raw.Assignees...)

		rows = append(rows, models.IssueRecord{
			Number:        p.raw.Number,
			Title:         p.raw.Title,
			State:         state,
			Assignees:     assignees,
			CreatedAt:     p.created,
			ClosedAt:      p.closed,
			CommentsCount: p.raw.CommentsCount,
			ActivePeople:  len(people),
			URL:           p.raw.URL,
		})
	}
	return rows
}

// userActivity считает назначения по исполнителям, закрытия по автору задачи
// и комментарии по авторам комментариев
func userActivity(parsed []parsedIssue) []models.UserActivityRecord {
	byUser := make(map[string]*models.UserActivityRecord)
	get := func(user string) *models.UserActivityRecord {
		u, ok := byUser[user]
		if !ok {
			u = &models.UserActivityRecord{User: user}
			byUser[user] = u
		}
		return u
	}

	for _, p := range parsed {
		if p.raw.Creator != "" {
			creator := get(p.raw.Creator)
			if !p.closed.IsZero() {
				creator.Closed++
			}
		}
		for _, a := range p.raw.Assignees {
			get(a).Assigned++
		}
		for author, count := range p.raw.CommentsByAuthor {
			get(author).Comments += count
		}
	}

	out := make([]models.UserActivityRecord, 0, len(byUser))
	for _, u := range byUser {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].User < out[j].User
	})
	return out
}

type dayAcc struct {
	created  int
	closed   int
	comments int
	active   map[string]struct{}
}

// dailyActivity строит непрерывный ряд от первой даты создания до последней даты
// создания или закрытия (или до AsOf, если она позже). Комментарии без дат делятся
// поровну между днями жизни задачи, сумма по ряду равна числу комментариев.
func dailyActivity(parsed []parsedIssue, asOf models.Date) []models.DailyActivityRecord {
	if len(parsed) == 0 {
		return []models.DailyActivityRecord{}
	}

	first, last := parsed[0].created, parsed[0].created
	for _, p := range parsed {
		if p.created.Before(first) {
			first = p.created
		}
		if p.created.After(last) {
			last = p.created
		}
		if !p.closed.IsZero() && p.closed.After(last) {
			last = p.closed
		}
	}
	if asOf.IsZero() {
		asOf = last
	}
	// ряд доходит до даты отчета, чтобы комментарии открытых задач не терялись
	if asOf.After(last) {
		last = asOf
	}

	days := make([]dayAcc, first.DaysUntil(last)+1)
	for i := range days {
		days[i].active = make(map[string]struct{})
	}
	at := func(d models.Date) *dayAcc {
		idx := first.DaysUntil(d)
		if idx < 0 || idx >= len(days) {
			return nil
		}
		return &days[idx]
	}

	for _, p := range parsed {
		if day := at(p.created); day != nil {
			day.created++
			if p.raw.Creator != "" {
				day.active[p.raw.Creator] = struct{}{}
			}
			for _, a := range p.raw.Assignees {
				day.active[a] = struct{}{}
			}
		}
		if !p.closed.IsZero() {
			if day := at(p.closed); day != nil {
				day.closed++
				if p.raw.Creator != "" {
					day.active[p.raw.Creator] = struct{}{}
				}
			}
		}

		end := p.closed
		if end.IsZero() {
			end = asOf
		}
		if end.Before(p.created) {
			end = p.created
		}
		lifetime := p.created.DaysUntil(end) + 1

		total := 0
		for _, count := range p.raw.CommentsByAuthor {
			total += count
		}
		// целые комментарии поровну на каждый день жизни, остаток на первые дни
		base, rem := total/lifetime, total%lifetime
		for i, d := 0, p.created; !d.After(end); i, d = i+1, d.AddDays(1) {
			day := at(d)
			if day == nil {
				continue
			}
			day.comments += base
			if i < rem {
				day.comments++
			}
			for author, count := range p.raw.CommentsByAuthor {
				if count > 0 {
					day.active[author] = struct{}{}
				}
			}
		}
	}

	out := make([]models.DailyActivityRecord, 0, len(days))
	for i, day := range days {
		out = append(out, models.DailyActivityRecord{
			Date:          first.AddDays(i),
			IssuesCreated: day.created,
			IssuesClosed:  day.closed,
			Comments:      day.comments,
			ActiveUsers:   len(day.active),
		})
	}
	return out
}
