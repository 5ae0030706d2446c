// models/models.go
package models

import (
	"encoding/json"
	"strings"
)

// IssueState состояние задачи в трекере
type IssueState string

// Константы состояний задачи
const (
	StateOpen   IssueState = "open"
	StateClosed IssueState = "closed"
)

// NoneAssigned маркер задачи без исполнителей
const NoneAssigned = "None"

// NotClosed подпись даты закрытия открытой задачи
const NotClosed = "Not closed"

// Assignees множество исполнителей задачи.
// Пустое значение эквивалентно маркеру NoneAssigned.
type Assignees []string

// UnmarshalJSON принимает как массив логинов, так и строку вида "a, b" или "None"
func (a *Assignees) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = normalizeAssignees(list)
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*a = normalizeAssignees(strings.Split(joined, ","))
	return nil
}

// MarshalJSON всегда пишет массив, задача без исполнителей дает пустой массив
func (a Assignees) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

// String возвращает исполнителей через запятую либо NoneAssigned
func (a Assignees) String() string {
	if len(a) == 0 {
		return NoneAssigned
	}
	return strings.Join(a, ", ")
}

func normalizeAssignees(list []string) Assignees {
	out := make(Assignees, 0, len(list))
	for _, login := range list {
		login = strings.TrimSpace(login)
		if login == "" || login == NoneAssigned {
			continue
		}
		out = append(out, login)
	}
	return out
}

// IssueRecord строка таблицы задач в хранилище записей
type IssueRecord struct {
	Number        int        `json:"number"`
	Title         string     `json:"title"`
	State         IssueState `json:"state"`
	Assignees     Assignees  `json:"assignees"`
	CreatedAt     Date       `json:"created_at"`
	ClosedAt      Date       `json:"closed_at"`
	CommentsCount int        `json:"comments_count"`
	ActivePeople  int        `json:"active_people"`
	URL           string     `json:"url"`
}

// IsClosed сообщает, закрыта ли задача
func (i IssueRecord) IsClosed() bool {
	return i.State == StateClosed
}

// ClosedLabel дата закрытия для показа либо NotClosed
func (i IssueRecord) ClosedLabel() string {
	if i.ClosedAt.IsZero() {
		return NotClosed
	}
	return i.ClosedAt.String()
}

// UserActivityRecord счетчики активности пользователя за весь период выгрузки
type UserActivityRecord struct {
	User     string `json:"user"`
	Assigned int    `json:"assigned"`
	Closed   int    `json:"closed"`
	Comments int    `json:"comments"`
}

// Score суммарный вес пользователя для рейтинга
func (u UserActivityRecord) Score() int {
	return u.Assigned + u.Closed + u.Comments
}

// DailyActivityRecord активность за один календарный день
type DailyActivityRecord struct {
	Date          Date `json:"date"`
	IssuesCreated int  `json:"issues_created"`
	IssuesClosed  int  `json:"issues_closed"`
	Comments      int  `json:"comments"`
	ActiveUsers   int  `json:"active_users"`
}

// Metadata сведения о выгрузке, пришедшие от сборщика
type Metadata struct {
	Repository      string   `json:"repository,omitempty"`
	PeriodStart     string   `json:"period_start,omitempty"`
	PeriodEnd       string   `json:"period_end,omitempty"`
	GeneratedAt     string   `json:"generated_at,omitempty"`
	SubgroupMembers []string `json:"devops_team_members,omitempty"`
}

// Dataset сериализованное хранилище записей: три входные коллекции и состав подгруппы
type Dataset struct {
	Metadata      Metadata              `json:"metadata"`
	Issues        []IssueRecord         `json:"issues"`
	UserActivity  []UserActivityRecord  `json:"user_activity"`
	DailyActivity []DailyActivityRecord `json:"daily_activity"`
	Roster        []string              `json:"roster,omitempty"`
}
