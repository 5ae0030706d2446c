package webapp

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/untibullet/issue-activity-report/internal/models"
)

// IssueColumn колонка таблицы задач
type IssueColumn int

const (
	ColumnNumber IssueColumn = iota
	ColumnTitle
	ColumnState
	ColumnAssignees
	ColumnCreated
	ColumnClosed
	ColumnComments
	ColumnActivePeople
)

var issueColumns = []struct {
	column IssueColumn
	title  string
}{
	{ColumnNumber, "Issue ID"},
	{ColumnTitle, "Issue Title"},
	{ColumnState, "Status"},
	{ColumnAssignees, "Assignee"},
	{ColumnCreated, "Created Date"},
	{ColumnClosed, "Closed Date"},
	{ColumnComments, "Comments"},
	{ColumnActivePeople, "Active People"},
}

// issueSort сортировка таблицы задач. Нулевое значение означает порядок контроллера.
type issueSort struct {
	active bool
	column IssueColumn
	desc   bool
}

// toggle повторный клик по колонке меняет направление, новая колонка сортируется по возрастанию
func (s issueSort) toggle(column IssueColumn) issueSort {
	if s.active && s.column == column {
		return issueSort{active: true, column: column, desc: !s.desc}
	}
	return issueSort{active: true, column: column}
}

// indicator стрелка направления для заголовка колонки
func (s issueSort) indicator(column IssueColumn) string {
	switch {
	case !s.active || s.column != column:
		return ""
	case s.desc:
		return " ▼"
	default:
		return " ▲"
	}
}

// sortedIssues возвращает отсортированную копию, исходный срез не меняется.
// Равные строки сохраняют порядок контроллера.
func sortedIssues(issues []models.IssueRecord, s issueSort) []models.IssueRecord {
	out := slices.Clone(issues)
	if !s.active {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := compareIssues(out[i], out[j], s.column)
		if s.desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareIssues(a, b models.IssueRecord, column IssueColumn) int {
	switch column {
	case ColumnTitle:
		return strings.Compare(a.Title, b.Title)
	case ColumnState:
		return strings.Compare(string(a.State), string(b.State))
	case ColumnAssignees:
		return strings.Compare(a.Assignees.String(), b.Assignees.String())
	case ColumnCreated:
		return a.CreatedAt.Compare(b.CreatedAt)
	case ColumnClosed:
		// открытые задачи идут после закрытых
		switch {
		case a.ClosedAt.IsZero() && b.ClosedAt.IsZero():
			return 0
		case a.ClosedAt.IsZero():
			return 1
		case b.ClosedAt.IsZero():
			return -1
		}
		return a.ClosedAt.Compare(b.ClosedAt)
	case ColumnComments:
		return a.CommentsCount - b.CommentsCount
	case ColumnActivePeople:
		return a.ActivePeople - b.ActivePeople
	default:
		return a.Number - b.Number
	}
}

// issueCells содержимое одной строки таблицы задач
type issueCells struct {
	Number       string
	Href         string
	Target       string
	Title        string
	State        string
	Assignees    string
	Created      string
	Closed       string
	Comments     string
	ActivePeople string
}

// newIssueCells строит строку таблицы. Номер задачи открывает ее страницу в новой вкладке.
func newIssueCells(issue models.IssueRecord) issueCells {
	return issueCells{
		Number:       strconv.Itoa(issue.Number),
		Href:         issue.URL,
		Target:       "_blank",
		Title:        issue.Title,
		State:        string(issue.State),
		Assignees:    issue.Assignees.String(),
		Created:      issue.CreatedAt.String(),
		Closed:       issue.ClosedLabel(),
		Comments:     strconv.Itoa(issue.CommentsCount),
		ActivePeople: strconv.Itoa(issue.ActivePeople),
	}
}

func renderIssueRow(c issueCells) app.UI {
	return app.Tr().Body(
		app.Td().Body(
			app.A().Href(c.Href).Target(c.Target).Text(c.Number),
		),
		app.Td().Text(c.Title),
		app.Td().Text(c.State),
		app.Td().Text(c.Assignees),
		app.Td().Text(c.Created),
		app.Td().Text(c.Closed),
		app.Td().Text(c.Comments),
		app.Td().Text(c.ActivePeople),
	)
}

func (r *Report) sortIssuesBy(column IssueColumn) {
	r.issueSort = r.issueSort.toggle(column)
}

func (r *Report) onSortIssues(column IssueColumn) app.EventHandler {
	return func(ctx app.Context, e app.Event) {
		r.sortIssuesBy(column)
	}
}

// visibleIssues строки таблицы задач в текущем порядке сортировки
func (r *Report) visibleIssues() []issueCells {
	issues := sortedIssues(r.issues, r.issueSort)
	cells := make([]issueCells, 0, len(issues))
	for _, issue := range issues {
		cells = append(cells, newIssueCells(issue))
	}
	return cells
}

func (r *Report) renderIssueTable() app.UI {
	header := make([]app.UI, 0, len(issueColumns))
	for _, col := range issueColumns {
		header = append(header, app.Th().
			Style("cursor", "pointer").
			OnClick(r.onSortIssues(col.column)).
			Text(col.title+r.issueSort.indicator(col.column)))
	}

	rows := r.visibleIssues()
	return app.Div().Class("table-responsive mt-4").Body(
		app.H3().Text("Issues"),
		app.Table().ID("issues-table").Class("table table-striped table-hover").Body(
			app.THead().Body(app.Tr().Body(header...)),
			app.TBody().Body(
				app.Range(rows).Slice(func(i int) app.UI {
					return renderIssueRow(rows[i])
				}),
			),
		),
	)
}
