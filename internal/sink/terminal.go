// Package sink содержит поверхности вывода отчета вне браузера:
// таблицы в терминале и CSV-файлы.
package sink

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/untibullet/issue-activity-report/internal/models"
)

// TerminalSink печатает представления таблицами
type TerminalSink struct {
	w io.Writer
}

// NewTerminalSink создает вывод в w
func NewTerminalSink(w io.Writer) *TerminalSink {
	return &TerminalSink{w: w}
}

func (s *TerminalSink) newTable(title string, header []string) *tablewriter.Table {
	fmt.Fprintf(s.w, "\n%s\n", title)
	table := tablewriter.NewWriter(s.w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func (s *TerminalSink) RenderSummary(c models.SummaryCounters) error {
	table := s.newTable("Summary", []string{"Total Issues", "Open Issues", "Closed Issues", "Total Comments", "Active People"})
	table.Append([]string{
		strconv.Itoa(c.Total),
		strconv.Itoa(c.Open),
		strconv.Itoa(c.Closed),
		strconv.Itoa(c.TotalComments),
		strconv.Itoa(c.ActivePeople),
	})
	table.Render()
	return nil
}

func (s *TerminalSink) RenderTable(issues []models.IssueRecord) error {
	table := s.newTable("Issues", []string{"Issue ID", "Issue Title", "Status", "Assignee", "Created Date", "Closed Date", "Comments", "Active People"})
	for _, row := range IssueRows(issues) {
		table.Append([]string{
			strconv.Itoa(row.Number),
			row.Title,
			row.State,
			row.Assignees,
			row.CreatedAt,
			row.ClosedAt,
			strconv.Itoa(row.CommentsCount),
			strconv.Itoa(row.ActivePeople),
		})
	}
	table.Render()
	return nil
}

func (s *TerminalSink) RenderUserTable(users []models.UserActivityRecord) error {
	table := s.newTable("Issue Assignment by User", []string{"User", "Total Assigned", "Open", "Closed", "Completion Rate"})
	for _, row := range UserRows(users) {
		table.Append([]string{
			row.User,
			strconv.Itoa(row.Assigned),
			strconv.Itoa(row.Open),
			strconv.Itoa(row.Closed),
			row.CompletionRate,
		})
	}
	table.Render()
	return nil
}

func (s *TerminalSink) RenderLineCharts(daily []models.DailyActivityRecord) error {
	table := s.newTable("Daily Activity", []string{"Date", "Issues Created", "Issues Closed", "Comments", "Active People"})
	for _, row := range DailyRows(daily) {
		table.Append([]string{
			row.Date,
			strconv.Itoa(row.IssuesCreated),
			strconv.Itoa(row.IssuesClosed),
			strconv.Itoa(row.Comments),
			strconv.Itoa(row.ActiveUsers),
		})
	}
	table.Render()
	return nil
}

func (s *TerminalSink) RenderBarChart(ranked []models.RankedUser) error {
	table := s.newTable("Activity by User", []string{"Rank", "User", "Assigned", "Closed", "Comments", "Score"})
	for _, row := range RankedRows(ranked) {
		table.Append([]string{
			strconv.Itoa(row.Rank),
			row.User,
			strconv.Itoa(row.Assigned),
			strconv.Itoa(row.Closed),
			strconv.Itoa(row.Comments),
			strconv.Itoa(row.Score),
		})
	}
	table.Render()
	return nil
}
