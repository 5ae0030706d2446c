package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/untibullet/issue-activity-report/internal/models"
)

// Имена файлов выгрузки
const (
	SummaryFile  = "summary.csv"
	IssuesFile   = "issues.csv"
	UsersFile    = "users.csv"
	DailyFile    = "daily.csv"
	TopUsersFile = "top_users.csv"
)

// CSVSink пишет каждое представление в отдельный файл каталога.
// Повторная отрисовка перезаписывает файл целиком.
type CSVSink struct {
	dir string
}

// NewCSVSink создает каталог dir, если его нет
func NewCSVSink(dir string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}
	return &CSVSink{dir: dir}, nil
}

// Dir каталог выгрузки
func (s *CSVSink) Dir() string {
	return s.dir
}

func (s *CSVSink) write(name string, rows interface{}) error {
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := gocsv.MarshalFile(rows, f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

func (s *CSVSink) RenderSummary(c models.SummaryCounters) error {
	return s.write(SummaryFile, []SummaryRow{{
		Total:         c.Total,
		Open:          c.Open,
		Closed:        c.Closed,
		TotalComments: c.TotalComments,
		ActivePeople:  c.ActivePeople,
	}})
}

func (s *CSVSink) RenderTable(issues []models.IssueRecord) error {
	return s.write(IssuesFile, IssueRows(issues))
}

func (s *CSVSink) RenderUserTable(users []models.UserActivityRecord) error {
	return s.write(UsersFile, UserRows(users))
}

func (s *CSVSink) RenderLineCharts(daily []models.DailyActivityRecord) error {
	return s.write(DailyFile, DailyRows(daily))
}

func (s *CSVSink) RenderBarChart(ranked []models.RankedUser) error {
	return s.write(TopUsersFile, RankedRows(ranked))
}
