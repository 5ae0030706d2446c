// repository/repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/untibullet/issue-activity-report/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema создает таблицы, если их еще нет
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// ImportDataset сохраняет датасет как отчет репозитория metadata.repository.
// Если отчет уже есть, при replace он заменяется целиком, иначе возвращается ErrAlreadyExists.
func (r *Repository) ImportDataset(ctx context.Context, ds models.Dataset, replace bool) (int64, error) {
	if ds.Metadata.Repository == "" {
		return 0, fmt.Errorf("%w: metadata.repository is empty", ErrInvalidInput)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if replace {
		_, err = tx.Exec(ctx, `DELETE FROM reports WHERE repository = $1`, ds.Metadata.Repository)
		if err != nil {
			return 0, fmt.Errorf("failed to delete previous report: %w", err)
		}
	}

	var reportID int64
	insertQuery := `
        INSERT INTO reports (repository, period_start, period_end, generated_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	meta := ds.Metadata
	err = tx.QueryRow(ctx, insertQuery, meta.Repository, meta.PeriodStart, meta.PeriodEnd, meta.GeneratedAt).Scan(&reportID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrAlreadyExists
		}
		return 0, fmt.Errorf("failed to create report: %w", err)
	}

	roster := ds.Roster
	if len(roster) == 0 {
		roster = meta.SubgroupMembers
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]interface{}
	}{
		{
			table:   "report_issues",
			columns: []string{"report_id", "position", "number", "title", "state", "assignees", "created_at", "closed_at", "comments_count", "active_people", "url"},
			rows:    issueRows(reportID, ds.Issues),
		},
		{
			table:   "report_users",
			columns: []string{"report_id", "position", "user_name", "assigned", "closed", "comments"},
			rows:    userRows(reportID, ds.UserActivity),
		},
		{
			table:   "report_daily",
			columns: []string{"report_id", "day", "issues_created", "issues_closed", "comments", "active_users"},
			rows:    dailyRows(reportID, ds.DailyActivity),
		},
		{
			table:   "report_roster",
			columns: []string{"report_id", "position", "user_name"},
			rows:    rosterRows(reportID, roster),
		},
	}

	for _, c := range copies {
		if len(c.rows) == 0 {
			continue
		}
		_, err = tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows))
		if err != nil {
			return 0, fmt.Errorf("failed to copy %s: %w", c.table, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return reportID, nil
}

// LoadDataset читает отчет репозитория в исходном порядке строк
func (r *Repository) LoadDataset(ctx context.Context, repository string) (models.Dataset, error) {
	var (
		reportID int64
		meta     = models.Metadata{Repository: repository}
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, period_start, period_end, generated_at FROM reports WHERE repository = $1`,
		repository,
	).Scan(&reportID, &meta.PeriodStart, &meta.PeriodEnd, &meta.GeneratedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Dataset{}, ErrNotFound
	}
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to get report: %w", err)
	}

	issues, err := r.loadIssues(ctx, reportID)
	if err != nil {
		return models.Dataset{}, err
	}
	users, err := r.loadUsers(ctx, reportID)
	if err != nil {
		return models.Dataset{}, err
	}
	daily, err := r.loadDaily(ctx, reportID)
	if err != nil {
		return models.Dataset{}, err
	}
	roster, err := r.loadRoster(ctx, reportID)
	if err != nil {
		return models.Dataset{}, err
	}
	meta.SubgroupMembers = roster

	return models.Dataset{
		Metadata:      meta,
		Issues:        issues,
		UserActivity:  users,
		DailyActivity: daily,
		Roster:        roster,
	}, nil
}

// ListRepositories возвращает репозитории, для которых есть отчеты
func (r *Repository) ListRepositories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT repository FROM reports ORDER BY repository`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return out, nil
}

func (r *Repository) loadIssues(ctx context.Context, reportID int64) ([]models.IssueRecord, error) {
	query := `
        SELECT number, title, state, assignees, created_at, closed_at, comments_count, active_people, url
        FROM report_issues
        WHERE report_id = $1
        ORDER BY position
    `
	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get issues: %w", err)
	}
	defer rows.Close()

	issues := []models.IssueRecord{}
	for rows.Next() {
		var (
			issue     models.IssueRecord
			state     string
			assignees []string
			createdAt time.Time
			closedAt  *time.Time
		)
		err := rows.Scan(&issue.Number, &issue.Title, &state, &assignees, &createdAt, &closedAt,
			&issue.CommentsCount, &issue.ActivePeople, &issue.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issue.State = models.IssueState(state)
		issue.Assignees = models.Assignees(assignees)
		issue.CreatedAt = models.DateOf(createdAt)
		issue.ClosedAt = dateFromNullable(closedAt)
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate issues: %w", err)
	}
	return issues, nil
}

func (r *Repository) loadUsers(ctx context.Context, reportID int64) ([]models.UserActivityRecord, error) {
	query := `
        SELECT user_name, assigned, closed, comments
        FROM report_users
        WHERE report_id = $1
        ORDER BY position
    `
	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user activity: %w", err)
	}
	defer rows.Close()

	users := []models.UserActivityRecord{}
	for rows.Next() {
		var u models.UserActivityRecord
		if err := rows.Scan(&u.User, &u.Assigned, &u.Closed, &u.Comments); err != nil {
			return nil, fmt.Errorf("failed to scan user activity: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user activity: %w", err)
	}
	return users, nil
}

func (r *Repository) loadDaily(ctx context.Context, reportID int64) ([]models.DailyActivityRecord, error) {
	query := `
        SELECT day, issues_created, issues_closed, comments, active_users
        FROM report_daily
        WHERE report_id = $1
        ORDER BY day
    `
	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily activity: %w", err)
	}
	defer rows.Close()

	daily := []models.DailyActivityRecord{}
	for rows.Next() {
		var (
			rec models.DailyActivityRecord
			day time.Time
		)
		if err := rows.Scan(&day, &rec.IssuesCreated, &rec.IssuesClosed, &rec.Comments, &rec.ActiveUsers); err != nil {
			return nil, fmt.Errorf("failed to scan daily activity: %w", err)
		}
		rec.Date = models.DateOf(day)
		daily = append(daily, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily activity: %w", err)
	}
	return daily, nil
}

func (r *Repository) loadRoster(ctx context.Context, reportID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_name FROM report_roster WHERE report_id = $1 ORDER BY position`, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	defer rows.Close()

	var roster []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan roster member: %w", err)
		}
		roster = append(roster, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roster: %w", err)
	}
	return roster, nil
}
