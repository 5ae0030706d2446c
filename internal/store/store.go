// Package store хранит входные коллекции отчета. После загрузки хранилище
// не изменяется: все методы отдают копии.
package store

import (
	"slices"

	"github.com/untibullet/issue-activity-report/internal/aggregator"
	"github.com/untibullet/issue-activity-report/internal/models"
)

// Store неизменяемое хранилище записей
type Store struct {
	meta   models.Metadata
	issues []models.IssueRecord
	users  []models.UserActivityRecord
	daily  []models.DailyActivityRecord
	roster []string
}

// New проверяет датасет и копирует его в хранилище.
// Первая найденная некорректная запись возвращается как *MalformedRecordError.
func New(ds models.Dataset) (*Store, error) {
	if err := Validate(ds); err != nil {
		return nil, err
	}

	roster := ds.Roster
	if len(roster) == 0 {
		roster = ds.Metadata.SubgroupMembers
	}

	meta := ds.Metadata
	meta.SubgroupMembers = slices.Clone(meta.SubgroupMembers)

	return &Store{
		meta:   meta,
		issues: models.CloneIssues(ds.Issues),
		users:  slices.Clone(ds.UserActivity),
		daily:  slices.Clone(ds.DailyActivity),
		roster: slices.Clone(roster),
	}, nil
}

// Metadata сведения о выгрузке
func (s *Store) Metadata() models.Metadata {
	meta := s.meta
	meta.SubgroupMembers = slices.Clone(meta.SubgroupMembers)
	return meta
}

// Issues копия таблицы задач
func (s *Store) Issues() []models.IssueRecord {
	return models.CloneIssues(s.issues)
}

// UserActivity копия счетчиков пользователей
func (s *Store) UserActivity() []models.UserActivityRecord {
	return slices.Clone(s.users)
}

// DailyActivity копия дневного ряда
func (s *Store) DailyActivity() []models.DailyActivityRecord {
	return slices.Clone(s.daily)
}

// Roster состав подгруппы, пришедший вместе с данными
func (s *Store) Roster() []string {
	return slices.Clone(s.roster)
}

// Inputs входные коллекции для агрегатора
func (s *Store) Inputs() aggregator.Inputs {
	return aggregator.Inputs{
		Issues: s.Issues(),
		Users:  s.UserActivity(),
		Daily:  s.DailyActivity(),
	}
}

// Dataset сериализуемая копия хранилища
func (s *Store) Dataset() models.Dataset {
	return models.Dataset{
		Metadata:      s.Metadata(),
		Issues:        s.Issues(),
		UserActivity:  s.UserActivity(),
		DailyActivity: s.DailyActivity(),
		Roster:        s.Roster(),
	}
}

// Window полный период данных: границы дневного ряда,
// а если ряд пуст, то крайние даты создания и закрытия задач.
func (s *Store) Window() (start, end models.Date, ok bool) {
	for _, d := range s.daily {
		start, end = widen(start, end, d.Date)
	}
	if !start.IsZero() {
		return start, end, true
	}
	for _, issue := range s.issues {
		start, end = widen(start, end, issue.CreatedAt)
		if !issue.ClosedAt.IsZero() {
			start, end = widen(start, end, issue.ClosedAt)
		}
	}
	return start, end, !start.IsZero()
}

func widen(start, end, d models.Date) (models.Date, models.Date) {
	if d.IsZero() {
		return start, end
	}
	if start.IsZero() || d.Before(start) {
		start = d
	}
	if end.IsZero() || d.After(end) {
		end = d
	}
	return start, end
}
