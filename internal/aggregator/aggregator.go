// Package aggregator строит производные представления отчета из неизменяемых
// входных коллекций и текущего окна дат. Все функции чистые: они не хранят
// состояния и не изменяют входные срезы.
package aggregator

import (
	"sort"

	"github.com/untibullet/issue-activity-report/internal/models"
)

// DefaultTopUsers размер рейтинга пользователей по умолчанию
const DefaultTopUsers = 20

// FilterIssues отбирает задачи, созданные или закрытые внутри окна [start, end].
// Порядок результата совпадает с порядком входа.
func FilterIssues(issues []models.IssueRecord, start, end models.Date) []models.IssueRecord {
	out := make([]models.IssueRecord, 0, len(issues))
	for _, issue := range issues {
		createdIn := issue.CreatedAt.Within(start, end)
		closedIn := !issue.ClosedAt.IsZero() && issue.ClosedAt.Within(start, end)
		if createdIn || closedIn {
			out = append(out, issue)
		}
	}
	return models.CloneIssues(out)
}

// ActiveUsers собирает всех исполнителей отфильтрованных задач
func ActiveUsers(filtered []models.IssueRecord) UserSet {
	set := make(UserSet)
	for _, issue := range filtered {
		for _, login := range issue.Assignees {
			if login == "" || login == models.NoneAssigned {
				continue
			}
			set[login] = struct{}{}
		}
	}
	return set
}

// FilterUserActivity оставляет пользователей из activeUsers либо с любым ненулевым счетчиком.
// При subgroupOnly дополнительно оставляет только участников roster.
func FilterUserActivity(activity []models.UserActivityRecord, activeUsers UserSet, subgroupOnly bool, roster Roster) []models.UserActivityRecord {
	out := make([]models.UserActivityRecord, 0, len(activity))
	for _, u := range activity {
		keep := activeUsers.Has(u.User) || u.Assigned > 0 || u.Comments > 0 || u.Closed > 0
		if !keep {
			continue
		}
		if subgroupOnly && !roster.Has(u.User) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Summarize считает сводку заново по отфильтрованному набору
func Summarize(filtered []models.IssueRecord, activeUsers UserSet) models.SummaryCounters {
	var s models.SummaryCounters
	for _, issue := range filtered {
		s.Total++
		switch issue.State {
		case models.StateOpen:
			s.Open++
		case models.StateClosed:
			s.Closed++
		}
		s.TotalComments += issue.CommentsCount
	}
	s.ActivePeople = activeUsers.Len()
	return s
}

// RankTopUsers сортирует пользователей по убыванию assigned+closed+comments и обрезает до limit.
// Сортировка устойчивая: равные веса сохраняют входной порядок, но это не часть контракта.
func RankTopUsers(activity []models.UserActivityRecord, limit int) []models.RankedUser {
	if limit <= 0 {
		limit = DefaultTopUsers
	}
	ranked := make([]models.RankedUser, 0, len(activity))
	for _, u := range activity {
		ranked = append(ranked, models.RankedUser{UserActivityRecord: u, Score: u.Score()})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// FilterDailyActivity отбирает дни внутри окна [start, end]
func FilterDailyActivity(daily []models.DailyActivityRecord, start, end models.Date) []models.DailyActivityRecord {
	out := make([]models.DailyActivityRecord, 0, len(daily))
	for _, d := range daily {
		if d.Date.Within(start, end) {
			out = append(out, d)
		}
	}
	return out
}
