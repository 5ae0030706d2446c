package aggregator

import "github.com/untibullet/issue-activity-report/internal/models"

// Inputs входные коллекции хранилища записей
type Inputs struct {
	Issues []models.IssueRecord
	Users  []models.UserActivityRecord
	Daily  []models.DailyActivityRecord
}

// Compute строит все производные представления для состояния фильтра.
// Окно state должно быть задано, проверка выполняется вызывающей стороной.
func Compute(in Inputs, state models.FilterState, roster Roster, limit int) models.DerivedViews {
	issues := FilterIssues(in.Issues, state.StartDate, state.EndDate)
	active := ActiveUsers(issues)
	users := FilterUserActivity(in.Users, active, state.SubgroupOnly, roster)

	return models.DerivedViews{
		Issues:  issues,
		Daily:   FilterDailyActivity(in.Daily, state.StartDate, state.EndDate),
		Users:   users,
		Ranked:  RankTopUsers(users, limit),
		Summary: Summarize(issues, active),
	}
}

// ComputeUsers пересчитывает только пользовательские представления
func ComputeUsers(in Inputs, state models.FilterState, roster Roster, limit int) ([]models.UserActivityRecord, []models.RankedUser) {
	active := ActiveUsers(FilterIssues(in.Issues, state.StartDate, state.EndDate))
	users := FilterUserActivity(in.Users, active, state.SubgroupOnly, roster)
	return users, RankTopUsers(users, limit)
}
