// Package controller владеет состоянием фильтра отчета. Каждый переход
// пересчитывает представления из хранилища целиком и передает их в ViewSink.
package controller

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/untibullet/issue-activity-report/internal/aggregator"
	"github.com/untibullet/issue-activity-report/internal/models"
	"github.com/untibullet/issue-activity-report/internal/store"
)

// ViewSink поверхность вывода производных представлений.
// Каждый вызов полностью заменяет ранее показанное содержимое.
type ViewSink interface {
	RenderSummary(counters models.SummaryCounters) error
	RenderTable(issues []models.IssueRecord) error
	RenderUserTable(users []models.UserActivityRecord) error
	RenderLineCharts(daily []models.DailyActivityRecord) error
	RenderBarChart(ranked []models.RankedUser) error
}

// Controller единственный владелец FilterState.
// Не безопасен для конкурентного использования: вызовы идут из одного цикла событий.
type Controller struct {
	inputs aggregator.Inputs
	store  *store.Store
	sink   ViewSink
	roster aggregator.Roster
	limit  int
	logger *zap.Logger

	state models.FilterState
	views models.DerivedViews
}

// Option настройка контроллера
type Option func(*Controller)

// WithRoster задает состав подгруппы вместо пришедшего с данными
func WithRoster(users []string) Option {
	return func(c *Controller) {
		if len(users) > 0 {
			c.roster = aggregator.NewRoster(users...)
		}
	}
}

// WithTopUsers задает размер рейтинга
func WithTopUsers(limit int) Option {
	return func(c *Controller) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// WithLogger задает логгер
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New создает контроллер с незаданным окном дат
func New(st *store.Store, sink ViewSink, opts ...Option) *Controller {
	c := &Controller{
		inputs: st.Inputs(),
		store:  st,
		sink:   sink,
		roster: aggregator.NewRoster(st.Roster()...),
		limit:  aggregator.DefaultTopUsers,
		logger: zap.NewNop(),
		views:  emptyViews(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State текущее состояние фильтра
func (c *Controller) State() models.FilterState {
	return c.state
}

// Views копия последних вычисленных представлений
func (c *Controller) Views() models.DerivedViews {
	return c.views.Clone()
}

// Roster состав подгруппы, которым пользуется контроллер
func (c *Controller) Roster() []string {
	return c.roster.Members()
}

// Start выполняет первую отрисовку по полному периоду данных.
// Если данных нет, окно остается незаданным и выводятся пустые представления.
func (c *Controller) Start() error {
	start, end, ok := c.store.Window()
	if !ok {
		c.logger.Info("dataset is empty, rendering empty report")
		return c.renderAll()
	}
	return c.SetDateRange(start, end)
}

// SetDateRange проверяет и применяет окно дат, затем пересчитывает все представления.
// При ошибке проверки состояние и представления не меняются, отрисовки нет.
func (c *Controller) SetDateRange(start, end models.Date) error {
	if err := validateRange(start, end); err != nil {
		c.logger.Warn("date range rejected",
			zap.String("start", start.String()),
			zap.String("end", end.String()),
			zap.Error(err))
		return err
	}

	c.state.StartDate = start
	c.state.EndDate = end
	c.views = aggregator.Compute(c.inputs, c.state, c.roster, c.limit)

	c.logger.Debug("views recomputed",
		zap.String("start", start.String()),
		zap.String("end", end.String()),
		zap.Bool("subgroup_only", c.state.SubgroupOnly),
		zap.Int("issues", len(c.views.Issues)),
		zap.Int("users", len(c.views.Users)))

	return c.renderAll()
}

// ApplyDateInputs разбирает значения полей формы и применяет окно
func (c *Controller) ApplyDateInputs(startInput, endInput string) error {
	start, err := parseInput(FieldStart, startInput)
	if err != nil {
		c.logger.Warn("date input rejected", zap.String("field", FieldStart), zap.Error(err))
		return err
	}
	end, err := parseInput(FieldEnd, endInput)
	if err != nil {
		c.logger.Warn("date input rejected", zap.String("field", FieldEnd), zap.Error(err))
		return err
	}
	return c.SetDateRange(start, end)
}

// SetSubgroupOnly переключает фильтр подгруппы и перерисовывает только таблицу
// пользователей и столбчатую диаграмму. Сводка и дневные графики от подгруппы не зависят.
// Пока окно не задано, флаг только запоминается.
func (c *Controller) SetSubgroupOnly(flag bool) error {
	c.state.SubgroupOnly = flag
	if !c.state.HasWindow() {
		c.logger.Debug("subgroup flag stored without window", zap.Bool("subgroup_only", flag))
		return nil
	}

	c.views.Users, c.views.Ranked = aggregator.ComputeUsers(c.inputs, c.state, c.roster, c.limit)

	c.logger.Debug("user views recomputed",
		zap.Bool("subgroup_only", flag),
		zap.Int("users", len(c.views.Users)))

	// ViewSink получает копии, чтобы сортировка на его стороне не меняла порядок представлений
	if err := c.sink.RenderUserTable(slices.Clone(c.views.Users)); err != nil {
		return fmt.Errorf("failed to render user table: %w", err)
	}
	if err := c.sink.RenderBarChart(slices.Clone(c.views.Ranked)); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	return nil
}

// Refresh повторно отдает текущие представления в ViewSink без пересчета
func (c *Controller) Refresh() error {
	return c.renderAll()
}

func (c *Controller) renderAll() error {
	v := c.views.Clone()
	if err := c.sink.RenderSummary(v.Summary); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if err := c.sink.RenderTable(v.Issues); err != nil {
		return fmt.Errorf("failed to render issue table: %w", err)
	}
	if err := c.sink.RenderUserTable(v.Users); err != nil {
		return fmt.Errorf("failed to render user table: %w", err)
	}
	if err := c.sink.RenderLineCharts(v.Daily); err != nil {
		return fmt.Errorf("failed to render line charts: %w", err)
	}
	if err := c.sink.RenderBarChart(v.Ranked); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	return nil
}

func validateRange(start, end models.Date) error {
	if start.IsZero() {
		return &ValidationError{Field: FieldStart, Err: ErrMissingBound}
	}
	if end.IsZero() {
		return &ValidationError{Field: FieldEnd, Err: ErrMissingBound}
	}
	if start.After(end) {
		return &ValidationError{
			Field:  FieldRange,
			Err:    ErrInvertedRange,
			Reason: fmt.Sprintf("%s > %s", start, end),
		}
	}
	return nil
}

func parseInput(field, input string) (models.Date, error) {
	d, err := models.ParseDate(input)
	if err != nil {
		return models.Date{}, &ValidationError{Field: field, Err: ErrInvalidDate, Reason: fmt.Sprintf("%q", input)}
	}
	if d.IsZero() {
		return models.Date{}, &ValidationError{Field: field, Err: ErrMissingBound}
	}
	return d, nil
}

func emptyViews() models.DerivedViews {
	return models.DerivedViews{
		Issues: []models.IssueRecord{},
		Daily:  []models.DailyActivityRecord{},
		Users:  []models.UserActivityRecord{},
		Ranked: []models.RankedUser{},
	}
}

// Discard ViewSink, который ничего не выводит. Нужен, когда представления читаются через Views.
var Discard ViewSink = discardSink{}

type discardSink struct{}

func (discardSink) RenderSummary(models.SummaryCounters) error { return nil }
func (discardSink) RenderTable([]models.IssueRecord) error { return nil }
func (discardSink) RenderUserTable([]models.UserActivityRecord) error { return nil }
func (discardSink) RenderLineCharts([]models.DailyActivityRecord) error { return nil }
func (discardSink) RenderBarChart([]models.RankedUser) error { return nil }
