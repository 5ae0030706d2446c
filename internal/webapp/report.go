// Package webapp страница отчета на go-app. Компонент Report реализует
// controller.ViewSink и выполняет повторную фильтрацию прямо в браузере.
package webapp

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/untibullet/issue-activity-report/internal/charts"
	"github.com/untibullet/issue-activity-report/internal/controller"
	"github.com/untibullet/issue-activity-report/internal/models"
	"github.com/untibullet/issue-activity-report/internal/store"
)

// Routes регистрирует страницы отчета
func Routes() {
	app.Route("/", func() app.Composer { return &Report{} })
}

type Report struct {
	app.Compo

	title         string
	subgroupLabel string
	loaded        bool
	loadErr       string

	ctrl         *controller.Controller
	startInput   string
	endInput     string
	subgroupOnly bool

	summary    models.SummaryCounters
	issues     []models.IssueRecord
	issueSort  issueSort
	users      []models.UserActivityRecord
	lineFigure string
	barFigure  string

	// графики, которые нужно перерисовать после обновления DOM
	linesDirty bool
	barsDirty  bool
}

func (r *Report) OnMount(ctx app.Context) {
	ctx.Async(func() {
		p, err := fetchPayload(PayloadPath)
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				app.Log("error loading report data:", err)
				r.loadErr = err.Error()
				return
			}
			if err := r.load(p); err != nil {
				app.Log("error building report:", err)
				r.loadErr = err.Error()
				return
			}
			ctx.Defer(r.drawCharts)
		})
	})
}

func fetchPayload(url string) (Payload, error) {
	resp, err := http.Get(url)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Payload{}, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}
	return ReadPayload(resp.Body)
}

// load строит хранилище и контроллер и выполняет первую отрисовку по полному периоду
func (r *Report) load(p Payload) error {
	st, err := store.New(p.Dataset)
	if err != nil {
		return err
	}

	r.title = p.Title
	r.subgroupLabel = p.SubgroupLabel
	if r.subgroupLabel == "" {
		r.subgroupLabel = DefaultSubgroupLabel
	}
	r.ctrl = controller.New(st, r, controller.WithTopUsers(p.TopUsers))
	if err := r.ctrl.Start(); err != nil {
		return err
	}

	state := r.ctrl.State()
	r.startInput = state.StartDate.String()
	r.endInput = state.EndDate.String()
	r.loaded = true
	return nil
}

func (r *Report) RenderSummary(c models.SummaryCounters) error {
	r.summary = c
	return nil
}

// RenderTable заменяет строки таблицы задач и сбрасывает ее сортировку
func (r *Report) RenderTable(issues []models.IssueRecord) error {
	r.issues = issues
	r.issueSort = issueSort{}
	return nil
}

func (r *Report) RenderUserTable(users []models.UserActivityRecord) error {
	r.users = users
	return nil
}

func (r *Report) RenderLineCharts(daily []models.DailyActivityRecord) error {
	fig, err := charts.JSON(charts.LineCharts(daily))
	if err != nil {
		return err
	}
	r.lineFigure = fig
	r.linesDirty = true
	return nil
}

func (r *Report) RenderBarChart(ranked []models.RankedUser) error {
	fig, err := charts.JSON(charts.BarChart(ranked))
	if err != nil {
		return err
	}
	r.barFigure = fig
	r.barsDirty = true
	return nil
}

func (r *Report) onStartChange(ctx app.Context, e app.Event) {
	r.startInput = ctx.JSSrc().Get("value").String()
}

func (r *Report) onEndChange(ctx app.Context, e app.Event) {
	r.endInput = ctx.JSSrc().Get("value").String()
}

func (r *Report) onApply(ctx app.Context, e app.Event) {
	e.PreventDefault()
	r.applyDates(r.startInput, r.endInput)
	ctx.Defer(r.drawCharts)
}

func (r *Report) onSubgroupToggle(ctx app.Context, e app.Event) {
	r.toggleSubgroup(ctx.JSSrc().Get("checked").Bool())
	ctx.Defer(r.drawCharts)
}

// applyDates передает ввод контроллеру. Ошибка проверки показывается блокирующим сообщением.
func (r *Report) applyDates(start, end string) {
	err := r.ctrl.ApplyDateInputs(start, end)
	var vErr *controller.ValidationError
	switch {
	case errors.As(err, &vErr):
		alert(vErr.UserMessage())
	case err != nil:
		app.Log("error rendering report:", err)
	}
}

func (r *Report) toggleSubgroup(flag bool) {
	r.subgroupOnly = flag
	if err := r.ctrl.SetSubgroupOnly(flag); err != nil {
		app.Log("error rendering user views:", err)
	}
}

func alert(msg string) {
	if app.IsClient {
		app.Window().Call("alert", msg)
		return
	}
	app.Log(msg)
}

// drawCharts сносит старые графики и рисует новые в тех же контейнерах
func (r *Report) drawCharts(ctx app.Context) {
	if r.linesDirty {
		plot(charts.LineChartsID, r.lineFigure)
		r.linesDirty = false
	}
	if r.barsDirty {
		plot(charts.BarChartID, r.barFigure)
		r.barsDirty = false
	}
}

func plot(id, figure string) {
	if !app.IsClient || figure == "" {
		return
	}
	plotly := app.Window().Get("Plotly")
	if !plotly.Truthy() {
		app.Log("plotly is not loaded")
		return
	}
	fig := app.Window().Get("JSON").Call("parse", figure)
	plotly.Call("purge", id)
	plotly.Call("newPlot", id, fig.Get("data"), fig.Get("layout"), fig.Get("config"))
}

func (r *Report) Render() app.UI {
	if r.loadErr != "" {
		return app.Div().Class("container mt-4").Body(
			app.Div().Class("alert alert-danger").Text("Failed to load report: " + r.loadErr),
		)
	}
	if !r.loaded {
		return app.Div().Class("container mt-4").Body(
			app.P().Text("Loading report..."),
		)
	}

	return app.Div().Class("container-fluid").Body(
		app.H1().Class("mt-4 mb-4").Text(r.title),
		r.renderFilters(),
		r.renderSummary(),
		app.Div().Class("chart-container").Body(
			app.Div().ID(charts.LineChartsID),
		),
		app.Div().Class("chart-container").Body(
			app.Div().ID(charts.BarChartID),
		),
		r.renderUserTable(),
		r.renderIssueTable(),
	)
}

func (r *Report) renderFilters() app.UI {
	return app.Form().Class("row g-3 align-items-end mb-4").OnSubmit(r.onApply).Body(
		app.Div().Class("col-auto").Body(
			app.Label().For("start-date").Class("form-label").Text("Start Date"),
			app.Input().ID("start-date").Type("date").Class("form-control").
				Value(r.startInput).OnChange(r.onStartChange),
		),
		app.Div().Class("col-auto").Body(
			app.Label().For("end-date").Class("form-label").Text("End Date"),
			app.Input().ID("end-date").Type("date").Class("form-control").
				Value(r.endInput).OnChange(r.onEndChange),
		),
		app.Div().Class("col-auto").Body(
			app.Button().Type("submit").Class("btn btn-primary").Text("Apply Filter"),
		),
		app.Div().Class("col-auto form-check form-switch").Body(
			app.Input().ID("subgroup-only").Type("checkbox").Class("form-check-input").
				Checked(r.subgroupOnly).OnChange(r.onSubgroupToggle),
			app.Label().For("subgroup-only").Class("form-check-label").Text(r.subgroupLabel),
		),
	)
}

func (r *Report) renderSummary() app.UI {
	card := func(title string, value int) app.UI {
		return app.Div().Class("col").Body(
			app.Div().Class("card text-center mb-3").Body(
				app.Div().Class("card-body").Body(
					app.H5().Class("card-title").Text(title),
					app.P().Class("card-text fs-3").Text(strconv.Itoa(value)),
				),
			),
		)
	}
	return app.Div().Class("row").Body(
		card("Total Issues", r.summary.Total),
		card("Open Issues", r.summary.Open),
		card("Closed Issues", r.summary.Closed),
		card("Total Comments", r.summary.TotalComments),
		card("Active People", r.summary.ActivePeople),
	)
}

func (r *Report) renderUserTable() app.UI {
	return app.Div().Class("table-responsive mt-4").Body(
		app.H3().Text("Issue Assignment by User"),
		app.Table().ID("user-table").Class("table table-striped table-hover").Body(
			app.THead().Body(app.Tr().Body(
				app.Th().Text("User"),
				app.Th().Text("Total Assigned"),
				app.Th().Text("Open"),
				app.Th().Text("Closed"),
				app.Th().Text("Completion Rate"),
			)),
			app.TBody().Body(
				app.Range(r.users).Slice(func(i int) app.UI {
					row := models.NewUserTableRow(r.users[i])
					return app.Tr().Body(
						app.Td().Text(row.User),
						app.Td().Text(strconv.Itoa(row.Assigned)),
						app.Td().Text(strconv.Itoa(row.Open)),
						app.Td().Text(strconv.Itoa(row.Closed)),
						app.Td().Text(fmt.Sprintf("%.1f%%", row.CompletionRate)),
					)
				}),
			),
		),
	)
}
