// Package charts описывает графики отчета в формате фигур Plotly.
// Фигуры сериализуются в JSON и рисуются в браузере через Plotly.newPlot.
package charts

import (
	"encoding/json"
	"fmt"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"

	"github.com/untibullet/issue-activity-report/internal/models"
)

// Идентификаторы контейнеров графиков на странице
const (
	LineChartsID = "line-charts"
	BarChartID   = "bar-chart"
)

// Цвета серий
const (
	ColorCreated  = "blue"
	ColorClosed   = "green"
	ColorComments = "orange"
	ColorActive   = "purple"

	ColorBarAssigned = "rgb(49, 130, 189)"
	ColorBarClosed   = "rgb(50, 171, 96)"
	ColorBarComments = "rgb(222, 45, 38)"
)

// subplotTitle подпись ячейки сетки. Layout.annotations в grob не типизирован.
type subplotTitle struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	XAnchor   string  `json:"xanchor"`
	YAnchor   string  `json:"yanchor"`
	ShowArrow bool    `json:"showarrow"`
}

// JSON сериализует фигуру для передачи в Plotly
func JSON(fig *grob.Fig) (string, error) {
	data, err := json.Marshal(fig)
	if err != nil {
		return "", fmt.Errorf("failed to encode figure: %w", err)
	}
	return string(data), nil
}

func margin() *grob.LayoutMargin {
	return &grob.LayoutMargin{L: 50, R: 50, T: 100, B: 100}
}

// LineCharts четыре дневных ряда в сетке 2x2 с осями дат
func LineCharts(daily []models.DailyActivityRecord) *grob.Fig {
	dates := make([]string, 0, len(daily))
	created := make([]int, 0, len(daily))
	closed := make([]int, 0, len(daily))
	comments := make([]int, 0, len(daily))
	active := make([]int, 0, len(daily))
	for _, day := range daily {
		dates = append(dates, day.Date.String())
		created = append(created, day.IssuesCreated)
		closed = append(closed, day.IssuesClosed)
		comments = append(comments, day.Comments)
		active = append(active, day.ActiveUsers)
	}

	series := []struct {
		name  string
		title string
		color string
		y     []int
	}{
		{"Issues Created", "Issues Created Per Day", ColorCreated, created},
		{"Issues Closed", "Issues Closed Per Day", ColorClosed, closed},
		{"Comments", "Comments Per Day", ColorComments, comments},
		{"Active People", "Active People Per Day", ColorActive, active},
	}

	// центры ячеек сетки в долях страницы
	cellX := []float64{0.225, 0.775, 0.225, 0.775}
	cellY := []float64{1.0, 1.0, 0.425, 0.425}

	traces := make(grob.Traces, 0, len(series))
	titles := make([]subplotTitle, 0, len(series))
	for i, s := range series {
		suffix := ""
		if i > 0 {
			suffix = fmt.Sprint(i + 1)
		}
		traces = append(traces, &grob.Scatter{
			Type:  grob.TraceTypeScatter,
			Name:  s.name,
			Mode:  grob.ScatterMode("lines+markers"),
			X:     dates,
			Y:     s.y,
			Xaxis: "x" + suffix,
			Yaxis: "y" + suffix,
			Line:  &grob.ScatterLine{Color: s.color},
		})
		titles = append(titles, subplotTitle{
			Text:    s.title,
			X:       cellX[i],
			Y:       cellY[i],
			XRef:    "paper",
			YRef:    "paper",
			XAnchor: "center",
			YAnchor: "bottom",
		})
	}

	return &grob.Fig{
		Data: traces,
		Layout: &grob.Layout{
			Title:      &grob.LayoutTitle{Text: "Daily Activity"},
			Height:     800,
			Autosize:   grob.True,
			Showlegend: grob.True,
			Legend: &grob.LayoutLegend{
				Orientation: grob.LayoutLegendOrientation("h"),
				Y:           -0.1,
			},
			Margin: margin(),
			Grid: &grob.LayoutGrid{
				Rows:    2,
				Columns: 2,
				Pattern: grob.LayoutGridPattern("independent"),
			},
			// остальные оси сетки Plotly создает сам и распознает даты по значениям
			Xaxis:       &grob.LayoutXaxis{Type: grob.LayoutXaxisType("date")},
			Annotations: titles,
		},
		Config: &grob.Config{Responsive: grob.True},
	}
}

// BarChart сгруппированные столбцы assigned/closed/comments по пользователям рейтинга
func BarChart(ranked []models.RankedUser) *grob.Fig {
	users := make([]string, 0, len(ranked))
	assigned := make([]int, 0, len(ranked))
	closed := make([]int, 0, len(ranked))
	comments := make([]int, 0, len(ranked))
	for _, u := range ranked {
		users = append(users, u.User)
		assigned = append(assigned, u.Assigned)
		closed = append(closed, u.Closed)
		comments = append(comments, u.Comments)
	}

	bar := func(name, color string, y []int) *grob.Bar {
		return &grob.Bar{
			Type:   grob.TraceTypeBar,
			Name:   name,
			X:      users,
			Y:      y,
			Marker: &grob.BarMarker{Color: color},
		}
	}

	return &grob.Fig{
		Data: grob.Traces{
			bar("assigned", ColorBarAssigned, assigned),
			bar("closed", ColorBarClosed, closed),
			bar("comments", ColorBarComments, comments),
		},
		Layout: &grob.Layout{
			Title:      &grob.LayoutTitle{Text: "Activity by User"},
			Height:     600,
			Autosize:   grob.True,
			Showlegend: grob.True,
			Margin:     margin(),
			Barmode:    grob.LayoutBarmode("group"),
			Xaxis: &grob.LayoutXaxis{
				Title:     &grob.LayoutXaxisTitle{Text: "User"},
				Tickangle: 45,
			},
			Yaxis: &grob.LayoutYaxis{
				Title: &grob.LayoutYaxisTitle{Text: "Count"},
			},
		},
		Config: &grob.Config{Responsive: grob.True},
	}
}
