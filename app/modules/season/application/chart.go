package seasonservice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const chartMaxBars = 12

// ChartPalette holds the colors used for rendered charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	Text       drawing.Color
}

// DefaultChartPalette matches the dark Discord embed background.
var DefaultChartPalette = ChartPalette{
	Background: drawing.ColorFromHex("2b2d31"),
	Bar:        drawing.ColorFromHex("c9a227"),
	Text:       drawing.ColorFromHex("f2f3f5"),
}

// RenderSeasonChart draws the season's top players by win percentage as a PNG.
func (s *SeasonService) RenderSeasonChart(ctx context.Context, seasonID string) ([]byte, error) {
	standings, err := s.SeasonRankings(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	return RenderStandingsChart(standings, DefaultChartPalette)
}

// RenderStandingsChart renders a bar chart of win percentage for the top rows.
func RenderStandingsChart(standings Standings, palette ChartPalette) ([]byte, error) {
	rows := standings.Rankings
	if len(rows) == 0 {
		return renderNoDataPlaceholder(palette, "No matches recorded this season")
	}
	if len(rows) > chartMaxBars {
		rows = rows[:chartMaxBars]
	}

	bars := make([]chart.Value, len(rows))
	for i, r := range rows {
		bars[i] = chart.Value{
			Label: r.Tag,
			Value: r.WinPercentage,
			Style: chart.Style{
				FillColor:   palette.Bar,
				StrokeColor: palette.Bar,
			},
		}
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("%s: win %%", standings.Season.Name),
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      max(600, len(rows)*70+150),
		Height:     400,
		BarWidth:   40,
		BarSpacing: 30,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{FillColor: palette.Background},
		XAxis:  chart.Style{FontColor: palette.Text, StrokeColor: palette.Text},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: palette.Text, StrokeColor: palette.Text},
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render season chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette, msg string) ([]byte, error) {
	// go-chart refuses to render without a visible series, so draw a
	// transparent one under the message.
	graph := chart.Chart{
		Width:  400,
		Height: 200,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis: chart.YAxis{Style: chart.Style{Hidden: true}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
