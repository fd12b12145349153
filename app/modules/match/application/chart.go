package matchservice

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	matchdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain"
	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const historyChartMatches = 50

var (
	chartBackground = drawing.ColorFromHex("2b2d31")
	chartLine       = drawing.ColorFromHex("3ba55d")
	chartDot        = drawing.ColorFromHex("c9a227")
	chartText       = drawing.ColorFromHex("f2f3f5")
)

// RenderRatingHistoryChart draws a player's rating after each of their recent
// matches in the active system as a PNG line chart.
func (s *MatchService) RenderRatingHistoryChart(ctx context.Context, tag string) ([]byte, error) {
	records, err := s.RecentMatches(ctx, tag, historyChartMatches)
	if err != nil {
		return nil, err
	}
	return RenderRatingHistory(tag, s.ratings.ActiveSystem().ID(), records)
}

// RenderRatingHistory plots the records of system for tag, oldest first.
func RenderRatingHistory(tag string, system ratingdomain.SystemID, records []matchdomain.MatchRecord) ([]byte, error) {
	var xs []time.Time
	var ys []float64
	for _, r := range slices.Backward(records) {
		if r.System != system {
			continue
		}
		rating, _, ok := r.RatingFor(tag)
		if !ok {
			continue
		}
		xs = append(xs, r.PlayedAt)
		ys = append(ys, rating)
	}
	if len(xs) < 2 {
		return renderNoDataPlaceholder(fmt.Sprintf("Not enough %s history for %s", system, tag))
	}

	graph := chart.Chart{
		Title:      fmt.Sprintf("%s (%s)", tag, system),
		TitleStyle: chart.Style{FontColor: chartText},
		Width:      800,
		Height:     400,
		Background: chart.Style{
			FillColor: chartBackground,
			Padding:   chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: chartBackground},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Style:          chart.Style{FontColor: chartText},
		},
		YAxis: chart.YAxis{
			Name:  "Rating",
			Style: chart.Style{FontColor: chartText},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Rating",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chartLine,
					StrokeWidth: 2,
					DotWidth:    4,
					DotColor:    chartDot,
				},
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render rating history: %w", err)
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(msg string) ([]byte, error) {
	graph := chart.Chart{
		Width:      400,
		Height:     200,
		Background: chart.Style{FillColor: chartBackground},
		Canvas:     chart.Style{FillColor: chartBackground},
		XAxis:      chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis:      chart.YAxis{Style: chart.Style{Hidden: true}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(chartText)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				r.Text(msg, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
