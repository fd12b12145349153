package seasonservice

import (
	"context"
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

const (
	rankingsSheet = "Rankings"
	eventsSheet   = "Events"
)

// ExportSeasonRankings returns the season standings as an .xlsx workbook with
// a rankings sheet and an events sheet.
func (s *SeasonService) ExportSeasonRankings(ctx context.Context, seasonID string) ([]byte, error) {
	season, err := s.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	standings, err := s.standings(ctx, season)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rankingsSheet); err != nil {
		return nil, fmt.Errorf("failed to name rankings sheet: %w", err)
	}
	header := []any{"Rank", "Player", "Wins", "Losses", "Matches", "Win %", "Strength of Schedule", "Rating"}
	if err := f.SetSheetRow(rankingsSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, r := range standings.Rankings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		var rating any = ""
		if r.Rating != nil {
			rating = *r.Rating
		}
		row := []any{r.Rank, r.Tag, r.Wins, r.Losses, r.MatchesPlayed, round2(r.WinPercentage), round2(r.StrengthOfSchedule), rating}
		if err := f.SetSheetRow(rankingsSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(eventsSheet); err != nil {
		return nil, fmt.Errorf("failed to add events sheet: %w", err)
	}
	eventHeader := []any{"Tournament", "Importance", "Added"}
	if err := f.SetSheetRow(eventsSheet, "A1", &eventHeader); err != nil {
		return nil, err
	}
	for i, e := range season.Events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{e.Name, string(e.Importance), e.AddedAt.Format("2006-01-02")}
		if err := f.SetSheetRow(eventsSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
