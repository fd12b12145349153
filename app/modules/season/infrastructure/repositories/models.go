package seasondb

import (
	"time"

	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
	"github.com/uptrace/bun"
)

// Season is a season row. Records are stored as JSONB documents.
type Season struct {
	bun.BaseModel `bun:"table:seasons,alias:s"`

	ID            string                                    `bun:"id,pk,type:uuid"`
	Name          string                                    `bun:"name,notnull"`
	StartDate     time.Time                                 `bun:"start_date,notnull"`
	EndDate       *time.Time                                `bun:"end_date"`
	Events        []seasondomain.EventRef                   `bun:"events,type:jsonb,notnull"`
	PlayerRecords map[string]*seasondomain.PlayerSeasonStat `bun:"player_records,type:jsonb,notnull"`
	PlayerOrder   []string                                  `bun:"player_order,type:jsonb,notnull"`
	HeadToHead    map[string]*seasondomain.HeadToHeadRecord `bun:"head_to_head,type:jsonb,notnull"`
	Rankings      []seasondomain.SeasonRanking              `bun:"rankings,type:jsonb"`
	CreatedAt     time.Time                                 `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time                                 `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ToDomain converts the row into a domain season, filling empty collections.
func (s *Season) ToDomain() *seasondomain.Season {
	out := seasondomain.NewSeason(s.ID, s.Name, s.StartDate)
	out.EndDate = s.EndDate
	if s.Events != nil {
		out.Events = s.Events
	}
	if s.PlayerRecords != nil {
		out.PlayerRecords = s.PlayerRecords
	}
	if s.PlayerOrder != nil {
		out.PlayerOrder = s.PlayerOrder
	}
	if s.HeadToHead != nil {
		out.HeadToHead = s.HeadToHead
	}
	out.Rankings = s.Rankings
	for _, st := range out.PlayerRecords {
		if st.Opponents == nil {
			st.Opponents = map[string]seasondomain.OpponentRecord{}
		}
	}
	return out
}

// SeasonFromDomain builds a row from a domain season.
func SeasonFromDomain(d *seasondomain.Season) *Season {
	return &Season{
		ID:            d.ID,
		Name:          d.Name,
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		Events:        d.Events,
		PlayerRecords: d.PlayerRecords,
		PlayerOrder:   d.PlayerOrder,
		HeadToHead:    d.HeadToHead,
		Rankings:      d.Rankings,
	}
}
