package matchqueue

import (
	"github.com/riverqueue/river"

	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
)

// QueueImports is the river queue tournament imports run on.
const QueueImports = "imports"

// TournamentImportArgs is a queued tournament import. Identical pending
// imports are collapsed into one job.
type TournamentImportArgs struct {
	TournamentName string                     `json:"tournament_name" river:"unique"`
	Importance     string                     `json:"importance,omitempty" river:"unique"`
	Matches        []seasondomain.MatchResult `json:"matches" river:"unique"`
	CorrelationID  string                     `json:"correlation_id,omitempty"`
}

// Kind returns the job type identifier for River
func (TournamentImportArgs) Kind() string { return "tournament_import" }

// InsertOpts routes imports to their own queue.
func (TournamentImportArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueImports,
		MaxAttempts: 5,
		UniqueOpts:  river.UniqueOpts{ByArgs: true},
	}
}

// JobInfo describes an inserted import job.
type JobInfo struct {
	ID            int64  `json:"id"`
	Kind          string `json:"kind"`
	Queue         string `json:"queue"`
	AlreadyQueued bool   `json:"already_queued"`
}
