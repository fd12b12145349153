package seasonhandlers

import (
	"context"

	seasonevents "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain/events"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/handlerwrapper"
)

// Handlers defines the season module's event handlers.
type Handlers interface {
	HandleStartRequested(ctx context.Context, payload *seasonevents.StartRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleEndRequested(ctx context.Context, payload *seasonevents.EndRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRankingsRequested(ctx context.Context, payload *seasonevents.RankingsRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleTournamentAddRequested(ctx context.Context, payload *seasonevents.TournamentRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleTournamentRemoveRequested(ctx context.Context, payload *seasonevents.TournamentRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
