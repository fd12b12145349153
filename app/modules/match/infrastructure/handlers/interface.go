package matchhandlers

import (
	"context"

	matchevents "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain/events"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/handlerwrapper"
)

// Handlers defines the match module's event handlers.
type Handlers interface {
	HandleReportRequested(ctx context.Context, payload *matchevents.ReportRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleImportRequested(ctx context.Context, payload *matchevents.ImportRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleHistoryRequested(ctx context.Context, payload *matchevents.HistoryRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
