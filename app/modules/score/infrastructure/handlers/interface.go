package scorehandlers

import (
	"context"

	scoreevents "github.com/brett-phillips/ELO/app/modules/score/domain/events"
	"github.com/brett-phillips/ELO/app/shared/handlerwrapper"
)

// Handlers defines the score command handlers.
type Handlers interface {
	HandleReportResultRequested(ctx context.Context, payload *scoreevents.ReportResultRequestedPayloadV1) ([]handlerwrapper.Result, error)

	HandleRegisterPlayerRequested(ctx context.Context, payload *scoreevents.RegisterPlayerRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleUpdateStatsRequested(ctx context.Context, payload *scoreevents.UpdateStatsRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleResetLeaderboardRequested(ctx context.Context, payload *scoreevents.ResetLeaderboardRequestedPayloadV1) ([]handlerwrapper.Result, error)

	HandleUpdateCompetitionRequested(ctx context.Context, payload *scoreevents.UpdateCompetitionRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleAddRankRequested(ctx context.Context, payload *scoreevents.AddRankRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRemoveRankRequested(ctx context.Context, payload *scoreevents.RemoveRankRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
