package scorehandlers

import (
	"context"

	scoreservice "github.com/brett-phillips/ELO/app/modules/score/application"
	scoreevents "github.com/brett-phillips/ELO/app/modules/score/domain/events"
	"github.com/brett-phillips/ELO/app/shared/handlerwrapper"
	"github.com/brett-phillips/ELO/app/shared/observability/attr"
)

func (h *ScoreHandlers) HandleReportResultRequested(ctx context.Context, payload *scoreevents.ReportResultRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleReportResultRequested")
	defer span.End()

	sc := scope{channelID: payload.ChannelID}
	res, err := h.service.ReportResult(ctx, payload.ChannelID, payload.GameID, payload.WinningTeam)
	return outcome(res, err, scoreevents.ReportResultFailedV1, sc, func(r *scoreservice.ReportResult) []handlerwrapper.Result {
		if len(r.Unregistered) > 0 {
			h.logger.WarnContext(ctx, "Unregistered players skipped in result",
				attr.ChannelID(r.ChannelID),
				attr.GameID(r.GameID),
				attr.Int("count", len(r.Unregistered)),
			)
		}
		changes := make([]scoreevents.PlayerChangeV1, len(r.Changes))
		for i, c := range r.Changes {
			changes[i] = scoreevents.PlayerChangeV1{
				UserID:  c.UserID,
				Team:    c.Team,
				Outcome: string(c.Outcome),
				Before:  c.Before,
				After:   c.After,
				Delta:   c.Delta,
			}
		}
		return []handlerwrapper.Result{succeeded(scoreevents.ResultReportedV1, sc, &scoreevents.ResultReportedPayloadV1{
			ChannelID:    r.ChannelID,
			GameID:       r.GameID,
			State:        r.State,
			WinningTeam:  r.WinningTeam,
			Changes:      changes,
			Unregistered: r.Unregistered,
		})}
	})
}
