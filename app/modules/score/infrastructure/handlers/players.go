package scorehandlers

import (
	"context"

	scoreservice "github.com/brett-phillips/ELO/app/modules/score/application"
	scoredomain "github.com/brett-phillips/ELO/app/modules/score/domain"
	scoreevents "github.com/brett-phillips/ELO/app/modules/score/domain/events"
	"github.com/brett-phillips/ELO/app/shared/handlerwrapper"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

func (h *ScoreHandlers) HandleRegisterPlayerRequested(ctx context.Context, payload *scoreevents.RegisterPlayerRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleRegisterPlayerRequested")
	defer span.End()

	sc := scope{guildID: payload.GuildID}
	res, err := h.service.RegisterPlayer(ctx, payload.GuildID, payload.UserID, payload.DisplayName)
	return outcome(res, err, scoreevents.RegisterPlayerFailedV1, sc, func(p *sharedtypes.Player) []handlerwrapper.Result {
		return []handlerwrapper.Result{succeeded(scoreevents.PlayerRegisteredV1, sc, toPlayerPayload(p))}
	})
}

// HandleUpdateStatsRequested passes stat and mode through unparsed; the
// service rejects unknown values as validation failures.
func (h *ScoreHandlers) HandleUpdateStatsRequested(ctx context.Context, payload *scoreevents.UpdateStatsRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleUpdateStatsRequested")
	defer span.End()

	sc := scope{guildID: payload.GuildID}
	res, err := h.service.UpdateStats(ctx, payload.GuildID, payload.UserIDs,
		scoredomain.Stat(payload.Stat), scoredomain.ModifyMode(payload.Mode), payload.Amount)
	return outcome(res, err, scoreevents.UpdateStatsFailedV1, sc, func(r *scoreservice.StatsResult) []handlerwrapper.Result {
		changes := make([]scoreevents.StatChangeV1, len(r.Changes))
		for i, c := range r.Changes {
			changes[i] = scoreevents.StatChangeV1{UserID: c.UserID, Before: c.Before, After: c.After}
		}
		return []handlerwrapper.Result{succeeded(scoreevents.StatsUpdatedV1, sc, &scoreevents.StatsUpdatedPayloadV1{
			GuildID:      r.GuildID,
			Stat:         string(r.Stat),
			Changes:      changes,
			Unregistered: r.Unregistered,
		})}
	})
}

func (h *ScoreHandlers) HandleResetLeaderboardRequested(ctx context.Context, payload *scoreevents.ResetLeaderboardRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleResetLeaderboardRequested")
	defer span.End()

	sc := scope{guildID: payload.GuildID}
	res, err := h.service.ResetLeaderboard(ctx, payload.GuildID)
	return outcome(res, err, scoreevents.ResetLeaderboardFailedV1, sc, func(r *scoreservice.ResetResult) []handlerwrapper.Result {
		return []handlerwrapper.Result{succeeded(scoreevents.LeaderboardResetV1, sc, &scoreevents.LeaderboardResetPayloadV1{
			GuildID: r.GuildID,
			Players: r.Players,
			Points:  r.Points,
		})}
	})
}
