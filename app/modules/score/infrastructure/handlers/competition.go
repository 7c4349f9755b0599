package scorehandlers

import (
	"context"

	scoreservice "github.com/brett-phillips/ELO/app/modules/score/application"
	scoreevents "github.com/brett-phillips/ELO/app/modules/score/domain/events"
	"github.com/brett-phillips/ELO/app/shared/handlerwrapper"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

func (h *ScoreHandlers) HandleUpdateCompetitionRequested(ctx context.Context, payload *scoreevents.UpdateCompetitionRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleUpdateCompetitionRequested")
	defer span.End()

	sc := scope{guildID: payload.GuildID}
	res, err := h.service.UpdateCompetition(ctx, payload.GuildID, scoreservice.CompetitionUpdate{
		DefaultRegisterScore: payload.DefaultRegisterScore,
		DefaultWinModifier:   payload.DefaultWinModifier,
		DefaultLossModifier:  payload.DefaultLossModifier,
		AllowNegativeScore:   payload.AllowNegativeScore,
		AllowMultiQueueing:   payload.AllowMultiQueueing,
		RequeueDelay:         secondsToDuration(payload.RequeueDelaySeconds),
		QueueTimeout:         secondsToDuration(payload.QueueTimeoutSeconds),
	})
	return outcome(res, err, scoreevents.UpdateCompetitionFailedV1, sc, func(c *sharedtypes.Competition) []handlerwrapper.Result {
		return []handlerwrapper.Result{succeeded(scoreevents.CompetitionUpdatedV1, sc, toCompetitionPayload(c))}
	})
}

func (h *ScoreHandlers) HandleAddRankRequested(ctx context.Context, payload *scoreevents.AddRankRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleAddRankRequested")
	defer span.End()

	sc := scope{guildID: payload.GuildID}
	res, err := h.service.AddRank(ctx, sharedtypes.Rank{
		GuildID:         payload.GuildID,
		RoleID:          payload.RoleID,
		PointsThreshold: payload.PointsThreshold,
		WinModifier:     payload.WinModifier,
		LossModifier:    payload.LossModifier,
	})
	return outcome(res, err, scoreevents.AddRankFailedV1, sc, rankSucceeded(scoreevents.RankAddedV1, sc))
}

func (h *ScoreHandlers) HandleRemoveRankRequested(ctx context.Context, payload *scoreevents.RemoveRankRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleRemoveRankRequested")
	defer span.End()

	sc := scope{guildID: payload.GuildID}
	res, err := h.service.RemoveRank(ctx, payload.GuildID, payload.RoleID)
	return outcome(res, err, scoreevents.RemoveRankFailedV1, sc, rankSucceeded(scoreevents.RankRemovedV1, sc))
}

func rankSucceeded(topic string, sc scope) func(*sharedtypes.Rank) []handlerwrapper.Result {
	return func(r *sharedtypes.Rank) []handlerwrapper.Result {
		return []handlerwrapper.Result{succeeded(topic, sc, toRankPayload(r))}
	}
}
