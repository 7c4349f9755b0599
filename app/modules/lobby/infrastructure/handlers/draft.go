package lobbyhandlers

import (
	"context"

	lobbyservice "github.com/brett-phillips/ELO/app/modules/lobby/application"
	lobbyevents "github.com/brett-phillips/ELO/app/modules/lobby/domain/events"
	"github.com/brett-phillips/ELO/app/shared/handlerwrapper"
	"github.com/brett-phillips/ELO/app/shared/observability/attr"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

// HandleStartDraftRequested starts a draft from the current queue.
func (h *LobbyHandlers) HandleStartDraftRequested(ctx context.Context, payload *lobbyevents.StartDraftRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LobbyHandlers.HandleStartDraftRequested")
	defer span.End()

	res, err := h.service.StartDraft(ctx, payload.ChannelID)
	return outcome(res, err, lobbyevents.StartDraftFailedV1, payload.ChannelID, payload.RequestedBy, func(v *lobbyservice.DraftView) []handlerwrapper.Result {
		out := []handlerwrapper.Result{succeeded(lobbyevents.StartDraftSucceededV1, payload.ChannelID, toDraftPayload(v))}
		return draftResults(out, v)
	})
}

// HandlePickRequested applies one captain turn.
func (h *LobbyHandlers) HandlePickRequested(ctx context.Context, payload *lobbyevents.PickRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LobbyHandlers.HandlePickRequested")
	defer span.End()

	h.logger.InfoContext(ctx, "Pick requested",
		attr.ChannelID(payload.ChannelID),
		attr.UserID(payload.CaptainID),
		attr.Int("picks", len(payload.UserIDs)),
	)

	res, err := h.service.Pick(ctx, payload.ChannelID, payload.CaptainID, payload.UserIDs)
	return outcome(res, err, lobbyevents.PickFailedV1, payload.ChannelID, payload.CaptainID, func(p *lobbyservice.PickResult) []handlerwrapper.Result {
		picked := make([]sharedtypes.UserID, 0, len(p.Outcome.Assigned))
		for _, a := range p.Outcome.Assigned {
			picked = append(picked, a.UserID)
		}
		body := &lobbyevents.PickSucceededPayloadV1{
			CaptainID: payload.CaptainID,
			Picked:    picked,
			Team:      p.Outcome.Team,
			Draft:     *toDraftPayload(&p.Draft),
		}
		if p.Outcome.AutoFill != nil {
			body.AutoFill = &p.Outcome.AutoFill.UserID
		}
		out := []handlerwrapper.Result{succeeded(lobbyevents.PickSucceededV1, payload.ChannelID, body)}
		return draftResults(out, &p.Draft)
	})
}

// HandleSubRequested swaps a player in the latest game for a replacement.
func (h *LobbyHandlers) HandleSubRequested(ctx context.Context, payload *lobbyevents.SubRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LobbyHandlers.HandleSubRequested")
	defer span.End()

	res, err := h.service.Sub(ctx, payload.ChannelID, payload.UserID, payload.ReplacementID)
	return outcome(res, err, lobbyevents.SubFailedV1, payload.ChannelID, payload.UserID, func(s *lobbyservice.SubResult) []handlerwrapper.Result {
		return []handlerwrapper.Result{succeeded(lobbyevents.SubSucceededV1, s.ChannelID, &lobbyevents.SubSucceededPayloadV1{
			ChannelID:     s.ChannelID,
			GameID:        s.GameID,
			UserID:        s.Replaced,
			ReplacementID: s.Replacement,
			Team:          s.Team,
			Captain:       s.Captain,
		})}
	})
}
