package lobbyhandlers

import (
	"context"

	lobbyservice "github.com/brett-phillips/ELO/app/modules/lobby/application"
	lobbyevents "github.com/brett-phillips/ELO/app/modules/lobby/domain/events"
	"github.com/brett-phillips/ELO/app/shared/handlerwrapper"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

func (h *LobbyHandlers) HandleCreateLobbyRequested(ctx context.Context, payload *lobbyevents.CreateLobbyRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LobbyHandlers.HandleCreateLobbyRequested")
	defer span.End()

	res, err := h.service.CreateLobby(ctx, &sharedtypes.Lobby{
		GuildID:        payload.GuildID,
		ChannelID:      payload.ChannelID,
		Description:    payload.Description,
		PlayersPerTeam: payload.PlayersPerTeam,
		PickMode:       payload.PickMode,
		PickOrder:      payload.PickOrder,
	})
	return outcome(res, err, lobbyevents.CreateLobbyFailedV1, payload.ChannelID, "", lobbySucceeded(lobbyevents.CreateLobbySucceededV1))
}

func (h *LobbyHandlers) HandleUpdateSettingsRequested(ctx context.Context, payload *lobbyevents.UpdateSettingsRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LobbyHandlers.HandleUpdateSettingsRequested")
	defer span.End()

	res, err := h.service.UpdateLobbySettings(ctx, payload.ChannelID, lobbyservice.LobbySettingsUpdate(payload.Settings))
	return outcome(res, err, lobbyevents.UpdateSettingsFailedV1, payload.ChannelID, "", lobbySucceeded(lobbyevents.UpdateSettingsSucceededV1))
}

func (h *LobbyHandlers) HandleDeleteLobbyRequested(ctx context.Context, payload *lobbyevents.DeleteLobbyRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LobbyHandlers.HandleDeleteLobbyRequested")
	defer span.End()

	res, err := h.service.DeleteLobby(ctx, payload.ChannelID)
	return outcome(res, err, lobbyevents.DeleteLobbyFailedV1, payload.ChannelID, "", lobbySucceeded(lobbyevents.DeleteLobbySucceededV1))
}

func lobbySucceeded(topic string) func(*sharedtypes.Lobby) []handlerwrapper.Result {
	return func(l *sharedtypes.Lobby) []handlerwrapper.Result {
		return []handlerwrapper.Result{succeeded(topic, l.ChannelID, toLobbyPayload(l))}
	}
}
