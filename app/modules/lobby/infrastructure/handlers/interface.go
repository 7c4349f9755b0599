package lobbyhandlers

import (
	"context"

	lobbyevents "github.com/brett-phillips/ELO/app/modules/lobby/domain/events"
	"github.com/brett-phillips/ELO/app/shared/handlerwrapper"
)

// Handlers defines the lobby command handlers.
type Handlers interface {
	HandleJoinRequested(ctx context.Context, payload *lobbyevents.JoinRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleLeaveRequested(ctx context.Context, payload *lobbyevents.LeaveRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleForceJoinRequested(ctx context.Context, payload *lobbyevents.ForceJoinRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleForceRemoveRequested(ctx context.Context, payload *lobbyevents.ForceRemoveRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleClearQueueRequested(ctx context.Context, payload *lobbyevents.ClearQueueRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleQueueRequested(ctx context.Context, payload *lobbyevents.QueueRequestedPayloadV1) ([]handlerwrapper.Result, error)

	HandleStartDraftRequested(ctx context.Context, payload *lobbyevents.StartDraftRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandlePickRequested(ctx context.Context, payload *lobbyevents.PickRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleSubRequested(ctx context.Context, payload *lobbyevents.SubRequestedPayloadV1) ([]handlerwrapper.Result, error)

	HandleCreateLobbyRequested(ctx context.Context, payload *lobbyevents.CreateLobbyRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleUpdateSettingsRequested(ctx context.Context, payload *lobbyevents.UpdateSettingsRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleDeleteLobbyRequested(ctx context.Context, payload *lobbyevents.DeleteLobbyRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
