package lobbyhandlers

import (
	"context"

	lobbyservice "github.com/brett-phillips/ELO/app/modules/lobby/application"
	lobbyevents "github.com/brett-phillips/ELO/app/modules/lobby/domain/events"
	"github.com/brett-phillips/ELO/app/shared/handlerwrapper"
	"github.com/brett-phillips/ELO/app/shared/observability/attr"
)

// HandleJoinRequested queues a user, starting the draft when the queue fills.
func (h *LobbyHandlers) HandleJoinRequested(ctx context.Context, payload *lobbyevents.JoinRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LobbyHandlers.HandleJoinRequested")
	defer span.End()

	if !h.limiter.Allow(payload.UserID) {
		h.logger.InfoContext(ctx, "Join rate limited",
			attr.ChannelID(payload.ChannelID),
			attr.UserID(payload.UserID),
		)
		return []handlerwrapper.Result{rateLimited(lobbyevents.JoinFailedV1, payload.ChannelID, payload.UserID)}, nil
	}

	res, err := h.service.Join(ctx, payload.ChannelID, payload.UserID)
	return outcome(res, err, lobbyevents.JoinFailedV1, payload.ChannelID, payload.UserID, func(j *lobbyservice.JoinResult) []handlerwrapper.Result {
		out := []handlerwrapper.Result{succeeded(lobbyevents.JoinSucceededV1, j.ChannelID, &lobbyevents.JoinSucceededPayloadV1{
			ChannelID:     j.ChannelID,
			UserID:        j.UserID,
			Queued:        j.Queued,
			Capacity:      j.Capacity,
			AlreadyQueued: j.AlreadyQueued,
			Draft:         toDraftPayload(j.Draft),
		})}
		return draftResults(out, j.Draft)
	})
}

// HandleLeaveRequested removes a user from the queue.
func (h *LobbyHandlers) HandleLeaveRequested(ctx context.Context, payload *lobbyevents.LeaveRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LobbyHandlers.HandleLeaveRequested")
	defer span.End()

	if !h.limiter.Allow(payload.UserID) {
		h.logger.InfoContext(ctx, "Leave rate limited",
			attr.ChannelID(payload.ChannelID),
			attr.UserID(payload.UserID),
		)
		return []handlerwrapper.Result{rateLimited(lobbyevents.LeaveFailedV1, payload.ChannelID, payload.UserID)}, nil
	}

	res, err := h.service.Leave(ctx, payload.ChannelID, payload.UserID)
	return outcome(res, err, lobbyevents.LeaveFailedV1, payload.ChannelID, payload.UserID, leaveSucceeded(lobbyevents.LeaveSucceededV1))
}

// HandleForceJoinRequested queues users on an admin's behalf.
func (h *LobbyHandlers) HandleForceJoinRequested(ctx context.Context, payload *lobbyevents.ForceJoinRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LobbyHandlers.HandleForceJoinRequested")
	defer span.End()

	h.logger.InfoContext(ctx, "Force join requested",
		attr.ChannelID(payload.ChannelID),
		attr.String("requested_by", string(payload.RequestedBy)),
		attr.Int("users", len(payload.UserIDs)),
	)

	res, err := h.service.ForceJoin(ctx, payload.ChannelID, payload.UserIDs)
	return outcome(res, err, lobbyevents.ForceJoinFailedV1, payload.ChannelID, payload.RequestedBy, func(f *lobbyservice.ForceJoinResult) []handlerwrapper.Result {
		out := []handlerwrapper.Result{succeeded(lobbyevents.ForceJoinSucceededV1, f.ChannelID, &lobbyevents.ForceJoinSucceededPayloadV1{
			ChannelID: f.ChannelID,
			Added:     f.Added,
			Skipped:   f.Skipped,
			Queued:    f.Queued,
			Draft:     toDraftPayload(f.Draft),
		})}
		return draftResults(out, f.Draft)
	})
}

// HandleForceRemoveRequested removes a user from the queue on an admin's behalf.
func (h *LobbyHandlers) HandleForceRemoveRequested(ctx context.Context, payload *lobbyevents.ForceRemoveRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LobbyHandlers.HandleForceRemoveRequested")
	defer span.End()

	h.logger.InfoContext(ctx, "Force remove requested",
		attr.ChannelID(payload.ChannelID),
		attr.String("requested_by", string(payload.RequestedBy)),
		attr.UserID(payload.UserID),
	)

	res, err := h.service.ForceRemove(ctx, payload.ChannelID, payload.UserID)
	return outcome(res, err, lobbyevents.ForceRemoveFailedV1, payload.ChannelID, payload.UserID, leaveSucceeded(lobbyevents.ForceRemoveSucceededV1))
}

// HandleClearQueueRequested empties the queue and cancels a draft in progress.
func (h *LobbyHandlers) HandleClearQueueRequested(ctx context.Context, payload *lobbyevents.ClearQueueRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LobbyHandlers.HandleClearQueueRequested")
	defer span.End()

	res, err := h.service.ClearQueue(ctx, payload.ChannelID)
	return outcome(res, err, lobbyevents.ClearQueueFailedV1, payload.ChannelID, payload.RequestedBy, func(c *lobbyservice.ClearQueueResult) []handlerwrapper.Result {
		return []handlerwrapper.Result{succeeded(lobbyevents.ClearQueueSucceededV1, c.ChannelID, &lobbyevents.ClearQueueSucceededPayloadV1{
			ChannelID:    c.ChannelID,
			Removed:      c.Removed,
			CanceledGame: c.CanceledGame,
		})}
	})
}

// HandleQueueRequested returns the queue. Entries are withheld when the lobby hides its queue.
func (h *LobbyHandlers) HandleQueueRequested(ctx context.Context, payload *lobbyevents.QueueRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LobbyHandlers.HandleQueueRequested")
	defer span.End()

	res, err := h.service.GetQueue(ctx, payload.ChannelID)
	return outcome(res, err, lobbyevents.QueueFailedV1, payload.ChannelID, payload.UserID, func(v *lobbyservice.QueueView) []handlerwrapper.Result {
		out := &lobbyevents.QueueRetrievedPayloadV1{
			ChannelID:   v.Lobby.ChannelID,
			Description: v.Lobby.Description,
			Queued:      len(v.Queue),
			Capacity:    v.Lobby.Capacity(),
			Hidden:      v.Lobby.HideQueue,
			Draft:       toDraftPayload(v.Draft),
		}
		if !v.Lobby.HideQueue {
			for _, q := range v.Queue {
				out.Entries = append(out.Entries, lobbyevents.QueueEntryV1{UserID: q.UserID, QueuedAt: q.QueuedAt.Unix()})
			}
		}
		return []handlerwrapper.Result{succeeded(lobbyevents.QueueRetrievedV1, v.Lobby.ChannelID, out)}
	})
}

func leaveSucceeded(topic string) func(*lobbyservice.LeaveResult) []handlerwrapper.Result {
	return func(l *lobbyservice.LeaveResult) []handlerwrapper.Result {
		return []handlerwrapper.Result{succeeded(topic, l.ChannelID, &lobbyevents.LeaveSucceededPayloadV1{
			ChannelID: l.ChannelID,
			UserID:    l.UserID,
			Queued:    l.Queued,
		})}
	}
}
