package lobbyservice

import (
	"context"
	"errors"
	"fmt"

	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// Skip reasons reported by ForceJoin.
const (
	SkipAlreadyQueued = "already queued"
	SkipQueueFull     = "queue full"
	SkipNotRegistered = "not registered"
)

// ForceJoin queues users on an admin's behalf. Bans, minimum points,
// multi-queue rules and cooldowns do not apply; capacity and an in-progress
// draft still do. Users that cannot be added are reported in Skipped. If
// the queue fills, the draft starts.
func (s *LobbyService) ForceJoin(ctx context.Context, channelID sharedtypes.ChannelID, userIDs []sharedtypes.UserID) (ForceJoinOutcome, error) {
	if channelID == "" {
		return fail[*ForceJoinResult](apperrors.Validation(ErrMissingChannel, ""))
	}
	if len(userIDs) == 0 {
		return fail[*ForceJoinResult](apperrors.Validation(ErrNoUsers, ""))
	}

	var notes []sharedtypes.Notification
	result, err := withTelemetry(s, ctx, "ForceJoin", channelID, func(ctx context.Context) (ForceJoinOutcome, error) {
		return inLobby(s, ctx, channelID, func(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) (ForceJoinOutcome, error) {
			latest, err := s.latestGame(ctx, db, channelID)
			if err != nil {
				return ForceJoinOutcome{}, err
			}
			if isPicking(latest) {
				return fail[*ForceJoinResult](apperrors.State(lobbydomain.ErrDraftInProgress, fmt.Sprintf("game %d", latest.GameID)))
			}
			queue, err := s.repo.GetQueue(ctx, db, channelID)
			if err != nil {
				return ForceJoinOutcome{}, err
			}
			if len(queue) >= lobby.Capacity() {
				return fail[*ForceJoinResult](apperrors.Capacity(lobbydomain.ErrQueueFull, lobby.Capacity()))
			}

			res := &ForceJoinResult{ChannelID: channelID, Skipped: map[sharedtypes.UserID]string{}}
			now := s.now()
			for _, userID := range userIDs {
				switch {
				case queuedIndex(queue, userID) >= 0:
					res.Skipped[userID] = SkipAlreadyQueued
					continue
				case len(queue) >= lobby.Capacity():
					res.Skipped[userID] = SkipQueueFull
					continue
				}
				if _, err := s.repo.GetPlayer(ctx, db, lobby.GuildID, userID); err != nil {
					if errors.Is(err, lobbydb.ErrNotFound) {
						res.Skipped[userID] = SkipNotRegistered
						continue
					}
					return ForceJoinOutcome{}, err
				}

				entry := sharedtypes.QueuedPlayer{GuildID: lobby.GuildID, ChannelID: channelID, UserID: userID, QueuedAt: now}
				if err := s.repo.AddQueuedPlayer(ctx, db, &entry); err != nil {
					return ForceJoinOutcome{}, err
				}
				queue = append(queue, entry)
				res.Added = append(res.Added, userID)
			}
			res.Queued = len(queue)
			s.metrics.RecordQueueLength(ctx, string(channelID), len(queue))

			if len(res.Added) > 0 && len(queue) >= lobby.Capacity() {
				view, n, err := s.startDraft(ctx, db, lobby, queue)
				if err != nil {
					return ForceJoinOutcome{}, err
				}
				res.Draft = view
				notes = n
			}
			return results.SuccessResult[*ForceJoinResult, error](res), nil
		})
	})
	if err == nil && result.IsSuccess() {
		s.dispatch(ctx, notes)
	}
	return result, err
}
