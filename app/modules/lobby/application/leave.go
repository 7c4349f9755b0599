package lobbyservice

import (
	"context"
	"fmt"

	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// Leave removes a user from the lobby queue. Leaving is refused while the
// lobby is picking teams.
func (s *LobbyService) Leave(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.UserID) (LeaveOutcome, error) {
	return s.removeQueued(ctx, "Leave", channelID, userID, false)
}

// ForceRemove is the privileged form of Leave. It is refused while picking
// before the queue is consulted, so removing a captain mid-draft reports
// the draft rather than a missing queue entry.
func (s *LobbyService) ForceRemove(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.UserID) (LeaveOutcome, error) {
	return s.removeQueued(ctx, "ForceRemove", channelID, userID, true)
}

func (s *LobbyService) removeQueued(
	ctx context.Context,
	operation string,
	channelID sharedtypes.ChannelID,
	userID sharedtypes.UserID,
	draftFirst bool,
) (LeaveOutcome, error) {
	if channelID == "" {
		return fail[*LeaveResult](apperrors.Validation(ErrMissingChannel, ""))
	}
	if userID == "" {
		return fail[*LeaveResult](apperrors.Validation(ErrMissingUser, ""))
	}

	return withTelemetry(s, ctx, operation, channelID, func(ctx context.Context) (LeaveOutcome, error) {
		return inLobby(s, ctx, channelID, func(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) (LeaveOutcome, error) {
			latest, err := s.latestGame(ctx, db, channelID)
			if err != nil {
				return LeaveOutcome{}, err
			}
			picking := isPicking(latest)
			if picking && draftFirst {
				return fail[*LeaveResult](draftInProgress(latest))
			}
			queue, err := s.repo.GetQueue(ctx, db, channelID)
			if err != nil {
				return LeaveOutcome{}, err
			}
			if queuedIndex(queue, userID) < 0 {
				return fail[*LeaveResult](apperrors.NotFound(lobbydomain.ErrNotQueued, string(userID)))
			}
			if picking {
				return fail[*LeaveResult](draftInProgress(latest))
			}

			if _, err := s.repo.RemoveQueuedPlayers(ctx, db, channelID, []sharedtypes.UserID{userID}); err != nil {
				return LeaveOutcome{}, err
			}
			s.metrics.RecordQueueLength(ctx, string(channelID), len(queue)-1)
			return results.SuccessResult[*LeaveResult, error](&LeaveResult{
				ChannelID: channelID,
				UserID:    userID,
				Queued:    len(queue) - 1,
			}), nil
		})
	})
}

func draftInProgress(game *sharedtypes.Game) error {
	return apperrors.State(lobbydomain.ErrDraftInProgress, fmt.Sprintf("game %d", game.GameID))
}
