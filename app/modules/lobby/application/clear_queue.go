package lobbyservice

import (
	"context"
	"fmt"

	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// ClearQueue empties the lobby queue. A draft in progress is canceled.
func (s *LobbyService) ClearQueue(ctx context.Context, channelID sharedtypes.ChannelID) (ClearOutcome, error) {
	if channelID == "" {
		return fail[*ClearQueueResult](apperrors.Validation(ErrMissingChannel, ""))
	}

	return withTelemetry(s, ctx, "ClearQueue", channelID, func(ctx context.Context) (ClearOutcome, error) {
		return inLobby(s, ctx, channelID, func(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) (ClearOutcome, error) {
			removed, err := s.repo.ClearQueue(ctx, db, channelID)
			if err != nil {
				return ClearOutcome{}, err
			}
			res := &ClearQueueResult{ChannelID: channelID, Removed: removed}

			latest, err := s.latestGame(ctx, db, channelID)
			if err != nil {
				return ClearOutcome{}, err
			}
			if isPicking(latest) {
				if err := latest.Transition(sharedtypes.GameStateCanceled); err != nil {
					return ClearOutcome{}, err
				}
				if err := s.repo.UpdateGame(ctx, db, latest); err != nil {
					return ClearOutcome{}, fmt.Errorf("cancel game: %w", err)
				}
				id := latest.GameID
				res.CanceledGame = &id
			}
			s.metrics.RecordQueueLength(ctx, string(channelID), 0)
			return results.SuccessResult[*ClearQueueResult, error](res), nil
		})
	})
}
