package lobbyservice

import (
	"context"
	"errors"

	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

// GetQueue returns the queue and, while picking, the draft. It takes no locks.
func (s *LobbyService) GetQueue(ctx context.Context, channelID sharedtypes.ChannelID) (QueueOutcome, error) {
	if channelID == "" {
		return fail[*QueueView](apperrors.Validation(ErrMissingChannel, ""))
	}

	return withTelemetry(s, ctx, "GetQueue", channelID, func(ctx context.Context) (QueueOutcome, error) {
		lobby, err := s.repo.GetLobby(ctx, nil, channelID)
		if err != nil {
			if errors.Is(err, lobbydb.ErrNotFound) {
				return fail[*QueueView](apperrors.NotFound(lobbydomain.ErrLobbyNotFound, string(channelID)))
			}
			return QueueOutcome{}, err
		}
		queue, err := s.repo.GetQueue(ctx, nil, channelID)
		if err != nil {
			return QueueOutcome{}, err
		}
		view := &QueueView{Lobby: *lobby, Queue: queue}

		game, err := s.latestGame(ctx, nil, channelID)
		if err != nil {
			return QueueOutcome{}, err
		}
		if isPicking(game) {
			draft, err := s.loadDraft(ctx, nil, lobby, game)
			if err != nil {
				return QueueOutcome{}, err
			}
			view.Draft = newDraftView(draft)
		}
		return results.SuccessResult[*QueueView, error](view), nil
	})
}
