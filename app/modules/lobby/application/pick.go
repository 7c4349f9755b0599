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

// Pick applies one captain turn to the lobby's current draft. When the
// last slots fill, the game becomes Undecided and the queue is cleared.
func (s *LobbyService) Pick(ctx context.Context, channelID sharedtypes.ChannelID, captain sharedtypes.UserID, userIDs []sharedtypes.UserID) (PickOutcome, error) {
	if channelID == "" {
		return fail[*PickResult](apperrors.Validation(ErrMissingChannel, ""))
	}
	if captain == "" {
		return fail[*PickResult](apperrors.Validation(ErrMissingUser, "captain"))
	}
	if len(userIDs) == 0 {
		return fail[*PickResult](apperrors.Validation(ErrNoUsers, ""))
	}

	var notes []sharedtypes.Notification
	result, err := withTelemetry(s, ctx, "Pick", channelID, func(ctx context.Context) (PickOutcome, error) {
		return inLobby(s, ctx, channelID, func(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) (PickOutcome, error) {
			game, err := s.latestGame(ctx, db, channelID)
			if err != nil {
				return PickOutcome{}, err
			}
			if game == nil {
				return fail[*PickResult](apperrors.NotFound(lobbydomain.ErrNoGame, string(channelID)))
			}
			if !isPicking(game) {
				return fail[*PickResult](apperrors.State(lobbydomain.ErrNotPicking, fmt.Sprintf("game %d is %s", game.GameID, game.State)))
			}

			draft, err := s.loadDraft(ctx, db, lobby, game)
			if err != nil {
				return PickOutcome{}, err
			}
			outcome, err := draft.Pick(captain, userIDs)
			if err != nil {
				return fail[*PickResult](err)
			}

			rows := make([]sharedtypes.TeamPlayer, 0, len(outcome.Assigned)+1)
			for _, a := range outcome.Assigned {
				rows = append(rows, teamRow(lobby, game.GameID, a))
			}
			if outcome.AutoFill != nil {
				rows = append(rows, teamRow(lobby, game.GameID, *outcome.AutoFill))
			}
			if err := s.repo.AddTeamPlayers(ctx, db, rows); err != nil {
				return PickOutcome{}, err
			}

			if outcome.Complete {
				if notes, err = s.completeDraft(ctx, db, lobby, draft); err != nil {
					return PickOutcome{}, err
				}
			} else if err := s.repo.UpdateGame(ctx, db, &draft.Game); err != nil {
				return PickOutcome{}, err
			}

			return results.SuccessResult[*PickResult, error](&PickResult{
				Outcome: *outcome,
				Draft:   *newDraftView(draft),
			}), nil
		})
	})
	if err == nil && result.IsSuccess() {
		s.dispatch(ctx, notes)
	}
	return result, err
}

func teamRow(lobby *sharedtypes.Lobby, gameID sharedtypes.GameID, a lobbydomain.Assignment) sharedtypes.TeamPlayer {
	return sharedtypes.TeamPlayer{
		GuildID:    lobby.GuildID,
		ChannelID:  lobby.ChannelID,
		GameID:     gameID,
		UserID:     a.UserID,
		TeamNumber: a.Team,
	}
}
