package lobbyservice

import (
	"context"
	"errors"
	"fmt"
	"slices"

	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// Sub swaps userID for replacement in the lobby's latest game while it is
// Picking or Undecided. Team rows and captaincy move to the replacement;
// while picking, so does the queue row of a pool member or picked player.
func (s *LobbyService) Sub(ctx context.Context, channelID sharedtypes.ChannelID, userID, replacement sharedtypes.UserID) (SubOutcome, error) {
	if channelID == "" {
		return fail[*SubResult](apperrors.Validation(ErrMissingChannel, ""))
	}
	if userID == "" || replacement == "" {
		return fail[*SubResult](apperrors.Validation(ErrMissingUser, ""))
	}

	return withTelemetry(s, ctx, "Sub", channelID, func(ctx context.Context) (SubOutcome, error) {
		return inLobby(s, ctx, channelID, func(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) (SubOutcome, error) {
			if _, err := s.repo.GetPlayer(ctx, db, lobby.GuildID, replacement); err != nil {
				if errors.Is(err, lobbydb.ErrNotFound) {
					return fail[*SubResult](apperrors.NotFound(lobbydomain.ErrNotRegistered, string(replacement)))
				}
				return SubOutcome{}, err
			}

			game, err := s.latestGame(ctx, db, channelID)
			if err != nil {
				return SubOutcome{}, err
			}
			if game == nil {
				return fail[*SubResult](apperrors.NotFound(lobbydomain.ErrNoGame, string(channelID)))
			}
			if game.State != sharedtypes.GameStatePicking && game.State != sharedtypes.GameStateUndecided {
				return fail[*SubResult](apperrors.State(lobbydomain.ErrSubNotAllowed, fmt.Sprintf("game %d is %s", game.GameID, game.State)))
			}

			draft, err := s.loadDraft(ctx, db, lobby, game)
			if err != nil {
				return SubOutcome{}, err
			}
			if _, in := membership(draft, replacement); in {
				return fail[*SubResult](apperrors.State(lobbydomain.ErrAlreadyInGame, string(replacement)))
			}
			team, in := membership(draft, userID)
			if !in {
				return fail[*SubResult](apperrors.NotFound(lobbydomain.ErrUserNotInGame, string(userID)))
			}

			res := &SubResult{ChannelID: channelID, GameID: game.GameID, Replaced: userID, Replacement: replacement, Team: team}
			if team != 0 {
				if err := s.repo.ReplaceTeamPlayer(ctx, db, channelID, game.GameID, userID, replacement); err != nil {
					return SubOutcome{}, err
				}
			}
			if captainTeam, ok := draft.CaptainTeam(userID); ok {
				if err := s.repo.ReplaceCaptain(ctx, db, channelID, game.GameID, captainTeam, replacement); err != nil {
					return SubOutcome{}, err
				}
				res.Captain = true
			}
			if game.State == sharedtypes.GameStatePicking && !res.Captain {
				err := s.repo.ReplaceQueuedPlayer(ctx, db, channelID, userID, replacement)
				if err != nil && !errors.Is(err, lobbydb.ErrNoRowsAffected) {
					return SubOutcome{}, err
				}
			}
			return results.SuccessResult[*SubResult, error](res), nil
		})
	})
}

// membership reports whether user takes part in the draft and, if placed,
// on which team. Pool members are in the game with team 0.
func membership(d *lobbydomain.Draft, user sharedtypes.UserID) (sharedtypes.TeamNumber, bool) {
	for _, team := range []sharedtypes.TeamNumber{sharedtypes.TeamOne, sharedtypes.TeamTwo} {
		if slices.Contains(d.Teams[team], user) {
			return team, true
		}
	}
	if team, ok := d.CaptainTeam(user); ok {
		return team, true
	}
	return 0, slices.Contains(d.Pool, user)
}
