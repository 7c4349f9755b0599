package scoreservice

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	scoredomain "github.com/brett-phillips/ELO/app/modules/score/domain"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// ReportResult moves an Undecided game to Decided, or Draw when winningTeam
// is zero, and applies the score engine to every registered team member in
// the same transaction.
func (s *ScoreService) ReportResult(
	ctx context.Context,
	channelID sharedtypes.ChannelID,
	gameID sharedtypes.GameID,
	winningTeam sharedtypes.TeamNumber,
) (ReportOutcome, error) {
	switch {
	case channelID == "":
		return fail[*ReportResult](apperrors.Validation(ErrMissingChannel, ""))
	case gameID <= 0:
		return fail[*ReportResult](apperrors.Validation(ErrMissingGame, ""))
	case winningTeam != 0 && !winningTeam.Valid():
		return fail[*ReportResult](apperrors.Validation(scoredomain.ErrInvalidTeam, strconv.Itoa(int(winningTeam))))
	}

	var note *sharedtypes.Notification
	result, err := withTelemetry(s, ctx, "ReportResult", channelScope(channelID), func(ctx context.Context) (ReportOutcome, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ReportOutcome, error) {
			lobby, err := s.games.LockLobby(ctx, db, channelID)
			if err != nil {
				if errors.Is(err, lobbydb.ErrNotFound) {
					return fail[*ReportResult](apperrors.NotFound(scoredomain.ErrLobbyNotFound, string(channelID)))
				}
				return ReportOutcome{}, err
			}

			game, err := s.games.GetGame(ctx, db, channelID, gameID)
			if err != nil {
				if errors.Is(err, lobbydb.ErrNotFound) {
					return fail[*ReportResult](apperrors.NotFound(scoredomain.ErrGameNotFound, fmt.Sprintf("game %d", gameID)))
				}
				return ReportOutcome{}, err
			}

			next := sharedtypes.GameStateDecided
			if winningTeam == 0 {
				next = sharedtypes.GameStateDraw
			}
			if err := game.Transition(next); err != nil {
				return fail[*ReportResult](apperrors.State(scoredomain.ErrGameNotUndecided, fmt.Sprintf("game %d is %s", gameID, game.State)))
			}
			game.WinningTeam = winningTeam

			report, err := s.settle(ctx, db, lobby, game)
			if err != nil {
				return ReportOutcome{}, err
			}
			if err := s.games.UpdateGame(ctx, db, game); err != nil {
				return ReportOutcome{}, fmt.Errorf("update game: %w", err)
			}

			n := resultReportedNotification(lobby, report)
			note = &n
			return results.SuccessResult[*ReportResult, error](report), nil
		})
	})
	if err == nil && result.IsSuccess() && note != nil {
		s.dispatch(ctx, []sharedtypes.Notification{*note})
	}
	return result, err
}

// settle scores every team member of game and persists the new totals.
func (s *ScoreService) settle(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby, game *sharedtypes.Game) (*ReportResult, error) {
	members, err := s.games.GetTeamPlayers(ctx, db, game.ChannelID, game.GameID)
	if err != nil {
		return nil, fmt.Errorf("load team players: %w", err)
	}
	comp, err := s.competition(ctx, db, lobby.GuildID)
	if err != nil {
		return nil, fmt.Errorf("load competition: %w", err)
	}
	ranks, err := s.repo.GetRanks(ctx, db, lobby.GuildID)
	if err != nil {
		return nil, fmt.Errorf("load ranks: %w", err)
	}

	ids := make([]sharedtypes.UserID, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	players, err := s.repo.GetPlayers(ctx, db, lobby.GuildID, ids)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}

	// Team one first, then by user, so results are stable.
	slices.SortStableFunc(members, func(a, b sharedtypes.TeamPlayer) int {
		if a.TeamNumber != b.TeamNumber {
			return int(a.TeamNumber - b.TeamNumber)
		}
		switch {
		case a.UserID < b.UserID:
			return -1
		case a.UserID > b.UserID:
			return 1
		}
		return 0
	})

	report := &ReportResult{
		ChannelID:   game.ChannelID,
		GameID:      game.GameID,
		State:       game.State,
		WinningTeam: game.WinningTeam,
	}
	updated := make([]sharedtypes.Player, 0, len(members))
	for _, m := range members {
		player, ok := players[m.UserID]
		if !ok {
			report.Unregistered = append(report.Unregistered, m.UserID)
			continue
		}
		outcome := outcomeFor(game.WinningTeam, m.TeamNumber)
		change := scoredomain.ApplyResult(lobby, comp, player, ranks, outcome)
		updated = append(updated, change.Player)
		report.Changes = append(report.Changes, PlayerChange{
			UserID:  m.UserID,
			Team:    m.TeamNumber,
			Outcome: outcome,
			Before:  change.Before,
			After:   change.Player.Points,
			Delta:   change.Delta,
		})
	}

	if err := s.repo.UpdatePlayers(ctx, db, updated); err != nil {
		return nil, fmt.Errorf("update players: %w", err)
	}
	return report, nil
}

func outcomeFor(winner, team sharedtypes.TeamNumber) scoredomain.Outcome {
	switch winner {
	case 0:
		return scoredomain.OutcomeDraw
	case team:
		return scoredomain.OutcomeWin
	}
	return scoredomain.OutcomeLoss
}

// resultReportedNotification goes to the lobby's result channel, or the
// lobby channel when none is set.
func resultReportedNotification(lobby *sharedtypes.Lobby, r *ReportResult) sharedtypes.Notification {
	channel := lobby.ChannelID
	if lobby.ResultChannelID != nil {
		channel = *lobby.ResultChannelID
	}
	text := fmt.Sprintf("Game #%d ended in a draw", r.GameID)
	if r.WinningTeam != 0 {
		text = fmt.Sprintf("Game #%d won by team %d", r.GameID, r.WinningTeam)
	}
	fields := map[string]string{
		"game_id":      strconv.FormatInt(int64(r.GameID), 10),
		"state":        string(r.State),
		"winning_team": strconv.Itoa(int(r.WinningTeam)),
	}
	for _, c := range r.Changes {
		fields["delta_"+string(c.UserID)] = strconv.Itoa(c.Delta)
	}
	return sharedtypes.Notification{
		Kind:      sharedtypes.NotificationResultReported,
		GuildID:   lobby.GuildID,
		ChannelID: channel,
		Text:      text,
		Fields:    fields,
	}
}
