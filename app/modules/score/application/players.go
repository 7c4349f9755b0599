package scoreservice

import (
	"context"
	"errors"
	"fmt"

	scoredomain "github.com/brett-phillips/ELO/app/modules/score/domain"
	scoredb "github.com/brett-phillips/ELO/app/modules/score/infrastructure/repositories"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// RegisterPlayer creates a player starting at the competition's register score.
func (s *ScoreService) RegisterPlayer(
	ctx context.Context,
	guildID sharedtypes.GuildID,
	userID sharedtypes.UserID,
	displayName string,
) (PlayerOutcome, error) {
	switch {
	case guildID == "":
		return fail[*sharedtypes.Player](apperrors.Validation(ErrMissingGuild, ""))
	case userID == "":
		return fail[*sharedtypes.Player](apperrors.Validation(ErrMissingUser, ""))
	}

	return withTelemetry(s, ctx, "RegisterPlayer", guildScope(guildID), func(ctx context.Context) (PlayerOutcome, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (PlayerOutcome, error) {
			comp, err := s.competition(ctx, db, guildID)
			if err != nil {
				return PlayerOutcome{}, fmt.Errorf("load competition: %w", err)
			}
			player := &sharedtypes.Player{
				GuildID:          guildID,
				UserID:           userID,
				DisplayName:      displayName,
				Points:           comp.DefaultRegisterScore,
				RegistrationDate: s.now(),
			}
			if err := s.repo.CreatePlayer(ctx, db, player); err != nil {
				if errors.Is(err, scoredb.ErrAlreadyExists) {
					return fail[*sharedtypes.Player](apperrors.State(scoredomain.ErrAlreadyRegistered, string(userID)))
				}
				return PlayerOutcome{}, err
			}
			return results.SuccessResult[*sharedtypes.Player, error](player), nil
		})
	})
}

// UpdateStats sets or adjusts one stat for each registered user in userIDs.
func (s *ScoreService) UpdateStats(
	ctx context.Context,
	guildID sharedtypes.GuildID,
	userIDs []sharedtypes.UserID,
	stat scoredomain.Stat,
	mode scoredomain.ModifyMode,
	amount int,
) (StatsOutcome, error) {
	if guildID == "" {
		return fail[*StatsResult](apperrors.Validation(ErrMissingGuild, ""))
	}
	if len(userIDs) == 0 {
		return fail[*StatsResult](apperrors.Validation(ErrNoUsers, ""))
	}
	if _, err := scoredomain.ParseStat(string(stat)); err != nil {
		return fail[*StatsResult](apperrors.Validation(scoredomain.ErrUnknownStat, string(stat)))
	}
	if _, err := scoredomain.ParseModifyMode(string(mode)); err != nil {
		return fail[*StatsResult](apperrors.Validation(scoredomain.ErrUnknownModifyMode, string(mode)))
	}

	return withTelemetry(s, ctx, "UpdateStats", guildScope(guildID), func(ctx context.Context) (StatsOutcome, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (StatsOutcome, error) {
			players, err := s.repo.GetPlayers(ctx, db, guildID, userIDs)
			if err != nil {
				return StatsOutcome{}, fmt.Errorf("load players: %w", err)
			}

			res := &StatsResult{GuildID: guildID, Stat: stat}
			seen := make(map[sharedtypes.UserID]bool, len(userIDs))
			updated := make([]sharedtypes.Player, 0, len(players))
			for _, id := range userIDs {
				if seen[id] {
					continue
				}
				seen[id] = true

				p, ok := players[id]
				if !ok {
					res.Unregistered = append(res.Unregistered, id)
					continue
				}
				before, _ := scoredomain.StatValue(p, stat)
				next, err := scoredomain.ApplyStat(p, stat, mode, amount)
				if err != nil {
					return fail[*StatsResult](apperrors.Validation(err, ""))
				}
				after, _ := scoredomain.StatValue(next, stat)
				updated = append(updated, next)
				res.Changes = append(res.Changes, StatChange{UserID: id, Before: before, After: after})
			}

			if len(updated) == 0 {
				return fail[*StatsResult](apperrors.NotFound(scoredomain.ErrPlayerNotRegistered, fmt.Sprintf("%d users", len(res.Unregistered))))
			}
			if err := s.repo.UpdatePlayers(ctx, db, updated); err != nil {
				return StatsOutcome{}, fmt.Errorf("update players: %w", err)
			}
			return results.SuccessResult[*StatsResult, error](res), nil
		})
	})
}

// ResetLeaderboard puts every player of the guild back to the register score.
func (s *ScoreService) ResetLeaderboard(ctx context.Context, guildID sharedtypes.GuildID) (ResetOutcome, error) {
	if guildID == "" {
		return fail[*ResetResult](apperrors.Validation(ErrMissingGuild, ""))
	}

	return withTelemetry(s, ctx, "ResetLeaderboard", guildScope(guildID), func(ctx context.Context) (ResetOutcome, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ResetOutcome, error) {
			comp, err := s.competition(ctx, db, guildID)
			if err != nil {
				return ResetOutcome{}, fmt.Errorf("load competition: %w", err)
			}
			n, err := s.repo.ResetPlayers(ctx, db, guildID, comp.DefaultRegisterScore)
			if err != nil {
				return ResetOutcome{}, err
			}
			return results.SuccessResult[*ResetResult, error](&ResetResult{
				GuildID: guildID,
				Players: n,
				Points:  comp.DefaultRegisterScore,
			}), nil
		})
	})
}
