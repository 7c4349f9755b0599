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

// UpdateCompetition applies update to the guild's settings, creating them
// from defaults on first use.
func (s *ScoreService) UpdateCompetition(ctx context.Context, guildID sharedtypes.GuildID, update CompetitionUpdate) (CompetitionOutcome, error) {
	if guildID == "" {
		return fail[*sharedtypes.Competition](apperrors.Validation(ErrMissingGuild, ""))
	}
	if err := validateCompetitionUpdate(update); err != nil {
		return fail[*sharedtypes.Competition](err)
	}

	return withTelemetry(s, ctx, "UpdateCompetition", guildScope(guildID), func(ctx context.Context) (CompetitionOutcome, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (CompetitionOutcome, error) {
			comp, err := s.competition(ctx, db, guildID)
			if err != nil {
				return CompetitionOutcome{}, fmt.Errorf("load competition: %w", err)
			}
			applyCompetitionUpdate(comp, update)
			if err := s.repo.SaveCompetition(ctx, db, comp); err != nil {
				return CompetitionOutcome{}, err
			}
			return results.SuccessResult[*sharedtypes.Competition, error](comp), nil
		})
	})
}

func validateCompetitionUpdate(u CompetitionUpdate) error {
	switch {
	case u.DefaultWinModifier != nil && *u.DefaultWinModifier < 0:
		return apperrors.Validation(scoredomain.ErrInvalidCompetition, "win modifier must not be negative")
	case u.DefaultLossModifier != nil && *u.DefaultLossModifier < 0:
		return apperrors.Validation(scoredomain.ErrInvalidCompetition, "loss modifier must not be negative")
	case u.RequeueDelay != nil && *u.RequeueDelay < 0:
		return apperrors.Validation(scoredomain.ErrInvalidCompetition, "requeue delay must not be negative")
	case u.QueueTimeout != nil && *u.QueueTimeout < 0:
		return apperrors.Validation(scoredomain.ErrInvalidCompetition, "queue timeout must not be negative")
	}
	return nil
}

func applyCompetitionUpdate(c *sharedtypes.Competition, u CompetitionUpdate) {
	if u.DefaultRegisterScore != nil {
		c.DefaultRegisterScore = *u.DefaultRegisterScore
	}
	if u.DefaultWinModifier != nil {
		c.DefaultWinModifier = *u.DefaultWinModifier
	}
	if u.DefaultLossModifier != nil {
		c.DefaultLossModifier = *u.DefaultLossModifier
	}
	if u.AllowNegativeScore != nil {
		c.AllowNegativeScore = *u.AllowNegativeScore
	}
	if u.AllowMultiQueueing != nil {
		c.AllowMultiQueueing = *u.AllowMultiQueueing
	}
	if u.RequeueDelay != nil {
		if d := *u.RequeueDelay; d > 0 {
			c.RequeueDelay = &d
		} else {
			c.RequeueDelay = nil
		}
	}
	if u.QueueTimeout != nil {
		if d := *u.QueueTimeout; d > 0 {
			c.QueueTimeout = &d
		} else {
			c.QueueTimeout = nil
		}
	}
}

// AddRank creates or replaces the rank for rank.RoleID.
func (s *ScoreService) AddRank(ctx context.Context, rank sharedtypes.Rank) (RankOutcome, error) {
	switch {
	case rank.GuildID == "":
		return fail[*sharedtypes.Rank](apperrors.Validation(ErrMissingGuild, ""))
	case rank.RoleID == "":
		return fail[*sharedtypes.Rank](apperrors.Validation(ErrMissingRole, ""))
	case rank.WinModifier != nil && *rank.WinModifier < 0,
		rank.LossModifier != nil && *rank.LossModifier < 0:
		return fail[*sharedtypes.Rank](apperrors.Validation(scoredomain.ErrInvalidCompetition, "rank modifiers must not be negative"))
	}

	return withTelemetry(s, ctx, "AddRank", guildScope(rank.GuildID), func(ctx context.Context) (RankOutcome, error) {
		if err := s.repo.UpsertRank(ctx, nil, &rank); err != nil {
			return RankOutcome{}, err
		}
		return results.SuccessResult[*sharedtypes.Rank, error](&rank), nil
	})
}

// RemoveRank deletes the rank tied to roleID.
func (s *ScoreService) RemoveRank(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) (RankOutcome, error) {
	switch {
	case guildID == "":
		return fail[*sharedtypes.Rank](apperrors.Validation(ErrMissingGuild, ""))
	case roleID == "":
		return fail[*sharedtypes.Rank](apperrors.Validation(ErrMissingRole, ""))
	}

	return withTelemetry(s, ctx, "RemoveRank", guildScope(guildID), func(ctx context.Context) (RankOutcome, error) {
		if err := s.repo.DeleteRank(ctx, nil, guildID, roleID); err != nil {
			if errors.Is(err, scoredb.ErrNoRowsAffected) {
				return fail[*sharedtypes.Rank](apperrors.NotFound(scoredomain.ErrRankNotFound, string(roleID)))
			}
			return RankOutcome{}, err
		}
		return results.SuccessResult[*sharedtypes.Rank, error](&sharedtypes.Rank{GuildID: guildID, RoleID: roleID}), nil
	})
}
