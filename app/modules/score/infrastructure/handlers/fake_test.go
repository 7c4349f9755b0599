package scorehandlers

import (
	"context"

	scoreservice "github.com/brett-phillips/ELO/app/modules/score/application"
	scoredomain "github.com/brett-phillips/ELO/app/modules/score/domain"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

// ------------------------
// Fake Score Service
// ------------------------

type FakeScoreService struct {
	trace []string

	ReportResultFunc      func(ctx context.Context, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID, winningTeam sharedtypes.TeamNumber) (scoreservice.ReportOutcome, error)
	RegisterPlayerFunc    func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.UserID, displayName string) (scoreservice.PlayerOutcome, error)
	UpdateStatsFunc       func(ctx context.Context, guildID sharedtypes.GuildID, userIDs []sharedtypes.UserID, stat scoredomain.Stat, mode scoredomain.ModifyMode, amount int) (scoreservice.StatsOutcome, error)
	ResetLeaderboardFunc  func(ctx context.Context, guildID sharedtypes.GuildID) (scoreservice.ResetOutcome, error)
	UpdateCompetitionFunc func(ctx context.Context, guildID sharedtypes.GuildID, update scoreservice.CompetitionUpdate) (scoreservice.CompetitionOutcome, error)
	AddRankFunc           func(ctx context.Context, rank sharedtypes.Rank) (scoreservice.RankOutcome, error)
	RemoveRankFunc        func(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) (scoreservice.RankOutcome, error)
}

func NewFakeScoreService() *FakeScoreService {
	return &FakeScoreService{trace: []string{}}
}

func (f *FakeScoreService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoreService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Service Interface Implementation ---

func (f *FakeScoreService) ReportResult(ctx context.Context, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID, winningTeam sharedtypes.TeamNumber) (scoreservice.ReportOutcome, error) {
	f.record("ReportResult")
	if f.ReportResultFunc != nil {
		return f.ReportResultFunc(ctx, channelID, gameID, winningTeam)
	}
	return scoreservice.ReportOutcome{}, nil
}

func (f *FakeScoreService) RegisterPlayer(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.UserID, displayName string) (scoreservice.PlayerOutcome, error) {
	f.record("RegisterPlayer")
	if f.RegisterPlayerFunc != nil {
		return f.RegisterPlayerFunc(ctx, guildID, userID, displayName)
	}
	return scoreservice.PlayerOutcome{}, nil
}

func (f *FakeScoreService) UpdateStats(ctx context.Context, guildID sharedtypes.GuildID, userIDs []sharedtypes.UserID, stat scoredomain.Stat, mode scoredomain.ModifyMode, amount int) (scoreservice.StatsOutcome, error) {
	f.record("UpdateStats")
	if f.UpdateStatsFunc != nil {
		return f.UpdateStatsFunc(ctx, guildID, userIDs, stat, mode, amount)
	}
	return scoreservice.StatsOutcome{}, nil
}

func (f *FakeScoreService) ResetLeaderboard(ctx context.Context, guildID sharedtypes.GuildID) (scoreservice.ResetOutcome, error) {
	f.record("ResetLeaderboard")
	if f.ResetLeaderboardFunc != nil {
		return f.ResetLeaderboardFunc(ctx, guildID)
	}
	return scoreservice.ResetOutcome{}, nil
}

func (f *FakeScoreService) UpdateCompetition(ctx context.Context, guildID sharedtypes.GuildID, update scoreservice.CompetitionUpdate) (scoreservice.CompetitionOutcome, error) {
	f.record("UpdateCompetition")
	if f.UpdateCompetitionFunc != nil {
		return f.UpdateCompetitionFunc(ctx, guildID, update)
	}
	return scoreservice.CompetitionOutcome{}, nil
}

func (f *FakeScoreService) AddRank(ctx context.Context, rank sharedtypes.Rank) (scoreservice.RankOutcome, error) {
	f.record("AddRank")
	if f.AddRankFunc != nil {
		return f.AddRankFunc(ctx, rank)
	}
	return scoreservice.RankOutcome{}, nil
}

func (f *FakeScoreService) RemoveRank(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) (scoreservice.RankOutcome, error) {
	f.record("RemoveRank")
	if f.RemoveRankFunc != nil {
		return f.RemoveRankFunc(ctx, guildID, roleID)
	}
	return scoreservice.RankOutcome{}, nil
}

var _ scoreservice.Service = (*FakeScoreService)(nil)
