package scoreservice

import (
	"context"
	"time"

	scoredomain "github.com/brett-phillips/ELO/app/modules/score/domain"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

type (
	ReportOutcome      = results.OperationResult[*ReportResult, error]
	PlayerOutcome      = results.OperationResult[*sharedtypes.Player, error]
	StatsOutcome       = results.OperationResult[*StatsResult, error]
	ResetOutcome       = results.OperationResult[*ResetResult, error]
	CompetitionOutcome = results.OperationResult[*sharedtypes.Competition, error]
	RankOutcome        = results.OperationResult[*sharedtypes.Rank, error]
)

// Service defines result reporting, registration and score management.
type Service interface {
	// ReportResult settles an Undecided game. A zero winning team reports a draw.
	ReportResult(ctx context.Context, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID, winningTeam sharedtypes.TeamNumber) (ReportOutcome, error)

	RegisterPlayer(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.UserID, displayName string) (PlayerOutcome, error)
	UpdateStats(ctx context.Context, guildID sharedtypes.GuildID, userIDs []sharedtypes.UserID, stat scoredomain.Stat, mode scoredomain.ModifyMode, amount int) (StatsOutcome, error)
	ResetLeaderboard(ctx context.Context, guildID sharedtypes.GuildID) (ResetOutcome, error)

	UpdateCompetition(ctx context.Context, guildID sharedtypes.GuildID, update CompetitionUpdate) (CompetitionOutcome, error)
	AddRank(ctx context.Context, rank sharedtypes.Rank) (RankOutcome, error)
	RemoveRank(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) (RankOutcome, error)
}

// GameStore is the slice of lobby persistence result reporting needs.
// lobbydb.Repository satisfies it.
type GameStore interface {
	LockLobby(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (*sharedtypes.Lobby, error)
	GetGame(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) (*sharedtypes.Game, error)
	GetTeamPlayers(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) ([]sharedtypes.TeamPlayer, error)
	UpdateGame(ctx context.Context, db bun.IDB, game *sharedtypes.Game) error
}

// Notifier delivers notifications best effort.
type Notifier interface {
	Notify(ctx context.Context, n sharedtypes.Notification) error
}

// PlayerChange is one team member's score movement.
type PlayerChange struct {
	UserID  sharedtypes.UserID
	Team    sharedtypes.TeamNumber
	Outcome scoredomain.Outcome
	Before  int
	After   int
	Delta   int
}

// ReportResult describes a settled game. Unregistered lists team members
// without a player record; they are left out of scoring.
type ReportResult struct {
	ChannelID    sharedtypes.ChannelID
	GameID       sharedtypes.GameID
	State        sharedtypes.GameState
	WinningTeam  sharedtypes.TeamNumber
	Changes      []PlayerChange
	Unregistered []sharedtypes.UserID
}

type StatChange struct {
	UserID sharedtypes.UserID
	Before int
	After  int
}

type StatsResult struct {
	GuildID      sharedtypes.GuildID
	Stat         scoredomain.Stat
	Changes      []StatChange
	Unregistered []sharedtypes.UserID
}

type ResetResult struct {
	GuildID sharedtypes.GuildID
	Players int
	Points  int
}

// CompetitionUpdate changes the fields that are set. A zero RequeueDelay or
// QueueTimeout clears that setting.
type CompetitionUpdate struct {
	DefaultRegisterScore *int
	DefaultWinModifier   *int
	DefaultLossModifier  *int
	AllowNegativeScore   *bool
	AllowMultiQueueing   *bool
	RequeueDelay         *time.Duration
	QueueTimeout         *time.Duration
}
