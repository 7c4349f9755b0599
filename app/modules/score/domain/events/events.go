// Package scoreevents defines the score module's topics and payloads.
package scoreevents

import (
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

// Request topics consumed by the score module.
const (
	ReportResultRequestedV1      = "score.result.report.requested.v1"
	RegisterPlayerRequestedV1    = "score.player.register.requested.v1"
	UpdateStatsRequestedV1       = "score.stats.update.requested.v1"
	ResetLeaderboardRequestedV1  = "score.leaderboard.reset.requested.v1"
	UpdateCompetitionRequestedV1 = "score.competition.update.requested.v1"
	AddRankRequestedV1           = "score.rank.add.requested.v1"
	RemoveRankRequestedV1        = "score.rank.remove.requested.v1"
)

// Result topics published by the score module.
const (
	ResultReportedV1          = "score.result.reported.v1"
	ReportResultFailedV1      = "score.result.report.failed.v1"
	PlayerRegisteredV1        = "score.player.registered.v1"
	RegisterPlayerFailedV1    = "score.player.register.failed.v1"
	StatsUpdatedV1            = "score.stats.updated.v1"
	UpdateStatsFailedV1       = "score.stats.update.failed.v1"
	LeaderboardResetV1        = "score.leaderboard.reset.v1"
	ResetLeaderboardFailedV1  = "score.leaderboard.reset.failed.v1"
	CompetitionUpdatedV1      = "score.competition.updated.v1"
	UpdateCompetitionFailedV1 = "score.competition.update.failed.v1"
	RankAddedV1               = "score.rank.added.v1"
	AddRankFailedV1           = "score.rank.add.failed.v1"
	RankRemovedV1             = "score.rank.removed.v1"
	RemoveRankFailedV1        = "score.rank.remove.failed.v1"
)

// --- Requests ---

// ReportResultRequestedPayloadV1 settles a game. WinningTeam 0 is a draw.
type ReportResultRequestedPayloadV1 struct {
	ChannelID   sharedtypes.ChannelID  `json:"channel_id"`
	GameID      sharedtypes.GameID     `json:"game_id"`
	WinningTeam sharedtypes.TeamNumber `json:"winning_team"`
}

type RegisterPlayerRequestedPayloadV1 struct {
	GuildID     sharedtypes.GuildID `json:"guild_id"`
	UserID      sharedtypes.UserID  `json:"user_id"`
	DisplayName string              `json:"display_name"`
}

// UpdateStatsRequestedPayloadV1 edits one stat. Mode is "set" or "modify".
type UpdateStatsRequestedPayloadV1 struct {
	GuildID sharedtypes.GuildID  `json:"guild_id"`
	UserIDs []sharedtypes.UserID `json:"user_ids"`
	Stat    string               `json:"stat"`
	Mode    string               `json:"mode"`
	Amount  int                  `json:"amount"`
}

type ResetLeaderboardRequestedPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
}

// UpdateCompetitionRequestedPayloadV1 changes the fields that are present.
// Zero seconds clears the requeue delay or queue timeout.
type UpdateCompetitionRequestedPayloadV1 struct {
	GuildID              sharedtypes.GuildID `json:"guild_id"`
	DefaultRegisterScore *int                `json:"default_register_score,omitempty"`
	DefaultWinModifier   *int                `json:"default_win_modifier,omitempty"`
	DefaultLossModifier  *int                `json:"default_loss_modifier,omitempty"`
	AllowNegativeScore   *bool               `json:"allow_negative_score,omitempty"`
	AllowMultiQueueing   *bool               `json:"allow_multi_queueing,omitempty"`
	RequeueDelaySeconds  *int64              `json:"requeue_delay_seconds,omitempty"`
	QueueTimeoutSeconds  *int64              `json:"queue_timeout_seconds,omitempty"`
}

type AddRankRequestedPayloadV1 struct {
	GuildID         sharedtypes.GuildID `json:"guild_id"`
	RoleID          sharedtypes.RoleID  `json:"role_id"`
	PointsThreshold int                 `json:"points_threshold"`
	WinModifier     *int                `json:"win_modifier,omitempty"`
	LossModifier    *int                `json:"loss_modifier,omitempty"`
}

type RemoveRankRequestedPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
	RoleID  sharedtypes.RoleID  `json:"role_id"`
}

// --- Results ---

// FailedPayloadV1 is published on every *.failed topic.
type FailedPayloadV1 struct {
	GuildID   sharedtypes.GuildID   `json:"guild_id,omitempty"`
	ChannelID sharedtypes.ChannelID `json:"channel_id,omitempty"`
	Kind      string                `json:"kind"`
	Reason    string                `json:"reason"`
}

type PlayerChangeV1 struct {
	UserID  sharedtypes.UserID     `json:"user_id"`
	Team    sharedtypes.TeamNumber `json:"team"`
	Outcome string                 `json:"outcome"`
	Before  int                    `json:"before"`
	After   int                    `json:"after"`
	Delta   int                    `json:"delta"`
}

type ResultReportedPayloadV1 struct {
	ChannelID    sharedtypes.ChannelID  `json:"channel_id"`
	GameID       sharedtypes.GameID     `json:"game_id"`
	State        sharedtypes.GameState  `json:"state"`
	WinningTeam  sharedtypes.TeamNumber `json:"winning_team"`
	Changes      []PlayerChangeV1       `json:"changes"`
	Unregistered []sharedtypes.UserID   `json:"unregistered,omitempty"`
}

type PlayerPayloadV1 struct {
	GuildID     sharedtypes.GuildID `json:"guild_id"`
	UserID      sharedtypes.UserID  `json:"user_id"`
	DisplayName string              `json:"display_name"`
	Points      int                 `json:"points"`
	Wins        int                 `json:"wins"`
	Losses      int                 `json:"losses"`
	Draws       int                 `json:"draws"`
	Kills       int                 `json:"kills"`
	Deaths      int                 `json:"deaths"`
}

type StatChangeV1 struct {
	UserID sharedtypes.UserID `json:"user_id"`
	Before int                `json:"before"`
	After  int                `json:"after"`
}

type StatsUpdatedPayloadV1 struct {
	GuildID      sharedtypes.GuildID  `json:"guild_id"`
	Stat         string               `json:"stat"`
	Changes      []StatChangeV1       `json:"changes"`
	Unregistered []sharedtypes.UserID `json:"unregistered,omitempty"`
}

type LeaderboardResetPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
	Players int                 `json:"players"`
	Points  int                 `json:"points"`
}

type CompetitionPayloadV1 struct {
	GuildID              sharedtypes.GuildID `json:"guild_id"`
	DefaultRegisterScore int                 `json:"default_register_score"`
	DefaultWinModifier   int                 `json:"default_win_modifier"`
	DefaultLossModifier  int                 `json:"default_loss_modifier"`
	AllowNegativeScore   bool                `json:"allow_negative_score"`
	AllowMultiQueueing   bool                `json:"allow_multi_queueing"`
	RequeueDelaySeconds  *int64              `json:"requeue_delay_seconds,omitempty"`
	QueueTimeoutSeconds  *int64              `json:"queue_timeout_seconds,omitempty"`
}

type RankPayloadV1 struct {
	GuildID         sharedtypes.GuildID `json:"guild_id"`
	RoleID          sharedtypes.RoleID  `json:"role_id"`
	PointsThreshold int                 `json:"points_threshold"`
	WinModifier     *int                `json:"win_modifier,omitempty"`
	LossModifier    *int                `json:"loss_modifier,omitempty"`
}
