package lobbydb

import (
	"time"

	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// Lobby is a channel configured for queueing.
type Lobby struct {
	bun.BaseModel           `bun:"table:lobbies,alias:l"`
	ChannelID               sharedtypes.ChannelID  `bun:"channel_id,pk,notnull,type:varchar(20)"`
	GuildID                 sharedtypes.GuildID    `bun:"guild_id,notnull,type:varchar(20)"`
	Description             string                 `bun:"description,notnull,default:''"`
	PlayersPerTeam          int                    `bun:"players_per_team,notnull,default:5"`
	PickMode                sharedtypes.PickMode   `bun:"pick_mode,notnull,type:varchar(40)"`
	PickOrder               sharedtypes.PickOrder  `bun:"pick_order,notnull,type:varchar(20)"`
	MinimumPoints           *int                   `bun:"minimum_points"`
	LobbyMultiplier         float64                `bun:"lobby_multiplier,notnull,default:1"`
	MultiplyLossValue       bool                   `bun:"multiply_loss_value,notnull,default:false"`
	HighLimit               *int                   `bun:"high_limit"`
	ReductionPercent        float64                `bun:"reduction_percent,notnull,default:0.5"`
	HideQueue               bool                   `bun:"hide_queue,notnull,default:false"`
	DMUsersOnGameReady      bool                   `bun:"dm_users_on_game_ready,notnull,default:false"`
	MentionUsersInReadyAnno bool                   `bun:"mention_users_in_ready_announcement,notnull,default:false"`
	ReadyChannelID          *sharedtypes.ChannelID `bun:"ready_channel_id,type:varchar(20)"`
	ResultChannelID         *sharedtypes.ChannelID `bun:"result_channel_id,type:varchar(20)"`
	CreatedAt               time.Time              `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt               time.Time              `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// QueuedPlayer is one queue entry. (channel_id, user_id) is unique.
type QueuedPlayer struct {
	bun.BaseModel `bun:"table:queued_players,alias:qp"`
	ChannelID     sharedtypes.ChannelID `bun:"channel_id,pk,notnull,type:varchar(20)"`
	UserID        sharedtypes.UserID    `bun:"user_id,pk,notnull,type:varchar(20)"`
	GuildID       sharedtypes.GuildID   `bun:"guild_id,notnull,type:varchar(20)"`
	QueuedAt      time.Time             `bun:"queued_at,notnull,default:current_timestamp"`
}

// Game is one drafted match, numbered per lobby.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:gm"`
	ChannelID     sharedtypes.ChannelID  `bun:"channel_id,pk,notnull,type:varchar(20)"`
	GameID        sharedtypes.GameID     `bun:"game_id,pk,notnull"`
	GuildID       sharedtypes.GuildID    `bun:"guild_id,notnull,type:varchar(20)"`
	State         sharedtypes.GameState  `bun:"state,notnull,type:varchar(20)"`
	PickOrder     sharedtypes.PickOrder  `bun:"pick_order,notnull,type:varchar(20)"`
	Picks         int                    `bun:"picks,notnull,default:0"`
	WinningTeam   sharedtypes.TeamNumber `bun:"winning_team,notnull,default:0"`
	CreatedAt     time.Time              `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time              `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// TeamPlayer places a user on a team for one game. Captains have a row too.
type TeamPlayer struct {
	bun.BaseModel `bun:"table:team_players,alias:tp"`
	ChannelID     sharedtypes.ChannelID  `bun:"channel_id,pk,notnull,type:varchar(20)"`
	GameID        sharedtypes.GameID     `bun:"game_id,pk,notnull"`
	UserID        sharedtypes.UserID     `bun:"user_id,pk,notnull,type:varchar(20)"`
	GuildID       sharedtypes.GuildID    `bun:"guild_id,notnull,type:varchar(20)"`
	TeamNumber    sharedtypes.TeamNumber `bun:"team_number,notnull"`
	PickedAt      time.Time              `bun:"picked_at,notnull,default:current_timestamp"`
}

// TeamCaptain is the captain of one team in one game.
type TeamCaptain struct {
	bun.BaseModel `bun:"table:team_captains,alias:tc"`
	ChannelID     sharedtypes.ChannelID  `bun:"channel_id,pk,notnull,type:varchar(20)"`
	GameID        sharedtypes.GameID     `bun:"game_id,pk,notnull"`
	TeamNumber    sharedtypes.TeamNumber `bun:"team_number,pk,notnull"`
	GuildID       sharedtypes.GuildID    `bun:"guild_id,notnull,type:varchar(20)"`
	UserID        sharedtypes.UserID     `bun:"user_id,notnull,type:varchar(20)"`
}

// Ban blocks a user from queueing in a guild.
type Ban struct {
	bun.BaseModel    `bun:"table:bans,alias:b"`
	ID               int64               `bun:"id,pk,autoincrement"`
	GuildID          sharedtypes.GuildID `bun:"guild_id,notnull,type:varchar(20)"`
	UserID           sharedtypes.UserID  `bun:"user_id,notnull,type:varchar(20)"`
	TimeOfBan        time.Time           `bun:"time_of_ban,notnull"`
	LengthSeconds    int64               `bun:"length_seconds,notnull"`
	Reason           string              `bun:"reason,notnull,default:''"`
	ManuallyDisabled bool                `bun:"manually_disabled,notnull,default:false"`
}

func toSharedLobby(l *Lobby) *sharedtypes.Lobby {
	return &sharedtypes.Lobby{
		GuildID:                 l.GuildID,
		ChannelID:               l.ChannelID,
		Description:             l.Description,
		PlayersPerTeam:          l.PlayersPerTeam,
		PickMode:                l.PickMode,
		PickOrder:               l.PickOrder,
		MinimumPoints:           l.MinimumPoints,
		LobbyMultiplier:         l.LobbyMultiplier,
		MultiplyLossValue:       l.MultiplyLossValue,
		HighLimit:               l.HighLimit,
		ReductionPercent:        l.ReductionPercent,
		HideQueue:               l.HideQueue,
		DMUsersOnGameReady:      l.DMUsersOnGameReady,
		MentionUsersInReadyAnno: l.MentionUsersInReadyAnno,
		ReadyChannelID:          l.ReadyChannelID,
		ResultChannelID:         l.ResultChannelID,
	}
}

func toDBLobby(l *sharedtypes.Lobby) *Lobby {
	return &Lobby{
		ChannelID:               l.ChannelID,
		GuildID:                 l.GuildID,
		Description:             l.Description,
		PlayersPerTeam:          l.PlayersPerTeam,
		PickMode:                l.PickMode,
		PickOrder:               l.PickOrder,
		MinimumPoints:           l.MinimumPoints,
		LobbyMultiplier:         l.LobbyMultiplier,
		MultiplyLossValue:       l.MultiplyLossValue,
		HighLimit:               l.HighLimit,
		ReductionPercent:        l.ReductionPercent,
		HideQueue:               l.HideQueue,
		DMUsersOnGameReady:      l.DMUsersOnGameReady,
		MentionUsersInReadyAnno: l.MentionUsersInReadyAnno,
		ReadyChannelID:          l.ReadyChannelID,
		ResultChannelID:         l.ResultChannelID,
		UpdatedAt:               time.Now().UTC(),
	}
}

func toSharedQueued(q *QueuedPlayer) sharedtypes.QueuedPlayer {
	return sharedtypes.QueuedPlayer{
		GuildID:   q.GuildID,
		ChannelID: q.ChannelID,
		UserID:    q.UserID,
		QueuedAt:  q.QueuedAt,
	}
}

func toSharedGame(g *Game) *sharedtypes.Game {
	return &sharedtypes.Game{
		GuildID:     g.GuildID,
		ChannelID:   g.ChannelID,
		GameID:      g.GameID,
		State:       g.State,
		PickOrder:   g.PickOrder,
		Picks:       g.Picks,
		WinningTeam: g.WinningTeam,
		CreatedAt:   g.CreatedAt,
	}
}

func toDBGame(g *sharedtypes.Game) *Game {
	return &Game{
		ChannelID:   g.ChannelID,
		GameID:      g.GameID,
		GuildID:     g.GuildID,
		State:       g.State,
		PickOrder:   g.PickOrder,
		Picks:       g.Picks,
		WinningTeam: g.WinningTeam,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}
}

func toSharedBan(b *Ban) *sharedtypes.Ban {
	return &sharedtypes.Ban{
		ID:               b.ID,
		GuildID:          b.GuildID,
		UserID:           b.UserID,
		TimeOfBan:        b.TimeOfBan,
		Length:           time.Duration(b.LengthSeconds) * time.Second,
		Reason:           b.Reason,
		ManuallyDisabled: b.ManuallyDisabled,
	}
}
