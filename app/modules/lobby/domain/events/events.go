// Package lobbyevents defines the lobby module's topics and payloads.
package lobbyevents

import (
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

// Request topics consumed by the lobby module.
const (
	JoinRequestedV1           = "lobby.join.requested.v1"
	LeaveRequestedV1          = "lobby.leave.requested.v1"
	ForceJoinRequestedV1      = "lobby.force_join.requested.v1"
	ForceRemoveRequestedV1    = "lobby.force_remove.requested.v1"
	ClearQueueRequestedV1     = "lobby.clear.requested.v1"
	StartDraftRequestedV1     = "lobby.draft.start.requested.v1"
	PickRequestedV1           = "lobby.pick.requested.v1"
	SubRequestedV1            = "lobby.sub.requested.v1"
	QueueRequestedV1          = "lobby.queue.requested.v1"
	CreateLobbyRequestedV1    = "lobby.create.requested.v1"
	UpdateSettingsRequestedV1 = "lobby.settings.update.requested.v1"
	DeleteLobbyRequestedV1    = "lobby.delete.requested.v1"
)

// Result topics published by the lobby module.
const (
	JoinSucceededV1           = "lobby.join.succeeded.v1"
	JoinFailedV1              = "lobby.join.failed.v1"
	LeaveSucceededV1          = "lobby.leave.succeeded.v1"
	LeaveFailedV1             = "lobby.leave.failed.v1"
	ForceJoinSucceededV1      = "lobby.force_join.succeeded.v1"
	ForceJoinFailedV1         = "lobby.force_join.failed.v1"
	ForceRemoveSucceededV1    = "lobby.force_remove.succeeded.v1"
	ForceRemoveFailedV1       = "lobby.force_remove.failed.v1"
	ClearQueueSucceededV1     = "lobby.clear.succeeded.v1"
	ClearQueueFailedV1        = "lobby.clear.failed.v1"
	StartDraftSucceededV1     = "lobby.draft.start.succeeded.v1"
	StartDraftFailedV1        = "lobby.draft.start.failed.v1"
	PickSucceededV1           = "lobby.pick.succeeded.v1"
	PickFailedV1              = "lobby.pick.failed.v1"
	SubSucceededV1            = "lobby.sub.succeeded.v1"
	SubFailedV1               = "lobby.sub.failed.v1"
	QueueRetrievedV1          = "lobby.queue.retrieved.v1"
	QueueFailedV1             = "lobby.queue.failed.v1"
	CreateLobbySucceededV1    = "lobby.create.succeeded.v1"
	CreateLobbyFailedV1       = "lobby.create.failed.v1"
	UpdateSettingsSucceededV1 = "lobby.settings.update.succeeded.v1"
	UpdateSettingsFailedV1    = "lobby.settings.update.failed.v1"
	DeleteLobbySucceededV1    = "lobby.delete.succeeded.v1"
	DeleteLobbyFailedV1       = "lobby.delete.failed.v1"

	// GameReadyV1 announces a finished draft so the score module can track it.
	GameReadyV1 = "lobby.game.ready.v1"
)

// NotificationTopic returns the topic a notification of kind is published on.
func NotificationTopic(kind sharedtypes.NotificationKind) string {
	return "lobby.notification." + string(kind) + ".v1"
}

// NotificationsWildcard subscribes to every notification kind.
const NotificationsWildcard = "lobby.notification.*.v1"

// --- Requests ---

type JoinRequestedPayloadV1 struct {
	ChannelID sharedtypes.ChannelID `json:"channel_id"`
	UserID    sharedtypes.UserID    `json:"user_id"`
}

type LeaveRequestedPayloadV1 struct {
	ChannelID sharedtypes.ChannelID `json:"channel_id"`
	UserID    sharedtypes.UserID    `json:"user_id"`
}

type ForceJoinRequestedPayloadV1 struct {
	ChannelID   sharedtypes.ChannelID `json:"channel_id"`
	RequestedBy sharedtypes.UserID    `json:"requested_by"`
	UserIDs     []sharedtypes.UserID  `json:"user_ids"`
}

type ForceRemoveRequestedPayloadV1 struct {
	ChannelID   sharedtypes.ChannelID `json:"channel_id"`
	RequestedBy sharedtypes.UserID    `json:"requested_by"`
	UserID      sharedtypes.UserID    `json:"user_id"`
}

type ClearQueueRequestedPayloadV1 struct {
	ChannelID   sharedtypes.ChannelID `json:"channel_id"`
	RequestedBy sharedtypes.UserID    `json:"requested_by"`
}

type StartDraftRequestedPayloadV1 struct {
	ChannelID   sharedtypes.ChannelID `json:"channel_id"`
	RequestedBy sharedtypes.UserID    `json:"requested_by"`
}

type PickRequestedPayloadV1 struct {
	ChannelID sharedtypes.ChannelID `json:"channel_id"`
	CaptainID sharedtypes.UserID    `json:"captain_id"`
	UserIDs   []sharedtypes.UserID  `json:"user_ids"`
}

type SubRequestedPayloadV1 struct {
	ChannelID     sharedtypes.ChannelID `json:"channel_id"`
	UserID        sharedtypes.UserID    `json:"user_id"`
	ReplacementID sharedtypes.UserID    `json:"replacement_id"`
}

type QueueRequestedPayloadV1 struct {
	ChannelID sharedtypes.ChannelID `json:"channel_id"`
	UserID    sharedtypes.UserID    `json:"user_id,omitempty"`
}

type CreateLobbyRequestedPayloadV1 struct {
	GuildID        sharedtypes.GuildID   `json:"guild_id"`
	ChannelID      sharedtypes.ChannelID `json:"channel_id"`
	Description    string                `json:"description,omitempty"`
	PlayersPerTeam int                   `json:"players_per_team,omitempty"`
	PickMode       sharedtypes.PickMode  `json:"pick_mode,omitempty"`
	PickOrder      sharedtypes.PickOrder `json:"pick_order,omitempty"`
}

// UpdateSettingsRequestedPayloadV1 carries a partial update. Unset fields are left alone.
type UpdateSettingsRequestedPayloadV1 struct {
	ChannelID sharedtypes.ChannelID  `json:"channel_id"`
	Settings  LobbySettingsPayloadV1 `json:"settings"`
}

// LobbySettingsPayloadV1 mirrors the service's partial settings update.
type LobbySettingsPayloadV1 struct {
	Description             *string                `json:"description,omitempty"`
	PlayersPerTeam          *int                   `json:"players_per_team,omitempty"`
	PickMode                *sharedtypes.PickMode  `json:"pick_mode,omitempty"`
	PickOrder               *sharedtypes.PickOrder `json:"pick_order,omitempty"`
	MinimumPoints           *int                   `json:"minimum_points,omitempty"`
	ClearMinimumPoints      bool                   `json:"clear_minimum_points,omitempty"`
	LobbyMultiplier         *float64               `json:"lobby_multiplier,omitempty"`
	MultiplyLossValue       *bool                  `json:"multiply_loss_value,omitempty"`
	HighLimit               *int                   `json:"high_limit,omitempty"`
	ClearHighLimit          bool                   `json:"clear_high_limit,omitempty"`
	ReductionPercent        *float64               `json:"reduction_percent,omitempty"`
	HideQueue               *bool                  `json:"hide_queue,omitempty"`
	DMUsersOnGameReady      *bool                  `json:"dm_users_on_game_ready,omitempty"`
	MentionUsersInReadyAnno *bool                  `json:"mention_users_in_ready_announcement,omitempty"`
	ReadyChannelID          *sharedtypes.ChannelID `json:"ready_channel_id,omitempty"`
	ClearReadyChannel       bool                   `json:"clear_ready_channel,omitempty"`
	ResultChannelID         *sharedtypes.ChannelID `json:"result_channel_id,omitempty"`
	ClearResultChannel      bool                   `json:"clear_result_channel,omitempty"`
}

type DeleteLobbyRequestedPayloadV1 struct {
	ChannelID sharedtypes.ChannelID `json:"channel_id"`
}

// --- Results ---

// FailedPayloadV1 is shared by every lobby failure topic. Kind is the
// error category: validation, state, capacity, permission, not_found or cooldown.
type FailedPayloadV1 struct {
	ChannelID sharedtypes.ChannelID `json:"channel_id"`
	UserID    sharedtypes.UserID    `json:"user_id,omitempty"`
	Kind      string                `json:"kind"`
	Reason    string                `json:"reason"`
	// RetryAfterSeconds is set for cooldown failures.
	RetryAfterSeconds int `json:"retry_after_seconds,omitempty"`
}

type JoinSucceededPayloadV1 struct {
	ChannelID     sharedtypes.ChannelID `json:"channel_id"`
	UserID        sharedtypes.UserID    `json:"user_id"`
	Queued        int                   `json:"queued"`
	Capacity      int                   `json:"capacity"`
	AlreadyQueued bool                  `json:"already_queued,omitempty"`
	Draft         *DraftPayloadV1       `json:"draft,omitempty"`
}

type LeaveSucceededPayloadV1 struct {
	ChannelID sharedtypes.ChannelID `json:"channel_id"`
	UserID    sharedtypes.UserID    `json:"user_id"`
	Queued    int                   `json:"queued"`
}

type ForceJoinSucceededPayloadV1 struct {
	ChannelID sharedtypes.ChannelID         `json:"channel_id"`
	Added     []sharedtypes.UserID          `json:"added"`
	Skipped   map[sharedtypes.UserID]string `json:"skipped,omitempty"`
	Queued    int                           `json:"queued"`
	Draft     *DraftPayloadV1               `json:"draft,omitempty"`
}

type ClearQueueSucceededPayloadV1 struct {
	ChannelID    sharedtypes.ChannelID `json:"channel_id"`
	Removed      int                   `json:"removed"`
	CanceledGame *sharedtypes.GameID   `json:"canceled_game,omitempty"`
}

// DraftPayloadV1 is the wire form of a draft in progress or just completed.
type DraftPayloadV1 struct {
	GuildID       sharedtypes.GuildID    `json:"guild_id"`
	ChannelID     sharedtypes.ChannelID  `json:"channel_id"`
	GameID        sharedtypes.GameID     `json:"game_id"`
	State         sharedtypes.GameState  `json:"state"`
	PickOrder     sharedtypes.PickOrder  `json:"pick_order"`
	Captain1      sharedtypes.UserID     `json:"captain_1"`
	Captain2      sharedtypes.UserID     `json:"captain_2"`
	Team1         []sharedtypes.UserID   `json:"team_1"`
	Team2         []sharedtypes.UserID   `json:"team_2"`
	Pool          []sharedtypes.UserID   `json:"pool,omitempty"`
	Turn          sharedtypes.TeamNumber `json:"turn,omitempty"`
	RequiredPicks int                    `json:"required_picks,omitempty"`
	Complete      bool                   `json:"complete"`
}

type PickSucceededPayloadV1 struct {
	CaptainID sharedtypes.UserID     `json:"captain_id"`
	Picked    []sharedtypes.UserID   `json:"picked"`
	Team      sharedtypes.TeamNumber `json:"team"`
	AutoFill  *sharedtypes.UserID    `json:"auto_fill,omitempty"`
	Draft     DraftPayloadV1         `json:"draft"`
}

type SubSucceededPayloadV1 struct {
	ChannelID     sharedtypes.ChannelID  `json:"channel_id"`
	GameID        sharedtypes.GameID     `json:"game_id"`
	UserID        sharedtypes.UserID     `json:"user_id"`
	ReplacementID sharedtypes.UserID     `json:"replacement_id"`
	Team          sharedtypes.TeamNumber `json:"team,omitempty"`
	Captain       bool                   `json:"captain,omitempty"`
}

type QueueEntryV1 struct {
	UserID   sharedtypes.UserID `json:"user_id"`
	QueuedAt int64              `json:"queued_at"`
}

// QueueRetrievedPayloadV1 omits the entries when the lobby hides its queue.
type QueueRetrievedPayloadV1 struct {
	ChannelID   sharedtypes.ChannelID `json:"channel_id"`
	Description string                `json:"description,omitempty"`
	Queued      int                   `json:"queued"`
	Capacity    int                   `json:"capacity"`
	Hidden      bool                  `json:"hidden,omitempty"`
	Entries     []QueueEntryV1        `json:"entries,omitempty"`
	Draft       *DraftPayloadV1       `json:"draft,omitempty"`
}

type LobbyPayloadV1 struct {
	GuildID        sharedtypes.GuildID   `json:"guild_id"`
	ChannelID      sharedtypes.ChannelID `json:"channel_id"`
	Description    string                `json:"description,omitempty"`
	PlayersPerTeam int                   `json:"players_per_team"`
	PickMode       sharedtypes.PickMode  `json:"pick_mode"`
	PickOrder      sharedtypes.PickOrder `json:"pick_order"`
	MinimumPoints  *int                  `json:"minimum_points,omitempty"`
	HideQueue      bool                  `json:"hide_queue,omitempty"`
}

// GameReadyPayloadV1 is published once per completed draft.
type GameReadyPayloadV1 struct {
	Draft DraftPayloadV1 `json:"draft"`
}
