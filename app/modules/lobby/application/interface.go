package lobbyservice

import (
	"context"
	"time"

	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

//go:generate mockgen -destination=mocks/mock_notifier.go -package=mocks . Notifier

// Result aliases keep the generic signatures readable.
type (
	JoinOutcome      = results.OperationResult[*JoinResult, error]
	LeaveOutcome     = results.OperationResult[*LeaveResult, error]
	ForceJoinOutcome = results.OperationResult[*ForceJoinResult, error]
	DraftOutcome     = results.OperationResult[*DraftView, error]
	PickOutcome      = results.OperationResult[*PickResult, error]
	ClearOutcome     = results.OperationResult[*ClearQueueResult, error]
	SubOutcome       = results.OperationResult[*SubResult, error]
	QueueOutcome     = results.OperationResult[*QueueView, error]
	LobbyOutcome     = results.OperationResult[*sharedtypes.Lobby, error]
	SweepOutcome     = results.OperationResult[*SweepResult, error]
)

// Service defines the lobby queue and draft operations.
type Service interface {
	Join(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.UserID) (JoinOutcome, error)
	Leave(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.UserID) (LeaveOutcome, error)
	ForceJoin(ctx context.Context, channelID sharedtypes.ChannelID, userIDs []sharedtypes.UserID) (ForceJoinOutcome, error)
	ForceRemove(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.UserID) (LeaveOutcome, error)
	ClearQueue(ctx context.Context, channelID sharedtypes.ChannelID) (ClearOutcome, error)
	StartDraft(ctx context.Context, channelID sharedtypes.ChannelID) (DraftOutcome, error)
	Pick(ctx context.Context, channelID sharedtypes.ChannelID, captain sharedtypes.UserID, userIDs []sharedtypes.UserID) (PickOutcome, error)
	Sub(ctx context.Context, channelID sharedtypes.ChannelID, userID, replacement sharedtypes.UserID) (SubOutcome, error)
	GetQueue(ctx context.Context, channelID sharedtypes.ChannelID) (QueueOutcome, error)

	CreateLobby(ctx context.Context, lobby *sharedtypes.Lobby) (LobbyOutcome, error)
	UpdateLobbySettings(ctx context.Context, channelID sharedtypes.ChannelID, update LobbySettingsUpdate) (LobbyOutcome, error)
	DeleteLobby(ctx context.Context, channelID sharedtypes.ChannelID) (LobbyOutcome, error)

	SweepQueueTimeouts(ctx context.Context, now time.Time) (SweepOutcome, error)
}

// Notifier delivers notifications best effort. Callers log and drop errors.
type Notifier interface {
	Notify(ctx context.Context, n sharedtypes.Notification) error
}

// JoinResult describes a successful Join. When the join filled the queue,
// QueueFull is set and Draft holds the freshly started draft.
type JoinResult struct {
	ChannelID     sharedtypes.ChannelID
	UserID        sharedtypes.UserID
	Queued        int
	Capacity      int
	AlreadyQueued bool
	QueueFull     bool
	Draft         *DraftView
}

type LeaveResult struct {
	ChannelID sharedtypes.ChannelID
	UserID    sharedtypes.UserID
	Queued    int
}

// ForceJoinResult reports each requested user as added or skipped with a reason.
type ForceJoinResult struct {
	ChannelID sharedtypes.ChannelID
	Added     []sharedtypes.UserID
	Skipped   map[sharedtypes.UserID]string
	Queued    int
	Draft     *DraftView
}

// DraftView is a read model of a game being drafted or just drafted.
type DraftView struct {
	Game          sharedtypes.Game
	Captains      map[sharedtypes.TeamNumber]sharedtypes.UserID
	Teams         map[sharedtypes.TeamNumber][]sharedtypes.UserID
	Pool          []sharedtypes.UserID
	Turn          sharedtypes.TeamNumber
	RequiredPicks int
	Complete      bool
}

type PickResult struct {
	Outcome lobbydomain.PickOutcome
	Draft   DraftView
}

type ClearQueueResult struct {
	ChannelID sharedtypes.ChannelID
	Removed   int
	// CanceledGame is set when a draft in progress was canceled.
	CanceledGame *sharedtypes.GameID
}

type SubResult struct {
	ChannelID   sharedtypes.ChannelID
	GameID      sharedtypes.GameID
	Replaced    sharedtypes.UserID
	Replacement sharedtypes.UserID
	Team        sharedtypes.TeamNumber
	Captain     bool
}

// QueueView is the current queue and, while picking, the draft.
type QueueView struct {
	Lobby sharedtypes.Lobby
	Queue []sharedtypes.QueuedPlayer
	Draft *DraftView
}

type SweepResult struct {
	LobbiesChecked int
	Evicted        []sharedtypes.QueuedPlayer
	// Skipped is true when another sweep was already running.
	Skipped bool
}

// LobbySettingsUpdate is a partial update; nil fields are left unchanged.
// The Clear flags unset the matching optional setting.
type LobbySettingsUpdate struct {
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
