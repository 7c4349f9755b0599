package sharedtypes

import (
	"fmt"
	"time"
)

// PickMode selects how the two captains are chosen when a queue fills.
type PickMode string

const (
	PickModeCaptainsRandom              PickMode = "Captains_Random"
	PickModeCaptainsHighestRanked       PickMode = "Captains_HighestRanked"
	PickModeCaptainsRandomHighestRanked PickMode = "Captains_RandomHighestRanked"
)

// ParsePickMode validates a pick mode name.
func ParsePickMode(s string) (PickMode, error) {
	switch m := PickMode(s); m {
	case PickModeCaptainsRandom, PickModeCaptainsHighestRanked, PickModeCaptainsRandomHighestRanked:
		return m, nil
	}
	return "", fmt.Errorf("unknown pick mode %q", s)
}

// PickOrder is the turn and size sequence captains follow while drafting.
type PickOrder string

const (
	// PickOne alternates single picks: team1, team2, team1, ...
	PickOne PickOrder = "PickOne"
	// PickTwo picks 1, 2, 2 and then alternates single picks.
	PickTwo PickOrder = "PickTwo"
)

// ParsePickOrder validates a pick order name.
func ParsePickOrder(s string) (PickOrder, error) {
	switch o := PickOrder(s); o {
	case PickOne, PickTwo:
		return o, nil
	}
	return "", fmt.Errorf("unknown pick order %q", s)
}

const (
	DefaultPlayersPerTeam   = 5
	DefaultLobbyMultiplier  = 1.0
	DefaultReductionPercent = 0.5
)

// Lobby is the channel-scoped queue and draft configuration.
type Lobby struct {
	GuildID                 GuildID
	ChannelID               ChannelID
	Description             string
	PlayersPerTeam          int
	PickMode                PickMode
	PickOrder               PickOrder
	MinimumPoints           *int
	LobbyMultiplier         float64
	MultiplyLossValue       bool
	HighLimit               *int
	ReductionPercent        float64
	HideQueue               bool
	DMUsersOnGameReady      bool
	MentionUsersInReadyAnno bool
	ReadyChannelID          *ChannelID
	ResultChannelID         *ChannelID
}

// Capacity is the number of queue slots, players-per-team times two.
func (l *Lobby) Capacity() int {
	return l.PlayersPerTeam * 2
}

// NewLobby returns a lobby with default settings.
func NewLobby(guildID GuildID, channelID ChannelID) *Lobby {
	return &Lobby{
		GuildID:          guildID,
		ChannelID:        channelID,
		PlayersPerTeam:   DefaultPlayersPerTeam,
		PickMode:         PickModeCaptainsRandomHighestRanked,
		PickOrder:        PickOne,
		LobbyMultiplier:  DefaultLobbyMultiplier,
		ReductionPercent: DefaultReductionPercent,
	}
}

// QueuedPlayer is one queue entry. At most one row exists per (channel, user).
type QueuedPlayer struct {
	GuildID   GuildID
	ChannelID ChannelID
	UserID    UserID
	QueuedAt  time.Time
}
