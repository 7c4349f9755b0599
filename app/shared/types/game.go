package sharedtypes

import (
	"fmt"
	"time"
)

// GameState is the lifecycle state of a game.
type GameState string

const (
	GameStatePicking   GameState = "Picking"
	GameStateUndecided GameState = "Undecided"
	GameStateDecided   GameState = "Decided"
	GameStateDraw      GameState = "Draw"
	GameStateCanceled  GameState = "Canceled"
)

var gameTransitions = map[GameState][]GameState{
	GameStatePicking:   {GameStateUndecided, GameStateCanceled},
	GameStateUndecided: {GameStateDecided, GameStateDraw},
}

// CanTransitionTo reports whether the state machine permits s -> next.
// Decided, Draw and Canceled are terminal.
func (s GameState) CanTransitionTo(next GameState) bool {
	for _, allowed := range gameTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s GameState) Terminal() bool {
	return len(gameTransitions[s]) == 0
}

// Game is one drafted match in a lobby.
type Game struct {
	GuildID     GuildID
	ChannelID   ChannelID
	GameID      GameID
	State       GameState
	PickOrder   PickOrder
	Picks       int
	WinningTeam TeamNumber
	CreatedAt   time.Time
}

// Transition moves the game to next, or returns an error if the state machine forbids it.
func (g *Game) Transition(next GameState) error {
	if !g.State.CanTransitionTo(next) {
		return fmt.Errorf("game %d: invalid transition %s -> %s", g.GameID, g.State, next)
	}
	g.State = next
	return nil
}

// TeamPlayer assigns a user to a team for one game.
type TeamPlayer struct {
	GuildID    GuildID
	ChannelID  ChannelID
	GameID     GameID
	UserID     UserID
	TeamNumber TeamNumber
}

// TeamCaptain is the single captain of one team in one game.
type TeamCaptain struct {
	GuildID    GuildID
	ChannelID  ChannelID
	GameID     GameID
	UserID     UserID
	TeamNumber TeamNumber
}
