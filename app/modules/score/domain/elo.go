package scoredomain

import (
	"fmt"
	"math"

	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

// Outcome is one player's result in a finished game.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// ParseOutcome validates an outcome name.
func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(s); o {
	case OutcomeWin, OutcomeLoss, OutcomeDraw:
		return o, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
}

// Change is the effect of ApplyResult on one player.
type Change struct {
	Player sharedtypes.Player
	// Before is the point total before the result.
	Before int
	// Delta is the applied change after rounding and clamping.
	Delta int
}

// ApplyResult returns player updated for outcome.
//
// The base modifier comes from the player's effective rank, falling back to
// the competition defaults. Wins are scaled by the lobby multiplier, losses
// only when the lobby multiplies losses. Players at or above the lobby's
// high limit have the scaled value multiplied by the reduction percent. The
// result is rounded half away from zero and, unless the competition allows
// negative scores, the new total is floored at zero. Counters move by one
// regardless of points; a draw changes no points.
func ApplyResult(
	lobby *sharedtypes.Lobby,
	competition *sharedtypes.Competition,
	player sharedtypes.Player,
	ranks []sharedtypes.Rank,
	outcome Outcome,
) Change {
	before := player.Points
	amount := pointsFor(lobby, competition, player, ranks, outcome)

	switch outcome {
	case OutcomeWin:
		player.Wins++
		player.Points += amount
	case OutcomeLoss:
		player.Losses++
		player.Points -= amount
	case OutcomeDraw:
		player.Draws++
	}

	if !competition.AllowNegativeScore && player.Points < 0 {
		player.Points = 0
	}

	return Change{Player: player, Before: before, Delta: player.Points - before}
}

// pointsFor is the unsigned amount a win or loss moves the player by.
func pointsFor(
	lobby *sharedtypes.Lobby,
	competition *sharedtypes.Competition,
	player sharedtypes.Player,
	ranks []sharedtypes.Rank,
	outcome Outcome,
) int {
	if outcome == OutcomeDraw {
		return 0
	}

	rank := sharedtypes.EffectiveRank(player.GuildID, player.Points, ranks)

	var value float64
	switch outcome {
	case OutcomeWin:
		value = float64(competition.DefaultWinModifier)
		if rank != nil && rank.WinModifier != nil {
			value = float64(*rank.WinModifier)
		}
		value *= lobby.LobbyMultiplier
	case OutcomeLoss:
		value = float64(competition.DefaultLossModifier)
		if rank != nil && rank.LossModifier != nil {
			value = float64(*rank.LossModifier)
		}
		if lobby.MultiplyLossValue {
			value *= lobby.LobbyMultiplier
		}
	}

	if lobby.HighLimit != nil && player.Points >= *lobby.HighLimit {
		value *= lobby.ReductionPercent
	}

	return int(math.Round(value))
}
