package scoredomain

import (
	"fmt"

	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

// Stat names one editable player statistic.
type Stat string

const (
	StatPoints Stat = "points"
	StatWins   Stat = "wins"
	StatLosses Stat = "losses"
	StatDraws  Stat = "draws"
	StatKills  Stat = "kills"
	StatDeaths Stat = "deaths"
)

// ModifyMode says whether a stat edit replaces the value or adds to it.
type ModifyMode string

const (
	ModifySet    ModifyMode = "set"
	ModifyModify ModifyMode = "modify"
)

func ParseStat(s string) (Stat, error) {
	switch st := Stat(s); st {
	case StatPoints, StatWins, StatLosses, StatDraws, StatKills, StatDeaths:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStat, s)
}

func ParseModifyMode(s string) (ModifyMode, error) {
	switch m := ModifyMode(s); m {
	case ModifySet, ModifyModify:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModifyMode, s)
}

// ApplyStat returns player with stat set to amount, or increased by it in
// Modify mode. Manual edits are not clamped.
func ApplyStat(player sharedtypes.Player, stat Stat, mode ModifyMode, amount int) (sharedtypes.Player, error) {
	field, err := statField(&player, stat)
	if err != nil {
		return player, err
	}
	switch mode {
	case ModifySet:
		*field = amount
	case ModifyModify:
		*field += amount
	default:
		return player, fmt.Errorf("%w: %q", ErrUnknownModifyMode, mode)
	}
	return player, nil
}

// StatValue reads stat from player.
func StatValue(player sharedtypes.Player, stat Stat) (int, error) {
	field, err := statField(&player, stat)
	if err != nil {
		return 0, err
	}
	return *field, nil
}

func statField(p *sharedtypes.Player, stat Stat) (*int, error) {
	switch stat {
	case StatPoints:
		return &p.Points, nil
	case StatWins:
		return &p.Wins, nil
	case StatLosses:
		return &p.Losses, nil
	case StatDraws:
		return &p.Draws, nil
	case StatKills:
		return &p.Kills, nil
	case StatDeaths:
		return &p.Deaths, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStat, stat)
}

// ResetPlayer sets points to the register score and zeroes every counter.
func ResetPlayer(player sharedtypes.Player, registerScore int) sharedtypes.Player {
	player.Points = registerScore
	player.Wins, player.Losses, player.Draws = 0, 0, 0
	player.Kills, player.Deaths = 0, 0
	return player
}
