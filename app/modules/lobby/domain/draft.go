package lobbydomain

import (
	"fmt"
	"slices"

	"github.com/brett-phillips/ELO/app/shared/apperrors"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

// TurnTeam returns the team whose captain picks when the game has recorded
// picks invocations. Both pick orders alternate starting with team one.
func TurnTeam(picks int) sharedtypes.TeamNumber {
	if picks%2 == 0 {
		return sharedtypes.TeamOne
	}
	return sharedtypes.TeamTwo
}

// PickSize is the number of players the current turn must pick before any
// capping by pool size or free slots.
//
//	PickOne: 1, 1, 1, ...
//	PickTwo: 1, 2, 2, 1, 1, ...
func PickSize(order sharedtypes.PickOrder, picks int) int {
	if order == sharedtypes.PickTwo && (picks == 1 || picks == 2) {
		return 2
	}
	return 1
}

// AutoFillTeam is the team that receives the last pool member: the one with
// fewer players, team one on a tie.
func AutoFillTeam(team1, team2 int) sharedtypes.TeamNumber {
	if team1 > team2 {
		return sharedtypes.TeamTwo
	}
	return sharedtypes.TeamOne
}

// Draft is the in-memory view of a game being picked. Teams include their
// captains. Pool is the queued players not yet on a team, in queue order.
type Draft struct {
	Game           sharedtypes.Game
	PlayersPerTeam int
	Captains       map[sharedtypes.TeamNumber]sharedtypes.UserID
	Teams          map[sharedtypes.TeamNumber][]sharedtypes.UserID
	Pool           []sharedtypes.UserID
}

// NewDraft assembles a draft from persisted rows. Queue rows for users
// already on a team or captaining are left out of the pool.
func NewDraft(
	game sharedtypes.Game,
	playersPerTeam int,
	captains []sharedtypes.TeamCaptain,
	teamPlayers []sharedtypes.TeamPlayer,
	queue []sharedtypes.QueuedPlayer,
) *Draft {
	d := &Draft{
		Game:           game,
		PlayersPerTeam: playersPerTeam,
		Captains:       make(map[sharedtypes.TeamNumber]sharedtypes.UserID, 2),
		Teams:          make(map[sharedtypes.TeamNumber][]sharedtypes.UserID, 2),
	}
	for _, c := range captains {
		d.Captains[c.TeamNumber] = c.UserID
	}
	for _, tp := range teamPlayers {
		d.Teams[tp.TeamNumber] = append(d.Teams[tp.TeamNumber], tp.UserID)
	}
	for _, q := range queue {
		if d.onTeam(q.UserID) || d.isCaptain(q.UserID) {
			continue
		}
		d.Pool = append(d.Pool, q.UserID)
	}
	return d
}

func (d *Draft) onTeam(user sharedtypes.UserID) bool {
	return slices.Contains(d.Teams[sharedtypes.TeamOne], user) ||
		slices.Contains(d.Teams[sharedtypes.TeamTwo], user)
}

func (d *Draft) isCaptain(user sharedtypes.UserID) bool {
	_, ok := d.CaptainTeam(user)
	return ok
}

// CaptainTeam returns the team user captains, if any.
func (d *Draft) CaptainTeam(user sharedtypes.UserID) (sharedtypes.TeamNumber, bool) {
	for team, captain := range d.Captains {
		if captain == user {
			return team, true
		}
	}
	return 0, false
}

// Turn is the team whose captain must pick next.
func (d *Draft) Turn() sharedtypes.TeamNumber {
	return TurnTeam(d.Game.Picks)
}

// RequiredPicks is how many users the current turn must supply.
func (d *Draft) RequiredPicks() int {
	n := PickSize(d.Game.PickOrder, d.Game.Picks)
	n = min(n, len(d.Pool))
	n = min(n, d.PlayersPerTeam-len(d.Teams[d.Turn()]))
	return max(n, 0)
}

// Assigned is the number of players on both teams.
func (d *Draft) Assigned() int {
	return len(d.Teams[sharedtypes.TeamOne]) + len(d.Teams[sharedtypes.TeamTwo])
}

// Complete reports whether every slot is filled.
func (d *Draft) Complete() bool {
	return d.Assigned() >= d.PlayersPerTeam*2
}

// Assignment is a single team placement produced by a pick.
type Assignment struct {
	UserID sharedtypes.UserID
	Team   sharedtypes.TeamNumber
}

// PickOutcome describes what one Pick call changed.
type PickOutcome struct {
	Team     sharedtypes.TeamNumber
	Assigned []Assignment
	AutoFill *Assignment
	Complete bool
}

// Pick validates and applies one captain turn, then auto-fills the last pool
// member when only one remains. The draft is left untouched on error.
func (d *Draft) Pick(captain sharedtypes.UserID, users []sharedtypes.UserID) (*PickOutcome, error) {
	if d.Game.State != sharedtypes.GameStatePicking {
		return nil, apperrors.State(ErrNotPicking, fmt.Sprintf("game %d is %s", d.Game.GameID, d.Game.State))
	}
	team, ok := d.CaptainTeam(captain)
	if !ok {
		return nil, apperrors.State(ErrNotCaptain, string(captain))
	}
	if team != d.Turn() {
		return nil, apperrors.State(ErrNotYourTurn, fmt.Sprintf("team %d picks next", d.Turn()))
	}

	seen := make(map[sharedtypes.UserID]struct{}, len(users))
	for _, u := range users {
		if _, dup := seen[u]; dup {
			return nil, apperrors.Validation(ErrDuplicatePick, string(u))
		}
		seen[u] = struct{}{}
	}
	for _, u := range users {
		if !slices.Contains(d.Pool, u) && !d.onTeam(u) && !d.isCaptain(u) {
			return nil, apperrors.NotFound(ErrNotInPool, string(u))
		}
	}
	for _, u := range users {
		if d.onTeam(u) || d.isCaptain(u) {
			return nil, apperrors.State(ErrAlreadyPicked, string(u))
		}
	}
	if want := d.RequiredPicks(); len(users) != want {
		return nil, apperrors.Validation(ErrWrongPickCount, fmt.Sprintf("team %d must pick %d, got %d", team, want, len(users)))
	}

	out := &PickOutcome{Team: team}
	for _, u := range users {
		d.assign(u, team)
		out.Assigned = append(out.Assigned, Assignment{UserID: u, Team: team})
	}
	d.Game.Picks++

	if len(d.Pool) == 1 {
		last := d.Pool[0]
		fill := AutoFillTeam(len(d.Teams[sharedtypes.TeamOne]), len(d.Teams[sharedtypes.TeamTwo]))
		d.assign(last, fill)
		out.AutoFill = &Assignment{UserID: last, Team: fill}
	}

	out.Complete = d.Complete()
	return out, nil
}

func (d *Draft) assign(user sharedtypes.UserID, team sharedtypes.TeamNumber) {
	d.Teams[team] = append(d.Teams[team], user)
	d.Pool = slices.DeleteFunc(d.Pool, func(u sharedtypes.UserID) bool { return u == user })
}
