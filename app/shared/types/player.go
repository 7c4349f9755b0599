package sharedtypes

import (
	"sort"
	"time"
)

// Player is a registered member of a competition.
type Player struct {
	GuildID          GuildID
	UserID           UserID
	DisplayName      string
	Points           int
	Wins             int
	Losses           int
	Draws            int
	Kills            int
	Deaths           int
	RegistrationDate time.Time
}

// Rank is a points threshold with optional custom modifiers, usually tied to a role.
type Rank struct {
	GuildID         GuildID
	RoleID          RoleID
	PointsThreshold int
	WinModifier     *int
	LossModifier    *int
}

// EffectiveRank returns the highest-threshold rank of guildID with a
// threshold at or below points, or nil.
func EffectiveRank(guildID GuildID, points int, ranks []Rank) *Rank {
	var best *Rank
	for i := range ranks {
		r := &ranks[i]
		if r.GuildID != guildID || r.PointsThreshold > points {
			continue
		}
		if best == nil || r.PointsThreshold > best.PointsThreshold {
			best = r
		}
	}
	return best
}

// SortRanks orders ranks by ascending threshold.
func SortRanks(ranks []Rank) {
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].PointsThreshold < ranks[j].PointsThreshold
	})
}

// Ban blocks a user from queueing until TimeOfBan+Length, unless manually disabled.
type Ban struct {
	ID               int64
	GuildID          GuildID
	UserID           UserID
	TimeOfBan        time.Time
	Length           time.Duration
	Reason           string
	ManuallyDisabled bool
}

// ExpiresAt is the instant the ban stops applying.
func (b *Ban) ExpiresAt() time.Time {
	return b.TimeOfBan.Add(b.Length)
}

// IsActive reports whether the ban applies at now.
func (b *Ban) IsActive(now time.Time) bool {
	return !b.ManuallyDisabled && b.ExpiresAt().After(now)
}

const (
	DefaultWinModifier  = 10
	DefaultLossModifier = 5
)

// Competition holds guild-wide scoring and queueing settings.
type Competition struct {
	GuildID              GuildID
	DefaultRegisterScore int
	DefaultWinModifier   int
	DefaultLossModifier  int
	AllowNegativeScore   bool
	AllowMultiQueueing   bool
	RequeueDelay         *time.Duration
	QueueTimeout         *time.Duration
}

// NewCompetition returns a competition with default settings.
func NewCompetition(guildID GuildID) *Competition {
	return &Competition{
		GuildID:             guildID,
		DefaultWinModifier:  DefaultWinModifier,
		DefaultLossModifier: DefaultLossModifier,
		AllowMultiQueueing:  true,
	}
}
