package sharedtypes

// GuildID identifies a guild (a competition scope).
type GuildID string

// ChannelID identifies a chat channel. A lobby is keyed by its channel.
type ChannelID string

// UserID identifies a chat user.
type UserID string

// RoleID identifies a guild role, used for ranks.
type RoleID string

// GameID is the per-lobby game number. It starts at 1 and increases monotonically.
type GameID int64

func (g GuildID) String() string   { return string(g) }
func (c ChannelID) String() string { return string(c) }
func (u UserID) String() string    { return string(u) }
func (r RoleID) String() string    { return string(r) }

// TeamNumber is 1 or 2.
type TeamNumber int

const (
	TeamOne TeamNumber = 1
	TeamTwo TeamNumber = 2
)

// Other returns the opposing team.
func (t TeamNumber) Other() TeamNumber {
	if t == TeamOne {
		return TeamTwo
	}
	return TeamOne
}

// Valid reports whether t is 1 or 2.
func (t TeamNumber) Valid() bool {
	return t == TeamOne || t == TeamTwo
}
