package lobbydb

import (
	"context"
	"time"

	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// TimeoutLobby pairs a lobby with its competition's queue timeout.
type TimeoutLobby struct {
	Lobby   sharedtypes.Lobby
	Timeout time.Duration
}

// Repository defines the contract for lobby, queue and draft persistence.
// Every method accepts a bun.IDB so a service can compose several calls
// into one transaction; a nil db uses the repository's own connection.
//
// Error semantics:
//   - ErrNotFound: lobby, game, ban, player or competition does not exist
//   - ErrAlreadyExists: insert hit an existing key
//   - ErrNoRowsAffected: UPDATE/DELETE matched no rows
//   - Other errors: infrastructure failures
type Repository interface {
	// GetLobby reads a lobby without locking.
	GetLobby(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (*sharedtypes.Lobby, error)

	// LockLobby reads a lobby with SELECT ... FOR UPDATE. Inside a transaction
	// this serializes every mutation of the lobby's queue and games.
	LockLobby(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (*sharedtypes.Lobby, error)

	CreateLobby(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) error
	UpdateLobby(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) error

	// DeleteLobby removes the lobby with its games, captains, team players and queue.
	DeleteLobby(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) error

	// ListTimeoutLobbies returns every lobby whose competition has a queue timeout.
	ListTimeoutLobbies(ctx context.Context, db bun.IDB) ([]TimeoutLobby, error)

	// GetQueue returns the lobby queue ordered by queued_at.
	GetQueue(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) ([]sharedtypes.QueuedPlayer, error)

	// GetQueues loads the queues of many lobbies in one query.
	GetQueues(ctx context.Context, db bun.IDB, channelIDs []sharedtypes.ChannelID) (map[sharedtypes.ChannelID][]sharedtypes.QueuedPlayer, error)

	// LockQueueMembership takes a transaction-scoped advisory lock on the
	// guild user, serializing membership checks across lobbies. db must be a
	// transaction.
	LockQueueMembership(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID) error

	// IsQueuedElsewhere reports whether userID is queued in any other lobby of the guild.
	IsQueuedElsewhere(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID, except sharedtypes.ChannelID) (bool, error)

	// AddQueuedPlayer returns ErrAlreadyExists if the user is already queued in the channel.
	AddQueuedPlayer(ctx context.Context, db bun.IDB, player *sharedtypes.QueuedPlayer) error

	RemoveQueuedPlayers(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, userIDs []sharedtypes.UserID) (int, error)
	ClearQueue(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (int, error)
	ReplaceQueuedPlayer(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, oldUser, newUser sharedtypes.UserID) error

	// GetLatestGame returns the highest-numbered game of the lobby, or ErrNotFound.
	GetLatestGame(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (*sharedtypes.Game, error)

	// GetLatestGames returns the latest game of each lobby that has one.
	GetLatestGames(ctx context.Context, db bun.IDB, channelIDs []sharedtypes.ChannelID) (map[sharedtypes.ChannelID]sharedtypes.Game, error)

	GetGame(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) (*sharedtypes.Game, error)

	// CreateGame assigns the next game number for the lobby and inserts the game.
	// Callers must hold the lobby lock.
	CreateGame(ctx context.Context, db bun.IDB, game *sharedtypes.Game) error

	UpdateGame(ctx context.Context, db bun.IDB, game *sharedtypes.Game) error

	GetCaptains(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) ([]sharedtypes.TeamCaptain, error)
	AddCaptains(ctx context.Context, db bun.IDB, captains []sharedtypes.TeamCaptain) error
	ReplaceCaptain(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID, team sharedtypes.TeamNumber, userID sharedtypes.UserID) error

	GetTeamPlayers(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) ([]sharedtypes.TeamPlayer, error)
	AddTeamPlayers(ctx context.Context, db bun.IDB, players []sharedtypes.TeamPlayer) error
	ReplaceTeamPlayer(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID, oldUser, newUser sharedtypes.UserID) error

	// GetPlayer reads the score module's players table. ErrNotFound means unregistered.
	GetPlayer(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID) (*sharedtypes.Player, error)
	GetPlayers(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userIDs []sharedtypes.UserID) (map[sharedtypes.UserID]sharedtypes.Player, error)

	// GetActiveBan returns the user's ban in force at now, or ErrNotFound.
	GetActiveBan(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID, now time.Time) (*sharedtypes.Ban, error)

	// GetCompetition returns ErrNotFound for unconfigured guilds.
	GetCompetition(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*sharedtypes.Competition, error)
}
