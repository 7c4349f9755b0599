package scoredb

import (
	"context"

	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// Repository defines the contract for player, rank and competition persistence.
// Every method accepts a bun.IDB so callers can run it inside a transaction;
// a nil db falls back to the repository's own connection.
//
// Error semantics:
//   - ErrNotFound: record does not exist
//   - ErrAlreadyExists: insert hit an existing primary key
//   - ErrNoRowsAffected: UPDATE/DELETE matched no rows
//   - Other errors: infrastructure failures
type Repository interface {
	// GetPlayer returns ErrNotFound for unregistered users.
	GetPlayer(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID) (*sharedtypes.Player, error)

	// GetPlayers returns the registered subset of userIDs keyed by user.
	GetPlayers(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userIDs []sharedtypes.UserID) (map[sharedtypes.UserID]sharedtypes.Player, error)

	// CreatePlayer returns ErrAlreadyExists when the user is already registered.
	CreatePlayer(ctx context.Context, db bun.IDB, player *sharedtypes.Player) error

	// UpdatePlayers writes points and counters for every player in one statement.
	UpdatePlayers(ctx context.Context, db bun.IDB, players []sharedtypes.Player) error

	// ResetPlayers sets every player in the guild to points and zeroes counters.
	ResetPlayers(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, points int) (int, error)

	GetRanks(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]sharedtypes.Rank, error)
	UpsertRank(ctx context.Context, db bun.IDB, rank *sharedtypes.Rank) error
	// DeleteRank returns ErrNoRowsAffected when the role has no rank.
	DeleteRank(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) error

	// GetCompetition returns ErrNotFound when the guild has never been configured.
	GetCompetition(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*sharedtypes.Competition, error)
	SaveCompetition(ctx context.Context, db bun.IDB, competition *sharedtypes.Competition) error
}
