package lobbydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	scoredb "github.com/brett-phillips/ELO/app/modules/score/infrastructure/repositories"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

func (r *Impl) GetPlayer(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID) (*sharedtypes.Player, error) {
	var p scoredb.Player
	err := r.conn(db).NewSelect().
		Model(&p).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lobbydb.GetPlayer: %w", err)
	}
	out := scoredb.ToSharedPlayer(&p)
	return &out, nil
}

func (r *Impl) GetPlayers(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userIDs []sharedtypes.UserID) (map[sharedtypes.UserID]sharedtypes.Player, error) {
	out := make(map[sharedtypes.UserID]sharedtypes.Player, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []scoredb.Player
	err := r.conn(db).NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		Where("user_id IN (?)", bun.In(userIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lobbydb.GetPlayers: %w", err)
	}
	for i := range rows {
		out[rows[i].UserID] = scoredb.ToSharedPlayer(&rows[i])
	}
	return out, nil
}

func (r *Impl) GetActiveBan(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID, now time.Time) (*sharedtypes.Ban, error) {
	var b Ban
	err := r.conn(db).NewSelect().
		Model(&b).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Where("manually_disabled = FALSE").
		Where("time_of_ban + make_interval(secs => length_seconds) > ?", now).
		Order("time_of_ban DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lobbydb.GetActiveBan: %w", err)
	}
	return toSharedBan(&b), nil
}

func (r *Impl) GetCompetition(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*sharedtypes.Competition, error) {
	var c scoredb.Competition
	err := r.conn(db).NewSelect().
		Model(&c).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lobbydb.GetCompetition: %w", err)
	}
	return scoredb.ToSharedCompetition(&c), nil
}

func secondsToDuration(s int64) time.Duration {
	return time.Duration(s) * time.Second
}
