package lobbydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

func (r *Impl) GetLatestGame(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (*sharedtypes.Game, error) {
	var g Game
	err := r.conn(db).NewSelect().
		Model(&g).
		Where("channel_id = ?", channelID).
		Order("game_id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lobbydb.GetLatestGame: %w", err)
	}
	return toSharedGame(&g), nil
}

func (r *Impl) GetLatestGames(ctx context.Context, db bun.IDB, channelIDs []sharedtypes.ChannelID) (map[sharedtypes.ChannelID]sharedtypes.Game, error) {
	out := make(map[sharedtypes.ChannelID]sharedtypes.Game, len(channelIDs))
	if len(channelIDs) == 0 {
		return out, nil
	}
	var rows []Game
	err := r.conn(db).NewSelect().
		Model(&rows).
		DistinctOn("gm.channel_id").
		Where("gm.channel_id IN (?)", bun.In(channelIDs)).
		Order("gm.channel_id ASC", "gm.game_id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lobbydb.GetLatestGames: %w", err)
	}
	for i := range rows {
		out[rows[i].ChannelID] = *toSharedGame(&rows[i])
	}
	return out, nil
}

func (r *Impl) GetGame(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) (*sharedtypes.Game, error) {
	var g Game
	err := r.conn(db).NewSelect().
		Model(&g).
		Where("channel_id = ?", channelID).
		Where("game_id = ?", gameID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lobbydb.GetGame: %w", err)
	}
	return toSharedGame(&g), nil
}

func (r *Impl) CreateGame(ctx context.Context, db bun.IDB, game *sharedtypes.Game) error {
	conn := r.conn(db)
	var next int64
	err := conn.NewSelect().
		Model((*Game)(nil)).
		ColumnExpr("COALESCE(MAX(game_id), 0) + 1").
		Where("channel_id = ?", game.ChannelID).
		Scan(ctx, &next)
	if err != nil {
		return fmt.Errorf("lobbydb.CreateGame: next id: %w", err)
	}
	game.GameID = sharedtypes.GameID(next)
	if game.CreatedAt.IsZero() {
		game.CreatedAt = time.Now().UTC()
	}
	if _, err := conn.NewInsert().Model(toDBGame(game)).Exec(ctx); err != nil {
		return fmt.Errorf("lobbydb.CreateGame: %w", err)
	}
	return nil
}

func (r *Impl) UpdateGame(ctx context.Context, db bun.IDB, game *sharedtypes.Game) error {
	res, err := r.conn(db).NewUpdate().
		Model(toDBGame(game)).
		Column("state", "picks", "winning_team", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lobbydb.UpdateGame: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) GetCaptains(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) ([]sharedtypes.TeamCaptain, error) {
	var rows []TeamCaptain
	err := r.conn(db).NewSelect().
		Model(&rows).
		Where("channel_id = ?", channelID).
		Where("game_id = ?", gameID).
		Order("team_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lobbydb.GetCaptains: %w", err)
	}
	out := make([]sharedtypes.TeamCaptain, len(rows))
	for i, c := range rows {
		out[i] = sharedtypes.TeamCaptain{
			GuildID:    c.GuildID,
			ChannelID:  c.ChannelID,
			GameID:     c.GameID,
			UserID:     c.UserID,
			TeamNumber: c.TeamNumber,
		}
	}
	return out, nil
}

func (r *Impl) AddCaptains(ctx context.Context, db bun.IDB, captains []sharedtypes.TeamCaptain) error {
	if len(captains) == 0 {
		return nil
	}
	rows := make([]TeamCaptain, len(captains))
	for i, c := range captains {
		rows[i] = TeamCaptain{
			ChannelID:  c.ChannelID,
			GameID:     c.GameID,
			TeamNumber: c.TeamNumber,
			GuildID:    c.GuildID,
			UserID:     c.UserID,
		}
	}
	if _, err := r.conn(db).NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("lobbydb.AddCaptains: %w", err)
	}
	return nil
}

func (r *Impl) ReplaceCaptain(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID, team sharedtypes.TeamNumber, userID sharedtypes.UserID) error {
	res, err := r.conn(db).NewUpdate().
		Model((*TeamCaptain)(nil)).
		Set("user_id = ?", userID).
		Where("channel_id = ?", channelID).
		Where("game_id = ?", gameID).
		Where("team_number = ?", team).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lobbydb.ReplaceCaptain: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) GetTeamPlayers(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) ([]sharedtypes.TeamPlayer, error) {
	var rows []TeamPlayer
	err := r.conn(db).NewSelect().
		Model(&rows).
		Where("channel_id = ?", channelID).
		Where("game_id = ?", gameID).
		Order("team_number ASC", "picked_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lobbydb.GetTeamPlayers: %w", err)
	}
	out := make([]sharedtypes.TeamPlayer, len(rows))
	for i, p := range rows {
		out[i] = sharedtypes.TeamPlayer{
			GuildID:    p.GuildID,
			ChannelID:  p.ChannelID,
			GameID:     p.GameID,
			UserID:     p.UserID,
			TeamNumber: p.TeamNumber,
		}
	}
	return out, nil
}

func (r *Impl) AddTeamPlayers(ctx context.Context, db bun.IDB, players []sharedtypes.TeamPlayer) error {
	if len(players) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]TeamPlayer, len(players))
	for i, p := range players {
		rows[i] = TeamPlayer{
			ChannelID:  p.ChannelID,
			GameID:     p.GameID,
			UserID:     p.UserID,
			GuildID:    p.GuildID,
			TeamNumber: p.TeamNumber,
			// Keeps insertion order stable when several rows share a statement.
			PickedAt: now.Add(time.Duration(i) * time.Microsecond),
		}
	}
	if _, err := r.conn(db).NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("lobbydb.AddTeamPlayers: %w", err)
	}
	return nil
}

func (r *Impl) ReplaceTeamPlayer(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID, oldUser, newUser sharedtypes.UserID) error {
	res, err := r.conn(db).NewUpdate().
		Model((*TeamPlayer)(nil)).
		Set("user_id = ?", newUser).
		Where("channel_id = ?", channelID).
		Where("game_id = ?", gameID).
		Where("user_id = ?", oldUser).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lobbydb.ReplaceTeamPlayer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
