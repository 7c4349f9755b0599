package scoredb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// Impl is the Postgres implementation of Repository.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a Repository on db.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

var _ Repository = (*Impl)(nil)

func (r *Impl) conn(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetPlayer(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID) (*sharedtypes.Player, error) {
	var p Player
	err := r.conn(db).NewSelect().
		Model(&p).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scoredb.GetPlayer: %w", err)
	}
	out := toSharedPlayer(&p)
	return &out, nil
}

func (r *Impl) GetPlayers(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userIDs []sharedtypes.UserID) (map[sharedtypes.UserID]sharedtypes.Player, error) {
	out := make(map[sharedtypes.UserID]sharedtypes.Player, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []Player
	err := r.conn(db).NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		Where("user_id IN (?)", bun.In(userIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoredb.GetPlayers: %w", err)
	}
	for i := range rows {
		out[rows[i].UserID] = toSharedPlayer(&rows[i])
	}
	return out, nil
}

func (r *Impl) CreatePlayer(ctx context.Context, db bun.IDB, player *sharedtypes.Player) error {
	res, err := r.conn(db).NewInsert().
		Model(toDBPlayer(player)).
		On("CONFLICT (guild_id, user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoredb.CreatePlayer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *Impl) UpdatePlayers(ctx context.Context, db bun.IDB, players []sharedtypes.Player) error {
	if len(players) == 0 {
		return nil
	}
	rows := make([]*Player, len(players))
	for i := range players {
		rows[i] = toDBPlayer(&players[i])
	}
	_, err := r.conn(db).NewUpdate().
		With("_data", r.conn(db).NewValues(&rows)).
		Model((*Player)(nil)).
		TableExpr("_data").
		Set("points = _data.points").
		Set("wins = _data.wins").
		Set("losses = _data.losses").
		Set("draws = _data.draws").
		Set("kills = _data.kills").
		Set("deaths = _data.deaths").
		Set("updated_at = _data.updated_at").
		Where("p.guild_id = _data.guild_id").
		Where("p.user_id = _data.user_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoredb.UpdatePlayers: %w", err)
	}
	return nil
}

func (r *Impl) ResetPlayers(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, points int) (int, error) {
	res, err := r.conn(db).NewUpdate().
		Model((*Player)(nil)).
		Set("points = ?", points).
		Set("wins = 0").
		Set("losses = 0").
		Set("draws = 0").
		Set("kills = 0").
		Set("deaths = 0").
		Set("updated_at = ?", time.Now().UTC()).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("scoredb.ResetPlayers: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *Impl) GetRanks(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]sharedtypes.Rank, error) {
	var rows []Rank
	err := r.conn(db).NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		Order("points_threshold ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoredb.GetRanks: %w", err)
	}
	out := make([]sharedtypes.Rank, len(rows))
	for i := range rows {
		out[i] = toSharedRank(&rows[i])
	}
	return out, nil
}

func (r *Impl) UpsertRank(ctx context.Context, db bun.IDB, rank *sharedtypes.Rank) error {
	row := &Rank{
		GuildID:         rank.GuildID,
		RoleID:          rank.RoleID,
		PointsThreshold: rank.PointsThreshold,
		WinModifier:     rank.WinModifier,
		LossModifier:    rank.LossModifier,
	}
	_, err := r.conn(db).NewInsert().
		Model(row).
		On("CONFLICT (guild_id, role_id) DO UPDATE").
		Set("points_threshold = EXCLUDED.points_threshold").
		Set("win_modifier = EXCLUDED.win_modifier").
		Set("loss_modifier = EXCLUDED.loss_modifier").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoredb.UpsertRank: %w", err)
	}
	return nil
}

func (r *Impl) DeleteRank(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) error {
	res, err := r.conn(db).NewDelete().
		Model((*Rank)(nil)).
		Where("guild_id = ?", guildID).
		Where("role_id = ?", roleID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoredb.DeleteRank: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) GetCompetition(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*sharedtypes.Competition, error) {
	var c Competition
	err := r.conn(db).NewSelect().
		Model(&c).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scoredb.GetCompetition: %w", err)
	}
	return ToSharedCompetition(&c), nil
}

func (r *Impl) SaveCompetition(ctx context.Context, db bun.IDB, competition *sharedtypes.Competition) error {
	_, err := r.conn(db).NewInsert().
		Model(toDBCompetition(competition)).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("default_register_score = EXCLUDED.default_register_score").
		Set("default_win_modifier = EXCLUDED.default_win_modifier").
		Set("default_loss_modifier = EXCLUDED.default_loss_modifier").
		Set("allow_negative_score = EXCLUDED.allow_negative_score").
		Set("allow_multi_queueing = EXCLUDED.allow_multi_queueing").
		Set("requeue_delay_seconds = EXCLUDED.requeue_delay_seconds").
		Set("queue_timeout_seconds = EXCLUDED.queue_timeout_seconds").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoredb.SaveCompetition: %w", err)
	}
	return nil
}
