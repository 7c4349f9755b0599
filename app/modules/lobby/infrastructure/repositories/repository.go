package lobbydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

// --- Lobbies ---

func (r *Impl) GetLobby(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (*sharedtypes.Lobby, error) {
	var l Lobby
	err := r.conn(db).NewSelect().
		Model(&l).
		Where("channel_id = ?", channelID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lobbydb.GetLobby: %w", err)
	}
	return toSharedLobby(&l), nil
}

func (r *Impl) LockLobby(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (*sharedtypes.Lobby, error) {
	var l Lobby
	err := r.conn(db).NewSelect().
		Model(&l).
		Where("channel_id = ?", channelID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lobbydb.LockLobby: %w", err)
	}
	return toSharedLobby(&l), nil
}

func (r *Impl) CreateLobby(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) error {
	res, err := r.conn(db).NewInsert().
		Model(toDBLobby(lobby)).
		On("CONFLICT (channel_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lobbydb.CreateLobby: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *Impl) UpdateLobby(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) error {
	res, err := r.conn(db).NewUpdate().
		Model(toDBLobby(lobby)).
		ExcludeColumn("created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lobbydb.UpdateLobby: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) DeleteLobby(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) error {
	conn := r.conn(db)
	// Child tables first; the migration also declares ON DELETE CASCADE.
	for _, model := range []any{(*TeamPlayer)(nil), (*TeamCaptain)(nil), (*Game)(nil), (*QueuedPlayer)(nil)} {
		if _, err := conn.NewDelete().Model(model).Where("channel_id = ?", channelID).Exec(ctx); err != nil {
			return fmt.Errorf("lobbydb.DeleteLobby: %w", err)
		}
	}
	res, err := conn.NewDelete().
		Model((*Lobby)(nil)).
		Where("channel_id = ?", channelID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lobbydb.DeleteLobby: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

type lobbyWithTimeout struct {
	Lobby               `bun:",extend"`
	QueueTimeoutSeconds int64 `bun:"queue_timeout_seconds"`
}

func (r *Impl) ListTimeoutLobbies(ctx context.Context, db bun.IDB) ([]TimeoutLobby, error) {
	var rows []lobbyWithTimeout
	err := r.conn(db).NewSelect().
		Model(&rows).
		ColumnExpr("l.*").
		ColumnExpr("cp.queue_timeout_seconds").
		Join("JOIN competitions AS cp ON cp.guild_id = l.guild_id").
		Where("cp.queue_timeout_seconds > 0").
		Order("l.channel_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lobbydb.ListTimeoutLobbies: %w", err)
	}
	out := make([]TimeoutLobby, len(rows))
	for i := range rows {
		out[i] = TimeoutLobby{
			Lobby:   *toSharedLobby(&rows[i].Lobby),
			Timeout: secondsToDuration(rows[i].QueueTimeoutSeconds),
		}
	}
	return out, nil
}
