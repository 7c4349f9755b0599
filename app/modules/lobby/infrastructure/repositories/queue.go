package lobbydb

import (
	"context"
	"fmt"
	"time"

	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

func (r *Impl) GetQueue(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) ([]sharedtypes.QueuedPlayer, error) {
	var rows []QueuedPlayer
	err := r.conn(db).NewSelect().
		Model(&rows).
		Where("channel_id = ?", channelID).
		Order("queued_at ASC", "user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lobbydb.GetQueue: %w", err)
	}
	out := make([]sharedtypes.QueuedPlayer, len(rows))
	for i := range rows {
		out[i] = toSharedQueued(&rows[i])
	}
	return out, nil
}

func (r *Impl) GetQueues(ctx context.Context, db bun.IDB, channelIDs []sharedtypes.ChannelID) (map[sharedtypes.ChannelID][]sharedtypes.QueuedPlayer, error) {
	out := make(map[sharedtypes.ChannelID][]sharedtypes.QueuedPlayer, len(channelIDs))
	if len(channelIDs) == 0 {
		return out, nil
	}
	var rows []QueuedPlayer
	err := r.conn(db).NewSelect().
		Model(&rows).
		Where("channel_id IN (?)", bun.In(channelIDs)).
		Order("channel_id ASC", "queued_at ASC", "user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lobbydb.GetQueues: %w", err)
	}
	for i := range rows {
		out[rows[i].ChannelID] = append(out[rows[i].ChannelID], toSharedQueued(&rows[i]))
	}
	return out, nil
}

func (r *Impl) LockQueueMembership(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID) error {
	_, err := r.conn(db).ExecContext(ctx,
		"SELECT pg_advisory_xact_lock(hashtextextended(?, 0))",
		"queue:"+string(guildID)+":"+string(userID),
	)
	if err != nil {
		return fmt.Errorf("lobbydb.LockQueueMembership: %w", err)
	}
	return nil
}

func (r *Impl) IsQueuedElsewhere(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID, except sharedtypes.ChannelID) (bool, error) {
	exists, err := r.conn(db).NewSelect().
		Model((*QueuedPlayer)(nil)).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Where("channel_id <> ?", except).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("lobbydb.IsQueuedElsewhere: %w", err)
	}
	return exists, nil
}

func (r *Impl) AddQueuedPlayer(ctx context.Context, db bun.IDB, player *sharedtypes.QueuedPlayer) error {
	row := &QueuedPlayer{
		ChannelID: player.ChannelID,
		UserID:    player.UserID,
		GuildID:   player.GuildID,
		QueuedAt:  player.QueuedAt,
	}
	if row.QueuedAt.IsZero() {
		row.QueuedAt = time.Now().UTC()
	}
	res, err := r.conn(db).NewInsert().
		Model(row).
		On("CONFLICT (channel_id, user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lobbydb.AddQueuedPlayer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *Impl) RemoveQueuedPlayers(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, userIDs []sharedtypes.UserID) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res, err := r.conn(db).NewDelete().
		Model((*QueuedPlayer)(nil)).
		Where("channel_id = ?", channelID).
		Where("user_id IN (?)", bun.In(userIDs)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("lobbydb.RemoveQueuedPlayers: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *Impl) ClearQueue(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (int, error) {
	res, err := r.conn(db).NewDelete().
		Model((*QueuedPlayer)(nil)).
		Where("channel_id = ?", channelID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("lobbydb.ClearQueue: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *Impl) ReplaceQueuedPlayer(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, oldUser, newUser sharedtypes.UserID) error {
	res, err := r.conn(db).NewUpdate().
		Model((*QueuedPlayer)(nil)).
		Set("user_id = ?", newUser).
		Where("channel_id = ?", channelID).
		Where("user_id = ?", oldUser).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lobbydb.ReplaceQueuedPlayer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
