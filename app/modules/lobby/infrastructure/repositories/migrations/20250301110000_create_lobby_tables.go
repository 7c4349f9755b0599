package lobbymigrations

import (
	"context"
	"fmt"

	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	models := []any{
		(*lobbydb.Lobby)(nil),
		(*lobbydb.QueuedPlayer)(nil),
		(*lobbydb.Game)(nil),
		(*lobbydb.TeamCaptain)(nil),
		(*lobbydb.TeamPlayer)(nil),
		(*lobbydb.Ban)(nil),
	}

	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating lobby, queue, game and ban tables...")
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*lobbydb.Lobby)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create lobbies table: %w", err)
			}
			if _, err := tx.NewCreateTable().
				Model((*lobbydb.QueuedPlayer)(nil)).
				IfNotExists().
				ForeignKey(`("channel_id") REFERENCES "lobbies" ("channel_id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create queued_players table: %w", err)
			}
			if _, err := tx.NewCreateTable().
				Model((*lobbydb.Game)(nil)).
				IfNotExists().
				ForeignKey(`("channel_id") REFERENCES "lobbies" ("channel_id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create games table: %w", err)
			}
			for _, m := range []any{(*lobbydb.TeamCaptain)(nil), (*lobbydb.TeamPlayer)(nil)} {
				if _, err := tx.NewCreateTable().
					Model(m).
					IfNotExists().
					ForeignKey(`("channel_id", "game_id") REFERENCES "games" ("channel_id", "game_id") ON DELETE CASCADE`).
					Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table for %T: %w", m, err)
				}
			}
			if _, err := tx.NewCreateTable().Model((*lobbydb.Ban)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create bans table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_lobbies_guild ON lobbies(guild_id);
				CREATE INDEX IF NOT EXISTS idx_queued_players_guild_user ON queued_players(guild_id, user_id);
				CREATE INDEX IF NOT EXISTS idx_queued_players_channel_time ON queued_players(channel_id, queued_at);
				CREATE INDEX IF NOT EXISTS idx_games_channel_state ON games(channel_id, state);
				CREATE INDEX IF NOT EXISTS idx_bans_guild_user ON bans(guild_id, user_id);
			`); err != nil {
				return fmt.Errorf("failed to add lobby indexes: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping lobby, queue, game and ban tables...")
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for i := len(models) - 1; i >= 0; i-- {
				if _, err := tx.NewDropTable().Model(models[i]).IfExists().Cascade().Exec(ctx); err != nil {
					return fmt.Errorf("failed to drop table for %T: %w", models[i], err)
				}
			}
			return nil
		})
	})
}
