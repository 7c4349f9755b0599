package scoremigrations

import (
	"context"
	"fmt"

	scoredb "github.com/brett-phillips/ELO/app/modules/score/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	models := []any{
		(*scoredb.Competition)(nil),
		(*scoredb.Player)(nil),
		(*scoredb.Rank)(nil),
	}

	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating competitions, players and ranks tables...")
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, m := range models {
				if _, err := tx.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table for %T: %w", m, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_players_guild_points ON players(guild_id, points DESC);
			`); err != nil {
				return fmt.Errorf("failed to add players index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping competitions, players and ranks tables...")
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
