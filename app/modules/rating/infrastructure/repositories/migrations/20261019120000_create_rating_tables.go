package ratingmigrations

import (
	"context"
	"fmt"

	ratingdb "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rating_players and rating_settings tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*ratingdb.Player)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create rating_players table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_rating_players_discord_id
				ON rating_players(discord_id) WHERE discord_id IS NOT NULL;
			`); err != nil {
				return fmt.Errorf("failed to create discord_id index: %w", err)
			}
			if _, err := tx.NewCreateTable().Model((*ratingdb.Settings)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create rating_settings table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping rating tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewDropTable().Model((*ratingdb.Settings)(nil)).IfExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop rating_settings table: %w", err)
			}
			if _, err := tx.NewDropTable().Model((*ratingdb.Player)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop rating_players table: %w", err)
			}
			return nil
		})
	})
}
