package matchmigrations

import (
	"context"
	"fmt"

	matchdb "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating matches table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*matchdb.Match)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create matches table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_matches_winner_key ON matches(winner_key, played_at DESC);
				CREATE INDEX IF NOT EXISTS idx_matches_loser_key ON matches(loser_key, played_at DESC);
				CREATE INDEX IF NOT EXISTS idx_matches_season_id ON matches(season_id);
			`); err != nil {
				return fmt.Errorf("failed to create match indexes: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping matches table...")
		_, err := db.NewDropTable().Model((*matchdb.Match)(nil)).IfExists().Cascade().Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop matches table: %w", err)
		}
		return nil
	})
}
