package seasonmigrations

import (
	"context"
	"fmt"

	seasondb "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating seasons table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*seasondb.Season)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create seasons table: %w", err)
			}
			// At most one row may be open at a time.
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS uq_seasons_single_open
				ON seasons ((end_date IS NULL)) WHERE end_date IS NULL;
				CREATE INDEX IF NOT EXISTS idx_seasons_start_date ON seasons(start_date DESC);
			`); err != nil {
				return fmt.Errorf("failed to create season indexes: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping seasons table...")
		_, err := db.NewDropTable().Model((*seasondb.Season)(nil)).IfExists().Cascade().Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop seasons table: %w", err)
		}
		return nil
	})
}
