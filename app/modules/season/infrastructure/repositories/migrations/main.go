package seasonmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the season module's schema migrations.
var Migrations = migrate.NewMigrations()
