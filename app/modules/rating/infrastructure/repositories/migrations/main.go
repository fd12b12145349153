package ratingmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the rating module's schema migrations.
var Migrations = migrate.NewMigrations()
