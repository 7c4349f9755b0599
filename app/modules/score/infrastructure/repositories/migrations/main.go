package scoremigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the score module's schema history.
var Migrations = migrate.NewMigrations()
