package lobbymigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the lobby module's schema history.
var Migrations = migrate.NewMigrations()
