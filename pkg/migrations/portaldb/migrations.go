// Package portaldb holds all the migrations for the portal database
package portaldb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the portal database
var Migrations = migrate.NewMigrations()
