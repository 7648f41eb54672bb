package portaldb

import (
	"context"
	"log"

	mghelper "github.com/n1protocol/portal/pkg/pgutil/migrations"
	"github.com/n1protocol/portal/pkg/portalstore"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating team_applications table...")
		return mghelper.CreateSchema(ctx, db, &portalstore.TeamApplicationDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping team_applications table...")
		return mghelper.DropTables(ctx, db, &portalstore.TeamApplicationDao{})
	})
}
