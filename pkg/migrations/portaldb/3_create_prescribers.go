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
		log.Println("creating prescribers table...")
		if err := mghelper.CreateSchema(ctx, db, &portalstore.PrescriberDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &portalstore.PrescriberDao{}, "status", "state", "city")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping prescribers table...")
		return mghelper.DropTables(ctx, db, &portalstore.PrescriberDao{})
	})
}
