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
		log.Println("creating donations table...")
		if err := mghelper.CreateSchema(ctx, db, &portalstore.DonationDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &portalstore.DonationDao{}, "show_on_wall", "created_at")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping donations table...")
		return mghelper.DropTables(ctx, db, &portalstore.DonationDao{})
	})
}
