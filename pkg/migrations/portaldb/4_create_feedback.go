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
		log.Println("creating feedback table...")
		if err := mghelper.CreateSchema(ctx, db, &portalstore.FeedbackDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &portalstore.FeedbackDao{}, "status")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping feedback table...")
		return mghelper.DropTables(ctx, db, &portalstore.FeedbackDao{})
	})
}
