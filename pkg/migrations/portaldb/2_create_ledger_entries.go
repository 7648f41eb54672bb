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
		log.Println("creating ledger_entries table...")
		if err := mghelper.CreateSchema(ctx, db, &portalstore.LedgerEntryDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &portalstore.LedgerEntryDao{}, "status", "featured", "heart_count")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping ledger_entries table...")
		return mghelper.DropTables(ctx, db, &portalstore.LedgerEntryDao{})
	})
}
