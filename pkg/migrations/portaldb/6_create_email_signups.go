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
		log.Println("creating email_signups table...")
		if err := mghelper.CreateSchema(ctx, db, &portalstore.EmailSignupDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelUniqueIndexes(ctx, db, &portalstore.EmailSignupDao{}, "email")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping email_signups table...")
		return mghelper.DropTables(ctx, db, &portalstore.EmailSignupDao{})
	})
}
