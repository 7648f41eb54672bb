package main

import (
	"flag"
	"log"

	"github.com/n1protocol/portal/pkg/config"
	"github.com/n1protocol/portal/pkg/migrations/portaldb"
	"github.com/n1protocol/portal/pkg/pgutil"
	mghelper "github.com/n1protocol/portal/pkg/pgutil/migrations"

	"github.com/uptrace/bun/migrate"
)

func main() {
	cfgPath := flag.String("config", "config.example.yaml", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatalf("error connecting to database: %s", err.Error())
	}
	defer db.Close()

	log.Printf("Running migrations for portal database (%s)...\n", cfg.Database.Database)

	migrator := migrate.NewMigrator(db, portaldb.Migrations)

	err = mghelper.RunMigrations(migrator, flag.Args()...)
	if err != nil {
		mghelper.Exitf(err.Error())
	}
}
