package portaldb

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun/migrate"

	"github.com/n1protocol/portal/pkg/pgutil"
)

func requireDockerAccess(t *testing.T) {
	t.Helper()

	candidates := []string{
		"/var/run/docker.sock",
		filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock"),
	}

	for _, sock := range candidates {
		if sock == "" {
			continue
		}
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", sock)
		if err == nil {
			_ = conn.Close()
			return
		}
	}

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed migration tests")
}

func TestMigrationsApply(t *testing.T) {
	requireDockerAccess(t)

	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if group.IsZero() {
		t.Error("Expected migrations to run, but none were applied")
	}

	expectedTables := []string{
		"donations",
		"ledger_entries",
		"prescribers",
		"feedback",
		"team_applications",
		"email_signups",
		"bun_migrations",
	}
	for _, table := range expectedTables {
		pgutil.AssertTableExists(t, db, table)
	}

	pgutil.AssertIndexExists(t, db, "idx_ledger_entries_status")
	pgutil.AssertIndexExists(t, db, "idx_prescribers_state")
	pgutil.AssertIndexExists(t, db, "idx_donations_show_on_wall")
	pgutil.AssertIndexExists(t, db, "idx_email_signups_email")
}

func TestMigrationsRollback(t *testing.T) {
	requireDockerAccess(t)

	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}

	// Roll everything back one group at a time
	for {
		group, err := migrator.Rollback(ctx)
		if err != nil {
			t.Fatalf("Rollback() failed: %v", err)
		}
		if group.IsZero() {
			break
		}
	}

	pgutil.AssertTableNotExists(t, db, "donations")
	pgutil.AssertTableNotExists(t, db, "ledger_entries")
	pgutil.AssertTableNotExists(t, db, "email_signups")
}
