package portalstore

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/n1protocol/portal/pkg/pgutil"
	mghelper "github.com/n1protocol/portal/pkg/pgutil/migrations"
	"github.com/n1protocol/portal/pkg/portal"
)

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()
	requireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	err := mghelper.CreateSchema(ctx, db,
		&DonationDao{},
		&LedgerEntryDao{},
		&PrescriberDao{},
		&FeedbackDao{},
		&TeamApplicationDao{},
		&EmailSignupDao{},
	)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return ctx, NewStore(db)
}

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

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed portalstore tests")
}

func newTestEntry(story string) *portal.LedgerEntry {
	return &portal.LedgerEntry{
		Story:       story,
		DisplayName: "J.",
		Before:      portal.ScaleMetrics{Loved: 2, Suicidal: 8, Depression: 9, Anxiety: 8, Hope: 1, Belonging: 2},
		After:       portal.ScaleMetrics{Loved: 8, Suicidal: 1, Depression: 2, Anxiety: 3, Hope: 9, Belonging: 8},
		Status:      portal.LedgerPending,
	}
}

func newTestPrescriber(name, city string) *portal.Prescriber {
	return &portal.Prescriber{
		Name:         name,
		Credentials:  "MD",
		Email:        "dr@example.com",
		City:         city,
		State:        "CO",
		Country:      "US",
		Telemedicine: true,
		Status:       portal.PrescriberPending,
	}
}

func assertDecimalEqual(t *testing.T, got, want string) {
	t.Helper()

	gotDec, err := decimal.NewFromString(got)
	if err != nil {
		t.Fatalf("failed to parse got decimal %q: %v", got, err)
	}
	wantDec, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("failed to parse want decimal %q: %v", want, err)
	}
	if !gotDec.Equal(wantDec) {
		t.Fatalf("decimal mismatch: got %s want %s", gotDec.String(), wantDec.String())
	}
}

func TestDonationStore(t *testing.T) {
	ctx, store := setupStore(t)

	wall := &portal.Donation{
		ReceiptID:     uuid.NewString(),
		AmountUSD:     "50.00",
		Currency:      "USD",
		TokenAmount:   "50.000000000000000000",
		TokenSymbol:   "USDC",
		ChainID:       137,
		TxHash:        "0xaa11bb22cc33dd44ee55ff66aa77bb88cc99dd00ee11ff22aa33bb44cc55dd66",
		WalletAddress: "0x1111111111111111111111111111111111111111",
		DisplayName:   "Friend",
		Message:       "keep going",
		ShowOnWall:    true,
	}
	if err := store.CreateDonation(ctx, wall); err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}
	if wall.ID == 0 {
		t.Fatal("expected assigned donation id")
	}
	if wall.CreatedAt.IsZero() {
		t.Fatal("expected assigned creation timestamp")
	}

	private := &portal.Donation{
		ReceiptID:     uuid.NewString(),
		AmountUSD:     "10.00",
		Currency:      "USD",
		TokenAmount:   "0.002840000000000000",
		TokenSymbol:   "ETH",
		ChainID:       1,
		TxHash:        "0xbb22cc33dd44ee55ff66aa77bb88cc99dd00ee11ff22aa33bb44cc55dd66aa11",
		WalletAddress: "0x2222222222222222222222222222222222222222",
		IsAnonymous:   true,
		ShowOnWall:    false,
	}
	if err := store.CreateDonation(ctx, private); err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}

	listed, err := store.ListWallDonations(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list donations: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 wall donation, got %d", len(listed))
	}
	if listed[0].ReceiptID != wall.ReceiptID {
		t.Fatalf("expected wall donation %s, got %s", wall.ReceiptID, listed[0].ReceiptID)
	}
	assertDecimalEqual(t, listed[0].AmountUSD, "50.00")
	assertDecimalEqual(t, listed[0].TokenAmount, "50")
}

func TestLedgerStoreLifecycle(t *testing.T) {
	ctx, store := setupStore(t)

	entry := newTestEntry("a story long enough to persist")
	if err := store.CreateLedgerEntry(ctx, entry); err != nil {
		t.Fatalf("failed to create ledger entry: %v", err)
	}
	if entry.ID == 0 {
		t.Fatal("expected assigned ledger entry id")
	}

	got, err := store.GetLedgerEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("failed to get ledger entry: %v", err)
	}
	if got.Status != portal.LedgerPending {
		t.Fatalf("expected pending status, got %s", got.Status)
	}
	if got.Before.Suicidal != 8 || got.After.Hope != 9 {
		t.Fatalf("scale metrics did not round-trip: before=%+v after=%+v", got.Before, got.After)
	}

	approved := portal.LedgerApproved
	updated, err := store.UpdateLedgerEntry(ctx, entry.ID, portal.LedgerChange{Status: &approved})
	if err != nil {
		t.Fatalf("failed to update ledger entry: %v", err)
	}
	if updated.Status != portal.LedgerApproved {
		t.Fatalf("expected approved status, got %s", updated.Status)
	}

	featured := true
	updated, err = store.UpdateLedgerEntry(ctx, entry.ID, portal.LedgerChange{Featured: &featured})
	if err != nil {
		t.Fatalf("failed to feature ledger entry: %v", err)
	}
	if !updated.Featured {
		t.Fatal("expected featured entry")
	}
	if updated.Status != portal.LedgerApproved {
		t.Fatalf("featuring must not touch status, got %s", updated.Status)
	}

	for i := 0; i < 3; i++ {
		if updated, err = store.IncrementHearts(ctx, entry.ID); err != nil {
			t.Fatalf("failed to increment hearts: %v", err)
		}
	}
	if updated.HeartCount != 3 {
		t.Fatalf("expected 3 hearts, got %d", updated.HeartCount)
	}

	if err := store.DeleteLedgerEntry(ctx, entry.ID); err != nil {
		t.Fatalf("failed to delete ledger entry: %v", err)
	}
	if _, err := store.GetLedgerEntry(ctx, entry.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestLedgerStoreQueries(t *testing.T) {
	ctx, store := setupStore(t)

	pending := newTestEntry("still waiting for review")
	if err := store.CreateLedgerEntry(ctx, pending); err != nil {
		t.Fatalf("failed to create ledger entry: %v", err)
	}

	loved := newTestEntry("the most hearted story")
	if err := store.CreateLedgerEntry(ctx, loved); err != nil {
		t.Fatalf("failed to create ledger entry: %v", err)
	}
	quiet := newTestEntry("an approved but quiet story")
	if err := store.CreateLedgerEntry(ctx, quiet); err != nil {
		t.Fatalf("failed to create ledger entry: %v", err)
	}

	approved := portal.LedgerApproved
	for _, id := range []int64{loved.ID, quiet.ID} {
		if _, err := store.UpdateLedgerEntry(ctx, id, portal.LedgerChange{Status: &approved}); err != nil {
			t.Fatalf("failed to approve ledger entry: %v", err)
		}
	}
	for i := 0; i < 5; i++ {
		if _, err := store.IncrementHearts(ctx, loved.ID); err != nil {
			t.Fatalf("failed to increment hearts: %v", err)
		}
	}

	approvedOnly, err := store.ListLedgerEntries(ctx, LedgerQuery{Status: portal.LedgerApproved})
	if err != nil {
		t.Fatalf("failed to list ledger entries: %v", err)
	}
	if len(approvedOnly) != 2 {
		t.Fatalf("expected 2 approved entries, got %d", len(approvedOnly))
	}
	for _, e := range approvedOnly {
		if e.ID == pending.ID {
			t.Fatal("status filter leaked a pending entry")
		}
	}

	byLove, err := store.ListLedgerEntries(ctx, LedgerQuery{Status: portal.LedgerApproved, Sort: SortLoved})
	if err != nil {
		t.Fatalf("failed to list ledger entries by hearts: %v", err)
	}
	if byLove[0].ID != loved.ID {
		t.Fatalf("expected most hearted entry first, got id %d", byLove[0].ID)
	}

	limited, err := store.ListLedgerEntries(ctx, LedgerQuery{Limit: 1})
	if err != nil {
		t.Fatalf("failed to list ledger entries with limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(limited))
	}
}

func TestLedgerStoreNotFound(t *testing.T) {
	ctx, store := setupStore(t)

	if _, err := store.GetLedgerEntry(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	approved := portal.LedgerApproved
	if _, err := store.UpdateLedgerEntry(ctx, 404, portal.LedgerChange{Status: &approved}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := store.IncrementHearts(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.DeleteLedgerEntry(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPrescriberStore(t *testing.T) {
	ctx, store := setupStore(t)

	denver := newTestPrescriber("Dr. Denver", "Denver")
	if err := store.CreatePrescriber(ctx, denver); err != nil {
		t.Fatalf("failed to create prescriber: %v", err)
	}

	boulder := newTestPrescriber("Dr. Boulder", "Boulder")
	boulder.Telemedicine = false
	boulder.Insurance = true
	if err := store.CreatePrescriber(ctx, boulder); err != nil {
		t.Fatalf("failed to create prescriber: %v", err)
	}

	approved := portal.PrescriberApproved
	if _, err := store.UpdatePrescriber(ctx, denver.ID, portal.PrescriberChange{Status: &approved}); err != nil {
		t.Fatalf("failed to approve prescriber: %v", err)
	}

	approvedOnly, err := store.ListPrescribers(ctx, PrescriberQuery{Status: portal.PrescriberApproved})
	if err != nil {
		t.Fatalf("failed to list prescribers: %v", err)
	}
	if len(approvedOnly) != 1 || approvedOnly[0].ID != denver.ID {
		t.Fatalf("expected only the approved prescriber, got %d results", len(approvedOnly))
	}

	byCity, err := store.ListPrescribers(ctx, PrescriberQuery{City: "boulder"})
	if err != nil {
		t.Fatalf("failed to filter prescribers by city: %v", err)
	}
	if len(byCity) != 1 || byCity[0].ID != boulder.ID {
		t.Fatalf("expected case-insensitive city match, got %d results", len(byCity))
	}

	tele := true
	byTele, err := store.ListPrescribers(ctx, PrescriberQuery{Telemedicine: &tele})
	if err != nil {
		t.Fatalf("failed to filter prescribers by telemedicine: %v", err)
	}
	if len(byTele) != 1 || byTele[0].ID != denver.ID {
		t.Fatalf("expected one telemedicine prescriber, got %d results", len(byTele))
	}

	verified := true
	updated, err := store.UpdatePrescriber(ctx, boulder.ID, portal.PrescriberChange{Verified: &verified})
	if err != nil {
		t.Fatalf("failed to verify prescriber: %v", err)
	}
	if !updated.Verified {
		t.Fatal("expected verified prescriber")
	}
	if updated.Status != portal.PrescriberPending {
		t.Fatalf("verification must not touch status, got %s", updated.Status)
	}

	if err := store.DeletePrescriber(ctx, boulder.ID); err != nil {
		t.Fatalf("failed to delete prescriber: %v", err)
	}
	if _, err := store.GetPrescriber(ctx, boulder.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFeedbackStore(t *testing.T) {
	ctx, store := setupStore(t)

	fb := &portal.Feedback{
		Name:    "A user",
		Email:   "user@example.com",
		Type:    portal.FeedbackSuggestion,
		Message: "a suggestion worth reading",
		Status:  portal.FeedbackUnread,
	}
	if err := store.CreateFeedback(ctx, fb); err != nil {
		t.Fatalf("failed to create feedback: %v", err)
	}

	updated, err := store.UpdateFeedbackStatus(ctx, fb.ID, portal.FeedbackRead)
	if err != nil {
		t.Fatalf("failed to update feedback: %v", err)
	}
	if updated.Status != portal.FeedbackRead {
		t.Fatalf("expected read status, got %s", updated.Status)
	}

	unread, err := store.ListFeedback(ctx, FeedbackQuery{Status: portal.FeedbackUnread})
	if err != nil {
		t.Fatalf("failed to list feedback: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("expected no unread feedback, got %d", len(unread))
	}

	if err := store.DeleteFeedback(ctx, fb.ID); err != nil {
		t.Fatalf("failed to delete feedback: %v", err)
	}
	if _, err := store.GetFeedback(ctx, fb.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTeamStore(t *testing.T) {
	ctx, store := setupStore(t)

	app := &portal.TeamApplication{
		Name:      "Volunteer",
		Email:     "volunteer@example.com",
		Languages: "en, es",
		Location:  "Lisbon",
		Message:   "I would like to help",
	}
	if err := store.CreateTeamApplication(ctx, app); err != nil {
		t.Fatalf("failed to create team application: %v", err)
	}

	apps, err := store.ListTeamApplications(ctx)
	if err != nil {
		t.Fatalf("failed to list team applications: %v", err)
	}
	if len(apps) != 1 || apps[0].Email != app.Email {
		t.Fatalf("expected the created application, got %d results", len(apps))
	}

	if err := store.DeleteTeamApplication(ctx, app.ID); err != nil {
		t.Fatalf("failed to delete team application: %v", err)
	}
	if err := store.DeleteTeamApplication(ctx, app.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestEmailSignupIdempotent(t *testing.T) {
	ctx, store := setupStore(t)

	for i := 0; i < 3; i++ {
		if err := store.CreateEmailSignup(ctx, "repeat@example.com"); err != nil {
			t.Fatalf("failed to create email signup: %v", err)
		}
	}

	stats, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("failed to read stats: %v", err)
	}
	if stats.EmailSignups != 1 {
		t.Fatalf("expected 1 signup after repeats, got %d", stats.EmailSignups)
	}
}

func TestCounts(t *testing.T) {
	ctx, store := setupStore(t)

	for _, story := range []string{"first story", "second story"} {
		if err := store.CreateLedgerEntry(ctx, newTestEntry(story)); err != nil {
			t.Fatalf("failed to create ledger entry: %v", err)
		}
	}
	if err := store.CreatePrescriber(ctx, newTestPrescriber("Dr. Stats", "Austin")); err != nil {
		t.Fatalf("failed to create prescriber: %v", err)
	}
	for _, amount := range []string{"25.00", "75.00"} {
		d := &portal.Donation{
			ReceiptID:     uuid.NewString(),
			AmountUSD:     amount,
			Currency:      "USD",
			TokenAmount:   amount,
			TokenSymbol:   "DAI",
			ChainID:       137,
			TxHash:        "0x" + uuid.NewString(),
			WalletAddress: "0x3333333333333333333333333333333333333333",
		}
		if err := store.CreateDonation(ctx, d); err != nil {
			t.Fatalf("failed to create donation: %v", err)
		}
	}

	stats, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("failed to read stats: %v", err)
	}
	if stats.LedgerByStatus[portal.LedgerPending] != 2 {
		t.Fatalf("expected 2 pending entries, got %d", stats.LedgerByStatus[portal.LedgerPending])
	}
	if stats.PrescriberByStatus[portal.PrescriberPending] != 1 {
		t.Fatalf("expected 1 pending prescriber, got %d", stats.PrescriberByStatus[portal.PrescriberPending])
	}
	if stats.DonationCount != 2 {
		t.Fatalf("expected 2 donations, got %d", stats.DonationCount)
	}
	assertDecimalEqual(t, stats.DonationTotalUSD, "100.00")
}
