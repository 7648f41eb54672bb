package portalstore

import (
	"context"
	"errors"

	"github.com/n1protocol/portal/pkg/portal"
)

// ErrNotFound is returned when a lookup or single-row update matches nothing.
var ErrNotFound = errors.New("record not found")

// LedgerSort orders public ledger listings.
type LedgerSort string

const (
	SortNewest LedgerSort = "newest"
	SortLoved  LedgerSort = "loved"
)

// LedgerQuery filters and orders ledger entry listings.
type LedgerQuery struct {
	Status portal.ModerationStatus // empty = all statuses
	Sort   LedgerSort
	Limit  int
}

// PrescriberQuery filters prescriber listings.
type PrescriberQuery struct {
	Status       portal.PrescriberStatus // empty = all statuses
	State        string
	City         string
	Telemedicine *bool
	Insurance    *bool
}

// FeedbackQuery filters feedback listings.
type FeedbackQuery struct {
	Status portal.FeedbackStatus // empty = all statuses
}

// Stats is the admin dashboard aggregate: record counts per entity and
// status, plus the donation running total.
type Stats struct {
	LedgerByStatus     map[portal.ModerationStatus]int `json:"ledger_by_status"`
	PrescriberByStatus map[portal.PrescriberStatus]int `json:"prescribers_by_status"`
	FeedbackByStatus   map[portal.FeedbackStatus]int   `json:"feedback_by_status"`
	TeamApplications   int                             `json:"team_applications"`
	EmailSignups       int                             `json:"email_signups"`
	DonationCount      int                             `json:"donation_count"`
	DonationTotalUSD   string                          `json:"donation_total_usd"`
}

// DonationStore persists donation receipts. Donations are append-only.
type DonationStore interface {
	CreateDonation(ctx context.Context, d *portal.Donation) error
	ListWallDonations(ctx context.Context, limit int) ([]*portal.Donation, error)
}

// LedgerStore persists story submissions.
type LedgerStore interface {
	CreateLedgerEntry(ctx context.Context, e *portal.LedgerEntry) error
	GetLedgerEntry(ctx context.Context, id int64) (*portal.LedgerEntry, error)
	ListLedgerEntries(ctx context.Context, q LedgerQuery) ([]*portal.LedgerEntry, error)
	UpdateLedgerEntry(ctx context.Context, id int64, change portal.LedgerChange) (*portal.LedgerEntry, error)
	IncrementHearts(ctx context.Context, id int64) (*portal.LedgerEntry, error)
	DeleteLedgerEntry(ctx context.Context, id int64) error
}

// PrescriberStore persists directory listings.
type PrescriberStore interface {
	CreatePrescriber(ctx context.Context, p *portal.Prescriber) error
	GetPrescriber(ctx context.Context, id int64) (*portal.Prescriber, error)
	ListPrescribers(ctx context.Context, q PrescriberQuery) ([]*portal.Prescriber, error)
	UpdatePrescriber(ctx context.Context, id int64, change portal.PrescriberChange) (*portal.Prescriber, error)
	DeletePrescriber(ctx context.Context, id int64) error
}

// FeedbackStore persists feedback messages.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, f *portal.Feedback) error
	GetFeedback(ctx context.Context, id int64) (*portal.Feedback, error)
	ListFeedback(ctx context.Context, q FeedbackQuery) ([]*portal.Feedback, error)
	UpdateFeedbackStatus(ctx context.Context, id int64, status portal.FeedbackStatus) (*portal.Feedback, error)
	DeleteFeedback(ctx context.Context, id int64) error
}

// TeamStore persists team applications and email signups.
type TeamStore interface {
	CreateTeamApplication(ctx context.Context, a *portal.TeamApplication) error
	ListTeamApplications(ctx context.Context) ([]*portal.TeamApplication, error)
	DeleteTeamApplication(ctx context.Context, id int64) error
	CreateEmailSignup(ctx context.Context, email string) error
}

// Store is the full persistence interface for the portal.
type Store interface {
	DonationStore
	LedgerStore
	PrescriberStore
	FeedbackStore
	TeamStore
	Counts(ctx context.Context) (*Stats, error)
}
