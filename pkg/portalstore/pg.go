package portalstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/n1protocol/portal/pkg/portal"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the portal store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

// --- donations ---

func (s *pgStore) CreateDonation(ctx context.Context, d *portal.Donation) error {
	dao := toDonationDao(d)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}

	*d = *toDonation(dao)
	return nil
}

func (s *pgStore) ListWallDonations(ctx context.Context, limit int) ([]*portal.Donation, error) {
	var daos []DonationDao
	q := s.db.NewSelect().
		Model(&daos).
		Where("show_on_wall = TRUE").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}

	out := make([]*portal.Donation, len(daos))
	for i := range daos {
		out[i] = toDonation(&daos[i])
	}
	return out, nil
}

// --- ledger entries ---

func (s *pgStore) CreateLedgerEntry(ctx context.Context, e *portal.LedgerEntry) error {
	dao := toLedgerEntryDao(e)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	*e = *toLedgerEntry(dao)
	return nil
}

func (s *pgStore) GetLedgerEntry(ctx context.Context, id int64) (*portal.LedgerEntry, error) {
	dao := new(LedgerEntryDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}
	return toLedgerEntry(dao), nil
}

func (s *pgStore) ListLedgerEntries(ctx context.Context, q LedgerQuery) ([]*portal.LedgerEntry, error) {
	var daos []LedgerEntryDao
	query := s.db.NewSelect().Model(&daos)

	if q.Status != "" {
		query = query.Where("status = ?", string(q.Status))
	}
	switch q.Sort {
	case SortLoved:
		query = query.Order("heart_count DESC", "created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	out := make([]*portal.LedgerEntry, len(daos))
	for i := range daos {
		out[i] = toLedgerEntry(&daos[i])
	}
	return out, nil
}

func (s *pgStore) UpdateLedgerEntry(ctx context.Context, id int64, change portal.LedgerChange) (*portal.LedgerEntry, error) {
	dao := new(LedgerEntryDao)
	q := s.db.NewUpdate().
		Model(dao).
		Where("id = ?", id).
		Returning("*")

	if change.Status != nil {
		q = q.Set("status = ?", string(*change.Status))
	}
	if change.Featured != nil {
		q = q.Set("featured = ?", *change.Featured)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update ledger entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return toLedgerEntry(dao), nil
}

func (s *pgStore) IncrementHearts(ctx context.Context, id int64) (*portal.LedgerEntry, error) {
	dao := new(LedgerEntryDao)
	res, err := s.db.NewUpdate().
		Model(dao).
		Set("heart_count = heart_count + 1").
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to increment hearts: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return toLedgerEntry(dao), nil
}

func (s *pgStore) DeleteLedgerEntry(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, (*LedgerEntryDao)(nil), id, "ledger entry")
}

// --- prescribers ---

func (s *pgStore) CreatePrescriber(ctx context.Context, p *portal.Prescriber) error {
	dao := toPrescriberDao(p)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create prescriber: %w", err)
	}

	*p = *toPrescriber(dao)
	return nil
}

func (s *pgStore) GetPrescriber(ctx context.Context, id int64) (*portal.Prescriber, error) {
	dao := new(PrescriberDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get prescriber: %w", err)
	}
	return toPrescriber(dao), nil
}

func (s *pgStore) ListPrescribers(ctx context.Context, q PrescriberQuery) ([]*portal.Prescriber, error) {
	var daos []PrescriberDao
	query := s.db.NewSelect().Model(&daos).Order("name ASC")

	if q.Status != "" {
		query = query.Where("status = ?", string(q.Status))
	}
	if q.State != "" {
		query = query.Where("LOWER(state) = LOWER(?)", q.State)
	}
	if q.City != "" {
		query = query.Where("LOWER(city) = LOWER(?)", q.City)
	}
	if q.Telemedicine != nil {
		query = query.Where("telemedicine = ?", *q.Telemedicine)
	}
	if q.Insurance != nil {
		query = query.Where("insurance = ?", *q.Insurance)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list prescribers: %w", err)
	}

	out := make([]*portal.Prescriber, len(daos))
	for i := range daos {
		out[i] = toPrescriber(&daos[i])
	}
	return out, nil
}

func (s *pgStore) UpdatePrescriber(ctx context.Context, id int64, change portal.PrescriberChange) (*portal.Prescriber, error) {
	dao := new(PrescriberDao)
	q := s.db.NewUpdate().
		Model(dao).
		Where("id = ?", id).
		Returning("*")

	if change.Status != nil {
		q = q.Set("status = ?", string(*change.Status))
	}
	if change.Verified != nil {
		q = q.Set("verified = ?", *change.Verified)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update prescriber: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return toPrescriber(dao), nil
}

func (s *pgStore) DeletePrescriber(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, (*PrescriberDao)(nil), id, "prescriber")
}

// --- feedback ---

func (s *pgStore) CreateFeedback(ctx context.Context, f *portal.Feedback) error {
	dao := toFeedbackDao(f)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	*f = *toFeedback(dao)
	return nil
}

func (s *pgStore) GetFeedback(ctx context.Context, id int64) (*portal.Feedback, error) {
	dao := new(FeedbackDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return toFeedback(dao), nil
}

func (s *pgStore) ListFeedback(ctx context.Context, q FeedbackQuery) ([]*portal.Feedback, error) {
	var daos []FeedbackDao
	query := s.db.NewSelect().Model(&daos).Order("created_at DESC")

	if q.Status != "" {
		query = query.Where("status = ?", string(q.Status))
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	out := make([]*portal.Feedback, len(daos))
	for i := range daos {
		out[i] = toFeedback(&daos[i])
	}
	return out, nil
}

func (s *pgStore) UpdateFeedbackStatus(ctx context.Context, id int64, status portal.FeedbackStatus) (*portal.Feedback, error) {
	dao := new(FeedbackDao)
	res, err := s.db.NewUpdate().
		Model(dao).
		Set("status = ?", string(status)).
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return toFeedback(dao), nil
}

func (s *pgStore) DeleteFeedback(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, (*FeedbackDao)(nil), id, "feedback")
}

// --- team applications / email signups ---

func (s *pgStore) CreateTeamApplication(ctx context.Context, a *portal.TeamApplication) error {
	dao := toTeamApplicationDao(a)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create team application: %w", err)
	}

	*a = *toTeamApplication(dao)
	return nil
}

func (s *pgStore) ListTeamApplications(ctx context.Context) ([]*portal.TeamApplication, error) {
	var daos []TeamApplicationDao
	err := s.db.NewSelect().
		Model(&daos).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list team applications: %w", err)
	}

	out := make([]*portal.TeamApplication, len(daos))
	for i := range daos {
		out[i] = toTeamApplication(&daos[i])
	}
	return out, nil
}

func (s *pgStore) DeleteTeamApplication(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, (*TeamApplicationDao)(nil), id, "team application")
}

// CreateEmailSignup inserts a signup, silently ignoring a duplicate email.
func (s *pgStore) CreateEmailSignup(ctx context.Context, email string) error {
	dao := &EmailSignupDao{Email: email}

	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (email) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create email signup: %w", err)
	}
	return nil
}

// --- aggregates ---

type statusCount struct {
	Status string `bun:"status"`
	Count  int    `bun:"count"`
}

func (s *pgStore) Counts(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		LedgerByStatus:     make(map[portal.ModerationStatus]int),
		PrescriberByStatus: make(map[portal.PrescriberStatus]int),
		FeedbackByStatus:   make(map[portal.FeedbackStatus]int),
		DonationTotalUSD:   "0",
	}

	var rows []statusCount
	err := s.db.NewSelect().
		Model((*LedgerEntryDao)(nil)).
		Column("status").
		ColumnExpr("COUNT(*) AS count").
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	for _, r := range rows {
		stats.LedgerByStatus[portal.ModerationStatus(r.Status)] = r.Count
	}

	rows = nil
	err = s.db.NewSelect().
		Model((*PrescriberDao)(nil)).
		Column("status").
		ColumnExpr("COUNT(*) AS count").
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count prescribers: %w", err)
	}
	for _, r := range rows {
		stats.PrescriberByStatus[portal.PrescriberStatus(r.Status)] = r.Count
	}

	rows = nil
	err = s.db.NewSelect().
		Model((*FeedbackDao)(nil)).
		Column("status").
		ColumnExpr("COUNT(*) AS count").
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count feedback: %w", err)
	}
	for _, r := range rows {
		stats.FeedbackByStatus[portal.FeedbackStatus(r.Status)] = r.Count
	}

	if stats.TeamApplications, err = s.db.NewSelect().
		Model((*TeamApplicationDao)(nil)).
		Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count team applications: %w", err)
	}

	if stats.EmailSignups, err = s.db.NewSelect().
		Model((*EmailSignupDao)(nil)).
		Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count email signups: %w", err)
	}

	if stats.DonationCount, err = s.db.NewSelect().
		Model((*DonationDao)(nil)).
		Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count donations: %w", err)
	}

	var total sql.NullString
	err = s.db.NewSelect().
		Model((*DonationDao)(nil)).
		ColumnExpr("SUM(amount_usd)").
		Scan(ctx, &total)
	if err != nil {
		return nil, fmt.Errorf("failed to sum donations: %w", err)
	}
	if total.Valid {
		stats.DonationTotalUSD = total.String
	}

	return stats, nil
}

func (s *pgStore) deleteByID(ctx context.Context, model any, id int64, kind string) error {
	res, err := s.db.NewDelete().
		Model(model).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
