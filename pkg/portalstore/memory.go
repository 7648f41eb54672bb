package portalstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/n1protocol/portal/pkg/portal"
)

// memStore is an in-memory Store used by tests and local development. It
// mirrors the postgres implementation's semantics, including ErrNotFound and
// idempotent email signups.
type memStore struct {
	mu sync.Mutex

	nextID       int64
	donations    []*portal.Donation
	entries      map[int64]*portal.LedgerEntry
	prescribers  map[int64]*portal.Prescriber
	feedback     map[int64]*portal.Feedback
	applications map[int64]*portal.TeamApplication
	signups      map[string]*portal.EmailSignup
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() Store {
	return &memStore{
		nextID:       1,
		entries:      make(map[int64]*portal.LedgerEntry),
		prescribers:  make(map[int64]*portal.Prescriber),
		feedback:     make(map[int64]*portal.Feedback),
		applications: make(map[int64]*portal.TeamApplication),
		signups:      make(map[string]*portal.EmailSignup),
	}
}

func (s *memStore) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *memStore) CreateDonation(_ context.Context, d *portal.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = s.id()
	d.CreatedAt = time.Now().UTC()
	cp := *d
	s.donations = append(s.donations, &cp)
	return nil
}

func (s *memStore) ListWallDonations(_ context.Context, limit int) ([]*portal.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*portal.Donation
	for i := len(s.donations) - 1; i >= 0; i-- {
		if !s.donations[i].ShowOnWall {
			continue
		}
		cp := *s.donations[i]
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memStore) CreateLedgerEntry(_ context.Context, e *portal.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.id()
	e.CreatedAt = time.Now().UTC()
	if e.Status == "" {
		e.Status = portal.LedgerPending
	}
	cp := *e
	s.entries[e.ID] = &cp
	return nil
}

func (s *memStore) GetLedgerEntry(_ context.Context, id int64) (*portal.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *memStore) ListLedgerEntries(_ context.Context, q LedgerQuery) ([]*portal.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*portal.LedgerEntry
	for _, e := range s.entries {
		if q.Status != "" && e.Status != q.Status {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if q.Sort == SortLoved && out[i].HeartCount != out[j].HeartCount {
			return out[i].HeartCount > out[j].HeartCount
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *memStore) UpdateLedgerEntry(_ context.Context, id int64, change portal.LedgerChange) (*portal.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if change.Status != nil {
		e.Status = *change.Status
	}
	if change.Featured != nil {
		e.Featured = *change.Featured
	}
	cp := *e
	return &cp, nil
}

func (s *memStore) IncrementHearts(_ context.Context, id int64) (*portal.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.HeartCount++
	cp := *e
	return &cp, nil
}

func (s *memStore) DeleteLedgerEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *memStore) CreatePrescriber(_ context.Context, p *portal.Prescriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.id()
	p.CreatedAt = time.Now().UTC()
	if p.Status == "" {
		p.Status = portal.PrescriberPending
	}
	cp := *p
	s.prescribers[p.ID] = &cp
	return nil
}

func (s *memStore) GetPrescriber(_ context.Context, id int64) (*portal.Prescriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prescribers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) ListPrescribers(_ context.Context, q PrescriberQuery) ([]*portal.Prescriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*portal.Prescriber
	for _, p := range s.prescribers {
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if q.State != "" && !strings.EqualFold(p.State, q.State) {
			continue
		}
		if q.City != "" && !strings.EqualFold(p.City, q.City) {
			continue
		}
		if q.Telemedicine != nil && p.Telemedicine != *q.Telemedicine {
			continue
		}
		if q.Insurance != nil && p.Insurance != *q.Insurance {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) UpdatePrescriber(_ context.Context, id int64, change portal.PrescriberChange) (*portal.Prescriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prescribers[id]
	if !ok {
		return nil, ErrNotFound
	}
	if change.Status != nil {
		p.Status = *change.Status
	}
	if change.Verified != nil {
		p.Verified = *change.Verified
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) DeletePrescriber(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prescribers[id]; !ok {
		return ErrNotFound
	}
	delete(s.prescribers, id)
	return nil
}

func (s *memStore) CreateFeedback(_ context.Context, f *portal.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.ID = s.id()
	f.CreatedAt = time.Now().UTC()
	if f.Status == "" {
		f.Status = portal.FeedbackUnread
	}
	cp := *f
	s.feedback[f.ID] = &cp
	return nil
}

func (s *memStore) GetFeedback(_ context.Context, id int64) (*portal.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.feedback[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *memStore) ListFeedback(_ context.Context, q FeedbackQuery) ([]*portal.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*portal.Feedback
	for _, f := range s.feedback {
		if q.Status != "" && f.Status != q.Status {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) UpdateFeedbackStatus(_ context.Context, id int64, status portal.FeedbackStatus) (*portal.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.feedback[id]
	if !ok {
		return nil, ErrNotFound
	}
	f.Status = status
	cp := *f
	return &cp, nil
}

func (s *memStore) DeleteFeedback(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.feedback[id]; !ok {
		return ErrNotFound
	}
	delete(s.feedback, id)
	return nil
}

func (s *memStore) CreateTeamApplication(_ context.Context, a *portal.TeamApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.id()
	a.CreatedAt = time.Now().UTC()
	cp := *a
	s.applications[a.ID] = &cp
	return nil
}

func (s *memStore) ListTeamApplications(_ context.Context) ([]*portal.TeamApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*portal.TeamApplication
	for _, a := range s.applications {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) DeleteTeamApplication(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.applications[id]; !ok {
		return ErrNotFound
	}
	delete(s.applications, id)
	return nil
}

func (s *memStore) CreateEmailSignup(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.signups[email]; ok {
		return nil
	}
	s.signups[email] = &portal.EmailSignup{
		ID:        s.id(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *memStore) Counts(_ context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &Stats{
		LedgerByStatus:     make(map[portal.ModerationStatus]int),
		PrescriberByStatus: make(map[portal.PrescriberStatus]int),
		FeedbackByStatus:   make(map[portal.FeedbackStatus]int),
		TeamApplications:   len(s.applications),
		EmailSignups:       len(s.signups),
		DonationCount:      len(s.donations),
	}

	for _, e := range s.entries {
		stats.LedgerByStatus[e.Status]++
	}
	for _, p := range s.prescribers {
		stats.PrescriberByStatus[p.Status]++
	}
	for _, f := range s.feedback {
		stats.FeedbackByStatus[f.Status]++
	}

	total := decimal.Zero
	for _, d := range s.donations {
		amount, err := decimal.NewFromString(d.AmountUSD)
		if err != nil {
			continue
		}
		total = total.Add(amount)
	}
	stats.DonationTotalUSD = total.String()

	return stats, nil
}
