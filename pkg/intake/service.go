// Package intake implements the public-facing surface of the portal: submission
// endpoints, the visible-content read APIs, and the donation options feed.
package intake

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/n1protocol/portal/internal/metrics"
	apperrors "github.com/n1protocol/portal/pkg/app/errors"
	"github.com/n1protocol/portal/pkg/catalog"
	"github.com/n1protocol/portal/pkg/portal"
	"github.com/n1protocol/portal/pkg/portalstore"
)

const defaultListLimit = 50

// Store is the narrow data-access interface for the intake service.
// Defined here to keep intake decoupled from portalstore implementation details.
type Store interface {
	CreateDonation(ctx context.Context, d *portal.Donation) error
	ListWallDonations(ctx context.Context, limit int) ([]*portal.Donation, error)
	CreateLedgerEntry(ctx context.Context, e *portal.LedgerEntry) error
	GetLedgerEntry(ctx context.Context, id int64) (*portal.LedgerEntry, error)
	ListLedgerEntries(ctx context.Context, q portalstore.LedgerQuery) ([]*portal.LedgerEntry, error)
	IncrementHearts(ctx context.Context, id int64) (*portal.LedgerEntry, error)
	CreatePrescriber(ctx context.Context, p *portal.Prescriber) error
	ListPrescribers(ctx context.Context, q portalstore.PrescriberQuery) ([]*portal.Prescriber, error)
	CreateFeedback(ctx context.Context, f *portal.Feedback) error
	CreateTeamApplication(ctx context.Context, a *portal.TeamApplication) error
	CreateEmailSignup(ctx context.Context, email string) error
}

// PriceSource supplies current USD prices keyed by token symbol.
type PriceSource interface {
	Prices(ctx context.Context) map[string]decimal.Decimal
}

// TokenOption is one donatable asset with its live price and the chains it is
// listed on, cheapest gas first.
type TokenOption struct {
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	PriceUSD string          `json:"price_usd"`
	Listings []catalog.Token `json:"listings"`
}

// DonationOptions is the payload backing the donation UI.
type DonationOptions struct {
	Chains []catalog.Chain `json:"chains"`
	Tokens []TokenOption   `json:"tokens"`
}

// Service defines the public portal business logic
type Service interface {
	RecordDonation(ctx context.Context, req *DonationRequest) (*portal.Donation, error)
	ListWallDonations(ctx context.Context, limit int) ([]*portal.Donation, error)
	DonationOptions(ctx context.Context) (*DonationOptions, error)

	SubmitStory(ctx context.Context, req *StoryRequest) (*portal.LedgerEntry, error)
	ListStories(ctx context.Context, sort portalstore.LedgerSort, limit int) ([]*portal.LedgerEntry, error)
	GetStory(ctx context.Context, id int64) (*portal.LedgerEntry, error)
	HeartStory(ctx context.Context, id int64) (*portal.LedgerEntry, error)

	ApplyPrescriber(ctx context.Context, req *PrescriberApplication) (*portal.Prescriber, error)
	ListPrescribers(ctx context.Context, q portalstore.PrescriberQuery) ([]*portal.Prescriber, error)

	SubmitFeedback(ctx context.Context, req *FeedbackRequest) (*portal.Feedback, error)
	ApplyTeam(ctx context.Context, req *TeamRequest) (*portal.TeamApplication, error)
	SignupEmail(ctx context.Context, req *EmailSignupRequest) error
}

type intakeService struct {
	store  Store
	prices PriceSource
	logger *zap.Logger
}

// NewService creates a new intake service
func NewService(store Store, priceSource PriceSource, logger *zap.Logger) Service {
	return &intakeService{
		store:  store,
		prices: priceSource,
		logger: logger,
	}
}

func (s *intakeService) RecordDonation(ctx context.Context, req *DonationRequest) (*portal.Donation, error) {
	if v := req.violations(); len(v) > 0 {
		metrics.SubmissionsTotal.WithLabelValues("donation", "rejected").Inc()
		return nil, apperrors.ValidationError(v)
	}

	showOnWall := true
	if req.ShowOnWall != nil {
		showOnWall = *req.ShowOnWall
	}

	d := &portal.Donation{
		ReceiptID:     uuid.NewString(),
		AmountUSD:     req.AmountUSD,
		Currency:      req.Currency,
		TokenAmount:   req.TokenAmount,
		TokenSymbol:   req.TokenSymbol,
		ChainID:       req.ChainID,
		TxHash:        req.TxHash,
		WalletAddress: req.WalletAddress,
		DisplayName:   req.DisplayName,
		Message:       req.Message,
		IsAnonymous:   req.IsAnonymous,
		ShowOnWall:    showOnWall,
	}
	scrubAnonymous(d.IsAnonymous, &d.DisplayName)

	if err := s.store.CreateDonation(ctx, d); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("donation", "failed").Inc()
		return nil, apperrors.GeneralError(fmt.Errorf("failed to record donation: %w", err))
	}

	metrics.SubmissionsTotal.WithLabelValues("donation", "accepted").Inc()
	return d, nil
}

func (s *intakeService) ListWallDonations(ctx context.Context, limit int) ([]*portal.Donation, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	donations, err := s.store.ListWallDonations(ctx, limit)
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to list donations: %w", err))
	}
	for _, d := range donations {
		scrubAnonymous(d.IsAnonymous, &d.DisplayName)
	}
	return donations, nil
}

// DonationOptions assembles the catalog and the current price set. A price
// provider outage degrades to fallback prices, never to an error.
func (s *intakeService) DonationOptions(ctx context.Context) (*DonationOptions, error) {
	priceSet := s.prices.Prices(ctx)

	tokens := make([]TokenOption, 0, len(catalog.Symbols))
	for _, symbol := range catalog.Symbols {
		listings := catalog.ChainsForToken(symbol)
		name := symbol
		if len(listings) > 0 {
			name = listings[0].Name
		}
		tokens = append(tokens, TokenOption{
			Symbol:   symbol,
			Name:     name,
			PriceUSD: priceSet[symbol].String(),
			Listings: listings,
		})
	}

	return &DonationOptions{
		Chains: catalog.Chains(),
		Tokens: tokens,
	}, nil
}

func (s *intakeService) SubmitStory(ctx context.Context, req *StoryRequest) (*portal.LedgerEntry, error) {
	v := checkRequest(req)
	if !req.Consent {
		v = append(v, apperrors.FieldViolation{Field: "consent", Reason: "consent is required"})
	}
	if len(v) > 0 {
		metrics.SubmissionsTotal.WithLabelValues("ledger", "rejected").Inc()
		return nil, apperrors.ValidationError(v)
	}

	entry := &portal.LedgerEntry{
		Story:       req.Story,
		DisplayName: req.DisplayName,
		IsAnonymous: req.IsAnonymous,
		Before:      portal.ScaleMetrics(req.Before),
		After:       portal.ScaleMetrics(req.After),
		Status:      portal.LedgerPending,
	}
	scrubAnonymous(entry.IsAnonymous, &entry.DisplayName)

	if err := s.store.CreateLedgerEntry(ctx, entry); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("ledger", "failed").Inc()
		return nil, apperrors.GeneralError(fmt.Errorf("failed to create ledger entry: %w", err))
	}

	metrics.SubmissionsTotal.WithLabelValues("ledger", "accepted").Inc()
	return entry, nil
}

func (s *intakeService) ListStories(ctx context.Context, sort portalstore.LedgerSort, limit int) ([]*portal.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	entries, err := s.store.ListLedgerEntries(ctx, portalstore.LedgerQuery{
		Status: portal.LedgerApproved,
		Sort:   sort,
		Limit:  limit,
	})
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to list ledger entries: %w", err))
	}
	for _, e := range entries {
		scrubAnonymous(e.IsAnonymous, &e.DisplayName)
	}
	return entries, nil
}

// GetStory returns an approved entry. Pending and rejected entries are not
// distinguishable from missing ones to public callers.
func (s *intakeService) GetStory(ctx context.Context, id int64) (*portal.LedgerEntry, error) {
	entry, err := s.store.GetLedgerEntry(ctx, id)
	if err != nil {
		if errors.Is(err, portalstore.ErrNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "story not found")
		}
		return nil, apperrors.GeneralError(fmt.Errorf("failed to get ledger entry: %w", err))
	}
	if entry.Status != portal.LedgerApproved {
		return nil, apperrors.ResourceNotFoundError(nil, "story not found")
	}
	scrubAnonymous(entry.IsAnonymous, &entry.DisplayName)
	return entry, nil
}

func (s *intakeService) HeartStory(ctx context.Context, id int64) (*portal.LedgerEntry, error) {
	entry, err := s.store.GetLedgerEntry(ctx, id)
	if err != nil {
		if errors.Is(err, portalstore.ErrNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "story not found")
		}
		return nil, apperrors.GeneralError(fmt.Errorf("failed to get ledger entry: %w", err))
	}
	if entry.Status != portal.LedgerApproved {
		return nil, apperrors.ResourceNotFoundError(nil, "story not found")
	}

	entry, err = s.store.IncrementHearts(ctx, id)
	if err != nil {
		if errors.Is(err, portalstore.ErrNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "story not found")
		}
		return nil, apperrors.GeneralError(fmt.Errorf("failed to increment hearts: %w", err))
	}
	scrubAnonymous(entry.IsAnonymous, &entry.DisplayName)
	return entry, nil
}

func (s *intakeService) ApplyPrescriber(ctx context.Context, req *PrescriberApplication) (*portal.Prescriber, error) {
	v := checkRequest(req)
	if !req.Consent {
		v = append(v, apperrors.FieldViolation{Field: "consent", Reason: "consent is required"})
	}
	if len(v) > 0 {
		metrics.SubmissionsTotal.WithLabelValues("prescriber", "rejected").Inc()
		return nil, apperrors.ValidationError(v)
	}

	p := &portal.Prescriber{
		Name:         req.Name,
		Credentials:  req.Credentials,
		Email:        req.Email,
		Phone:        req.Phone,
		Website:      req.Website,
		Practice:     req.Practice,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
		Telemedicine: req.Telemedicine,
		Insurance:    req.Insurance,
		Status:       portal.PrescriberPending,
	}

	if err := s.store.CreatePrescriber(ctx, p); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("prescriber", "failed").Inc()
		return nil, apperrors.GeneralError(fmt.Errorf("failed to create prescriber application: %w", err))
	}

	metrics.SubmissionsTotal.WithLabelValues("prescriber", "accepted").Inc()
	return p, nil
}

// ListPrescribers is the public directory read. The status filter is forced to
// approved regardless of what the caller passes.
func (s *intakeService) ListPrescribers(ctx context.Context, q portalstore.PrescriberQuery) ([]*portal.Prescriber, error) {
	q.Status = portal.PrescriberApproved
	listed, err := s.store.ListPrescribers(ctx, q)
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to list prescribers: %w", err))
	}
	return listed, nil
}

func (s *intakeService) SubmitFeedback(ctx context.Context, req *FeedbackRequest) (*portal.Feedback, error) {
	v := checkRequest(req)
	if req.Type != "" && !portal.ValidFeedbackType(portal.FeedbackType(req.Type)) {
		v = append(v, apperrors.FieldViolation{Field: "type", Reason: "unknown feedback type"})
	}
	if len(v) > 0 {
		metrics.SubmissionsTotal.WithLabelValues("feedback", "rejected").Inc()
		return nil, apperrors.ValidationError(v)
	}

	f := &portal.Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Type:    portal.FeedbackType(req.Type),
		Message: req.Message,
		Status:  portal.FeedbackUnread,
	}

	if err := s.store.CreateFeedback(ctx, f); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("feedback", "failed").Inc()
		return nil, apperrors.GeneralError(fmt.Errorf("failed to create feedback: %w", err))
	}

	metrics.SubmissionsTotal.WithLabelValues("feedback", "accepted").Inc()
	return f, nil
}

func (s *intakeService) ApplyTeam(ctx context.Context, req *TeamRequest) (*portal.TeamApplication, error) {
	if v := checkRequest(req); len(v) > 0 {
		metrics.SubmissionsTotal.WithLabelValues("team", "rejected").Inc()
		return nil, apperrors.ValidationError(v)
	}

	app := &portal.TeamApplication{
		Name:      req.Name,
		Email:     req.Email,
		Languages: req.Languages,
		Location:  req.Location,
		Message:   req.Message,
	}

	if err := s.store.CreateTeamApplication(ctx, app); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("team", "failed").Inc()
		return nil, apperrors.GeneralError(fmt.Errorf("failed to create team application: %w", err))
	}

	metrics.SubmissionsTotal.WithLabelValues("team", "accepted").Inc()
	return app, nil
}

// SignupEmail is idempotent: repeat signups for the same address succeed
// without creating a second record.
func (s *intakeService) SignupEmail(ctx context.Context, req *EmailSignupRequest) error {
	if v := checkRequest(req); len(v) > 0 {
		metrics.SubmissionsTotal.WithLabelValues("email", "rejected").Inc()
		return apperrors.ValidationError(v)
	}

	if err := s.store.CreateEmailSignup(ctx, req.Email); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("email", "failed").Inc()
		return apperrors.GeneralError(fmt.Errorf("failed to create email signup: %w", err))
	}

	metrics.SubmissionsTotal.WithLabelValues("email", "accepted").Inc()
	return nil
}

// scrubAnonymous nulls the display name server-side when anonymity was
// requested, regardless of what the client supplied.
func scrubAnonymous(isAnonymous bool, displayName *string) {
	if isAnonymous {
		*displayName = ""
	}
}
