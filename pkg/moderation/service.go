// Package moderation implements the admin-gated workflow over submitted
// content: state transitions, deletion, direct additions, and dashboard stats.
package moderation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/n1protocol/portal/internal/metrics"
	apperrors "github.com/n1protocol/portal/pkg/app/errors"
	"github.com/n1protocol/portal/pkg/portal"
	"github.com/n1protocol/portal/pkg/portalstore"
)

// Store is the narrow data-access interface for the moderation service.
type Store interface {
	GetLedgerEntry(ctx context.Context, id int64) (*portal.LedgerEntry, error)
	ListLedgerEntries(ctx context.Context, q portalstore.LedgerQuery) ([]*portal.LedgerEntry, error)
	UpdateLedgerEntry(ctx context.Context, id int64, change portal.LedgerChange) (*portal.LedgerEntry, error)
	DeleteLedgerEntry(ctx context.Context, id int64) error

	GetPrescriber(ctx context.Context, id int64) (*portal.Prescriber, error)
	ListPrescribers(ctx context.Context, q portalstore.PrescriberQuery) ([]*portal.Prescriber, error)
	CreatePrescriber(ctx context.Context, p *portal.Prescriber) error
	UpdatePrescriber(ctx context.Context, id int64, change portal.PrescriberChange) (*portal.Prescriber, error)
	DeletePrescriber(ctx context.Context, id int64) error

	GetFeedback(ctx context.Context, id int64) (*portal.Feedback, error)
	ListFeedback(ctx context.Context, q portalstore.FeedbackQuery) ([]*portal.Feedback, error)
	UpdateFeedbackStatus(ctx context.Context, id int64, status portal.FeedbackStatus) (*portal.Feedback, error)
	DeleteFeedback(ctx context.Context, id int64) error

	ListTeamApplications(ctx context.Context) ([]*portal.TeamApplication, error)
	DeleteTeamApplication(ctx context.Context, id int64) error

	Counts(ctx context.Context) (*portalstore.Stats, error)
}

// Service defines the admin moderation business logic. Authorization is
// enforced at the transport layer; every method here assumes an
// already-authenticated caller.
type Service interface {
	ModerateLedgerEntry(ctx context.Context, id int64, action string) (*portal.LedgerEntry, error)
	ListLedgerEntries(ctx context.Context, q portalstore.LedgerQuery) ([]*portal.LedgerEntry, error)
	DeleteLedgerEntry(ctx context.Context, id int64) error

	ModeratePrescriber(ctx context.Context, id int64, action string) (*portal.Prescriber, error)
	ListPrescribers(ctx context.Context, q portalstore.PrescriberQuery) ([]*portal.Prescriber, error)
	AddPrescriber(ctx context.Context, p *portal.Prescriber) (*portal.Prescriber, error)
	DeletePrescriber(ctx context.Context, id int64) error

	ModerateFeedback(ctx context.Context, id int64, action string) (*portal.Feedback, error)
	ListFeedback(ctx context.Context, q portalstore.FeedbackQuery) ([]*portal.Feedback, error)
	DeleteFeedback(ctx context.Context, id int64) error

	ListTeamApplications(ctx context.Context) ([]*portal.TeamApplication, error)
	DeleteTeamApplication(ctx context.Context, id int64) error

	Stats(ctx context.Context) (*portalstore.Stats, error)
}

type moderationService struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a new moderation service
func NewService(store Store, logger *zap.Logger) Service {
	return &moderationService{
		store:  store,
		logger: logger,
	}
}

// ModerateLedgerEntry parses and applies one action, persisting exactly one
// state change. Unknown actions are a validation error; recognized actions
// illegal from the entry's current state are a conflict.
func (s *moderationService) ModerateLedgerEntry(ctx context.Context, id int64, action string) (*portal.LedgerEntry, error) {
	parsed, err := portal.ParseLedgerAction(action)
	if err != nil {
		return nil, apperrors.BadRequestError(err, "unknown action")
	}

	entry, err := s.store.GetLedgerEntry(ctx, id)
	if err != nil {
		return nil, storeError(err, "ledger entry")
	}

	change, err := portal.ApplyLedgerAction(entry, parsed)
	if err != nil {
		return nil, transitionError(err)
	}

	updated, err := s.store.UpdateLedgerEntry(ctx, id, change)
	if err != nil {
		return nil, storeError(err, "ledger entry")
	}

	metrics.ModerationActionsTotal.WithLabelValues("ledger", string(parsed)).Inc()
	return updated, nil
}

func (s *moderationService) ListLedgerEntries(ctx context.Context, q portalstore.LedgerQuery) ([]*portal.LedgerEntry, error) {
	entries, err := s.store.ListLedgerEntries(ctx, q)
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to list ledger entries: %w", err))
	}
	return entries, nil
}

func (s *moderationService) DeleteLedgerEntry(ctx context.Context, id int64) error {
	if err := s.store.DeleteLedgerEntry(ctx, id); err != nil {
		return storeError(err, "ledger entry")
	}
	metrics.ModerationActionsTotal.WithLabelValues("ledger", "delete").Inc()
	return nil
}

func (s *moderationService) ModeratePrescriber(ctx context.Context, id int64, action string) (*portal.Prescriber, error) {
	parsed, err := portal.ParsePrescriberAction(action)
	if err != nil {
		return nil, apperrors.BadRequestError(err, "unknown action")
	}

	p, err := s.store.GetPrescriber(ctx, id)
	if err != nil {
		return nil, storeError(err, "prescriber")
	}

	change, err := portal.ApplyPrescriberAction(p, parsed)
	if err != nil {
		return nil, transitionError(err)
	}

	updated, err := s.store.UpdatePrescriber(ctx, id, change)
	if err != nil {
		return nil, storeError(err, "prescriber")
	}

	metrics.ModerationActionsTotal.WithLabelValues("prescriber", string(parsed)).Inc()
	return updated, nil
}

func (s *moderationService) ListPrescribers(ctx context.Context, q portalstore.PrescriberQuery) ([]*portal.Prescriber, error) {
	listed, err := s.store.ListPrescribers(ctx, q)
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to list prescribers: %w", err))
	}
	return listed, nil
}

// AddPrescriber creates a listing directly approved and verified, skipping the
// public application flow.
func (s *moderationService) AddPrescriber(ctx context.Context, p *portal.Prescriber) (*portal.Prescriber, error) {
	if p.Name == "" || p.Email == "" {
		return nil, apperrors.ValidationError([]apperrors.FieldViolation{
			{Field: "name", Reason: "name and email are required"},
		})
	}

	p.Status = portal.PrescriberApproved
	p.Verified = true

	if err := s.store.CreatePrescriber(ctx, p); err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to create prescriber: %w", err))
	}

	metrics.ModerationActionsTotal.WithLabelValues("prescriber", "add").Inc()
	return p, nil
}

func (s *moderationService) DeletePrescriber(ctx context.Context, id int64) error {
	if err := s.store.DeletePrescriber(ctx, id); err != nil {
		return storeError(err, "prescriber")
	}
	metrics.ModerationActionsTotal.WithLabelValues("prescriber", "delete").Inc()
	return nil
}

func (s *moderationService) ModerateFeedback(ctx context.Context, id int64, action string) (*portal.Feedback, error) {
	parsed, err := portal.ParseFeedbackAction(action)
	if err != nil {
		return nil, apperrors.BadRequestError(err, "unknown action")
	}

	f, err := s.store.GetFeedback(ctx, id)
	if err != nil {
		return nil, storeError(err, "feedback")
	}

	next, err := portal.ApplyFeedbackAction(f, parsed)
	if err != nil {
		return nil, transitionError(err)
	}

	updated, err := s.store.UpdateFeedbackStatus(ctx, id, next)
	if err != nil {
		return nil, storeError(err, "feedback")
	}

	metrics.ModerationActionsTotal.WithLabelValues("feedback", string(parsed)).Inc()
	return updated, nil
}

func (s *moderationService) ListFeedback(ctx context.Context, q portalstore.FeedbackQuery) ([]*portal.Feedback, error) {
	listed, err := s.store.ListFeedback(ctx, q)
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to list feedback: %w", err))
	}
	return listed, nil
}

func (s *moderationService) DeleteFeedback(ctx context.Context, id int64) error {
	if err := s.store.DeleteFeedback(ctx, id); err != nil {
		return storeError(err, "feedback")
	}
	metrics.ModerationActionsTotal.WithLabelValues("feedback", "delete").Inc()
	return nil
}

func (s *moderationService) ListTeamApplications(ctx context.Context) ([]*portal.TeamApplication, error) {
	listed, err := s.store.ListTeamApplications(ctx)
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to list team applications: %w", err))
	}
	return listed, nil
}

func (s *moderationService) DeleteTeamApplication(ctx context.Context, id int64) error {
	if err := s.store.DeleteTeamApplication(ctx, id); err != nil {
		return storeError(err, "team application")
	}
	metrics.ModerationActionsTotal.WithLabelValues("team", "delete").Inc()
	return nil
}

func (s *moderationService) Stats(ctx context.Context) (*portalstore.Stats, error) {
	stats, err := s.store.Counts(ctx)
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to read stats: %w", err))
	}
	return stats, nil
}

func storeError(err error, kind string) error {
	if errors.Is(err, portalstore.ErrNotFound) {
		return apperrors.ResourceNotFoundError(err, kind+" not found")
	}
	return apperrors.GeneralError(fmt.Errorf("store failure on %s: %w", kind, err))
}

func transitionError(err error) error {
	if errors.Is(err, portal.ErrIllegalTransition) {
		return apperrors.ConflictError(err, err.Error())
	}
	return apperrors.BadRequestError(err, "unknown action")
}
