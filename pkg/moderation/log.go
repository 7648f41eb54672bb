package moderation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/n1protocol/portal/pkg/portal"
	"github.com/n1protocol/portal/pkg/portalstore"
)

const serviceName = "ModerationService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the moderation Service.
// Every mutation is logged with the target id and action; reads pass through.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) logCall(method string, start time.Time, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		ls.logger.Error(method+" failed", append(fields, zap.Error(err))...)
		return
	}
	ls.logger.Info(method+" completed", fields...)
}

func (ls *logService) ModerateLedgerEntry(ctx context.Context, id int64, action string) (e *portal.LedgerEntry, err error) {
	start := time.Now()
	defer func() {
		ls.logCall("ModerateLedgerEntry", start, err, zap.Int64("id", id), zap.String("action", action))
	}()
	return ls.svc.ModerateLedgerEntry(ctx, id, action)
}

func (ls *logService) ListLedgerEntries(ctx context.Context, q portalstore.LedgerQuery) ([]*portal.LedgerEntry, error) {
	return ls.svc.ListLedgerEntries(ctx, q)
}

func (ls *logService) DeleteLedgerEntry(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() {
		ls.logCall("DeleteLedgerEntry", start, err, zap.Int64("id", id))
	}()
	return ls.svc.DeleteLedgerEntry(ctx, id)
}

func (ls *logService) ModeratePrescriber(ctx context.Context, id int64, action string) (p *portal.Prescriber, err error) {
	start := time.Now()
	defer func() {
		ls.logCall("ModeratePrescriber", start, err, zap.Int64("id", id), zap.String("action", action))
	}()
	return ls.svc.ModeratePrescriber(ctx, id, action)
}

func (ls *logService) ListPrescribers(ctx context.Context, q portalstore.PrescriberQuery) ([]*portal.Prescriber, error) {
	return ls.svc.ListPrescribers(ctx, q)
}

func (ls *logService) AddPrescriber(ctx context.Context, p *portal.Prescriber) (created *portal.Prescriber, err error) {
	start := time.Now()
	defer func() {
		ls.logCall("AddPrescriber", start, err, zap.String("state", p.State))
	}()
	return ls.svc.AddPrescriber(ctx, p)
}

func (ls *logService) DeletePrescriber(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() {
		ls.logCall("DeletePrescriber", start, err, zap.Int64("id", id))
	}()
	return ls.svc.DeletePrescriber(ctx, id)
}

func (ls *logService) ModerateFeedback(ctx context.Context, id int64, action string) (f *portal.Feedback, err error) {
	start := time.Now()
	defer func() {
		ls.logCall("ModerateFeedback", start, err, zap.Int64("id", id), zap.String("action", action))
	}()
	return ls.svc.ModerateFeedback(ctx, id, action)
}

func (ls *logService) ListFeedback(ctx context.Context, q portalstore.FeedbackQuery) ([]*portal.Feedback, error) {
	return ls.svc.ListFeedback(ctx, q)
}

func (ls *logService) DeleteFeedback(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() {
		ls.logCall("DeleteFeedback", start, err, zap.Int64("id", id))
	}()
	return ls.svc.DeleteFeedback(ctx, id)
}

func (ls *logService) ListTeamApplications(ctx context.Context) ([]*portal.TeamApplication, error) {
	return ls.svc.ListTeamApplications(ctx)
}

func (ls *logService) DeleteTeamApplication(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() {
		ls.logCall("DeleteTeamApplication", start, err, zap.Int64("id", id))
	}()
	return ls.svc.DeleteTeamApplication(ctx, id)
}

func (ls *logService) Stats(ctx context.Context) (*portalstore.Stats, error) {
	return ls.svc.Stats(ctx)
}
