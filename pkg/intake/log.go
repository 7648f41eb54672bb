package intake

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/n1protocol/portal/pkg/portal"
	"github.com/n1protocol/portal/pkg/portalstore"
)

const serviceName = "IntakeService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the intake Service.
// It logs method entry/exit, duration and errors. Submitter-identifying fields
// are never logged.
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

func (ls *logService) RecordDonation(ctx context.Context, req *DonationRequest) (d *portal.Donation, err error) {
	start := time.Now()
	defer func() {
		ls.logCall("RecordDonation", start, err,
			zap.String("token", req.TokenSymbol),
			zap.Int64("chain_id", req.ChainID),
		)
	}()
	return ls.svc.RecordDonation(ctx, req)
}

func (ls *logService) ListWallDonations(ctx context.Context, limit int) ([]*portal.Donation, error) {
	return ls.svc.ListWallDonations(ctx, limit)
}

func (ls *logService) DonationOptions(ctx context.Context) (*DonationOptions, error) {
	return ls.svc.DonationOptions(ctx)
}

func (ls *logService) SubmitStory(ctx context.Context, req *StoryRequest) (e *portal.LedgerEntry, err error) {
	start := time.Now()
	defer func() {
		ls.logCall("SubmitStory", start, err,
			zap.Int("story_len", len(req.Story)),
			zap.Bool("anonymous", req.IsAnonymous),
		)
	}()
	return ls.svc.SubmitStory(ctx, req)
}

func (ls *logService) ListStories(ctx context.Context, sort portalstore.LedgerSort, limit int) ([]*portal.LedgerEntry, error) {
	return ls.svc.ListStories(ctx, sort, limit)
}

func (ls *logService) GetStory(ctx context.Context, id int64) (*portal.LedgerEntry, error) {
	return ls.svc.GetStory(ctx, id)
}

func (ls *logService) HeartStory(ctx context.Context, id int64) (e *portal.LedgerEntry, err error) {
	start := time.Now()
	defer func() {
		ls.logCall("HeartStory", start, err, zap.Int64("id", id))
	}()
	return ls.svc.HeartStory(ctx, id)
}

func (ls *logService) ApplyPrescriber(ctx context.Context, req *PrescriberApplication) (p *portal.Prescriber, err error) {
	start := time.Now()
	defer func() {
		ls.logCall("ApplyPrescriber", start, err,
			zap.String("state", req.State),
			zap.String("country", req.Country),
		)
	}()
	return ls.svc.ApplyPrescriber(ctx, req)
}

func (ls *logService) ListPrescribers(ctx context.Context, q portalstore.PrescriberQuery) ([]*portal.Prescriber, error) {
	return ls.svc.ListPrescribers(ctx, q)
}

func (ls *logService) SubmitFeedback(ctx context.Context, req *FeedbackRequest) (f *portal.Feedback, err error) {
	start := time.Now()
	defer func() {
		ls.logCall("SubmitFeedback", start, err, zap.String("type", req.Type))
	}()
	return ls.svc.SubmitFeedback(ctx, req)
}

func (ls *logService) ApplyTeam(ctx context.Context, req *TeamRequest) (a *portal.TeamApplication, err error) {
	start := time.Now()
	defer func() {
		ls.logCall("ApplyTeam", start, err)
	}()
	return ls.svc.ApplyTeam(ctx, req)
}

func (ls *logService) SignupEmail(ctx context.Context, req *EmailSignupRequest) (err error) {
	start := time.Now()
	defer func() {
		ls.logCall("SignupEmail", start, err)
	}()
	return ls.svc.SignupEmail(ctx, req)
}
