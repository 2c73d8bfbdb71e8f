package repository

import (
	"context"
	"errors"
	"time"

	"english-bridge-mailer/internal/model"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the single shared mutable resource of the subsystem. The
// scheduler and the enqueue layer only ever touch job state through it;
// no job state is cached across polling cycles.
type Store interface {
	// Queue operations.
	EnqueueJob(ctx context.Context, job *model.EmailJob) error
	// ClaimDue returns up to limit pending jobs whose scheduled time has
	// passed, oldest scheduled first, so drip sequences fire in order.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.EmailJob, error)
	// MarkSent moves a pending job to sent. Safe no-op on a terminal job.
	MarkSent(ctx context.Context, id uint, at time.Time) error
	// MarkFailed moves a pending job to failed. Failed is terminal; there
	// is no automatic retry, operators requeue manually.
	MarkFailed(ctx context.Context, id uint, message string) error
	GetJob(ctx context.Context, id uint) (*model.EmailJob, error)
	ListJobs(ctx context.Context, status string) ([]model.EmailJob, error)

	// Opt-in references.
	CreateApplication(ctx context.Context, app *model.Application) error
	GetApplication(ctx context.Context, id uint) (*model.Application, error)
	UpdateApplicationStatus(ctx context.Context, id uint, status string) error
	CreateRSVP(ctx context.Context, rsvp *model.EventRSVP) error
	GetRSVP(ctx context.Context, id uint) (*model.EventRSVP, error)
	// OptOut flips the opt-in flag of the referenced record to false.
	// Idempotent: repeating the call leaves the flag false and succeeds.
	OptOut(ctx context.Context, kind string, id uint) error

	// Campaigns.
	CreateCampaign(ctx context.Context, c *model.EmailCampaign) error
	GetCampaign(ctx context.Context, id uint) (*model.EmailCampaign, error)
	ListCampaigns(ctx context.Context) ([]model.EmailCampaign, error)
	MarkCampaignSent(ctx context.Context, id uint, count int, at time.Time) error
	// ResolveAudience snapshots the opted-in recipients for a campaign
	// audience at call time.
	ResolveAudience(ctx context.Context, audience string) ([]model.CampaignRecipient, error)
}
