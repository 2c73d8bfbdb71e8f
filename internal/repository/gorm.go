package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"english-bridge-mailer/internal/model"
)

// Repository is the production Store backed by GORM/MySQL.
type Repository struct {
	db *gorm.DB
}

var _ Store = (*Repository)(nil)

// New creates a Repository on top of an initialized GORM connection.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EnqueueJob implements Store.
func (r *Repository) EnqueueJob(ctx context.Context, job *model.EmailJob) error {
	job.Status = model.JobStatusPending
	if job.ScheduledFor.IsZero() {
		job.ScheduledFor = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to enqueue email job: %w", err)
	}
	return nil
}

// ClaimDue implements Store. There is no cross-process claim lock; the
// deployment runs a single scheduler instance.
func (r *Repository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.EmailJob, error) {
	var jobs []model.EmailJob
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_for <= ?", model.JobStatusPending, now).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to claim due jobs: %w", err)
	}
	return jobs, nil
}

// MarkSent implements Store. The status guard in the WHERE clause keeps
// terminal rows terminal: marking an already-sent or failed job matches
// zero rows and succeeds as a no-op.
func (r *Repository) MarkSent(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&model.EmailJob{}).
		Where("id = ? AND status = ?", id, model.JobStatusPending).
		Updates(map[string]interface{}{"status": model.JobStatusSent, "sent_at": at}).Error
	if err != nil {
		return fmt.Errorf("failed to mark job %d sent: %w", id, err)
	}
	return nil
}

// MarkFailed implements Store. Same status guard as MarkSent.
func (r *Repository) MarkFailed(ctx context.Context, id uint, message string) error {
	err := r.db.WithContext(ctx).
		Model(&model.EmailJob{}).
		Where("id = ? AND status = ?", id, model.JobStatusPending).
		Updates(map[string]interface{}{"status": model.JobStatusFailed, "error_message": message}).Error
	if err != nil {
		return fmt.Errorf("failed to mark job %d failed: %w", id, err)
	}
	return nil
}

// GetJob implements Store.
func (r *Repository) GetJob(ctx context.Context, id uint) (*model.EmailJob, error) {
	var job model.EmailJob
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job %d: %w", id, err)
	}
	return &job, nil
}

// ListJobs implements Store. An empty status returns every job.
func (r *Repository) ListJobs(ctx context.Context, status string) ([]model.EmailJob, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var jobs []model.EmailJob
	if err := q.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// CreateApplication implements Store.
func (r *Repository) CreateApplication(ctx context.Context, app *model.Application) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetApplication implements Store.
func (r *Repository) GetApplication(ctx context.Context, id uint) (*model.Application, error) {
	var app model.Application
	if err := r.db.WithContext(ctx).First(&app, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application %d: %w", id, err)
	}
	return &app, nil
}

// UpdateApplicationStatus implements Store.
func (r *Repository) UpdateApplicationStatus(ctx context.Context, id uint, status string) error {
	err := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update application %d status: %w", id, err)
	}
	return nil
}

// CreateRSVP implements Store.
func (r *Repository) CreateRSVP(ctx context.Context, rsvp *model.EventRSVP) error {
	if err := r.db.WithContext(ctx).Create(rsvp).Error; err != nil {
		return fmt.Errorf("failed to create rsvp: %w", err)
	}
	return nil
}

// GetRSVP implements Store.
func (r *Repository) GetRSVP(ctx context.Context, id uint) (*model.EventRSVP, error) {
	var rsvp model.EventRSVP
	if err := r.db.WithContext(ctx).First(&rsvp, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rsvp %d: %w", id, err)
	}
	return &rsvp, nil
}

// OptOut implements Store.
func (r *Repository) OptOut(ctx context.Context, kind string, id uint) error {
	var target interface{}
	switch kind {
	case model.TriggerApplication:
		target = &model.Application{}
	case model.TriggerRSVP:
		target = &model.EventRSVP{}
	default:
		return fmt.Errorf("unknown opt-out kind %q", kind)
	}

	res := r.db.WithContext(ctx).
		Model(target).
		Where("id = ?", id).
		Update("email_opt_in", false)
	if res.Error != nil {
		return fmt.Errorf("failed to opt out %s %d: %w", kind, id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the record does not exist or the flag was already false.
		// Re-read to tell the two apart; already-false is the idempotent
		// success case.
		var count int64
		if err := r.db.WithContext(ctx).Model(target).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to verify opt-out target %s %d: %w", kind, id, err)
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// CreateCampaign implements Store.
func (r *Repository) CreateCampaign(ctx context.Context, c *model.EmailCampaign) error {
	c.Status = model.CampaignDraft
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// GetCampaign implements Store.
func (r *Repository) GetCampaign(ctx context.Context, id uint) (*model.EmailCampaign, error) {
	var c model.EmailCampaign
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get campaign %d: %w", id, err)
	}
	return &c, nil
}

// ListCampaigns implements Store.
func (r *Repository) ListCampaigns(ctx context.Context) ([]model.EmailCampaign, error) {
	var campaigns []model.EmailCampaign
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

// MarkCampaignSent implements Store.
func (r *Repository) MarkCampaignSent(ctx context.Context, id uint, count int, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&model.EmailCampaign{}).
		Where("id = ? AND status = ?", id, model.CampaignDraft).
		Updates(map[string]interface{}{"status": model.CampaignSent, "sent_count": count, "sent_at": at}).Error
	if err != nil {
		return fmt.Errorf("failed to mark campaign %d sent: %w", id, err)
	}
	return nil
}

// ResolveAudience implements Store.
func (r *Repository) ResolveAudience(ctx context.Context, audience string) ([]model.CampaignRecipient, error) {
	var recipients []model.CampaignRecipient

	if audience == model.AudienceApplicants || audience == model.AudienceEveryone {
		var apps []model.Application
		if err := r.db.WithContext(ctx).Where("email_opt_in = ?", true).Find(&apps).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve applicant audience: %w", err)
		}
		for _, a := range apps {
			recipients = append(recipients, model.CampaignRecipient{
				FullName: a.FullName,
				Email:    a.Email,
				Kind:     model.TriggerApplication,
				RefID:    a.ID,
			})
		}
	}

	if audience == model.AudienceAttendees || audience == model.AudienceEveryone {
		var rsvps []model.EventRSVP
		if err := r.db.WithContext(ctx).Where("email_opt_in = ?", true).Find(&rsvps).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve attendee audience: %w", err)
		}
		for _, rs := range rsvps {
			recipients = append(recipients, model.CampaignRecipient{
				FullName: rs.FullName,
				Email:    rs.Email,
				Kind:     model.TriggerRSVP,
				RefID:    rs.ID,
			})
		}
	}

	return recipients, nil
}
