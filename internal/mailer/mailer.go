package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"english-bridge-mailer/internal/metrics"
	"english-bridge-mailer/internal/model"
	"english-bridge-mailer/internal/repository"
	"english-bridge-mailer/internal/template"
)

// Drip emails follow an application at fixed offsets from submission.
const (
	dripDay2Offset = 48 * time.Hour
	dripDay6Offset = 144 * time.Hour
)

// Mailer is the enqueue boundary for collaborator events. Every method
// renders at enqueue time, checks the recipient's opt-in flag first, and
// inserts fully rendered pending rows. Opted-out recipients get no row
// and the triggering action still succeeds.
type Mailer struct {
	store    repository.Store
	renderer *template.Renderer
	metrics  *metrics.Metrics
}

// New creates a Mailer.
func New(store repository.Store, renderer *template.Renderer, m *metrics.Metrics) *Mailer {
	return &Mailer{store: store, renderer: renderer, metrics: m}
}

// enqueue renders one template and inserts the queue row.
func (m *Mailer) enqueue(ctx context.Context, kind template.Kind, data interface{}, to string, triggerType string, refID uint, scheduledFor time.Time) error {
	rendered, err := m.renderer.Render(kind, data)
	if err != nil {
		// Caller error: nothing malformed is ever written to the queue.
		return fmt.Errorf("failed to render %s: %w", kind, err)
	}

	job := &model.EmailJob{
		To:           to,
		Subject:      rendered.Subject,
		HTML:         rendered.HTML,
		ScheduledFor: scheduledFor,
		TriggerType:  triggerType,
		TriggerRefID: &refID,
	}
	if err := m.store.EnqueueJob(ctx, job); err != nil {
		return err
	}

	m.metrics.JobsEnqueued.Inc()
	logrus.Debugf("Enqueued %s job %d for %s (due %s)", kind, job.ID, to, scheduledFor.Format(time.RFC3339))
	return nil
}

// ApplicationReceived queues the submission confirmation plus the
// welcome drip series (days 0, 2 and 6).
func (m *Mailer) ApplicationReceived(ctx context.Context, appID uint) error {
	app, err := m.store.GetApplication(ctx, appID)
	if err != nil {
		return err
	}
	if !app.EmailOptIn {
		logrus.Debugf("Application %d opted out, skipping received email", appID)
		return nil
	}

	now := time.Now()
	appData := template.ApplicationData{
		FullName:      app.FullName,
		Track:         app.Track,
		ApplicationID: app.ID,
	}
	if err := m.enqueue(ctx, template.KindApplicationReceived, appData, app.Email, model.TriggerApplication, app.ID, now); err != nil {
		return err
	}

	dripData := template.DripData{FullName: app.FullName, ApplicationID: app.ID}
	drips := []struct {
		kind template.Kind
		due  time.Time
	}{
		{template.KindDripDay0, now},
		{template.KindDripDay2, now.Add(dripDay2Offset)},
		{template.KindDripDay6, now.Add(dripDay6Offset)},
	}
	for _, d := range drips {
		if err := m.enqueue(ctx, d.kind, dripData, app.Email, model.TriggerApplication, app.ID, d.due); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationDecision queues the approval or rejection email.
func (m *Mailer) ApplicationDecision(ctx context.Context, appID uint, decision string) error {
	app, err := m.store.GetApplication(ctx, appID)
	if err != nil {
		return err
	}
	if !app.EmailOptIn {
		logrus.Debugf("Application %d opted out, skipping decision email", appID)
		return nil
	}

	var kind template.Kind
	switch decision {
	case model.ApplicationApproved:
		kind = template.KindApplicationApproved
	case model.ApplicationRejected:
		kind = template.KindApplicationRejected
	default:
		return fmt.Errorf("unknown decision %q", decision)
	}

	data := template.ApplicationData{
		FullName:      app.FullName,
		Track:         app.Track,
		ApplicationID: app.ID,
	}
	return m.enqueue(ctx, kind, data, app.Email, model.TriggerApplication, app.ID, time.Now())
}

// RSVPConfirmed queues the registration confirmation.
func (m *Mailer) RSVPConfirmed(ctx context.Context, rsvpID uint) error {
	rsvp, err := m.store.GetRSVP(ctx, rsvpID)
	if err != nil {
		return err
	}
	if !rsvp.EmailOptIn {
		logrus.Debugf("RSVP %d opted out, skipping confirmation email", rsvpID)
		return nil
	}

	data := template.RSVPData{
		FullName:      rsvp.FullName,
		EventTitle:    rsvp.EventTitle,
		EventDate:     rsvp.EventDate,
		EventTime:     rsvp.EventTime,
		EventLocation: rsvp.EventLocation,
		RSVPID:        rsvp.ID,
	}
	return m.enqueue(ctx, template.KindRSVPConfirmed, data, rsvp.Email, model.TriggerRSVP, rsvp.ID, time.Now())
}

// EventReminder queues a reminder due at the given time (typically the
// day before the event).
func (m *Mailer) EventReminder(ctx context.Context, rsvpID uint, due time.Time) error {
	rsvp, err := m.store.GetRSVP(ctx, rsvpID)
	if err != nil {
		return err
	}
	if !rsvp.EmailOptIn {
		logrus.Debugf("RSVP %d opted out, skipping reminder email", rsvpID)
		return nil
	}

	data := template.RSVPData{
		FullName:      rsvp.FullName,
		EventTitle:    rsvp.EventTitle,
		EventDate:     rsvp.EventDate,
		EventTime:     rsvp.EventTime,
		EventLocation: rsvp.EventLocation,
		RSVPID:        rsvp.ID,
	}
	return m.enqueue(ctx, template.KindEventReminder, data, rsvp.Email, model.TriggerRSVP, rsvp.ID, due)
}

// RequeueJob resubmits a failed job as a fresh pending row. Terminal
// rows never revert, so manual resend always creates a new job.
func (m *Mailer) RequeueJob(ctx context.Context, jobID uint) (*model.EmailJob, error) {
	old, err := m.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if old.Status != model.JobStatusFailed {
		return nil, fmt.Errorf("job %d is %s, only failed jobs can be requeued", jobID, old.Status)
	}

	job := &model.EmailJob{
		To:           old.To,
		Subject:      old.Subject,
		HTML:         old.HTML,
		ScheduledFor: time.Now(),
		TriggerType:  old.TriggerType,
		TriggerRefID: old.TriggerRefID,
	}
	if err := m.store.EnqueueJob(ctx, job); err != nil {
		return nil, err
	}

	m.metrics.JobsEnqueued.Inc()
	logrus.Infof("Requeued failed job %d as job %d", jobID, job.ID)
	return job, nil
}

// SendCampaign resolves the campaign audience once and fans out one
// pending job per opted-in recipient. The snapshot is final: recipients
// are not re-evaluated after this call.
func (m *Mailer) SendCampaign(ctx context.Context, campaignID uint) (int, error) {
	campaign, err := m.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	if campaign.Status != model.CampaignDraft {
		return 0, fmt.Errorf("campaign %d already sent", campaignID)
	}

	recipients, err := m.store.ResolveAudience(ctx, campaign.Audience)
	if err != nil {
		return 0, err
	}

	// A fanout that failed partway leaves the campaign draft with some
	// rows already inserted. A retried send skips those recipients so
	// nobody receives the campaign twice.
	existing, err := m.store.ListJobs(ctx, "")
	if err != nil {
		return 0, err
	}
	already := make(map[string]bool)
	for _, job := range existing {
		if job.TriggerType == model.TriggerCampaign && job.TriggerRefID != nil && *job.TriggerRefID == campaign.ID {
			already[job.To] = true
		}
	}

	now := time.Now()
	count := 0
	for _, rec := range recipients {
		if already[rec.Email] {
			count++
			continue
		}
		data := template.CampaignData{
			FullName: rec.FullName,
			Subject:  campaign.Subject,
			Body:     campaign.Body,
			RefKind:  rec.Kind,
			RefID:    rec.RefID,
		}
		if err := m.enqueue(ctx, template.KindCampaign, data, rec.Email, model.TriggerCampaign, campaign.ID, now); err != nil {
			return count, err
		}
		count++
	}

	if err := m.store.MarkCampaignSent(ctx, campaign.ID, count, now); err != nil {
		return count, err
	}

	logrus.Infof("Campaign %d fanned out to %d recipients", campaignID, count)
	return count, nil
}
