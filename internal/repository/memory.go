package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"english-bridge-mailer/internal/model"
)

// Memory implements Store in process memory for tests and local
// development. It mirrors the guarded-update semantics of the GORM
// implementation, including terminal-state protection.
type Memory struct {
	mu sync.RWMutex

	jobs         map[uint]*model.EmailJob
	applications map[uint]*model.Application
	rsvps        map[uint]*model.EventRSVP
	campaigns    map[uint]*model.EmailCampaign

	nextJobID      uint
	nextAppID      uint
	nextRSVPID     uint
	nextCampaignID uint
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		jobs:         make(map[uint]*model.EmailJob),
		applications: make(map[uint]*model.Application),
		rsvps:        make(map[uint]*model.EventRSVP),
		campaigns:    make(map[uint]*model.EmailCampaign),
	}
}

// EnqueueJob implements Store.
func (m *Memory) EnqueueJob(ctx context.Context, job *model.EmailJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextJobID++
	job.ID = m.nextJobID
	job.Status = model.JobStatusPending
	if job.ScheduledFor.IsZero() {
		job.ScheduledFor = time.Now()
	}
	job.CreatedAt = time.Now()

	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

// ClaimDue implements Store.
func (m *Memory) ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.EmailJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var due []model.EmailJob
	for _, job := range m.jobs {
		if job.Status == model.JobStatusPending && !job.ScheduledFor.After(now) {
			due = append(due, *job)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].ScheduledFor.Equal(due[j].ScheduledFor) {
			return due[i].ID < due[j].ID
		}
		return due[i].ScheduledFor.Before(due[j].ScheduledFor)
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// MarkSent implements Store.
func (m *Memory) MarkSent(ctx context.Context, id uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok || job.Status != model.JobStatusPending {
		return nil
	}
	job.Status = model.JobStatusSent
	t := at
	job.SentAt = &t
	return nil
}

// MarkFailed implements Store.
func (m *Memory) MarkFailed(ctx context.Context, id uint, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok || job.Status != model.JobStatusPending {
		return nil
	}
	job.Status = model.JobStatusFailed
	job.ErrorMessage = message
	return nil
}

// GetJob implements Store.
func (m *Memory) GetJob(ctx context.Context, id uint) (*model.EmailJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *job
	return &cp, nil
}

// ListJobs implements Store.
func (m *Memory) ListJobs(ctx context.Context, status string) ([]model.EmailJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var jobs []model.EmailJob
	for _, job := range m.jobs {
		if status == "" || string(job.Status) == status {
			jobs = append(jobs, *job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID > jobs[j].ID })
	return jobs, nil
}

// CreateApplication implements Store.
func (m *Memory) CreateApplication(ctx context.Context, app *model.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextAppID++
	app.ID = m.nextAppID
	if app.Status == "" {
		app.Status = model.ApplicationPending
	}
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt

	cp := *app
	m.applications[app.ID] = &cp
	return nil
}

// GetApplication implements Store.
func (m *Memory) GetApplication(ctx context.Context, id uint) (*model.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	app, ok := m.applications[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *app
	return &cp, nil
}

// UpdateApplicationStatus implements Store.
func (m *Memory) UpdateApplicationStatus(ctx context.Context, id uint, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	app, ok := m.applications[id]
	if !ok {
		return ErrNotFound
	}
	app.Status = status
	app.UpdatedAt = time.Now()
	return nil
}

// CreateRSVP implements Store.
func (m *Memory) CreateRSVP(ctx context.Context, rsvp *model.EventRSVP) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextRSVPID++
	rsvp.ID = m.nextRSVPID
	rsvp.CreatedAt = time.Now()
	rsvp.UpdatedAt = rsvp.CreatedAt

	cp := *rsvp
	m.rsvps[rsvp.ID] = &cp
	return nil
}

// GetRSVP implements Store.
func (m *Memory) GetRSVP(ctx context.Context, id uint) (*model.EventRSVP, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rsvp, ok := m.rsvps[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rsvp
	return &cp, nil
}

// OptOut implements Store.
func (m *Memory) OptOut(ctx context.Context, kind string, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch kind {
	case model.TriggerApplication:
		app, ok := m.applications[id]
		if !ok {
			return ErrNotFound
		}
		app.EmailOptIn = false
	case model.TriggerRSVP:
		rsvp, ok := m.rsvps[id]
		if !ok {
			return ErrNotFound
		}
		rsvp.EmailOptIn = false
	default:
		return fmt.Errorf("unknown opt-out kind %q", kind)
	}
	return nil
}

// CreateCampaign implements Store.
func (m *Memory) CreateCampaign(ctx context.Context, c *model.EmailCampaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextCampaignID++
	c.ID = m.nextCampaignID
	c.Status = model.CampaignDraft
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	cp := *c
	m.campaigns[c.ID] = &cp
	return nil
}

// GetCampaign implements Store.
func (m *Memory) GetCampaign(ctx context.Context, id uint) (*model.EmailCampaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.campaigns[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// ListCampaigns implements Store.
func (m *Memory) ListCampaigns(ctx context.Context) ([]model.EmailCampaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var campaigns []model.EmailCampaign
	for _, c := range m.campaigns {
		campaigns = append(campaigns, *c)
	}
	sort.Slice(campaigns, func(i, j int) bool { return campaigns[i].ID > campaigns[j].ID })
	return campaigns, nil
}

// MarkCampaignSent implements Store.
func (m *Memory) MarkCampaignSent(ctx context.Context, id uint, count int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.campaigns[id]
	if !ok || c.Status != model.CampaignDraft {
		return nil
	}
	c.Status = model.CampaignSent
	c.SentCount = count
	t := at
	c.SentAt = &t
	c.UpdatedAt = time.Now()
	return nil
}

// ResolveAudience implements Store.
func (m *Memory) ResolveAudience(ctx context.Context, audience string) ([]model.CampaignRecipient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var recipients []model.CampaignRecipient

	if audience == model.AudienceApplicants || audience == model.AudienceEveryone {
		ids := make([]uint, 0, len(m.applications))
		for id := range m.applications {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			a := m.applications[id]
			if a.EmailOptIn {
				recipients = append(recipients, model.CampaignRecipient{
					FullName: a.FullName,
					Email:    a.Email,
					Kind:     model.TriggerApplication,
					RefID:    a.ID,
				})
			}
		}
	}

	if audience == model.AudienceAttendees || audience == model.AudienceEveryone {
		ids := make([]uint, 0, len(m.rsvps))
		for id := range m.rsvps {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			rs := m.rsvps[id]
			if rs.EmailOptIn {
				recipients = append(recipients, model.CampaignRecipient{
					FullName: rs.FullName,
					Email:    rs.Email,
					Kind:     model.TriggerRSVP,
					RefID:    rs.ID,
				})
			}
		}
	}

	return recipients, nil
}
