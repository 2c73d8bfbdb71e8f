package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"english-bridge-mailer/internal/model"
)

func TestEnqueueAssignsIDAndPendingStatus(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	job := &model.EmailJob{To: "a@example.com", Subject: "Hi", HTML: "<p>Hi</p>"}
	require.NoError(t, store.EnqueueJob(ctx, job))

	assert.NotZero(t, job.ID)
	got, err := store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPending, got.Status)
	assert.Nil(t, got.SentAt)
	assert.Empty(t, got.ErrorMessage)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestClaimDueFiltersAndOrders(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	now := time.Now()

	late := &model.EmailJob{To: "late@example.com", ScheduledFor: now.Add(-time.Minute)}
	early := &model.EmailJob{To: "early@example.com", ScheduledFor: now.Add(-time.Hour)}
	future := &model.EmailJob{To: "future@example.com", ScheduledFor: now.Add(time.Hour)}
	require.NoError(t, store.EnqueueJob(ctx, late))
	require.NoError(t, store.EnqueueJob(ctx, early))
	require.NoError(t, store.EnqueueJob(ctx, future))

	due, err := store.ClaimDue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	// Oldest scheduled first so drip sequences fire in order.
	assert.Equal(t, "early@example.com", due[0].To)
	assert.Equal(t, "late@example.com", due[1].To)
}

func TestClaimDueRespectsLimit(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 5; i++ {
		job := &model.EmailJob{To: "x@example.com", ScheduledFor: now.Add(-time.Minute)}
		require.NoError(t, store.EnqueueJob(ctx, job))
	}

	due, err := store.ClaimDue(ctx, now, 3)
	require.NoError(t, err)
	assert.Len(t, due, 3)
}

func TestStatusTransitionsAreMonotonic(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	job := &model.EmailJob{To: "a@example.com"}
	require.NoError(t, store.EnqueueJob(ctx, job))

	sentAt := time.Now()
	require.NoError(t, store.MarkSent(ctx, job.ID, sentAt))

	got, err := store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusSent, got.Status)
	require.NotNil(t, got.SentAt)

	// A terminal job never reverts or flips to the other terminal state.
	require.NoError(t, store.MarkFailed(ctx, job.ID, "too late"))
	got, err = store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusSent, got.Status)
	assert.Empty(t, got.ErrorMessage)

	// Marking sent twice is a safe no-op.
	require.NoError(t, store.MarkSent(ctx, job.ID, time.Now()))
	got, err = store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, sentAt.Unix(), got.SentAt.Unix())
}

func TestMarkFailedIsTerminal(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	job := &model.EmailJob{To: "a@example.com"}
	require.NoError(t, store.EnqueueJob(ctx, job))
	require.NoError(t, store.MarkFailed(ctx, job.ID, "provider rejected"))

	got, err := store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, got.Status)
	assert.Equal(t, "provider rejected", got.ErrorMessage)
	assert.Nil(t, got.SentAt)

	require.NoError(t, store.MarkSent(ctx, job.ID, time.Now()))
	got, err = store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, got.Status)
}

func TestOptOutIsIdempotent(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	app := &model.Application{FullName: "Ana", Email: "ana@example.com", Track: "Beginner", EmailOptIn: true}
	require.NoError(t, store.CreateApplication(ctx, app))

	require.NoError(t, store.OptOut(ctx, model.TriggerApplication, app.ID))
	got, err := store.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.False(t, got.EmailOptIn)

	// Second click: same outcome, no toggle back.
	require.NoError(t, store.OptOut(ctx, model.TriggerApplication, app.ID))
	got, err = store.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.False(t, got.EmailOptIn)
}

func TestOptOutUnknownReference(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	assert.ErrorIs(t, store.OptOut(ctx, model.TriggerApplication, 999), ErrNotFound)
	assert.Error(t, store.OptOut(ctx, "cohort", 1))
}

func TestListJobsFiltersByStatus(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	a := &model.EmailJob{To: "a@example.com"}
	b := &model.EmailJob{To: "b@example.com"}
	require.NoError(t, store.EnqueueJob(ctx, a))
	require.NoError(t, store.EnqueueJob(ctx, b))
	require.NoError(t, store.MarkSent(ctx, a.ID, time.Now()))

	pending, err := store.ListJobs(ctx, string(model.JobStatusPending))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)

	all, err := store.ListJobs(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestResolveAudienceSkipsOptedOut(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	in := &model.Application{FullName: "In", Email: "in@example.com", Track: "Beginner", EmailOptIn: true}
	out := &model.Application{FullName: "Out", Email: "out@example.com", Track: "Beginner", EmailOptIn: true}
	require.NoError(t, store.CreateApplication(ctx, in))
	require.NoError(t, store.CreateApplication(ctx, out))
	require.NoError(t, store.OptOut(ctx, model.TriggerApplication, out.ID))

	rsvp := &model.EventRSVP{FullName: "Guest", Email: "guest@example.com", EventTitle: "Open House", EventDate: "June 5", EmailOptIn: true}
	require.NoError(t, store.CreateRSVP(ctx, rsvp))

	applicants, err := store.ResolveAudience(ctx, model.AudienceApplicants)
	require.NoError(t, err)
	require.Len(t, applicants, 1)
	assert.Equal(t, "in@example.com", applicants[0].Email)

	everyone, err := store.ResolveAudience(ctx, model.AudienceEveryone)
	require.NoError(t, err)
	assert.Len(t, everyone, 2)
}

func TestCampaignLifecycle(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	c := &model.EmailCampaign{Subject: "Spring update", Body: "Hello all", Audience: model.AudienceEveryone}
	require.NoError(t, store.CreateCampaign(ctx, c))
	assert.Equal(t, model.CampaignDraft, c.Status)

	sentAt := time.Now()
	require.NoError(t, store.MarkCampaignSent(ctx, c.ID, 4, sentAt))

	got, err := store.GetCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignSent, got.Status)
	assert.Equal(t, 4, got.SentCount)
	require.NotNil(t, got.SentAt)

	// Sending twice does not bump the count.
	require.NoError(t, store.MarkCampaignSent(ctx, c.ID, 9, time.Now()))
	got, err = store.GetCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.SentCount)
}
