package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"english-bridge-mailer/internal/config"
	"english-bridge-mailer/internal/mailer"
	"english-bridge-mailer/internal/metrics"
	"english-bridge-mailer/internal/model"
	"english-bridge-mailer/internal/repository"
	"english-bridge-mailer/internal/scheduler"
	"english-bridge-mailer/internal/template"
	"english-bridge-mailer/internal/transport"
)

// One metrics set per test binary; promauto registers globally.
var testMetrics = metrics.NewMetrics()

func newTestRouter(store repository.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)

	ml := mailer.New(store, template.New("https://englishbridge.org"), testMetrics)
	sched := scheduler.NewScheduler(&config.SchedulerConfig{IntervalMinutes: 60, BatchSize: 10}, store, transport.Unconfigured{}, testMetrics)
	h := NewHandlers(store, ml, sched, transport.Unconfigured{}, testMetrics)

	r := gin.New()
	h.SetupRoutes(r)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateApplicationQueuesEmails(t *testing.T) {
	store := repository.NewMemory()
	r := newTestRouter(store)

	w := doJSON(r, http.MethodPost, "/api/applications", model.ApplicationRequest{
		FullName: "Ana García",
		Email:    "ana@example.com",
		Track:    "Beginner",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var app model.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &app))
	assert.NotZero(t, app.ID)
	assert.True(t, app.EmailOptIn)

	jobs, err := store.ListJobs(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, jobs, 4) // confirmation + drip series
}

func TestCreateApplicationValidation(t *testing.T) {
	store := repository.NewMemory()
	r := newTestRouter(store)

	w := doJSON(r, http.MethodPost, "/api/applications", map[string]string{"full_name": "No Email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	jobs, err := store.ListJobs(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestDecideApplication(t *testing.T) {
	store := repository.NewMemory()
	r := newTestRouter(store)

	app := &model.Application{FullName: "Ana", Email: "ana@example.com", Track: "Beginner", EmailOptIn: true}
	require.NoError(t, store.CreateApplication(context.Background(), app))

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/applications/%d/decision", app.ID), model.DecisionRequest{Decision: "approved"})
	require.Equal(t, http.StatusOK, w.Code)

	got, err := store.GetApplication(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationApproved, got.Status)

	jobs, err := store.ListJobs(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Welcome to the Beginner track!", jobs[0].Subject)

	w = doJSON(r, http.MethodPost, "/api/applications/999/decision", model.DecisionRequest{Decision: "approved"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	store := repository.NewMemory()
	r := newTestRouter(store)

	app := &model.Application{FullName: "Ana", Email: "ana@example.com", Track: "Beginner", EmailOptIn: true}
	require.NoError(t, store.CreateApplication(context.Background(), app))

	url := fmt.Sprintf("/unsubscribe/application/%d", app.ID)

	first := doJSON(r, http.MethodGet, url, nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), "unsubscribed")

	got, err := store.GetApplication(context.Background(), app.ID)
	require.NoError(t, err)
	assert.False(t, got.EmailOptIn)

	// Second click: identical page, flag stays false.
	second := doJSON(r, http.MethodGet, url, nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	got, err = store.GetApplication(context.Background(), app.ID)
	require.NoError(t, err)
	assert.False(t, got.EmailOptIn)
}

func TestUnsubscribeInvalidReferenceStillConfirms(t *testing.T) {
	store := repository.NewMemory()
	r := newTestRouter(store)

	for _, url := range []string{
		"/unsubscribe/application/999",
		"/unsubscribe/application/not-a-number",
		"/unsubscribe/cohort/1",
	} {
		w := doJSON(r, http.MethodGet, url, nil)
		assert.Equal(t, http.StatusOK, w.Code, url)
		assert.Contains(t, w.Body.String(), "unsubscribed", url)
	}
}

func TestRequeueJobEndpoint(t *testing.T) {
	store := repository.NewMemory()
	r := newTestRouter(store)
	ctx := context.Background()

	job := &model.EmailJob{To: "ana@example.com", Subject: "Hi", HTML: "<p>Hi</p>"}
	require.NoError(t, store.EnqueueJob(ctx, job))

	// Only failed jobs can be requeued.
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/jobs/%d/requeue", job.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	require.NoError(t, store.MarkFailed(ctx, job.ID, "provider down"))

	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/jobs/%d/requeue", job.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var requeued model.EmailJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &requeued))
	assert.NotEqual(t, job.ID, requeued.ID)
	assert.Equal(t, model.JobStatusPending, requeued.Status)

	w = doJSON(r, http.MethodPost, "/api/jobs/999/requeue", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCampaignEndpoints(t *testing.T) {
	store := repository.NewMemory()
	r := newTestRouter(store)
	ctx := context.Background()

	app := &model.Application{FullName: "Ana", Email: "ana@example.com", Track: "Beginner", EmailOptIn: true}
	require.NoError(t, store.CreateApplication(ctx, app))

	w := doJSON(r, http.MethodPost, "/api/campaigns", model.CampaignRequest{
		Subject:  "Spring update",
		Body:     "New cohorts open soon",
		Audience: model.AudienceApplicants,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var campaign model.EmailCampaign
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &campaign))
	assert.Equal(t, model.CampaignDraft, campaign.Status)

	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/campaigns/%d/send", campaign.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	jobs, err := store.ListJobs(ctx, "")
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	// Second send is rejected.
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/campaigns/%d/send", campaign.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListJobsEndpoint(t *testing.T) {
	store := repository.NewMemory()
	r := newTestRouter(store)
	ctx := context.Background()

	a := &model.EmailJob{To: "a@example.com", Subject: "A", HTML: "x"}
	b := &model.EmailJob{To: "b@example.com", Subject: "B", HTML: "x"}
	require.NoError(t, store.EnqueueJob(ctx, a))
	require.NoError(t, store.EnqueueJob(ctx, b))
	require.NoError(t, store.MarkSent(ctx, a.ID, time.Now()))

	w := doJSON(r, http.MethodGet, "/api/jobs?status=sent", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var jobs []model.EmailJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, a.ID, jobs[0].ID)
}

func TestHealthCheck(t *testing.T) {
	store := repository.NewMemory()
	r := newTestRouter(store)

	w := doJSON(r, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "unconfigured", resp.Transport)
	assert.Equal(t, "stopped", resp.Metrics["scheduler"])
}
