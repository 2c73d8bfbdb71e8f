package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"english-bridge-mailer/internal/mailer"
	"english-bridge-mailer/internal/metrics"
	"english-bridge-mailer/internal/repository"
	"english-bridge-mailer/internal/scheduler"
	"english-bridge-mailer/internal/transport"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store     repository.Store
	mailer    *mailer.Mailer
	scheduler *scheduler.Scheduler
	transport transport.Transport
	metrics   *metrics.Metrics
}

// NewHandlers creates new HTTP handlers
func NewHandlers(store repository.Store, m *mailer.Mailer, s *scheduler.Scheduler, tr transport.Transport, mt *metrics.Metrics) *Handlers {
	return &Handlers{store: store, mailer: m, scheduler: s, transport: tr, metrics: mt}
}

// SetupRoutes registers all routes on the router
func (h *Handlers) SetupRoutes(r *gin.Engine) {
	r.GET("/healthz", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public, unauthenticated by design: the link lives in email footers.
	r.GET("/unsubscribe/:kind/:id", h.Unsubscribe)

	api := r.Group("/api")
	{
		api.POST("/applications", h.CreateApplication)
		api.POST("/applications/:id/decision", h.DecideApplication)

		api.POST("/rsvps", h.CreateRSVP)
		api.POST("/rsvps/:id/reminder", h.ScheduleReminder)

		api.GET("/jobs", h.ListJobs)
		api.GET("/jobs/:id", h.GetJob)
		api.POST("/jobs/:id/requeue", h.RequeueJob)

		api.GET("/campaigns", h.ListCampaigns)
		api.POST("/campaigns", h.CreateCampaign)
		api.GET("/campaigns/:id", h.GetCampaign)
		api.POST("/campaigns/:id/send", h.SendCampaign)

		api.POST("/scheduler/run", h.RunSchedulerOnce)
	}
}
