package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"english-bridge-mailer/internal/model"
)

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := model.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  "ok",
		Transport: h.transport.Name(),
		Metrics:   make(map[string]string),
	}

	if _, err := h.store.ListJobs(c.Request.Context(), string(model.JobStatusPending)); err != nil {
		response.Status = "error"
		response.Database = "error"
	}

	if h.scheduler.IsRunning() {
		response.Metrics["scheduler"] = "running"
		response.Metrics["next_run"] = h.scheduler.GetNextRun().Format(time.RFC3339)
		response.Metrics["last_run"] = h.scheduler.GetLastRun().Format(time.RFC3339)
	} else {
		response.Metrics["scheduler"] = "stopped"
	}

	statusCode := http.StatusOK
	if response.Status == "error" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
