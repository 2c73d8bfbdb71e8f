package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"english-bridge-mailer/internal/model"
	"english-bridge-mailer/internal/repository"
)

// ListJobs returns queued jobs, optionally filtered by ?status=.
func (h *Handlers) ListJobs(c *gin.Context) {
	status := c.Query("status")
	jobs, err := h.store.ListJobs(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch jobs",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GetJob returns a single job by ID
func (h *Handlers) GetJob(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid_id", Message: "Invalid job ID", Code: http.StatusBadRequest})
		return
	}
	job, err := h.store.GetJob(c.Request.Context(), uint(id))
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "not_found", Message: "Job not found", Code: http.StatusNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "database_error", Message: "Failed to fetch job", Code: http.StatusInternalServerError})
		return
	}
	c.JSON(http.StatusOK, job)
}

// RequeueJob resubmits a failed job as a new pending row. The original
// row keeps its terminal failed state.
func (h *Handlers) RequeueJob(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid_id", Message: "Invalid job ID", Code: http.StatusBadRequest})
		return
	}
	job, err := h.mailer.RequeueJob(c.Request.Context(), uint(id))
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "not_found", Message: "Job not found", Code: http.StatusNotFound})
			return
		}
		c.JSON(http.StatusConflict, model.ErrorResponse{Error: "requeue_error", Message: err.Error(), Code: http.StatusConflict})
		return
	}
	c.JSON(http.StatusCreated, job)
}

// RunSchedulerOnce triggers one queue cycle outside the regular interval.
func (h *Handlers) RunSchedulerOnce(c *gin.Context) {
	if err := h.scheduler.RunOnce(); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "scheduler_error", Message: "Failed to run queue cycle", Code: http.StatusInternalServerError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}
