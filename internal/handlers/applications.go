package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"english-bridge-mailer/internal/model"
	"english-bridge-mailer/internal/repository"
)

// CreateApplication records a program application and queues the
// confirmation plus the welcome drip series. Email enqueueing is
// fire-and-forget from the applicant's point of view: a queue problem
// never fails the application itself.
func (h *Handlers) CreateApplication(c *gin.Context) {
	var req model.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	app := model.Application{
		FullName:   req.FullName,
		Email:      req.Email,
		Track:      req.Track,
		Status:     model.ApplicationPending,
		EmailOptIn: true,
	}
	if err := h.store.CreateApplication(c.Request.Context(), &app); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create application",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if err := h.mailer.ApplicationReceived(c.Request.Context(), app.ID); err != nil {
		logrus.Errorf("Failed to enqueue application emails for %d: %v", app.ID, err)
	}

	c.JSON(http.StatusCreated, app)
}

// DecideApplication approves or rejects an application and queues the
// status email.
func (h *Handlers) DecideApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid_id", Message: "Invalid application ID", Code: http.StatusBadRequest})
		return
	}

	var req model.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "validation_error", Message: "Invalid request body", Code: http.StatusBadRequest})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetApplication(ctx, uint(id)); err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "not_found", Message: "Application not found", Code: http.StatusNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "database_error", Message: "Failed to load application", Code: http.StatusInternalServerError})
		return
	}

	if err := h.store.UpdateApplicationStatus(ctx, uint(id), req.Decision); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "database_error", Message: "Failed to update application", Code: http.StatusInternalServerError})
		return
	}

	if err := h.mailer.ApplicationDecision(ctx, uint(id), req.Decision); err != nil {
		logrus.Errorf("Failed to enqueue decision email for application %d: %v", id, err)
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Decision})
}
