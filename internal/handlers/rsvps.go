package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"english-bridge-mailer/internal/model"
	"english-bridge-mailer/internal/repository"
)

// CreateRSVP records an event registration and queues the confirmation.
func (h *Handlers) CreateRSVP(c *gin.Context) {
	var req model.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	rsvp := model.EventRSVP{
		FullName:      req.FullName,
		Email:         req.Email,
		EventTitle:    req.EventTitle,
		EventDate:     req.EventDate,
		EventTime:     req.EventTime,
		EventLocation: req.EventLocation,
		EmailOptIn:    true,
	}
	if err := h.store.CreateRSVP(c.Request.Context(), &rsvp); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create RSVP",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if err := h.mailer.RSVPConfirmed(c.Request.Context(), rsvp.ID); err != nil {
		logrus.Errorf("Failed to enqueue RSVP confirmation for %d: %v", rsvp.ID, err)
	}

	c.JSON(http.StatusCreated, rsvp)
}

// ScheduleReminder queues an event reminder for the given RSVP. The
// optional "due" query parameter (RFC3339) defaults to now.
func (h *Handlers) ScheduleReminder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid_id", Message: "Invalid RSVP ID", Code: http.StatusBadRequest})
		return
	}

	due := time.Now()
	if raw := c.Query("due"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "validation_error", Message: "Invalid due timestamp, expected RFC3339", Code: http.StatusBadRequest})
			return
		}
		due = parsed
	}

	if err := h.mailer.EventReminder(c.Request.Context(), uint(id), due); err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "not_found", Message: "RSVP not found", Code: http.StatusNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "enqueue_error", Message: "Failed to schedule reminder", Code: http.StatusInternalServerError})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"rsvp_id": id, "due": due})
}
