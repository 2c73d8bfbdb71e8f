package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"english-bridge-mailer/internal/model"
	"english-bridge-mailer/internal/repository"
)

// ListCampaigns returns all campaigns
func (h *Handlers) ListCampaigns(c *gin.Context) {
	campaigns, err := h.store.ListCampaigns(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch campaigns",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

// CreateCampaign creates a draft campaign
func (h *Handlers) CreateCampaign(c *gin.Context) {
	var req model.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	campaign := model.EmailCampaign{
		Subject:  req.Subject,
		Body:     req.Body,
		Audience: req.Audience,
		Status:   model.CampaignDraft,
	}
	if err := h.store.CreateCampaign(c.Request.Context(), &campaign); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "database_error", Message: "Failed to create campaign", Code: http.StatusInternalServerError})
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

// GetCampaign returns a single campaign by ID
func (h *Handlers) GetCampaign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid_id", Message: "Invalid campaign ID", Code: http.StatusBadRequest})
		return
	}
	campaign, err := h.store.GetCampaign(c.Request.Context(), uint(id))
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "not_found", Message: "Campaign not found", Code: http.StatusNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "database_error", Message: "Failed to fetch campaign", Code: http.StatusInternalServerError})
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// SendCampaign resolves the audience snapshot and fans the campaign out
// into the queue. A campaign can be sent once.
func (h *Handlers) SendCampaign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid_id", Message: "Invalid campaign ID", Code: http.StatusBadRequest})
		return
	}

	count, err := h.mailer.SendCampaign(c.Request.Context(), uint(id))
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "not_found", Message: "Campaign not found", Code: http.StatusNotFound})
			return
		}
		c.JSON(http.StatusConflict, model.ErrorResponse{Error: "send_error", Message: err.Error(), Code: http.StatusConflict})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "sent_count": count})
}
