package model

import (
	"time"
)

// ErrorResponse is the uniform error body returned by the REST API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Transport string            `json:"transport"`
	Metrics   map[string]string `json:"metrics"`
}

// ApplicationRequest is the payload for submitting a program application.
type ApplicationRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Track    string `json:"track" binding:"required"`
}

// DecisionRequest approves or rejects an application.
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

// RSVPRequest is the payload for confirming an event registration.
type RSVPRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	EventTitle    string `json:"event_title" binding:"required"`
	EventDate     string `json:"event_date" binding:"required"`
	EventTime     string `json:"event_time"`
	EventLocation string `json:"event_location"`
}

// CampaignRequest creates a draft campaign.
type CampaignRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Audience string `json:"audience" binding:"required,oneof=applicants attendees everyone"`
}
