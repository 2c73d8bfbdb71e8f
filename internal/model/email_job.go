package model

import (
	"time"
)

// JobStatus is the lifecycle state of a queued email.
type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusSent    JobStatus = "sent"
	JobStatusFailed  JobStatus = "failed"
)

// Trigger kinds recorded on a job for audit purposes.
const (
	TriggerApplication = "application"
	TriggerRSVP        = "rsvp"
	TriggerCampaign    = "campaign"
	TriggerManual      = "manual"
)

// EmailJob represents one queued outbound email. Rows are append-only:
// the scheduler moves a job from pending to exactly one terminal state
// and nothing ever deletes or reverts it.
type EmailJob struct {
	ID           uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	To           string     `json:"to" gorm:"column:to_email;type:varchar(255);not null"`
	Subject      string     `json:"subject" gorm:"type:varchar(500);not null"`
	HTML         string     `json:"html" gorm:"column:html_body;type:mediumtext;not null"`
	Status       JobStatus  `json:"status" gorm:"type:varchar(20);not null;default:pending;index:idx_status_due"`
	ScheduledFor time.Time  `json:"scheduled_for" gorm:"not null;index:idx_status_due"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty" gorm:"type:text"`
	TriggerType  string     `json:"trigger_type,omitempty" gorm:"type:varchar(50)"`
	TriggerRefID *uint      `json:"trigger_ref_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TableName specifies the table name for EmailJob
func (EmailJob) TableName() string {
	return "email_jobs"
}

// Terminal reports whether the job has reached a final state.
func (j *EmailJob) Terminal() bool {
	return j.Status == JobStatusSent || j.Status == JobStatusFailed
}
