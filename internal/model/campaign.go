package model

import (
	"time"
)

// CampaignStatus is the lifecycle state of a batch campaign.
type CampaignStatus string

const (
	CampaignDraft CampaignStatus = "draft"
	CampaignSent  CampaignStatus = "sent"
)

// Campaign audiences. The audience is resolved once, at send time; the
// resulting jobs are a snapshot and are not re-evaluated per recipient.
const (
	AudienceApplicants = "applicants"
	AudienceAttendees  = "attendees"
	AudienceEveryone   = "everyone"
)

// CampaignRecipient is one member of a resolved audience snapshot. Kind
// and RefID point back at the opt-in record so the fanned-out emails can
// carry a working unsubscribe link.
type CampaignRecipient struct {
	FullName string
	Email    string
	Kind     string
	RefID    uint
}

// EmailCampaign is a one-shot batch email fanned out to every opted-in
// recipient in its audience.
type EmailCampaign struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Subject   string         `json:"subject" gorm:"type:varchar(500);not null"`
	Body      string         `json:"body" gorm:"type:mediumtext;not null"`
	Audience  string         `json:"audience" gorm:"type:varchar(50);not null"`
	Status    CampaignStatus `json:"status" gorm:"type:varchar(20);not null;default:draft"`
	SentCount int            `json:"sent_count"`
	SentAt    *time.Time     `json:"sent_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for EmailCampaign
func (EmailCampaign) TableName() string {
	return "email_campaigns"
}
