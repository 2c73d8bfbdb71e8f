package model

import (
	"time"
)

// Application statuses mirror the admissions flow that triggers status emails.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// Application is a program application. It carries the opt-in flag that
// gates every email enqueued against it; the flag defaults to true and is
// flipped to false at most once by the unsubscribe endpoint.
type Application struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	FullName   string    `json:"full_name" gorm:"type:varchar(255);not null"`
	Email      string    `json:"email" gorm:"type:varchar(255);not null;index"`
	Track      string    `json:"track" gorm:"type:varchar(100);not null"`
	Status     string    `json:"status" gorm:"type:varchar(20);not null;default:pending"`
	EmailOptIn bool      `json:"email_opt_in" gorm:"not null;default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for Application
func (Application) TableName() string {
	return "applications"
}

// EventRSVP is a confirmed registration for a community event. Like
// Application it owns its own opt-in flag.
type EventRSVP struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	FullName      string    `json:"full_name" gorm:"type:varchar(255);not null"`
	Email         string    `json:"email" gorm:"type:varchar(255);not null;index"`
	EventTitle    string    `json:"event_title" gorm:"type:varchar(255);not null"`
	EventDate     string    `json:"event_date" gorm:"type:varchar(100);not null"`
	EventTime     string    `json:"event_time" gorm:"type:varchar(100)"`
	EventLocation string    `json:"event_location" gorm:"type:varchar(255)"`
	EmailOptIn    bool      `json:"email_opt_in" gorm:"not null;default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for EventRSVP
func (EventRSVP) TableName() string {
	return "event_rsvps"
}
