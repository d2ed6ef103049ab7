package models

import "time"

// PrayerStatus tracks how the prayer team is handling a request.
// Any status may follow any other.
type PrayerStatus string

const (
	PrayerNew      PrayerStatus = "new"
	PrayerPraying  PrayerStatus = "praying"
	PrayerPrayed   PrayerStatus = "prayed"
	PrayerAnswered PrayerStatus = "answered"
)

const AnonymousName = "Anonymous"

type PrayerRequestModel struct {
	Base
	Name         string       `json:"name"          gorm:"size:100;not null;default:Anonymous"`
	Email        *string      `json:"email"         gorm:"size:191"`
	Category     string       `json:"category"      gorm:"size:100;not null;index"`
	Request      string       `json:"request"       gorm:"type:text;not null"`
	IsAnonymous  bool         `json:"is_anonymous"  gorm:"not null;default:false"`
	AllowSharing bool         `json:"allow_sharing" gorm:"not null;default:false;index"`
	Status       PrayerStatus `json:"status"        gorm:"size:20;not null;default:new;index"`
	Notes        *string      `json:"notes"         gorm:"type:text"`
}

func (PrayerRequestModel) TableName() string { return "prayer_requests" }

// ContactMessageModel is a message left through the contact form.
// Status is free-form; new messages start as "new".
type ContactMessageModel struct {
	Base
	Name    string `json:"name"    gorm:"size:100;not null"`
	Email   string `json:"email"   gorm:"size:191;not null"`
	Subject string `json:"subject" gorm:"size:255;not null"`
	Message string `json:"message" gorm:"type:text;not null"`
	Status  string `json:"status"  gorm:"size:30;not null;default:new;index"`
}

func (ContactMessageModel) TableName() string { return "contact_messages" }

type SubscriberStatus string

const (
	SubscriberActive       SubscriberStatus = "active"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
)

// SubscriberModel is a newsletter recipient keyed by email. Rows are never
// hard-deleted; unsubscribing flips the status.
type SubscriberModel struct {
	ID               uint             `json:"id"            gorm:"primaryKey"`
	Email            string           `json:"email"         gorm:"size:191;not null;uniqueIndex"`
	Name             *string          `json:"name"          gorm:"size:100"`
	Status           SubscriberStatus `json:"status"        gorm:"size:20;not null;default:active;index"`
	UnsubscribeToken string           `json:"-"             gorm:"size:64;uniqueIndex"`
	SubscribedAt     time.Time        `json:"subscribed_at" gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (SubscriberModel) TableName() string { return "subscribers" }
