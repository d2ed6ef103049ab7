package models

import "time"

// Base carries the auto-increment key and timestamps shared by most tables.
type Base struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentStatus gates public visibility of posts and volumes.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
)

// All returns every model managed by schema bootstrap.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&PostModel{},
		&VolumeModel{},
		&CommentModel{},
		&PrayerRequestModel{},
		&ContactMessageModel{},
		&SubscriberModel{},
	}
}
