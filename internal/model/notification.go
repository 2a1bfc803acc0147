package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationCategory groups notifications by the feature that produced them
type NotificationCategory string

const (
	NotificationCategoryReport       NotificationCategory = "REPORT"
	NotificationCategoryAnnouncement NotificationCategory = "ANNOUNCEMENT"
)

// Notification is the in-app record written once per recipient of a fan-out
// call. Immutable after insert except the read flag.
type Notification struct {
	ID        uuid.UUID            `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID            `json:"user_id" gorm:"type:uuid;not null;index"`
	Title     string               `json:"title" gorm:"size:255;not null"`
	Body      string               `json:"body" gorm:"type:text"`
	ClickURL  string               `json:"click_url" gorm:"size:500"`
	Category  NotificationCategory `json:"category" gorm:"type:varchar(30);not null"`
	IsRead    bool                 `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time            `json:"created_at"`
}

// PushPayload is the JSON document delivered to the push provider
type PushPayload struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	ClickURL string `json:"clickUrl"`
	Icon     string `json:"icon"`
	Badge    string `json:"badge"`
	Image    string `json:"image"`
}

// NotificationCounts holds per-user totals; computed inside one transaction so
// Total == Unread + Read always holds within a single feed read.
type NotificationCounts struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
	Read   int64 `json:"read"`
}

// NotificationFeed is the batched read the notification bell consumes
type NotificationFeed struct {
	Recent []Notification     `json:"recent"` // at most 5 unread, newest first
	All    []Notification     `json:"all"`    // unread first, then newest
	Unread []Notification     `json:"unread"`
	Read   []Notification     `json:"read"`
	Counts NotificationCounts `json:"counts"`
}

// DispatchResult summarizes one fan-out call
type DispatchResult struct {
	Delivered int `json:"delivered"`
	Pruned    int `json:"pruned"`
}
