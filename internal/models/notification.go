package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification type enums.
const (
	NotificationTypeSession = "session"
	NotificationTypeReview  = "review"
	NotificationTypeCredit  = "credit"
	NotificationTypeBadge   = "badge"
	NotificationTypeSystem  = "system"
)

type Notification struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	Type          string     `json:"type"`
	ReferenceType string     `json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID `json:"reference_id,omitempty"`
	IsRead        bool       `json:"is_read"`
	CreatedAt     time.Time  `json:"created_at"`
}
