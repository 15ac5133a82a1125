package models

import (
	"time"

	"github.com/google/uuid"
)

// Badge requirement_type enums.
const (
	BadgeReqSessionsTaught    = "sessions_taught"
	BadgeReqSessionsLearned   = "sessions_learned"
	BadgeReqSessionsCompleted = "sessions_completed"
)

type Badge struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Icon             string    `json:"icon,omitempty"`
	RequirementType  string    `json:"requirement_type"`
	RequirementValue int       `json:"requirement_value"`
	CreatedAt        time.Time `json:"created_at"`
}

type UserBadge struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	BadgeID  uuid.UUID `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}
