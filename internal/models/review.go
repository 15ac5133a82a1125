package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	RevieweeID uuid.UUID `json:"reviewee_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	ReviewerName   string `json:"reviewer_name,omitempty"`
	ReviewerAvatar string `json:"reviewer_avatar,omitempty"`
	SessionTitle   string `json:"session_title,omitempty"`
}
