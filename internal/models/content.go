package models

import (
	"time"

	"github.com/google/uuid"
)

// Learning content type enums.
const (
	ContentTypeVideo    = "video"
	ContentTypeArticle  = "article"
	ContentTypeDocument = "document"
)

type LearningContent struct {
	ID              uuid.UUID `json:"id"`
	CreatorID       uuid.UUID `json:"creator_id"`
	SkillID         uuid.UUID `json:"skill_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	ContentType     string    `json:"content_type"`
	ContentURL      string    `json:"content_url"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	DifficultyLevel string    `json:"difficulty_level,omitempty"`
	IsPremium       bool      `json:"is_premium"`
	ViewCount       int       `json:"view_count"`
	IsApproved      bool      `json:"is_approved"`
	CreatedAt       time.Time `json:"created_at"`

	CreatorName   string `json:"creator_name,omitempty"`
	CreatorAvatar string `json:"creator_avatar,omitempty"`
	SkillName     string `json:"skill_name,omitempty"`
	SkillIcon     string `json:"skill_icon,omitempty"`
}
