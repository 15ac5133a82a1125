package models

import (
	"time"

	"github.com/google/uuid"
)

// Session status enums. Allowed transitions:
// pending -> confirmed | declined | cancelled; confirmed -> completed | cancelled.
const (
	SessionStatusPending   = "pending"
	SessionStatusConfirmed = "confirmed"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
	SessionStatusDeclined  = "declined"
)

type Session struct {
	ID              uuid.UUID `json:"id"`
	TeacherID       uuid.UUID `json:"teacher_id"`
	LearnerID       uuid.UUID `json:"learner_id"`
	SkillID         uuid.UUID `json:"skill_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Status          string    `json:"status"`
	ScheduledDate   time.Time `json:"scheduled_date"`
	DurationMinutes int       `json:"duration_minutes"`
	CreditCost      int       `json:"credit_cost"`
	MeetingLink     string    `json:"meeting_link,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Joined display fields, populated by list/detail queries.
	TeacherName   string `json:"teacher_name,omitempty"`
	TeacherAvatar string `json:"teacher_avatar,omitempty"`
	LearnerName   string `json:"learner_name,omitempty"`
	LearnerAvatar string `json:"learner_avatar,omitempty"`
	SkillName     string `json:"skill_name,omitempty"`
	SkillIcon     string `json:"skill_icon,omitempty"`
}

// IsParticipant reports whether the user is the session's teacher or learner.
func (s *Session) IsParticipant(userID uuid.UUID) bool {
	return s.TeacherID == userID || s.LearnerID == userID
}
