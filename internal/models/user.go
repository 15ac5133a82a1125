package models

import (
	"time"

	"github.com/google/uuid"
)

// User role enums.
const (
	UserRoleLearner = "learner"
	UserRoleTeacher = "teacher"
	UserRoleBoth    = "both"
)

// WelcomeBonusCredits is granted to every new user at registration.
const WelcomeBonusCredits = 100

type User struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	Name               string     `json:"name"`
	Bio                string     `json:"bio,omitempty"`
	AvatarURL          string     `json:"avatar_url,omitempty"`
	Role               string     `json:"role"`
	CreditBalance      int        `json:"credit_balance"`
	IsPremium          bool       `json:"is_premium"`
	IsAdmin            bool       `json:"is_admin"`
	IsActive           bool       `json:"is_active"`
	LanguagePreference string     `json:"language_preference"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// UserStats carries the aggregates computed on profile reads.
type UserStats struct {
	SessionsTaught  int      `json:"total_sessions_taught"`
	SessionsLearned int      `json:"total_sessions_learned"`
	AverageRating   *float64 `json:"average_rating,omitempty"`
	TotalReviews    int      `json:"total_reviews"`
	BadgesEarned    int      `json:"badges_earned"`
}
