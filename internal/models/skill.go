package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill category enums.
const (
	SkillCategoryTech      = "tech"
	SkillCategoryCreative  = "creative"
	SkillCategoryLifestyle = "lifestyle"
	SkillCategoryLanguage  = "language"
	SkillCategoryBusiness  = "business"
)

// Skill listing type enums.
const (
	SkillTypeTeach = "teach"
	SkillTypeLearn = "learn"
)

// Proficiency level enums.
const (
	ProficiencyBeginner     = "beginner"
	ProficiencyIntermediate = "intermediate"
	ProficiencyAdvanced     = "advanced"
	ProficiencyExpert       = "expert"
)

type Skill struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserSkill associates a user with a skill as teacher or learner.
// HourlyCreditRate is only meaningful on teach listings.
type UserSkill struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	SkillID          uuid.UUID `json:"skill_id"`
	SkillType        string    `json:"skill_type"`
	ProficiencyLevel string    `json:"proficiency_level,omitempty"`
	HourlyCreditRate *int      `json:"hourly_credit_rate,omitempty"`
	SkillName        string    `json:"skill_name,omitempty"`
	SkillCategory    string    `json:"category,omitempty"`
	SkillIcon        string    `json:"icon,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
