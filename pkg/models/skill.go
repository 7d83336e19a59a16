package models

import "time"

// Skill is one entry of the skills matrix.
type Skill struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Subcategory      *string   `json:"subcategory"`
	ProficiencyLevel *int      `json:"proficiency_level"`
	YearsExperience  *float64  `json:"years_experience"`
	Description      *string   `json:"description"`
	IsPrimary        bool      `json:"is_primary"`
	Icon             *string   `json:"icon"`
	CreatedAt        time.Time `json:"created_at"`
}

// SkillFilters are the optional skill list filters.
type SkillFilters struct {
	Category    *string
	PrimaryOnly bool
}

// OtherSubcategory buckets skills without a subcategory.
const OtherSubcategory = "other"

// SkillSummary is the compact skill shape used in grouped listings.
type SkillSummary struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	ProficiencyLevel *int     `json:"proficiency_level"`
	YearsExperience  *float64 `json:"years_experience"`
	IsPrimary        bool     `json:"is_primary"`
	Icon             *string  `json:"icon"`
}

// SkillGroups maps category to subcategory to skills.
type SkillGroups map[string]map[string][]SkillSummary

// GroupSkills buckets skills by category then subcategory, preserving input order.
func GroupSkills(skills []Skill) SkillGroups {
	groups := SkillGroups{}
	for _, s := range skills {
		sub := OtherSubcategory
		if s.Subcategory != nil && *s.Subcategory != "" {
			sub = *s.Subcategory
		}
		if groups[s.Category] == nil {
			groups[s.Category] = map[string][]SkillSummary{}
		}
		groups[s.Category][sub] = append(groups[s.Category][sub], SkillSummary{
			ID:               s.ID,
			Name:             s.Name,
			ProficiencyLevel: s.ProficiencyLevel,
			YearsExperience:  s.YearsExperience,
			IsPrimary:        s.IsPrimary,
			Icon:             s.Icon,
		})
	}
	return groups
}

// SocialLink is an external profile link.
type SocialLink struct {
	ID           int64     `json:"id"`
	Platform     string    `json:"platform"`
	URL          string    `json:"url"`
	DisplayName  *string   `json:"display_name"`
	Icon         *string   `json:"icon"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
