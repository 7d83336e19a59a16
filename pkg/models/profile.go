package models

import (
	"fmt"
	"time"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
)

// Profile is the singleton identity record of the portfolio owner.
type Profile struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	Title        string    `json:"title"`
	Bio          *string   `json:"bio"`
	HeroPitch    string    `json:"hero_pitch"`
	Email        *string   `json:"email"`
	Phone        *string   `json:"phone"`
	LinkedInURL  *string   `json:"linkedin_url"`
	GitHubURL    *string   `json:"github_url"`
	KaggleURL    *string   `json:"kaggle_url"`
	PhotoURL     *string   `json:"photo_url"`
	Location     *string   `json:"location"`
	Availability *string   `json:"availability"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileUpdate is the whitelist of mutable profile fields. Decoding rejects
// any other key.
type ProfileUpdate struct {
	FullName     Patch[string] `json:"full_name"`
	Title        Patch[string] `json:"title"`
	Bio          Patch[string] `json:"bio"`
	HeroPitch    Patch[string] `json:"hero_pitch"`
	Email        Patch[string] `json:"email"`
	Phone        Patch[string] `json:"phone"`
	LinkedInURL  Patch[string] `json:"linkedin_url"`
	GitHubURL    Patch[string] `json:"github_url"`
	KaggleURL    Patch[string] `json:"kaggle_url"`
	PhotoURL     Patch[string] `json:"photo_url"`
	Location     Patch[string] `json:"location"`
	Availability Patch[string] `json:"availability"`
}

// Assignments returns the present fields as column assignments.
func (u ProfileUpdate) Assignments() []ColumnValue {
	fields := []struct {
		column string
		patch  Patch[string]
	}{
		{"full_name", u.FullName},
		{"title", u.Title},
		{"bio", u.Bio},
		{"hero_pitch", u.HeroPitch},
		{"email", u.Email},
		{"phone", u.Phone},
		{"linkedin_url", u.LinkedInURL},
		{"github_url", u.GitHubURL},
		{"kaggle_url", u.KaggleURL},
		{"photo_url", u.PhotoURL},
		{"location", u.Location},
		{"availability", u.Availability},
	}

	var out []ColumnValue
	for _, f := range fields {
		if f.patch.Set {
			out = append(out, ColumnValue{Column: f.column, Value: f.patch.Arg()})
		}
	}
	return out
}

// Validate rejects an empty patch and nulls on required columns.
func (u ProfileUpdate) Validate() error {
	if len(u.Assignments()) == 0 {
		return apperrors.ErrEmptyUpdate
	}
	for name, p := range map[string]Patch[string]{
		"full_name":  u.FullName,
		"title":      u.Title,
		"hero_pitch": u.HeroPitch,
	} {
		if p.Set && p.Value == nil {
			return fmt.Errorf("%w: %s cannot be null", apperrors.ErrBadRequest, name)
		}
	}
	return nil
}
