package model

// QuestionType defines the type of builder question
type QuestionType string

const (
	QuestionText         QuestionType = "text"
	QuestionTextarea     QuestionType = "textarea"
	QuestionEmail        QuestionType = "email"
	QuestionPhone        QuestionType = "phone"
	QuestionNumber       QuestionType = "number"
	QuestionDate         QuestionType = "date"
	QuestionTime         QuestionType = "time"
	QuestionSelect       QuestionType = "select"
	QuestionMultiselect  QuestionType = "multiselect"
	QuestionCheckbox     QuestionType = "checkbox"
	QuestionRadio        QuestionType = "radio"
	QuestionFile         QuestionType = "file"
	QuestionImage        QuestionType = "image"
	QuestionPreference   QuestionType = "preference"
	QuestionEBPreference QuestionType = "ebPreference"
)

// ValidationRules is the per-question validation bag. Absent fields mean
// "no constraint"; which fields are honored depends on the question type.
type ValidationRules struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	FileTypes []string `json:"fileTypes,omitempty"`
	MaxSize   int64    `json:"maxSize,omitempty"` // bytes
}

// PreferenceKind distinguishes the halves of a linked preference pair
type PreferenceKind string

const (
	PreferenceCommittee PreferenceKind = "committee"
	PreferencePortfolio PreferenceKind = "portfolio"
	PreferenceRole      PreferenceKind = "role"
)

// PreferenceConfig configures a preference-style question
type PreferenceConfig struct {
	Kind           PreferenceKind    `json:"kind"`
	MinPreferences int               `json:"minPreferences,omitempty"`
	MaxPreferences int               `json:"maxPreferences,omitempty"`
	RoleLabels     map[string]string `json:"roleLabels,omitempty"`
}

// Question is a single builder question. Insertion order in the owning
// template is the rendering and respondent order.
type Question struct {
	ID          string           `json:"id"`
	Type        QuestionType     `json:"type"`
	Label       string           `json:"label"`
	Description string           `json:"description,omitempty"`
	Required    bool             `json:"required"`
	Options     []string         `json:"options,omitempty"`
	Validation  *ValidationRules `json:"validation,omitempty"`
	MetricID    string           `json:"metricId,omitempty"`

	// Value holds the builder-side selection for preference questions;
	// changing the owner's value invalidates the dependent's.
	Value string `json:"value,omitempty"`

	// LinkedCommitteeID marks a dependent question owned by a primary
	// "committee" question. Dependents are created, reordered and deleted
	// only as a unit with their owner.
	LinkedCommitteeID string `json:"linkedCommitteeId,omitempty"`

	// IsSystemManaged marks questions generated as part of a pair; the
	// user cannot freely retype them.
	IsSystemManaged bool `json:"isSystemManaged,omitempty"`

	PreferenceConfig *PreferenceConfig `json:"preferenceConfig,omitempty"`
}

// IsDependent reports whether the question is the dependent half of a pair
func (q *Question) IsDependent() bool {
	return q.LinkedCommitteeID != ""
}
