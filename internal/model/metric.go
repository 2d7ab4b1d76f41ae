package model

import "time"

// MetricType defines the measurement shape of a goal metric
type MetricType string

const (
	MetricLikert         MetricType = "likert"          // 5-point scale
	MetricRating         MetricType = "rating"          // 1-10 rating
	MetricBoolean        MetricType = "boolean"         // yes/no
	MetricMultipleChoice MetricType = "multiple_choice" // fixed option list
	MetricText           MetricType = "text"            // free text
)

// Metric is a single measurable item generated for a goal. Metrics are the
// precursor of questions: frozen at publish time, editable before.
type Metric struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        MetricType `json:"type"`
	Description *string    `json:"description"`
	Weight      float64    `json:"weight"`
	Options     []string   `json:"options,omitempty"` // multiple_choice only
}

// Goal is a measurement goal created by the upstream AI service together
// with its generated metrics
type Goal struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Metrics     []Metric  `json:"metrics"`
	CreatedAt   time.Time `json:"created_at"`
}

// Survey is a published goal: a frozen metric set respondents answer against
type Survey struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Metrics     []Metric  `json:"metrics"`
	AccessKey   string    `json:"access_key"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
