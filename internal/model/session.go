package model

import "time"

// RespondentState is the state of an adaptive respondent session
type RespondentState string

const (
	RespondentLoading   RespondentState = "loading"
	RespondentAsking    RespondentState = "asking"
	RespondentCompleted RespondentState = "completed"
	RespondentError     RespondentState = "error"
)

// SessionQuestion is one question served to a respondent, derived from a
// survey metric
type SessionQuestion struct {
	ID       string     `json:"id"`
	Text     string     `json:"text"`
	Type     MetricType `json:"type"`
	Options  []string   `json:"options,omitempty"`
	MetricID string     `json:"metric_id"`
}

// SessionAnswer is a recorded answer for one served question
type SessionAnswer struct {
	QuestionID string `json:"questionId"`
	MetricID   string `json:"metricId"`
	Value      any    `json:"value"`
}

// RespondentSession tracks one participant answering a survey one question
// at a time
type RespondentSession struct {
	ID             string           `json:"id"`
	SurveyID       string           `json:"surveyId"`
	State          RespondentState  `json:"state"`
	QuestionNumber int              `json:"questionNumber"`
	MaxQuestions   int              `json:"maxQuestions"`
	Current        *SessionQuestion `json:"current,omitempty"`
	Metrics        []Metric         `json:"metrics"`
	Answers        []SessionAnswer  `json:"answers"`
	StartedAt      time.Time        `json:"startedAt"`
	LastActiveAt   time.Time        `json:"lastActiveAt"`
}
