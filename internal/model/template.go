package model

import "time"

// FormAudience classifies who a form is served to
type FormAudience string

const (
	AudienceDelegate    FormAudience = "delegate"
	AudienceMember      FormAudience = "member"
	AudienceSecretariat FormAudience = "secretariat"
)

// FormTemplate is the full shape of a builder form as persisted to the
// upstream draft store and as published. Questions keep insertion order;
// a dependent question always directly follows its owner.
type FormTemplate struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Questions   []Question   `json:"questions"`
	Audience    FormAudience `json:"audience"`

	// Pair-type classification flags, flipped on first confirmed use of the
	// corresponding pair question type.
	IsEBApplication          bool `json:"isEBApplication"`
	IsConferenceRegistration bool `json:"isConferenceRegistration"`

	IsActive  bool       `json:"is_active"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
