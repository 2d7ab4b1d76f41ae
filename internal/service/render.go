package service

import (
	"fmt"
	"strings"

	"formstudio/internal/model"
	"formstudio/internal/registry"
)

// ValidationError reports a failed local validation pass. It short-circuits
// before any network call and enumerates every missing or invalid field.
type ValidationError struct {
	Problems     []string
	MissingCount int
}

func (e *ValidationError) Error() string {
	if e.MissingCount > 0 {
		return fmt.Sprintf("%d missing", e.MissingCount)
	}
	return strings.Join(e.Problems, "; ")
}

// ControlKind names the input control a question renders as.
type ControlKind string

const (
	ControlInput       ControlKind = "input"
	ControlTextarea    ControlKind = "textarea"
	ControlDate        ControlKind = "date"
	ControlTime        ControlKind = "time"
	ControlDropdown    ControlKind = "dropdown"
	ControlCheckboxes  ControlKind = "checkboxes"
	ControlRadio       ControlKind = "radio"
	ControlFile        ControlKind = "file"
	ControlPreference  ControlKind = "preference"
	ControlUnsupported ControlKind = "unsupported"
)

// Control is the renderer's output for one question: everything a client
// needs to draw the input without re-deriving type rules.
type Control struct {
	QuestionID  string      `json:"questionId"`
	Kind        ControlKind `json:"kind"`
	Label       string      `json:"label"`
	Description string      `json:"description,omitempty"`
	Required    bool        `json:"required"`
	// InputHint carries the keyboard/validation hint for typed single-line
	// inputs (email, phone, number).
	InputHint string   `json:"inputHint,omitempty"`
	Options   []string `json:"options,omitempty"`
	// Multiple marks checkbox-style controls whose value is an array.
	Multiple bool `json:"multiple,omitempty"`
	// Accept and MaxSize constrain file pickers, from the validation bag.
	Accept  []string `json:"accept,omitempty"`
	MaxSize int64    `json:"maxSize,omitempty"`
	// Placeholder is the visible text for unsupported types.
	Placeholder string `json:"placeholder,omitempty"`
	// DependsOn links a dependent preference control to its owner.
	DependsOn string `json:"dependsOn,omitempty"`
}

// RenderControl maps one question to its input control. Unknown types yield
// a visible "type not supported" placeholder instead of an error.
func RenderControl(q model.Question) Control {
	c := Control{
		QuestionID:  q.ID,
		Label:       q.Label,
		Description: q.Description,
		Required:    q.Required,
		DependsOn:   q.LinkedCommitteeID,
	}

	switch q.Type {
	case model.QuestionText:
		c.Kind = ControlInput
	case model.QuestionTextarea:
		c.Kind = ControlTextarea
	case model.QuestionEmail:
		c.Kind = ControlInput
		c.InputHint = "email"
	case model.QuestionPhone:
		c.Kind = ControlInput
		c.InputHint = "tel"
	case model.QuestionNumber:
		c.Kind = ControlInput
		c.InputHint = "number"
	case model.QuestionDate:
		c.Kind = ControlDate
	case model.QuestionTime:
		c.Kind = ControlTime
	case model.QuestionSelect:
		c.Kind = ControlDropdown
		c.Options = q.Options
	case model.QuestionMultiselect, model.QuestionCheckbox:
		c.Kind = ControlCheckboxes
		c.Options = q.Options
		c.Multiple = true
	case model.QuestionRadio:
		c.Kind = ControlRadio
		c.Options = q.Options
	case model.QuestionFile, model.QuestionImage:
		c.Kind = ControlFile
		if q.Validation != nil {
			c.Accept = q.Validation.FileTypes
			c.MaxSize = q.Validation.MaxSize
		}
	case model.QuestionPreference, model.QuestionEBPreference:
		c.Kind = ControlPreference
	default:
		c.Kind = ControlUnsupported
		c.Placeholder = fmt.Sprintf("Question type %q is not supported", q.Type)
	}
	return c
}

// RenderForm maps a question list to its controls, one per question in list
// order.
func RenderForm(questions []model.Question) []Control {
	out := make([]Control, len(questions))
	for i, q := range questions {
		out[i] = RenderControl(q)
	}
	return out
}

// RenderMetricQuestion derives a respondent-facing control from a survey
// metric, using the registry's metric mappings.
func RenderMetricQuestion(m model.Metric) Control {
	q := model.Question{
		ID:       m.ID,
		Type:     registry.QuestionTypeForMetric(m.Type),
		Label:    m.Name,
		Required: true,
		Options:  registry.OptionsForMetric(m),
	}
	return RenderControl(q)
}
