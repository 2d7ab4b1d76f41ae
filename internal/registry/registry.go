// Package registry defines the closed set of question and metric types and
// the default shape of freshly created questions. All other packages consult
// the registry instead of branching on type tags directly.
package registry

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"formstudio/internal/model"
)

// ErrUnknownQuestionType is returned when a type tag has no registry entry.
var ErrUnknownQuestionType = errors.New("unknown question type")

// Category groups question types in the builder palette.
type Category string

const (
	CategoryInput      Category = "input"
	CategoryChoice     Category = "choice"
	CategoryUpload     Category = "upload"
	CategoryPreference Category = "preference"
)

// TypeConfig describes one question type: its display label, palette
// category, and which configuration fields the type carries.
type TypeConfig struct {
	Label          string
	Category       Category
	TakesOptions   bool
	TakesFileRules bool
	// Paired types create a linked question pair instead of a single entry.
	Paired bool
}

var defaultFileTypes = []string{".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png"}

const defaultMaxFileSize = 5 * 1024 * 1024 // 5MB

var questionTypes = map[model.QuestionType]TypeConfig{
	model.QuestionText:         {Label: "Text", Category: CategoryInput},
	model.QuestionTextarea:     {Label: "Long Text", Category: CategoryInput},
	model.QuestionEmail:        {Label: "Email", Category: CategoryInput},
	model.QuestionPhone:        {Label: "Phone Number", Category: CategoryInput},
	model.QuestionNumber:       {Label: "Number", Category: CategoryInput},
	model.QuestionDate:         {Label: "Date", Category: CategoryInput},
	model.QuestionTime:         {Label: "Time", Category: CategoryInput},
	model.QuestionSelect:       {Label: "Select", Category: CategoryChoice, TakesOptions: true},
	model.QuestionMultiselect:  {Label: "Multi-select", Category: CategoryChoice, TakesOptions: true},
	model.QuestionCheckbox:     {Label: "Checkbox", Category: CategoryChoice, TakesOptions: true},
	model.QuestionRadio:        {Label: "Radio", Category: CategoryChoice, TakesOptions: true},
	model.QuestionFile:         {Label: "File Upload", Category: CategoryUpload, TakesFileRules: true},
	model.QuestionImage:        {Label: "Image Upload", Category: CategoryUpload, TakesFileRules: true},
	model.QuestionPreference:   {Label: "Preference", Category: CategoryPreference, Paired: true},
	model.QuestionEBPreference: {Label: "EB Preference", Category: CategoryPreference, Paired: true},
}

// Lookup returns the config for a question type, or ErrUnknownQuestionType.
func Lookup(t model.QuestionType) (TypeConfig, error) {
	cfg, ok := questionTypes[t]
	if !ok {
		return TypeConfig{}, fmt.Errorf("%w: %q", ErrUnknownQuestionType, t)
	}
	return cfg, nil
}

// Known reports whether a type tag has a registry entry.
func Known(t model.QuestionType) bool {
	_, ok := questionTypes[t]
	return ok
}

// Types returns every registered question type. Order is not significant.
func Types() []model.QuestionType {
	out := make([]model.QuestionType, 0, len(questionTypes))
	for t := range questionTypes {
		out = append(out, t)
	}
	return out
}

// NewID generates a question id.
func NewID() string {
	return "q_" + uuid.New().String()[:8]
}

// NewQuestion constructs a fresh question of the given type with the
// registry's default shape: option lists seeded for choice types, file rules
// seeded for upload types. Paired types (preference, ebPreference) are not
// constructed here; callers delegate those to the linked-pair builder.
func NewQuestion(t model.QuestionType) (*model.Question, error) {
	cfg, err := Lookup(t)
	if err != nil {
		return nil, err
	}
	q := &model.Question{
		ID:   NewID(),
		Type: t,
	}
	if cfg.TakesOptions {
		q.Options = []string{"Option 1", "Option 2", "Option 3"}
	}
	if cfg.TakesFileRules {
		q.Validation = &model.ValidationRules{
			FileTypes: append([]string(nil), defaultFileTypes...),
			MaxSize:   defaultMaxFileSize,
		}
	}
	return q, nil
}

var metricTypeLabels = map[model.MetricType]string{
	model.MetricLikert:         "5-point scale",
	model.MetricRating:         "1-10 rating",
	model.MetricBoolean:        "Yes/No",
	model.MetricMultipleChoice: "Multiple choice",
	model.MetricText:           "Free text",
}

// MetricTypeLabel returns the display label for a metric type. Unknown types
// echo the raw tag.
func MetricTypeLabel(t model.MetricType) string {
	if label, ok := metricTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// QuestionTypeForMetric maps an evaluation metric's type onto the form
// question type used to collect it. Scale-like metrics become radio groups,
// multiple choice becomes a dropdown, free text becomes a textarea.
func QuestionTypeForMetric(t model.MetricType) model.QuestionType {
	switch t {
	case model.MetricLikert, model.MetricRating, model.MetricBoolean:
		return model.QuestionRadio
	case model.MetricMultipleChoice:
		return model.QuestionSelect
	case model.MetricText:
		return model.QuestionTextarea
	default:
		return model.QuestionText
	}
}

// OptionsForMetric returns the answer options presented for a metric when it
// is rendered as a form question. Free-text metrics have none.
func OptionsForMetric(m model.Metric) []string {
	switch m.Type {
	case model.MetricLikert:
		return []string{"1", "2", "3", "4", "5"}
	case model.MetricRating:
		return []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	case model.MetricBoolean:
		return []string{"Yes", "No"}
	case model.MetricMultipleChoice:
		if len(m.Options) > 0 {
			return append([]string(nil), m.Options...)
		}
		return []string{"Option 1", "Option 2", "Option 3"}
	default:
		return nil
	}
}
