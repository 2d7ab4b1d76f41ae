// Package draft holds the in-memory editable state of one form template:
// the ordered question list, the linked-pair invariant, and the save
// precondition. A Draft is owned by a single editing session and is not
// safe for concurrent use on its own.
package draft

import (
	"fmt"
	"strings"

	"formstudio/internal/model"
	"formstudio/internal/registry"
)

// MinQuestions is the smallest question count a saveable form may have.
const MinQuestions = 2

// Draft wraps a form template with the builder's mutation operations.
type Draft struct {
	tmpl model.FormTemplate
}

// New creates a draft over an existing template. The template is copied so
// later mutations do not alias the caller's value.
func New(tmpl model.FormTemplate) *Draft {
	tmpl.Questions = append([]model.Question(nil), tmpl.Questions...)
	return &Draft{tmpl: tmpl}
}

// Template returns a snapshot of the draft's current state.
func (d *Draft) Template() model.FormTemplate {
	out := d.tmpl
	out.Questions = append([]model.Question(nil), d.tmpl.Questions...)
	return out
}

// Questions returns a copy of the full materialized question list.
func (d *Draft) Questions() []model.Question {
	return append([]model.Question(nil), d.tmpl.Questions...)
}

// TopLevel returns the non-dependent questions in list order. Dependents are
// rendered inline beneath their owner and never listed independently.
func (d *Draft) TopLevel() []model.Question {
	var out []model.Question
	for _, q := range d.tmpl.Questions {
		if !q.IsDependent() {
			out = append(out, q)
		}
	}
	return out
}

// ID returns the template's remote id, empty until the draft store assigns
// one.
func (d *Draft) ID() string { return d.tmpl.ID }

// SetID records a remotely assigned template id.
func (d *Draft) SetID(id string) { d.tmpl.ID = id }

// SetName updates the template name.
func (d *Draft) SetName(name string) { d.tmpl.Name = name }

// SetDescription updates the template description.
func (d *Draft) SetDescription(desc string) { d.tmpl.Description = desc }

// SetAudience updates who the form is shown to.
func (d *Draft) SetAudience(a model.FormAudience) { d.tmpl.Audience = a }

func (d *Draft) index(id string) int {
	for i := range d.tmpl.Questions {
		if d.tmpl.Questions[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Draft) dependentIndex(ownerID string) int {
	for i := range d.tmpl.Questions {
		if d.tmpl.Questions[i].LinkedCommitteeID == ownerID {
			return i
		}
	}
	return -1
}

// AddQuestion constructs a question of the given type and appends it.
// Pair types append an owner/dependent unit; the first pair-type question on
// a form requires confirmation, which also flips the form's classification
// flag (an EB pair additionally retargets the form at members). Returns the
// ids of the appended questions, owner first.
func (d *Draft) AddQuestion(t model.QuestionType, confirmed bool) ([]string, error) {
	cfg, err := registry.Lookup(t)
	if err != nil {
		return nil, err
	}
	if !cfg.Paired {
		q, err := registry.NewQuestion(t)
		if err != nil {
			return nil, err
		}
		d.tmpl.Questions = append(d.tmpl.Questions, *q)
		return []string{q.ID}, nil
	}

	switch t {
	case model.QuestionEBPreference:
		if !d.tmpl.IsEBApplication {
			if !confirmed {
				return nil, ErrConfirmationRequired
			}
			d.tmpl.IsEBApplication = true
			d.tmpl.Audience = model.AudienceMember
		}
		owner, dep := NewEBPreferencePair()
		d.tmpl.Questions = append(d.tmpl.Questions, owner, dep)
		return []string{owner.ID, dep.ID}, nil
	default: // model.QuestionPreference
		if !d.tmpl.IsConferenceRegistration {
			if !confirmed {
				return nil, ErrConfirmationRequired
			}
			d.tmpl.IsConferenceRegistration = true
		}
		owner, dep := NewPreferencePair()
		d.tmpl.Questions = append(d.tmpl.Questions, owner, dep)
		return []string{owner.ID, dep.ID}, nil
	}
}

// QuestionPatch carries a partial update. Nil fields are left untouched.
type QuestionPatch struct {
	Label       *string
	Description *string
	Required    *bool
	Options     []string
	Validation  *model.ValidationRules
	Value       *string
}

// UpdateQuestion merges a patch into the matching question. Setting a
// pair-owner's value clears its dependent's value, since the dependent's
// valid option set is a function of the owner's selection.
func (d *Draft) UpdateQuestion(id string, p QuestionPatch) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	q := &d.tmpl.Questions[i]
	if p.Label != nil {
		q.Label = *p.Label
	}
	if p.Description != nil {
		q.Description = *p.Description
	}
	if p.Required != nil {
		q.Required = *p.Required
	}
	if p.Options != nil {
		q.Options = append([]string(nil), p.Options...)
	}
	if p.Validation != nil {
		v := *p.Validation
		q.Validation = &v
	}
	if p.Value != nil && q.Value != *p.Value {
		q.Value = *p.Value
		if j := d.dependentIndex(id); j >= 0 {
			d.tmpl.Questions[j].Value = ""
		}
	}
	return nil
}

// DeleteQuestion removes a question. Deleting a pair owner cascades to its
// dependent in the same operation; dependents are not independently
// deletable.
func (d *Draft) DeleteQuestion(id string) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if d.tmpl.Questions[i].IsDependent() {
		return ErrDependentManaged
	}
	keep := d.tmpl.Questions[:0]
	for _, q := range d.tmpl.Questions {
		if q.ID == id || q.LinkedCommitteeID == id {
			continue
		}
		keep = append(keep, q)
	}
	d.tmpl.Questions = keep
	return nil
}

// ChangeQuestionType retypes a question and resets its type-specific
// configuration to the registry defaults for the new type. System-managed
// questions, pair owners with a live dependent, and retyping into a pair
// type are rejected; pairs change type only by deleting and re-adding.
func (d *Draft) ChangeQuestionType(id string, t model.QuestionType) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	q := &d.tmpl.Questions[i]
	if q.IsSystemManaged {
		return ErrSystemManaged
	}
	for _, other := range d.tmpl.Questions {
		if other.LinkedCommitteeID == id {
			return fmt.Errorf("%w: %s owns a linked question", ErrSystemManaged, id)
		}
	}
	cfg, err := registry.Lookup(t)
	if err != nil {
		return err
	}
	if cfg.Paired {
		return fmt.Errorf("cannot retype %s into pair type %s, add it from the palette", id, t)
	}
	fresh, err := registry.NewQuestion(t)
	if err != nil {
		return err
	}
	q.Type = t
	q.Options = fresh.Options
	q.Validation = fresh.Validation
	q.Value = ""
	return nil
}

// AddOption appends a new option to a choice question.
func (d *Draft) AddOption(id string) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	q := &d.tmpl.Questions[i]
	q.Options = append(q.Options, fmt.Sprintf("Option %d", len(q.Options)+1))
	return nil
}

// UpdateOption rewrites one option in place.
func (d *Draft) UpdateOption(id string, idx int, text string) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	q := &d.tmpl.Questions[i]
	if idx < 0 || idx >= len(q.Options) {
		return fmt.Errorf("%w: option %d of %s", ErrNotFound, idx, id)
	}
	q.Options[idx] = text
	return nil
}

// DeleteOption removes one option. The last option is not deletable.
func (d *Draft) DeleteOption(id string, idx int) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	q := &d.tmpl.Questions[i]
	if idx < 0 || idx >= len(q.Options) {
		return fmt.Errorf("%w: option %d of %s", ErrNotFound, idx, id)
	}
	if len(q.Options) == 1 {
		return ErrLastOption
	}
	q.Options = append(q.Options[:idx], q.Options[idx+1:]...)
	return nil
}

// CanSave reports whether the draft meets the save precondition: a
// non-blank name, at least MinQuestions questions, and no blank labels.
// Recomputed from current state on every call.
func (d *Draft) CanSave() bool {
	return len(d.Problems()) == 0
}

// Problems lists everything blocking a save, for user-facing display.
func (d *Draft) Problems() []string {
	var out []string
	if strings.TrimSpace(d.tmpl.Name) == "" {
		out = append(out, "form name is required")
	}
	if len(d.tmpl.Questions) < MinQuestions {
		out = append(out, fmt.Sprintf("at least %d questions are required", MinQuestions))
	}
	for i, q := range d.tmpl.Questions {
		if strings.TrimSpace(q.Label) == "" {
			out = append(out, fmt.Sprintf("question %d has no label", i+1))
		}
	}
	return out
}
