package service

import (
	"context"
	"log"

	"formstudio/internal/client"
	"formstudio/internal/model"
	"formstudio/internal/registry"
)

// FormStore is the slice of the backend client the form flow needs.
type FormStore interface {
	CreateForm(ctx context.Context, form map[string]any) (map[string]any, error)
	GetForm(ctx context.Context, id string) (map[string]any, error)
	GenerateQuestions(ctx context.Context, formID string) ([]client.GeneratedQuestion, error)
	SubmitForm(ctx context.Context, formID string, responses map[string]any) error
}

// FormService handles generated survey forms: creating them from metrics,
// rendering them, and submitting responses.
type FormService struct {
	store FormStore
}

func NewFormService(store FormStore) *FormService {
	return &FormService{store: store}
}

// QuestionsFromMetrics converts survey metrics into form questions, one per
// metric, using the registry's type mapping.
func (s *FormService) QuestionsFromMetrics(metrics []model.Metric) []model.Question {
	out := make([]model.Question, 0, len(metrics))
	for _, m := range metrics {
		q := model.Question{
			ID:       registry.NewID(),
			Type:     registry.QuestionTypeForMetric(m.Type),
			Label:    m.Name,
			Required: true,
			MetricID: m.ID,
			Options:  registry.OptionsForMetric(m),
		}
		if m.Description != nil {
			q.Description = *m.Description
		}
		out = append(out, q)
	}
	return out
}

// CreateForm persists a metric-derived form and asks the backend to
// generate its question set. Remotely assigned question ids are merged back
// over the locally generated ones by list position.
func (s *FormService) CreateForm(ctx context.Context, title, description string, metrics []model.Metric) ([]model.Question, string, error) {
	questions := s.QuestionsFromMetrics(metrics)
	created, err := s.store.CreateForm(ctx, map[string]any{
		"title":       title,
		"description": description,
		"questions":   questions,
	})
	if err != nil {
		return nil, "", err
	}
	formID, _ := created["id"].(string)

	if formID != "" {
		generated, err := s.store.GenerateQuestions(ctx, formID)
		if err != nil {
			log.Printf("[Forms] question generation failed for %s, keeping local ids: %v", formID, err)
		} else {
			for i := range questions {
				if i < len(generated) && generated[i].ID != "" {
					questions[i].ID = generated[i].ID
				}
			}
		}
	}
	return questions, formID, nil
}

// Submit validates the response state and, in live mode, sends it to the
// backend. Validation failures short-circuit before any network call. In
// preview mode a passing validation reports success with no submission and
// the responses stay in place. Only a successful live submit clears the
// response state back to a fresh form; on failure it is preserved so the
// user can retry.
func (s *FormService) Submit(ctx context.Context, formID string, questions []model.Question, state *ResponseState, preview bool) error {
	responses := state.Values()
	if err := ValidateResponses(questions, responses); err != nil {
		return err
	}
	if preview {
		return nil
	}
	if err := s.store.SubmitForm(ctx, formID, responses); err != nil {
		return err
	}
	state.Clear()
	return nil
}
