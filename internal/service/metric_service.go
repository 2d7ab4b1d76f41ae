package service

import (
	"context"
	"strings"

	"formstudio/internal/model"
)

// GoalStore is the slice of the backend client the goal flow needs.
type GoalStore interface {
	CreateGoal(ctx context.Context, description string) (*model.Goal, error)
	GetGoal(ctx context.Context, id string) (*model.Goal, error)
	UpdateMetrics(ctx context.Context, goalID string, metrics []model.Metric) error
	PublishGoal(ctx context.Context, goalID string) (string, error)
	GetSurvey(ctx context.Context, id string) (*model.Survey, error)
}

// MetricService drives the goal-to-survey flow: describe a goal, curate its
// generated metrics, publish it as a live survey.
type MetricService struct {
	store GoalStore
}

func NewMetricService(store GoalStore) *MetricService {
	return &MetricService{store: store}
}

// CreateGoal creates a goal from a free-text description.
func (s *MetricService) CreateGoal(ctx context.Context, description string) (*model.Goal, error) {
	if strings.TrimSpace(description) == "" {
		return nil, &ValidationError{Problems: []string{"goal description is required"}}
	}
	return s.store.CreateGoal(ctx, description)
}

// GetGoal fetches a goal with its metrics.
func (s *MetricService) GetGoal(ctx context.Context, id string) (*model.Goal, error) {
	return s.store.GetGoal(ctx, id)
}

// UpdateMetrics replaces a goal's metric list after local shape checks.
func (s *MetricService) UpdateMetrics(ctx context.Context, goalID string, metrics []model.Metric) error {
	var problems []string
	for _, m := range metrics {
		if strings.TrimSpace(m.Name) == "" {
			problems = append(problems, "every metric needs a name")
			break
		}
	}
	for _, m := range metrics {
		if m.Type == model.MetricMultipleChoice && len(m.Options) == 0 {
			problems = append(problems, "multiple choice metrics need at least one option")
			break
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return s.store.UpdateMetrics(ctx, goalID, metrics)
}

// Publish turns a goal into a live survey and returns the survey id.
func (s *MetricService) Publish(ctx context.Context, goalID string) (string, error) {
	return s.store.PublishGoal(ctx, goalID)
}

// GetSurvey fetches a published survey.
func (s *MetricService) GetSurvey(ctx context.Context, id string) (*model.Survey, error) {
	return s.store.GetSurvey(ctx, id)
}
