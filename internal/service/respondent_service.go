package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"formstudio/internal/cache"
	"formstudio/internal/model"
)

// MaxSessionQuestions caps how many questions one respondent session asks.
const MaxSessionQuestions = 5

// QuestionPicker chooses the next metric to ask about. The uniform random
// picker is placeholder policy; a server-driven adaptive picker can replace
// it without touching the session state machine.
type QuestionPicker interface {
	Pick(session *model.RespondentSession) (model.Metric, bool)
}

type randomPicker struct {
	rng *rand.Rand
}

// NewRandomPicker picks uniformly over the survey's metric list.
func NewRandomPicker() QuestionPicker {
	return &randomPicker{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (p *randomPicker) Pick(session *model.RespondentSession) (model.Metric, bool) {
	if len(session.Metrics) == 0 {
		return model.Metric{}, false
	}
	return session.Metrics[p.rng.Intn(len(session.Metrics))], true
}

// RespondentService runs adaptive respondent sessions over published
// surveys: loading -> asking(n) -> ... -> completed, with error reachable
// from any point. Session state lives in the cache so any instance can
// serve the next answer.
type RespondentService struct {
	surveys GoalStore
	cache   cache.RespondentCache
	picker  QuestionPicker
}

func NewRespondentService(surveys GoalStore, c cache.RespondentCache, picker QuestionPicker) *RespondentService {
	if picker == nil {
		picker = NewRandomPicker()
	}
	return &RespondentService{surveys: surveys, cache: c, picker: picker}
}

// Start opens a session for a survey. The access key must match the
// survey's; inactive surveys are not answerable. The first question is
// served immediately.
func (s *RespondentService) Start(ctx context.Context, surveyID, accessKey string) (*model.RespondentSession, error) {
	if accessKey == "" {
		return nil, ErrAccessDenied
	}
	survey, err := s.surveys.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.AccessKey != "" && survey.AccessKey != accessKey {
		return nil, ErrAccessDenied
	}
	if !survey.IsActive {
		return nil, ErrSurveyInactive
	}

	now := time.Now()
	session := &model.RespondentSession{
		ID:           "r_" + uuid.New().String()[:8],
		SurveyID:     surveyID,
		State:        model.RespondentAsking,
		MaxQuestions: MaxSessionQuestions,
		Metrics:      survey.Metrics,
		StartedAt:    now,
		LastActiveAt: now,
	}
	s.advance(session)

	if err := s.cache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

// Get loads a session by id.
func (s *RespondentService) Get(ctx context.Context, sessionID string) (*model.RespondentSession, error) {
	session, err := s.cache.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Answer records the answer to the current question and advances the
// session. Unanswerable submissions (no current question, completed
// session) are rejected.
func (s *RespondentService) Answer(ctx context.Context, sessionID string, value any) (*model.RespondentSession, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.RespondentAsking || session.Current == nil {
		return nil, ErrSessionDone
	}
	if !answered(value) {
		return nil, &ValidationError{Problems: []string{"an answer is required"}, MissingCount: 1}
	}

	session.Answers = append(session.Answers, model.SessionAnswer{
		QuestionID: session.Current.ID,
		MetricID:   session.Current.MetricID,
		Value:      value,
	})
	session.LastActiveAt = time.Now()
	s.advance(session)

	if err := s.cache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

// advance serves the next question or completes the session once the cap is
// reached or no metrics remain to sample from.
func (s *RespondentService) advance(session *model.RespondentSession) {
	session.QuestionNumber++
	if session.QuestionNumber > session.MaxQuestions {
		session.State = model.RespondentCompleted
		session.Current = nil
		return
	}
	metric, ok := s.picker.Pick(session)
	if !ok {
		session.State = model.RespondentCompleted
		session.Current = nil
		return
	}
	session.Current = synthesizeQuestion(metric)
}

// synthesizeQuestion derives a prompt and input shape from a metric.
func synthesizeQuestion(m model.Metric) *model.SessionQuestion {
	q := &model.SessionQuestion{
		ID:       "q_" + uuid.New().String()[:8],
		Text:     fmt.Sprintf("How would you rate the %s?", strings.ToLower(m.Name)),
		Type:     m.Type,
		MetricID: m.ID,
	}
	if m.Type == model.MetricMultipleChoice {
		q.Options = []string{"Excellent", "Good", "Average", "Poor", "Very Poor"}
	}
	return q
}
