// Package client wraps the upstream survey backend's HTTP API. All
// persistence lives behind this client; the rest of the module never talks
// to the network directly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"formstudio/internal/model"
)

// APIError is a non-2xx reply from the backend. Detail carries the body's
// "detail" message when one was present and parseable.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.StatusCode, e.Detail)
}

// Backend is the HTTP client for the survey backend.
type Backend struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewBackend creates a client against the given base URL.
func NewBackend(baseURL string) *Backend {
	return &Backend{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// doRequest performs one HTTP round trip. Only GETs are retried: the
// backend's POST/PUT endpoints are not guaranteed idempotent.
func (b *Backend) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	url := b.baseURL + path
	log.Printf("[Backend] %s %s", method, path)

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = b.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 500 * time.Millisecond
			log.Printf("[Backend] Retry %d/%d for %s %s in %v", attempt, attempts-1, method, path, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := b.httpClient.Do(req)
		if err != nil {
			log.Printf("[Backend] ERROR: %s %s failed (attempt %d): %v", method, path, attempt+1, err)
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Printf("[Backend] ERROR: reading response body: %v", err)
			lastErr = err
			continue
		}

		if resp.StatusCode >= 400 {
			apiErr := &APIError{StatusCode: resp.StatusCode, Detail: "request failed"}
			var parsed struct {
				Detail string `json:"detail"`
			}
			if err := json.Unmarshal(respBody, &parsed); err == nil && parsed.Detail != "" {
				apiErr.Detail = parsed.Detail
			}
			log.Printf("[Backend] ERROR: %s %s returned %d: %s", method, path, resp.StatusCode, apiErr.Detail)
			return nil, apiErr
		}

		return respBody, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}

// dataEnvelope is the backend's standard success wrapper.
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// CreateGoal creates an evaluation goal from a free-text description.
func (b *Backend) CreateGoal(ctx context.Context, description string) (*model.Goal, error) {
	body := map[string]string{"description": description}
	respBody, err := b.doRequest(ctx, http.MethodPost, "/api/survey/goals", body)
	if err != nil {
		return nil, err
	}
	var env dataEnvelope[model.Goal]
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to parse goal response: %w", err)
	}
	return &env.Data, nil
}

// GetGoal fetches a goal and its generated metrics.
func (b *Backend) GetGoal(ctx context.Context, id string) (*model.Goal, error) {
	respBody, err := b.doRequest(ctx, http.MethodGet, "/api/survey/goals/"+id, nil)
	if err != nil {
		return nil, err
	}
	var env dataEnvelope[model.Goal]
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to parse goal response: %w", err)
	}
	return &env.Data, nil
}

// UpdateMetrics replaces a goal's metric list.
func (b *Backend) UpdateMetrics(ctx context.Context, goalID string, metrics []model.Metric) error {
	body := map[string]any{"metrics": metrics}
	_, err := b.doRequest(ctx, http.MethodPut, "/api/survey/goals/"+goalID+"/metrics", body)
	return err
}

// PublishGoal turns a goal into a live survey and returns the survey id.
func (b *Backend) PublishGoal(ctx context.Context, goalID string) (string, error) {
	respBody, err := b.doRequest(ctx, http.MethodPost, "/api/survey/goals/"+goalID+"/publish", nil)
	if err != nil {
		return "", err
	}
	var out struct {
		SurveyID string `json:"survey_id"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to parse publish response: %w", err)
	}
	return out.SurveyID, nil
}

// GetSurvey fetches a published survey with its metric list.
func (b *Backend) GetSurvey(ctx context.Context, id string) (*model.Survey, error) {
	respBody, err := b.doRequest(ctx, http.MethodGet, "/api/survey/mongo/surveys/"+id, nil)
	if err != nil {
		return nil, err
	}
	var env dataEnvelope[model.Survey]
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to parse survey response: %w", err)
	}
	return &env.Data, nil
}

// SaveTemplateDraft pushes the current builder state to the remote draft
// store. The returned template may carry a newly assigned id.
func (b *Backend) SaveTemplateDraft(ctx context.Context, templateID string, tmpl model.FormTemplate) (*model.FormTemplate, error) {
	body := map[string]any{
		"draft": map[string]any{"template": tmpl},
	}
	respBody, err := b.doRequest(ctx, http.MethodPost, "/api/survey/templates/"+templateID+"/draft", body)
	if err != nil {
		return nil, err
	}
	var out struct {
		Success bool `json:"success"`
		Draft   struct {
			Draft model.FormTemplate `json:"draft"`
		} `json:"draft"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil || !out.Success {
		// the store acknowledged the write but returned no usable draft
		return nil, nil
	}
	return &out.Draft.Draft, nil
}

// LoadTemplateDraft fetches a previously saved draft. A missing draft is
// not an error; it returns (nil, nil).
func (b *Backend) LoadTemplateDraft(ctx context.Context, templateID string) (*model.FormTemplate, error) {
	respBody, err := b.doRequest(ctx, http.MethodGet, "/api/survey/templates/"+templateID+"/draft", nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	var out struct {
		Success bool `json:"success"`
		Draft   struct {
			Draft *model.FormTemplate `json:"draft"`
		} `json:"draft"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to parse draft response: %w", err)
	}
	if !out.Success || out.Draft.Draft == nil {
		return nil, nil
	}
	return out.Draft.Draft, nil
}

// UpdateTemplateAudience patches who a stored template targets.
func (b *Backend) UpdateTemplateAudience(ctx context.Context, templateID string, audience model.FormAudience) error {
	body := map[string]any{"audience": audience}
	_, err := b.doRequest(ctx, http.MethodPatch, "/api/survey/templates/"+templateID, body)
	return err
}

// UpdateTemplateType flips a stored template's classification flags.
func (b *Backend) UpdateTemplateType(ctx context.Context, templateID string, isEBApplication bool, audience model.FormAudience) error {
	body := map[string]any{
		"isEBApplication": isEBApplication,
		"audience":        audience,
	}
	_, err := b.doRequest(ctx, http.MethodPut, "/api/survey/templates/"+templateID+"/type", body)
	return err
}

// CreateForm persists a generated survey form and returns it with its
// assigned id.
func (b *Backend) CreateForm(ctx context.Context, form map[string]any) (map[string]any, error) {
	respBody, err := b.doRequest(ctx, http.MethodPost, "/api/survey/mongo/forms", form)
	if err != nil {
		return nil, err
	}
	var env dataEnvelope[map[string]any]
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to parse form response: %w", err)
	}
	return env.Data, nil
}

// GetForm fetches a stored form by id.
func (b *Backend) GetForm(ctx context.Context, id string) (map[string]any, error) {
	respBody, err := b.doRequest(ctx, http.MethodGet, "/api/survey/mongo/forms/"+id, nil)
	if err != nil {
		return nil, err
	}
	var env dataEnvelope[map[string]any]
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to parse form response: %w", err)
	}
	return env.Data, nil
}

// GeneratedQuestion is the backend's wire shape for a metric-derived
// question.
type GeneratedQuestion struct {
	ID          string   `json:"id"`
	MetricID    string   `json:"metric_id"`
	Question    string   `json:"question"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
	Description string   `json:"description,omitempty"`
}

// GenerateQuestions asks the backend to derive questions for a form.
func (b *Backend) GenerateQuestions(ctx context.Context, formID string) ([]GeneratedQuestion, error) {
	respBody, err := b.doRequest(ctx, http.MethodPost, "/api/survey/mongo/forms/"+formID+"/generate-questions", nil)
	if err != nil {
		return nil, err
	}
	var env dataEnvelope[[]GeneratedQuestion]
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to parse generated questions: %w", err)
	}
	return env.Data, nil
}

// SubmitForm sends a respondent's answers for a form.
func (b *Backend) SubmitForm(ctx context.Context, formID string, responses map[string]any) error {
	body := map[string]any{"responses": responses}
	_, err := b.doRequest(ctx, http.MethodPost, "/api/survey/forms/"+formID+"/submit", body)
	return err
}

// Health probes the backend's health endpoint.
func (b *Backend) Health(ctx context.Context) error {
	_, err := b.doRequest(ctx, http.MethodGet, "/api/health", nil)
	return err
}
