package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"formstudio/internal/cache"
	"formstudio/internal/client"
	"formstudio/internal/model"
	"formstudio/internal/service"
	"formstudio/internal/transport/ws"
)

// fakeBackend stands in for the upstream survey backend.
type fakeBackend struct {
	drafts map[string]model.FormTemplate
	survey *model.Survey
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		drafts: make(map[string]model.FormTemplate),
		survey: &model.Survey{
			ID:        "s1",
			Title:     "Course Feedback",
			AccessKey: "key123",
			IsActive:  true,
			Metrics:   []model.Metric{{ID: "m1", Name: "Pace", Type: model.MetricLikert}},
		},
	}
}

func (f *fakeBackend) SaveTemplateDraft(ctx context.Context, id string, tmpl model.FormTemplate) (*model.FormTemplate, error) {
	f.drafts[id] = tmpl
	return &tmpl, nil
}

func (f *fakeBackend) LoadTemplateDraft(ctx context.Context, id string) (*model.FormTemplate, error) {
	tmpl, ok := f.drafts[id]
	if !ok {
		return nil, nil
	}
	return &tmpl, nil
}

func (f *fakeBackend) UpdateTemplateAudience(ctx context.Context, id string, a model.FormAudience) error {
	return nil
}

func (f *fakeBackend) UpdateTemplateType(ctx context.Context, id string, eb bool, a model.FormAudience) error {
	return nil
}

func (f *fakeBackend) CreateGoal(ctx context.Context, description string) (*model.Goal, error) {
	return &model.Goal{ID: "g1", Description: description}, nil
}

func (f *fakeBackend) GetGoal(ctx context.Context, id string) (*model.Goal, error) {
	return &model.Goal{ID: id}, nil
}

func (f *fakeBackend) UpdateMetrics(ctx context.Context, goalID string, metrics []model.Metric) error {
	return nil
}

func (f *fakeBackend) PublishGoal(ctx context.Context, goalID string) (string, error) {
	return "s1", nil
}

func (f *fakeBackend) GetSurvey(ctx context.Context, id string) (*model.Survey, error) {
	return f.survey, nil
}

func (f *fakeBackend) CreateForm(ctx context.Context, form map[string]any) (map[string]any, error) {
	return map[string]any{"id": "f1"}, nil
}

func (f *fakeBackend) GetForm(ctx context.Context, id string) (map[string]any, error) {
	return map[string]any{"id": id}, nil
}

func (f *fakeBackend) GenerateQuestions(ctx context.Context, formID string) ([]client.GeneratedQuestion, error) {
	return nil, nil
}

func (f *fakeBackend) SubmitForm(ctx context.Context, formID string, responses map[string]any) error {
	return nil
}

func (f *fakeBackend) Health(ctx context.Context) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	backend := newFakeBackend()
	authSvc := service.NewAuthService("test-secret")

	router := NewRouter(&Container{
		AuthService:       authSvc,
		SessionService:    service.NewSessionService(backend, nil, time.Hour),
		MetricService:     service.NewMetricService(backend),
		FormService:       service.NewFormService(backend),
		RespondentService: service.NewRespondentService(backend, cache.NewMemoryRespondentCache(), nil),
		BackendProber:     backend,
		WSHub:             ws.NewHub(),
		RespondentRPS:     100,
		RespondentBurst:   100,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func openEditor(t *testing.T, srv *httptest.Server, readOnly bool) string {
	t.Helper()
	resp, body := doJSON(t, "POST", srv.URL+"/v1/editor/sessions", "", map[string]any{
		"templateId": "t1",
		"readOnly":   readOnly,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("open session: %d %v", resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("no token in %v", body)
	}
	return token
}

func TestEditorFlow(t *testing.T) {
	srv := newTestServer(t)
	token := openEditor(t, srv, false)

	// unauthorized access is rejected
	resp, _ := doJSON(t, "GET", srv.URL+"/v1/editor/session", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: %d", resp.StatusCode)
	}

	// add a question
	resp, body := doJSON(t, "POST", srv.URL+"/v1/editor/session/questions", token, map[string]any{"type": "text"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add question: %d %v", resp.StatusCode, body)
	}
	ids, _ := body["ids"].([]any)
	if len(ids) != 1 {
		t.Fatalf("ids = %v", ids)
	}

	// label it
	resp, _ = doJSON(t, "PATCH", srv.URL+"/v1/editor/session/questions/"+ids[0].(string), token, map[string]any{"label": "Full name"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update question: %d", resp.StatusCode)
	}

	// session reflects the change
	resp, body = doJSON(t, "GET", srv.URL+"/v1/editor/session", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get session: %d", resp.StatusCode)
	}
	tmpl, _ := body["template"].(map[string]any)
	questions, _ := tmpl["questions"].([]any)
	if len(questions) != 1 {
		t.Fatalf("questions = %v", questions)
	}

	// unknown question type is a client error
	resp, _ = doJSON(t, "POST", srv.URL+"/v1/editor/session/questions", token, map[string]any{"type": "hologram"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown type: %d", resp.StatusCode)
	}
}

func TestPairConfirmationFlow(t *testing.T) {
	srv := newTestServer(t)
	token := openEditor(t, srv, false)

	resp, body := doJSON(t, "POST", srv.URL+"/v1/editor/session/questions", token, map[string]any{"type": "preference"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("unconfirmed pair add: %d %v", resp.StatusCode, body)
	}
	if body["confirmationRequired"] != true {
		t.Fatalf("body = %v", body)
	}

	resp, body = doJSON(t, "POST", srv.URL+"/v1/editor/session/questions", token, map[string]any{"type": "preference", "confirmed": true})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("confirmed pair add: %d %v", resp.StatusCode, body)
	}
	ids, _ := body["ids"].([]any)
	if len(ids) != 2 {
		t.Fatalf("ids = %v, want owner and dependent", ids)
	}
}

func TestReadOnlySessionRejectsWrites(t *testing.T) {
	srv := newTestServer(t)
	token := openEditor(t, srv, true)

	resp, _ := doJSON(t, "POST", srv.URL+"/v1/editor/session/questions", token, map[string]any{"type": "text"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("read-only write: %d", resp.StatusCode)
	}

	// reading is fine
	resp, _ = doJSON(t, "GET", srv.URL+"/v1/editor/session/preview", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("read-only preview: %d", resp.StatusCode)
	}
}

func TestSecondWritableOpenConflicts(t *testing.T) {
	srv := newTestServer(t)
	openEditor(t, srv, false)

	resp, _ := doJSON(t, "POST", srv.URL+"/v1/editor/sessions", "", map[string]any{"templateId": "t1"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second writable open: %d", resp.StatusCode)
	}
}

func TestRespondentFlow(t *testing.T) {
	srv := newTestServer(t)

	// wrong key
	resp, _ := doJSON(t, "POST", srv.URL+"/v1/respond/sessions", "", map[string]any{"surveyId": "s1", "accessKey": "nope"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("wrong key: %d", resp.StatusCode)
	}

	resp, body := doJSON(t, "POST", srv.URL+"/v1/respond/sessions", "", map[string]any{"surveyId": "s1", "accessKey": "key123"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start: %d %v", resp.StatusCode, body)
	}
	sessionID, _ := body["id"].(string)

	var state string
	for i := 0; i < service.MaxSessionQuestions; i++ {
		resp, body = doJSON(t, "POST", srv.URL+"/v1/respond/sessions/"+sessionID+"/answers", "", map[string]any{"value": "4"})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("answer %d: %d %v", i+1, resp.StatusCode, body)
		}
		state, _ = body["state"].(string)
	}
	if state != string(model.RespondentCompleted) {
		t.Fatalf("state = %q, want completed", state)
	}
}

func TestFormSubmitValidation(t *testing.T) {
	srv := newTestServer(t)

	questions := []map[string]any{
		{"id": "q1", "type": "text", "label": "Name", "required": true},
		{"id": "q2", "type": "text", "label": "Nickname", "required": false},
	}

	resp, body := doJSON(t, "POST", srv.URL+"/v1/forms/f1/submit", "", map[string]any{
		"questions": questions,
		"responses": map[string]any{},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("empty responses: %d %v", resp.StatusCode, body)
	}
	if body["error"] != "1 missing" {
		t.Fatalf("error = %v", body["error"])
	}

	resp, body = doJSON(t, "POST", srv.URL+"/v1/forms/f1/submit", "", map[string]any{
		"questions": questions,
		"responses": map[string]any{"q1": "hello"},
	})
	if resp.StatusCode != http.StatusOK || body["submitted"] != true {
		t.Fatalf("valid submit: %d %v", resp.StatusCode, body)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, "GET", srv.URL+"/health", "", nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health: %d %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, "GET", srv.URL+"/v1/test-connection", "", nil)
	if resp.StatusCode != http.StatusOK || body["backend"] != "ok" {
		t.Fatalf("test-connection: %d %v", resp.StatusCode, body)
	}
}
