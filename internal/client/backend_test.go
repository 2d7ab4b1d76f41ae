package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"formstudio/internal/model"
)

func TestCreateGoal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/survey/goals" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Description string `json:"description"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Description != "improve onboarding" {
			t.Errorf("description = %q", body.Description)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": "g1", "description": body.Description},
		})
	}))
	defer srv.Close()

	goal, err := NewBackend(srv.URL).CreateGoal(context.Background(), "improve onboarding")
	if err != nil {
		t.Fatal(err)
	}
	if goal.ID != "g1" {
		t.Errorf("goal id = %q", goal.ID)
	}
}

func TestAPIErrorDetail(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDetail string
	}{
		{"detail present", `{"detail":"goal not found"}`, "goal not found"},
		{"unparseable body", `<html>gateway error</html>`, "request failed"},
		{"empty body", ``, "request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewBackend(srv.URL).CreateGoal(context.Background(), "x")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != http.StatusUnprocessableEntity || apiErr.Detail != tt.wantDetail {
				t.Errorf("got %d %q", apiErr.StatusCode, apiErr.Detail)
			}
		})
	}
}

func TestGetRetriesPostDoesNot(t *testing.T) {
	var gets, posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			gets++
			if gets < 3 {
				// drop the connection so the client sees a transport error
				conn, _, _ := w.(http.Hijacker).Hijack()
				conn.Close()
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"data": model.Goal{ID: "g1"}})
		case http.MethodPost:
			posts++
			conn, _, _ := w.(http.Hijacker).Hijack()
			conn.Close()
		}
	}))
	defer srv.Close()

	b := NewBackend(srv.URL)
	goal, err := b.GetGoal(context.Background(), "g1")
	if err != nil {
		t.Fatalf("GET should retry past transport errors: %v", err)
	}
	if goal.ID != "g1" || gets != 3 {
		t.Errorf("goal = %+v after %d attempts", goal, gets)
	}

	if _, err := b.CreateGoal(context.Background(), "x"); err == nil {
		t.Fatal("expected POST failure")
	}
	if posts != 1 {
		t.Errorf("POST attempted %d times, must not retry", posts)
	}
}

func TestPublishGoal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/survey/goals/g1/publish" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"survey_id": "s42"})
	}))
	defer srv.Close()

	id, err := NewBackend(srv.URL).PublishGoal(context.Background(), "g1")
	if err != nil {
		t.Fatal(err)
	}
	if id != "s42" {
		t.Errorf("survey id = %q", id)
	}
}

func TestDraftRoundTrip(t *testing.T) {
	stored := map[string]json.RawMessage{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var body struct {
				Draft struct {
					Template json.RawMessage `json:"template"`
				} `json:"draft"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			stored[r.URL.Path] = body.Draft.Template
			w.Write([]byte(`{"success":true,"draft":{"draft":` + string(body.Draft.Template) + `}}`))
		case http.MethodGet:
			raw, ok := stored[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"detail":"no draft"}`))
				return
			}
			w.Write([]byte(`{"success":true,"draft":{"draft":` + string(raw) + `}}`))
		}
	}))
	defer srv.Close()

	b := NewBackend(srv.URL)
	ctx := context.Background()

	// missing draft is not an error
	tmpl, err := b.LoadTemplateDraft(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if tmpl != nil {
		t.Fatalf("expected nil draft, got %+v", tmpl)
	}

	saved, err := b.SaveTemplateDraft(ctx, "t1", model.FormTemplate{ID: "t1", Name: "Delegate Application"})
	if err != nil {
		t.Fatal(err)
	}
	if saved == nil || saved.Name != "Delegate Application" {
		t.Fatalf("saved = %+v", saved)
	}

	tmpl, err = b.LoadTemplateDraft(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if tmpl == nil || tmpl.Name != "Delegate Application" {
		t.Fatalf("loaded = %+v", tmpl)
	}
}

func TestGenerateQuestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/survey/mongo/forms/f1/generate-questions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "q1", "metric_id": "m1", "question": "Rate the onboarding", "type": "radio", "required": true, "options": []string{"1", "2", "3", "4", "5"}},
			},
		})
	}))
	defer srv.Close()

	qs, err := NewBackend(srv.URL).GenerateQuestions(context.Background(), "f1")
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 || qs[0].MetricID != "m1" || len(qs[0].Options) != 5 {
		t.Fatalf("questions = %+v", qs)
	}
}
