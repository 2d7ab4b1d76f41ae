package registry

import (
	"errors"
	"testing"

	"formstudio/internal/model"
)

func TestLookupUnknownType(t *testing.T) {
	_, err := Lookup(model.QuestionType("hologram"))
	if !errors.Is(err, ErrUnknownQuestionType) {
		t.Fatalf("expected ErrUnknownQuestionType, got %v", err)
	}
}

func TestNewQuestionDefaults(t *testing.T) {
	tests := []struct {
		name        string
		typ         model.QuestionType
		wantOptions int
		wantFiles   bool
	}{
		{"text has no options", model.QuestionText, 0, false},
		{"select seeds options", model.QuestionSelect, 3, false},
		{"multiselect seeds options", model.QuestionMultiselect, 3, false},
		{"radio seeds options", model.QuestionRadio, 3, false},
		{"checkbox seeds options", model.QuestionCheckbox, 3, false},
		{"file seeds rules", model.QuestionFile, 0, true},
		{"image seeds rules", model.QuestionImage, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuestion(tt.typ)
			if err != nil {
				t.Fatalf("NewQuestion(%s): %v", tt.typ, err)
			}
			if q.ID == "" {
				t.Error("expected a generated id")
			}
			if q.Type != tt.typ {
				t.Errorf("type = %s, want %s", q.Type, tt.typ)
			}
			if len(q.Options) != tt.wantOptions {
				t.Errorf("options = %v, want %d entries", q.Options, tt.wantOptions)
			}
			if tt.wantFiles {
				if q.Validation == nil || len(q.Validation.FileTypes) == 0 {
					t.Fatal("expected seeded file types")
				}
				if q.Validation.MaxSize != 5*1024*1024 {
					t.Errorf("maxSize = %d, want 5MB", q.Validation.MaxSize)
				}
			} else if q.Validation != nil {
				t.Errorf("unexpected validation rules: %+v", q.Validation)
			}
		})
	}
}

func TestNewQuestionUnknownType(t *testing.T) {
	if _, err := NewQuestion(model.QuestionType("nope")); !errors.Is(err, ErrUnknownQuestionType) {
		t.Fatalf("expected ErrUnknownQuestionType, got %v", err)
	}
}

func TestNewQuestionUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		q, err := NewQuestion(model.QuestionText)
		if err != nil {
			t.Fatal(err)
		}
		if seen[q.ID] {
			t.Fatalf("duplicate id %s", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestQuestionTypeForMetric(t *testing.T) {
	tests := []struct {
		metric model.MetricType
		want   model.QuestionType
	}{
		{model.MetricLikert, model.QuestionRadio},
		{model.MetricRating, model.QuestionRadio},
		{model.MetricBoolean, model.QuestionRadio},
		{model.MetricMultipleChoice, model.QuestionSelect},
		{model.MetricText, model.QuestionTextarea},
		{model.MetricType("exotic"), model.QuestionText},
	}
	for _, tt := range tests {
		if got := QuestionTypeForMetric(tt.metric); got != tt.want {
			t.Errorf("QuestionTypeForMetric(%s) = %s, want %s", tt.metric, got, tt.want)
		}
	}
}

func TestOptionsForMetric(t *testing.T) {
	likert := OptionsForMetric(model.Metric{Type: model.MetricLikert})
	if len(likert) != 5 {
		t.Errorf("likert options = %v, want 5", likert)
	}
	rating := OptionsForMetric(model.Metric{Type: model.MetricRating})
	if len(rating) != 10 {
		t.Errorf("rating options = %v, want 10", rating)
	}
	boolean := OptionsForMetric(model.Metric{Type: model.MetricBoolean})
	if len(boolean) != 2 || boolean[0] != "Yes" {
		t.Errorf("boolean options = %v", boolean)
	}
	mc := OptionsForMetric(model.Metric{Type: model.MetricMultipleChoice, Options: []string{"A", "B"}})
	if len(mc) != 2 || mc[0] != "A" {
		t.Errorf("multiple choice options = %v", mc)
	}
	if got := OptionsForMetric(model.Metric{Type: model.MetricText}); got != nil {
		t.Errorf("text options = %v, want nil", got)
	}
}

func TestPairedTypesFlagged(t *testing.T) {
	for _, typ := range []model.QuestionType{model.QuestionPreference, model.QuestionEBPreference} {
		cfg, err := Lookup(typ)
		if err != nil {
			t.Fatal(err)
		}
		if !cfg.Paired {
			t.Errorf("%s should be a paired type", typ)
		}
	}
}
