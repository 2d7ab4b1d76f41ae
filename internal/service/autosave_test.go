package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"formstudio/internal/model"
)

type saveRecorder struct {
	mu    sync.Mutex
	calls []model.FormTemplate
	err   error
}

func (r *saveRecorder) save(ctx context.Context, tmpl model.FormTemplate) (*model.FormTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.calls = append(r.calls, tmpl)
	return &tmpl, nil
}

func (r *saveRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestAutosaveCoalescesRapidMutations(t *testing.T) {
	var mu sync.Mutex
	tmpl := model.FormTemplate{Name: "v0"}

	rec := &saveRecorder{}
	a := NewAutosave(60*time.Millisecond, func() model.FormTemplate {
		mu.Lock()
		defer mu.Unlock()
		return tmpl
	}, rec.save, nil, nil)
	defer a.Stop()

	for i := 1; i <= 5; i++ {
		mu.Lock()
		tmpl.Name = "v" + string(rune('0'+i))
		mu.Unlock()
		a.Schedule()
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)

	if got := rec.count(); got != 1 {
		t.Fatalf("saves = %d, want exactly 1", got)
	}
	rec.mu.Lock()
	name := rec.calls[0].Name
	rec.mu.Unlock()
	if name != "v5" {
		t.Errorf("saved payload = %q, want the state after the last mutation", name)
	}
}

func TestAutosaveMergesAssignedID(t *testing.T) {
	var mu sync.Mutex
	tmpl := model.FormTemplate{Name: "draft"}

	saved := make(chan *model.FormTemplate, 1)
	a := NewAutosave(20*time.Millisecond, func() model.FormTemplate {
		mu.Lock()
		defer mu.Unlock()
		return tmpl
	}, func(ctx context.Context, in model.FormTemplate) (*model.FormTemplate, error) {
		in.ID = "t_assigned"
		return &in, nil
	}, func(out *model.FormTemplate) {
		saved <- out
	}, nil)
	defer a.Stop()

	a.Schedule()
	select {
	case out := <-saved:
		if out.ID != "t_assigned" {
			t.Errorf("id = %q", out.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("save never fired")
	}
}

func TestAutosaveFailureNotifies(t *testing.T) {
	failed := make(chan error, 1)
	a := NewAutosave(20*time.Millisecond, func() model.FormTemplate {
		return model.FormTemplate{}
	}, func(ctx context.Context, in model.FormTemplate) (*model.FormTemplate, error) {
		return nil, errors.New("store unreachable")
	}, nil, func(err error) {
		failed <- err
	})
	defer a.Stop()

	a.Schedule()
	select {
	case err := <-failed:
		if err == nil {
			t.Fatal("expected an error")
		}
	case <-time.After(time.Second):
		t.Fatal("failure callback never fired")
	}
}

func TestAutosaveStopCancelsPending(t *testing.T) {
	rec := &saveRecorder{}
	a := NewAutosave(50*time.Millisecond, func() model.FormTemplate {
		return model.FormTemplate{}
	}, rec.save, nil, nil)

	a.Schedule()
	a.Stop()

	time.Sleep(150 * time.Millisecond)
	if got := rec.count(); got != 0 {
		t.Fatalf("saves after Stop = %d, want 0", got)
	}

	// scheduling after Stop is inert
	a.Schedule()
	time.Sleep(100 * time.Millisecond)
	if got := rec.count(); got != 0 {
		t.Fatalf("saves after post-Stop Schedule = %d, want 0", got)
	}
}
