package service

import (
	"context"
	"log"
	"sync"
	"time"

	"formstudio/internal/model"
)

// DefaultAutosaveInterval is the quiet period after the last mutation before
// a draft is written out.
const DefaultAutosaveInterval = 1500 * time.Millisecond

// SaveFunc writes a draft snapshot to the remote store and returns the
// stored template, which may carry a newly assigned id.
type SaveFunc func(ctx context.Context, tmpl model.FormTemplate) (*model.FormTemplate, error)

// Autosave debounces draft writes: every mutation schedules a save, rapid
// mutations within the quiet interval coalesce into one outbound write, and
// the payload is snapshotted when the timer fires so it always reflects the
// latest state rather than the state at schedule time.
type Autosave struct {
	interval time.Duration
	snapshot func() model.FormTemplate
	save     SaveFunc
	onSaved  func(*model.FormTemplate)
	onError  func(error)

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	// serializes outbound writes so a slow save cannot overlap the next
	saving sync.Mutex
}

// NewAutosave creates a coordinator. snapshot is called at fire time under
// no coordinator locks; onSaved and onError are optional.
func NewAutosave(interval time.Duration, snapshot func() model.FormTemplate, save SaveFunc, onSaved func(*model.FormTemplate), onError func(error)) *Autosave {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Autosave{
		interval: interval,
		snapshot: snapshot,
		save:     save,
		onSaved:  onSaved,
		onError:  onError,
	}
}

// Schedule arms the debounce timer, replacing any pending one.
func (a *Autosave) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.interval, a.fire)
}

func (a *Autosave) fire() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	a.saving.Lock()
	defer a.saving.Unlock()

	tmpl := a.snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	saved, err := a.save(ctx, tmpl)
	if err != nil {
		// best-effort write: log, notify, keep local state as-is so the
		// next save retries with current state
		log.Printf("[Autosave] save failed for template %q: %v", tmpl.ID, err)
		if a.onError != nil {
			a.onError(err)
		}
		return
	}
	if a.onSaved != nil {
		a.onSaved(saved)
	}
}

// Stop cancels any pending save. A stopped coordinator never fires again.
func (a *Autosave) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
