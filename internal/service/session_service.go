package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"formstudio/internal/draft"
	"formstudio/internal/model"
)

// DraftStore is the slice of the backend client the editor needs.
type DraftStore interface {
	SaveTemplateDraft(ctx context.Context, templateID string, tmpl model.FormTemplate) (*model.FormTemplate, error)
	LoadTemplateDraft(ctx context.Context, templateID string) (*model.FormTemplate, error)
	UpdateTemplateAudience(ctx context.Context, templateID string, audience model.FormAudience) error
	UpdateTemplateType(ctx context.Context, templateID string, isEBApplication bool, audience model.FormAudience) error
}

// EditorSession is one open editor over a template draft. All draft access
// goes through the session mutex; the draft itself is single-owner state.
type EditorSession struct {
	ID         string
	TemplateID string
	CanEdit    bool
	CreatedAt  time.Time

	mu       sync.Mutex
	draft    *draft.Draft
	autosave *Autosave
}

// Snapshot returns the session's current template state.
func (s *EditorSession) Snapshot() model.FormTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Template()
}

// SessionService manages editor sessions and the per-template write lock:
// at most one session holds a writable handle on a template at a time.
type SessionService struct {
	store    DraftStore
	notifier Notifier
	interval time.Duration

	mu       sync.Mutex
	sessions map[string]*EditorSession
	writers  map[string]string // templateID -> session holding the write lock
}

// NewSessionService creates a session service. The notifier receives
// draft_saved and save_failed events per session.
func NewSessionService(store DraftStore, notifier Notifier, autosaveInterval time.Duration) *SessionService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &SessionService{
		store:    store,
		notifier: notifier,
		interval: autosaveInterval,
		sessions: make(map[string]*EditorSession),
		writers:  make(map[string]string),
	}
}

// Open starts an editor session over a template. The remote draft is loaded
// when one exists; load failures fall back to a fresh template so editing is
// never blocked by the draft store. A second writable open on the same
// template fails with ErrDraftLocked. Brand-new forms have no shared draft
// yet, so they skip the lock; the lock is claimed under the assigned id once
// the first save comes back.
func (s *SessionService) Open(ctx context.Context, templateID string, readOnly bool) (*EditorSession, error) {
	sessionID := "es_" + uuid.New().String()[:8]
	persisted := templateID != "" && templateID != "new"

	if !readOnly && persisted {
		s.mu.Lock()
		if holder, held := s.writers[templateID]; held {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: held by %s", ErrDraftLocked, holder)
		}
		s.writers[templateID] = sessionID
		s.mu.Unlock()
	}

	tmpl := model.FormTemplate{ID: templateID, Audience: model.AudienceMember}
	if persisted {
		remote, err := s.store.LoadTemplateDraft(ctx, templateID)
		if err != nil {
			log.Printf("[Session] failed to load draft %q, starting fresh: %v", templateID, err)
		} else if remote != nil {
			tmpl = *remote
			tmpl.ID = templateID
			if tmpl.Audience == "" {
				tmpl.Audience = model.AudienceMember
			}
		}
	}

	sess := &EditorSession{
		ID:         sessionID,
		TemplateID: templateID,
		CanEdit:    !readOnly,
		CreatedAt:  time.Now(),
		draft:      draft.New(tmpl),
	}
	sess.autosave = NewAutosave(s.interval,
		func() model.FormTemplate {
			sess.mu.Lock()
			defer sess.mu.Unlock()
			return sess.draft.Template()
		},
		func(ctx context.Context, t model.FormTemplate) (*model.FormTemplate, error) {
			return s.store.SaveTemplateDraft(ctx, templateID, t)
		},
		func(saved *model.FormTemplate) {
			// merge a newly assigned id back without scheduling another save
			if saved != nil && saved.ID != "" {
				sess.mu.Lock()
				if sess.draft.ID() == "" {
					sess.draft.SetID(saved.ID)
				}
				sess.mu.Unlock()
				s.claimWriteLock(saved.ID, sessionID)
			}
			s.notifier.NotifySession(sessionID, "draft_saved", map[string]any{
				"templateId": templateID,
				"savedAt":    time.Now().UTC(),
			})
		},
		func(err error) {
			s.notifier.NotifySession(sessionID, "save_failed", map[string]any{
				"templateId": templateID,
				"detail":     err.Error(),
			})
		},
	)

	s.mu.Lock()
	s.sessions[sessionID] = sess
	s.mu.Unlock()

	return sess, nil
}

// Get looks up an open session.
func (s *SessionService) Get(sessionID string) (*EditorSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Mutate runs fn against the session's draft under the session lock and, on
// success, schedules an auto-save. Read-only sessions are rejected up front.
func (s *SessionService) Mutate(sessionID string, fn func(*draft.Draft) error) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	if !sess.CanEdit {
		return ErrReadOnly
	}

	sess.mu.Lock()
	err = fn(sess.draft)
	sess.mu.Unlock()
	if err != nil {
		return err
	}

	sess.autosave.Schedule()
	return nil
}

// View runs fn against the session's draft under the session lock without
// scheduling a save.
func (s *SessionService) View(sessionID string, fn func(*draft.Draft)) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	fn(sess.draft)
	sess.mu.Unlock()
	return nil
}

// Save writes the current draft state out immediately. Unlike auto-save this
// is a user-initiated blocking action; errors propagate to the caller and
// the action is retriable.
func (s *SessionService) Save(ctx context.Context, sessionID string) (*model.FormTemplate, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.CanEdit {
		return nil, ErrReadOnly
	}

	sess.mu.Lock()
	if !sess.draft.CanSave() {
		problems := sess.draft.Problems()
		sess.mu.Unlock()
		return nil, &ValidationError{Problems: problems}
	}
	tmpl := sess.draft.Template()
	sess.mu.Unlock()

	saved, err := s.store.SaveTemplateDraft(ctx, sess.TemplateID, tmpl)
	if err != nil {
		return nil, err
	}
	if saved != nil && saved.ID != "" {
		sess.mu.Lock()
		if sess.draft.ID() == "" {
			sess.draft.SetID(saved.ID)
		}
		sess.mu.Unlock()
		s.claimWriteLock(saved.ID, sess.ID)
	}
	return saved, nil
}

// claimWriteLock registers a session as the writer for a template that got
// its id assigned after the session opened. A lock already held by another
// session is left alone.
func (s *SessionService) claimWriteLock(templateID, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.writers[templateID]; !held {
		s.writers[templateID] = sessionID
	}
}

// SetAudience updates the draft's audience and patches it through to the
// stored template in the same action.
func (s *SessionService) SetAudience(ctx context.Context, sessionID string, audience model.FormAudience) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	if !sess.CanEdit {
		return ErrReadOnly
	}
	if err := s.store.UpdateTemplateAudience(ctx, sess.TemplateID, audience); err != nil {
		return err
	}

	sess.mu.Lock()
	sess.draft.SetAudience(audience)
	sess.mu.Unlock()
	sess.autosave.Schedule()
	return nil
}

// ConfirmPairType flips a form classification flag remotely before the
// confirmed pair-type add is retried. EB confirmation also retargets the
// form at members.
func (s *SessionService) ConfirmPairType(ctx context.Context, sessionID string, t model.QuestionType) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	if !sess.CanEdit {
		return ErrReadOnly
	}
	if t == model.QuestionEBPreference {
		return s.store.UpdateTemplateType(ctx, sess.TemplateID, true, model.AudienceMember)
	}
	return nil
}

// Close tears the session down: the pending auto-save is cancelled rather
// than allowed to fire after teardown, and the write lock is released.
func (s *SessionService) Close(sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
		// the lock may live under an id assigned after open
		for tid, holder := range s.writers {
			if holder == sessionID {
				delete(s.writers, tid)
			}
		}
	}
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	sess.autosave.Stop()
	return nil
}
