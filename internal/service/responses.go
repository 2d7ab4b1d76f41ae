package service

import "sync"

// ResponseState is the mutable response map behind one rendered form:
// question id to value. Multi-value answers are []any in insertion order.
type ResponseState struct {
	mu     sync.Mutex
	values map[string]any
}

func NewResponseState() *ResponseState {
	return &ResponseState{values: make(map[string]any)}
}

// Set records a single-value answer. A nil value removes the entry.
func (r *ResponseState) Set(questionID string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v == nil {
		delete(r.values, questionID)
		return
	}
	r.values[questionID] = v
}

// Toggle flips one option in a multi-value answer: absent options are
// appended, present options are removed. Toggling an option on then off
// restores the array to its prior state regardless of other toggles.
func (r *ResponseState) Toggle(questionID, option string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, _ := r.values[questionID].([]any)
	for i, v := range current {
		if v == option {
			r.values[questionID] = append(append([]any(nil), current[:i]...), current[i+1:]...)
			return
		}
	}
	r.values[questionID] = append(append([]any(nil), current...), option)
}

// Values returns a copy of the current responses.
func (r *ResponseState) Values() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Clear resets to fresh form state.
func (r *ResponseState) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = make(map[string]any)
}
