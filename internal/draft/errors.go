package draft

import "errors"

var (
	// ErrNotFound is returned when a question id is absent from the draft.
	ErrNotFound = errors.New("question not found")

	// ErrConfirmationRequired is returned when adding the first pair-type
	// question to a form whose classification flag is still unset. The
	// caller confirms and retries, or aborts with no state change.
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrSystemManaged is returned when mutating a system-managed question
	// in a way the builder does not allow.
	ErrSystemManaged = errors.New("question is system managed")

	// ErrDependentManaged is returned when a dependent question is deleted
	// or moved directly instead of through its owner.
	ErrDependentManaged = errors.New("dependent question is managed through its owner")

	// ErrLastOption is returned when deleting the only remaining option of
	// a choice question.
	ErrLastOption = errors.New("cannot delete the last option")
)
