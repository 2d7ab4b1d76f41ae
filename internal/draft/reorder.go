package draft

import (
	"fmt"

	"formstudio/internal/model"
)

// Reorder moves the question at src to dst, both indices into the full
// materialized list. A negative dst means the drop landed outside any valid
// target and the list is left unchanged. Dependents cannot be moved
// directly; after the move each dependent is re-inserted immediately after
// its owner to rebuild the stored order.
func (d *Draft) Reorder(src, dst int) error {
	if dst < 0 || src == dst {
		return nil
	}
	n := len(d.tmpl.Questions)
	if src < 0 || src >= n {
		return fmt.Errorf("%w: index %d", ErrNotFound, src)
	}
	if dst >= n {
		dst = n - 1
	}
	if d.tmpl.Questions[src].IsDependent() {
		return ErrDependentManaged
	}

	list := append([]model.Question(nil), d.tmpl.Questions...)
	moved := list[src]
	list = append(list[:src], list[src+1:]...)
	list = append(list[:dst], append([]model.Question{moved}, list[dst:]...)...)

	d.tmpl.Questions = normalize(list)
	return nil
}

// normalize rebuilds the list so every dependent directly follows its owner,
// preserving the relative order of top-level questions. Orphaned dependents
// are kept at the end rather than dropped.
func normalize(list []model.Question) []model.Question {
	deps := make(map[string][]model.Question)
	owners := make(map[string]bool)
	for _, q := range list {
		if !q.IsDependent() {
			owners[q.ID] = true
		}
	}
	out := make([]model.Question, 0, len(list))
	var orphans []model.Question
	for _, q := range list {
		if q.IsDependent() {
			if owners[q.LinkedCommitteeID] {
				deps[q.LinkedCommitteeID] = append(deps[q.LinkedCommitteeID], q)
			} else {
				orphans = append(orphans, q)
			}
		}
	}
	for _, q := range list {
		if q.IsDependent() {
			continue
		}
		out = append(out, q)
		out = append(out, deps[q.ID]...)
	}
	return append(out, orphans...)
}
