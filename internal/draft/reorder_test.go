package draft

import (
	"errors"
	"math/rand"
	"testing"

	"formstudio/internal/model"
)

func ids(qs []model.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestReorderAroundPair(t *testing.T) {
	d := newDraft()
	a, _ := d.AddQuestion(model.QuestionText, false)
	b, _ := d.AddQuestion(model.QuestionPreference, true)
	c, _ := d.AddQuestion(model.QuestionText, false)

	// full list is [A, B, B', C]; moving A to index 2 lands it between the
	// pair and C once the dependent snaps back behind its owner
	if err := d.Reorder(0, 2); err != nil {
		t.Fatal(err)
	}
	want := []string{b[0], b[1], a[0], c[0]}
	got := ids(d.Questions())
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestReorderNoDestinationIsNoop(t *testing.T) {
	d := newDraft()
	d.AddQuestion(model.QuestionText, false)
	d.AddQuestion(model.QuestionText, false)
	before := ids(d.Questions())

	if err := d.Reorder(0, -1); err != nil {
		t.Fatal(err)
	}
	after := ids(d.Questions())
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("drop outside target must not change order: %v -> %v", before, after)
		}
	}
}

func TestReorderRejectsDependent(t *testing.T) {
	d := newDraft()
	d.AddQuestion(model.QuestionPreference, true)
	if err := d.Reorder(1, 0); !errors.Is(err, ErrDependentManaged) {
		t.Fatalf("expected ErrDependentManaged, got %v", err)
	}
}

func TestReorderOutOfRange(t *testing.T) {
	d := newDraft()
	d.AddQuestion(model.QuestionText, false)
	if err := d.Reorder(5, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// destination past the end clamps to the last slot
	d.AddQuestion(model.QuestionText, false)
	if err := d.Reorder(0, 99); err != nil {
		t.Fatal(err)
	}
}

// Dependents must trail their owners after any sequence of adds, deletes
// and reorders.
func TestDependentsAlwaysFollowOwners(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := newDraft()

	for step := 0; step < 200; step++ {
		switch rng.Intn(4) {
		case 0:
			d.AddQuestion(model.QuestionText, false)
		case 1:
			d.AddQuestion(model.QuestionPreference, true)
		case 2:
			top := d.TopLevel()
			if len(top) > 0 {
				d.DeleteQuestion(top[rng.Intn(len(top))].ID)
			}
		case 3:
			n := len(d.Questions())
			if n > 1 {
				d.Reorder(rng.Intn(n), rng.Intn(n))
			}
		}

		qs := d.Questions()
		pos := make(map[string]int, len(qs))
		for i, q := range qs {
			pos[q.ID] = i
		}
		for i, q := range qs {
			if !q.IsDependent() {
				continue
			}
			ownerPos, ok := pos[q.LinkedCommitteeID]
			if !ok {
				t.Fatalf("step %d: dependent %s has no owner in list", step, q.ID)
			}
			if i != ownerPos+1 {
				t.Fatalf("step %d: dependent %s at %d, owner at %d: %v", step, q.ID, i, ownerPos, ids(qs))
			}
		}
	}
}
