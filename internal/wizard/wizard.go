package wizard

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"paggie/trainer-app/internal/domain"
)

// Options configure a new wizard.
type Options struct {
	// StudentName and Goal seed the draft, e.g. from another finished record.
	StudentName string
	Goal        string
	// Now stamps default dates. Defaults to time.Now.
	Now func() time.Time
	// NewID generates entity ids. Defaults to uuid.NewString.
	NewID func() string
	// OnTransition observes step changes.
	OnTransition func(Transition)
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

func (o Options) today() string {
	return o.Now().Format("2006-01-02")
}

// Flow is the kind-independent surface of a wizard.
type Flow interface {
	Kind() domain.RecordKind
	Step() int
	Total() int
	Next() bool
	Prev() bool
	Jump(step int) bool
	Dispatch(a Action) error
	Snapshot() State
}

// State is a read-only view of a wizard.
type State struct {
	Kind        domain.RecordKind `json:"kind"`
	Step        int               `json:"step"`
	Total       int               `json:"total"`
	Title       string            `json:"title"`
	CanNext     bool              `json:"canNext"`
	CanPrev     bool              `json:"canPrev"`
	CanComplete bool              `json:"canComplete"`
	ActiveTab   *int              `json:"activeTab,omitempty"`
	Draft       any               `json:"draft"`
}

// Wizard holds one live draft of type T.
type Wizard[T any] struct {
	kind    domain.RecordKind
	titles  []string
	machine *Machine
	draft   T
	reduce  func(*T, Action) error
	clone   func(T) T
}

func newWizard[T any](kind domain.RecordKind, titles []string, draft T, named bool,
	reduce func(*T, Action) error, clone func(T) T, onTransition func(Transition)) *Wizard[T] {
	w := &Wizard[T]{kind: kind, titles: titles, draft: draft, reduce: reduce, clone: clone}
	var guard func() bool
	if named {
		guard = w.hasStudentName
	}
	w.machine = NewMachine(kind, len(titles), guard, onTransition)
	return w
}

func identity[T any](v T) T { return v }

func (w *Wizard[T]) hasStudentName() bool {
	name, _ := textFieldValue(&w.draft, "studentName")
	return strings.TrimSpace(name) != ""
}

func (w *Wizard[T]) Kind() domain.RecordKind { return w.kind }
func (w *Wizard[T]) Step() int               { return w.machine.Step() }
func (w *Wizard[T]) Total() int              { return w.machine.Total() }
func (w *Wizard[T]) Next() bool              { return w.machine.Next() }
func (w *Wizard[T]) Prev() bool              { return w.machine.Prev() }
func (w *Wizard[T]) Jump(step int) bool      { return w.machine.Jump(step) }

// Draft returns a copy of the current draft.
func (w *Wizard[T]) Draft() T { return w.clone(w.draft) }

// Dispatch applies a to the draft. A rejected action leaves it unchanged.
func (w *Wizard[T]) Dispatch(a Action) error {
	return w.reduce(&w.draft, a)
}

// Complete hands a deep copy of the draft to fn. It is only allowed on the
// last step and does not move the wizard.
func (w *Wizard[T]) Complete(fn func(T)) error {
	if !w.machine.IsLast() {
		return ErrNotLastStep
	}
	fn(w.clone(w.draft))
	return nil
}

func (w *Wizard[T]) Snapshot() State {
	return State{
		Kind:        w.kind,
		Step:        w.machine.Step(),
		Total:       w.machine.Total(),
		Title:       w.titles[w.machine.Step()-1],
		CanNext:     w.machine.CanNext(),
		CanPrev:     w.machine.CanPrev(),
		CanComplete: w.machine.IsLast(),
		Draft:       w.Draft(),
	}
}

// setFlat handles the flat text and number actions shared by every form.
// ok is false for any other action type.
func setFlat(dst any, a Action) (ok bool, err error) {
	switch act := a.(type) {
	case SetText:
		return true, setTextField(dst, act.Field, act.Value)
	case SetNumber:
		return true, setNumberField(dst, act.Field, act.Value)
	}
	return false, nil
}
