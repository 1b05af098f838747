// Package wizard drives the multi-step intake forms. Each wizard owns one
// live draft, mutated only through typed actions, and hands a deep copy of it
// to the caller when completed on the last step.
package wizard

import (
	"errors"

	"paggie/trainer-app/internal/domain"
)

var (
	ErrNotLastStep       = errors.New("wizard: complete is only allowed on the last step")
	ErrUnknownField      = errors.New("wizard: unknown field")
	ErrUnsupportedAction = errors.New("wizard: action not supported by this form")
	ErrInvalidValue      = errors.New("wizard: invalid value")
	ErrIndexOutOfRange   = errors.New("wizard: index out of range")
	ErrLastWorkout       = errors.New("wizard: a training plan needs at least one workout")
	ErrUnknownDay        = errors.New("wizard: unknown weekday")
)

// Transition is emitted whenever the step changes. Views use it to scroll
// back to the top of the form.
type Transition struct {
	Kind domain.RecordKind `json:"kind"`
	From int               `json:"from"`
	To   int               `json:"to"`
}

// Machine is the bounded step counter shared by every wizard.
// Steps are numbered 1..total.
type Machine struct {
	kind         domain.RecordKind
	step         int
	total        int
	guard        func() bool // must hold to leave step 1
	onTransition func(Transition)
}

// NewMachine starts at step 1. guard and onTransition may be nil.
func NewMachine(kind domain.RecordKind, total int, guard func() bool, onTransition func(Transition)) *Machine {
	if total < 1 {
		total = 1
	}
	return &Machine{kind: kind, step: 1, total: total, guard: guard, onTransition: onTransition}
}

func (m *Machine) Step() int  { return m.step }
func (m *Machine) Total() int { return m.total }

// IsLast reports whether the machine sits on the final step.
func (m *Machine) IsLast() bool { return m.step == m.total }

// CanNext reports whether Next would move.
func (m *Machine) CanNext() bool {
	if m.step >= m.total {
		return false
	}
	return m.step != 1 || m.guardHolds()
}

// CanPrev reports whether Prev would move.
func (m *Machine) CanPrev() bool { return m.step > 1 }

// Next advances one step. It is a no-op returning false when blocked.
func (m *Machine) Next() bool {
	if !m.CanNext() {
		return false
	}
	m.move(m.step + 1)
	return true
}

// Prev goes back one step.
func (m *Machine) Prev() bool {
	if !m.CanPrev() {
		return false
	}
	m.move(m.step - 1)
	return true
}

// Jump moves directly to step to. Leaving step 1 still requires the guard.
func (m *Machine) Jump(to int) bool {
	if to < 1 || to > m.total || to == m.step {
		return false
	}
	if to > 1 && !m.guardHolds() {
		return false
	}
	m.move(to)
	return true
}

func (m *Machine) guardHolds() bool {
	return m.guard == nil || m.guard()
}

func (m *Machine) move(to int) {
	from := m.step
	m.step = to
	if m.onTransition != nil {
		m.onTransition(Transition{Kind: m.kind, From: from, To: to})
	}
}
