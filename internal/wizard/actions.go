package wizard

import (
	"encoding/json"
	"fmt"

	"paggie/trainer-app/internal/domain"
)

// Action is a typed change to a draft. Each wizard accepts the subset of
// actions that matches its field groups.
type Action interface {
	actionName() string
}

// Side selects one half of a paired measurement set.
type Side string

const (
	SideInitial Side = "initial"
	SideCurrent Side = "current"
)

// ActiveWorkout targets the session currently focused in the training wizard.
const ActiveWorkout = -1

type (
	// SetText sets a flat text field.
	SetText struct {
		Field string
		Value string
	}
	// SetNumber sets a flat numeric field.
	SetNumber struct {
		Field string
		Value domain.Number
	}
	// SetMetric sets one body measurement on one side.
	SetMetric struct {
		Side  Side
		Field string
		Value domain.Number
	}
	// SetTest sets one performance test on one side.
	SetTest struct {
		Side  Side
		Field string
		Value domain.Number
	}
	// SetPace sets the running pace on one side.
	SetPace struct {
		Side  Side
		Value string
	}
	// SetPhoto stores a photo data URL in a slot. An empty URL clears it.
	SetPhoto struct {
		Slot    domain.PhotoSlot
		DataURL string
	}

	AddWorkout    struct{}
	RemoveWorkout struct{ Index int }
	SelectWorkout struct{ Index int }
	// SetWorkoutField sets the name or notes of a session.
	SetWorkoutField struct {
		Workout int
		Field   string
		Value   string
	}
	ToggleDay struct {
		Workout int
		Day     string
	}
	AddExercise    struct{ Workout int }
	RemoveExercise struct {
		Workout int
		Index   int
	}
	SetExerciseField struct {
		Workout int
		Index   int
		Field   string
		Value   string
	}
	// ImportExercises adds library picks to the focused session.
	ImportExercises struct {
		Exercises []domain.Exercise
	}
)

func (SetText) actionName() string          { return "setText" }
func (SetNumber) actionName() string        { return "setNumber" }
func (SetMetric) actionName() string        { return "setMetric" }
func (SetTest) actionName() string          { return "setTest" }
func (SetPace) actionName() string          { return "setPace" }
func (SetPhoto) actionName() string         { return "setPhoto" }
func (AddWorkout) actionName() string       { return "addWorkout" }
func (RemoveWorkout) actionName() string    { return "removeWorkout" }
func (SelectWorkout) actionName() string    { return "selectWorkout" }
func (SetWorkoutField) actionName() string  { return "setWorkoutField" }
func (ToggleDay) actionName() string        { return "toggleDay" }
func (AddExercise) actionName() string      { return "addExercise" }
func (RemoveExercise) actionName() string   { return "removeExercise" }
func (SetExerciseField) actionName() string { return "setExerciseField" }
func (ImportExercises) actionName() string  { return "importExercises" }

// Envelope is the wire form of an action.
type Envelope struct {
	Type      string            `json:"type" binding:"required"`
	Field     string            `json:"field,omitempty"`
	Side      Side              `json:"side,omitempty"`
	Slot      domain.PhotoSlot  `json:"slot,omitempty"`
	Workout   *int              `json:"workout,omitempty"`
	Index     int               `json:"index,omitempty"`
	Day       string            `json:"day,omitempty"`
	Value     json.RawMessage   `json:"value,omitempty"`
	Exercises []domain.Exercise `json:"exercises,omitempty"`
}

// Action decodes the envelope into a typed action.
func (e Envelope) Action() (Action, error) {
	workout := ActiveWorkout
	if e.Workout != nil {
		workout = *e.Workout
	}
	switch e.Type {
	case "setText":
		v, err := e.text()
		return SetText{Field: e.Field, Value: v}, err
	case "setNumber":
		v, err := e.number()
		return SetNumber{Field: e.Field, Value: v}, err
	case "setMetric":
		v, err := e.number()
		return SetMetric{Side: e.Side, Field: e.Field, Value: v}, err
	case "setTest":
		v, err := e.number()
		return SetTest{Side: e.Side, Field: e.Field, Value: v}, err
	case "setPace":
		v, err := e.text()
		return SetPace{Side: e.Side, Value: v}, err
	case "setPhoto":
		v, err := e.text()
		return SetPhoto{Slot: e.Slot, DataURL: v}, err
	case "addWorkout":
		return AddWorkout{}, nil
	case "removeWorkout":
		return RemoveWorkout{Index: e.Index}, nil
	case "selectWorkout":
		return SelectWorkout{Index: e.Index}, nil
	case "setWorkoutField":
		v, err := e.text()
		return SetWorkoutField{Workout: workout, Field: e.Field, Value: v}, err
	case "toggleDay":
		return ToggleDay{Workout: workout, Day: e.Day}, nil
	case "addExercise":
		return AddExercise{Workout: workout}, nil
	case "removeExercise":
		return RemoveExercise{Workout: workout, Index: e.Index}, nil
	case "setExerciseField":
		v, err := e.text()
		return SetExerciseField{Workout: workout, Index: e.Index, Field: e.Field, Value: v}, err
	case "importExercises":
		return ImportExercises{Exercises: e.Exercises}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedAction, e.Type)
}

func (e Envelope) text() (string, error) {
	if len(e.Value) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(e.Value, &s); err != nil {
		return "", fmt.Errorf("%w: expected text for %q", ErrInvalidValue, e.Field)
	}
	return s, nil
}

func (e Envelope) number() (domain.Number, error) {
	var n domain.Number
	if len(e.Value) == 0 {
		return n, nil
	}
	if err := json.Unmarshal(e.Value, &n); err != nil {
		return n, fmt.Errorf("%w: expected number for %q", ErrInvalidValue, e.Field)
	}
	return n, nil
}
