package wizard

import (
	"fmt"

	"paggie/trainer-app/internal/domain"
)

// TrainingTitles names the training plan steps.
var TrainingTitles = []string{"Configuração", "Treinos"}

const (
	workoutLetters  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	exhaustedLetter = "?"
	defaultGoal     = "Hipertrofia"
	defaultSplit    = "ABC"
	defaultWeeks    = 4
	initialWorkouts = 3
)

// Default prescription of a new exercise row.
const (
	DefaultSets = "3"
	DefaultReps = "10-12"
	DefaultRest = "60s"
)

// TrainingWizard builds a training plan. Besides the draft it tracks the
// focused session, which is cursor state and not part of the plan.
type TrainingWizard struct {
	*Wizard[domain.TrainingPlan]
	active int
	newID  func() string
}

// NewTrainingWizard starts an ABC plan with one blank exercise per session.
func NewTrainingWizard(opts Options) *TrainingWizard {
	opts = opts.withDefaults()
	tw := &TrainingWizard{newID: opts.NewID}
	goal := opts.Goal
	if goal == "" {
		goal = defaultGoal
	}
	draft := domain.TrainingPlan{
		StudentName:   opts.StudentName,
		Goal:          goal,
		StartDate:     opts.today(),
		DurationWeeks: domain.Num(defaultWeeks),
		SplitType:     defaultSplit,
	}
	for i := 0; i < initialWorkouts; i++ {
		draft.Workouts = append(draft.Workouts, tw.emptyWorkout(workoutLetters[i:i+1]))
	}
	tw.Wizard = newWizard(domain.KindTrainingPlan, TrainingTitles, draft, false,
		tw.reduce, domain.TrainingPlan.Clone, opts.OnTransition)
	return tw
}

// ActiveTab returns the index of the focused session.
func (tw *TrainingWizard) ActiveTab() int { return tw.active }

func (tw *TrainingWizard) Snapshot() State {
	s := tw.Wizard.Snapshot()
	active := tw.active
	s.ActiveTab = &active
	return s
}

// EmptyExercise returns a placeholder row with the default prescription.
func EmptyExercise(id string) domain.Exercise {
	return domain.Exercise{ID: id, Sets: DefaultSets, Reps: DefaultReps, Rest: DefaultRest}
}

func (tw *TrainingWizard) emptyWorkout(letter string) domain.WorkoutSession {
	return domain.WorkoutSession{
		ID:        tw.newID(),
		Letter:    letter,
		Days:      []string{},
		Exercises: []domain.Exercise{EmptyExercise(tw.newID())},
	}
}

// nextLetter returns the first letter no session uses yet.
func nextLetter(workouts []domain.WorkoutSession) string {
	used := make(map[string]bool, len(workouts))
	for _, w := range workouts {
		used[w.Letter] = true
	}
	for i := 0; i < len(workoutLetters); i++ {
		if l := workoutLetters[i : i+1]; !used[l] {
			return l
		}
	}
	return exhaustedLetter
}

func (tw *TrainingWizard) reduce(p *domain.TrainingPlan, a Action) error {
	if handled, err := setFlat(p, a); handled {
		return err
	}

	switch act := a.(type) {
	case AddWorkout:
		p.Workouts = append(p.Workouts, tw.emptyWorkout(nextLetter(p.Workouts)))
		tw.active = len(p.Workouts) - 1
		return nil

	case RemoveWorkout:
		if len(p.Workouts) <= 1 {
			return ErrLastWorkout
		}
		if act.Index < 0 || act.Index >= len(p.Workouts) {
			return fmt.Errorf("%w: workout %d", ErrIndexOutOfRange, act.Index)
		}
		p.Workouts = append(p.Workouts[:act.Index:act.Index], p.Workouts[act.Index+1:]...)
		tw.active = min(max(0, tw.active-1), len(p.Workouts)-1)
		return nil

	case SelectWorkout:
		if act.Index < 0 || act.Index >= len(p.Workouts) {
			return fmt.Errorf("%w: workout %d", ErrIndexOutOfRange, act.Index)
		}
		tw.active = act.Index
		return nil

	case SetWorkoutField:
		w, err := tw.workout(p, act.Workout)
		if err != nil {
			return err
		}
		if act.Field != "name" && act.Field != "notes" {
			return fmt.Errorf("%w: workout field %q", ErrUnknownField, act.Field)
		}
		return setTextField(w, act.Field, act.Value)

	case ToggleDay:
		w, err := tw.workout(p, act.Workout)
		if err != nil {
			return err
		}
		if !domain.IsWeekday(act.Day) {
			return fmt.Errorf("%w: %q", ErrUnknownDay, act.Day)
		}
		toggleDay(w, act.Day)
		return nil

	case AddExercise:
		w, err := tw.workout(p, act.Workout)
		if err != nil {
			return err
		}
		w.Exercises = append(w.Exercises, EmptyExercise(tw.newID()))
		return nil

	case RemoveExercise:
		w, err := tw.workout(p, act.Workout)
		if err != nil {
			return err
		}
		if act.Index < 0 || act.Index >= len(w.Exercises) {
			return fmt.Errorf("%w: exercise %d", ErrIndexOutOfRange, act.Index)
		}
		w.Exercises = append(w.Exercises[:act.Index:act.Index], w.Exercises[act.Index+1:]...)
		return nil

	case SetExerciseField:
		w, err := tw.workout(p, act.Workout)
		if err != nil {
			return err
		}
		if act.Index < 0 || act.Index >= len(w.Exercises) {
			return fmt.Errorf("%w: exercise %d", ErrIndexOutOfRange, act.Index)
		}
		if act.Field == "id" {
			return fmt.Errorf("%w: exercise ids are immutable", ErrUnknownField)
		}
		return setTextField(&w.Exercises[act.Index], act.Field, act.Value)

	case ImportExercises:
		w, err := tw.workout(p, ActiveWorkout)
		if err != nil {
			return err
		}
		if len(act.Exercises) == 0 {
			return nil
		}
		imported := make([]domain.Exercise, len(act.Exercises))
		// Imported rows always get fresh ids; ids sent by the caller are ignored.
		for i, e := range act.Exercises {
			e.ID = tw.newID()
			imported[i] = e
		}
		if len(w.Exercises) == 1 && w.Exercises[0].IsPlaceholder() {
			w.Exercises = imported
		} else {
			w.Exercises = append(w.Exercises, imported...)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedAction, a.actionName())
}

func (tw *TrainingWizard) workout(p *domain.TrainingPlan, idx int) (*domain.WorkoutSession, error) {
	if idx == ActiveWorkout {
		idx = tw.active
	}
	if idx < 0 || idx >= len(p.Workouts) {
		return nil, fmt.Errorf("%w: workout %d", ErrIndexOutOfRange, idx)
	}
	return &p.Workouts[idx], nil
}

func toggleDay(w *domain.WorkoutSession, day string) {
	for i, d := range w.Days {
		if d == day {
			w.Days = append(w.Days[:i:i], w.Days[i+1:]...)
			return
		}
	}
	w.Days = append(w.Days, day)
}
