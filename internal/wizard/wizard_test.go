package wizard

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paggie/trainer-app/internal/domain"
)

func testOptions() Options {
	n := 0
	return Options{
		Now: func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func TestMachine_Bounds(t *testing.T) {
	var seen []Transition
	m := NewMachine(domain.KindAssessment, 3, nil, func(tr Transition) { seen = append(seen, tr) })

	assert.False(t, m.Prev())
	assert.True(t, m.Next())
	assert.True(t, m.Next())
	assert.True(t, m.IsLast())
	assert.False(t, m.Next())
	assert.Equal(t, 3, m.Step())

	assert.True(t, m.Jump(1))
	assert.False(t, m.Jump(0))
	assert.False(t, m.Jump(4))

	require.Len(t, seen, 3)
	assert.Equal(t, Transition{Kind: domain.KindAssessment, From: 1, To: 2}, seen[0])
	assert.Equal(t, Transition{Kind: domain.KindAssessment, From: 3, To: 1}, seen[2])
}

func TestAssessmentWizard_NameGuard(t *testing.T) {
	w := NewAssessmentWizard(testOptions())

	assert.False(t, w.Next())
	assert.False(t, w.Next())
	assert.Equal(t, 1, w.Step())
	assert.False(t, w.Jump(3))

	require.NoError(t, w.Dispatch(SetText{Field: "studentName", Value: "   "}))
	assert.False(t, w.Next())

	require.NoError(t, w.Dispatch(SetText{Field: "studentName", Value: "Ana"}))
	assert.True(t, w.Next())
	assert.Equal(t, 2, w.Step())
	assert.Equal(t, "Biometria", w.Snapshot().Title)

	assert.True(t, w.Prev())
	assert.Equal(t, 1, w.Step())
	assert.False(t, w.Prev())
}

func TestAssessmentWizard_Defaults(t *testing.T) {
	w := NewAssessmentWizard(testOptions())
	d := w.Draft()
	assert.Equal(t, "2024-03-15", d.Date)
	assert.Equal(t, "0:00", d.InitialTests.Pace)
	assert.Equal(t, "0:00", d.CurrentTests.Pace)
	assert.False(t, d.Initial.Weight.Valid)
}

func TestAssessmentWizard_TargetedUpdates(t *testing.T) {
	w := NewAssessmentWizard(testOptions())

	require.NoError(t, w.Dispatch(SetMetric{Side: SideInitial, Field: "weight", Value: domain.Num(80)}))
	require.NoError(t, w.Dispatch(SetMetric{Side: SideCurrent, Field: "weight", Value: domain.Num(76.5)}))
	require.NoError(t, w.Dispatch(SetTest{Side: SideCurrent, Field: "plank", Value: domain.Num(90)}))
	require.NoError(t, w.Dispatch(SetPace{Side: SideCurrent, Value: "5:30"}))
	require.NoError(t, w.Dispatch(SetNumber{Field: "height", Value: domain.Num(178)}))
	require.NoError(t, w.Dispatch(SetPhoto{Slot: domain.PhotoFrontBefore, DataURL: "data:image/jpeg;base64,AA=="}))

	d := w.Draft()
	assert.Equal(t, domain.Num(80), d.Initial.Weight)
	assert.Equal(t, domain.Num(76.5), d.Current.Weight)
	assert.False(t, d.Initial.BodyFat.Valid)
	assert.Equal(t, domain.Num(90), d.CurrentTests.Plank)
	assert.False(t, d.InitialTests.Plank.Valid)
	assert.Equal(t, "5:30", d.CurrentTests.Pace)
	assert.Equal(t, "0:00", d.InitialTests.Pace)
	assert.Equal(t, domain.Num(178), d.Height)
	assert.True(t, d.Photos.Any())
}

func TestAssessmentWizard_RejectedActions(t *testing.T) {
	w := NewAssessmentWizard(testOptions())
	before := w.Draft()

	assert.ErrorIs(t, w.Dispatch(SetText{Field: "nope", Value: "x"}), ErrUnknownField)
	assert.ErrorIs(t, w.Dispatch(SetText{Field: "height", Value: "x"}), ErrUnknownField)
	assert.ErrorIs(t, w.Dispatch(SetText{Field: "gender", Value: "other"}), ErrInvalidValue)
	assert.ErrorIs(t, w.Dispatch(SetText{Field: "commitment", Value: "Ótimo"}), ErrInvalidValue)
	assert.ErrorIs(t, w.Dispatch(SetMetric{Side: "middle", Field: "weight", Value: domain.Num(1)}), ErrInvalidValue)
	assert.ErrorIs(t, w.Dispatch(SetPhoto{Slot: "top", DataURL: "x"}), ErrUnknownField)
	assert.ErrorIs(t, w.Dispatch(AddWorkout{}), ErrUnsupportedAction)

	assert.Equal(t, before, w.Draft())
}

func TestWizard_CompleteOnlyOnLastStep(t *testing.T) {
	w := NewAnamneseWizard(testOptions())
	require.NoError(t, w.Dispatch(SetText{Field: "studentName", Value: "Bruno"}))

	called := false
	assert.ErrorIs(t, w.Complete(func(domain.Anamnese) { called = true }), ErrNotLastStep)
	assert.False(t, called)

	for w.Next() {
	}
	assert.Equal(t, 4, w.Step())
	assert.True(t, w.Snapshot().CanComplete)

	var got domain.Anamnese
	require.NoError(t, w.Complete(func(a domain.Anamnese) { got = a }))
	assert.Equal(t, "Bruno", got.StudentName)
	assert.Equal(t, "Não fuma", got.Smoking)
	assert.Equal(t, 4, w.Step())
}

func TestPhysicalWizard_ReopensPrevious(t *testing.T) {
	prev := &domain.PhysicalAssessment{StudentName: "Carla", Date: "2024-01-01"}
	w := NewPhysicalWizard(testOptions(), prev)
	assert.Equal(t, "Carla", w.Draft().StudentName)
	assert.True(t, w.Next())

	fresh := NewPhysicalWizard(testOptions(), nil)
	assert.Equal(t, "2024-03-15", fresh.Draft().Date)
	assert.Equal(t, PhysicalTitles[0], fresh.Snapshot().Title)
}

func TestTrainingWizard_Defaults(t *testing.T) {
	w := NewTrainingWizard(testOptions())
	p := w.Draft()

	assert.Equal(t, "Hipertrofia", p.Goal)
	assert.Equal(t, "ABC", p.SplitType)
	assert.Equal(t, domain.Num(4), p.DurationWeeks)
	require.Len(t, p.Workouts, 3)
	for i, letter := range []string{"A", "B", "C"} {
		assert.Equal(t, letter, p.Workouts[i].Letter)
		require.Len(t, p.Workouts[i].Exercises, 1)
		assert.True(t, p.Workouts[i].Exercises[0].IsPlaceholder())
		assert.Equal(t, DefaultSets, p.Workouts[i].Exercises[0].Sets)
	}
	// Training has no name guard.
	assert.True(t, w.Next())
}

func TestTrainingWizard_AddWorkoutLetters(t *testing.T) {
	w := NewTrainingWizard(testOptions())
	for i := 0; i < 23; i++ {
		require.NoError(t, w.Dispatch(AddWorkout{}))
	}
	p := w.Draft()
	require.Len(t, p.Workouts, 26)
	assert.Equal(t, "D", p.Workouts[3].Letter)
	assert.Equal(t, "Z", p.Workouts[25].Letter)
	assert.Equal(t, 25, w.ActiveTab())

	require.NoError(t, w.Dispatch(AddWorkout{}))
	assert.Equal(t, "?", w.Draft().Workouts[26].Letter)
}

func TestTrainingWizard_RemoveWorkout(t *testing.T) {
	w := NewTrainingWizard(testOptions())
	require.NoError(t, w.Dispatch(SelectWorkout{Index: 2}))
	require.NoError(t, w.Dispatch(RemoveWorkout{Index: 0}))
	assert.Equal(t, 1, w.ActiveTab())
	require.NoError(t, w.Dispatch(RemoveWorkout{Index: 0}))
	assert.Equal(t, 0, w.ActiveTab())

	before := w.Draft()
	require.Len(t, before.Workouts, 1)
	assert.ErrorIs(t, w.Dispatch(RemoveWorkout{Index: 0}), ErrLastWorkout)
	assert.Equal(t, before, w.Draft())
	assert.Equal(t, "C", before.Workouts[0].Letter)

	// A freed letter is reused first.
	require.NoError(t, w.Dispatch(AddWorkout{}))
	assert.Equal(t, "A", w.Draft().Workouts[1].Letter)
}

func TestTrainingWizard_ExerciseEdits(t *testing.T) {
	w := NewTrainingWizard(testOptions())

	require.NoError(t, w.Dispatch(SetExerciseField{Workout: 1, Index: 0, Field: "name", Value: "Supino"}))
	require.NoError(t, w.Dispatch(AddExercise{Workout: 1}))
	require.NoError(t, w.Dispatch(SetWorkoutField{Workout: 1, Field: "name", Value: "Peito"}))
	require.NoError(t, w.Dispatch(ToggleDay{Workout: 1, Day: "Qua"}))
	require.NoError(t, w.Dispatch(ToggleDay{Workout: 1, Day: "Seg"}))

	assert.ErrorIs(t, w.Dispatch(ToggleDay{Workout: 1, Day: "Mon"}), ErrUnknownDay)
	assert.ErrorIs(t, w.Dispatch(SetExerciseField{Workout: 1, Index: 0, Field: "id", Value: "x"}), ErrUnknownField)
	assert.ErrorIs(t, w.Dispatch(SetWorkoutField{Workout: 1, Field: "letter", Value: "Z"}), ErrUnknownField)
	assert.ErrorIs(t, w.Dispatch(RemoveExercise{Workout: 1, Index: 9}), ErrIndexOutOfRange)
	assert.ErrorIs(t, w.Dispatch(AddExercise{Workout: 7}), ErrIndexOutOfRange)

	p := w.Draft()
	b := p.Workouts[1]
	assert.Equal(t, "Peito", b.Name)
	assert.Equal(t, []string{"Qua", "Seg"}, b.Days)
	require.Len(t, b.Exercises, 2)
	assert.Equal(t, "Supino", b.Exercises[0].Name)
	assert.Equal(t, "", p.Workouts[0].Exercises[0].Name)

	require.NoError(t, w.Dispatch(ToggleDay{Workout: 1, Day: "Qua"}))
	require.NoError(t, w.Dispatch(RemoveExercise{Workout: 1, Index: 0}))
	b = w.Draft().Workouts[1]
	assert.Equal(t, []string{"Seg"}, b.Days)
	require.Len(t, b.Exercises, 1)
	assert.Equal(t, "", b.Exercises[0].Name)
}

func TestTrainingWizard_Import(t *testing.T) {
	picks := []domain.Exercise{
		{Name: "Agachamento Livre", Sets: "3", Reps: "10-12", Rest: "60s"},
		{ID: "keep", Name: "Leg Press 45", Sets: "3", Reps: "10-12", Rest: "60s"},
	}

	t.Run("replaces lone placeholder", func(t *testing.T) {
		w := NewTrainingWizard(testOptions())
		require.NoError(t, w.Dispatch(ImportExercises{Exercises: picks}))
		ex := w.Draft().Workouts[0].Exercises
		require.Len(t, ex, 2)
		assert.Equal(t, "Agachamento Livre", ex[0].Name)
		assert.NotEmpty(t, ex[0].ID)
		assert.NotEqual(t, "keep", ex[1].ID)
		assert.NotEqual(t, ex[0].ID, ex[1].ID)
	})

	t.Run("appends after real rows", func(t *testing.T) {
		w := NewTrainingWizard(testOptions())
		require.NoError(t, w.Dispatch(SelectWorkout{Index: 2}))
		require.NoError(t, w.Dispatch(SetExerciseField{Workout: ActiveWorkout, Index: 0, Field: "name", Value: "Remada"}))
		require.NoError(t, w.Dispatch(ImportExercises{Exercises: picks}))
		ex := w.Draft().Workouts[2].Exercises
		require.Len(t, ex, 3)
		assert.Equal(t, "Remada", ex[0].Name)
		assert.Equal(t, "Leg Press 45", ex[2].Name)
	})

	t.Run("empty import is a no-op", func(t *testing.T) {
		w := NewTrainingWizard(testOptions())
		before := w.Draft()
		require.NoError(t, w.Dispatch(ImportExercises{}))
		assert.Equal(t, before, w.Draft())
	})
}

func TestTrainingWizard_ImportEnvelopeAssignsFreshIDs(t *testing.T) {
	w := NewTrainingWizard(testOptions())
	require.NoError(t, w.Dispatch(SetExerciseField{Workout: ActiveWorkout, Index: 0, Field: "name", Value: "Supino"}))
	existing := w.Draft().Workouts[0].Exercises[0].ID

	env := Envelope{
		Type: "importExercises",
		Exercises: []domain.Exercise{
			{ID: "dup", Name: "Crucifixo"},
			{ID: "dup", Name: "Voador"},
			{ID: existing, Name: "Flexão"},
		},
	}
	act, err := env.Action()
	require.NoError(t, err)
	require.NoError(t, w.Dispatch(act))

	ex := w.Draft().Workouts[0].Exercises
	require.Len(t, ex, 4)
	seen := map[string]bool{}
	for _, e := range ex {
		assert.NotEqual(t, "dup", e.ID)
		assert.False(t, seen[e.ID], "duplicate id %q", e.ID)
		seen[e.ID] = true
	}
	assert.Equal(t, existing, ex[0].ID)

	require.NoError(t, w.Dispatch(RemoveExercise{Workout: ActiveWorkout, Index: 0}))
	ex = w.Draft().Workouts[0].Exercises
	require.Len(t, ex, 3)
	assert.Equal(t, "Crucifixo", ex[0].Name)
}

func TestTrainingWizard_CompleteIsDeepCopy(t *testing.T) {
	w := NewTrainingWizard(testOptions())
	require.NoError(t, w.Dispatch(SetText{Field: "studentName", Value: "Davi"}))
	require.True(t, w.Next())

	var plan domain.TrainingPlan
	require.NoError(t, w.Complete(func(p domain.TrainingPlan) { plan = p }))

	require.NoError(t, w.Dispatch(SetExerciseField{Workout: 0, Index: 0, Field: "name", Value: "Changed"}))
	require.NoError(t, w.Dispatch(ToggleDay{Workout: 0, Day: "Sex"}))

	assert.Equal(t, "Davi", plan.StudentName)
	assert.Equal(t, "", plan.Workouts[0].Exercises[0].Name)
	assert.Empty(t, plan.Workouts[0].Days)
}

func TestTrainingWizard_Snapshot(t *testing.T) {
	w := NewTrainingWizard(testOptions())
	require.NoError(t, w.Dispatch(SelectWorkout{Index: 1}))

	s := w.Snapshot()
	require.NotNil(t, s.ActiveTab)
	assert.Equal(t, 1, *s.ActiveTab)
	assert.Equal(t, "Configuração", s.Title)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"activeTab":1`)
}

func TestEnvelope_Action(t *testing.T) {
	decode := func(t *testing.T, raw string) Action {
		t.Helper()
		var e Envelope
		require.NoError(t, json.Unmarshal([]byte(raw), &e))
		a, err := e.Action()
		require.NoError(t, err)
		return a
	}

	assert.Equal(t, SetText{Field: "goal", Value: "Emagrecimento"},
		decode(t, `{"type":"setText","field":"goal","value":"Emagrecimento"}`))
	assert.Equal(t, SetMetric{Side: SideCurrent, Field: "waist", Value: domain.Num(82.5)},
		decode(t, `{"type":"setMetric","side":"current","field":"waist","value":"82,5"}`))
	assert.Equal(t, SetNumber{Field: "age"},
		decode(t, `{"type":"setNumber","field":"age","value":""}`))
	assert.Equal(t, ToggleDay{Workout: ActiveWorkout, Day: "Ter"},
		decode(t, `{"type":"toggleDay","day":"Ter"}`))
	assert.Equal(t, ToggleDay{Workout: 0, Day: "Ter"},
		decode(t, `{"type":"toggleDay","workout":0,"day":"Ter"}`))

	_, err := Envelope{Type: "explode"}.Action()
	assert.ErrorIs(t, err, ErrUnsupportedAction)

	_, err = Envelope{Type: "setText", Field: "goal", Value: json.RawMessage(`12`)}.Action()
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestWizard_TransitionHook(t *testing.T) {
	opts := testOptions()
	var seen []Transition
	opts.OnTransition = func(tr Transition) { seen = append(seen, tr) }

	w := NewTrainingWizard(opts)
	assert.True(t, w.Next())
	assert.False(t, w.Next())
	assert.True(t, w.Prev())

	assert.Equal(t, []Transition{
		{Kind: domain.KindTrainingPlan, From: 1, To: 2},
		{Kind: domain.KindTrainingPlan, From: 2, To: 1},
	}, seen)
}
