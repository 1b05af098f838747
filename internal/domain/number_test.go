package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Number
	}{
		{"null", `null`, Number{}},
		{"empty string", `""`, Number{}},
		{"blank string", `"  "`, Number{}},
		{"zero", `0`, Num(0)},
		{"float", `80.5`, Num(80.5)},
		{"numeric string", `"72"`, Num(72)},
		{"comma decimal", `"72,5"`, Num(72.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.want, n)
		})
	}

	var n Number
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &n))
}

func TestNumber_MarshalJSON(t *testing.T) {
	type wrapper struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
	}
	out, err := json.Marshal(wrapper{A: Num(0), B: Number{}, C: Num(math.NaN())})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":0,"b":null,"c":null}`, string(out))
}

func TestNumber_Helpers(t *testing.T) {
	assert.True(t, Number{}.IsZeroOrUnset())
	assert.True(t, Num(0).IsZeroOrUnset())
	assert.False(t, Num(0.1).IsZeroOrUnset())
	assert.False(t, Num(math.Inf(1)).Finite())
	assert.Equal(t, "", Number{}.Fixed(1))
	assert.Equal(t, "80.0", Num(80).Fixed(1))
	assert.Equal(t, 3.0, Number{}.Or(3))
}

func TestTrainingPlan_Clone(t *testing.T) {
	plan := TrainingPlan{
		StudentName: "Ana",
		Workouts: []WorkoutSession{
			{ID: "w1", Letter: "A", Days: []string{"Seg"}, Exercises: []Exercise{{ID: "e1", Name: "Supino"}}},
		},
	}
	clone := plan.Clone()
	clone.Workouts[0].Days[0] = "Ter"
	clone.Workouts[0].Exercises[0].Name = "Remada"

	assert.Equal(t, "Seg", plan.Workouts[0].Days[0])
	assert.Equal(t, "Supino", plan.Workouts[0].Exercises[0].Name)
	assert.Equal(t, 1, clone.TotalExercises())
}

func TestPhotos(t *testing.T) {
	var p Photos
	assert.False(t, p.Any())
	assert.True(t, p.Set(PhotoSideAfter, "data:image/jpeg;base64,AA"))
	assert.False(t, p.Set("top", "x"))
	assert.True(t, p.Any())
	assert.Equal(t, "data:image/jpeg;base64,AA", p.Get(PhotoSideAfter))
}

func TestMode_Step(t *testing.T) {
	step, ok := ModeTraining.Step()
	assert.True(t, ok)
	assert.Equal(t, StepTrainingForm, step)

	_, ok = Mode("bogus").Step()
	assert.False(t, ok)
}
