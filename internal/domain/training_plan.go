// internal/domain/training_plan.go
package domain

// Weekdays lists the weekday tokens a workout session can be scheduled on.
var Weekdays = []string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}

// IsWeekday reports whether day is a known weekday token.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Exercise is one prescribed exercise inside a workout session.
type Exercise struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Sets      string `json:"sets"`
	Reps      string `json:"reps"`
	Rest      string `json:"rest"`
	Technique string `json:"technique"` // e.g. "Drop-set"
}

// IsPlaceholder reports whether the entry is an untouched blank row.
func (e Exercise) IsPlaceholder() bool {
	return e.Name == ""
}

// WorkoutSession is one lettered session (A, B, C...) of a training plan.
type WorkoutSession struct {
	ID        string     `json:"id"`
	Letter    string     `json:"letter"`
	Name      string     `json:"name"` // e.g. "Peito e Tríceps"
	Days      []string   `json:"days"`
	Exercises []Exercise `json:"exercises"`
	Notes     string     `json:"notes"`
}

// TrainingPlan is a periodized plan made of one or more workout sessions.
type TrainingPlan struct {
	StudentName       string           `json:"studentName"`
	Goal              string           `json:"goal"`
	StartDate         string           `json:"startDate"`
	DurationWeeks     Number           `json:"durationWeeks"`
	SplitType         string           `json:"splitType"` // "ABC", "Full Body"...
	FrequencyComments string           `json:"frequencyComments"`
	Workouts          []WorkoutSession `json:"workouts"`
}

// Clone returns a deep copy of the plan.
func (p TrainingPlan) Clone() TrainingPlan {
	out := p
	out.Workouts = make([]WorkoutSession, len(p.Workouts))
	for i, w := range p.Workouts {
		cw := w
		cw.Days = append([]string(nil), w.Days...)
		cw.Exercises = append([]Exercise(nil), w.Exercises...)
		if cw.Days == nil {
			cw.Days = []string{}
		}
		if cw.Exercises == nil {
			cw.Exercises = []Exercise{}
		}
		out.Workouts[i] = cw
	}
	return out
}

// TotalExercises counts exercises across all sessions.
func (p TrainingPlan) TotalExercises() int {
	n := 0
	for _, w := range p.Workouts {
		n += len(w.Exercises)
	}
	return n
}
