package report

import (
	"strings"

	"paggie/trainer-app/internal/domain"
)

// SectionRecommendations holds the plan's frequency comments.
const SectionRecommendations = "recommendations"

// ExerciseHeader is the column set of a workout table.
var ExerciseHeader = []string{"Exercício", "Séries", "Reps", "Descanso", "Obs"}

// TrainingPlan builds the printable training sheet: one section per session.
func TrainingPlan(p domain.TrainingPlan, trainer domain.TrainerProfile) Document {
	doc := Document{
		Kind:        domain.KindTrainingPlan,
		Title:       "Planilha de Treinamento",
		Trainer:     trainer.WithDefaults(),
		StudentName: p.StudentName,
		Date:        displayDate(p.StartDate),
		Info: []Field{
			field("Aluno", p.StudentName),
			field("Objetivo", p.Goal),
			field("Início", displayDate(p.StartDate)),
			field("Periodização", periodization(p)),
		},
	}

	if strings.TrimSpace(p.FrequencyComments) != "" {
		doc.Sections = append(doc.Sections, Section{
			Key:   SectionRecommendations,
			Title: "Recomendações",
			Quote: p.FrequencyComments,
		})
	}

	for _, w := range p.Workouts {
		days := "Dias flexíveis"
		if len(w.Days) > 0 {
			days = strings.Join(w.Days, " • ")
		}
		s := Section{
			Key:    "workout-" + w.Letter,
			Number: w.Letter,
			Title:  textOr(w.Name, "Treino "+w.Letter),
			Fields: []Field{{Label: "Dias", Value: days}},
			Table:  &Table{Header: ExerciseHeader, Rows: make([][]string, 0, len(w.Exercises))},
		}
		for _, e := range w.Exercises {
			s.Table.Rows = append(s.Table.Rows, []string{
				text(e.Name), text(e.Sets), text(e.Reps), text(e.Rest), text(e.Technique),
			})
		}
		if strings.TrimSpace(w.Notes) != "" {
			s.Fields = append(s.Fields, wide(field("Observações", w.Notes)))
		}
		doc.Sections = append(doc.Sections, s)
	}
	return doc
}

func periodization(p domain.TrainingPlan) string {
	split := text(p.SplitType)
	if !p.DurationWeeks.Finite() {
		return split
	}
	return split + " • " + p.DurationWeeks.String() + " Semanas"
}
