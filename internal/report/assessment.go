package report

import (
	"strings"

	"paggie/trainer-app/internal/comparison"
	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/validation"
)

// Section keys of the assessment report.
const (
	SectionIndicators  = "indicators"
	SectionComposition = "composition"
	SectionPerformance = "performance"
	SectionPerimeters  = "perimeters"
	SectionPhotos      = "photos"
	SectionAnalysis    = "analysis"
	SectionConclusion  = "conclusion"
)

// Assessment builds the progress report. analysis may be nil, in which case
// the trainer's manual text is used.
func Assessment(a domain.Assessment, analysis *domain.AIAnalysisResult, trainer domain.TrainerProfile) Document {
	doc := Document{
		Kind:        domain.KindAssessment,
		Title:       "Performance",
		Trainer:     trainer.WithDefaults(),
		StudentName: a.StudentName,
		Date:        displayDate(a.Date),
		Info: []Field{
			field("Aluno", a.StudentName),
			field("Objetivo", a.Goal),
			unitField("Adesão", number(a.AdherenceRate), "%"),
		},
	}

	weight := unitField("Peso Atual", number(a.Current.Weight), "kg")
	if d := comparison.Compute(a.Initial.Weight, a.Current.Weight, comparison.Direct); d.Valid {
		weight.Delta = &d
	}
	doc.Sections = append(doc.Sections, Section{
		Key:   SectionIndicators,
		Title: "Indicadores",
		Fields: []Field{
			field("Comprometimento", string(a.Commitment)),
			field("Treinos/Mês", number(a.WorkoutsPerMonth)),
			weight,
		},
	})

	ci := comparison.Split(a.Initial.Weight, a.Initial.BodyFat)
	cc := comparison.Split(a.Current.Weight, a.Current.BodyFat)
	doc.Sections = append(doc.Sections,
		Section{
			Key:        SectionComposition,
			Title:      "Composição",
			Comparison: comparison.CompositionRows(a.Initial, a.Current),
			Bars: []Bar{
				{Name: "Peso", Before: a.Initial.Weight.Or(0), After: a.Current.Weight.Or(0)},
				{Name: "M. Magra", Before: ci.LeanMass.Or(0), After: cc.LeanMass.Or(0)},
				{Name: "Gordura", Before: ci.FatMass.Or(0), After: cc.FatMass.Or(0)},
			},
		},
		Section{
			Key:        SectionPerformance,
			Title:      "Performance",
			Comparison: comparison.PerformanceRows(a.InitialTests, a.CurrentTests),
		},
		Section{
			Key:        SectionPerimeters,
			Title:      "Perimetria (cm)",
			Comparison: comparison.PerimeterRows(a.Initial, a.Current),
		},
	)

	if a.Photos.Any() {
		doc.Sections = append(doc.Sections, Section{
			Key:   SectionPhotos,
			Title: "Comparativo Visual",
			Photos: []PhotoPair{
				{Title: "Frente", Before: a.Photos.FrontBefore, After: a.Photos.FrontAfter},
				{Title: "Lateral", Before: a.Photos.SideBefore, After: a.Photos.SideAfter},
				{Title: "Costas", Before: a.Photos.BackBefore, After: a.Photos.BackAfter},
			},
		})
	}

	narrative, conclusion := a.ManualTechnicalAnalysis, a.ManualConclusion
	if analysis != nil {
		narrative, conclusion = analysis.AnalysisText, analysis.Conclusion
	}
	tokens := ParseNarrative(narrative)
	if len(tokens) == 0 {
		tokens = []Token{{Kind: TokenText, Text: Placeholder}}
	}
	doc.Sections = append(doc.Sections,
		Section{Key: SectionAnalysis, Title: "Análise Técnica", Narrative: tokens},
		Section{
			Key:   SectionConclusion,
			Title: "Conclusão",
			Quote: text(conclusion),
			Fields: []Field{
				{Label: "Próximo Foco", Value: textOr(a.NextGoal, "Consistência")},
				{Label: "Recomendação", Value: textOr(a.RecHabits, "Manter rotina")},
			},
		},
	)
	return doc
}

// displayDate formats a stored date the way it is printed (dd/mm/yyyy).
// Unparseable input is returned as is.
func displayDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	t, err := validation.ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}
