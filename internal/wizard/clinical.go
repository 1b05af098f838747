package wizard

import (
	"fmt"

	"paggie/trainer-app/internal/domain"
)

var (
	AnamneseTitles = []string{"Identificação & Queixa", "Histórico Clínico", "Hábitos & Sintomas", "Exame & Conduta"}
	PhysicalTitles = []string{"Dados & Cardio", "Força & Flexibilidade", "Análise Postural"}
)

// AnamneseWizard collects the clinical intake checklist.
type AnamneseWizard struct {
	*Wizard[domain.Anamnese]
}

// NewAnamneseWizard starts an anamnese with the usual habit defaults.
func NewAnamneseWizard(opts Options) *AnamneseWizard {
	opts = opts.withDefaults()
	draft := domain.Anamnese{
		StudentName: opts.StudentName,
		Date:        opts.today(),
		Age:         domain.Num(0),
		Gender:      "Masculino",
		Smoking:     "Não fuma",
		Alcohol:     "Não bebe",
		StressLevel: "Médio",
	}
	return &AnamneseWizard{
		Wizard: newWizard(domain.KindAnamnese, AnamneseTitles, draft, true,
			reduceFlat[domain.Anamnese], identity[domain.Anamnese], opts.OnTransition),
	}
}

// PhysicalWizard collects the physical test battery.
type PhysicalWizard struct {
	*Wizard[domain.PhysicalAssessment]
}

// NewPhysicalWizard starts a physical assessment. A previous record, when
// given, is reopened for editing instead of starting blank.
func NewPhysicalWizard(opts Options, previous *domain.PhysicalAssessment) *PhysicalWizard {
	opts = opts.withDefaults()
	draft := domain.PhysicalAssessment{
		StudentName: opts.StudentName,
		Date:        opts.today(),
		Age:         domain.Num(0),
		Gender:      "Masculino",
	}
	if previous != nil {
		draft = *previous
	}
	return &PhysicalWizard{
		Wizard: newWizard(domain.KindPhysicalAssessment, PhysicalTitles, draft, true,
			reduceFlat[domain.PhysicalAssessment], identity[domain.PhysicalAssessment], opts.OnTransition),
	}
}

// reduceFlat serves records made only of text and number fields.
func reduceFlat[T any](d *T, a Action) error {
	handled, err := setFlat(d, a)
	if !handled {
		return fmt.Errorf("%w: %s", ErrUnsupportedAction, a.actionName())
	}
	return err
}
