package wizard

import (
	"fmt"

	"paggie/trainer-app/internal/domain"
)

// AssessmentTitles names the assessment steps.
var AssessmentTitles = []string{"Identificação", "Biometria", "Performance & Fotos", "Finalização"}

// AssessmentWizard collects a body-composition assessment.
type AssessmentWizard struct {
	*Wizard[domain.Assessment]
}

// NewAssessmentWizard starts an assessment dated today.
func NewAssessmentWizard(opts Options) *AssessmentWizard {
	opts = opts.withDefaults()
	draft := domain.Assessment{
		StudentName:  opts.StudentName,
		Goal:         opts.Goal,
		Date:         opts.today(),
		InitialTests: domain.PhysicalTests{Pace: "0:00"},
		CurrentTests: domain.PhysicalTests{Pace: "0:00"},
	}
	return &AssessmentWizard{
		Wizard: newWizard(domain.KindAssessment, AssessmentTitles, draft, true,
			reduceAssessment, identity[domain.Assessment], opts.OnTransition),
	}
}

func reduceAssessment(d *domain.Assessment, a Action) error {
	switch act := a.(type) {
	case SetText:
		switch act.Field {
		case "gender":
			if act.Value != "" && act.Value != string(domain.GenderMale) && act.Value != string(domain.GenderFemale) {
				return fmt.Errorf("%w: gender %q", ErrInvalidValue, act.Value)
			}
		case "commitment":
			switch domain.CommitmentLevel(act.Value) {
			case "", domain.CommitmentExcellent, domain.CommitmentGood, domain.CommitmentRegular, domain.CommitmentLow:
			default:
				return fmt.Errorf("%w: commitment %q", ErrInvalidValue, act.Value)
			}
		}
		return setTextField(d, act.Field, act.Value)
	case SetNumber:
		return setNumberField(d, act.Field, act.Value)
	case SetMetric:
		side, err := metricSide(d, act.Side)
		if err != nil {
			return err
		}
		return setNumberField(side, act.Field, act.Value)
	case SetTest:
		side, err := testSide(d, act.Side)
		if err != nil {
			return err
		}
		return setNumberField(side, act.Field, act.Value)
	case SetPace:
		side, err := testSide(d, act.Side)
		if err != nil {
			return err
		}
		side.Pace = act.Value
		return nil
	case SetPhoto:
		if !d.Photos.Set(act.Slot, act.DataURL) {
			return fmt.Errorf("%w: photo slot %q", ErrUnknownField, act.Slot)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedAction, a.actionName())
}

func metricSide(d *domain.Assessment, s Side) (*domain.BodyMetrics, error) {
	switch s {
	case SideInitial:
		return &d.Initial, nil
	case SideCurrent:
		return &d.Current, nil
	}
	return nil, fmt.Errorf("%w: side %q", ErrInvalidValue, s)
}

func testSide(d *domain.Assessment, s Side) (*domain.PhysicalTests, error) {
	switch s {
	case SideInitial:
		return &d.InitialTests, nil
	case SideCurrent:
		return &d.CurrentTests, nil
	}
	return nil, fmt.Errorf("%w: side %q", ErrInvalidValue, s)
}
