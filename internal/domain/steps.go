package domain

// AppStep is a top-level screen of the trainer workspace.
type AppStep string

const (
	StepAuth                     AppStep = "auth"
	StepForgotPassword           AppStep = "forgot-password"
	StepResetPassword            AppStep = "reset-password"
	StepOnboarding               AppStep = "onboarding"
	StepModeSelection            AppStep = "mode-selection"
	StepLibrary                  AppStep = "library"
	StepAssessment               AppStep = "assessment"
	StepTrainingForm             AppStep = "training-form"
	StepAnalyzing                AppStep = "analyzing"
	StepReport                   AppStep = "report"
	StepTrainingReport           AppStep = "training-report"
	StepAnamneseForm             AppStep = "anamnese-form"
	StepAnamneseReport           AppStep = "anamnese-report"
	StepPhysicalAssessmentForm   AppStep = "physical-assessment-form"
	StepPhysicalAssessmentReport AppStep = "physical-assessment-report"
	StepChat                     AppStep = "chat-paggie"
)

// Mode is an entry chosen on the mode selection screen.
type Mode string

const (
	ModeAssessment         Mode = "assessment"
	ModeTraining           Mode = "training"
	ModeLibrary            Mode = "library"
	ModeAnamnese           Mode = "anamnese"
	ModePhysicalAssessment Mode = "physical-assessment"
	ModeChat               Mode = "chat-paggie"
)

// Step returns the screen a mode opens, or false for an unknown mode.
func (m Mode) Step() (AppStep, bool) {
	switch m {
	case ModeAssessment:
		return StepAssessment, true
	case ModeTraining:
		return StepTrainingForm, true
	case ModeLibrary:
		return StepLibrary, true
	case ModeAnamnese:
		return StepAnamneseForm, true
	case ModePhysicalAssessment:
		return StepPhysicalAssessmentForm, true
	case ModeChat:
		return StepChat, true
	}
	return "", false
}

// RecordKind names one of the four intake flows.
type RecordKind string

const (
	KindAssessment         RecordKind = "assessment"
	KindAnamnese           RecordKind = "anamnese"
	KindPhysicalAssessment RecordKind = "physical"
	KindTrainingPlan       RecordKind = "training"
)

// ParseRecordKind validates a kind coming from a request path.
func ParseRecordKind(s string) (RecordKind, bool) {
	switch k := RecordKind(s); k {
	case KindAssessment, KindAnamnese, KindPhysicalAssessment, KindTrainingPlan:
		return k, true
	}
	return "", false
}
