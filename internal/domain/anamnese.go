package domain

// Anamnese is the clinical intake checklist. Sections follow the printed
// record: identification, complaint, history, medication, family, habits,
// review of systems, physical exam and conduct.
type Anamnese struct {
	// I. Identificação
	StudentName   string `json:"studentName"`
	Date          string `json:"date"`
	BirthDate     string `json:"birthDate"`
	Age           Number `json:"age"`
	Gender        string `json:"gender"` // Masculino, Feminino, Outro
	MaritalStatus string `json:"maritalStatus"`
	Profession    string `json:"profession"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`

	// II. Queixa Principal
	MainComplaint      string `json:"mainComplaint"`
	ComplaintDuration  string `json:"complaintDuration"`
	AssociatedSymptoms string `json:"associatedSymptoms"`

	// III. História da Doença Atual
	HDAOnset           string `json:"hdaOnset"`
	HDAEvolution       string `json:"hdaEvolution"`
	HDAFactors         string `json:"hdaFactors"`
	HDAIntensity       string `json:"hdaIntensity"` // 0-10
	PreviousTreatments string `json:"previousTreatments"`

	// IV. História Médica Pregressa
	ChronicDiseases   string `json:"chronicDiseases"`
	Surgeries         string `json:"surgeries"`
	Hospitalizations  string `json:"hospitalizations"`
	Traumas           string `json:"traumas"`
	VaccinationStatus string `json:"vaccinationStatus"`
	Allergies         string `json:"allergies"`

	// V. Medicamentos
	Medications string `json:"medications"`
	Adherence   string `json:"adherence"`
	Supplements string `json:"supplements"`

	// VI. Antecedentes Familiares
	FamilyHistory string `json:"familyHistory"`

	// VII. Hábitos de Vida
	Smoking          string `json:"smoking"`
	Alcohol          string `json:"alcohol"`
	Substances       string `json:"substances"`
	Diet             string `json:"diet"`
	PhysicalActivity string `json:"physicalActivity"`
	Sleep            string `json:"sleep"`
	StressLevel      string `json:"stressLevel"`
	WaterIntake      string `json:"waterIntake"`

	// VIII. Revisão por Sistemas
	SystemGeneral        string `json:"systemGeneral"`
	SystemRespiratory    string `json:"systemRespiratory"`
	SystemCardiovascular string `json:"systemCardiovascular"`
	SystemGastro         string `json:"systemGastro"`
	SystemNeuro          string `json:"systemNeuro"`
	SystemPsych          string `json:"systemPsych"`

	// IX. Exame Físico
	BP                string `json:"bp"`
	HR                string `json:"hr"`
	RespRate          string `json:"respRate"`
	Temp              string `json:"temp"`
	Weight            string `json:"weight"`
	Height            string `json:"height"`
	BMI               string `json:"bmi"`
	WaistCirc         string `json:"waistCirc"`
	GeneralInspection string `json:"generalInspection"`

	// X. Considerações Finais
	DiagnosisHypothesis string `json:"diagnosisHypothesis"`
	RequestedExams      string `json:"requestedExams"`
	TherapeuticPlan     string `json:"therapeuticPlan"`
	NextVisit           string `json:"nextVisit"`
}

// PhysicalAssessment is the physical test battery with postural analysis.
type PhysicalAssessment struct {
	StudentName string `json:"studentName"`
	Date        string `json:"date"`
	Age         Number `json:"age"`
	Gender      string `json:"gender"` // Masculino, Feminino

	RestingHR  string `json:"restingHR"`
	VO2Max     string `json:"vo2Max"`
	TestCooper string `json:"testCooper"` // meters

	PushUpTest string `json:"pushUpTest"`
	SitUpTest  string `json:"sitUpTest"`
	SquatTest  string `json:"squatTest"`
	PlankTest  string `json:"plankTest"`

	SitAndReach string `json:"sitAndReach"` // Wells bench, cm

	PostureHead      string `json:"postureHead"`
	PostureShoulders string `json:"postureShoulders"`
	PostureSpine     string `json:"postureSpine"`
	PostureHips      string `json:"postureHips"`
	PostureKnees     string `json:"postureKnees"`
	PostureFeet      string `json:"postureFeet"`

	Considerations string `json:"considerations"`
}
