package report

import (
	"strings"

	"paggie/trainer-app/internal/domain"
)

const nothingToNote = "Nada digno de nota"

// Anamnese builds the clinical record, sections I to X.
func Anamnese(a domain.Anamnese, trainer domain.TrainerProfile) Document {
	age := Placeholder
	if a.Age.Finite() {
		age = a.Age.String() + " anos"
	}
	water := Placeholder
	if strings.TrimSpace(a.WaterIntake) != "" {
		water = a.WaterIntake + " L"
	}

	doc := Document{
		Kind:        domain.KindAnamnese,
		Title:       "Prontuário",
		Trainer:     trainer.WithDefaults(),
		StudentName: a.StudentName,
		Date:        displayDate(a.Date),
		Info: []Field{
			field("Paciente", a.StudentName),
			field("Data", displayDate(a.Date)),
		},
		Sections: []Section{
			{Key: "identification", Number: "I", Title: "Identificação e Dados Gerais", Fields: []Field{
				wide(field("Nome", a.StudentName)),
				{Label: "Idade", Value: age},
				field("Gênero", a.Gender),
				field("Data Nasc.", a.BirthDate),
				field("Estado Civil", a.MaritalStatus),
				wide(field("Profissão", a.Profession)),
				wide(field("Contatos", joinNonEmpty(" | ", a.Phone, a.Email))),
				wide(field("Endereço", a.Address)),
			}},
			{Key: "complaint", Number: "II", Title: "Queixa Principal (QP)", Fields: []Field{
				wide(field("Descrição da Queixa", a.MainComplaint)),
				field("Duração", a.ComplaintDuration),
				field("Sintomas Acompanhantes", a.AssociatedSymptoms),
			}},
			{Key: "hda", Number: "III", Title: "História da Doença Atual (HDA)", Fields: []Field{
				field("Início", a.HDAOnset),
				field("Evolução", a.HDAEvolution),
				field("Fatores Melhora/Piora", a.HDAFactors),
				field("Intensidade", a.HDAIntensity),
				wide(field("Tratamentos Prévios", a.PreviousTreatments)),
			}},
			{Key: "history", Number: "IV", Title: "Antecedentes Pessoais", Fields: []Field{
				field("Doenças Crônicas", a.ChronicDiseases),
				field("Cirurgias/Internações", joinNonEmpty(" ", a.Surgeries, a.Hospitalizations)),
				field("Traumas", a.Traumas),
				field("Vacinação", a.VaccinationStatus),
				field("Alergias", a.Allergies),
			}},
			{Key: "medications", Number: "V", Title: "Medicamentos", Fields: []Field{
				field("Em uso", a.Medications),
				field("Aderência", a.Adherence),
				field("Suplementos", a.Supplements),
			}},
			{Key: "family", Number: "VI", Title: "Antecedentes Familiares", Fields: []Field{
				wide(field("Histórico Familiar Relevante", a.FamilyHistory)),
			}},
			{Key: "habits", Number: "VII", Title: "Hábitos de Vida", Fields: []Field{
				field("Tabagismo", a.Smoking),
				field("Etilismo", a.Alcohol),
				field("Outras Substâncias", a.Substances),
				field("Atividade Física", a.PhysicalActivity),
				field("Sono", a.Sleep),
				field("Estresse", a.StressLevel),
				{Label: "Água", Value: water},
				wide(field("Alimentação", a.Diet)),
			}},
			{Key: "systems", Number: "VIII", Title: "Revisão por Sistemas", Fields: []Field{
				{Label: "Geral", Value: textOr(a.SystemGeneral, nothingToNote)},
				{Label: "Respiratório", Value: textOr(a.SystemRespiratory, nothingToNote)},
				{Label: "Cardiovascular", Value: textOr(a.SystemCardiovascular, nothingToNote)},
				{Label: "Gastrointestinal", Value: textOr(a.SystemGastro, nothingToNote)},
				{Label: "Neurológico", Value: textOr(a.SystemNeuro, nothingToNote)},
				{Label: "Psíquico", Value: textOr(a.SystemPsych, nothingToNote)},
			}},
			{Key: "exam", Number: "IX", Title: "Exame Físico Básico", Fields: []Field{
				field("PA (mmHg)", a.BP),
				field("FC (bpm)", a.HR),
				field("FR (irpm)", a.RespRate),
				field("Temp. (°C)", a.Temp),
				field("Peso (kg)", a.Weight),
				field("Altura (m)", a.Height),
				field("IMC", a.BMI),
				field("Circ. Abdominal (cm)", a.WaistCirc),
				wide(field("Inspeção Geral", a.GeneralInspection)),
			}},
			{Key: "conduct", Number: "X", Title: "Considerações e Conduta", Fields: []Field{
				wide(field("Hipóteses Diagnósticas", a.DiagnosisHypothesis)),
				wide(field("Conduta Terapêutica (Plano)", a.TherapeuticPlan)),
				wide(field("Exames Solicitados", a.RequestedExams)),
				field("Próxima Consulta", a.NextVisit),
			}},
		},
	}
	return doc
}

// PhysicalAssessment builds the physical test battery report.
func PhysicalAssessment(p domain.PhysicalAssessment, trainer domain.TrainerProfile) Document {
	age := Placeholder
	if p.Age.Finite() {
		age = p.Age.String() + " anos"
	}
	doc := Document{
		Kind:        domain.KindPhysicalAssessment,
		Title:       "Testes Físicos",
		Trainer:     trainer.WithDefaults(),
		StudentName: p.StudentName,
		Date:        displayDate(p.Date),
		Info: []Field{
			field("Aluno", p.StudentName),
			{Label: "Idade", Value: age},
			field("Gênero", p.Gender),
		},
		Sections: []Section{
			{Key: "cardio", Title: "Capacidade Cardiorrespiratória", Fields: []Field{
				unitField("VO2 Máx", p.VO2Max, "ml/kg/min"),
				unitField("Teste de Cooper", p.TestCooper, "m"),
				unitField("FC Repouso", p.RestingHR, "bpm"),
			}},
			{Key: "strength", Title: "Resistência Muscular e Flexibilidade", Fields: []Field{
				unitField("Flexão de Braço", p.PushUpTest, "reps"),
				unitField("Abdominal Remador", p.SitUpTest, "reps"),
				unitField("Agachamento Livre", p.SquatTest, "reps"),
				unitField("Prancha Isométrica", p.PlankTest, "tempo"),
				unitField("Flexibilidade (Banco de Wells)", p.SitAndReach, "cm"),
			}},
			{Key: "posture", Title: "Análise Postural Estática", Fields: []Field{
				field("Cabeça / Cervical", p.PostureHead),
				field("Ombros / Escápulas", p.PostureShoulders),
				field("Coluna Vertebral", p.PostureSpine),
				field("Pelve / Quadril", p.PostureHips),
				field("Joelhos", p.PostureKnees),
				field("Pés / Tornozelos", p.PostureFeet),
			}},
		},
	}
	if strings.TrimSpace(p.Considerations) != "" {
		doc.Sections = append(doc.Sections, Section{Key: "considerations", Title: "Parecer Técnico", Quote: p.Considerations})
	}
	return doc
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, sep)
}
