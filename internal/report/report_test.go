package report

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paggie/trainer-app/internal/comparison"
	"paggie/trainer-app/internal/domain"
)

var trainer = domain.TrainerProfile{Name: "Paula Souza"}

func sampleAssessment() domain.Assessment {
	return domain.Assessment{
		StudentName:   "João Silva",
		Goal:          "Hipertrofia",
		Date:          "2024-03-15",
		Commitment:    domain.CommitmentGood,
		AdherenceRate: domain.Num(85),
		Initial:       domain.BodyMetrics{Weight: domain.Num(80), BodyFat: domain.Num(20), Waist: domain.Num(90)},
		Current:       domain.BodyMetrics{Weight: domain.Num(75), BodyFat: domain.Num(20), Waist: domain.Num(86)},
	}
}

func TestAssessment_Sections(t *testing.T) {
	doc := Assessment(sampleAssessment(), &domain.AIAnalysisResult{
		AnalysisText: "Ótima <b>evolução</b>.<br>Continue.",
		Conclusion:   "Bom trabalho.",
	}, trainer)

	assert.Equal(t, "15/03/2024", doc.Date)
	assert.Equal(t, domain.DefaultPrimaryColor, doc.Trainer.PrimaryColor)

	_, hasPhotos := doc.Section(SectionPhotos)
	assert.False(t, hasPhotos)

	comp, ok := doc.Section(SectionComposition)
	require.True(t, ok)
	require.Len(t, comp.Comparison, 2)
	lean := comp.Comparison[1]
	assert.Equal(t, "M. Magra (kg)", lean.Label)
	assert.Equal(t, "64.0", lean.Initial)
	assert.Equal(t, "60.0", lean.Current)
	assert.Equal(t, "-4.0", lean.Delta.Text)
	assert.Equal(t, comparison.Rose, lean.Delta.Tone)

	per, ok := doc.Section(SectionPerimeters)
	require.True(t, ok)
	for _, r := range per.Comparison {
		if r.Key == "waist" {
			assert.Equal(t, "-4.0", r.Delta.Text)
			assert.Equal(t, comparison.Emerald, r.Delta.Tone)
		}
		if r.Key == "chest" {
			assert.Equal(t, Placeholder, r.Initial)
			assert.Equal(t, Placeholder, r.Delta.Text)
		}
	}

	ind, _ := doc.Section(SectionIndicators)
	require.NotNil(t, ind.Fields[2].Delta)
	assert.Equal(t, "-5.0", ind.Fields[2].Delta.Text)
	assert.Equal(t, Placeholder, ind.Fields[1].Value)

	an, _ := doc.Section(SectionAnalysis)
	assert.Equal(t, []Token{
		{Kind: TokenText, Text: "Ótima "},
		{Kind: TokenBold, Text: "evolução"},
		{Kind: TokenText, Text: "."},
		{Kind: TokenBreak},
		{Kind: TokenText, Text: "Continue."},
	}, an.Narrative)

	concl, _ := doc.Section(SectionConclusion)
	assert.Equal(t, "Bom trabalho.", concl.Quote)
	assert.Equal(t, "Consistência", concl.Fields[0].Value)
	assert.Equal(t, "Manter rotina", concl.Fields[1].Value)
}

func TestAssessment_PhotosAndManualText(t *testing.T) {
	a := sampleAssessment()
	a.Photos.SideAfter = "data:image/jpeg;base64,AAAA"
	a.ManualTechnicalAnalysis = "Texto manual"
	a.NextGoal = "Reduzir gordura"

	doc := Assessment(a, nil, trainer)
	photos, ok := doc.Section(SectionPhotos)
	require.True(t, ok)
	require.Len(t, photos.Photos, 3)
	assert.Equal(t, "Lateral", photos.Photos[1].Title)
	assert.Equal(t, a.Photos.SideAfter, photos.Photos[1].After)

	an, _ := doc.Section(SectionAnalysis)
	assert.Equal(t, "Texto manual", PlainText(an.Narrative))

	concl, _ := doc.Section(SectionConclusion)
	assert.Equal(t, Placeholder, concl.Quote)
	assert.Equal(t, "Reduzir gordura", concl.Fields[0].Value)
}

func TestTrainingPlan(t *testing.T) {
	plan := domain.TrainingPlan{
		StudentName:   "Ana",
		Goal:          "Força",
		StartDate:     "2024-04-01",
		DurationWeeks: domain.Num(6),
		SplitType:     "AB",
		Workouts: []domain.WorkoutSession{
			{ID: "w1", Letter: "A", Name: "Superiores", Days: []string{"Seg", "Qui"}, Exercises: []domain.Exercise{
				{ID: "e1", Name: "Supino", Sets: "4", Reps: "8", Rest: "90s"},
			}},
			{ID: "w2", Letter: "B", Exercises: []domain.Exercise{{ID: "e2"}}},
		},
	}
	doc := TrainingPlan(plan, trainer)

	_, hasRecs := doc.Section(SectionRecommendations)
	assert.False(t, hasRecs)
	assert.Equal(t, "AB • 6 Semanas", doc.Info[3].Value)
	require.Len(t, doc.Sections, 2)

	a := doc.Sections[0]
	assert.Equal(t, "Superiores", a.Title)
	assert.Equal(t, "Seg • Qui", a.Fields[0].Value)
	assert.Equal(t, []string{"Supino", "4", "8", "90s", Placeholder}, a.Table.Rows[0])

	b := doc.Sections[1]
	assert.Equal(t, "Treino B", b.Title)
	assert.Equal(t, "Dias flexíveis", b.Fields[0].Value)
	assert.Equal(t, []string{Placeholder, Placeholder, Placeholder, Placeholder, Placeholder}, b.Table.Rows[0])
}

func TestAnamnese(t *testing.T) {
	doc := Anamnese(domain.Anamnese{StudentName: "Bruno", Age: domain.Num(34), Phone: "11 99999-0000", WaterIntake: "2"}, trainer)
	require.Len(t, doc.Sections, 10)
	assert.Equal(t, "I", doc.Sections[0].Number)
	assert.Equal(t, "X", doc.Sections[9].Number)

	id := doc.Sections[0].Fields
	assert.Equal(t, "34 anos", id[1].Value)
	assert.Equal(t, Placeholder, id[2].Value)
	assert.Equal(t, "11 99999-0000", id[6].Value)

	systems, _ := doc.Section("systems")
	assert.Equal(t, "Nada digno de nota", systems.Fields[0].Value)
	habits, _ := doc.Section("habits")
	assert.Equal(t, "2 L", habits.Fields[6].Value)
}

func TestPhysicalAssessment(t *testing.T) {
	doc := PhysicalAssessment(domain.PhysicalAssessment{StudentName: "Carla", TestCooper: "2400", Considerations: "Apta."}, trainer)
	cardio, ok := doc.Section("cardio")
	require.True(t, ok)
	assert.Equal(t, Field{Label: "Teste de Cooper", Value: "2400", Unit: "m"}, cardio.Fields[1])
	assert.Equal(t, Field{Label: "VO2 Máx", Value: Placeholder}, cardio.Fields[0])

	cons, ok := doc.Section("considerations")
	require.True(t, ok)
	assert.Equal(t, "Apta.", cons.Quote)

	_, ok = PhysicalAssessment(domain.PhysicalAssessment{}, trainer).Section("considerations")
	assert.False(t, ok)
}

func TestParseNarrative(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Token
	}{
		{"empty", "", nil},
		{"plain", "texto", []Token{{Kind: TokenText, Text: "texto"}}},
		{"newline", "a\nb", []Token{{Kind: TokenText, Text: "a"}, {Kind: TokenBreak}, {Kind: TokenText, Text: "b"}}},
		{"self closing br", "a<br/>b", []Token{{Kind: TokenText, Text: "a"}, {Kind: TokenBreak}, {Kind: TokenText, Text: "b"}}},
		{"strong", "<strong>x</strong>", []Token{{Kind: TokenBold, Text: "x"}}},
		{"other tags dropped", `<i>a</i><a href="x">b</a>`, []Token{{Kind: TokenText, Text: "ab"}}},
		{"script dropped", `a<script>alert(1)</script>b`, []Token{{Kind: TokenText, Text: "ab"}}},
		{"entities decoded", "a &amp; b", []Token{{Kind: TokenText, Text: "a & b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNarrative(tt.in))
		})
	}
}

func TestRender(t *testing.T) {
	a := sampleAssessment()
	a.Photos.FrontBefore = "data:image/jpeg;base64,AAAA"
	doc := Assessment(a, &domain.AIAnalysisResult{
		AnalysisText: `<b>Foco</b><script>alert(1)</script><img src=x onerror=alert(1)>`,
		Conclusion:   "ok",
	}, domain.TrainerProfile{Name: "Paula", PrimaryColor: "red;}</style><script>"})

	out, err := RenderString(doc)
	require.NoError(t, err)

	page, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	root := page.Find("#" + ElementID)
	require.Equal(t, 1, root.Length())
	assert.Equal(t, 0, root.Find("script").Length())
	assert.Equal(t, "Foco", root.Find(".narrative b").Text())
	assert.Equal(t, 1, root.Find("#section-photos").Length())
	src, _ := root.Find("#section-photos img").Attr("src")
	assert.Equal(t, a.Photos.FrontBefore, src)
	assert.Contains(t, out, "--primary: "+domain.DefaultPrimaryColor)
	assert.Contains(t, root.Find("header h1").Text(), "Paula")
}

func TestFilename(t *testing.T) {
	day := time.Date(2024, 5, 2, 23, 0, 0, 0, time.UTC)
	tests := []struct {
		prefix string
		name   string
		want   string
	}{
		{PrefixAssessment, "João da Silva", "Paggie_Evolucao_Joao_da_Silva_2024-05-02.pdf"},
		{PrefixTraining, "  Ana   Clara  ", "Paggie_Treino_Ana_Clara_2024-05-02.pdf"},
		{PrefixAnamnese, "", "Prontuario_Aluno_2024-05-02.pdf"},
		{PrefixPhysical, "Zoë O'Neil-Smith!", "Testes_Fisicos_Zoe_ONeil-Smith_2024-05-02.pdf"},
		{PrefixAssessment, "@@@", "Paggie_Evolucao_Aluno_2024-05-02.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.prefix, tt.name, day, "pdf"))
		})
	}
	assert.Equal(t, PrefixPhysical, Prefix(domain.KindPhysicalAssessment))
	assert.Equal(t, PrefixAssessment, Prefix(domain.KindAssessment))
}
