package comparison

import (
	"paggie/trainer-app/internal/domain"
)

// Field describes one measurement of a paired set.
type Field struct {
	Key      string
	Label    string
	Unit     string
	Polarity Polarity
	get      func(domain.BodyMetrics) domain.Number
}

// TestField describes one test of the paired performance battery.
type TestField struct {
	Key      string
	Label    string
	Unit     string
	Polarity Polarity
	get      func(domain.PhysicalTests) domain.Number
}

// Row is one line of a before/after comparison table.
type Row struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Unit    string `json:"unit,omitempty"`
	Initial string `json:"initial"`
	Current string `json:"current"`
	Delta   Delta  `json:"delta"`
}

// PerimeterFields are the circumference rows shown on the report.
var PerimeterFields = []Field{
	{Key: "chest", Label: "Peitoral", Unit: "cm", get: func(m domain.BodyMetrics) domain.Number { return m.Chest }},
	{Key: "armRight", Label: "Braço Dir.", Unit: "cm", get: func(m domain.BodyMetrics) domain.Number { return m.ArmRight }},
	{Key: "armLeft", Label: "Braço Esq.", Unit: "cm", get: func(m domain.BodyMetrics) domain.Number { return m.ArmLeft }},
	{Key: "waist", Label: "Cintura", Unit: "cm", Polarity: Inverse, get: func(m domain.BodyMetrics) domain.Number { return m.Waist }},
	{Key: "abdomen", Label: "Abdômen", Unit: "cm", Polarity: Inverse, get: func(m domain.BodyMetrics) domain.Number { return m.Abdomen }},
	{Key: "hips", Label: "Quadril", Unit: "cm", get: func(m domain.BodyMetrics) domain.Number { return m.Hips }},
	{Key: "thighRight", Label: "Coxa Dir.", Unit: "cm", get: func(m domain.BodyMetrics) domain.Number { return m.ThighRight }},
	{Key: "thighLeft", Label: "Coxa Esq.", Unit: "cm", get: func(m domain.BodyMetrics) domain.Number { return m.ThighLeft }},
	{Key: "calfRight", Label: "Panturrilha", Unit: "cm", get: func(m domain.BodyMetrics) domain.Number { return m.CalfRight }},
}

// ExtraPerimeterFields are captured by the form but not tabulated by default.
var ExtraPerimeterFields = []Field{
	{Key: "neck", Label: "Pescoço", Unit: "cm", get: func(m domain.BodyMetrics) domain.Number { return m.Neck }},
	{Key: "shoulders", Label: "Ombros", Unit: "cm", get: func(m domain.BodyMetrics) domain.Number { return m.Shoulders }},
	{Key: "forearmRight", Label: "Antebraço Dir.", Unit: "cm", get: func(m domain.BodyMetrics) domain.Number { return m.ForearmRight }},
	{Key: "forearmLeft", Label: "Antebraço Esq.", Unit: "cm", get: func(m domain.BodyMetrics) domain.Number { return m.ForearmLeft }},
	{Key: "calfLeft", Label: "Panturrilha Esq.", Unit: "cm", get: func(m domain.BodyMetrics) domain.Number { return m.CalfLeft }},
}

// WeightField is body weight, a direct-polarity metric.
var WeightField = Field{Key: "weight", Label: "Peso (kg)", Unit: "kg", get: func(m domain.BodyMetrics) domain.Number { return m.Weight }}

// BodyFatField is body-fat percent, an inverse metric.
var BodyFatField = Field{Key: "bodyFat", Label: "Gordura (%)", Unit: "%", Polarity: Inverse, get: func(m domain.BodyMetrics) domain.Number { return m.BodyFat }}

// PerformanceFields are the strength/endurance rows shown on the report.
var PerformanceFields = []TestField{
	{Key: "pushups", Label: "Flexões", Unit: "reps", get: func(t domain.PhysicalTests) domain.Number { return t.Pushups }},
	{Key: "squats", Label: "Agacham.", Unit: "reps", get: func(t domain.PhysicalTests) domain.Number { return t.Squats }},
	{Key: "plank", Label: "Prancha", Unit: "s", get: func(t domain.PhysicalTests) domain.Number { return t.Plank }},
}

// ExtraTestFields are the remaining tests of the battery.
var ExtraTestFields = []TestField{
	{Key: "pullups", Label: "Barra Fixa", Unit: "reps", get: func(t domain.PhysicalTests) domain.Number { return t.Pullups }},
	{Key: "restingHR", Label: "FC Repouso", Unit: "bpm", Polarity: Inverse, get: func(t domain.PhysicalTests) domain.Number { return t.RestingHR }},
	{Key: "run12min", Label: "Corrida 12min", Unit: "m", get: func(t domain.PhysicalTests) domain.Number { return t.Run12Min }},
}

// Value reads the field from one side of the set.
func (f Field) Value(m domain.BodyMetrics) domain.Number { return f.get(m) }

// Value reads the test from one side of the battery.
func (f TestField) Value(t domain.PhysicalTests) domain.Number { return f.get(t) }

// Row builds the comparison row for the field, honoring the baseline rule.
func (f Field) Row(initial, current domain.BodyMetrics) Row {
	return newRow(f.Key, f.Label, f.Unit, f.get(initial), f.get(current), f.Polarity)
}

// Row builds the comparison row for the test, honoring the baseline rule.
func (f TestField) Row(initial, current domain.PhysicalTests) Row {
	return newRow(f.Key, f.Label, f.Unit, f.get(initial), f.get(current), f.Polarity)
}

func newRow(key, label, unit string, v1, v2 domain.Number, p Polarity) Row {
	return Row{
		Key:     key,
		Label:   label,
		Unit:    unit,
		Initial: FormatValue(v1),
		Current: FormatValue(v2),
		Delta:   CompareWithBaseline(v1, v2, p),
	}
}

// CompositionRows compares body-fat percent and lean mass. Lean mass is a
// direct metric, so losing it is flagged as a regression.
func CompositionRows(initial, current domain.BodyMetrics) []Row {
	ci := Split(initial.Weight, initial.BodyFat)
	cc := Split(current.Weight, current.BodyFat)
	return []Row{
		BodyFatField.Row(initial, current),
		newRow("leanMass", "M. Magra (kg)", "kg", ci.LeanMass, cc.LeanMass, Direct),
	}
}

// FatMassRow compares fat mass in kg, an inverse metric.
func FatMassRow(initial, current domain.BodyMetrics) Row {
	ci := Split(initial.Weight, initial.BodyFat)
	cc := Split(current.Weight, current.BodyFat)
	return newRow("fatMass", "Gordura (kg)", "kg", ci.FatMass, cc.FatMass, Inverse)
}

// PerimeterRows compares the tabulated circumferences.
func PerimeterRows(initial, current domain.BodyMetrics) []Row {
	rows := make([]Row, 0, len(PerimeterFields))
	for _, f := range PerimeterFields {
		rows = append(rows, f.Row(initial, current))
	}
	return rows
}

// PerformanceRows compares the tabulated performance tests.
func PerformanceRows(initial, current domain.PhysicalTests) []Row {
	rows := make([]Row, 0, len(PerformanceFields))
	for _, f := range PerformanceFields {
		rows = append(rows, f.Row(initial, current))
	}
	return rows
}
