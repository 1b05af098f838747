// Package report turns completed records into printable documents.
// Building a document is a pure transform; rendering produces the HTML view
// that the export pipeline rasterizes.
package report

import (
	"strings"

	"paggie/trainer-app/internal/comparison"
	"paggie/trainer-app/internal/domain"
)

// Placeholder is shown for empty fields.
const Placeholder = comparison.Placeholder

// ElementID is the id of the root element every view renders.
const ElementID = "report-content"

// Field is a labelled value.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
	// Delta, when set, is shown next to the value.
	Delta *comparison.Delta `json:"delta,omitempty"`
	// Wide fields span the whole row.
	Wide bool `json:"wide,omitempty"`
}

// Table is a plain grid of text cells.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Bar is one before/after pair of a bar chart.
type Bar struct {
	Name   string  `json:"name"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

// PhotoPair is one view of the before/after photo grid.
type PhotoPair struct {
	Title  string `json:"title"`
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// Section mirrors one field group of the form it was built from.
// Only the parts relevant to the section are set.
type Section struct {
	Key        string           `json:"key"`
	Number     string           `json:"number,omitempty"`
	Title      string           `json:"title"`
	Fields     []Field          `json:"fields,omitempty"`
	Comparison []comparison.Row `json:"comparison,omitempty"`
	Bars       []Bar            `json:"bars,omitempty"`
	Table      *Table           `json:"table,omitempty"`
	Photos     []PhotoPair      `json:"photos,omitempty"`
	Narrative  []Token          `json:"narrative,omitempty"`
	Quote      string           `json:"quote,omitempty"`
}

// Document is a complete report ready to render.
type Document struct {
	Kind        domain.RecordKind     `json:"kind"`
	Title       string                `json:"title"`
	Trainer     domain.TrainerProfile `json:"trainer"`
	StudentName string                `json:"studentName"`
	Date        string                `json:"date"`
	Info        []Field               `json:"info"`
	Sections    []Section             `json:"sections"`
}

// Section returns the section with key, if present.
func (d Document) Section(key string) (Section, bool) {
	for _, s := range d.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

// text renders s, or the placeholder when blank.
func text(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// textOr renders s, or def when blank.
func textOr(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// number renders n without trailing zeros, or the placeholder when unset.
func number(n domain.Number) string {
	if !n.Finite() {
		return Placeholder
	}
	return n.String()
}

func field(label, value string) Field {
	return Field{Label: label, Value: text(value)}
}

func unitField(label, value, unit string) Field {
	f := field(label, value)
	if f.Value != Placeholder {
		f.Unit = unit
	}
	return f
}

func wide(f Field) Field {
	f.Wide = true
	return f
}
