// Package comparison computes before/after deltas for paired measurements.
package comparison

import (
	"math"
	"strconv"

	"paggie/trainer-app/internal/domain"
)

// Placeholder is rendered wherever a value or delta cannot be computed.
const Placeholder = "—"

// zeroThreshold is the smallest absolute delta treated as a change.
const zeroThreshold = 0.01

// Polarity tells whether an increase is an improvement.
type Polarity int

const (
	Direct  Polarity = iota // increase is good
	Inverse                 // decrease is good
)

// Tone is the display classification of a delta.
type Tone string

const (
	Neutral Tone = "neutral"
	Emerald Tone = "emerald" // improvement
	Rose    Tone = "rose"    // regression
)

// Delta is a formatted difference between two measurements.
type Delta struct {
	Text  string  `json:"text"`
	Tone  Tone    `json:"tone"`
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

var placeholderDelta = Delta{Text: Placeholder, Tone: Neutral}

// Compute returns v2-v1 formatted with a sign and one decimal.
// Unset or non-finite inputs yield the placeholder; changes under 0.01 are
// rendered as "0.0" and are always neutral.
func Compute(v1, v2 domain.Number, p Polarity) Delta {
	if !v1.Finite() || !v2.Finite() {
		return placeholderDelta
	}
	d := v2.Value - v1.Value
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return placeholderDelta
	}
	if math.Abs(d) < zeroThreshold {
		return Delta{Text: "0.0", Tone: Neutral, Valid: true}
	}
	text := strconv.FormatFloat(d, 'f', 1, 64)
	if d > 0 {
		text = "+" + text
	}
	improved := d > 0
	if p == Inverse {
		improved = !improved
	}
	tone := Rose
	if improved {
		tone = Emerald
	}
	return Delta{Text: text, Tone: tone, Value: d, Valid: true}
}

// CompareWithBaseline is Compute with the missing-baseline rule: an unset or
// zero initial value suppresses the delta.
func CompareWithBaseline(initial, current domain.Number, p Polarity) Delta {
	if initial.IsZeroOrUnset() {
		return placeholderDelta
	}
	return Compute(initial, current, p)
}

// Composition is the fat/lean split of a body weight.
type Composition struct {
	FatMass  domain.Number `json:"fatMass"`
	LeanMass domain.Number `json:"leanMass"`
}

// Split derives fat and lean mass in kg, rounded to one decimal.
// Unset inputs give unset outputs.
func Split(weight, bodyFat domain.Number) Composition {
	if !weight.Finite() || !bodyFat.Finite() {
		return Composition{}
	}
	fat := weight.Value * bodyFat.Value / 100
	lean := weight.Value - fat
	if math.IsNaN(fat) || math.IsInf(fat, 0) || math.IsNaN(lean) || math.IsInf(lean, 0) {
		return Composition{}
	}
	return Composition{FatMass: domain.Num(round1(fat)), LeanMass: domain.Num(round1(lean))}
}

// FormatValue renders a measurement with one decimal, or the placeholder.
func FormatValue(n domain.Number) string {
	if !n.Finite() {
		return Placeholder
	}
	return strconv.FormatFloat(n.Value, 'f', 1, 64)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
