package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric form field. An unset Number is distinct from zero,
// which is a legitimate measurement.
type Number struct {
	Value float64
	Valid bool
}

// Num returns a set Number.
func Num(v float64) Number {
	return Number{Value: v, Valid: true}
}

// Finite reports whether the number is set and neither NaN nor infinite.
func (n Number) Finite() bool {
	return n.Valid && !math.IsNaN(n.Value) && !math.IsInf(n.Value, 0)
}

// IsZeroOrUnset reports whether the value cannot serve as a comparison baseline.
func (n Number) IsZeroOrUnset() bool {
	return !n.Finite() || n.Value == 0
}

// Or returns the value, or def when the number is unset.
func (n Number) Or(def float64) float64 {
	if !n.Finite() {
		return def
	}
	return n.Value
}

func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// Fixed formats the number with the given decimals, or "" when unset.
func (n Number) Fixed(decimals int) string {
	if !n.Finite() {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', decimals, 64)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Finite() {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts numbers, numeric strings (comma decimal separator
// allowed), null and the empty string. The latter two leave the number unset.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseNumber(s)
		if err != nil {
			return err
		}
		*n = parsed
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("invalid number %s: %w", string(b), err)
	}
	*n = Num(v)
	return nil
}

// ParseNumber parses form input. Blank input yields an unset number.
func ParseNumber(s string) (Number, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return Number{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Num(v), nil
}
