package report

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"paggie/trainer-app/internal/domain"
)

// Export filename prefixes per record kind.
const (
	PrefixAssessment = "Paggie_Evolucao"
	PrefixTraining   = "Paggie_Treino"
	PrefixAnamnese   = "Prontuario"
	PrefixPhysical   = "Testes_Fisicos"
)

const defaultStudentName = "Aluno"

var (
	disallowed = regexp.MustCompile(`[^A-Za-z0-9\s\-_]`)
	spaces     = regexp.MustCompile(`\s+`)
)

// Prefix returns the filename prefix of a record kind.
func Prefix(kind domain.RecordKind) string {
	switch kind {
	case domain.KindTrainingPlan:
		return PrefixTraining
	case domain.KindAnamnese:
		return PrefixAnamnese
	case domain.KindPhysicalAssessment:
		return PrefixPhysical
	}
	return PrefixAssessment
}

// SanitizeName strips diacritics and anything outside letters, digits,
// spaces, dashes and underscores, then joins the words with underscores.
func SanitizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	stripped = strings.TrimSpace(disallowed.ReplaceAllString(stripped, ""))
	return spaces.ReplaceAllString(stripped, "_")
}

// Filename builds {prefix}_{name}_{YYYY-MM-DD}.{ext}. A name that sanitizes
// to nothing becomes "Aluno".
func Filename(prefix, studentName string, date time.Time, ext string) string {
	name := SanitizeName(studentName)
	if name == "" {
		name = defaultStudentName
	}
	return prefix + "_" + name + "_" + date.Format("2006-01-02") + "." + ext
}
