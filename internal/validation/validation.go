// Package validation holds the form and upload validators. Every failure
// carries a message ready to show to the trainer.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"paggie/trainer-app/internal/domain"
)

// DefaultMaxFileSize is the upload limit when none is configured (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

// AllowedImageTypes lists the accepted photo MIME types.
var AllowedImageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern   = regexp.MustCompile(`^[\d\s()\-+]+$`)
	nonDigit       = regexp.MustCompile(`\D`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// Result is the outcome of a single validation.
type Result struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func ok() Result { return Result{Valid: true} }

func fail(format string, args ...any) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}

// Err returns the failure as an error, or nil when valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Message: r.Error}
}

// Error is a validation failure surfaced to the trainer as is.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// First returns the first failing result, or a valid one.
func First(results ...Result) Result {
	for _, r := range results {
		if !r.Valid {
			return r
		}
	}
	return ok()
}

// File describes an upload before any byte of it is read.
type File struct {
	Name        string
	ContentType string
	Size        int64
}

// FileUpload checks the type and size of an upload against maxSize.
// A non-positive maxSize falls back to DefaultMaxFileSize.
func FileUpload(f *File, maxSize int64) Result {
	if f == nil || (f.Name == "" && f.Size == 0 && f.ContentType == "") {
		return fail("Nenhum arquivo selecionado.")
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if !IsAllowedImageType(f.ContentType) {
		return fail("Tipo de arquivo não permitido. Use: %s", strings.Join(AllowedImageTypes, ", "))
	}
	if f.Size > maxSize {
		return fail("Arquivo muito grande. Tamanho máximo: %.1fMB", float64(maxSize)/(1024*1024))
	}
	return ok()
}

// IsAllowedImageType reports whether contentType is an accepted photo type.
func IsAllowedImageType(contentType string) bool {
	for _, t := range AllowedImageTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// TextLength limits text to maxLength characters.
func TextLength(text string, maxLength int, field string) Result {
	if utf8.RuneCountInString(text) > maxLength {
		return fail("%s deve ter no máximo %d caracteres.", fieldOr(field, "Campo"), maxLength)
	}
	return ok()
}

// Required rejects empty and whitespace-only values.
func Required(value string, field string) Result {
	if strings.TrimSpace(value) == "" {
		return fail("%s é obrigatório.", fieldOr(field, "Campo"))
	}
	return ok()
}

// RequiredNumber rejects an unset number. Zero is a valid value.
func RequiredNumber(value domain.Number, field string) Result {
	if !value.Valid {
		return fail("%s é obrigatório.", fieldOr(field, "Campo"))
	}
	return ok()
}

// Range bounds a numeric value. Nil bounds are open.
type Range struct {
	Min *float64
	Max *float64
}

// Between returns a closed range.
func Between(min, max float64) Range {
	return Range{Min: &min, Max: &max}
}

// NumericRange checks value against the range.
func NumericRange(value float64, r Range, field string) Result {
	field = fieldOr(field, "Campo")
	if r.Min != nil && value < *r.Min {
		return fail("%s deve ser no mínimo %s.", field, formatBound(*r.Min))
	}
	if r.Max != nil && value > *r.Max {
		return fail("%s deve ser no máximo %s.", field, formatBound(*r.Max))
	}
	return ok()
}

// Email checks the address shape.
func Email(email string) Result {
	if !emailPattern.MatchString(email) {
		return fail("E-mail inválido.")
	}
	return ok()
}

// Strength grades a password.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// PasswordResult carries strength feedback alongside validity.
type PasswordResult struct {
	Result
	Strength    Strength `json:"strength"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// Password validates length and grades strength.
func Password(password string) PasswordResult {
	if password == "" {
		return PasswordResult{Result: fail("Senha é obrigatória."), Strength: StrengthWeak}
	}
	length := utf8.RuneCountInString(password)
	if length < MinPasswordLength {
		return PasswordResult{
			Result:      fail("Senha deve ter no mínimo %d caracteres.", MinPasswordLength),
			Strength:    StrengthWeak,
			Suggestions: []string{"Use pelo menos 6 caracteres"},
		}
	}

	hasUpper := upperPattern.MatchString(password)
	hasLower := lowerPattern.MatchString(password)
	hasDigit := digitPattern.MatchString(password)
	hasSpecial := specialPattern.MatchString(password)

	strength := StrengthMedium
	if length >= 8 && hasUpper && hasLower && hasDigit && hasSpecial {
		strength = StrengthStrong
	}

	var suggestions []string
	if !hasUpper {
		suggestions = append(suggestions, "Adicione letras maiúsculas")
	}
	if !hasLower {
		suggestions = append(suggestions, "Adicione letras minúsculas")
	}
	if !hasDigit {
		suggestions = append(suggestions, "Adicione números")
	}
	if !hasSpecial && length < 8 {
		suggestions = append(suggestions, "Adicione caracteres especiais para maior segurança")
	}

	return PasswordResult{Result: ok(), Strength: strength, Suggestions: suggestions}
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04", "02/01/2006"}

// Date requires a parseable date.
func Date(value string, field string) Result {
	field = fieldOr(field, "Data")
	if strings.TrimSpace(value) == "" {
		return fail("%s é obrigatória.", field)
	}
	if _, err := ParseDate(value); err != nil {
		return fail("%s inválida.", field)
	}
	return ok()
}

// ParseDate accepts ISO dates, RFC3339 timestamps and dd/mm/yyyy.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Phone accepts Brazilian numbers with at least 10 digits.
func Phone(phone string) Result {
	if !phonePattern.MatchString(phone) || len(nonDigit.ReplaceAllString(phone, "")) < 10 {
		return fail("Telefone inválido. Use o formato: (XX) XXXXX-XXXX")
	}
	return ok()
}

// StudentName is the guard on the first step of the named intake flows.
func StudentName(name string) Result {
	return Required(name, "Nome do aluno")
}

func fieldOr(field, def string) string {
	if field == "" {
		return def
	}
	return field
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
