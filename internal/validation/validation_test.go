package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"paggie/trainer-app/internal/domain"
)

func TestFileUpload(t *testing.T) {
	tests := []struct {
		name    string
		file    *File
		maxSize int64
		wantErr string
	}{
		{"no file", nil, 0, "Nenhum arquivo selecionado."},
		{"wrong type", &File{Name: "a.pdf", ContentType: "application/pdf", Size: 10}, 0,
			"Tipo de arquivo não permitido. Use: image/jpeg, image/jpg, image/png, image/gif, image/webp"},
		{"too big", &File{Name: "a.png", ContentType: "image/png", Size: DefaultMaxFileSize + 1}, 0,
			"Arquivo muito grande. Tamanho máximo: 5.0MB"},
		{"custom limit", &File{Name: "a.png", ContentType: "image/png", Size: 2 * 1024 * 1024}, 1024 * 1024,
			"Arquivo muito grande. Tamanho máximo: 1.0MB"},
		{"ok", &File{Name: "a.webp", ContentType: "image/webp", Size: 1024}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FileUpload(tt.file, tt.maxSize)
			assert.Equal(t, tt.wantErr == "", r.Valid)
			assert.Equal(t, tt.wantErr, r.Error)
		})
	}
}

func TestTextAndRequired(t *testing.T) {
	assert.Equal(t, "Observações deve ter no máximo 3 caracteres.", TextLength("abcd", 3, "Observações").Error)
	assert.True(t, TextLength("ção", 3, "x").Valid)
	assert.Equal(t, "Campo é obrigatório.", Required("   ", "").Error)
	assert.True(t, Required("Ana", "Nome").Valid)
	assert.True(t, RequiredNumber(domain.Num(0), "Peso").Valid)
	assert.Equal(t, "Peso é obrigatório.", RequiredNumber(domain.Number{}, "Peso").Error)
}

func TestNumericRange(t *testing.T) {
	r := Between(0, 100)
	assert.Equal(t, "Adesão deve ser no mínimo 0.", NumericRange(-1, r, "Adesão").Error)
	assert.Equal(t, "Adesão deve ser no máximo 100.", NumericRange(100.5, r, "Adesão").Error)
	assert.True(t, NumericRange(50, r, "Adesão").Valid)
	assert.True(t, NumericRange(1e9, Range{}, "x").Valid)
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("ana@paggie.com").Valid)
	assert.Equal(t, "E-mail inválido.", Email("ana@paggie").Error)
	assert.False(t, Email("ana @x.com").Valid)
}

func TestPassword(t *testing.T) {
	r := Password("")
	assert.False(t, r.Valid)
	assert.Equal(t, "Senha é obrigatória.", r.Error)

	r = Password("abc")
	assert.False(t, r.Valid)
	assert.Equal(t, "Senha deve ter no mínimo 6 caracteres.", r.Error)
	assert.Equal(t, StrengthWeak, r.Strength)

	r = Password("abcdef")
	assert.True(t, r.Valid)
	assert.Equal(t, StrengthMedium, r.Strength)
	assert.Equal(t, []string{
		"Adicione letras maiúsculas",
		"Adicione números",
		"Adicione caracteres especiais para maior segurança",
	}, r.Suggestions)

	r = Password("Abcdefg1")
	assert.Equal(t, StrengthMedium, r.Strength)
	assert.Empty(t, r.Suggestions)

	r = Password("Abcdefg1!")
	assert.Equal(t, StrengthStrong, r.Strength)
}

func TestDateAndPhone(t *testing.T) {
	assert.Equal(t, "Data é obrigatória.", Date("", "").Error)
	assert.Equal(t, "Nascimento inválida.", Date("31-31-2020", "Nascimento").Error)
	assert.True(t, Date("2024-05-01", "").Valid)
	assert.True(t, Date("01/05/2024", "").Valid)

	assert.True(t, Phone("(11) 98765-4321").Valid)
	assert.False(t, Phone("(11) 9876").Valid)
	assert.Equal(t, "Telefone inválido. Use o formato: (XX) XXXXX-XXXX", Phone("11a9876543210").Error)
}

func TestFirstAndErr(t *testing.T) {
	r := First(Required("x", "A"), Email("bad"), Phone("1"))
	assert.Equal(t, "E-mail inválido.", r.Error)
	assert.EqualError(t, r.Err(), "E-mail inválido.")
	assert.NoError(t, First().Err())
}
