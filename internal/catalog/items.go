package catalog

import "paggie/trainer-app/internal/domain"

var builtin = []domain.LibraryItem{
	{ID: "p1", Category: "Peito", Name: "Supino Reto (Barra)"},
	{ID: "p2", Category: "Peito", Name: "Supino Inclinado (Halter)"},
	{ID: "p3", Category: "Peito", Name: "Crucifixo Máquina"},
	{ID: "p4", Category: "Peito", Name: "Crossover Polia Alta"},
	{ID: "p5", Category: "Peito", Name: "Flexão de Braços"},
	{ID: "p6", Category: "Peito", Name: "Supino Vertical (Máquina)"},
	{ID: "p7", Category: "Peito", Name: "Peck Deck (Voador)"},
	{ID: "p8", Category: "Peito", Name: "Supino Declinado"},
	{ID: "p9", Category: "Peito", Name: "Pullover com Halter"},

	{ID: "c1", Category: "Costas", Name: "Puxada Alta (Frente)"},
	{ID: "c2", Category: "Costas", Name: "Remada Curvada (Barra)"},
	{ID: "c3", Category: "Costas", Name: "Remada Baixa (Triângulo)"},
	{ID: "c4", Category: "Costas", Name: "Pulldown Corda"},
	{ID: "c5", Category: "Costas", Name: "Barra Fixa"},
	{ID: "c6", Category: "Costas", Name: "Remada Unilateral (Serrote)"},
	{ID: "c7", Category: "Costas", Name: "Levantamento Terra"},
	{ID: "c8", Category: "Costas", Name: "Remada Cavalinho"},
	{ID: "c9", Category: "Costas", Name: "Puxada Triângulo"},

	{ID: "l1", Category: "Pernas", Name: "Agachamento Livre"},
	{ID: "l2", Category: "Pernas", Name: "Leg Press 45"},
	{ID: "l3", Category: "Pernas", Name: "Cadeira Extensora"},
	{ID: "l4", Category: "Pernas", Name: "Mesa Flexora"},
	{ID: "l5", Category: "Pernas", Name: "Stiff (Halter)"},
	{ID: "l6", Category: "Pernas", Name: "Elevação Pélvica"},
	{ID: "l7", Category: "Pernas", Name: "Afundo / Passada"},
	{ID: "l8", Category: "Pernas", Name: "Agachamento Búlgaro"},
	{ID: "l9", Category: "Pernas", Name: "Panturrilha em Pé"},
	{ID: "l10", Category: "Pernas", Name: "Panturrilha Sentado"},
	{ID: "l11", Category: "Pernas", Name: "Hack Machine"},
	{ID: "l12", Category: "Pernas", Name: "Agachamento Sumô"},

	{ID: "o1", Category: "Ombros", Name: "Desenvolvimento Militar"},
	{ID: "o2", Category: "Ombros", Name: "Elevação Lateral"},
	{ID: "o3", Category: "Ombros", Name: "Elevação Frontal"},
	{ID: "o4", Category: "Ombros", Name: "Facepull"},
	{ID: "o5", Category: "Ombros", Name: "Crucifixo Inverso"},
	{ID: "o6", Category: "Ombros", Name: "Remada Alta"},
	{ID: "o7", Category: "Ombros", Name: "Desenvolvimento Arnold"},

	{ID: "b1", Category: "Braços", Name: "Rosca Direta (Barra)"},
	{ID: "b2", Category: "Braços", Name: "Rosca Martelo"},
	{ID: "b3", Category: "Braços", Name: "Rosca Scott"},
	{ID: "b4", Category: "Braços", Name: "Tríceps Corda"},
	{ID: "b5", Category: "Braços", Name: "Tríceps Testa"},
	{ID: "b6", Category: "Braços", Name: "Tríceps Francês"},
	{ID: "b7", Category: "Braços", Name: "Mergulho (Banco/Paralela)"},
	{ID: "b8", Category: "Braços", Name: "Rosca Concentrada"},
	{ID: "b9", Category: "Braços", Name: "Tríceps Coice"},

	{ID: "a1", Category: "Abdômen", Name: "Prancha Isométrica"},
	{ID: "a2", Category: "Abdômen", Name: "Abdominal Supra"},
	{ID: "a3", Category: "Abdômen", Name: "Infra (Elevação de Pernas)"},
	{ID: "a4", Category: "Abdômen", Name: "Abdominal Remador"},
	{ID: "a5", Category: "Abdômen", Name: "Russian Twist"},
}

// Builtin returns a copy of the static catalog.
func Builtin() []domain.LibraryItem {
	out := make([]domain.LibraryItem, len(builtin))
	copy(out, builtin)
	return out
}
