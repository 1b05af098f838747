package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
	"github.com/sirupsen/logrus"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/instrumentation"
)

// Fallback texts used when the reply lacks a field or is not JSON.
const (
	DefaultAnalysisText = "Análise gerada."
	DefaultConclusion   = "Continue focado."
	RawTextConclusion   = "Foco nos resultados."
)

const assessmentSystemPrompt = "Você é um assistente JSON que gera análises de fitness. Responda APENAS com JSON válido."

const pendingAnalysis = "Análise técnica pendente. Dados insuficientes para geração automática.<br><br>" +
	"Por favor, configure <b>AI_API_KEY</b> para ativar a Inteligência Artificial."

var errEmptyReply = errors.New("empty completion content")

// GenerateAssessmentReport writes the technical analysis and the closing
// sentence of an assessment report. Without a key, or on any API failure,
// the result is built from the trainer's own notes.
func (c *Client) GenerateAssessmentReport(ctx context.Context, a domain.Assessment) domain.AIAnalysisResult {
	if !c.Enabled() {
		c.record(operationAssessment, instrumentation.OutcomeFallback)
		return ManualFallback(a)
	}

	content, err := c.complete(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(assessmentSystemPrompt),
			openai.UserMessage(AssessmentPrompt(a)),
		},
		Temperature: openai.Float(0.5),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err == nil && strings.TrimSpace(content) == "" {
		err = errEmptyReply
	}
	if err != nil {
		logrus.WithField("student", a.StudentName).Errorf("failed to generate assessment analysis: %v", err)
		c.record(operationAssessment, outcomeOf(err))
		return ManualFallback(a)
	}

	c.record(operationAssessment, instrumentation.OutcomeOK)
	return ParseAnalysis(content)
}

// ParseAnalysis reads a completion reply: plain JSON first, then JSON
// wrapped in markdown fences, and finally the raw text itself.
func ParseAnalysis(content string) domain.AIAnalysisResult {
	var reply struct {
		AnalysisText string `json:"analysisText"`
		Conclusion   string `json:"conclusion"`
	}
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		if err := json.Unmarshal([]byte(stripFences(content)), &reply); err != nil {
			logrus.Warn("AI reply is not JSON, using raw text")
			return domain.AIAnalysisResult{
				AnalysisText: content,
				Conclusion:   RawTextConclusion,
			}
		}
	}

	result := domain.AIAnalysisResult{
		AnalysisText: reply.AnalysisText,
		Conclusion:   reply.Conclusion,
	}
	if result.AnalysisText == "" {
		result.AnalysisText = DefaultAnalysisText
	}
	if result.Conclusion == "" {
		result.Conclusion = DefaultConclusion
	}
	return result
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ManualFallback builds a result from the trainer's notes only.
func ManualFallback(a domain.Assessment) domain.AIAnalysisResult {
	analysis := pendingAnalysis
	if a.ManualTechnicalAnalysis != "" {
		analysis = strings.ReplaceAll(a.ManualTechnicalAnalysis, "\n", "<br>")
	}

	conclusion := a.ManualConclusion
	if conclusion == "" {
		focus := a.NextGoal
		if focus == "" {
			focus = "Consistência"
		}
		conclusion = fmt.Sprintf("Adesão: %s%%. Foco: %s.", formatNumber(a.AdherenceRate), focus)
	}

	return domain.AIAnalysisResult{
		AnalysisText: analysis,
		Conclusion:   conclusion,
	}
}

func formatNumber(n domain.Number) string {
	return strconv.FormatFloat(n.Or(0), 'f', -1, 64)
}

// AssessmentPrompt is the quality-control prompt sent with an assessment.
func AssessmentPrompt(a domain.Assessment) string {
	var b strings.Builder
	b.WriteString(`ATENÇÃO: VOCÊ AGORA É UM "CONTROLADOR DE QUALIDADE DE IA ESPECIALISTA EM FITNESS".

SUA MISSÃO:
Analisar os dados de entrada, detectar inconsistências e gerar um relatório técnico perfeito, honesto e motivador.
Você NÃO deve apenas descrever os dados, deve INTERPRETAR a realidade fisiológica por trás deles.

`)
	fmt.Fprintf(&b, "1. DADOS DE ENTRADA:\nNome: %s\nObjetivo: %s\nAdesão Declarada: %s%%\n\n",
		a.StudentName, a.Goal, formatNumber(a.AdherenceRate))
	fmt.Fprintf(&b, "2. MÉTRICAS (Início -> Atual):\n")
	fmt.Fprintf(&b, "- Peso Corporal: %.1fkg -> %.1fkg\n", a.Initial.Weight.Or(0), a.Current.Weight.Or(0))
	fmt.Fprintf(&b, "- %% Gordura: %.1f%% -> %.1f%%\n", a.Initial.BodyFat.Or(0), a.Current.BodyFat.Or(0))
	fmt.Fprintf(&b, "- Cintura: %.1fcm -> %.1fcm\n\n", a.Initial.Waist.Or(0), a.Current.Waist.Or(0))
	fmt.Fprintf(&b, "3. CONTEXTO DO TREINADOR:\n%q\n\n", a.ManualTechnicalAnalysis)
	b.WriteString(`4. PROTOCOLO DE VALIDAÇÃO (QC):
[CRÍTICO] CHECAGEM DE DADOS ZERADOS:
- Se (Peso Inicial == 0 OR Gordura Inicial == 0), você ESTÁ PROIBIDO de calcular "perda" ou "ganho".
- Neste caso, escreva: "Ainda não possuímos dados iniciais suficientes para um comparativo detalhado de composição corporal, mas [fale sobre a adesão ou o peso atual]."

[CRÍTICO] CHECAGEM DE LÓGICA:
- Se (Peso caiu E Gordura Subiu) -> Alerta de perda de massa magra.
- Se (Peso subiu E Gordura Caiu) -> Elogio máximo (Recomposição corporal).
- Se (Adesão < 70%) -> Seja firme sobre a necessidade de constância, sem ser rude.

5. REGRAS DE FORMATAÇÃO (ESTRITAS):
- Use APENAS HTML para formatação.
- <b>Texto em Negrito</b> para destacar conquistas e números.
- <br> para pular linhas.
- PROIBIDO: Markdown (**, ##, -), Listas com hífens (use frases fluidas).

6. SAÍDA JSON REQUERIDA:
{
  "analysisText": "Texto corrido, analítico e formatado em HTML (2-3 parágrafos).",
  "conclusion": "Uma frase de fechamento motivacional curta (Max 15 palavras)."
}
`)
	return b.String()
}
