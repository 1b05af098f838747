package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/sirupsen/logrus"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/instrumentation"
)

// Chat replies shown instead of an answer.
const (
	ChatMissingKey  = "⚠️ Erro de Configuração: API Key não encontrada (AI_API_KEY)."
	ChatAuthFailed  = "⛔ Erro de Autenticação (401): Sua API Key parece inválida ou expirada."
	ChatRateLimited = "⏳ Limite de requisições excedido (429). Tente novamente em alguns segundos."
	ChatTimeout     = "⚠️ Erro no processamento: tempo de espera esgotado. Tente novamente."
	ChatEmptyReply  = "Desculpe, a IA retornou uma resposta vazia."
	chatErrorPrefix = "⚠️ Erro no processamento: "
)

const chatSystemPrompt = `Você é o ChatPAGGIE, um Assistente Especialista em Prescrição de Treinamento Físico e Fisiologia do Exercício.

SUA MISSÃO:
Fornecer sugestões de treino estruturadas, seguras e baseadas em ciência para Personal Trainers.

REGRAS DE COMPORTAMENTO:
1. FOCO TOTAL: Você só responde sobre musculação, cardio, reabilitação, periodização e nutrição esportiva básica. Se perguntarem sobre política, código ou receitas de bolo, recuse educadamente e volte ao tema fitness.
2. FORMATO DE RESPOSTA:
   - Seja direto. Não enrole.
   - Ao sugerir treinos, use listas ou "bullet points".
   - Exemplo: "Treino A (Peito): 1. Supino (3x10)..."
3. SEGURANÇA: Se o usuário mencionar lesões graves (ex: "Hérnia de disco aguda"), sugira exercícios adaptados mas sempre recomende avaliação médica.
4. TOM: Profissional, técnico mas acessível (Senior Coach).`

// SendChatMessage answers msg given the previous turns. Failures come back
// as a readable reply.
func (c *Client) SendChatMessage(ctx context.Context, history []domain.ChatMessage, msg string) string {
	if !c.Enabled() {
		c.record(operationChat, instrumentation.OutcomeFallback)
		return ChatMissingKey
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(chatSystemPrompt))
	for _, m := range history {
		if m.Role == domain.ChatRoleModel {
			messages = append(messages, openai.AssistantMessage(m.Text))
		} else {
			messages = append(messages, openai.UserMessage(m.Text))
		}
	}
	messages = append(messages, openai.UserMessage(msg))

	content, err := c.complete(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		logrus.Errorf("chat completion failed: %v", err)
		c.record(operationChat, outcomeOf(err))
		return ChatErrorMessage(err)
	}
	c.record(operationChat, instrumentation.OutcomeOK)

	if content == "" {
		return ChatEmptyReply
	}
	return content
}

// ChatErrorMessage maps a completion error to the reply shown in the chat.
func ChatErrorMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ChatTimeout
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401:
			return ChatAuthFailed
		case 429:
			return ChatRateLimited
		}
		if apiErr.Message != "" {
			return chatErrorPrefix + apiErr.Message
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "401"):
		return ChatAuthFailed
	case strings.Contains(msg, "429"):
		return ChatRateLimited
	}
	return chatErrorPrefix + msg
}
