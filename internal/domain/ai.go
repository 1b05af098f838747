package domain

// AIAnalysisResult is the narrative attached to an assessment report.
// Model-written and fallback results share this shape.
type AIAnalysisResult struct {
	AnalysisText string `json:"analysisText"`
	Conclusion   string `json:"conclusion"`
}

// ChatRole is the author of a chat message.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn of the trainer chat.
type ChatMessage struct {
	ID        string   `json:"id"`
	Role      ChatRole `json:"role"`
	Text      string   `json:"text"`
	Timestamp int64    `json:"timestamp"` // unix millis
}
