// Package session decides which top-level screen the trainer sees, based on
// the authentication state, the trainer profile and the finished records.
package session

import (
	"context"

	"paggie/trainer-app/internal/domain"
)

// Event is an authentication state change.
type Event string

const (
	EventSignedIn         Event = "SIGNED_IN"
	EventSignedOut        Event = "SIGNED_OUT"
	EventPasswordRecovery Event = "PASSWORD_RECOVERY"
	EventUserUpdated      Event = "USER_UPDATED"
)

// Session is an authenticated trainer.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token,omitempty"`
	// Recovery is set for sessions opened from a password recovery link.
	Recovery bool `json:"recovery,omitempty"`
}

// Listener receives auth events. s is nil after sign out.
type Listener func(e Event, s *Session)

// Observer is the authentication backend.
type Observer interface {
	Current(ctx context.Context) (*Session, error)
	// Subscribe registers l and returns the function that removes it.
	Subscribe(l Listener) (unsubscribe func())
}

// ProfileSource loads the profile of a user. A missing profile is nil
// without error.
type ProfileSource interface {
	Load(ctx context.Context, userID string) (*domain.TrainerProfile, error)
}

// Processing tells which flow the analyzing screen belongs to.
type Processing string

const (
	ProcessingAssessment Processing = "assessment"
	ProcessingTraining   Processing = "training"
)

var analyzingMessages = map[Processing][]string{
	ProcessingAssessment: {
		"Conectando Neural Engine...",
		"Analisando composição corporal...",
		"Calculando diferenciais de performance...",
		"Gerando estratégia personalizada...",
	},
	ProcessingTraining: {
		"Estruturando periodização...",
		"Calculando volume de treino...",
		"Otimizando layout visual...",
		"Finalizando documento inteligente...",
	},
}

// AnalyzingMessages returns the status lines cycled for p.
func AnalyzingMessages(p Processing) []string {
	return append([]string(nil), analyzingMessages[p]...)
}

// Records are the finished intake records of the current session.
type Records struct {
	Assessment *domain.Assessment
	Analysis   *domain.AIAnalysisResult
	Plan       *domain.TrainingPlan
	Anamnese   *domain.Anamnese
	Physical   *domain.PhysicalAssessment
}

func (r Records) clone() Records {
	out := Records{}
	if r.Assessment != nil {
		a := *r.Assessment
		out.Assessment = &a
	}
	if r.Analysis != nil {
		a := *r.Analysis
		out.Analysis = &a
	}
	if r.Plan != nil {
		p := r.Plan.Clone()
		out.Plan = &p
	}
	if r.Anamnese != nil {
		a := *r.Anamnese
		out.Anamnese = &a
	}
	if r.Physical != nil {
		p := *r.Physical
		out.Physical = &p
	}
	return out
}

// Snapshot is the state returned to clients.
type Snapshot struct {
	Step          domain.AppStep         `json:"step"`
	Session       *Session               `json:"session,omitempty"`
	Profile       *domain.TrainerProfile `json:"profile,omitempty"`
	Processing    Processing             `json:"processing,omitempty"`
	AnalyzingText string                 `json:"analyzingText,omitempty"`
	HasAssessment bool                   `json:"hasAssessment"`
	HasAnalysis   bool                   `json:"hasAnalysis"`
	HasPlan       bool                   `json:"hasPlan"`
	HasAnamnese   bool                   `json:"hasAnamnese"`
	HasPhysical   bool                   `json:"hasPhysical"`
}
