package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an authenticated trainer account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TrainerProfile is the trainer identity shown on every report.
// Stored remotely in "profiles" keyed by the user id, and cached locally.
type TrainerProfile struct {
	ID             string    `bson:"_id" json:"-"`
	Name           string    `bson:"name" json:"name"`
	LogoURL        string    `bson:"logo_url,omitempty" json:"logoUrl,omitempty"`
	PrimaryColor   string    `bson:"primary_color" json:"primaryColor"`
	SecondaryColor string    `bson:"secondary_color" json:"secondaryColor"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt,omitempty"`
}

// Default report colors, used when a profile leaves them blank.
const (
	DefaultPrimaryColor   = "#00AEEF"
	DefaultSecondaryColor = "#0072BC"
)

// WithDefaults fills blank colors.
func (p TrainerProfile) WithDefaults() TrainerProfile {
	if p.PrimaryColor == "" {
		p.PrimaryColor = DefaultPrimaryColor
	}
	if p.SecondaryColor == "" {
		p.SecondaryColor = DefaultSecondaryColor
	}
	return p
}
