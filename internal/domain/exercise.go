// internal/domain/exercise.go
package domain

import (
	"time"
)

// LibraryItem is an exercise catalog entry. Built-in items are static;
// custom items belong to the trainer who created them.
type LibraryItem struct {
	ID          string    `bson:"_id" json:"id"`
	TrainerID   string    `bson:"trainerId,omitempty" json:"-"`
	Category    string    `bson:"category" json:"category"`
	Name        string    `bson:"name" json:"name"`
	DefaultSets string    `bson:"defaultSets,omitempty" json:"defaultSets,omitempty"`
	DefaultReps string    `bson:"defaultReps,omitempty" json:"defaultReps,omitempty"`
	Custom      bool      `bson:"-" json:"custom,omitempty"`
	CreatedAt   time.Time `bson:"createdAt,omitempty" json:"-"`
}
