package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"paggie/trainer-app/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound    = RepositoryError("not found")
	ErrDuplicate   = RepositoryError("duplicate key")
	ErrUnavailable = RepositoryError("store unavailable")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with trainer accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

// ProfileRepository stores one trainer profile per user id.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.TrainerProfile, error)
	Upsert(ctx context.Context, profile *domain.TrainerProfile) error
}

// LibraryRepository stores the custom library items of each trainer.
type LibraryRepository interface {
	Create(ctx context.Context, item *domain.LibraryItem) error
	GetByTrainerID(ctx context.Context, trainerID string) ([]domain.LibraryItem, error)
}

// ArtifactRepository stores metadata of exported files.
type ArtifactRepository interface {
	Create(ctx context.Context, artifact *domain.Artifact) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Artifact, error)
	GetByTrainerID(ctx context.Context, trainerID string, limit int64) ([]domain.Artifact, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
