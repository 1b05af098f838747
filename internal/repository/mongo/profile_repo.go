package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/repository"
)

const profileCollectionName = "profiles"

type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository stores trainer profiles keyed by user id.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// Get returns the profile of userID, or repository.ErrNotFound.
func (r *mongoProfileRepository) Get(ctx context.Context, userID string) (*domain.TrainerProfile, error) {
	var profile domain.TrainerProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		return nil, mapError(err)
	}
	return &profile, nil
}

// Upsert creates or replaces the profile identified by profile.ID.
func (r *mongoProfileRepository) Upsert(ctx context.Context, profile *domain.TrainerProfile) error {
	if profile.ID == "" {
		return errors.New("profile user id is required")
	}
	profile.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":            profile.Name,
			"logo_url":        profile.LogoURL,
			"primary_color":   profile.PrimaryColor,
			"secondary_color": profile.SecondaryColor,
			"updated_at":      profile.UpdatedAt,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": profile.ID}, update, options.Update().SetUpsert(true))
	return mapError(err)
}
