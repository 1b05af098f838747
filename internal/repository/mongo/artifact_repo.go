package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/repository"
)

const artifactCollectionName = "artifacts"

// mongoArtifactRepository implements repository.ArtifactRepository
type mongoArtifactRepository struct {
	collection *mongo.Collection
}

// NewMongoArtifactRepository creates an Artifact repository backed by MongoDB.
func NewMongoArtifactRepository(db *mongo.Database) repository.ArtifactRepository {
	return &mongoArtifactRepository{
		collection: db.Collection(artifactCollectionName),
	}
}

// Create inserts artifact metadata.
func (r *mongoArtifactRepository) Create(ctx context.Context, artifact *domain.Artifact) (primitive.ObjectID, error) {
	if artifact.ObjectKey == "" || artifact.Kind == "" {
		return primitive.NilObjectID, errors.New("artifact requires kind and objectKey")
	}

	artifact.ID = primitive.NewObjectID()
	if artifact.CreatedAt.IsZero() {
		artifact.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, artifact)
	if err != nil {
		return primitive.NilObjectID, mapError(err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves artifact metadata by its ID.
func (r *mongoArtifactRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Artifact, error) {
	var artifact domain.Artifact
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&artifact)
	if err != nil {
		return nil, mapError(err)
	}
	return &artifact, nil
}

// GetByTrainerID lists a trainer's artifacts, newest first.
func (r *mongoArtifactRepository) GetByTrainerID(ctx context.Context, trainerID string, limit int64) ([]domain.Artifact, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"trainerId": trainerID}, findOptions)
	if err != nil {
		return nil, mapError(err)
	}
	defer cursor.Close(ctx)

	artifacts := []domain.Artifact{}
	if err = cursor.All(ctx, &artifacts); err != nil {
		return nil, mapError(err)
	}
	return artifacts, nil
}

// Delete removes artifact metadata by its ID.
func (r *mongoArtifactRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapError(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureArtifactIndexes creates necessary indexes for the artifacts collection.
func EnsureArtifactIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	logIndexError(collection.Name(), err)
}
