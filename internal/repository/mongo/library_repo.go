package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/repository"
)

const libraryCollectionName = "library_items"

// mongoLibraryRepository implements repository.LibraryRepository
type mongoLibraryRepository struct {
	collection *mongo.Collection
}

// NewMongoLibraryRepository creates a custom library repository backed by MongoDB.
func NewMongoLibraryRepository(db *mongo.Database) repository.LibraryRepository {
	return &mongoLibraryRepository{
		collection: db.Collection(libraryCollectionName),
	}
}

// Create inserts a custom item. Ids are prefixed so they never clash with
// the built-in catalog.
func (r *mongoLibraryRepository) Create(ctx context.Context, item *domain.LibraryItem) error {
	if item.Name == "" || item.TrainerID == "" {
		return errors.New("library item name and trainer ID are required")
	}
	item.ID = "u-" + uuid.NewString()
	item.CreatedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return mapError(err)
	}
	item.Custom = true
	return nil
}

// GetByTrainerID retrieves the custom items of a trainer, oldest first.
func (r *mongoLibraryRepository) GetByTrainerID(ctx context.Context, trainerID string) ([]domain.LibraryItem, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"trainerId": trainerID}, findOptions)
	if err != nil {
		return nil, mapError(err)
	}
	defer cursor.Close(ctx)

	items := []domain.LibraryItem{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, mapError(err)
	}
	for i := range items {
		items[i].Custom = true
	}
	return items, nil
}

// EnsureLibraryIndexes creates necessary indexes for the library collection.
func EnsureLibraryIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
		{
			// One item name per trainer and category.
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "category", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	logIndexError(collection.Name(), err)
}
