package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	platformmongo "profilr/internal/platform/mongo"
	"profilr/internal/review/models"
)

// MongoStore persists reviews as documents in a single collection.
type MongoStore struct {
	client     *platformmongo.Client
	collection *mongo.Collection
}

// NewMongo constructs a MongoDB-backed review store.
func NewMongo(client *platformmongo.Client, collection string) *MongoStore {
	return &MongoStore{
		client:     client,
		collection: client.Database.Collection(collection),
	}
}

type reviewDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Role      string        `bson:"role"`
	Comment   string        `bson:"comment"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (d reviewDocument) toModel() *models.Review {
	return &models.Review{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Role:      d.Role,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// EnsureIndexes creates the descending createdAt index used by List.
// CreateOne is a no-op when the index already exists.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	})
	if err != nil {
		return fmt.Errorf("ensure review indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]*models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	out := make([]*models.Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *MongoStore) Insert(ctx context.Context, review *models.Review) (*models.Review, error) {
	doc := reviewDocument{
		ID:        bson.NewObjectID(),
		Name:      review.Name,
		Role:      review.Role,
		Comment:   review.Comment,
		CreatedAt: ceilTime(review.CreatedAt, time.Millisecond),
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}
