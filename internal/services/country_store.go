package services

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripatlas/internal/database"
	"tripatlas/internal/models"
)

// CountryStore is the persistence seam for guide documents. The Mongo
// implementation is the production one; tests use in-memory fakes.
type CountryStore interface {
	// FindBySlug returns the record for a slug, or (nil, nil) when absent.
	FindBySlug(ctx context.Context, slug string) (*models.Country, error)
	// Upsert atomically replaces-or-inserts the record keyed by country.Slug
	// and returns the stored document.
	Upsert(ctx context.Context, country *models.Country) (*models.Country, error)
	// SetAudioURL patches a single audio pointer without touching any other
	// field or kind.
	SetAudioURL(ctx context.Context, slug string, kind models.AudioKind, url string) error
	// Search finds countries by name, case-insensitive.
	Search(ctx context.Context, query string, limit int64) ([]models.CountrySummary, error)
}

// MongoCountryStore implements CountryStore on the countries collection.
type MongoCountryStore struct {
	collection *mongo.Collection
}

// NewMongoCountryStore creates a country store backed by MongoDB.
func NewMongoCountryStore(db *database.MongoDB) *MongoCountryStore {
	return &MongoCountryStore{
		collection: db.Collection(database.CollectionCountries),
	}
}

func (s *MongoCountryStore) FindBySlug(ctx context.Context, slug string) (*models.Country, error) {
	var country models.Country
	err := s.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&country)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find country %q: %w", slug, err)
	}
	return &country, nil
}

func (s *MongoCountryStore) Upsert(ctx context.Context, country *models.Country) (*models.Country, error) {
	filter := bson.M{"slug": country.Slug}
	update := bson.M{"$set": country}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored models.Country
	if err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to upsert country %q: %w", country.Slug, err)
	}
	return &stored, nil
}

func (s *MongoCountryStore) SetAudioURL(ctx context.Context, slug string, kind models.AudioKind, url string) error {
	field := fmt.Sprintf("audioUrls.%s", kind)
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"slug": slug},
		bson.M{"$set": bson.M{field: url}},
	)
	if err != nil {
		return fmt.Errorf("failed to set audio url for %s/%s: %w", slug, kind, err)
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{Resource: "country", Key: slug}
	}
	return nil
}

func (s *MongoCountryStore) Search(ctx context.Context, query string, limit int64) ([]models.CountrySummary, error) {
	filter := bson.M{"name": bson.M{
		"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"},
	}}

	opts := options.Find().
		SetProjection(bson.M{"name": 1, "slug": 1}).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search countries: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.CountrySummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	return summaries, nil
}
