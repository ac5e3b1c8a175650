package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripatlas/internal/database"
	"tripatlas/internal/models"
)

// UserStore is the persistence seam for subject documents (profile, mood
// logs, search history, cached recommendations).
type UserStore interface {
	// FindByUID returns the user document, or (nil, nil) when absent.
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	// UpsertProfile creates or updates the subject's profile and returns the
	// stored document.
	UpsertProfile(ctx context.Context, uid string, update ProfileUpdate) (*models.User, error)
	// AppendMood appends a mood log entry.
	AppendMood(ctx context.Context, uid string, mood models.MoodLog) error
	// PushSearch atomically prepends entry to the subject's search history,
	// removes any older entry with the same slug, and caps the stored list.
	// The whole mutation is a single document transformation so concurrent
	// records for the same slug can never produce duplicates.
	PushSearch(ctx context.Context, uid string, entry models.SearchEntry, cap int) (*models.User, error)
	// SetRecommendations overwrites the subject's cached recommendation set.
	SetRecommendations(ctx context.Context, uid string, set models.RecommendationSet) error
}

// ProfileUpdate carries the mutable profile fields for UpsertProfile.
type ProfileUpdate struct {
	Email       string
	DisplayName string
	Profile     models.Profile
	Complete    bool
}

// MongoUserStore implements UserStore on the users collection.
type MongoUserStore struct {
	collection *mongo.Collection
}

// NewMongoUserStore creates a user store backed by MongoDB.
func NewMongoUserStore(db *database.MongoDB) *MongoUserStore {
	return &MongoUserStore{
		collection: db.Collection(database.CollectionUsers),
	}
}

func (s *MongoUserStore) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"uid": uid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user %q: %w", uid, err)
	}
	return &user, nil
}

func (s *MongoUserStore) UpsertProfile(ctx context.Context, uid string, update ProfileUpdate) (*models.User, error) {
	now := time.Now()

	filter := bson.M{"uid": uid}
	doc := bson.M{
		"$set": bson.M{
			"email":             update.Email,
			"displayName":       update.DisplayName,
			"profile":           update.Profile,
			"isProfileComplete": update.Complete,
			"updatedAt":         now,
		},
		"$setOnInsert": bson.M{
			"uid":       uid,
			"createdAt": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	if err := s.collection.FindOneAndUpdate(ctx, filter, doc, opts).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to upsert profile for %q: %w", uid, err)
	}
	return &user, nil
}

func (s *MongoUserStore) AppendMood(ctx context.Context, uid string, mood models.MoodLog) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"uid": uid},
		bson.M{
			"$push": bson.M{"moodLogs": mood},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to append mood for %q: %w", uid, err)
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{Resource: "user", Key: uid}
	}
	return nil
}

func (s *MongoUserStore) PushSearch(ctx context.Context, uid string, entry models.SearchEntry, cap int) (*models.User, error) {
	newEntry := bson.D{
		{Key: "countryName", Value: entry.CountryName},
		{Key: "slug", Value: entry.Slug},
		{Key: "searchedAt", Value: entry.SearchedAt},
	}

	// Single aggregation-pipeline update: prepend the new entry, drop any
	// existing entry with the same slug, cap the stored list. Doing this as
	// one transformation avoids the lost updates and duplicates a
	// read-modify-write pair would allow under concurrency.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{Key: "searchHistory", Value: bson.D{{Key: "$slice", Value: bson.A{
			bson.D{{Key: "$concatArrays", Value: bson.A{
				bson.A{newEntry},
				bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$searchHistory", bson.A{}}}}},
					{Key: "as", Value: "item"},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$item.slug", entry.Slug}}}},
				}}},
			}}},
			cap,
		}}}}}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"uid": uid}, pipeline, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, &NotFoundError{Resource: "user", Key: uid}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record search for %q: %w", uid, err)
	}
	return &user, nil
}

func (s *MongoUserStore) SetRecommendations(ctx context.Context, uid string, set models.RecommendationSet) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"uid": uid},
		bson.M{"$set": bson.M{"recommendations": set}},
	)
	if err != nil {
		return fmt.Errorf("failed to store recommendations for %q: %w", uid, err)
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{Resource: "user", Key: uid}
	}
	return nil
}

// TrimHistories re-caps search histories that grew past max (documents
// written before the cap existed). Returns the number of trimmed documents.
func (s *MongoUserStore) TrimHistories(ctx context.Context, max int) (int64, error) {
	filter := bson.M{fmt.Sprintf("searchHistory.%d", max): bson.M{"$exists": true}}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{Key: "searchHistory", Value: bson.D{{
			Key: "$slice", Value: bson.A{"$searchHistory", max},
		}}}}}},
	}

	result, err := s.collection.UpdateMany(ctx, filter, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to trim search histories: %w", err)
	}
	return result.ModifiedCount, nil
}
