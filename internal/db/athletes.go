package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/LuisMartinez211/Backend/internal/models"
)

// AthleteStore persists competitor profiles in the athletes collection.
type AthleteStore struct {
	coll *mongo.Collection
}

func NewAthleteStore(m *Mongo) *AthleteStore {
	return &AthleteStore{coll: m.Athletes}
}

// Insert writes a new athlete and fills in its id and timestamps. A second
// registration with the same email maps to ErrDuplicate.
func (s *AthleteStore) Insert(ctx context.Context, athlete *models.Athlete) error {
	now := time.Now().UTC()
	athlete.CreatedAt = now
	athlete.UpdatedAt = now

	res, err := s.coll.InsertOne(ctx, athlete)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert athlete: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		athlete.ID = id
	}
	return nil
}

// FindByEmail reports whether an athlete with the normalized email exists.
func (s *AthleteStore) FindByEmail(ctx context.Context, email string) (*models.Athlete, error) {
	var athlete models.Athlete
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&athlete)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find athlete by email: %w", err)
	}
	return &athlete, nil
}

func (s *AthleteStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Athlete, error) {
	var athlete models.Athlete
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&athlete)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find athlete by id: %w", err)
	}
	return &athlete, nil
}

// List returns every registered athlete in insertion order. An empty
// registry maps to ErrNotFound.
func (s *AthleteStore) List(ctx context.Context) ([]models.Athlete, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list athletes: %w", err)
	}
	defer cursor.Close(ctx)

	athletes := make([]models.Athlete, 0)
	if err := cursor.All(ctx, &athletes); err != nil {
		return nil, fmt.Errorf("decode athletes: %w", err)
	}
	if len(athletes) == 0 {
		return nil, ErrNotFound
	}
	return athletes, nil
}

// Update persists the profile fields of an already-merged athlete record.
func (s *AthleteStore) Update(ctx context.Context, athlete *models.Athlete) error {
	athlete.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"name":      athlete.Name,
		"email":     athlete.Email,
		"age":       athlete.Age,
		"gender":    athlete.Gender,
		"category":  athlete.Category,
		"updatedAt": athlete.UpdatedAt,
	}}

	res, err := s.coll.UpdateByID(ctx, athlete.ID, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update athlete: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an athlete by id. Time records referencing the athlete are
// left in place; the ranking joins skip them.
func (s *AthleteStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete athlete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of registered athletes.
func (s *AthleteStore) Count(ctx context.Context) (int64, error) {
	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count athletes: %w", err)
	}
	return total, nil
}
