package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/LuisMartinez211/Backend/internal/models"
)

// TimeStore persists elapsed-time entries and derives the ranking views.
// It holds the athletes collection as well because every read joins records
// to their athlete and every write re-checks the reference.
type TimeStore struct {
	times    *mongo.Collection
	athletes *mongo.Collection
}

func NewTimeStore(m *Mongo) *TimeStore {
	return &TimeStore{times: m.Times, athletes: m.Athletes}
}

// Insert writes a new time record after re-checking that the referenced
// athlete still exists. A missing athlete maps to ErrNotFound.
func (s *TimeStore) Insert(ctx context.Context, record *models.TimeRecord) error {
	count, err := s.athletes.CountDocuments(ctx, bson.M{"_id": record.AthleteID})
	if err != nil {
		return fmt.Errorf("check athlete reference: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}

	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	res, err := s.times.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("insert time record: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = id
	}
	return nil
}

// rankedPipeline joins time records to their athletes and sorts best time
// first, ties broken by insertion order. Records whose athlete has been
// deleted are dropped by the unwind stage.
func rankedPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "athletes",
			"localField":   "athlete",
			"foreignField": "_id",
			"as":           "athlete",
		}}},
		bson.D{{Key: "$unwind", Value: "$athlete"}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "time", Value: 1}, {Key: "_id", Value: 1}}}},
	}
}

// ListByCategory returns one page of joined records whose athlete belongs
// to the given category, best time first. An empty page maps to ErrNotFound.
func (s *TimeStore) ListByCategory(ctx context.Context, category string, page, limit int64) ([]models.RankedTime, error) {
	pipeline := rankedPipeline()
	pipeline = append(pipeline,
		bson.D{{Key: "$match", Value: bson.M{"athlete.category": category}}},
		bson.D{{Key: "$skip", Value: (page - 1) * limit}},
		bson.D{{Key: "$limit", Value: limit}},
	)

	return s.ranked(ctx, pipeline)
}

// TopOverall returns the n best joined records across all categories.
// An empty ledger maps to ErrNotFound.
func (s *TimeStore) TopOverall(ctx context.Context, n int64) ([]models.RankedTime, error) {
	pipeline := append(rankedPipeline(), bson.D{{Key: "$limit", Value: n}})
	return s.ranked(ctx, pipeline)
}

func (s *TimeStore) ranked(ctx context.Context, pipeline mongo.Pipeline) ([]models.RankedTime, error) {
	cursor, err := s.times.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate time records: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]models.RankedTime, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode time records: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

// AverageTime returns the mean elapsed time across every record, 0 when the
// ledger is empty.
func (s *TimeStore) AverageTime(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"averageTime": bson.M{"$avg": "$time"},
		}}},
	}

	cursor, err := s.times.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate average time: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		AverageTime float64 `bson:"averageTime"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("decode average time: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].AverageTime, nil
}

// Best returns the joined record with the minimum elapsed time, Worst the
// maximum. Both return ErrNotFound when no joinable record exists.
func (s *TimeStore) Best(ctx context.Context) (*models.RankedTime, error) {
	return s.extreme(ctx, 1)
}

func (s *TimeStore) Worst(ctx context.Context) (*models.RankedTime, error) {
	return s.extreme(ctx, -1)
}

func (s *TimeStore) extreme(ctx context.Context, direction int) (*models.RankedTime, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "athletes",
			"localField":   "athlete",
			"foreignField": "_id",
			"as":           "athlete",
		}}},
		bson.D{{Key: "$unwind", Value: "$athlete"}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "time", Value: direction}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: 1}},
	}

	records, err := s.ranked(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return &records[0], nil
}
