package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidTime = errors.New("models: time must be a positive number of seconds")

// TimeRecord is one elapsed-time entry for an athlete, in seconds. Records
// are immutable once written.
type TimeRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	AthleteID primitive.ObjectID `bson:"athlete" json:"athlete"`
	Time      float64            `bson:"time" json:"time"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidateTimeRecord checks the elapsed time is non-negative.
func ValidateTimeRecord(r *TimeRecord) error {
	if r.Time < 0 {
		return ErrInvalidTime
	}
	return nil
}

// RankedTime is a time record joined with its athlete, as produced by the
// category and winner queries.
type RankedTime struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Time      float64            `bson:"time" json:"time"`
	Athlete   Athlete            `bson:"athlete" json:"athlete"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Statistics is the dashboard aggregate over athletes and time records.
type Statistics struct {
	TotalAthletes   int64    `json:"totalAthletes"`
	TotalCategories int      `json:"totalCategories"`
	AverageTime     float64  `json:"averageTime"`
	BestTime        *float64 `json:"bestTime"`
	WorstTime       *float64 `json:"worstTime"`
	BestAthlete     *Athlete `json:"bestAthlete"`
	WorstAthlete    *Athlete `json:"worstAthlete"`
}
