package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

const (
	CategoryJuvenil  = "juvenil"
	CategoryAdulto   = "adulto"
	CategoryVeterano = "veterano"
)

// Categories lists the known competitive brackets in rank-report order.
var Categories = []string{CategoryJuvenil, CategoryAdulto, CategoryVeterano}

var (
	ErrNameRequired    = errors.New("models: name is required")
	ErrNameTooLong     = errors.New("models: name cannot exceed 50 characters")
	ErrInvalidEmail    = errors.New("models: email is not valid")
	ErrInvalidAge      = errors.New("models: age must be between 0 and 120")
	ErrInvalidGender   = errors.New("models: gender must be male or female")
	ErrInvalidCategory = errors.New("models: category must be juvenil, adulto or veterano")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Athlete is a competitor profile.
type Athlete struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Age       int                `bson:"age" json:"age"`
	Gender    string             `bson:"gender" json:"gender"`
	Category  string             `bson:"category" json:"category"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NormalizeAthlete trims and lowercases the fields that are stored
// canonically.
func NormalizeAthlete(a *Athlete) {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = NormalizeEmail(a.Email)
	a.Gender = strings.ToLower(strings.TrimSpace(a.Gender))
	a.Category = strings.ToLower(strings.TrimSpace(a.Category))
}

// ValidateAthlete checks the field constraints of an already-normalized
// athlete.
func ValidateAthlete(a *Athlete) error {
	if a.Name == "" {
		return ErrNameRequired
	}
	if len(a.Name) > 50 {
		return ErrNameTooLong
	}
	if !ValidEmail(a.Email) {
		return ErrInvalidEmail
	}
	if a.Age < 0 || a.Age > 120 {
		return ErrInvalidAge
	}
	if a.Gender != GenderMale && a.Gender != GenderFemale {
		return ErrInvalidGender
	}
	if !ValidCategory(a.Category) {
		return ErrInvalidCategory
	}
	return nil
}

// ValidCategory reports whether category names a known bracket.
func ValidCategory(category string) bool {
	switch category {
	case CategoryJuvenil, CategoryAdulto, CategoryVeterano:
		return true
	}
	return false
}

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AthleteUpdate carries a partial profile change. Zero values leave the
// stored value untouched, so an age of 0 cannot be set through an update.
type AthleteUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Category string `json:"category"`
}

// Apply merges the update into the athlete and re-validates the merged
// record.
func (p AthleteUpdate) Apply(a *Athlete) error {
	if p.Name != "" {
		a.Name = p.Name
	}
	if p.Email != "" {
		a.Email = p.Email
	}
	if p.Age != 0 {
		a.Age = p.Age
	}
	if p.Gender != "" {
		a.Gender = p.Gender
	}
	if p.Category != "" {
		a.Category = p.Category
	}
	NormalizeAthlete(a)
	return ValidateAthlete(a)
}
