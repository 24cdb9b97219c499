package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin       = "admin"
	RoleParticipant = "participant"
)

const MinPasswordLength = 6

var (
	ErrUsernameRequired = errors.New("models: username is required")
	ErrUsernameTooLong  = errors.New("models: username cannot exceed 50 characters")
	ErrPasswordTooShort = errors.New("models: password must be at least 6 characters")
	ErrInvalidRole      = errors.New("models: role must be admin or participant")
)

// User is an account record. The password field holds the bcrypt hash and is
// never serialized.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Sanitize returns a copy of the user without the password hash populated.
func (u User) Sanitize() User {
	u.Password = ""
	return u
}

// NormalizeUser lowercases and trims the identity fields in place.
func NormalizeUser(u *User) {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	u.Email = NormalizeEmail(u.Email)
	u.Role = strings.ToLower(strings.TrimSpace(u.Role))
	if u.Role == "" {
		u.Role = RoleParticipant
	}
}

// ValidateUser checks the field constraints of an already-normalized user.
// The password argument is the plaintext candidate, checked before hashing.
func ValidateUser(u *User, password string) error {
	if u.Username == "" {
		return ErrUsernameRequired
	}
	if len(u.Username) > 50 {
		return ErrUsernameTooLong
	}
	if !ValidEmail(u.Email) {
		return ErrInvalidEmail
	}
	if len(strings.TrimSpace(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if !ValidRole(u.Role) {
		return ErrInvalidRole
	}
	return nil
}

// ValidRole reports whether role names a known role.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleParticipant
}

// UserUpdate carries the fields an admin may change on a user. Zero values
// leave the stored value untouched.
type UserUpdate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Apply merges the update into the user, normalizing mutated fields, and
// reports whether anything changed.
func (p UserUpdate) Apply(u *User) (bool, error) {
	changed := false
	if p.Username != "" {
		u.Username = strings.ToLower(strings.TrimSpace(p.Username))
		if u.Username == "" {
			return false, ErrUsernameRequired
		}
		if len(u.Username) > 50 {
			return false, ErrUsernameTooLong
		}
		changed = true
	}
	if p.Email != "" {
		u.Email = NormalizeEmail(p.Email)
		if !ValidEmail(u.Email) {
			return false, ErrInvalidEmail
		}
		changed = true
	}
	if p.Role != "" {
		u.Role = strings.ToLower(strings.TrimSpace(p.Role))
		if !ValidRole(u.Role) {
			return false, ErrInvalidRole
		}
		changed = true
	}
	return changed, nil
}
