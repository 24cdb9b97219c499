package models_test

import (
	"errors"
	"testing"

	"github.com/LuisMartinez211/Backend/internal/models"
)

func TestNormalizeUserDefaultsRole(t *testing.T) {
	user := models.User{Username: " Alice ", Email: " ALICE@Example.com "}
	models.NormalizeUser(&user)

	if user.Username != "alice" {
		t.Fatalf("expected lowercased username, got %q", user.Username)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if user.Role != models.RoleParticipant {
		t.Fatalf("expected default role participant, got %q", user.Role)
	}
}

func TestValidateUser(t *testing.T) {
	user := models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleAdmin}

	if err := models.ValidateUser(&user, "secret1"); err != nil {
		t.Fatalf("expected valid user, got %v", err)
	}
	if err := models.ValidateUser(&user, "short"); !errors.Is(err, models.ErrPasswordTooShort) {
		t.Fatalf("expected password error, got %v", err)
	}

	user.Role = "superuser"
	if err := models.ValidateUser(&user, "secret1"); !errors.Is(err, models.ErrInvalidRole) {
		t.Fatalf("expected role error, got %v", err)
	}
}

func TestUserUpdateApply(t *testing.T) {
	user := models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleParticipant}

	changed, err := models.UserUpdate{Role: "Admin"}.Apply(&user)
	if err != nil {
		t.Fatalf("apply returned error: %v", err)
	}
	if !changed {
		t.Fatalf("expected change to be reported")
	}
	if user.Role != models.RoleAdmin {
		t.Fatalf("expected role admin, got %q", user.Role)
	}
	if user.Username != "alice" || user.Email != "alice@example.com" {
		t.Fatalf("expected identity fields unchanged")
	}

	if _, err := (models.UserUpdate{Role: "root"}).Apply(&user); !errors.Is(err, models.ErrInvalidRole) {
		t.Fatalf("expected invalid role error, got %v", err)
	}
	if _, err := (models.UserUpdate{Email: "broken"}).Apply(&user); !errors.Is(err, models.ErrInvalidEmail) {
		t.Fatalf("expected invalid email error, got %v", err)
	}
}

func TestSanitizeStripsPassword(t *testing.T) {
	user := models.User{Username: "alice", Password: "$2a$10$hash"}
	clean := user.Sanitize()

	if clean.Password != "" {
		t.Fatalf("expected password stripped")
	}
	if user.Password == "" {
		t.Fatalf("expected original untouched")
	}
}
