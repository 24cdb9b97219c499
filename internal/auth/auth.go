package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/LuisMartinez211/Backend/internal/db"
	"github.com/LuisMartinez211/Backend/internal/models"
)

var (
	ErrSecretRequired     = errors.New("auth: jwt secret required")
	ErrEmailExists        = errors.New("auth: email or username already registered")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrTokenExpired       = errors.New("auth: token expired")
)

// UserStore is the slice of the credential store the auth service needs.
// *db.UserStore satisfies it; tests substitute an in-memory fake.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult carries the sanitized user and its freshly-issued token.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

// Service registers and authenticates users and issues the signed tokens
// the middleware verifies. The secret is fixed at construction.
type Service struct {
	store  UserStore
	secret []byte
	ttl    time.Duration
}

func NewService(store UserStore, secret string, ttl time.Duration) (*Service, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrSecretRequired
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}

	return &Service{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
	}, nil
}

// Register normalizes and validates the input, hashes the password and
// persists the account. A duplicate email or username returns ErrEmailExists.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Role:     input.Role,
	}
	models.NormalizeUser(user)

	if err := models.ValidateUser(user, input.Password); err != nil {
		return nil, err
	}

	if _, err := s.store.FindByEmail(ctx, user.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("auth: check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user.Password = string(hash)

	if err := s.store.Insert(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("auth: insert user: %w", err)
	}

	token, expiresAt, err := s.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user.Sanitize()}, nil
}

// Login authenticates by email and password. Unknown emails and hash
// mismatches are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := models.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user.Sanitize()}, nil
}

// ResolveUser loads the account a verified token points at, password
// excluded. A vanished account returns db.ErrNotFound.
func (s *Service) ResolveUser(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.store.FindByID(ctx, objectID)
}

// GenerateToken issues an HS256 token whose subject is the user id.
func (s *Service) GenerateToken(id string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// VerifyToken validates signature and expiry and returns the embedded user
// id. Expired tokens map to ErrTokenExpired, everything else malformed to
// ErrInvalidToken.
func (s *Service) VerifyToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
