package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/LuisMartinez211/Backend/internal/auth"
	"github.com/LuisMartinez211/Backend/internal/db"
	"github.com/LuisMartinez211/Backend/internal/models"
	"github.com/LuisMartinez211/Backend/internal/ratelimit"
)

// UserStore, AthleteStore and TimeStore are the persistence surfaces the
// handlers depend on. The internal/db stores satisfy them; tests substitute
// in-memory fakes.
type UserStore interface {
	List(ctx context.Context, opts db.ListUsersOptions) ([]models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AthleteStore interface {
	Insert(ctx context.Context, athlete *models.Athlete) error
	FindByEmail(ctx context.Context, email string) (*models.Athlete, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Athlete, error)
	List(ctx context.Context) ([]models.Athlete, error)
	Update(ctx context.Context, athlete *models.Athlete) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type TimeStore interface {
	Insert(ctx context.Context, record *models.TimeRecord) error
	ListByCategory(ctx context.Context, category string, page, limit int64) ([]models.RankedTime, error)
	TopOverall(ctx context.Context, n int64) ([]models.RankedTime, error)
	AverageTime(ctx context.Context) (float64, error)
	Best(ctx context.Context) (*models.RankedTime, error)
	Worst(ctx context.Context) (*models.RankedTime, error)
}

// Handler wires every route of the API.
type Handler struct {
	auth     *auth.Service
	users    UserStore
	athletes AthleteStore
	times    TimeStore
	limiter  ratelimit.Limiter
	logger   *zap.Logger
}

func NewHandler(authService *auth.Service, users UserStore, athletes AthleteStore, times TimeStore, limiter ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{
		auth:     authService,
		users:    users,
		athletes: athletes,
		times:    times,
		limiter:  limiter,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	protect := RequireAuth(h.auth)
	anyRole := RequireRoles([]string{models.RoleAdmin, models.RoleParticipant})
	adminOnly := RequireRoles([]string{models.RoleAdmin})
	limited := RateLimit(h.limiter, h.logger)

	authGroup := router.Group("/auth")
	authGroup.POST("/register", limited, h.handleRegister)
	authGroup.POST("/login", limited, h.handleLogin)

	athleteGroup := router.Group("/athletes")
	athleteGroup.POST("/register", protect, anyRole, h.handleRegisterAthlete)
	athleteGroup.GET("", protect, anyRole, h.handleListAthletes)
	athleteGroup.PUT("/:id", protect, adminOnly, h.handleUpdateAthlete)
	athleteGroup.DELETE("/:id", protect, adminOnly, h.handleDeleteAthlete)

	timeGroup := router.Group("/times")
	timeGroup.POST("/register", protect, adminOnly, h.handleRegisterTime)
	timeGroup.GET("/category/:category", h.handleTimesByCategory)
	timeGroup.GET("/winners", h.handleWinners)

	router.GET("/dashboard/statistics", protect, adminOnly, h.handleStatistics)

	userGroup := router.Group("/users")
	userGroup.GET("/users", protect, adminOnly, h.handleListUsers)
	userGroup.PUT("/users/:id", protect, adminOnly, h.handleUpdateUser)
	userGroup.DELETE("/users/:id", protect, adminOnly, h.handleDeleteUser)
}

type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, response{Success: true, Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, response{Success: false, Message: message})
}

func respondServerError(c *gin.Context, err error) {
	respondError(c, http.StatusInternalServerError, "server error: "+err.Error())
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// respondBindingError turns a gin binding failure into the field-level
// errors array of the response envelope.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: bindingMessage(fe),
			})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, response{Success: false, Errors: fields})
		return
	}
	respondError(c, http.StatusBadRequest, "invalid payload")
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is not a valid email address"
	case "min", "gte":
		return "is below the minimum of " + fe.Param()
	case "max", "lte":
		return "is above the maximum of " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid"
}

// parseObjectID parses a path id. Malformed ids are rejected before any
// database call.
func parseObjectID(raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	return id, err == nil
}
