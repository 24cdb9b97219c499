package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LuisMartinez211/Backend/internal/auth"
	"github.com/LuisMartinez211/Backend/internal/db"
	"github.com/LuisMartinez211/Backend/internal/models"
	"github.com/LuisMartinez211/Backend/internal/ratelimit"
)

const userContextKey = "user"

// RequireAuth extracts the bearer token, verifies it and resolves the
// account it points at. The resolved user, password excluded, is attached
// to the request context for the role check and the handlers.
func RequireAuth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(c, http.StatusUnauthorized, "not authorized, no token found")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			respondError(c, http.StatusUnauthorized, "not authorized, no token found")
			return
		}

		id, err := svc.VerifyToken(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				respondError(c, http.StatusUnauthorized, "token has expired, please log in again")
			case errors.Is(err, auth.ErrInvalidToken):
				respondError(c, http.StatusUnauthorized, "not authorized, invalid token")
			default:
				respondServerError(c, err)
			}
			return
		}

		user, err := svc.ResolveUser(c.Request.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, db.ErrNotFound), errors.Is(err, auth.ErrInvalidToken):
				respondError(c, http.StatusUnauthorized, "not authorized, user not found")
			default:
				respondServerError(c, err)
			}
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRoles gates a route on an explicit allow-list. It must run after
// RequireAuth.
func RequireRoles(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondError(c, http.StatusUnauthorized, "not authorized")
			return
		}
		if !RoleAllowed(user.Role, allowed) {
			respondError(c, http.StatusForbidden, "you do not have permission to access this route")
			return
		}
		c.Next()
	}
}

// RoleAllowed reports whether role is a member of the allow-list.
func RoleAllowed(role string, allowed []string) bool {
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}

func currentUser(c *gin.Context) *models.User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// RateLimit caps requests per client IP inside a fixed window. Limiter
// failures are logged and the request is let through.
func RateLimit(limiter ratelimit.Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, resetAfter, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Error("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(resetAfter.Seconds())))
			respondError(c, http.StatusTooManyRequests, "too many requests from this IP, please try again later")
			return
		}

		c.Next()
	}
}

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
