package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LuisMartinez211/Backend/internal/auth"
	"github.com/LuisMartinez211/Backend/internal/models"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// authResponse mirrors the login/registration payload: identity fields plus
// the issued token.
type authResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

func newAuthResponse(result *auth.AuthResult) authResponse {
	return authResponse{
		ID:       result.User.ID.Hex(),
		Username: result.User.Username,
		Email:    result.User.Email,
		Role:     result.User.Role,
		Token:    result.Token,
	}
}

func (h *Handler) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), auth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			respondError(c, http.StatusBadRequest, "user already exists")
		case errors.Is(err, models.ErrUsernameRequired),
			errors.Is(err, models.ErrUsernameTooLong),
			errors.Is(err, models.ErrInvalidEmail),
			errors.Is(err, models.ErrPasswordTooShort),
			errors.Is(err, models.ErrInvalidRole):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondServerError(c, err)
		}
		return
	}

	respondData(c, http.StatusCreated, newAuthResponse(result))
}

func (h *Handler) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondServerError(c, err)
		return
	}

	respondData(c, http.StatusOK, newAuthResponse(result))
}
