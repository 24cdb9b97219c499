package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/LuisMartinez211/Backend/internal/db"
	"github.com/LuisMartinez211/Backend/internal/models"
)

func (h *Handler) handleListUsers(c *gin.Context) {
	opts := db.ListUsersOptions{
		Role:   strings.TrimSpace(c.Query("role")),
		Search: strings.TrimSpace(c.Query("search")),
		Page:   parsePositiveInt64(c.Query("page"), 1),
		Limit:  parsePositiveInt64(c.Query("limit"), 10),
	}

	users, err := h.users.List(c.Request.Context(), opts)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "no users found")
			return
		}
		respondServerError(c, err)
		return
	}

	respondData(c, http.StatusOK, users)
}

func (h *Handler) handleUpdateUser(c *gin.Context) {
	id, ok := parseObjectID(c.Param("id"))
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var update models.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx := c.Request.Context()

	user, err := h.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		respondServerError(c, err)
		return
	}

	if _, err := update.Apply(user); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicate):
			respondError(c, http.StatusBadRequest, "email or username is already in use")
		case errors.Is(err, db.ErrNotFound):
			respondError(c, http.StatusNotFound, "user not found")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondData(c, http.StatusOK, user.Sanitize())
}

func (h *Handler) handleDeleteUser(c *gin.Context) {
	id, ok := parseObjectID(c.Param("id"))
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		respondServerError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "user deleted successfully")
}
