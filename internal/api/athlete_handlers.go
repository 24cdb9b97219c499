package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LuisMartinez211/Backend/internal/db"
	"github.com/LuisMartinez211/Backend/internal/models"
)

type athleteRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Age      *int   `json:"age" binding:"required,gte=0,lte=120"`
	Gender   string `json:"gender" binding:"required,oneof=male female"`
	Category string `json:"category" binding:"required"`
}

func (h *Handler) handleRegisterAthlete(c *gin.Context) {
	var req athleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	athlete := models.Athlete{
		Name:     req.Name,
		Email:    req.Email,
		Age:      *req.Age,
		Gender:   req.Gender,
		Category: req.Category,
	}
	models.NormalizeAthlete(&athlete)
	if err := models.ValidateAthlete(&athlete); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()

	if _, err := h.athletes.FindByEmail(ctx, athlete.Email); err == nil {
		respondError(c, http.StatusBadRequest, "athlete is already registered")
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		respondServerError(c, err)
		return
	}

	if err := h.athletes.Insert(ctx, &athlete); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			respondError(c, http.StatusBadRequest, "athlete is already registered")
			return
		}
		respondServerError(c, err)
		return
	}

	respondData(c, http.StatusCreated, athlete)
}

func (h *Handler) handleListAthletes(c *gin.Context) {
	athletes, err := h.athletes.List(c.Request.Context())
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "no athletes found")
			return
		}
		respondServerError(c, err)
		return
	}

	respondData(c, http.StatusOK, athletes)
}

func (h *Handler) handleUpdateAthlete(c *gin.Context) {
	id, ok := parseObjectID(c.Param("id"))
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid athlete id")
		return
	}

	var update models.AthleteUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx := c.Request.Context()

	athlete, err := h.athletes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "athlete not found")
			return
		}
		respondServerError(c, err)
		return
	}

	if err := update.Apply(athlete); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.athletes.Update(ctx, athlete); err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicate):
			respondError(c, http.StatusBadRequest, "email is already in use")
		case errors.Is(err, db.ErrNotFound):
			respondError(c, http.StatusNotFound, "athlete not found")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondData(c, http.StatusOK, athlete)
}

func (h *Handler) handleDeleteAthlete(c *gin.Context) {
	id, ok := parseObjectID(c.Param("id"))
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid athlete id")
		return
	}

	if err := h.athletes.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "athlete not found")
			return
		}
		respondServerError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "athlete deleted successfully")
}
