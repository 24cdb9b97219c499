package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/LuisMartinez211/Backend/internal/db"
	"github.com/LuisMartinez211/Backend/internal/models"
)

const winnersCount = 3

type timeRequest struct {
	AthleteID string   `json:"athleteId" binding:"required"`
	Time      *float64 `json:"time" binding:"required,gte=0"`
}

func (h *Handler) handleRegisterTime(c *gin.Context) {
	var req timeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	athleteID, ok := parseObjectID(req.AthleteID)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid athlete id")
		return
	}

	ctx := c.Request.Context()

	if _, err := h.athletes.FindByID(ctx, athleteID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "athlete not found")
			return
		}
		respondServerError(c, err)
		return
	}

	record := models.TimeRecord{AthleteID: athleteID, Time: *req.Time}
	if err := models.ValidateTimeRecord(&record); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Insert re-checks the reference; the athlete may have been deleted
	// between the lookup above and the write.
	if err := h.times.Insert(ctx, &record); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "athlete not found")
			return
		}
		respondServerError(c, err)
		return
	}

	respondData(c, http.StatusCreated, record)
}

func (h *Handler) handleTimesByCategory(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Param("category")))
	page := parsePositiveInt64(c.Query("page"), 1)
	limit := parsePositiveInt64(c.Query("limit"), 10)

	records, err := h.times.ListByCategory(c.Request.Context(), category, page, limit)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "no times found for the given category")
			return
		}
		respondServerError(c, err)
		return
	}

	respondData(c, http.StatusOK, records)
}

func (h *Handler) handleWinners(c *gin.Context) {
	records, err := h.times.TopOverall(c.Request.Context(), winnersCount)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "no registered times found")
			return
		}
		respondServerError(c, err)
		return
	}

	respondData(c, http.StatusOK, records)
}

func (h *Handler) handleStatistics(c *gin.Context) {
	ctx := c.Request.Context()

	totalAthletes, err := h.athletes.Count(ctx)
	if err != nil {
		respondServerError(c, err)
		return
	}

	averageTime, err := h.times.AverageTime(ctx)
	if err != nil {
		respondServerError(c, err)
		return
	}

	stats := models.Statistics{
		TotalAthletes:   totalAthletes,
		TotalCategories: len(models.Categories),
		AverageTime:     averageTime,
	}

	best, err := h.times.Best(ctx)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		respondServerError(c, err)
		return
	}
	if best != nil {
		stats.BestTime = &best.Time
		stats.BestAthlete = &best.Athlete
	}

	worst, err := h.times.Worst(ctx)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		respondServerError(c, err)
		return
	}
	if worst != nil {
		stats.WorstTime = &worst.Time
		stats.WorstAthlete = &worst.Athlete
	}

	respondData(c, http.StatusOK, stats)
}

func parsePositiveInt64(raw string, fallback int64) int64 {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
