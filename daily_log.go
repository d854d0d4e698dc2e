package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/calorix-api/internal/ledger"
	"lg/calorix-api/internal/nutrition"
)

// getDaily returns the log and computed totals for a given date. A date with
// nothing logged is returned as an empty log with one slot per meal category.
// GET /api/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDaily(c *gin.Context) {
	uid := c.GetString("user_id")
	date := c.DefaultQuery("date", h.today())

	// Validate date format before reading; an invalid key would never match.
	if _, err := nutrition.ParseDate(date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	p, err := h.profiles.Load(c, uid)
	if err != nil {
		storeError(c, "getDaily", err)
		return
	}
	l, _, err := h.logs.Day(c, uid, date, p.MealCategories)
	if err != nil {
		storeError(c, "getDaily", err)
		return
	}

	summary := ledger.Summarize(l, p.Goals)
	summary.Date = date
	c.JSON(http.StatusOK, dailyResponse{Date: date, Log: l, Summary: summary})
}

// getWeekSummary returns one summary per day for the Monday-Sunday week
// starting at week_start. Days with nothing logged have hasData=false.
// GET /api/week-summary?week_start=YYYY-MM-DD (defaults to the current week).
func (h *Handler) getWeekSummary(c *gin.Context) {
	uid := c.GetString("user_id")

	start := ledger.Monday(h.clock.Now())
	if ws := c.Query("week_start"); ws != "" {
		t, err := nutrition.ParseDate(ws)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
			return
		}
		start = t
	}

	p, err := h.profiles.Load(c, uid)
	if err != nil {
		storeError(c, "getWeekSummary", err)
		return
	}
	logs, err := h.logs.All(c, uid)
	if err != nil {
		storeError(c, "getWeekSummary", err)
		return
	}

	days := ledger.SummarizeRange(logs, p.Goals, start, start.AddDate(0, 0, 6))
	c.JSON(http.StatusOK, weekSummaryResponse{WeekStart: nutrition.DateKey(start), Days: days})
}

/* ─── Mutations ──────────────────────────────────────────────────────── */

// mutateLog applies mutate to the log at :date, then derives rewards, badges
// and alerts from the change. Domain errors map to 400/404; the record is
// left untouched on any error.
func (h *Handler) mutateLog(c *gin.Context, fn string, status int, mutate func(nutrition.DailyLog) (nutrition.DailyLog, error)) {
	uid := c.GetString("user_id")
	date, ok := dateParam(c)
	if !ok {
		return
	}

	p, err := h.profiles.Load(c, uid)
	if err != nil {
		storeError(c, fn, err)
		return
	}

	change, err := h.logs.Update(c, uid, date, p.MealCategories, mutate)
	switch {
	case errors.Is(err, ledger.ErrInvalidEntry):
		apiError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ledger.ErrMealNotFound),
		errors.Is(err, ledger.ErrFoodNotFound),
		errors.Is(err, ledger.ErrWorkoutNotFound):
		apiError(c, http.StatusNotFound, err.Error())
		return
	case err != nil:
		storeError(c, fn, err)
		return
	}

	c.JSON(status, h.afterLogChange(c, uid, p, change))
}

// addFood appends a food item to a meal slot.
// POST /api/daily/:date/meals/:meal/foods
func (h *Handler) addFood(c *gin.Context) {
	var body foodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	meal := c.Param("meal")
	now := h.clock.Now()
	h.mutateLog(c, "addFood", http.StatusCreated, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		return ledger.AddFood(l, meal, body.food(), now)
	})
}

// editFood replaces a food item, keeping its id and creation time.
// PUT /api/daily/:date/foods/:id
func (h *Handler) editFood(c *gin.Context) {
	var body foodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	id := c.Param("id")
	h.mutateLog(c, "editFood", http.StatusOK, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		return ledger.EditFood(l, id, body.food())
	})
}

// deleteFood removes a food item from whichever meal holds it.
// DELETE /api/daily/:date/foods/:id
func (h *Handler) deleteFood(c *gin.Context) {
	id := c.Param("id")
	h.mutateLog(c, "deleteFood", http.StatusOK, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		return ledger.RemoveFood(l, id)
	})
}

// addWorkout appends a workout.
// POST /api/daily/:date/workouts
func (h *Handler) addWorkout(c *gin.Context) {
	var body workoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	w := nutrition.Workout{Name: body.Name, DurationMin: body.DurationMin, CaloriesBurned: body.CaloriesBurned}
	now := h.clock.Now()
	h.mutateLog(c, "addWorkout", http.StatusCreated, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		return ledger.AddWorkout(l, w, now)
	})
}

// deleteWorkout removes a workout.
// DELETE /api/daily/:date/workouts/:id
func (h *Handler) deleteWorkout(c *gin.Context) {
	id := c.Param("id")
	h.mutateLog(c, "deleteWorkout", http.StatusOK, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		return ledger.RemoveWorkout(l, id)
	})
}

// setWater replaces the day's water intake. Negative values clamp to 0.
// PUT /api/daily/:date/water {"ml": 1500}
func (h *Handler) setWater(c *gin.Context) {
	var body waterRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.ML == nil {
		apiError(c, http.StatusBadRequest, "ml is required")
		return
	}
	ml := *body.ML
	h.mutateLog(c, "setWater", http.StatusOK, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		return ledger.SetWater(l, ml), nil
	})
}

// addWaterGlass adds one 250 ml glass to the day's intake.
// POST /api/daily/:date/water/glass
func (h *Handler) addWaterGlass(c *gin.Context) {
	h.mutateLog(c, "addWaterGlass", http.StatusOK, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		return ledger.AddWater(l, ledger.GlassML), nil
	})
}
