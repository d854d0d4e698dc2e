package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/calorix-api/internal/challenge"
	"lg/calorix-api/internal/clock"
	"lg/calorix-api/internal/events"
	"lg/calorix-api/internal/fasting"
	"lg/calorix-api/internal/ledger"
	"lg/calorix-api/internal/nutrition"
	"lg/calorix-api/internal/photo"
	"lg/calorix-api/internal/store"
)

// Handler holds shared dependencies (store, repositories, clock, providers)
// for all route handlers.
type Handler struct {
	store        store.Store
	clock        clock.Clock
	profiles     *nutrition.Repository
	logs         *ledger.Repository
	fasts        *fasting.Repository
	achievements *challenge.Repository
	analyzer     photo.Analyzer // Food photo provider (mocked in tests)
	hub          *events.Hub
}

func newHandler(s store.Store, clk clock.Clock, analyzer photo.Analyzer, hub *events.Hub) *Handler {
	return &Handler{
		store:        s,
		clock:        clk,
		profiles:     nutrition.NewRepository(s),
		logs:         ledger.NewRepository(s),
		fasts:        fasting.NewRepository(s),
		achievements: challenge.NewRepository(s),
		analyzer:     analyzer,
		hub:          hub,
	}
}

/* ─── Shared helpers ─────────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// storeError logs a persistence failure and answers 500. The underlying error
// is not exposed to the client.
func storeError(c *gin.Context, fn string, err error) {
	log.Printf("[%s] store error: %v", fn, err)
	apiError(c, http.StatusInternalServerError, "storage unavailable")
}

// today is the current local date as YYYY-MM-DD.
func (h *Handler) today() string {
	return nutrition.DateKey(h.clock.Now())
}

// dateParam reads and validates the :date path parameter. Writes a 400 and
// returns false when the value is not a YYYY-MM-DD date.
func dateParam(c *gin.Context) (string, bool) {
	date := c.Param("date")
	if _, err := nutrition.ParseDate(date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return "", false
	}
	return date, true
}

/* ─── Routes ─────────────────────────────────────────────────────────── */

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())

	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
	api.PUT("/profile/goals", h.overrideGoals)
	api.DELETE("/profile/goals", h.resetGoals)
	api.GET("/goals/preview", h.previewGoals)

	api.GET("/daily", h.getDaily)
	api.GET("/week-summary", h.getWeekSummary)
	api.POST("/daily/:date/meals/:meal/foods", h.addFood)
	api.PUT("/daily/:date/foods/:id", h.editFood)
	api.DELETE("/daily/:date/foods/:id", h.deleteFood)
	api.POST("/daily/:date/workouts", h.addWorkout)
	api.DELETE("/daily/:date/workouts/:id", h.deleteWorkout)
	api.PUT("/daily/:date/water", h.setWater)
	api.POST("/daily/:date/water/glass", h.addWaterGlass)

	api.GET("/fasting", h.getFasting)
	api.GET("/fasting/protocols", h.getFastingProtocols)
	api.POST("/fasting/start", h.startFasting)
	api.POST("/fasting/stop", h.stopFasting)

	api.GET("/achievements", h.getAchievements)
	api.GET("/challenges", h.getChallenges)
	api.POST("/challenges", h.createChallenge)
	api.POST("/challenges/:id/select", h.selectChallenge)
	api.DELETE("/challenges/active", h.abandonChallenge)
	api.GET("/challenges/active/progress", h.getChallengeProgress)
	api.POST("/challenges/active/claim", h.claimChallenge)

	api.GET("/alerts", h.getAlerts)
	api.GET("/alerts/settings", h.getAlertSettings)
	api.PUT("/alerts/settings", h.putAlertSettings)

	api.POST("/food/analyze", h.analyzeFood)
	api.GET("/events", h.streamEvents)
}
