package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/calorix-api/internal/alerts"
	"lg/calorix-api/internal/nutrition"
	"lg/calorix-api/internal/store"
)

func (h *Handler) alertSettings(ctx context.Context, uid string) (alerts.Settings, error) {
	s, err := store.GetJSON(ctx, h.store, store.AlertsKey(uid), alerts.Defaults())
	if err != nil {
		return alerts.Settings{}, err
	}
	if s.Types == nil {
		s.Types = map[alerts.Type]bool{}
	}
	return s, nil
}

// evaluateAlerts returns the alerts due for today's log. Lookup failures are
// logged and produce no alerts.
func (h *Handler) evaluateAlerts(ctx context.Context, uid string, l nutrition.DailyLog, goals nutrition.NutritionalGoals) []alerts.Alert {
	settings, err := h.alertSettings(ctx, uid)
	if err != nil {
		log.Printf("[evaluateAlerts] settings uid=%s: %v", uid, err)
		return []alerts.Alert{}
	}
	rec, err := h.fasts.Load(ctx, uid)
	if err != nil {
		log.Printf("[evaluateAlerts] fasting uid=%s: %v", uid, err)
		return []alerts.Alert{}
	}
	out := alerts.Evaluate(settings, alerts.Input{Log: l, Goals: goals, Fasting: rec, Now: h.clock.Now()})
	if out == nil {
		out = []alerts.Alert{}
	}
	return out
}

// getAlerts returns the alerts currently due for today.
// GET /api/alerts
func (h *Handler) getAlerts(c *gin.Context) {
	uid := c.GetString("user_id")

	p, err := h.profiles.Load(c, uid)
	if err != nil {
		storeError(c, "getAlerts", err)
		return
	}
	l, _, err := h.logs.Day(c, uid, h.today(), p.MealCategories)
	if err != nil {
		storeError(c, "getAlerts", err)
		return
	}
	c.JSON(http.StatusOK, h.evaluateAlerts(c, uid, l, p.Goals))
}

// getAlertSettings returns which alert types are enabled.
// GET /api/alerts/settings
func (h *Handler) getAlertSettings(c *gin.Context) {
	s, err := h.alertSettings(c, c.GetString("user_id"))
	if err != nil {
		storeError(c, "getAlertSettings", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// putAlertSettings replaces the alert settings.
// PUT /api/alerts/settings {"enabled": true, "types": {"water": false}}
func (h *Handler) putAlertSettings(c *gin.Context) {
	var body alerts.Settings
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	for t := range body.Types {
		switch t {
		case alerts.TypeWater, alerts.TypeCalories, alerts.TypeFasting:
		default:
			apiError(c, http.StatusBadRequest, "types must be water, calories or fasting")
			return
		}
	}
	if body.Types == nil {
		body.Types = map[alerts.Type]bool{}
	}
	if err := store.SetJSON(c, h.store, store.AlertsKey(c.GetString("user_id")), body); err != nil {
		storeError(c, "putAlertSettings", err)
		return
	}
	c.JSON(http.StatusOK, body)
}
