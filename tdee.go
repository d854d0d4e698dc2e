package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lg/calorix-api/internal/nutrition"
)

// parseActivityLevel accepts either a level name (sedentary, light, moderate,
// active, very_active) or the multiplier itself.
func parseActivityLevel(s string) (float64, error) {
	if m, ok := nutrition.ActivityMultipliers[s]; ok {
		return m, nil
	}
	m, err := strconv.ParseFloat(s, 64)
	if err != nil || !nutrition.ValidActivityLevel(m) {
		return 0, fmt.Errorf("activity must be one of: sedentary, light, moderate, active, very_active")
	}
	return m, nil
}

// previewPatch builds a ProfilePatch from query parameters. Parameters that
// are absent stay nil.
func previewPatch(c *gin.Context) (nutrition.ProfilePatch, error) {
	var pp nutrition.ProfilePatch
	if v, ok := c.GetQuery("sex"); ok {
		sex := nutrition.Sex(v)
		pp.Sex = &sex
	}
	if v, ok := c.GetQuery("goal"); ok {
		goal := nutrition.GoalType(v)
		pp.Goal = &goal
	}
	if v, ok := c.GetQuery("age"); ok {
		age, err := strconv.Atoi(v)
		if err != nil {
			return pp, errors.New("age must be a whole number")
		}
		pp.Age = &age
	}
	for _, f := range []struct {
		key string
		dst **float64
	}{{"weight", &pp.WeightKG}, {"height", &pp.HeightCM}} {
		v, ok := c.GetQuery(f.key)
		if !ok {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return pp, fmt.Errorf("%s must be a number", f.key)
		}
		*f.dst = &n
	}
	if v, ok := c.GetQuery("activity"); ok {
		m, err := parseActivityLevel(v)
		if err != nil {
			return pp, err
		}
		pp.ActivityLevel = &m
	}
	return pp, nil
}

// previewGoals computes the goals the stored profile would have with the
// query parameters applied. Nothing is saved.
// GET /api/goals/preview?sex=&age=&weight=&height=&activity=&goal=
func (h *Handler) previewGoals(c *gin.Context) {
	uid := c.GetString("user_id")

	pp, err := previewPatch(c)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.profiles.Load(c, uid)
	if err != nil {
		storeError(c, "previewGoals", err)
		return
	}
	next, err := p.Apply(pp)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, nutrition.ComputeGoals(next))
}
