package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/calorix-api/internal/nutrition"
)

// getProfile returns the authenticated user's profile and goals. A user with
// no stored profile gets the defaults.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	uid := c.GetString("user_id")

	p, err := h.profiles.Load(c, uid)
	if err != nil {
		storeError(c, "getProfile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// patchProfile merges the provided fields onto the stored profile.
// PATCH /api/profile. Pointer fields in the body distinguish "not provided"
// from zero. Goals are recomputed when a physiological field changes, which
// also drops a manual goals override.
func (h *Handler) patchProfile(c *gin.Context) {
	uid := c.GetString("user_id")

	var body nutrition.ProfilePatch
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Empty() {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	p, err := h.profiles.Update(c, uid, func(p nutrition.Profile) (nutrition.Profile, error) {
		return p.Apply(body)
	})
	if errors.Is(err, nutrition.ErrInvalidProfile) {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		storeError(c, "patchProfile", err)
		return
	}

	log.Printf("[patchProfile] uid=%s calories=%d overridden=%v", uid, p.Goals.Calories, p.GoalsOverridden)
	c.JSON(http.StatusOK, p)
}

// overrideGoals replaces the derived goals with manual values. The override
// lasts until the next physiological change.
// PUT /api/profile/goals.
func (h *Handler) overrideGoals(c *gin.Context) {
	uid := c.GetString("user_id")

	var body nutrition.NutritionalGoals
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Calories <= 0 {
		apiError(c, http.StatusBadRequest, "calories must be positive")
		return
	}

	p, err := h.profiles.Update(c, uid, func(p nutrition.Profile) (nutrition.Profile, error) {
		return p.OverrideGoals(body), nil
	})
	if err != nil {
		storeError(c, "overrideGoals", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// resetGoals drops a manual override and re-derives goals from the profile.
// DELETE /api/profile/goals.
func (h *Handler) resetGoals(c *gin.Context) {
	uid := c.GetString("user_id")

	p, err := h.profiles.Update(c, uid, func(p nutrition.Profile) (nutrition.Profile, error) {
		return p.ResetGoals(), nil
	})
	if err != nil {
		storeError(c, "resetGoals", err)
		return
	}
	c.JSON(http.StatusOK, p)
}
