package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/calorix-api/internal/challenge"
	"lg/calorix-api/internal/events"
)

// challengeStatus maps challenge errors to HTTP statuses.
func challengeStatus(err error) int {
	switch {
	case errors.Is(err, challenge.ErrInvalidChallenge):
		return http.StatusBadRequest
	case errors.Is(err, challenge.ErrUnknownChallenge), errors.Is(err, challenge.ErrNoActiveChallenge):
		return http.StatusNotFound
	case errors.Is(err, challenge.ErrAlreadyCompleted), errors.Is(err, challenge.ErrChallengeActive),
		errors.Is(err, challenge.ErrNoMedal):
		return http.StatusConflict
	}
	return 0
}

// updateAchievements runs fn against the stored record and writes the error
// response itself. Returns false when the caller should stop.
func (h *Handler) updateAchievements(c *gin.Context, fn string, update func(challenge.Achievements) (challenge.Achievements, error)) (challenge.Achievements, bool) {
	a, err := h.achievements.Update(c, c.GetString("user_id"), update)
	if err != nil {
		if status := challengeStatus(err); status != 0 {
			apiError(c, status, err.Error())
		} else {
			storeError(c, fn, err)
		}
		return a, false
	}
	return a, true
}

// challengeInput gathers everything progress is scored from.
func (h *Handler) challengeInput(ctx context.Context, uid string) (challenge.Input, error) {
	p, err := h.profiles.Load(ctx, uid)
	if err != nil {
		return challenge.Input{}, err
	}
	logs, err := h.logs.All(ctx, uid)
	if err != nil {
		return challenge.Input{}, err
	}
	rec, err := h.fasts.Load(ctx, uid)
	if err != nil {
		return challenge.Input{}, err
	}
	return challenge.Input{
		Logs:        logs,
		Fasts:       rec.History,
		CalorieGoal: p.Goals.Calories,
		Today:       h.clock.Now(),
	}, nil
}

// getAchievements returns points, medals, badges and challenge state.
// GET /api/achievements
func (h *Handler) getAchievements(c *gin.Context) {
	a, err := h.achievements.Load(c, c.GetString("user_id"))
	if err != nil {
		storeError(c, "getAchievements", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// getChallenges lists the challenges that can still be selected, the
// completed ids and the active challenge.
// GET /api/challenges
func (h *Handler) getChallenges(c *gin.Context) {
	a, err := h.achievements.Load(c, c.GetString("user_id"))
	if err != nil {
		storeError(c, "getChallenges", err)
		return
	}
	resp := challengesResponse{Available: a.Available(), Completed: a.CompletedChallenges}
	if ch, ok := a.Active(); ok {
		resp.Active = &ch
	}
	c.JSON(http.StatusOK, resp)
}

// createChallenge stores a user-defined challenge.
// POST /api/challenges
func (h *Handler) createChallenge(c *gin.Context) {
	var body challenge.Challenge
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var created challenge.Challenge
	if _, ok := h.updateAchievements(c, "createChallenge", func(a challenge.Achievements) (challenge.Achievements, error) {
		next, ch, err := a.CreateCustom(body)
		created = ch
		return next, err
	}); !ok {
		return
	}
	c.JSON(http.StatusCreated, created)
}

// selectChallenge makes a challenge the active one.
// POST /api/challenges/:id/select
func (h *Handler) selectChallenge(c *gin.Context) {
	id := c.Param("id")
	a, ok := h.updateAchievements(c, "selectChallenge", func(a challenge.Achievements) (challenge.Achievements, error) {
		return a.Select(id)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, a)
}

// abandonChallenge clears the active challenge without a medal.
// DELETE /api/challenges/active
func (h *Handler) abandonChallenge(c *gin.Context) {
	a, ok := h.updateAchievements(c, "abandonChallenge", func(a challenge.Achievements) (challenge.Achievements, error) {
		return a.Abandon()
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, a)
}

// getChallengeProgress scores the active challenge over its trailing window.
// GET /api/challenges/active/progress
func (h *Handler) getChallengeProgress(c *gin.Context) {
	uid := c.GetString("user_id")

	a, err := h.achievements.Load(c, uid)
	if err != nil {
		storeError(c, "getChallengeProgress", err)
		return
	}
	ch, ok := a.Active()
	if !ok {
		apiError(c, http.StatusNotFound, challenge.ErrNoActiveChallenge.Error())
		return
	}
	in, err := h.challengeInput(c, uid)
	if err != nil {
		storeError(c, "getChallengeProgress", err)
		return
	}
	c.JSON(http.StatusOK, challenge.ComputeProgress(ch, in))
}

// claimChallenge awards the medal the active challenge has earned. A claim
// is one-way: the challenge moves to completed and cannot be claimed again.
// POST /api/challenges/active/claim
func (h *Handler) claimChallenge(c *gin.Context) {
	uid := c.GetString("user_id")

	in, err := h.challengeInput(c, uid)
	if err != nil {
		storeError(c, "claimChallenge", err)
		return
	}

	var progress challenge.Progress
	a, ok := h.updateAchievements(c, "claimChallenge", func(a challenge.Achievements) (challenge.Achievements, error) {
		next, p, err := a.Claim(in)
		progress = p
		return next, err
	})
	if !ok {
		return
	}

	log.Printf("[claimChallenge] uid=%s challenge=%s tier=%s", uid, progress.ChallengeID, progress.Tier)
	h.hub.Publish(uid, events.Event{Kind: events.KindMedalClaimed, Data: progress})
	c.JSON(http.StatusOK, claimResponse{Progress: progress, Achievements: a})
}
