package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lg/calorix-api/internal/alerts"
	"lg/calorix-api/internal/clock"
	"lg/calorix-api/internal/events"
	"lg/calorix-api/internal/fasting"
	"lg/calorix-api/internal/ledger"
)

// getFasting returns the fasting record with remaining time and progress.
// GET /api/fasting
func (h *Handler) getFasting(c *gin.Context) {
	rec, err := h.fasts.Load(c, c.GetString("user_id"))
	if err != nil {
		storeError(c, "getFasting", err)
		return
	}
	c.JSON(http.StatusOK, newFastingResponse(rec, h.clock.Now()))
}

// getFastingProtocols lists the preset fasting lengths.
// GET /api/fasting/protocols
func (h *Handler) getFastingProtocols(c *gin.Context) {
	c.JSON(http.StatusOK, fasting.Protocols)
}

// startFasting begins a fast from a preset protocol or a custom length.
// POST /api/fasting/start {"protocol": "lion"} or {"hours": 18}
func (h *Handler) startFasting(c *gin.Context) {
	uid := c.GetString("user_id")

	var body startFastingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var hours float64
	switch {
	case body.Protocol != "":
		p, ok := fasting.ProtocolByID(body.Protocol)
		if !ok {
			apiError(c, http.StatusBadRequest, "protocol must be one of: rabbit, fox, lion")
			return
		}
		hours = p.Hours
	case body.Hours != nil:
		hours = *body.Hours
	default:
		apiError(c, http.StatusBadRequest, "protocol or hours is required")
		return
	}

	now := h.clock.Now()
	rec, err := h.fasts.Update(c, uid, func(r fasting.Record) (fasting.Record, error) {
		return fasting.Start(r, hours, now)
	})
	switch {
	case errors.Is(err, fasting.ErrAlreadyFasting):
		apiError(c, http.StatusConflict, err.Error())
		return
	case errors.Is(err, fasting.ErrInvalidDuration):
		apiError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		storeError(c, "startFasting", err)
		return
	}

	resp := newFastingResponse(rec, now)
	log.Printf("[startFasting] uid=%s hours=%v", uid, hours)
	h.hub.Publish(uid, events.Event{Kind: events.KindFastingStarted, At: now, Data: resp})
	h.award(c, uid, ledger.ActionStartFasting)
	c.JSON(http.StatusOK, resp)
}

// stopFasting ends the running fast and records it in history. The body is
// optional; without "completed" the fast counts as completed only when its
// planned duration has elapsed.
// POST /api/fasting/stop
func (h *Handler) stopFasting(c *gin.Context) {
	uid := c.GetString("user_id")

	var body stopFastingRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	now := h.clock.Now()
	var entry fasting.Log
	rec, err := h.fasts.Update(c, uid, func(r fasting.Record) (fasting.Record, error) {
		completed := fasting.Remaining(r, now) == 0
		if body.Completed != nil {
			completed = *body.Completed
		}
		next, l, err := fasting.Stop(r, completed, now, uuid.NewString())
		entry = l
		return next, err
	})
	if errors.Is(err, fasting.ErrNotFasting) {
		apiError(c, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		storeError(c, "stopFasting", err)
		return
	}

	resp := newFastingResponse(rec, now)
	log.Printf("[stopFasting] uid=%s completed=%v", uid, entry.Completed)
	h.hub.Publish(uid, events.Event{Kind: events.KindFastingStopped, At: now, Data: resp.History[0]})
	if entry.Completed {
		h.award(c, uid, ledger.ActionCompleteFasting)
		h.publishFastingAlerts(c, uid, rec)
	}
	c.JSON(http.StatusOK, resp)
}

// publishFastingAlerts publishes the fasting streak alert when it is due.
func (h *Handler) publishFastingAlerts(ctx context.Context, uid string, rec fasting.Record) {
	settings, err := h.alertSettings(ctx, uid)
	if err != nil {
		log.Printf("[publishFastingAlerts] settings uid=%s: %v", uid, err)
		return
	}
	settings.Types = map[alerts.Type]bool{alerts.TypeFasting: settings.Types[alerts.TypeFasting]}
	for _, al := range alerts.Evaluate(settings, alerts.Input{Fasting: rec, Now: h.clock.Now()}) {
		h.hub.Publish(uid, events.Event{Kind: events.KindAlert, Data: al})
	}
}

// fastingCompleted is the watcher's completion callback: it runs once per
// session when the planned duration first elapses.
func (h *Handler) fastingCompleted(ctx context.Context, uid string, a fasting.Active) {
	log.Printf("[fastingCompleted] uid=%s hours=%v", uid, a.DurationHours)
	h.hub.Publish(uid, events.Event{
		Kind: events.KindFastingCompleted,
		At:   h.clock.Now(),
		Data: gin.H{
			"startTime":     clock.Millis(a.StartTime),
			"endTime":       clock.Millis(a.EndTime),
			"durationHours": a.DurationHours,
			"protocol":      fasting.ProtocolFor(a.DurationHours),
		},
	})
}
