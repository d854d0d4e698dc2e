package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"lg/calorix-api/internal/alerts"
	"lg/calorix-api/internal/challenge"
	"lg/calorix-api/internal/events"
	"lg/calorix-api/internal/ledger"
	"lg/calorix-api/internal/nutrition"
)

// afterLogChange credits the rewards of a log change, unlocks badges and
// evaluates alerts for today. The log write has already succeeded, so
// failures here are logged and never fail the request.
func (h *Handler) afterLogChange(ctx context.Context, uid string, p nutrition.Profile, change ledger.Change) logChangeResponse {
	summary := ledger.Summarize(change.Next, p.Goals)
	summary.Date = change.Date
	resp := logChangeResponse{
		dailyResponse: dailyResponse{Date: change.Date, Log: change.Next, Summary: summary},
		Rewards:       ledger.Rewards(change),
		Badges:        []string{},
		Alerts:        []alerts.Alert{},
	}
	if resp.Rewards == nil {
		resp.Rewards = []ledger.Reward{}
	}

	var earned []string
	if logs, err := h.logs.All(ctx, uid); err != nil {
		log.Printf("[afterLogChange] load logs uid=%s: %v", uid, err)
	} else if day, err := nutrition.ParseDate(change.Date); err == nil {
		earned = challenge.EarnedBadges(logs, day)
	}

	total := ledger.Total(resp.Rewards)
	var fresh []string
	a, err := h.achievements.Update(ctx, uid, func(a challenge.Achievements) (challenge.Achievements, error) {
		a = a.AddPoints(total)
		a, fresh = a.UnlockBadges(earned)
		return a, nil
	})
	if err != nil {
		log.Printf("[afterLogChange] save achievements uid=%s: %v", uid, err)
		fresh = nil
	}
	resp.Points = a.Points
	if total > 0 {
		h.hub.Publish(uid, events.Event{Kind: events.KindPointsEarned, Data: gin.H{"rewards": resp.Rewards, "total": a.Points}})
	}
	for _, id := range fresh {
		resp.Badges = append(resp.Badges, id)
		h.hub.Publish(uid, events.Event{Kind: events.KindBadgeUnlocked, Data: badgeByID(id)})
	}

	if change.Date == h.today() {
		resp.Alerts = h.evaluateAlerts(ctx, uid, change.Next, p.Goals)
		for _, al := range resp.Alerts {
			h.hub.Publish(uid, events.Event{Kind: events.KindAlert, Data: al})
		}
	}
	return resp
}

// award credits a single reward and publishes it. Returns the new point
// total, or 0 when the achievements record could not be updated.
func (h *Handler) award(ctx context.Context, uid string, action ledger.Action) int {
	r := ledger.Reward{Action: action, Points: ledger.Points[action]}
	a, err := h.achievements.AddPoints(ctx, uid, r.Points)
	if err != nil {
		log.Printf("[award] uid=%s action=%s: %v", uid, action, err)
		return 0
	}
	h.hub.Publish(uid, events.Event{Kind: events.KindPointsEarned, Data: gin.H{"rewards": []ledger.Reward{r}, "total": a.Points}})
	return a.Points
}

func badgeByID(id string) challenge.Badge {
	for _, b := range challenge.Badges {
		if b.ID == id {
			return b
		}
	}
	return challenge.Badge{ID: id}
}
