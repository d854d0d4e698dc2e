package main

import (
	"time"

	"lg/calorix-api/internal/alerts"
	"lg/calorix-api/internal/challenge"
	"lg/calorix-api/internal/clock"
	"lg/calorix-api/internal/fasting"
	"lg/calorix-api/internal/ledger"
	"lg/calorix-api/internal/nutrition"
	"lg/calorix-api/internal/photo"
)

/* ─── Request bodies ─────────────────────────────────────────────────── */

// foodRequest is the body for adding or replacing a food item. IDs and
// timestamps are assigned server-side.
type foodRequest struct {
	Name           string                 `json:"name"`
	Category       nutrition.FoodCategory `json:"category"`
	Calories       float64                `json:"calories"`
	ProteinG       float64                `json:"protein"`
	CarbsG         float64                `json:"carbs"`
	FatG           float64                `json:"fat"`
	ServingSize    string                 `json:"servingSize"`
	Micronutrients map[string]float64     `json:"micronutrients"`
}

func (r foodRequest) food() nutrition.Food {
	return nutrition.Food{
		Name:           r.Name,
		Category:       r.Category,
		Calories:       r.Calories,
		ProteinG:       r.ProteinG,
		CarbsG:         r.CarbsG,
		FatG:           r.FatG,
		ServingSize:    r.ServingSize,
		Micronutrients: r.Micronutrients,
	}
}

type workoutRequest struct {
	Name           string  `json:"name"`
	DurationMin    float64 `json:"durationMinutes"`
	CaloriesBurned float64 `json:"caloriesBurned"`
}

// waterRequest sets the day's total intake. Pointer so a missing field is
// distinguishable from 0.
type waterRequest struct {
	ML *int `json:"ml"`
}

// startFastingRequest takes either a preset protocol id or a custom
// duration in hours.
type startFastingRequest struct {
	Protocol string   `json:"protocol"`
	Hours    *float64 `json:"hours"`
}

// stopFastingRequest marks how the fast ended. When Completed is omitted the
// fast counts as completed only if its planned duration has elapsed.
type stopFastingRequest struct {
	Completed *bool `json:"completed"`
}

/* ─── Responses ──────────────────────────────────────────────────────── */

type dailyResponse struct {
	Date    string             `json:"date"`
	Log     nutrition.DailyLog `json:"log"`
	Summary ledger.Summary     `json:"summary"`
}

// logChangeResponse is returned by every daily-log mutation.
type logChangeResponse struct {
	dailyResponse
	Rewards []ledger.Reward `json:"rewards"`
	Points  int             `json:"points"`
	Badges  []string        `json:"newBadges"`
	Alerts  []alerts.Alert  `json:"alerts"`
}

type weekSummaryResponse struct {
	WeekStart string           `json:"week_start"`
	Days      []ledger.Summary `json:"days"`
}

type fastingLogResponse struct {
	ID             string  `json:"id"`
	StartTime      int64   `json:"startTime"`
	EndTime        int64   `json:"endTime"`
	TargetDuration float64 `json:"targetDuration"`
	Completed      bool    `json:"completed"`
}

// fastingResponse is the fasting record plus derived countdown fields.
// Times are epoch milliseconds.
type fastingResponse struct {
	IsFasting      bool                 `json:"isFasting"`
	StartTime      *int64               `json:"startTime"`
	EndTime        *int64               `json:"endTime"`
	DurationHours  float64              `json:"durationHours"`
	Protocol       *fasting.Protocol    `json:"protocol"`
	RemainingMS    int64                `json:"remainingMs"`
	Progress       float64              `json:"progress"`
	CompletedFasts int                  `json:"completedFasts"`
	History        []fastingLogResponse `json:"history"`
}

func newFastingResponse(r fasting.Record, now time.Time) fastingResponse {
	resp := fastingResponse{
		RemainingMS:    fasting.Remaining(r, now).Milliseconds(),
		Progress:       fasting.Progress(r, now),
		CompletedFasts: fasting.CompletedCount(r),
		History:        make([]fastingLogResponse, 0, len(r.History)),
	}
	if a, ok := r.Active(); ok {
		start, end := clock.Millis(a.StartTime), clock.Millis(a.EndTime)
		p := fasting.ProtocolFor(a.DurationHours)
		resp.IsFasting = true
		resp.StartTime = &start
		resp.EndTime = &end
		resp.DurationHours = a.DurationHours
		resp.Protocol = &p
	}
	for _, l := range r.History {
		resp.History = append(resp.History, fastingLogResponse{
			ID:             l.ID,
			StartTime:      clock.Millis(l.StartTime),
			EndTime:        clock.Millis(l.EndTime),
			TargetDuration: l.TargetHours,
			Completed:      l.Completed,
		})
	}
	return resp
}

type challengesResponse struct {
	Available []challenge.Challenge `json:"available"`
	Completed []string              `json:"completed"`
	Active    *challenge.Challenge  `json:"active"`
}

type claimResponse struct {
	Progress     challenge.Progress     `json:"progress"`
	Achievements challenge.Achievements `json:"achievements"`
}

type analyzeResponse struct {
	photo.Result
	// Logged is set when the estimates were added to a meal.
	Logged *logChangeResponse `json:"logged,omitempty"`
}
