package challenge

import (
	"time"

	"lg/calorix-api/internal/fasting"
	"lg/calorix-api/internal/ledger"
	"lg/calorix-api/internal/nutrition"
)

// Input is everything progress is computed from. Nothing is read from
// storage here.
type Input struct {
	Logs        map[string]nutrition.DailyLog
	Fasts       []fasting.Log
	CalorieGoal int
	Today       time.Time
}

// Day is one date of the trailing window.
type Day struct {
	Date    string `json:"date"`
	Logged  bool   `json:"logged"`
	Success bool   `json:"success"`
}

// Progress is a challenge scored over its window.
type Progress struct {
	ChallengeID string  `json:"challengeId"`
	Days        []Day   `json:"days"`
	SuccessDays int     `json:"successDays"`
	TotalDays   int     `json:"totalDays"`
	Percent     float64 `json:"percent"`
	Tier        Tier    `json:"tier"`
}

// Window returns the n local dates ending on today, oldest first.
func Window(today time.Time, n int) []string {
	y, m, d := today.Date()
	base := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	dates := make([]string, 0, max(n, 0))
	for i := n - 1; i >= 0; i-- {
		dates = append(dates, nutrition.DateKey(base.AddDate(0, 0, -i)))
	}
	return dates
}

// ComputeProgress counts the successful days in the window of
// ch.DaysToComplete dates ending on in.Today. A day with no record never
// counts and is not an error.
//
// A fasting day counts when a fast marked completed, and lasting at least
// TargetValue hours, ended on that date. Fasts are attributed to the date in
// in.Today's location.
func ComputeProgress(ch Challenge, in Input) Progress {
	p := Progress{ChallengeID: ch.ID, TotalDays: ch.DaysToComplete, Days: []Day{}}

	var fastDays map[string]bool
	if ch.Type == TypeFasting {
		fastDays = qualifyingFastDays(in.Fasts, ch.TargetValue, in.Today.Location())
	}

	for _, date := range Window(in.Today, ch.DaysToComplete) {
		day := Day{Date: date}
		if ch.Type == TypeFasting {
			day.Logged = fastDays[date]
			day.Success = fastDays[date]
		} else if l, ok := in.Logs[date]; ok {
			day.Logged = true
			day.Success = daySucceeds(ch, l, in.CalorieGoal)
		}
		if day.Success {
			p.SuccessDays++
		}
		p.Days = append(p.Days, day)
	}

	if p.TotalDays > 0 {
		p.Percent = float64(p.SuccessDays) / float64(p.TotalDays) * 100
	}
	p.Tier = ResolveTier(p.SuccessDays, p.TotalDays)
	return p
}

func daySucceeds(ch Challenge, l nutrition.DailyLog, calorieGoal int) bool {
	switch ch.Type {
	case TypeWater:
		return float64(l.WaterIntakeML) >= ch.TargetValue
	case TypeWorkout:
		return ledger.Aggregate(l).Burned >= ch.TargetValue
	case TypeCalories:
		intake := ledger.Aggregate(l).Calories
		return intake > 0 && intake <= float64(calorieGoal)
	}
	return false
}

func qualifyingFastDays(fasts []fasting.Log, targetHours float64, loc *time.Location) map[string]bool {
	days := map[string]bool{}
	for _, f := range fasts {
		if !f.Completed {
			continue
		}
		if f.EndTime.Sub(f.StartTime).Hours() < targetHours {
			continue
		}
		days[nutrition.DateKey(f.EndTime.In(loc))] = true
	}
	return days
}
