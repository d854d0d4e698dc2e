// Package ledger turns a day's logged meals, water and workouts into totals
// and a remaining calorie budget, and applies whole-record mutations to a
// DailyLog.
package ledger

import (
	"math"
	"time"

	"lg/calorix-api/internal/nutrition"
)

// Totals is the sum of every food item and workout in a DailyLog.
// Micronutrients only holds keys that appear on at least one item.
type Totals struct {
	Calories       float64            `json:"calories"`
	ProteinG       float64            `json:"protein"`
	CarbsG         float64            `json:"carbs"`
	FatG           float64            `json:"fat"`
	Burned         float64            `json:"burned"`
	Micronutrients map[string]float64 `json:"micronutrients"`
}

// Aggregate sums a log. Values are sanitized so a corrupt record can never
// feed NaN into the budget.
func Aggregate(l nutrition.DailyLog) Totals {
	t := Totals{Micronutrients: map[string]float64{}}
	for _, m := range l.Meals {
		for _, f := range m.Items {
			t.Calories += nutrition.Sanitize(f.Calories)
			t.ProteinG += nutrition.Sanitize(f.ProteinG)
			t.CarbsG += nutrition.Sanitize(f.CarbsG)
			t.FatG += nutrition.Sanitize(f.FatG)
			for k, v := range f.Micronutrients {
				t.Micronutrients[k] += nutrition.Sanitize(v)
			}
		}
	}
	for _, w := range l.Workouts {
		t.Burned += nutrition.Sanitize(w.CaloriesBurned)
	}
	return t
}

// Summary is a day's totals against the user's goals.
// Remaining is signed: negative means over budget.
type Summary struct {
	Date             string                     `json:"date"`
	HasData          bool                       `json:"hasData"`
	Goals            nutrition.NutritionalGoals `json:"goals"`
	Totals           Totals                     `json:"totals"`
	Intake           int                        `json:"intake"`
	Burned           int                        `json:"burned"`
	Net              int                        `json:"net"`
	Remaining        int                        `json:"remaining"`
	WaterML          int                        `json:"water"`
	WaterRemainingML int                        `json:"waterRemaining"`
}

// Summarize computes net = intake - burned and remaining = goal - net.
func Summarize(l nutrition.DailyLog, goals nutrition.NutritionalGoals) Summary {
	t := Aggregate(l)
	intake := int(math.Round(t.Calories))
	burned := int(math.Round(t.Burned))
	net := intake - burned
	water := max(l.WaterIntakeML, 0)
	return Summary{
		HasData:          l.ItemCount() > 0 || len(l.Workouts) > 0 || water > 0,
		Goals:            goals,
		Totals:           t,
		Intake:           intake,
		Burned:           burned,
		Net:              net,
		Remaining:        goals.Calories - net,
		WaterML:          water,
		WaterRemainingML: max(goals.WaterML-water, 0),
	}
}

// SummarizeRange returns one Summary per date from start to end inclusive.
// Dates with no stored log are summarized as empty logs with HasData false.
func SummarizeRange(logs map[string]nutrition.DailyLog, goals nutrition.NutritionalGoals, start, end time.Time) []Summary {
	var out []Summary
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := nutrition.DateKey(d)
		s := Summarize(logs[key], goals)
		s.Date = key
		out = append(out, s)
	}
	return out
}

// Monday returns midnight of the Monday on or before t, in t's location.
func Monday(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
