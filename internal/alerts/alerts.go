// Package alerts derives nudges from the current day and fasting history.
// It only decides that a notification is due; delivery is up to the caller.
package alerts

import (
	"fmt"
	"math"
	"time"

	"lg/calorix-api/internal/fasting"
	"lg/calorix-api/internal/ledger"
	"lg/calorix-api/internal/nutrition"
)

// Type is the alert category a user can toggle.
type Type string

const (
	TypeWater    Type = "water"
	TypeCalories Type = "calories"
	TypeFasting  Type = "fasting"
)

// Alert is one nudge.
type Alert struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

// Settings toggles alert types. The zero value enables nothing; use Defaults.
type Settings struct {
	Enabled bool          `json:"enabled"`
	Types   map[Type]bool `json:"types"`
}

func Defaults() Settings {
	return Settings{
		Enabled: true,
		Types:   map[Type]bool{TypeWater: true, TypeCalories: true, TypeFasting: true},
	}
}

func (s Settings) on(t Type) bool { return s.Enabled && s.Types[t] }

// Input is the state alerts are evaluated against.
type Input struct {
	Log     nutrition.DailyLog
	Goals   nutrition.NutritionalGoals
	Fasting fasting.Record
	Now     time.Time
}

// fastingRecency is how long after a qualifying fast the streak alert fires.
const fastingRecency = time.Hour

// Evaluate returns the alerts due now, in a fixed order: water, calories,
// fasting.
//
//   - water: less than one glass left to the daily target
//   - calories: food logged and at most 100 kcal left to the goal
//   - fasting: every third completed fast, within an hour of finishing it
func Evaluate(s Settings, in Input) []Alert {
	var out []Alert

	if s.on(TypeWater) {
		left := in.Goals.WaterML - in.Log.WaterIntakeML
		if left > 0 && left <= ledger.GlassML {
			out = append(out, Alert{Type: TypeWater, Message: fmt.Sprintf("Just %d ml to your water goal. One more glass!", left)})
		}
	}

	if s.on(TypeCalories) {
		intake := ledger.Aggregate(in.Log).Calories
		left := float64(in.Goals.Calories) - intake
		if intake > 0 && left > 0 && left <= 100 {
			out = append(out, Alert{Type: TypeCalories, Message: fmt.Sprintf("You are only %d kcal from today's goal.", int(math.Round(left)))})
		}
	}

	if s.on(TypeFasting) && len(in.Fasting.History) > 0 {
		n := fasting.CompletedCount(in.Fasting)
		last := in.Fasting.History[0]
		if n > 0 && n%3 == 0 && last.Completed && in.Now.Sub(last.EndTime) < fastingRecency {
			out = append(out, Alert{Type: TypeFasting, Message: fmt.Sprintf("Congratulations! You have completed %d fasts.", n)})
		}
	}
	return out
}
