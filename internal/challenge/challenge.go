// Package challenge scores multi-day challenges from daily logs and fasting
// history, and tracks medals, badges and points per user.
package challenge

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Type selects the success predicate evaluated for each day.
type Type string

const (
	TypeWater    Type = "water"
	TypeWorkout  Type = "workout"
	TypeCalories Type = "calories"
	TypeFasting  Type = "fasting"
)

func (t Type) valid() bool {
	switch t {
	case TypeWater, TypeWorkout, TypeCalories, TypeFasting:
		return true
	}
	return false
}

// Challenge is a target held for DaysToComplete consecutive days.
// TargetValue is ml for water, kcal burned for workout and hours for fasting;
// calorie challenges use the user's own calorie goal instead.
type Challenge struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Icon           string  `json:"icon,omitempty"`
	Type           Type    `json:"type"`
	TargetValue    float64 `json:"targetValue"`
	DaysToComplete int     `json:"daysToComplete"`
	IsCustom       bool    `json:"isCustom,omitempty"`
}

// Weekly are the built-in challenges every user can pick.
var Weekly = []Challenge{
	{
		ID:             "h2o_hero",
		Title:          "Hydration Hero",
		Description:    "Drink 2.5 L of water a day for 7 days.",
		Icon:           "💧",
		Type:           TypeWater,
		TargetValue:    2500,
		DaysToComplete: 7,
	},
	{
		ID:             "workout_warrior",
		Title:          "Workout Warrior",
		Description:    "Burn at least 300 kcal in workouts a day for 5 days.",
		Icon:           "🏋️",
		Type:           TypeWorkout,
		TargetValue:    300,
		DaysToComplete: 5,
	},
	{
		ID:             "calorie_commander",
		Title:          "Calorie Commander",
		Description:    "Stay within your calorie goal for 7 days in a row.",
		Icon:           "⚖️",
		Type:           TypeCalories,
		TargetValue:    1,
		DaysToComplete: 7,
	},
	{
		ID:             "fasting_fanatic",
		Title:          "Fasting Fanatic",
		Description:    "Complete a fast of at least 14 h on 3 days.",
		Icon:           "⏳",
		Type:           TypeFasting,
		TargetValue:    14,
		DaysToComplete: 3,
	},
}

// Tier is the medal a claim awards.
type Tier string

const (
	TierGold   Tier = "gold"
	TierSilver Tier = "silver"
	TierBronze Tier = "bronze"
	TierNone   Tier = "none"
)

// ResolveTier maps a success ratio to a medal: gold at 100%, silver from 80%,
// bronze from 50%.
func ResolveTier(success, total int) Tier {
	if total <= 0 {
		return TierNone
	}
	ratio := float64(success) / float64(total)
	switch {
	case ratio >= 1:
		return TierGold
	case ratio >= 0.8:
		return TierSilver
	case ratio >= 0.5:
		return TierBronze
	default:
		return TierNone
	}
}

var (
	ErrUnknownChallenge  = errors.New("unknown challenge")
	ErrAlreadyCompleted  = errors.New("challenge already completed")
	ErrChallengeActive   = errors.New("another challenge is already active")
	ErrNoActiveChallenge = errors.New("no active challenge")
	ErrNoMedal           = errors.New("not enough successful days for a medal")
	ErrInvalidChallenge  = errors.New("invalid challenge")
)

// MaxDays bounds a custom challenge's window.
const MaxDays = 90

// Validate checks a user-defined challenge before it is stored.
func (c Challenge) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Title) == "" {
		problems = append(problems, "title is required")
	}
	if !c.Type.valid() {
		problems = append(problems, "type must be one of: water, workout, calories, fasting")
	}
	if math.IsNaN(c.TargetValue) || math.IsInf(c.TargetValue, 0) || c.TargetValue <= 0 {
		problems = append(problems, "targetValue must be a positive number")
	}
	if c.DaysToComplete < 1 || c.DaysToComplete > MaxDays {
		problems = append(problems, fmt.Sprintf("daysToComplete must be between 1 and %d", MaxDays))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidChallenge, strings.Join(problems, "; "))
	}
	return nil
}
