package challenge

import (
	"slices"
	"time"

	"lg/calorix-api/internal/nutrition"
)

// Badge is a one-time achievement unlocked from logged data.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

var Badges = []Badge{
	{ID: "water_1", Name: "Hydrated I", Description: "Drank 2 L of water in a day.", Icon: "💧"},
	{ID: "water_2", Name: "Water Master", Description: "Drank 3 L of water in a day.", Icon: "🌊"},
	{ID: "workout_1", Name: "Beginner", Description: "Completed a first workout.", Icon: "💪"},
	{ID: "workout_2", Name: "Athlete", Description: "Burned 500 kcal in a single workout.", Icon: "🔥"},
	{ID: "consistency_1", Name: "Focused", Description: "Logged meals 3 days in a row.", Icon: "📅"},
	{ID: "consistency_2", Name: "Unstoppable", Description: "Logged meals 7 days in a row.", Icon: "🏆"},
}

// EarnedBadges lists every badge the logs qualify for on the given day,
// whether or not it is already unlocked.
func EarnedBadges(logs map[string]nutrition.DailyLog, day time.Time) []string {
	var out []string
	if l, ok := logs[nutrition.DateKey(day)]; ok {
		if l.WaterIntakeML >= 2000 {
			out = append(out, "water_1")
		}
		if l.WaterIntakeML >= 3000 {
			out = append(out, "water_2")
		}
		if len(l.Workouts) > 0 {
			out = append(out, "workout_1")
		}
		if slices.ContainsFunc(l.Workouts, func(w nutrition.Workout) bool { return w.CaloriesBurned >= 500 }) {
			out = append(out, "workout_2")
		}
	}
	streak := mealStreak(logs, day)
	if streak >= 3 {
		out = append(out, "consistency_1")
	}
	if streak >= 7 {
		out = append(out, "consistency_2")
	}
	return out
}

// mealStreak counts consecutive days ending on day with at least one food item.
func mealStreak(logs map[string]nutrition.DailyLog, day time.Time) int {
	n := 0
	for _, date := range slices.Backward(Window(day, 7)) {
		if logs[date].ItemCount() == 0 {
			break
		}
		n++
	}
	return n
}

// UnlockBadges adds the earned badges not yet held and returns the new ones.
func (a Achievements) UnlockBadges(earned []string) (Achievements, []string) {
	var fresh []string
	for _, id := range earned {
		if !slices.Contains(a.Badges, id) && !slices.Contains(fresh, id) {
			fresh = append(fresh, id)
		}
	}
	if len(fresh) == 0 {
		return a, nil
	}
	next := a.clone()
	next.Badges = append(next.Badges, fresh...)
	return next, fresh
}
