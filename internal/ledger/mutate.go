package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lg/calorix-api/internal/nutrition"
)

// GlassML is the size of one countable glass of water.
const GlassML = 250

var (
	ErrMealNotFound    = errors.New("meal slot not found")
	ErrFoodNotFound    = errors.New("food item not found")
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrInvalidEntry    = errors.New("invalid entry")
)

// Every mutation below returns a fresh DailyLog and never touches its input,
// so callers can diff the previous and next record.

// AddFood appends f to the meal slot named meal. The slot name match is
// case-insensitive. A missing ID or CreatedAt is filled in.
func AddFood(l nutrition.DailyLog, meal string, f nutrition.Food, now time.Time) (nutrition.DailyLog, error) {
	if strings.TrimSpace(f.Name) == "" {
		return l, fmt.Errorf("%w: food name is required", ErrInvalidEntry)
	}
	next := l.Clone()
	for i := range next.Meals {
		if strings.EqualFold(next.Meals[i].Name, meal) {
			f = f.Sanitized()
			if f.ID == "" {
				f.ID = uuid.NewString()
			}
			if f.CreatedAt.IsZero() {
				f.CreatedAt = now
			}
			next.Meals[i].Items = append(next.Meals[i].Items, f)
			return next, nil
		}
	}
	return l, fmt.Errorf("%w: %q", ErrMealNotFound, meal)
}

// EditFood replaces the item with the given id. The replacement keeps the
// original ID and CreatedAt.
func EditFood(l nutrition.DailyLog, id string, f nutrition.Food) (nutrition.DailyLog, error) {
	if strings.TrimSpace(f.Name) == "" {
		return l, fmt.Errorf("%w: food name is required", ErrInvalidEntry)
	}
	next := l.Clone()
	for i := range next.Meals {
		for j, old := range next.Meals[i].Items {
			if old.ID != id {
				continue
			}
			f = f.Sanitized()
			f.ID = old.ID
			f.CreatedAt = old.CreatedAt
			next.Meals[i].Items[j] = f
			return next, nil
		}
	}
	return l, fmt.Errorf("%w: %s", ErrFoodNotFound, id)
}

// RemoveFood drops the item with the given id from whichever meal holds it.
func RemoveFood(l nutrition.DailyLog, id string) (nutrition.DailyLog, error) {
	next := l.Clone()
	for i := range next.Meals {
		items := next.Meals[i].Items
		for j := range items {
			if items[j].ID == id {
				next.Meals[i].Items = append(items[:j:j], items[j+1:]...)
				return next, nil
			}
		}
	}
	return l, fmt.Errorf("%w: %s", ErrFoodNotFound, id)
}

// AddWorkout appends w, filling in a missing ID or CreatedAt.
func AddWorkout(l nutrition.DailyLog, w nutrition.Workout, now time.Time) (nutrition.DailyLog, error) {
	if strings.TrimSpace(w.Name) == "" {
		return l, fmt.Errorf("%w: workout name is required", ErrInvalidEntry)
	}
	w.DurationMin = nutrition.Sanitize(w.DurationMin)
	w.CaloriesBurned = nutrition.Sanitize(w.CaloriesBurned)
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	next := l.Clone()
	next.Workouts = append(next.Workouts, w)
	return next, nil
}

// RemoveWorkout drops the workout with the given id.
func RemoveWorkout(l nutrition.DailyLog, id string) (nutrition.DailyLog, error) {
	next := l.Clone()
	for i, w := range next.Workouts {
		if w.ID == id {
			next.Workouts = append(next.Workouts[:i:i], next.Workouts[i+1:]...)
			return next, nil
		}
	}
	return l, fmt.Errorf("%w: %s", ErrWorkoutNotFound, id)
}

// SetWater replaces the day's water intake. Negative values clamp to 0.
func SetWater(l nutrition.DailyLog, ml int) nutrition.DailyLog {
	next := l.Clone()
	next.WaterIntakeML = max(ml, 0)
	return next
}

// AddWater adds delta ml (which may be negative) to the day's intake,
// never going below 0.
func AddWater(l nutrition.DailyLog, delta int) nutrition.DailyLog {
	return SetWater(l, l.WaterIntakeML+delta)
}
