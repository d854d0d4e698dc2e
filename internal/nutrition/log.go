package nutrition

import (
	"fmt"
	"strings"
	"time"
)

// FoodCategory groups food items for display and filtering.
type FoodCategory string

const (
	CategoryFruits    FoodCategory = "fruits"
	CategoryLegumes   FoodCategory = "legumes"
	CategoryGreens    FoodCategory = "greens"
	CategoryGrains    FoodCategory = "grains"
	CategoryMeats     FoodCategory = "meats"
	CategoryDairy     FoodCategory = "dairy"
	CategoryProcessed FoodCategory = "processed"
	CategoryDrinks    FoodCategory = "drinks"
	CategoryOther     FoodCategory = "other"
)

var validCategories = map[FoodCategory]bool{
	CategoryFruits: true, CategoryLegumes: true, CategoryGreens: true,
	CategoryGrains: true, CategoryMeats: true, CategoryDairy: true,
	CategoryProcessed: true, CategoryDrinks: true, CategoryOther: true,
}

// Portuguese category names found in older records and provider output.
var legacyCategories = map[FoodCategory]FoodCategory{
	"frutas":           CategoryFruits,
	"legumes":          CategoryLegumes,
	"verduras":         CategoryGreens,
	"grãos":            CategoryGrains,
	"carnes":           CategoryMeats,
	"laticínios":       CategoryDairy,
	"industrializados": CategoryProcessed,
	"bebidas":          CategoryDrinks,
	"outros":           CategoryOther,
}

// NormalizeCategory maps legacy names to their identifier and unknown or
// empty categories to CategoryOther.
func NormalizeCategory(c FoodCategory) FoodCategory {
	c = FoodCategory(strings.ToLower(strings.TrimSpace(string(c))))
	if validCategories[c] {
		return c
	}
	if mapped, ok := legacyCategories[c]; ok {
		return mapped
	}
	return CategoryOther
}

// Food is one logged item. It is replaced by ID on edit, never mutated.
type Food struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Category       FoodCategory       `json:"category"`
	Calories       float64            `json:"calories"`
	ProteinG       float64            `json:"protein"`
	CarbsG         float64            `json:"carbs"`
	FatG           float64            `json:"fat"`
	ServingSize    string             `json:"servingSize"`
	Micronutrients map[string]float64 `json:"micronutrients,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// Sanitized returns f with every numeric field coerced through Sanitize.
func (f Food) Sanitized() Food {
	f.Calories = Sanitize(f.Calories)
	f.ProteinG = Sanitize(f.ProteinG)
	f.CarbsG = Sanitize(f.CarbsG)
	f.FatG = Sanitize(f.FatG)
	f.Category = NormalizeCategory(f.Category)
	if f.Micronutrients != nil {
		m := make(map[string]float64, len(f.Micronutrients))
		for k, v := range f.Micronutrients {
			m[k] = Sanitize(v)
		}
		f.Micronutrients = m
	}
	return f
}

// Meal is a named slot holding food items in logging order.
type Meal struct {
	Name  string `json:"name"`
	Items []Food `json:"items"`
}

// Workout is one logged exercise session.
type Workout struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	DurationMin    float64   `json:"durationMinutes"`
	CaloriesBurned float64   `json:"caloriesBurned"`
	CreatedAt      time.Time `json:"createdAt"`
}

// DailyLog is everything logged for one calendar date.
type DailyLog struct {
	Meals         []Meal    `json:"meals"`
	WaterIntakeML int       `json:"waterIntake"`
	Workouts      []Workout `json:"workouts"`
}

// NewDailyLog returns an empty log with one empty slot per category.
func NewDailyLog(categories []MealCategory) DailyLog {
	if len(categories) == 0 {
		categories = DefaultMealCategories
	}
	meals := make([]Meal, len(categories))
	for i, c := range categories {
		meals[i] = Meal{Name: c.Name, Items: []Food{}}
	}
	return DailyLog{Meals: meals, Workouts: []Workout{}}
}

// Clone deep-copies the log so a mutation never aliases the stored record.
func (l DailyLog) Clone() DailyLog {
	out := DailyLog{
		Meals:         make([]Meal, len(l.Meals)),
		WaterIntakeML: l.WaterIntakeML,
		Workouts:      append([]Workout{}, l.Workouts...),
	}
	for i, m := range l.Meals {
		out.Meals[i] = Meal{Name: m.Name, Items: append([]Food{}, m.Items...)}
	}
	return out
}

// WithSlots returns a copy of l that has a slot for every category, in
// category order. Slots for categories that no longer exist keep their items
// and follow the configured ones.
func (l DailyLog) WithSlots(categories []MealCategory) DailyLog {
	if len(categories) == 0 {
		categories = DefaultMealCategories
	}
	src := l.Clone()
	byName := make(map[string]Meal, len(src.Meals))
	for _, m := range src.Meals {
		byName[m.Name] = m
	}

	out := src
	out.Meals = make([]Meal, 0, len(categories))
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		m, ok := byName[c.Name]
		if !ok {
			m = Meal{Name: c.Name, Items: []Food{}}
		}
		out.Meals = append(out.Meals, m)
		seen[c.Name] = true
	}
	for _, m := range src.Meals {
		if !seen[m.Name] && len(m.Items) > 0 {
			out.Meals = append(out.Meals, m)
		}
	}
	return out
}

// ItemCount is the number of food items across all meals.
func (l DailyLog) ItemCount() int {
	n := 0
	for _, m := range l.Meals {
		n += len(m.Items)
	}
	return n
}

// DateLayout is the calendar-date key format for daily logs.
const DateLayout = "2006-01-02"

// DateKey formats t as a local calendar date.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate validates a YYYY-MM-DD key.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
