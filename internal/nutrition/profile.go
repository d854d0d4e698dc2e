package nutrition

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sex drives the BMR constant and the iron / vitamin C targets.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// GoalType shifts target calories away from TDEE.
type GoalType string

const (
	GoalLose     GoalType = "lose"
	GoalMaintain GoalType = "maintain"
	GoalGain     GoalType = "gain"
)

// ActivityMultipliers maps activity level names to their TDEE multiplier.
// The multiplier is what a Profile stores; the names exist for CLI and API
// input.
var ActivityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// ValidActivityLevel reports whether m is one of the known multipliers.
func ValidActivityLevel(m float64) bool {
	for _, v := range ActivityMultipliers {
		if v == m {
			return true
		}
	}
	return false
}

// ErrInvalidProfile wraps every validation failure from Apply.
var ErrInvalidProfile = errors.New("invalid profile")

// MealCategory is one configured meal slot.
type MealCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultMealCategories are the slots a new profile starts with.
var DefaultMealCategories = []MealCategory{
	{ID: "1", Name: "Breakfast"},
	{ID: "2", Name: "Lunch"},
	{ID: "3", Name: "Dinner"},
	{ID: "4", Name: "Snack"},
}

// Profile is the physiological record goals are derived from. Goals is kept
// in sync by Apply unless GoalsOverridden is set by a manual override.
type Profile struct {
	Name            string           `json:"name"`
	Sex             Sex              `json:"sex"`
	Age             int              `json:"age"`
	WeightKG        float64          `json:"weight"`
	HeightCM        float64          `json:"height"`
	ActivityLevel   float64          `json:"activityLevel"`
	Goal            GoalType         `json:"goal"`
	MealCategories  []MealCategory   `json:"mealCategories"`
	Goals           NutritionalGoals `json:"goals"`
	GoalsOverridden bool             `json:"goalsOverridden"`
}

// DefaultProfile is the canonical base every partial update merges onto when
// the user has no stored profile yet.
func DefaultProfile() Profile {
	p := Profile{
		Sex:            SexOther,
		Age:            30,
		WeightKG:       70,
		HeightCM:       170,
		ActivityLevel:  ActivityMultipliers["sedentary"],
		Goal:           GoalMaintain,
		MealCategories: append([]MealCategory(nil), DefaultMealCategories...),
	}
	p.Goals = ComputeGoals(p)
	return p
}

// ProfilePatch is a typed partial update: nil fields keep their current value.
type ProfilePatch struct {
	Name          *string   `json:"name"`
	Sex           *Sex      `json:"sex"`
	Age           *int      `json:"age"`
	WeightKG      *float64  `json:"weight"`
	HeightCM      *float64  `json:"height"`
	ActivityLevel *float64  `json:"activityLevel"`
	Goal          *GoalType `json:"goal"`
}

// Empty reports whether the patch changes nothing.
func (pp ProfilePatch) Empty() bool {
	return pp.Name == nil && pp.Sex == nil && pp.Age == nil && pp.WeightKG == nil &&
		pp.HeightCM == nil && pp.ActivityLevel == nil && pp.Goal == nil
}

func (pp ProfilePatch) validate() error {
	var problems []string
	if pp.Sex != nil {
		switch *pp.Sex {
		case SexMale, SexFemale, SexOther:
		default:
			problems = append(problems, "sex must be one of: male, female, other")
		}
	}
	if pp.Goal != nil {
		switch *pp.Goal {
		case GoalLose, GoalMaintain, GoalGain:
		default:
			problems = append(problems, "goal must be one of: lose, maintain, gain")
		}
	}
	if pp.Age != nil && (*pp.Age < 0 || *pp.Age > 130) {
		problems = append(problems, "age must be between 0 and 130")
	}
	if pp.WeightKG != nil && !positiveFinite(*pp.WeightKG) {
		problems = append(problems, "weight must be a positive number")
	}
	if pp.HeightCM != nil && !positiveFinite(*pp.HeightCM) {
		problems = append(problems, "height must be a positive number")
	}
	if pp.ActivityLevel != nil && !ValidActivityLevel(*pp.ActivityLevel) {
		problems = append(problems, "activityLevel must be one of: 1.2, 1.375, 1.55, 1.725, 1.9")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(problems, "; "))
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Apply merges the patch onto p and returns the new profile. Goals are
// recomputed, and any manual override dropped, when a field that feeds
// ComputeGoals changed.
func (p Profile) Apply(pp ProfilePatch) (Profile, error) {
	if err := pp.validate(); err != nil {
		return p, err
	}

	next := p
	next.MealCategories = append([]MealCategory(nil), p.MealCategories...)
	if len(next.MealCategories) == 0 {
		next.MealCategories = append([]MealCategory(nil), DefaultMealCategories...)
	}

	if pp.Name != nil {
		next.Name = *pp.Name
	}
	if pp.Sex != nil {
		next.Sex = *pp.Sex
	}
	if pp.Age != nil {
		next.Age = *pp.Age
	}
	if pp.WeightKG != nil {
		next.WeightKG = *pp.WeightKG
	}
	if pp.HeightCM != nil {
		next.HeightCM = *pp.HeightCM
	}
	if pp.ActivityLevel != nil {
		next.ActivityLevel = *pp.ActivityLevel
	}
	if pp.Goal != nil {
		next.Goal = *pp.Goal
	}

	if physiologyChanged(p, next) {
		next.Goals = ComputeGoals(next)
		next.GoalsOverridden = false
	}
	return next, nil
}

func physiologyChanged(a, b Profile) bool {
	return a.Sex != b.Sex || a.Age != b.Age || a.WeightKG != b.WeightKG ||
		a.HeightCM != b.HeightCM || a.ActivityLevel != b.ActivityLevel || a.Goal != b.Goal
}

// OverrideGoals replaces the derived goals with manual ones. The override
// lasts until the next physiological change. A nil micronutrient map keeps
// the current micronutrient targets.
func (p Profile) OverrideGoals(g NutritionalGoals) Profile {
	if g.Micronutrients == nil {
		g.Micronutrients = p.Goals.Micronutrients
	}
	p.Goals = g.normalized()
	p.GoalsOverridden = true
	return p
}

// ResetGoals drops a manual override and re-derives goals.
func (p Profile) ResetGoals() Profile {
	p.Goals = ComputeGoals(p)
	p.GoalsOverridden = false
	return p
}
