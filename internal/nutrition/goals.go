package nutrition

import "math"

// Micronutrient keys shared by goals, food items and ledger totals.
const (
	MicroFiber     = "fiber"
	MicroSodium    = "sodium"
	MicroPotassium = "potassium"
	MicroCalcium   = "calcium"
	MicroIron      = "iron"
	MicroVitaminC  = "vitC"
)

// NutritionalGoals are the daily targets derived from a Profile.
// Calories in kcal, macros in grams, water in ml, micronutrients in g or mg.
type NutritionalGoals struct {
	Calories       int            `json:"calories"`
	ProteinG       int            `json:"protein"`
	CarbsG         int            `json:"carbs"`
	FatG           int            `json:"fat"`
	WaterML        int            `json:"water"`
	Micronutrients map[string]int `json:"micronutrients"`
}

func (g NutritionalGoals) normalized() NutritionalGoals {
	g.Calories = max(g.Calories, 0)
	g.ProteinG = max(g.ProteinG, 0)
	g.CarbsG = max(g.CarbsG, 0)
	g.FatG = max(g.FatG, 0)
	g.WaterML = max(g.WaterML, 0)
	m := make(map[string]int, len(g.Micronutrients))
	for k, v := range g.Micronutrients {
		m[k] = max(v, 0)
	}
	g.Micronutrients = m
	return g
}

// Sanitize coerces NaN, infinities and negatives to 0 so they never reach
// goal arithmetic.
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ComputeGoals derives daily targets from a profile.
//
// BMR is Mifflin-St Jeor, TDEE is BMR times the activity multiplier, and the
// goal type shifts calories by -500 (lose) or +300 (gain). Protein is 2 g/kg,
// fat is 25% of calories and carbs take the remaining calories. Carbs are
// computed from the already-rounded calorie, protein and fat figures so the
// three macros always add back up to the calorie target within a few kcal.
func ComputeGoals(p Profile) NutritionalGoals {
	weight := Sanitize(p.WeightKG)
	height := Sanitize(p.HeightCM)
	age := Sanitize(float64(p.Age))

	bmr := 10*weight + 6.25*height - 5*age
	if p.Sex == SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}

	mult := p.ActivityLevel
	if !ValidActivityLevel(mult) {
		mult = ActivityMultipliers["sedentary"]
	}
	target := bmr * mult

	switch p.Goal {
	case GoalLose:
		target -= 500
	case GoalGain:
		target += 300
	}
	// A degenerate profile (zeroed fields) can push the target negative.
	target = math.Max(target, 0)

	calories := int(math.Round(target))
	protein := int(math.Round(weight * 2.0))
	fat := int(math.Round(target * 0.25 / 9))
	carbCalories := float64(calories - protein*4 - fat*9)
	carbs := int(math.Round(math.Max(carbCalories, 0) / 4))

	return NutritionalGoals{
		Calories:       calories,
		ProteinG:       protein,
		CarbsG:         carbs,
		FatG:           fat,
		WaterML:        int(math.Round(weight * 35)),
		Micronutrients: micronutrientTargets(p.Sex, p.Age),
	}
}

func micronutrientTargets(sex Sex, age int) map[string]int {
	iron := 8
	if sex == SexFemale && age < 50 {
		iron = 18
	}
	vitC := 75
	if sex == SexMale {
		vitC = 90
	}
	return map[string]int{
		MicroFiber:     25,
		MicroSodium:    2300,
		MicroPotassium: 3500,
		MicroCalcium:   1000,
		MicroIron:      iron,
		MicroVitaminC:  vitC,
	}
}
