package ledger

// Action names a rewarded user action.
type Action string

const (
	ActionLogMeal         Action = "LOG_MEAL"
	ActionDrinkWater      Action = "DRINK_WATER"
	ActionCompleteWorkout Action = "COMPLETE_WORKOUT"
	ActionStartFasting    Action = "START_FASTING"
	ActionCompleteFasting Action = "COMPLETE_FASTING"
)

// Points per action. DRINK_WATER is per glass.
var Points = map[Action]int{
	ActionLogMeal:         10,
	ActionDrinkWater:      2,
	ActionCompleteWorkout: 50,
	ActionStartFasting:    5,
	ActionCompleteFasting: 20,
}

// Reward is points earned by one action.
type Reward struct {
	Action Action `json:"action"`
	Points int    `json:"points"`
}

// Glasses is the number of whole glasses in a positive intake increase.
func Glasses(prevML, nextML int) int {
	diff := nextML - prevML
	if diff <= 0 {
		return 0
	}
	return diff / GlassML
}

// Rewards diffs a log change. Nothing is earned on the write that first
// creates a date's record, matching how the points were always awarded.
func Rewards(c Change) []Reward {
	if !c.Existed {
		return nil
	}
	var out []Reward
	if c.Next.ItemCount() > c.Prev.ItemCount() {
		out = append(out, Reward{Action: ActionLogMeal, Points: Points[ActionLogMeal]})
	}
	if g := Glasses(c.Prev.WaterIntakeML, c.Next.WaterIntakeML); g > 0 {
		out = append(out, Reward{Action: ActionDrinkWater, Points: Points[ActionDrinkWater] * g})
	}
	if len(c.Next.Workouts) > len(c.Prev.Workouts) {
		out = append(out, Reward{Action: ActionCompleteWorkout, Points: Points[ActionCompleteWorkout]})
	}
	return out
}

// Total sums the points of rs.
func Total(rs []Reward) int {
	n := 0
	for _, r := range rs {
		n += r.Points
	}
	return n
}
