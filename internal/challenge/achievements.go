package challenge

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Medals counts claimed tiers.
type Medals struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// Achievements is the per-user record stored at achievements:{uid}.
// Progress itself is never stored, only the active challenge and outcomes.
type Achievements struct {
	Medals              Medals      `json:"medals"`
	Badges              []string    `json:"badges"`
	ActiveChallengeID   string      `json:"activeChallengeId,omitempty"`
	CompletedChallenges []string    `json:"completedChallenges"`
	CustomChallenges    []Challenge `json:"customChallenges"`
	Points              int         `json:"points"`
}

// NewAchievements is the empty record for a user who has none.
func NewAchievements() Achievements {
	return Achievements{
		Badges:              []string{},
		CompletedChallenges: []string{},
		CustomChallenges:    []Challenge{},
	}
}

func (a Achievements) clone() Achievements {
	a.Badges = append([]string{}, a.Badges...)
	a.CompletedChallenges = append([]string{}, a.CompletedChallenges...)
	a.CustomChallenges = append([]Challenge{}, a.CustomChallenges...)
	return a
}

// All lists the built-in challenges followed by the user's custom ones.
func (a Achievements) All() []Challenge {
	return append(append([]Challenge{}, Weekly...), a.CustomChallenges...)
}

// Find looks a challenge up by id among built-in and custom challenges.
func (a Achievements) Find(id string) (Challenge, bool) {
	for _, c := range a.All() {
		if c.ID == id {
			return c, true
		}
	}
	return Challenge{}, false
}

// Completed reports whether id has already been claimed.
func (a Achievements) Completed(id string) bool {
	return slices.Contains(a.CompletedChallenges, id)
}

// Available lists the challenges that can still be selected.
func (a Achievements) Available() []Challenge {
	out := []Challenge{}
	for _, c := range a.All() {
		if !a.Completed(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// Active returns the selected challenge, if any.
func (a Achievements) Active() (Challenge, bool) {
	if a.ActiveChallengeID == "" {
		return Challenge{}, false
	}
	return a.Find(a.ActiveChallengeID)
}

// Select makes id the active challenge. Reselecting the active challenge is
// a no-op; switching requires abandoning the current one first.
func (a Achievements) Select(id string) (Achievements, error) {
	if _, ok := a.Find(id); !ok {
		return a, fmt.Errorf("%w: %s", ErrUnknownChallenge, id)
	}
	if a.Completed(id) {
		return a, fmt.Errorf("%w: %s", ErrAlreadyCompleted, id)
	}
	if a.ActiveChallengeID != "" && a.ActiveChallengeID != id {
		return a, ErrChallengeActive
	}
	next := a.clone()
	next.ActiveChallengeID = id
	return next, nil
}

// Abandon clears the active challenge without awarding anything.
func (a Achievements) Abandon() (Achievements, error) {
	if a.ActiveChallengeID == "" {
		return a, ErrNoActiveChallenge
	}
	next := a.clone()
	next.ActiveChallengeID = ""
	return next, nil
}

// CreateCustom validates c and stores it as a custom challenge with a fresh
// custom- id.
func (a Achievements) CreateCustom(c Challenge) (Achievements, Challenge, error) {
	if err := c.Validate(); err != nil {
		return a, Challenge{}, err
	}
	c.ID = "custom-" + uuid.NewString()
	c.IsCustom = true
	next := a.clone()
	next.CustomChallenges = append(next.CustomChallenges, c)
	return next, c, nil
}

// Claim scores the active challenge and, if it earns a medal, increments that
// medal, clears the active challenge and marks it completed. A claim that
// earns nothing leaves the record untouched so the user can keep going.
func (a Achievements) Claim(in Input) (Achievements, Progress, error) {
	ch, ok := a.Active()
	if !ok {
		return a, Progress{}, ErrNoActiveChallenge
	}
	if a.Completed(ch.ID) {
		return a, Progress{}, fmt.Errorf("%w: %s", ErrAlreadyCompleted, ch.ID)
	}

	p := ComputeProgress(ch, in)
	next := a.clone()
	switch p.Tier {
	case TierGold:
		next.Medals.Gold++
	case TierSilver:
		next.Medals.Silver++
	case TierBronze:
		next.Medals.Bronze++
	default:
		return a, p, ErrNoMedal
	}
	next.ActiveChallengeID = ""
	next.CompletedChallenges = append(next.CompletedChallenges, ch.ID)
	return next, p, nil
}

// AddPoints returns a with n more points.
func (a Achievements) AddPoints(n int) Achievements {
	next := a.clone()
	next.Points += n
	return next
}
