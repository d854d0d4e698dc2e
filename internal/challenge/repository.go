package challenge

import (
	"context"
	"fmt"

	"lg/calorix-api/internal/store"
)

// Repository persists Achievements under achievements:{uid}.
type Repository struct {
	store store.Store
	locks store.KeyLocks
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// Load returns the user's achievements, empty if none are stored.
func (r *Repository) Load(ctx context.Context, uid string) (Achievements, error) {
	a, err := store.GetJSON(ctx, r.store, store.AchievementsKey(uid), NewAchievements())
	if err != nil {
		return Achievements{}, err
	}
	if a.Badges == nil {
		a.Badges = []string{}
	}
	if a.CompletedChallenges == nil {
		a.CompletedChallenges = []string{}
	}
	if a.CustomChallenges == nil {
		a.CustomChallenges = []Challenge{}
	}
	return a, nil
}

// Update applies fn to the stored record and writes it back. An error from
// fn leaves the record untouched and is returned as is.
func (r *Repository) Update(ctx context.Context, uid string, fn func(Achievements) (Achievements, error)) (Achievements, error) {
	defer r.locks.Lock(uid)()

	a, err := r.Load(ctx, uid)
	if err != nil {
		return Achievements{}, err
	}
	next, err := fn(a)
	if err != nil {
		return a, err
	}
	if err := store.SetJSON(ctx, r.store, store.AchievementsKey(uid), next); err != nil {
		return a, fmt.Errorf("save achievements: %w", err)
	}
	return next, nil
}

// AddPoints credits n points to uid.
func (r *Repository) AddPoints(ctx context.Context, uid string, n int) (Achievements, error) {
	return r.Update(ctx, uid, func(a Achievements) (Achievements, error) {
		return a.AddPoints(n), nil
	})
}
