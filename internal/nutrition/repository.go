package nutrition

import (
	"context"
	"fmt"

	"lg/calorix-api/internal/store"
)

// Repository persists a user's Profile under profile:{uid}.
type Repository struct {
	store store.Store
	locks store.KeyLocks
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// Load returns the stored profile, or DefaultProfile when none exists.
// A stored profile without meal categories gets the defaults.
func (r *Repository) Load(ctx context.Context, uid string) (Profile, error) {
	p, err := store.GetJSON(ctx, r.store, store.ProfileKey(uid), DefaultProfile())
	if err != nil {
		return Profile{}, err
	}
	if len(p.MealCategories) == 0 {
		p.MealCategories = append([]MealCategory(nil), DefaultMealCategories...)
	}
	return p, nil
}

// Save replaces the stored profile.
func (r *Repository) Save(ctx context.Context, uid string, p Profile) error {
	defer r.locks.Lock(uid)()
	if err := store.SetJSON(ctx, r.store, store.ProfileKey(uid), p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Update applies fn to the stored profile and writes the result back. An
// error from fn leaves the record untouched.
func (r *Repository) Update(ctx context.Context, uid string, fn func(Profile) (Profile, error)) (Profile, error) {
	defer r.locks.Lock(uid)()

	p, err := r.Load(ctx, uid)
	if err != nil {
		return Profile{}, err
	}
	next, err := fn(p)
	if err != nil {
		return p, err
	}
	if err := store.SetJSON(ctx, r.store, store.ProfileKey(uid), next); err != nil {
		return p, fmt.Errorf("save profile: %w", err)
	}
	return next, nil
}
