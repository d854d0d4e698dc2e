package ledger

import (
	"context"
	"fmt"

	"lg/calorix-api/internal/nutrition"
	"lg/calorix-api/internal/store"
)

// Repository reads and writes a user's logs:{uid} record, a map of
// YYYY-MM-DD to DailyLog. Every write replaces the whole map.
type Repository struct {
	store store.Store
	locks store.KeyLocks
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// All returns every stored log for uid. Never nil.
func (r *Repository) All(ctx context.Context, uid string) (map[string]nutrition.DailyLog, error) {
	logs, err := store.GetJSON(ctx, r.store, store.LogsKey(uid), map[string]nutrition.DailyLog{})
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = map[string]nutrition.DailyLog{}
	}
	return logs, nil
}

// Day returns the log for date with a slot for every category. A date with no
// record is synthesized as an empty log; ok reports whether one was stored.
func (r *Repository) Day(ctx context.Context, uid, date string, categories []nutrition.MealCategory) (l nutrition.DailyLog, ok bool, err error) {
	logs, err := r.All(ctx, uid)
	if err != nil {
		return nutrition.DailyLog{}, false, err
	}
	l, ok = logs[date]
	if !ok {
		return nutrition.NewDailyLog(categories), false, nil
	}
	return l.WithSlots(categories), true, nil
}

// Change is the before and after of one Update.
type Change struct {
	Date    string
	Existed bool
	Prev    nutrition.DailyLog
	Next    nutrition.DailyLog
}

// Update applies fn to the log for date and writes the whole logs map back.
// fn receives the slotted (possibly synthesized) log; returning an error
// leaves the stored record untouched.
func (r *Repository) Update(ctx context.Context, uid, date string, categories []nutrition.MealCategory,
	fn func(nutrition.DailyLog) (nutrition.DailyLog, error)) (Change, error) {
	if _, err := nutrition.ParseDate(date); err != nil {
		return Change{}, err
	}
	defer r.locks.Lock(uid)()

	logs, err := r.All(ctx, uid)
	if err != nil {
		return Change{}, err
	}

	stored, existed := logs[date]
	prev := nutrition.NewDailyLog(categories)
	if existed {
		prev = stored.WithSlots(categories)
	}

	next, err := fn(prev.Clone())
	if err != nil {
		return Change{}, err
	}
	logs[date] = next
	if err := store.SetJSON(ctx, r.store, store.LogsKey(uid), logs); err != nil {
		return Change{}, fmt.Errorf("save log %s: %w", date, err)
	}
	return Change{Date: date, Existed: existed, Prev: prev, Next: next}, nil
}
