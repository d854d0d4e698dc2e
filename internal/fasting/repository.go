package fasting

import (
	"context"
	"fmt"
	"strings"

	"lg/calorix-api/internal/store"
)

// Repository persists one Record per user under fasting:{uid}.
//
// The background watcher and request handlers both write the record, so
// Update serializes writers per user inside this process. A watcher write
// must never resurrect a fast the user just stopped.
type Repository struct {
	store store.Store
	locks store.KeyLocks
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// Load returns the user's record, Idle with empty history if none is stored.
func (r *Repository) Load(ctx context.Context, uid string) (Record, error) {
	rec, err := store.GetJSON(ctx, r.store, store.FastingKey(uid), Record{State: Idle{}})
	if err != nil {
		return Record{}, err
	}
	if rec.State == nil {
		rec.State = Idle{}
	}
	if rec.History == nil {
		rec.History = []Log{}
	}
	return rec, nil
}

// Update loads the record, applies fn and writes the result back. An error
// from fn leaves the stored record untouched.
func (r *Repository) Update(ctx context.Context, uid string, fn func(Record) (Record, error)) (Record, error) {
	defer r.locks.Lock(uid)()

	rec, err := r.Load(ctx, uid)
	if err != nil {
		return Record{}, err
	}
	next, err := fn(rec)
	if err != nil {
		return rec, err
	}
	if err := store.SetJSON(ctx, r.store, store.FastingKey(uid), next); err != nil {
		return rec, fmt.Errorf("save fasting record: %w", err)
	}
	return next, nil
}

// Users lists every uid that has a fasting record.
func (r *Repository) Users(ctx context.Context) ([]string, error) {
	keys, err := r.store.Keys(ctx, store.FastingPrefix)
	if err != nil {
		return nil, fmt.Errorf("list fasting records: %w", err)
	}
	uids := make([]string, 0, len(keys))
	for _, k := range keys {
		uids = append(uids, strings.TrimPrefix(k, store.FastingPrefix))
	}
	return uids, nil
}
