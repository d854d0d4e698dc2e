// Package store is the key-value persistence collaborator. Every record is a
// whole JSON document stored under a per-user key and replaced atomically on
// write; there are no partial updates.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no record exists for the key.
var ErrNotFound = errors.New("store: record not found")

// Store is implemented by the Postgres, SQLite and in-memory backends.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists every key starting with prefix, in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

func ProfileKey(uid string) string      { return "profile:" + uid }
func LogsKey(uid string) string         { return "logs:" + uid }
func FastingKey(uid string) string      { return "fasting:" + uid }
func AchievementsKey(uid string) string { return "achievements:" + uid }
func TokenKey(token string) string      { return "token:" + token }
func AlertsKey(uid string) string       { return "alerts:" + uid }

// FastingPrefix is the key prefix shared by every user's fasting record.
const FastingPrefix = "fasting:"

// GetJSON loads key and decodes it into a T. A missing record yields def.
func GetJSON[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("get %s: %w", key, err)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

// SetJSON encodes v and replaces the record at key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Open returns the backend named by driver.
func Open(ctx context.Context, driver, dbURL, sqlitePath string) (Store, error) {
	switch driver {
	case "postgres":
		if dbURL == "" {
			return nil, errors.New("postgres store needs DB_URL")
		}
		p, err := OpenPostgres(ctx, dbURL)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "sqlite":
		s, err := OpenSQLite(sqlitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
