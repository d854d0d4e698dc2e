package fasting

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"lg/calorix-api/internal/clock"
)

// MaxHistory is how many finished sessions a record keeps.
const MaxHistory = 10

// MaxHours bounds custom durations accepted at the boundary.
const MaxHours = 168

var (
	ErrAlreadyFasting  = errors.New("a fast is already running")
	ErrNotFasting      = errors.New("no fast is running")
	ErrInvalidDuration = errors.New("invalid fasting duration")
)

// ParseHours validates user input for a custom duration.
func ParseHours(s string) (float64, error) {
	h, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidDuration, s)
	}
	if err := validHours(h); err != nil {
		return 0, err
	}
	return h, nil
}

func validHours(h float64) error {
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return fmt.Errorf("%w: hours must be a positive number", ErrInvalidDuration)
	}
	if h > MaxHours {
		return fmt.Errorf("%w: hours must be at most %d", ErrInvalidDuration, MaxHours)
	}
	return nil
}

// Start begins a fast of the given length. Only valid from Idle.
func Start(r Record, hours float64, now time.Time) (Record, error) {
	if _, ok := r.Active(); ok {
		return r, ErrAlreadyFasting
	}
	if err := validHours(hours); err != nil {
		return r, err
	}
	// Persisted timestamps are millisecond precision.
	now = clock.FromMillis(clock.Millis(now))
	end := now.Add(time.Duration(hours * float64(time.Hour))).Truncate(time.Millisecond)
	return Record{
		State: Active{
			StartTime:     now,
			EndTime:       end,
			DurationHours: hours,
		},
		History: r.History,
	}, nil
}

// TickResult is what one evaluation of the countdown yields.
type TickResult struct {
	Remaining time.Duration
	// Completed is true on the single tick that first observes the fast
	// elapsed.
	Completed bool
}

// Tick evaluates the countdown at now. Remaining is clamped to
// [0, planned duration] so a clock that jumps in either direction never
// yields a negative or oversized countdown. The returned record differs from
// r only when Completed is set.
func Tick(r Record, now time.Time) (Record, TickResult) {
	a, ok := r.Active()
	if !ok {
		return r, TickResult{}
	}
	res := TickResult{Remaining: remaining(a, now)}
	if res.Remaining == 0 && !a.Notified {
		a.Notified = true
		res.Completed = true
		return Record{State: a, History: r.History}, res
	}
	return r, res
}

func remaining(a Active, now time.Time) time.Duration {
	total := a.EndTime.Sub(a.StartTime)
	rem := a.EndTime.Sub(now)
	if rem < 0 {
		return 0
	}
	return min(rem, total)
}

// Stop closes the running fast, prepends a Log to history and returns to
// Idle. completed records whether the user saw the fast through.
func Stop(r Record, completed bool, now time.Time, id string) (Record, Log, error) {
	a, ok := r.Active()
	if !ok {
		return r, Log{}, ErrNotFasting
	}
	end := clock.FromMillis(clock.Millis(now))
	if end.Before(a.StartTime) {
		end = a.StartTime
	}
	entry := Log{
		ID:          id,
		StartTime:   a.StartTime,
		EndTime:     end,
		TargetHours: a.DurationHours,
		Completed:   completed,
	}

	history := make([]Log, 0, MaxHistory)
	history = append(history, entry)
	for _, l := range r.History {
		if len(history) == MaxHistory {
			break
		}
		history = append(history, l)
	}
	return Record{State: Idle{}, History: history}, entry, nil
}

// Progress is the elapsed share of the running fast in percent, 0 to 100.
// An Idle record is at 0.
func Progress(r Record, now time.Time) float64 {
	a, ok := r.Active()
	if !ok {
		return 0
	}
	total := a.EndTime.Sub(a.StartTime)
	if total <= 0 {
		return 100
	}
	elapsed := now.Sub(a.StartTime)
	return math.Max(0, math.Min(100, float64(elapsed)/float64(total)*100))
}

// Remaining is the time left on the running fast, 0 when Idle or elapsed.
func Remaining(r Record, now time.Time) time.Duration {
	a, ok := r.Active()
	if !ok {
		return 0
	}
	return remaining(a, now)
}

// CompletedCount is the number of history entries marked completed.
func CompletedCount(r Record) int {
	n := 0
	for _, l := range r.History {
		if l.Completed {
			n++
		}
	}
	return n
}
