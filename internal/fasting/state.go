// Package fasting is the intermittent-fasting state machine: a record is
// either Idle or Active, start and stop move between the two, and a bounded
// history keeps the most recent sessions.
package fasting

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lg/calorix-api/internal/clock"
)

// State is either Idle or Active.
type State interface {
	isState()
}

// Idle means no fast is running.
type Idle struct{}

// Active is a running fast. Once now passes EndTime the fast is elapsed but
// stays Active until stopped; Notified records that completion was signalled.
type Active struct {
	StartTime     time.Time
	EndTime       time.Time
	DurationHours float64
	Notified      bool
}

func (Idle) isState()   {}
func (Active) isState() {}

// Log is one finished session. EndTime is when the user stopped, not the
// planned end.
type Log struct {
	ID          string
	StartTime   time.Time
	EndTime     time.Time
	TargetHours float64
	Completed   bool
}

// Record is the per-user fasting document: the live state plus history,
// newest first.
type Record struct {
	State   State
	History []Log
}

// Active returns the running fast, if any. A zero Record is Idle.
func (r Record) Active() (Active, bool) {
	a, ok := r.State.(Active)
	return a, ok
}

// ErrAmbiguousRecord is returned when a stored record is neither clearly idle
// nor clearly active.
var ErrAmbiguousRecord = errors.New("ambiguous fasting record")

/* ─── Wire format ────────────────────────────────────────────────────── */

// The persisted shape is flat with epoch-millisecond timestamps.
type recordJSON struct {
	IsFasting          bool      `json:"isFasting"`
	StartTime          *int64    `json:"startTime"`
	DurationHours      float64   `json:"durationHours"`
	EndTime            *int64    `json:"endTime"`
	CompletionNotified bool      `json:"completionNotified"`
	History            []logJSON `json:"history"`
}

type logJSON struct {
	ID             string  `json:"id"`
	StartTime      int64   `json:"startTime"`
	EndTime        int64   `json:"endTime"`
	TargetDuration float64 `json:"targetDuration"`
	Completed      bool    `json:"completed"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{History: make([]logJSON, len(r.History))}
	for i, l := range r.History {
		out.History[i] = logJSON{
			ID:             l.ID,
			StartTime:      clock.Millis(l.StartTime),
			EndTime:        clock.Millis(l.EndTime),
			TargetDuration: l.TargetHours,
			Completed:      l.Completed,
		}
	}
	if a, ok := r.Active(); ok {
		start, end := clock.Millis(a.StartTime), clock.Millis(a.EndTime)
		out.IsFasting = true
		out.StartTime = &start
		out.EndTime = &end
		out.DurationHours = a.DurationHours
		out.CompletionNotified = a.Notified
	}
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	switch {
	case in.IsFasting && (in.StartTime == nil || in.EndTime == nil):
		return fmt.Errorf("%w: isFasting without start and end time", ErrAmbiguousRecord)
	case !in.IsFasting && in.StartTime != nil:
		return fmt.Errorf("%w: startTime set on an idle record", ErrAmbiguousRecord)
	}

	var state State = Idle{}
	if in.IsFasting {
		state = Active{
			StartTime:     clock.FromMillis(*in.StartTime),
			EndTime:       clock.FromMillis(*in.EndTime),
			DurationHours: in.DurationHours,
			Notified:      in.CompletionNotified,
		}
	}

	history := make([]Log, 0, min(len(in.History), MaxHistory))
	for _, l := range in.History {
		if len(history) == MaxHistory {
			break
		}
		history = append(history, Log{
			ID:          l.ID,
			StartTime:   clock.FromMillis(l.StartTime),
			EndTime:     clock.FromMillis(l.EndTime),
			TargetHours: l.TargetDuration,
			Completed:   l.Completed,
		})
	}

	*r = Record{State: state, History: history}
	return nil
}
