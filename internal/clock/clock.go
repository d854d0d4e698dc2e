// Package clock is the time source for the fasting engine, the ledger's
// "today" and the challenge window. Core code takes a Clock instead of
// calling time.Now so tests can pin the instant.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Real returns the system time.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed always returns T.
type Fixed struct {
	T time.Time
}

func (c Fixed) Now() time.Time { return c.T }

// Func adapts a function to Clock. Handy for tests that advance time.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// Millis converts t to epoch milliseconds, the unit persisted records use.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis is the inverse of Millis.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

var (
	_ Clock = Real{}
	_ Clock = Fixed{}
	_ Clock = Func(nil)
)
