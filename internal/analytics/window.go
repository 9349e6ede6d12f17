// Package analytics provides read-only reports over users' transaction histories.
//
// This file implements the Strategy Pattern for spending windows. Each window
// decides whether a transaction timestamp falls inside the reporting period
// ending at "now".

package analytics

import (
	"fmt"
	"sync"
	"time"
)

// Window is the strategy interface for time-windowed reports.
type Window interface {
	// Contains reports whether ts falls inside the window evaluated at now.
	Contains(ts, now time.Time) bool
}

// RollingMonth covers the month ending at now: timestamps strictly after now minus one month.
type RollingMonth struct{}

func (RollingMonth) Contains(ts, now time.Time) bool {
	return ts.After(now.AddDate(0, -1, 0))
}

// CalendarMonth covers the calendar month containing now, in now's location.
type CalendarMonth struct{}

func (CalendarMonth) Contains(ts, now time.Time) bool {
	ts = ts.In(now.Location())
	return ts.Year() == now.Year() && ts.Month() == now.Month()
}

// RollingDays covers the last Days days ending at now.
type RollingDays struct {
	Days int
}

func (w RollingDays) Contains(ts, now time.Time) bool {
	return ts.After(now.AddDate(0, 0, -w.Days))
}

const (
	WindowRollingMonth  = "rolling-month"
	WindowCalendarMonth = "calendar-month"
	WindowRollingWeek   = "rolling-week"
)

var (
	windowsMu sync.RWMutex
	windows   = map[string]Window{
		WindowRollingMonth:  RollingMonth{},
		WindowCalendarMonth: CalendarMonth{},
		WindowRollingWeek:   RollingDays{Days: 7},
	}
)

// GetWindow returns the window registered under name.
func GetWindow(name string) (Window, error) {
	windowsMu.RLock()
	defer windowsMu.RUnlock()
	w, ok := windows[name]
	if !ok {
		return nil, fmt.Errorf("unknown spending window: %s", name)
	}
	return w, nil
}

// RegisterWindow adds or replaces a named window.
func RegisterWindow(name string, w Window) {
	windowsMu.Lock()
	defer windowsMu.Unlock()
	windows[name] = w
}
