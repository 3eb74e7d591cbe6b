package timeutil

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidWindow is returned when a business window would start at or after
// its own end. Invalid windows are rejected outright, never clamped.
var ErrInvalidWindow = errors.New("business window start must be before end")

// ClockTime is a time of day with minute resolution, e.g. 08:00.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses an "HH:MM" string.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("parse clock time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) minutes() int {
	return c.Hour*60 + c.Minute
}

// on places the clock time on the calendar date of day, in day's location.
func (c ClockTime) on(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

// Calendar holds the daily business window. Saturdays and Sundays never
// count regardless of the window. The zero value is not usable; construct
// via NewCalendar or DefaultCalendar.
type Calendar struct {
	Start ClockTime
	End   ClockTime
}

// DefaultCalendar returns the stock 08:00-16:30 window.
func DefaultCalendar() Calendar {
	return Calendar{Start: ClockTime{Hour: 8}, End: ClockTime{Hour: 16, Minute: 30}}
}

// NewCalendar validates and builds a calendar value.
func NewCalendar(start, end ClockTime) (Calendar, error) {
	if start.minutes() >= end.minutes() {
		return Calendar{}, ErrInvalidWindow
	}
	return Calendar{Start: start, End: end}, nil
}

// Store holds the configured calendar for the whole process. Computations
// snapshot the calendar once with Get at their outset, so a concurrent Set
// never tears an in-flight computation; last writer wins for subsequent ones.
type Store struct {
	mu  sync.RWMutex
	cal Calendar
}

// NewStore seeds a store with the given calendar.
func NewStore(cal Calendar) *Store {
	return &Store{cal: cal}
}

// Get returns the current calendar snapshot.
func (s *Store) Get() Calendar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cal
}

// Set replaces the calendar atomically. Historical data is not recomputed.
func (s *Store) Set(start, end ClockTime) error {
	cal, err := NewCalendar(start, end)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cal = cal
	s.mu.Unlock()
	return nil
}
