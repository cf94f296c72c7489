// Package duedate turns an effort estimate into a calendar deadline by
// spending the effort only inside working hours.
package duedate

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidDuration  = errors.New("duration must be a non-negative number of hours")
	ErrDurationTooLarge = errors.New("duration is too large")
	ErrInvalidCalendar  = errors.New("invalid working calendar")
)

// Calendar is a Monday to Friday working day running from StartHour to
// EndHour in the location of the instant being walked.
type Calendar struct {
	StartHour int
	EndHour   int
}

// Standard is the 09:00-17:00 working day.
var Standard = Calendar{StartHour: 9, EndHour: 17}

// CalculateDueDate walks the Standard calendar.
func CalculateDueDate(hours float64, start time.Time) (time.Time, error) {
	return Standard.DueDate(hours, start)
}

func (c Calendar) Validate() error {
	if c.StartHour < 0 || c.EndHour > 24 || c.StartHour >= c.EndHour {
		return fmt.Errorf("%w: working day %02d:00-%02d:00", ErrInvalidCalendar, c.StartHour, c.EndHour)
	}
	return nil
}

// DueDate returns the instant at which hours of work started at start are
// done. A zero duration yields the normalized start, which may still fall on
// a weekend.
func (c Calendar) DueDate(hours float64, start time.Time) (time.Time, error) {
	if err := c.Validate(); err != nil {
		return time.Time{}, err
	}

	remaining, err := toDuration(hours)
	if err != nil {
		return time.Time{}, err
	}

	cursor := c.normalize(start)
	for remaining > 0 {
		switch {
		case isWeekend(cursor):
			cursor = c.nextMonday(cursor)
			continue
		case cursor.Before(c.dayStart(cursor)):
			cursor = c.dayStart(cursor)
			continue
		case !cursor.Before(c.dayEnd(cursor)):
			cursor = c.nextDayStart(cursor)
			continue
		}

		step := min(c.dayEnd(cursor).Sub(cursor), remaining)
		cursor = cursor.Add(step)
		remaining -= step

		if remaining > 0 && !cursor.Before(c.dayEnd(cursor)) {
			cursor = c.nextDayStart(cursor)
		}
	}

	return cursor, nil
}

// normalize moves an instant outside the working day to the nearest
// following day start. Weekends are left to the walk.
func (c Calendar) normalize(t time.Time) time.Time {
	switch {
	case !t.Before(c.dayEnd(t)):
		return c.nextDayStart(t)
	case t.Before(c.dayStart(t)):
		return c.dayStart(t)
	default:
		return t
	}
}

func (c Calendar) dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, c.StartHour, 0, 0, 0, t.Location())
}

func (c Calendar) dayEnd(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, c.EndHour, 0, 0, 0, t.Location())
}

func (c Calendar) nextDayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, c.StartHour, 0, 0, 0, t.Location())
}

func (c Calendar) nextMonday(t time.Time) time.Time {
	y, m, d := t.Date()
	days := (8 - int(t.Weekday())) % 7
	return time.Date(y, m, d+days, c.StartHour, 0, 0, 0, t.Location())
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func toDuration(hours float64) (time.Duration, error) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDuration, hours)
	}

	ns := hours * float64(time.Hour)
	if ns >= float64(math.MaxInt64) {
		return 0, fmt.Errorf("%w: %v hours", ErrDurationTooLarge, hours)
	}
	return time.Duration(math.Round(ns)), nil
}
