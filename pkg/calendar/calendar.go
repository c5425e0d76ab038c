// Package calendar holds the date arithmetic the ledger is built on: year-day indices,
// ISO-8601 weeks, month boundaries and inclusive day ranges.
package calendar

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

// NewDate returns midnight of the given calendar day in loc. Components that time.Date would
// normalise (February 30th, month 13) are rejected instead.
func NewDate(year int, month time.Month, day int, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), day)
	}
	return d, nil
}

// Midnight returns the start of t's calendar day, keeping the date as seen in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// AsDate re-labels t's date components in loc without shifting the instant across zones.
// Dates read from the database arrive as UTC midnight and must keep their day.
func AsDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// YearDay is the 0-based day of the year.
func YearDay(t time.Time) int {
	return t.YearDay() - 1
}

// ISOWeek returns the ISO-8601 year and week number.
func ISOWeek(t time.Time) (year, week int) {
	return t.ISOWeek()
}

func ISOYear(t time.Time) int {
	y, _ := t.ISOWeek()
	return y
}

func Week(t time.Time) int {
	_, w := t.ISOWeek()
	return w
}

// MonthBounds returns the first and last day of the month.
func MonthBounds(year int, month time.Month, loc *time.Location) (first, last time.Time, err error) {
	if month < time.January || month > time.December {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidDate, int(month))
	}
	first, err = NewDate(year, month, 1, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return first, first.AddDate(0, 1, -1), nil
}

// YearBounds returns January 1st and December 31st of year.
func YearBounds(year int, loc *time.Location) (first, last time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc), time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
}

func DaysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysInRange yields every calendar day from from to to, both inclusive. It yields nothing
// when to is before from. The sequence can be ranged over any number of times.
func DaysInRange(from, to time.Time) iter.Seq[time.Time] {
	start := Midnight(from, from.Location())
	end := Midnight(to, from.Location())
	return func(yield func(time.Time) bool) {
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			if !yield(day) {
				return
			}
		}
	}
}

// WeekStart returns the first day of the week containing t when weeks begin on startDay.
func WeekStart(t time.Time, startDay time.Weekday) time.Time {
	offset := (int(t.Weekday()) - int(startDay) + 7) % 7
	return Midnight(t, t.Location()).AddDate(0, 0, -offset)
}
