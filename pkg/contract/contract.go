package contract

import (
	"slices"
	"strings"
	"time"
)

type Contract struct {
	Id     int
	UserId int
	// Date the contract becomes effective from.
	Date               time.Time
	WorkingDays        WeekdaySet
	WorkingHoursPerDay float64
	HolidaysPerYear    int
	CostsPerMonth      float64
	// OvertimeOffset is the overtime balance in hours carried over when the contract starts.
	OvertimeOffset float64
}

// WeekdaySet is a set of weekdays counted as working days.
type WeekdaySet struct {
	days [7]bool
}

var MondayToFriday = NewWeekdaySet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			s.days[d] = true
		}
	}
	return s
}

// WeekdaySetFromMask decodes the stored form where bit n stands for weekday n, Sunday being 0.
func WeekdaySetFromMask(mask int) WeekdaySet {
	var s WeekdaySet
	for d := time.Sunday; d <= time.Saturday; d++ {
		s.days[d] = mask&(1<<d) != 0
	}
	return s
}

func (s WeekdaySet) Mask() int {
	mask := 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.days[d] {
			mask |= 1 << d
		}
	}
	return mask
}

func (s WeekdaySet) Contains(d time.Weekday) bool {
	if d < time.Sunday || d > time.Saturday {
		return false
	}
	return s.days[d]
}

func (s WeekdaySet) Weekdays() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.days[d] {
			days = append(days, d)
		}
	}
	return days
}

func (s WeekdaySet) Len() int {
	return len(s.Weekdays())
}

func (s WeekdaySet) String() string {
	names := make([]string, 0, 7)
	for _, d := range s.Weekdays() {
		names = append(names, d.String()[:3])
	}
	return strings.Join(names, ",")
}

// ParseWeekdaySet accepts comma separated English weekday names or their three letter prefixes.
func ParseWeekdaySet(value string) (WeekdaySet, bool) {
	var s WeekdaySet
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			name := strings.ToLower(d.String())
			if part == name || part == name[:3] {
				s.days[d] = true
				found = true
				break
			}
		}
		if !found {
			return WeekdaySet{}, false
		}
	}
	return s, true
}

// Effective returns the latest contract starting on or before date.
func Effective(contracts []Contract, date time.Time) (Contract, bool) {
	var found *Contract
	for i := range contracts {
		c := &contracts[i]
		if c.Date.After(date) {
			continue
		}
		if found == nil || c.Date.After(found.Date) {
			found = c
		}
	}
	if found == nil {
		return Contract{}, false
	}
	return *found, true
}

func SortByDate(contracts []Contract) {
	slices.SortStableFunc(contracts, func(a, b Contract) int {
		return a.Date.Compare(b.Date)
	})
}
