package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// NamedDate is a dated, named marker such as a business holiday.
type NamedDate struct {
	Date time.Time
	Name string
}

// HolidayLoader returns the business holidays between from and to, both inclusive.
type HolidayLoader func(ctx context.Context, from, to time.Time) ([]NamedDate, error)

// YearStats describes a calendar year independently of any user: its business holidays
// and its Monday-to-Friday workdays.
type YearStats struct {
	Year          int
	TotalDays     int
	TotalWorkdays int
	// BusinessHolidays is keyed by 0-based year day.
	BusinessHolidays map[int]string
	// WorkdaysByMonth maps month -> day of month -> ISO week.
	WorkdaysByMonth map[time.Month]map[int]int
}

func (s YearStats) BusinessHoliday(t time.Time) (string, bool) {
	name, ok := s.BusinessHolidays[YearDay(t)]
	return name, ok
}

// BusinessHolidaysBetween lists the holidays of this year falling into [from, to].
func (s YearStats) BusinessHolidaysBetween(from, to time.Time, loc *time.Location) []NamedDate {
	result := make([]NamedDate, 0, len(s.BusinessHolidays))
	for day := range DaysInRange(from, to) {
		if day.Year() != s.Year {
			continue
		}
		if name, ok := s.BusinessHolidays[YearDay(day)]; ok {
			result = append(result, NamedDate{Date: AsDate(day, loc), Name: name})
		}
	}
	return result
}

// YearStatsCache is a read-through cache of YearStats keyed by year. Entries stay until
// they are invalidated explicitly, typically after a holiday import.
//
// Every invalidation bumps a generation counter. A load that was started before an
// invalidation of its year returns its result but does not store it.
type YearStatsCache struct {
	mu     sync.RWMutex
	loader HolidayLoader
	loc    *time.Location
	years  map[int]YearStats

	// generations counts the invalidations per year; epoch counts InvalidateAll calls.
	generations map[int]uint64
	epoch       uint64
}

func NewYearStatsCache(loader HolidayLoader, loc *time.Location) *YearStatsCache {
	if loc == nil {
		loc = time.UTC
	}
	return &YearStatsCache{
		loader:      loader,
		loc:         loc,
		years:       make(map[int]YearStats),
		generations: make(map[int]uint64),
	}
}

// Get returns the statistics of year, loading them on a miss.
func (c *YearStatsCache) Get(ctx context.Context, year int) (YearStats, error) {
	c.mu.RLock()
	stats, ok := c.years[year]
	generation, epoch := c.generations[year], c.epoch
	c.mu.RUnlock()
	if ok {
		return stats, nil
	}

	first, last := YearBounds(year, c.loc)
	holidays, err := c.loader(ctx, first, last)
	if err != nil {
		return YearStats{}, fmt.Errorf("failed to load business holidays for %d: %w", year, err)
	}
	stats = buildYearStats(year, holidays, c.loc)
	log.Debugf("computed date statistics for %d: %d workdays, %d business holidays",
		year, stats.TotalWorkdays, len(stats.BusinessHolidays))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[year] != generation || c.epoch != epoch {
		log.Debugf("date statistics for %d were invalidated while loading, not caching them", year)
		return stats, nil
	}
	if cached, ok := c.years[year]; ok {
		return cached, nil
	}
	c.years[year] = stats
	return stats, nil
}

// Invalidate drops the statistics of the given years, including loads still in flight.
func (c *YearStatsCache) Invalidate(years ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, year := range years {
		delete(c.years, year)
		c.generations[year]++
	}
	log.Debugf("invalidated date statistics for %v", years)
}

// InvalidateAll drops every cached year, including loads still in flight.
func (c *YearStatsCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.years = make(map[int]YearStats)
	c.epoch++
	log.Debug("invalidated all date statistics")
}

func buildYearStats(year int, holidays []NamedDate, loc *time.Location) YearStats {
	stats := YearStats{
		Year:             year,
		TotalDays:        DaysInYear(year),
		BusinessHolidays: make(map[int]string, len(holidays)),
		WorkdaysByMonth:  make(map[time.Month]map[int]int, 12),
	}
	for _, h := range holidays {
		if h.Date.Year() == year {
			stats.BusinessHolidays[YearDay(h.Date)] = h.Name
		}
	}
	for m := time.January; m <= time.December; m++ {
		stats.WorkdaysByMonth[m] = make(map[int]int, 23)
	}

	first, last := YearBounds(year, loc)
	for day := range DaysInRange(first, last) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		if _, holiday := stats.BusinessHolidays[YearDay(day)]; holiday {
			continue
		}
		stats.TotalWorkdays++
		stats.WorkdaysByMonth[day.Month()][day.Day()] = Week(day)
	}
	return stats
}
