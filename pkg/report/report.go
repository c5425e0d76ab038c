package report

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/klokku/ledger/pkg/calendar"
	"github.com/klokku/ledger/pkg/contract"
	"github.com/klokku/ledger/pkg/user"
)

var (
	// ErrInvalidDateRange is returned for ranges ending before they start or spanning two years.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidMonthIndex is returned for months the report does not cover.
	ErrInvalidMonthIndex = errors.New("invalid month index")
)

// UserReport is the day by day ledger of one user over a range within a single year.
// It is built once and not modified afterwards.
type UserReport struct {
	User user.User
	Year int
	From time.Time
	To   time.Time

	days   []DayEntry
	byDay  map[int]int          // year day -> position in days
	weeks  map[int][]int        // ISO week -> positions in days
	months map[time.Month][]int // month -> positions in days

	contracts     map[int]*contract.Contract
	contractOrder []int
	// monthShares holds, per contract and month, the contract's days over the days of the report.
	monthShares map[int]map[time.Month]float64

	workingDays                    int
	workingDaysPerMonthAndContract map[time.Month]map[int]int
	workingDaysPerWeekAndContract  map[int]map[int]int
	costsPerMonth                  map[time.Month]float64

	personalHolidays        int
	personalHolidaysPlanned int
	personalHolidaysPast    int
}

// validateRange accepts ranges of at least one day within a single calendar year.
func validateRange(from, to time.Time) error {
	if to.Before(from) {
		return fmt.Errorf("%w: %s is before %s", ErrInvalidDateRange, to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	if from.Year() != to.Year() {
		return fmt.Errorf("%w: %s and %s are in different years", ErrInvalidDateRange,
			from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	return nil
}

// Days returns all entries in ascending date order.
func (r *UserReport) Days() []DayEntry {
	return slices.Clone(r.days)
}

// Day returns the entry of date, if the date is part of the report.
func (r *UserReport) Day(date time.Time) (DayEntry, bool) {
	pos, ok := r.byDay[calendar.YearDay(date)]
	if !ok || !calendar.SameDay(r.days[pos].Date, date) {
		return DayEntry{}, false
	}
	return r.days[pos], true
}

// GetRange returns up to end-start consecutive entries beginning with the entry of year day start.
// The result is empty when start is not part of the report or end is not after start.
func (r *UserReport) GetRange(start, end int) []DayEntry {
	pos, ok := r.byDay[start]
	if !ok || end <= start {
		return []DayEntry{}
	}
	stop := min(pos+(end-start), len(r.days))
	return slices.Clone(r.days[pos:stop])
}

// Week returns the entries of an ISO week of the report's year.
func (r *UserReport) Week(isoWeek int) []DayEntry {
	return r.collect(r.weeks[isoWeek])
}

// Month returns the entries of month. It is empty for months outside the report.
func (r *UserReport) Month(month time.Month) []DayEntry {
	return r.collect(r.months[month])
}

// Months lists the months covered by the report in ascending order.
func (r *UserReport) Months() []time.Month {
	months := make([]time.Month, 0, len(r.months))
	for m := range r.months {
		months = append(months, m)
	}
	slices.Sort(months)
	return months
}

// Contracts returns the contracts assigned to at least one day, oldest first.
func (r *UserReport) Contracts() []contract.Contract {
	result := make([]contract.Contract, 0, len(r.contractOrder))
	for _, id := range r.contractOrder {
		result = append(result, *r.contracts[id])
	}
	return result
}

// PersonalHolidays is the holiday entitlement for the report's period: the yearly holidays
// of every contract, weighted by its monthly shares and rounded once.
func (r *UserReport) PersonalHolidays() int {
	return r.personalHolidays
}

// PersonalHolidaysPlanned counts plain personal holidays in the report.
func (r *UserReport) PersonalHolidaysPlanned() int {
	return r.personalHolidaysPlanned
}

// PersonalHolidaysPast counts the planned personal holidays that have already passed.
func (r *UserReport) PersonalHolidaysPast() int {
	return r.personalHolidaysPast
}

// MonthlyCosts returns the costs of month, blended over the contracts effective in it.
func (r *UserReport) MonthlyCosts(month time.Month) (float64, error) {
	costs, ok := r.costsPerMonth[month]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMonthIndex, int(month))
	}
	return costs, nil
}

// MonthlyContractShare is the part of the report's days that falls into month and is
// covered by the contract. It is zero for unknown contracts and months.
func (r *UserReport) MonthlyContractShare(contractId int, month time.Month) float64 {
	return r.monthShares[contractId][month]
}

// WorkingDays counts the contract working days that are no business holiday.
func (r *UserReport) WorkingDays() int {
	return r.workingDays
}

// WorkingDaysPerMonthAndContract counts, per month and contract id, the working days
// targets are prorated by. True personal holidays are not counted.
func (r *UserReport) WorkingDaysPerMonthAndContract() map[time.Month]map[int]int {
	return cloneNested(r.workingDaysPerMonthAndContract)
}

// WorkingDaysPerWeekAndContract is WorkingDaysPerMonthAndContract keyed by the ISO weeks
// of the report's year. Days belonging to ISO weeks of a neighbouring year are left out.
func (r *UserReport) WorkingDaysPerWeekAndContract() map[int]map[int]int {
	return cloneNested(r.workingDaysPerWeekAndContract)
}

func (r *UserReport) collect(positions []int) []DayEntry {
	result := make([]DayEntry, 0, len(positions))
	for _, pos := range positions {
		result = append(result, r.days[pos])
	}
	return result
}

func cloneNested[K comparable](m map[K]map[int]int) map[K]map[int]int {
	result := make(map[K]map[int]int, len(m))
	for k, inner := range m {
		copied := make(map[int]int, len(inner))
		for id, count := range inner {
			copied[id] = count
		}
		result[k] = copied
	}
	return result
}
