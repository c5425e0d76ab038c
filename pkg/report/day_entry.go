package report

import (
	"time"

	"github.com/klokku/ledger/pkg/calendar"
	"github.com/klokku/ledger/pkg/contract"
)

// DefaultHolidayName marks holidays whose record carries no name.
const DefaultHolidayName = "Holiday"

type PersonalHolidayKind int

const (
	NoPersonalHoliday PersonalHolidayKind = iota
	PlainHoliday
	ExcusedHoliday
	OvertimeHoliday
)

func (k PersonalHolidayKind) String() string {
	switch k {
	case PlainHoliday:
		return "plain"
	case ExcusedHoliday:
		return "excused"
	case OvertimeHoliday:
		return "overtime"
	}
	return "none"
}

// DayEntry is the contractual and tracked state of a single day of a report.
type DayEntry struct {
	Date time.Time
	// BusinessHoliday and PersonalHoliday hold the holiday name, empty when there is none.
	BusinessHoliday string
	PersonalHoliday string
	Excused         bool
	Overtime        bool
	// Contract is nil for days before the user's first contract.
	Contract   *contract.Contract
	workingDay bool

	TimeTarget     time.Duration
	TimeActual     time.Duration
	TimeStatus     *float64
	BillableTarget time.Duration
	BillableActual time.Duration
	BillableStatus *float64
	RevenueTarget  float64
	RevenueActual  float64
	RevenueStatus  *float64
	Rate           float64
}

func newDayEntry(date time.Time, rate float64) DayEntry {
	return DayEntry{Date: date, Rate: rate}
}

// IsWorkingDay reports whether the contract of the day counts its weekday as a working day.
func (d DayEntry) IsWorkingDay() bool {
	return d.workingDay
}

// IsHoliday reports business and personal holidays. With trueOnly set, excused and overtime
// reducing personal holidays are not counted. Days without a contract are never holidays.
func (d DayEntry) IsHoliday(trueOnly bool) bool {
	if d.Contract == nil {
		return false
	}
	personal := d.PersonalHoliday != ""
	if trueOnly {
		personal = personal && !d.Excused && !d.Overtime
	}
	return d.BusinessHoliday != "" || personal
}

func (d DayEntry) PersonalHolidayKind() PersonalHolidayKind {
	switch {
	case d.PersonalHoliday == "":
		return NoPersonalHoliday
	case d.Overtime:
		return OvertimeHoliday
	case d.Excused:
		return ExcusedHoliday
	}
	return PlainHoliday
}

func (d DayEntry) YearDay() int {
	return calendar.YearDay(d.Date)
}

func (d DayEntry) Month() time.Month {
	return d.Date.Month()
}

// Week is the ISO-8601 week number.
func (d DayEntry) Week() int {
	return calendar.Week(d.Date)
}

func (d DayEntry) ISOYear() int {
	return calendar.ISOYear(d.Date)
}

func (d DayEntry) Weekday() time.Weekday {
	return d.Date.Weekday()
}

func (d *DayEntry) setContract(c *contract.Contract) {
	d.Contract = c
	d.workingDay = c != nil && c.WorkingDays.Contains(d.Weekday())
}

func (d *DayEntry) setPersonalHoliday(name string, excused, overtime bool) {
	if name == "" {
		name = DefaultHolidayName
	}
	d.PersonalHoliday = name
	d.Excused = excused
	d.Overtime = overtime
}

// applyContract sets the targets of one contract day. monthShare is the contract's part of the
// month's working days and contractDays the contract's working days in the month.
func (d *DayEntry) applyContract(monthShare float64, contractDays int) {
	if !d.IsWorkingDay() || d.IsHoliday(false) {
		return
	}
	d.TimeTarget = hoursToDuration(d.Contract.WorkingHoursPerDay)
	d.RevenueTarget = d.Contract.CostsPerMonth * monthShare / float64(contractDays)
	if d.Rate > 0 {
		d.BillableTarget = hoursToDuration(d.RevenueTarget / d.Rate)
	}
}

func (d *DayEntry) applyActuals(total, billable time.Duration, billableSum float64) {
	d.TimeActual = total
	d.TimeStatus = ratio(total.Hours(), d.TimeTarget.Hours())
	d.BillableActual = billable
	d.BillableStatus = ratio(billable.Hours(), d.BillableTarget.Hours())
	d.RevenueActual = billableSum
	d.RevenueStatus = ratio(billableSum, d.RevenueTarget)
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// ratio is nil when there is no target to compare with.
func ratio(actual, target float64) *float64 {
	if target == 0 {
		return nil
	}
	r := actual / target
	return &r
}
