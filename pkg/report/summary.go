package report

import (
	"fmt"
	"time"

	"github.com/klokku/ledger/pkg/calendar"
)

// PeriodSummary totals the entries of a week, a month or the whole report.
type PeriodSummary struct {
	Label string
	From  time.Time
	To    time.Time
	// TargetDays counts the days with a time target.
	TargetDays       int
	PersonalHolidays int
	TimeTarget       time.Duration
	TimeActual       time.Duration
	BillableTarget   time.Duration
	BillableActual   time.Duration
	RevenueTarget    float64
	RevenueActual    float64
	Costs            float64
	TimeStatus       *float64
	BillableStatus   *float64
	RevenueStatus    *float64
	// CostsStatus relates the billable revenue to the costs.
	CostsStatus *float64
}

func (r *UserReport) summarize(label string, days []DayEntry) PeriodSummary {
	s := PeriodSummary{Label: label}
	if len(days) > 0 {
		s.From = days[0].Date
		s.To = days[len(days)-1].Date
	}
	for _, d := range days {
		if d.TimeTarget > 0 {
			s.TargetDays++
		}
		if d.IsHoliday(true) && d.PersonalHoliday != "" {
			s.PersonalHolidays++
		}
		s.TimeTarget += d.TimeTarget
		s.TimeActual += d.TimeActual
		s.BillableTarget += d.BillableTarget
		s.BillableActual += d.BillableActual
		s.RevenueTarget += d.RevenueTarget
		s.RevenueActual += d.RevenueActual
		s.Costs += r.dayCosts(d)
	}
	s.finish()
	return s
}

// dayCosts is the part of the monthly costs carried by d. Excused and overtime holidays
// carry costs without a revenue target. Summed over a month it gives MonthlyCosts.
func (r *UserReport) dayCosts(d DayEntry) float64 {
	if d.Contract == nil || !d.IsWorkingDay() || d.BusinessHoliday != "" || d.IsHoliday(true) {
		return 0
	}
	monthTotal := 0
	for _, count := range r.workingDaysPerMonthAndContract[d.Month()] {
		monthTotal += count
	}
	if monthTotal == 0 {
		return 0
	}
	return d.Contract.CostsPerMonth / float64(monthTotal)
}

func (s *PeriodSummary) finish() {
	s.TimeStatus = ratio(s.TimeActual.Hours(), s.TimeTarget.Hours())
	s.BillableStatus = ratio(s.BillableActual.Hours(), s.BillableTarget.Hours())
	s.RevenueStatus = ratio(s.RevenueActual, s.RevenueTarget)
	s.CostsStatus = ratio(s.RevenueActual, s.Costs)
}

// MonthlySummaries returns one summary per month of the report.
func (r *UserReport) MonthlySummaries() []PeriodSummary {
	result := make([]PeriodSummary, 0, len(r.months))
	for _, month := range r.Months() {
		s := r.summarize(fmt.Sprintf("%04d-%02d", r.Year, int(month)), r.Month(month))
		s.Costs = r.costsPerMonth[month]
		s.finish()
		result = append(result, s)
	}
	return result
}

// WeeklySummaries groups the report into weeks beginning on startDay. The first and last
// week may be partial.
func (r *UserReport) WeeklySummaries(startDay time.Weekday) []PeriodSummary {
	result := make([]PeriodSummary, 0, 53)
	var current []DayEntry
	var currentStart time.Time
	for _, d := range r.days {
		weekStart := calendar.WeekStart(d.Date, startDay)
		if len(current) > 0 && !weekStart.Equal(currentStart) {
			result = append(result, r.summarize(currentStart.Format(time.DateOnly), current))
			current = nil
		}
		currentStart = weekStart
		current = append(current, d)
	}
	if len(current) > 0 {
		result = append(result, r.summarize(currentStart.Format(time.DateOnly), current))
	}
	return result
}

// YearlySummary totals the whole report.
func (r *UserReport) YearlySummary() PeriodSummary {
	s := r.summarize(fmt.Sprintf("%04d", r.Year), r.days)
	s.Costs = 0
	for _, costs := range r.costsPerMonth {
		s.Costs += costs
	}
	s.finish()
	return s
}
