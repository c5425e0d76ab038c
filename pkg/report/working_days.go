package report

import "time"

// initWorkingDays counts the working days of every contract per month and per ISO week.
// Business holidays are no working days; true personal holidays are working days but do not
// count towards the monthly and weekly figures that targets are prorated by.
func (r *UserReport) initWorkingDays() {
	r.workingDaysPerMonthAndContract = make(map[time.Month]map[int]int, len(r.months))
	for month := range r.months {
		r.workingDaysPerMonthAndContract[month] = r.contractTemplate()
	}
	r.workingDaysPerWeekAndContract = make(map[int]map[int]int, len(r.weeks))
	for week := range r.weeks {
		r.workingDaysPerWeekAndContract[week] = r.contractTemplate()
	}

	for _, day := range r.days {
		if !day.IsWorkingDay() || day.BusinessHoliday != "" {
			continue
		}
		r.workingDays++
		if day.IsHoliday(true) {
			continue
		}
		id := day.Contract.Id
		if day.ISOYear() == r.Year {
			r.workingDaysPerWeekAndContract[day.Week()][id]++
		}
		r.workingDaysPerMonthAndContract[day.Month()][id]++
	}
}

func (r *UserReport) contractTemplate() map[int]int {
	template := make(map[int]int, len(r.contractOrder))
	for _, id := range r.contractOrder {
		template[id] = 0
	}
	return template
}
