package report

import (
	"math"
	"time"

	"github.com/klokku/ledger/pkg/calendar"
	"github.com/klokku/ledger/pkg/holiday"
	log "github.com/sirupsen/logrus"
)

const defaultBusinessHolidayName = "Business holiday"

func (r *UserReport) initBusinessHolidays(holidays []calendar.NamedDate) {
	for _, h := range holidays {
		day := r.entry(h.Date)
		if day == nil {
			log.Tracef("business holiday %s is outside of the report", h.Date.Format(time.DateOnly))
			continue
		}
		name := h.Name
		if name == "" {
			name = defaultBusinessHolidayName
		}
		day.BusinessHoliday = name
	}
}

func (r *UserReport) initPersonalHolidays(holidays []holiday.Day, today time.Time) {
	for _, h := range holidays {
		day := r.entry(h.Date)
		if day == nil {
			continue
		}
		day.setPersonalHoliday(h.Name, h.Excused, h.Overtime)

		if day.IsHoliday(true) {
			r.personalHolidaysPlanned++
			if day.Date.Before(today) {
				r.personalHolidaysPast++
			}
		}
	}

	entitlement := 0.0
	for _, id := range r.contractOrder {
		share := 0.0
		for _, s := range r.monthShares[id] {
			share += s
		}
		entitlement += share * float64(r.contracts[id].HolidaysPerYear)
	}
	r.personalHolidays = int(math.Round(entitlement))
}
