package report

import (
	"fmt"
	"time"

	"github.com/klokku/ledger/pkg/calendar"
	"github.com/klokku/ledger/pkg/contract"
	"github.com/klokku/ledger/pkg/holiday"
	"github.com/klokku/ledger/pkg/stats"
	"github.com/klokku/ledger/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Input is everything a report is computed from. Contracts must be sorted by date.
type Input struct {
	User             user.User
	From             time.Time
	To               time.Time
	Rate             float64
	Today            time.Time
	Contracts        []contract.Contract
	BusinessHolidays []calendar.NamedDate
	PersonalHolidays []holiday.Day
	Stats            []stats.Stats
}

// Build runs the report pipeline: days, contracts, business holidays, personal holidays,
// working days, targets and finally the tracked actuals.
func Build(in Input) (*UserReport, error) {
	from := calendar.Midnight(in.From, in.From.Location())
	to := calendar.Midnight(in.To, in.From.Location())
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	if len(in.Contracts) == 0 {
		return nil, fmt.Errorf("%w: user %d between %s and %s", contract.ErrNoEffectiveContract,
			in.User.Id, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	r := &UserReport{
		User: in.User,
		Year: from.Year(),
		From: from,
		To:   to,
	}
	r.initDays(in.Rate)
	if err := r.initContracts(in.Contracts); err != nil {
		return nil, err
	}
	r.initBusinessHolidays(in.BusinessHolidays)
	r.initPersonalHolidays(in.PersonalHolidays, in.Today)
	r.initWorkingDays()
	r.applyContracts()
	r.applyStats(in.Stats)

	log.Debugf("built report of user %d for %s - %s: %d days, %d working days, %d contracts",
		in.User.Id, from.Format(time.DateOnly), to.Format(time.DateOnly), len(r.days), r.workingDays, len(r.contractOrder))
	return r, nil
}

func (r *UserReport) initDays(rate float64) {
	r.byDay = make(map[int]int, 366)
	r.weeks = make(map[int][]int, 53)
	r.months = make(map[time.Month][]int, 12)

	for day := range calendar.DaysInRange(r.From, r.To) {
		pos := len(r.days)
		r.days = append(r.days, newDayEntry(day, rate))
		r.byDay[calendar.YearDay(day)] = pos

		year, week := calendar.ISOWeek(day)
		if year == r.Year {
			r.weeks[week] = append(r.weeks[week], pos)
		}
		r.months[day.Month()] = append(r.months[day.Month()], pos)
	}
}

// entry returns the entry of date or nil when the date lies outside the report.
func (r *UserReport) entry(date time.Time) *DayEntry {
	pos, ok := r.byDay[calendar.YearDay(date)]
	if !ok || !calendar.SameDay(r.days[pos].Date, date) {
		return nil
	}
	return &r.days[pos]
}
