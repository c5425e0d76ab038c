package report

import (
	"time"

	"github.com/klokku/ledger/pkg/stats"
	log "github.com/sirupsen/logrus"
)

// applyContracts sets the daily targets and the blended costs of every month.
func (r *UserReport) applyContracts() {
	r.costsPerMonth = make(map[time.Month]float64, len(r.months))
	for month, positions := range r.months {
		perContract := r.workingDaysPerMonthAndContract[month]
		monthTotal := 0
		for _, count := range perContract {
			monthTotal += count
		}
		r.costsPerMonth[month] = 0
		if monthTotal == 0 {
			continue
		}

		for _, pos := range positions {
			day := &r.days[pos]
			if day.Contract == nil {
				continue
			}
			contractDays := perContract[day.Contract.Id]
			if contractDays == 0 {
				continue
			}
			day.applyContract(float64(contractDays)/float64(monthTotal), contractDays)
		}

		for _, id := range r.contractOrder {
			if count := perContract[id]; count > 0 {
				r.costsPerMonth[month] += float64(count) / float64(monthTotal) * r.contracts[id].CostsPerMonth
			}
		}
	}
}

func (r *UserReport) applyStats(records []stats.Stats) {
	for _, s := range records {
		day := r.entry(s.Date)
		if day == nil {
			log.Tracef("stats of %s are outside of the report", s.Date.Format(time.DateOnly))
			continue
		}
		day.applyActuals(s.Total, s.Billable, s.BillableSum)
	}
}
