package report

import (
	"fmt"
	"time"

	"github.com/klokku/ledger/pkg/contract"
)

// initContracts assigns every day the latest contract starting on or before it. Days and
// contracts are both walked in ascending order; days before the first contract stay unassigned.
func (r *UserReport) initContracts(contracts []contract.Contract) error {
	r.contracts = make(map[int]*contract.Contract, len(contracts))
	r.monthShares = make(map[int]map[time.Month]float64, len(contracts))

	next := 0
	var current *contract.Contract
	for i := range r.days {
		day := &r.days[i]
		for next < len(contracts) && !contracts[next].Date.After(day.Date) {
			current = &contracts[next]
			next++
		}
		if current == nil {
			continue
		}
		c, known := r.contracts[current.Id]
		if !known {
			copied := *current
			c = &copied
			r.contracts[c.Id] = c
			r.contractOrder = append(r.contractOrder, c.Id)
			r.monthShares[c.Id] = make(map[time.Month]float64, len(r.months))
		}
		day.setContract(c)
		r.monthShares[c.Id][day.Month()]++
	}

	if len(r.contractOrder) == 0 {
		return fmt.Errorf("%w: user %d between %s and %s", contract.ErrNoEffectiveContract,
			r.User.Id, r.From.Format(time.DateOnly), r.To.Format(time.DateOnly))
	}

	total := float64(len(r.days))
	for _, shares := range r.monthShares {
		for month := range shares {
			shares[month] /= total
		}
	}
	return nil
}
