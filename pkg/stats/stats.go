package stats

import "time"

// Stats holds the tracked time of one user on one day.
type Stats struct {
	UserId   int
	Date     time.Time
	Total    time.Duration
	Billable time.Duration
	// BillableSum is the revenue of the billable time.
	BillableSum float64
}
