package event_bus

import "time"

// HolidaysImportedType is published by the holiday importer once per imported feed.
const HolidaysImportedType EventType = "holidays.imported"

// HolidaysImported is published after a calendar feed import wrote holiday records.
type HolidaysImported struct {
	Business bool      `json:"business"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Records  int       `json:"records"`

	// Relayed marks an event received from another process. It is never forwarded again.
	Relayed bool `json:"-"`
}

// Years lists the calendar years touched by the import.
func (h HolidaysImported) Years() []int {
	if h.To.Before(h.From) {
		return nil
	}
	years := make([]int, 0, h.To.Year()-h.From.Year()+1)
	for y := h.From.Year(); y <= h.To.Year(); y++ {
		years = append(years, y)
	}
	return years
}
