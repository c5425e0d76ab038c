package google

import (
	"context"
	"fmt"
	"time"

	"github.com/klokku/ledger/pkg/holiday"
	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
)

// FeedReader reads holiday events from Google calendars.
type FeedReader struct {
	service *gcal.Service
	loc     *time.Location
}

func NewFeedReader(service *gcal.Service, loc *time.Location) *FeedReader {
	return &FeedReader{service: service, loc: loc}
}

// Events returns the single events of a calendar ending after since.
func (r *FeedReader) Events(ctx context.Context, calendarId string, since time.Time) ([]holiday.Event, error) {
	events := make([]holiday.Event, 0)
	err := r.service.Events.List(calendarId).
		TimeMin(since.Format(time.RFC3339)).
		SingleEvents(true).
		ShowDeleted(false).
		OrderBy("startTime").
		Pages(ctx, func(page *gcal.Events) error {
			converted, err := googleEventsToEvents(page.Items, r.loc)
			if err != nil {
				return err
			}
			events = append(events, converted...)
			return nil
		})
	if err != nil {
		err := fmt.Errorf("unable to retrieve events from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}
	return events, nil
}

func googleEventsToEvents(googleEvents []*gcal.Event, loc *time.Location) ([]holiday.Event, error) {
	events := make([]holiday.Event, 0, len(googleEvents))
	for _, item := range googleEvents {
		if item.Start == nil || item.End == nil {
			log.Warnf("found calendar event without start or end - ignoring: %s", item.Summary)
			continue
		}
		start, err := parseEventTime(item.Start, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid start of event %s: %w", item.Id, err)
		}
		end, err := parseEventTime(item.End, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid end of event %s: %w", item.Id, err)
		}

		uid := item.ICalUID
		if uid == "" {
			uid = item.Id
		}
		events = append(events, holiday.Event{
			UID:     uid,
			Summary: item.Summary,
			Start:   start,
			End:     end,
		})
	}
	return events, nil
}

// parseEventTime handles all day events, which only carry a date, and timed events.
func parseEventTime(t *gcal.EventDateTime, loc *time.Location) (time.Time, error) {
	if t.DateTime != "" {
		return time.Parse(time.RFC3339, t.DateTime)
	}
	return time.ParseInLocation(time.DateOnly, t.Date, loc)
}
