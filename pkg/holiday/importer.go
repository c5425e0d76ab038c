package holiday

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/klokku/ledger/internal/event_bus"
	"github.com/klokku/ledger/internal/utils"
	"github.com/klokku/ledger/pkg/calendar"
	"github.com/klokku/ledger/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Feed is a calendar whose events are imported as holidays.
type Feed struct {
	CalendarId string
	Type       Type
	// Excused and Overtime are copied onto every personal holiday of the feed.
	Excused  bool
	Overtime bool
}

// Event is a calendar entry. End is exclusive.
type Event struct {
	UID     string
	Summary string
	Start   time.Time
	End     time.Time
}

type EventSource interface {
	Events(ctx context.Context, calendarId string, since time.Time) ([]Event, error)
}

type ImportResult struct {
	CalendarId string
	Records    int
	Skipped    int
}

type Importer struct {
	repo   Repository
	source EventSource
	bus    *event_bus.EventBus
	clock  utils.Clock
	loc    *time.Location
}

func NewImporter(repo Repository, source EventSource, bus *event_bus.EventBus, clock utils.Clock, loc *time.Location) *Importer {
	return &Importer{repo: repo, source: source, bus: bus, clock: clock, loc: loc}
}

// Import reads every feed and stores the holidays that have not passed yet.
// Personal holidays are assigned by the first word of the event summary.
func (i *Importer) Import(ctx context.Context, feeds []Feed, users user.AliasMap) ([]ImportResult, error) {
	results := make([]ImportResult, 0, len(feeds))
	for _, feed := range feeds {
		result, err := i.ImportFeed(ctx, feed, users)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (i *Importer) ImportFeed(ctx context.Context, feed Feed, users user.AliasMap) (ImportResult, error) {
	today := utils.Today(i.clock, i.loc)
	result := ImportResult{CalendarId: feed.CalendarId}

	events, err := i.source.Events(ctx, feed.CalendarId, today)
	if err != nil {
		return result, fmt.Errorf("failed to read calendar %s: %w", feed.CalendarId, err)
	}
	log.Debugf("calendar %s returned %d events", feed.CalendarId, len(events))

	var from, to time.Time
	for _, event := range events {
		uid := strings.TrimSpace(event.UID)
		if uid == "" {
			log.Warnf("skipping event without id: %q", event.Summary)
			result.Skipped++
			continue
		}

		first, last := i.eventDays(event)
		if last.Before(today) {
			continue
		}

		record := Day{Uuid: uid, Type: feed.Type}
		switch feed.Type {
		case PersonalHoliday:
			token := summaryToken(event.Summary)
			if token == "" {
				result.Skipped++
				continue
			}
			u, ok := users.Resolve(token)
			if !ok {
				log.Warnf("unknown user token %q in calendar %s", token, feed.CalendarId)
				result.Skipped++
				continue
			}
			record.UserId = &u.Id
			record.Excused = feed.Excused
			record.Overtime = feed.Overtime
		case BusinessHoliday:
			record.Name = strings.TrimSpace(event.Summary)
		}

		if first.Before(today) {
			first = today
		}
		for day := range calendar.DaysInRange(first, last) {
			record.Date = day
			if _, err := i.repo.Upsert(ctx, record); err != nil {
				return result, fmt.Errorf("failed to store holiday %s from calendar %s: %w",
					day.Format(time.DateOnly), feed.CalendarId, err)
			}
			result.Records++
			if from.IsZero() || day.Before(from) {
				from = day
			}
			if day.After(to) {
				to = day
			}
			log.Tracef("stored %s holiday %s (%s)", feed.Type, day.Format(time.DateOnly), uid)
		}
	}

	log.Infof("imported %d %s holiday days from calendar %s, skipped %d events",
		result.Records, feed.Type, feed.CalendarId, result.Skipped)
	if result.Records == 0 || i.bus == nil {
		return result, nil
	}
	err = i.bus.Publish(event_bus.NewEvent(ctx, event_bus.HolidaysImportedType, event_bus.HolidaysImported{
		Business: feed.Type == BusinessHoliday,
		From:     from,
		To:       to,
		Records:  result.Records,
	}))
	if err != nil {
		return result, fmt.Errorf("failed to publish holiday import of calendar %s: %w", feed.CalendarId, err)
	}
	return result, nil
}

// eventDays returns the first and last calendar day covered by the event.
func (i *Importer) eventDays(event Event) (first, last time.Time) {
	first = calendar.Midnight(event.Start, i.loc)
	last = calendar.Midnight(event.End.Add(-time.Second), i.loc)
	if last.Before(first) {
		last = first
	}
	return first, last
}

func summaryToken(summary string) string {
	fields := strings.Fields(summary)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
