package holiday

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/klokku/ledger/internal/event_bus"
	"github.com/klokku/ledger/internal/utils"
	"github.com/klokku/ledger/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceStub struct {
	events map[string][]Event
	err    error
}

func (s sourceStub) Events(ctx context.Context, calendarId string, since time.Time) ([]Event, error) {
	return s.events[calendarId], s.err
}

var loc, _ = time.LoadLocation("Europe/Berlin")

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func allDay(uid, summary string, from, toExclusive time.Time) Event {
	return Event{UID: uid, Summary: summary, Start: from, End: toExclusive}
}

func setupImporter(t *testing.T, source EventSource) (*Importer, *RepositoryStub, *[]event_bus.HolidaysImported) {
	repo := NewRepositoryStub()
	bus := event_bus.NewEventBus()
	published := make([]event_bus.HolidaysImported, 0)
	event_bus.SubscribeTyped(bus, event_bus.HolidaysImportedType, func(e event_bus.EventT[event_bus.HolidaysImported]) error {
		published = append(published, e.Data)
		return nil
	})
	clock := &utils.FixedClock{At: time.Date(2016, 7, 5, 10, 0, 0, 0, loc)}
	return NewImporter(repo, source, bus, clock, loc), repo, &published
}

var users = user.NewAliasMap(
	[]user.User{{Id: 1, Token: "anna"}, {Id: 2, Token: "joschi"}},
	map[string][]string{"joschi": {"jkphl"}},
)

func TestImporter_PersonalHolidays(t *testing.T) {
	source := sourceStub{events: map[string][]Event{
		"vacation": {
			// partially past: only today and later are stored
			allDay("e1", "Anna Urlaub", day(2016, 7, 4), day(2016, 7, 7)),
			allDay("e2", "jkphl off", day(2016, 8, 1), day(2016, 8, 2)),
			allDay("e3", "Nobody", day(2016, 8, 1), day(2016, 8, 2)),
			allDay("", "anna no id", day(2016, 8, 1), day(2016, 8, 2)),
			allDay("e4", "anna long gone", day(2016, 1, 4), day(2016, 1, 5)),
			allDay("e5", "   ", day(2016, 8, 3), day(2016, 8, 4)),
		},
	}}
	importer, repo, published := setupImporter(t, source)

	result, err := importer.ImportFeed(context.Background(), Feed{CalendarId: "vacation", Type: PersonalHoliday, Excused: true}, users)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Records)
	assert.Equal(t, 3, result.Skipped)

	anna, _ := repo.PersonalHolidaysInRange(context.Background(), 1, day(2016, 1, 1), day(2016, 12, 31))
	require.Len(t, anna, 2)
	assert.Equal(t, day(2016, 7, 5), anna[0].Date)
	assert.Equal(t, day(2016, 7, 6), anna[1].Date)
	assert.True(t, anna[0].Excused)
	assert.False(t, anna[0].Overtime)
	assert.Empty(t, anna[0].Name)

	joschi, _ := repo.PersonalHolidaysInRange(context.Background(), 2, day(2016, 1, 1), day(2016, 12, 31))
	require.Len(t, joschi, 1)
	assert.Equal(t, "e2", joschi[0].Uuid)

	require.Len(t, *published, 1)
	assert.False(t, (*published)[0].Business)
	assert.Equal(t, day(2016, 7, 5), (*published)[0].From)
	assert.Equal(t, day(2016, 8, 1), (*published)[0].To)
}

func TestImporter_BusinessHolidays_Idempotent(t *testing.T) {
	source := sourceStub{events: map[string][]Event{
		"public": {
			allDay("unity", "Tag der Deutschen Einheit", day(2016, 10, 3), day(2016, 10, 4)),
			allDay("xmas", "Weihnachten", day(2016, 12, 25), day(2016, 12, 27)),
		},
	}}
	importer, repo, published := setupImporter(t, source)
	feed := Feed{CalendarId: "public", Type: BusinessHoliday}

	_, err := importer.Import(context.Background(), []Feed{feed}, users)
	require.NoError(t, err)
	_, err = importer.Import(context.Background(), []Feed{feed}, users)
	require.NoError(t, err)

	stored := repo.All()
	assert.Len(t, stored, 3)
	business, _ := repo.BusinessHolidaysInRange(context.Background(), day(2016, 1, 1), day(2016, 12, 31))
	require.Len(t, business, 3)
	assert.Equal(t, "Tag der Deutschen Einheit", business[0].Name)
	assert.Nil(t, business[0].UserId)
	assert.Equal(t, day(2016, 12, 26), business[2].Date)

	require.Len(t, *published, 2)
	assert.True(t, (*published)[0].Business)
	assert.Equal(t, []int{2016}, (*published)[0].Years())
}

func TestImporter_Errors(t *testing.T) {
	t.Run("source failure", func(t *testing.T) {
		sourceErr := errors.New("quota exceeded")
		importer, _, published := setupImporter(t, sourceStub{err: sourceErr})

		_, err := importer.ImportFeed(context.Background(), Feed{CalendarId: "public", Type: BusinessHoliday}, users)

		assert.ErrorIs(t, err, sourceErr)
		assert.Empty(t, *published)
	})

	t.Run("store failure", func(t *testing.T) {
		source := sourceStub{events: map[string][]Event{
			"public": {allDay("xmas", "Weihnachten", day(2016, 12, 25), day(2016, 12, 26))},
		}}
		importer, repo, published := setupImporter(t, source)
		storeErr := errors.New("disk full")
		repo.Err = storeErr

		_, err := importer.ImportFeed(context.Background(), Feed{CalendarId: "public", Type: BusinessHoliday}, users)

		assert.ErrorIs(t, err, storeErr)
		assert.Empty(t, *published)
	})
}

func TestImporter_TimedEventEndingAtMidnight(t *testing.T) {
	importer, _, _ := setupImporter(t, sourceStub{})

	first, last := importer.eventDays(Event{
		Start: time.Date(2016, 9, 1, 14, 0, 0, 0, loc),
		End:   day(2016, 9, 3),
	})

	assert.Equal(t, day(2016, 9, 1), first)
	assert.Equal(t, day(2016, 9, 2), last)
}
