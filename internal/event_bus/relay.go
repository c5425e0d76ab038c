package event_bus

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// HolidaysImportedChannel is the notification channel carrying HolidaysImported events
// between processes sharing one database.
const HolidaysImportedChannel = "ledger_holidays_imported"

// Notifier sends a payload to every process listening on channel.
type Notifier interface {
	Notify(ctx context.Context, channel, payload string) error
}

// ForwardHolidayImports sends every locally published HolidaysImported event through
// notifier, so that other processes can invalidate their caches.
//
// Example:
//
//	unsubscribe := event_bus.ForwardHolidayImports(bus, database.NewNotifier(pool))
//	defer unsubscribe()
func ForwardHolidayImports(bus *EventBus, notifier Notifier) (unsubscribe func()) {
	return SubscribeTyped(bus, HolidaysImportedType, func(e EventT[HolidaysImported]) error {
		if e.Data.Relayed {
			return nil
		}
		payload, err := json.Marshal(e.Data)
		if err != nil {
			return fmt.Errorf("failed to encode %s event: %w", e.Type, err)
		}
		if err := notifier.Notify(e.Context(), HolidaysImportedChannel, string(payload)); err != nil {
			return fmt.Errorf("failed to forward %s event: %w", e.Type, err)
		}
		log.Debugf("forwarded %s event for %v", e.Type, e.Data.Years())
		return nil
	})
}

// RelayHolidayImport decodes a payload written by ForwardHolidayImports and publishes it
// on the local bus.
func RelayHolidayImport(ctx context.Context, bus *EventBus, payload string) error {
	var data HolidaysImported
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return fmt.Errorf("invalid %s payload %q: %w", HolidaysImportedType, payload, err)
	}
	data.Relayed = true
	log.Debugf("received %s event for %v", HolidaysImportedType, data.Years())
	return bus.Publish(NewEvent(ctx, HolidaysImportedType, data))
}
