package bus

import (
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/poetenv/event"
)

// Report publishes output meant for stdout once the UI has been torn down.
func Report(report string) {
	Publish(partybus.Event{
		Type:  event.CLIReport,
		Value: report,
	})
}

// Notify publishes auxiliary information meant for stderr once the UI has been torn down.
func Notify(message string) {
	Publish(partybus.Event{
		Type:  event.CLINotification,
		Value: message,
	})
}
