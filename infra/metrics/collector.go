package metrics

import (
	"context"

	"github.com/kilianp07/castplan/core/session"
	"github.com/kilianp07/castplan/internal/eventbus"
)

// EventCounter counts session events by kind.
type EventCounter interface {
	CountEvent(kind string)
}

// StartEventCollector subscribes to the bus and counts every session event.
// It stops when the context is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[session.Event], c EventCounter) {
	if bus == nil || c == nil {
		return
	}
	sub, unsubscribe := bus.Subscribe()
	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				c.CountEvent(string(ev.Kind))
			}
		}
	}()
}
