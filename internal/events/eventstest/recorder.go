// Package eventstest provides an in-memory events.Publisher for tests.
package eventstest

import (
	"context"

	"cafe-terminal/internal/events"
)

// Recorder keeps published events in memory.
type Recorder struct {
	Events []events.Event
}

// Publish appends ev.
func (r *Recorder) Publish(_ context.Context, ev events.Event) error {
	r.Events = append(r.Events, ev)
	return nil
}

// Kinds lists the kinds recorded so far.
func (r *Recorder) Kinds() []string {
	kinds := make([]string, len(r.Events))
	for i, ev := range r.Events {
		kinds[i] = ev.Kind
	}
	return kinds
}
