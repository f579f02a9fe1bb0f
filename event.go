package timelinez

import (
	"os"
	"strconv"
)

// Event is a named span that appends one record per Begin/End call to its
// timeline. Pairing is the caller's responsibility: nothing stops an Event
// from being ended without a begin, or begun twice.
//
// Process and goroutine identity are captured once, at construction. An
// Event moved to another goroutine between Begin and End still reports the
// creating goroutine's id on both records.
type Event struct {
	timeline *Timeline
	template Record
}

// Event creates a span named name on this timeline.
func (t *Timeline) Event(name string) *Event {
	return t.EventMessage(name, "")
}

// EventMessage creates a span carrying a human-readable message, copied
// into the args of every record the span emits.
func (t *Timeline) EventMessage(name, message string) *Event {
	e := &Event{
		timeline: t,
		template: Record{
			Name:      name,
			Category:  recordCategory,
			ProcessID: strconv.Itoa(os.Getpid()),
			ThreadID:  goroutineID(),
		},
	}
	if message != "" {
		e.template.Args = map[string]string{"message": message}
	}
	return e
}

// NewEvent creates a span on the default timeline.
func NewEvent(name string) *Event {
	return defaultTimeline.Event(name)
}

// NewEventMessage creates an annotated span on the default timeline.
func NewEventMessage(name, message string) *Event {
	return defaultTimeline.EventMessage(name, message)
}

// Begin stamps the current time and appends a begin-phase record.
func (e *Event) Begin() {
	e.emit(PhaseBegin)
}

// End stamps the current time and appends an end-phase record.
func (e *Event) End() {
	e.emit(PhaseEnd)
}

func (e *Event) emit(ph Phase) {
	r := e.template
	r.Phase = ph
	r.Timestamp = formatTimestamp(e.timeline.clock.Now())
	e.timeline.append(r)
}

// Scope runs fn between Begin and End. The End record is emitted on every
// exit path, including panics, and fn's error is returned unchanged.
func (e *Event) Scope(fn func() error) error {
	e.Begin()
	defer e.End()
	return fn()
}
