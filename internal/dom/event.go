package dom

import (
	"encoding/json"
	"fmt"
)

// EventKind identifies what a user interaction asks the overlay to do.
type EventKind string

const (
	// EventOpen opens the tooltip for Selector.
	EventOpen EventKind = "open"
	// EventClose closes the open tooltip, if any.
	EventClose EventKind = "close"
)

// Event is delivered by a page when a bound element is clicked or a
// registered key is released.
type Event struct {
	Kind     EventKind `json:"kind"`
	Selector string    `json:"selector,omitempty"`
}

// Open builds an open event for selector.
func Open(selector string) Event {
	return Event{Kind: EventOpen, Selector: selector}
}

// Close builds a close event.
func Close() Event {
	return Event{Kind: EventClose}
}

// ParseEvent decodes an event payload sent from the page.
func ParseEvent(payload string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, fmt.Errorf("failed to parse event payload: %w", err)
	}
	switch ev.Kind {
	case EventOpen:
		if ev.Selector == "" {
			return Event{}, fmt.Errorf("open event without selector")
		}
	case EventClose:
	default:
		return Event{}, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return ev, nil
}

// Payload encodes the event for the page-side runtime.
func (ev Event) Payload() string {
	data, _ := json.Marshal(ev)
	return string(data)
}
