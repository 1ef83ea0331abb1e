package model

import (
	"errors"
	"strings"
	"time"
)

// Event is a single timed calendar entry as held by the event store.
//
// Start and End are wall-clock instants; no timezone conversion is applied
// anywhere in the layout engine. Color and Category are opaque tokens that
// only the rendering side interprets.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Color    string `json:"color,omitempty"`
	Category string `json:"category,omitempty"`
}

var (
	ErrEmptyTitle     = errors.New("event title is empty")
	ErrEndBeforeStart = errors.New("event end is before start")
)

// Duration returns End - Start. It is negative for inverted intervals.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Validate applies the editing rules used before an event is stored:
// a non-blank title and End not before Start. The layout functions never
// call it and accept invalid events as-is.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if e.End.Before(e.Start) {
		return ErrEndBeforeStart
	}
	return nil
}
