package calendar

import (
	"slices"
	"time"

	"calgrid/internal/model"
)

// EventsOnDay returns the events whose Start falls on day's calendar date,
// in input order. End is ignored, so a multi-day event is only listed under
// the day it starts on.
func EventsOnDay(events []model.Event, day time.Time) []model.Event {
	out := make([]model.Event, 0)
	for _, ev := range events {
		if SameDay(ev.Start, day) {
			out = append(out, ev)
		}
	}
	return out
}

// EventsSpanningDay returns the events whose interval touches day: those
// starting on it plus those that started earlier and end after its midnight.
// The views use EventsOnDay; this is for callers that want every spanned day.
func EventsSpanningDay(events []model.Event, day time.Time) []model.Event {
	dayStart := StartOfDay(day)

	out := make([]model.Event, 0)
	for _, ev := range events {
		switch {
		case SameDay(ev.Start, day):
			out = append(out, ev)
		case ev.Start.Before(dayStart) && ev.End.After(dayStart):
			out = append(out, ev)
		}
	}
	return out
}

// SortByStart returns a copy of events ordered by Start. Equal starts keep
// their input order.
func SortByStart(events []model.Event) []model.Event {
	out := slices.Clone(events)
	if out == nil {
		out = []model.Event{}
	}
	slices.SortStableFunc(out, func(a, b model.Event) int {
		return a.Start.Compare(b.Start)
	})
	return out
}
