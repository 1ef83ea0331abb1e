package calendar

import (
	"slices"

	"calgrid/internal/model"
)

// Layout is the abstract time-axis geometry of one event. Vertical values are
// minutes, horizontal values are fractions of the day column. Converting to
// pixels is up to the renderer.
type Layout struct {
	// VerticalOffset is minutes since midnight of the event's start.
	VerticalOffset int `json:"vertical_offset"`
	// VerticalExtent is the event length in minutes. Zero or negative values
	// are passed through unclamped.
	VerticalExtent int `json:"vertical_extent"`

	ColumnIndex int `json:"column_index"`
	ColumnCount int `json:"column_count"`

	HorizontalFraction       float64 `json:"horizontal_fraction"`
	HorizontalOffsetFraction float64 `json:"horizontal_offset_fraction"`
}

// Placement pairs an event with its computed layout.
type Placement struct {
	Event  model.Event `json:"event"`
	Layout Layout      `json:"layout"`
}

// LayoutOf computes the geometry of ev within a day partitioned into groups
// by OverlapGroups. The event is located by value, then by ID; an event not
// found in any group is placed in column 0. ColumnCount is at least 1.
func LayoutOf(ev model.Event, groups [][]model.Event) Layout {
	return layoutAt(ev, groupIndex(ev, groups), len(groups))
}

// DayLayout groups one day's events and lays each of them out. Placements
// come back in start order.
func DayLayout(events []model.Event) []Placement {
	sorted, cols, groups := assignColumns(events)

	out := make([]Placement, len(sorted))
	for i, ev := range sorted {
		out[i] = Placement{Event: ev, Layout: layoutAt(ev, cols[i], len(groups))}
	}
	return out
}

// ColumnCount returns the number of rendering columns for groups, never less
// than 1.
func ColumnCount(groups [][]model.Event) int {
	return max(len(groups), 1)
}

func layoutAt(ev model.Event, col, groupCount int) Layout {
	count := max(groupCount, 1)
	if col < 0 {
		col = 0
	}
	return Layout{
		VerticalOffset:           MinutesSinceMidnight(ev.Start),
		VerticalExtent:           DurationMinutes(ev.Start, ev.End),
		ColumnIndex:              col,
		ColumnCount:              count,
		HorizontalFraction:       1 / float64(count),
		HorizontalOffsetFraction: float64(col) / float64(count),
	}
}

// groupIndex finds ev by value first, so events with empty or shared IDs still
// land in their own group. Only when no group holds an equal event does it
// fall back to matching a non-empty ID, which covers an event edited since
// the groups were built. Byte-identical copies share the first match.
func groupIndex(ev model.Event, groups [][]model.Event) int {
	for i, g := range groups {
		if slices.Contains(g, ev) {
			return i
		}
	}
	if ev.ID == "" {
		return -1
	}
	for i, g := range groups {
		if slices.ContainsFunc(g, func(m model.Event) bool { return m.ID == ev.ID }) {
			return i
		}
	}
	return -1
}
