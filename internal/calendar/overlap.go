package calendar

import "calgrid/internal/model"

// Overlaps reports whether a and b share any time under half-open
// [Start, End) semantics. Back-to-back events do not overlap.
func Overlaps(a, b model.Event) bool {
	return a.End.After(b.Start) && a.Start.Before(b.End)
}

// OverlapGroups partitions one day's events into columns whose members never
// overlap each other.
//
// The packing is greedy first-fit: events are taken in stable Start order and
// each one lands in the first existing group it does not collide with, or in
// a new group at the end. This is order dependent and not always the minimum
// column count; views rely on this exact assignment, so keep it.
//
// Every input event appears in exactly one group. No groups are returned for
// empty input.
func OverlapGroups(events []model.Event) [][]model.Event {
	_, _, groups := assignColumns(events)
	return groups
}

// assignColumns runs the first-fit packing and returns the start-sorted
// events, the column of each sorted event, and the resulting groups.
func assignColumns(events []model.Event) ([]model.Event, []int, [][]model.Event) {
	sorted := SortByStart(events)
	cols := make([]int, len(sorted))
	groups := make([][]model.Event, 0)

	for i, ev := range sorted {
		col := -1
		for gi, g := range groups {
			if fits(g, ev) {
				col = gi
				break
			}
		}
		if col < 0 {
			col = len(groups)
			groups = append(groups, nil)
		}
		groups[col] = append(groups[col], ev)
		cols[i] = col
	}
	return sorted, cols, groups
}

func fits(group []model.Event, ev model.Event) bool {
	for _, m := range group {
		if Overlaps(m, ev) {
			return false
		}
	}
	return true
}
