package calendar

import (
	"time"

	"calgrid/internal/model"
)

// DefaultMonthCellLimit is how many events a month cell previews.
const DefaultMonthCellLimit = 3

// MonthCell is one day of the month grid.
type MonthCell struct {
	Date       time.Time     `json:"date"`
	InMonth    bool          `json:"in_month"`
	IsToday    bool          `json:"is_today"`
	IsSelected bool          `json:"is_selected"`
	Events     []model.Event `json:"events"`

	// More is how many events did not fit in Events.
	More  int `json:"more"`
	Total int `json:"total"`
}

// WeekColumn is one day of the time-axis week view.
type WeekColumn struct {
	Date       time.Time   `json:"date"`
	Columns    int         `json:"columns"`
	Placements []Placement `json:"placements"`
}

// AgendaDay is one collapsible day of the mobile agenda.
type AgendaDay struct {
	Date   time.Time     `json:"date"`
	Events []model.Event `json:"events"`
	Count  int           `json:"count"`
}

// MonthOptions controls the month view flags.
type MonthOptions struct {
	Today time.Time

	// Selected is the zero time when nothing is selected.
	Selected time.Time

	// Limit caps Events per cell; <= 0 means DefaultMonthCellLimit.
	Limit int
}

// BuildMonth lays out the 42 cells for ref's month. Cell events keep the
// snapshot's order.
func BuildMonth(events []model.Event, ref time.Time, opts MonthOptions) []MonthCell {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultMonthCellLimit
	}

	days := MonthGrid(ref)
	cells := make([]MonthCell, len(days))
	for i, day := range days {
		dayEvents := EventsOnDay(events, day)
		shown := dayEvents
		if len(shown) > limit {
			shown = shown[:limit:limit]
		}
		cells[i] = MonthCell{
			Date:       day,
			InMonth:    SameMonth(day, ref),
			IsToday:    !opts.Today.IsZero() && SameDay(day, opts.Today),
			IsSelected: !opts.Selected.IsZero() && SameDay(day, opts.Selected),
			Events:     shown,
			More:       len(dayEvents) - len(shown),
			Total:      len(dayEvents),
		}
	}
	return cells
}

// BuildWeek lays out the Sunday-first week containing ref on the time axis.
func BuildWeek(events []model.Event, ref time.Time) []WeekColumn {
	days := WeekDays(ref)
	cols := make([]WeekColumn, len(days))
	for i, day := range days {
		placements := DayLayout(EventsOnDay(events, day))
		columns := 1
		if len(placements) > 0 {
			columns = placements[0].Layout.ColumnCount
		}
		cols[i] = WeekColumn{Date: day, Columns: columns, Placements: placements}
	}
	return cols
}

// BuildAgenda lists the week containing ref day by day, each day sorted by
// start.
func BuildAgenda(events []model.Event, ref time.Time) []AgendaDay {
	days := WeekDays(ref)
	out := make([]AgendaDay, len(days))
	for i, day := range days {
		dayEvents := SortByStart(EventsOnDay(events, day))
		out[i] = AgendaDay{Date: day, Events: dayEvents, Count: len(dayEvents)}
	}
	return out
}
