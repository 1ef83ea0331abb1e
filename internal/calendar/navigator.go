package calendar

import (
	"fmt"
	"time"
)

// View is the desktop view mode.
type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
)

// ParseView accepts "month" or "week". Empty input means month.
func ParseView(s string) (View, error) {
	switch View(s) {
	case "", ViewMonth:
		return ViewMonth, nil
	case ViewWeek:
		return ViewWeek, nil
	default:
		return "", fmt.Errorf("calendar: unknown view %q", s)
	}
}

// Navigator is the browsing position of a calendar: the month being shown,
// the view mode and an optional selected day. Methods return a new value.
type Navigator struct {
	Current  time.Time
	View     View
	Selected time.Time

	now func() time.Time
}

// NewNavigator starts at the month containing initial. A nil now uses
// time.Now.
func NewNavigator(initial time.Time, view View, now func() time.Time) Navigator {
	if now == nil {
		now = time.Now
	}
	if view == "" {
		view = ViewMonth
	}
	return Navigator{Current: StartOfMonth(initial), View: view, now: now}
}

// Next moves forward one calendar month, in either view.
func (n Navigator) Next() Navigator {
	n.Current = StartOfMonth(n.Current).AddDate(0, 1, 0)
	return n
}

// Previous moves back one calendar month, in either view.
func (n Navigator) Previous() Navigator {
	n.Current = StartOfMonth(n.Current).AddDate(0, -1, 0)
	return n
}

// Today jumps to the current month.
func (n Navigator) Today() Navigator {
	now := time.Now
	if n.now != nil {
		now = n.now
	}
	n.Current = StartOfMonth(now())
	return n
}

// ToggleView flips between month and week.
func (n Navigator) ToggleView() Navigator {
	if n.View == ViewWeek {
		n.View = ViewMonth
	} else {
		n.View = ViewWeek
	}
	return n
}

// Select marks day as selected.
func (n Navigator) Select(day time.Time) Navigator {
	n.Selected = StartOfDay(day)
	return n
}

// ClearSelection drops the selected day.
func (n Navigator) ClearSelection() Navigator {
	n.Selected = time.Time{}
	return n
}

// HasSelection reports whether a day is selected.
func (n Navigator) HasSelection() bool {
	return !n.Selected.IsZero()
}
