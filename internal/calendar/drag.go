package calendar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"calgrid/internal/model"
)

// DefaultMinutesPerPixel matches a 1440px tall day (60px per hour).
const DefaultMinutesPerPixel = 1.0

// MaxDeltaMinutes is the largest shift, in either direction, that still fits
// in a time.Duration.
const MaxDeltaMinutes = math.MaxInt64 / int64(time.Minute)

var (
	ErrDragInProgress  = errors.New("calendar: drag already in progress")
	ErrNotDragging     = errors.New("calendar: no drag in progress")
	ErrDeltaOutOfRange = errors.New("calendar: drag delta out of range")
)

// Reschedule is the new interval of a dragged event.
type Reschedule struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// RescheduleDelta shifts start by deltaMinutes and keeps the duration, so
// End - Start == duration exactly. Shifts beyond MaxDeltaMinutes return
// ErrDeltaOutOfRange.
func RescheduleDelta(start time.Time, duration time.Duration, deltaMinutes int) (Reschedule, error) {
	if d := int64(deltaMinutes); d > MaxDeltaMinutes || d < -MaxDeltaMinutes {
		return Reschedule{}, fmt.Errorf("%w: %d minutes", ErrDeltaOutOfRange, deltaMinutes)
	}
	newStart := AddMinutes(start, deltaMinutes)
	return Reschedule{Start: newStart, End: newStart.Add(duration)}, nil
}

// PointerDeltaMinutes converts pointer travel along the time axis into whole
// minutes. Halves round up (toward positive infinity). No snapping.
//
// Non-finite travel, or travel that rounds past MaxDeltaMinutes, returns
// ErrDeltaOutOfRange.
func PointerDeltaMinutes(delta, minutesPerUnit float64) (int, error) {
	x := minutesPerUnit * delta
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("%w: %v minutes", ErrDeltaOutOfRange, x)
	}
	// Floor plus a fraction test; Floor(x+0.5) misrounds just below a half.
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	if math.Abs(r) > float64(MaxDeltaMinutes) {
		return 0, fmt.Errorf("%w: %v minutes", ErrDeltaOutOfRange, x)
	}
	return int(r), nil
}

// DragState is idle or dragging.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// DragGesture tracks one in-progress drag. The anchor (event, original
// interval, pointer position) is captured on Begin and never re-read, so the
// duration cannot drift while moves are written back to the store.
//
// DragGesture is not safe for concurrent use; a gesture has a single input
// source.
type DragGesture struct {
	scale float64

	state         DragState
	eventID       string
	originalStart time.Time
	originalEnd   time.Time
	anchor        float64
}

// NewDragGesture returns an idle gesture. A non-positive scale falls back to
// DefaultMinutesPerPixel.
func NewDragGesture(minutesPerUnit float64) *DragGesture {
	if minutesPerUnit <= 0 || math.IsNaN(minutesPerUnit) || math.IsInf(minutesPerUnit, 0) {
		minutesPerUnit = DefaultMinutesPerPixel
	}
	return &DragGesture{scale: minutesPerUnit}
}

// State returns the current state.
func (g *DragGesture) State() DragState { return g.state }

// EventID returns the dragged event's ID, or "" when idle.
func (g *DragGesture) EventID() string { return g.eventID }

// Begin anchors the gesture to ev at pointer position pointer.
func (g *DragGesture) Begin(ev model.Event, pointer float64) error {
	if g.state == DragDragging {
		return ErrDragInProgress
	}
	g.state = DragDragging
	g.eventID = ev.ID
	g.originalStart = ev.Start
	g.originalEnd = ev.End
	g.anchor = pointer
	return nil
}

// Move computes the interval for the current pointer position. The result is
// always relative to the original start, not to the previous move. A pointer
// too far from the anchor returns ErrDeltaOutOfRange and leaves the gesture
// dragging.
func (g *DragGesture) Move(pointer float64) (Reschedule, error) {
	if g.state != DragDragging {
		return Reschedule{}, ErrNotDragging
	}
	delta, err := PointerDeltaMinutes(pointer-g.anchor, g.scale)
	if err != nil {
		return Reschedule{}, err
	}
	return RescheduleDelta(g.originalStart, g.originalEnd.Sub(g.originalStart), delta)
}

// End finishes the gesture. The last position written by the caller stands.
func (g *DragGesture) End() error {
	if g.state != DragDragging {
		return ErrNotDragging
	}
	g.reset()
	return nil
}

// Cancel aborts the gesture and returns the original interval so the caller
// can restore it.
func (g *DragGesture) Cancel() (Reschedule, error) {
	if g.state != DragDragging {
		return Reschedule{}, ErrNotDragging
	}
	orig := Reschedule{Start: g.originalStart, End: g.originalEnd}
	g.reset()
	return orig, nil
}

func (g *DragGesture) reset() {
	g.state = DragIdle
	g.eventID = ""
	g.originalStart = time.Time{}
	g.originalEnd = time.Time{}
	g.anchor = 0
}
