package calendar

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRescheduleDelta(t *testing.T) {
	got, err := RescheduleDelta(at(2024, time.May, 1, 10, 0), 60*time.Minute, 45)
	require.NoError(t, err)
	assert.Equal(t, at(2024, time.May, 1, 10, 45), got.Start)
	assert.Equal(t, at(2024, time.May, 1, 11, 45), got.End)

	got, err = RescheduleDelta(at(2024, time.May, 1, 0, 15), 30*time.Minute, -30)
	require.NoError(t, err)
	assert.Equal(t, at(2024, time.April, 30, 23, 45), got.Start)
	assert.Equal(t, at(2024, time.May, 1, 0, 15), got.End)
}

func TestRescheduleDelta_Bounds(t *testing.T) {
	start := at(2024, time.May, 1, 10, 0)

	got, err := RescheduleDelta(start, time.Hour, int(MaxDeltaMinutes))
	require.NoError(t, err)
	assert.True(t, got.Start.After(start))
	assert.Equal(t, time.Hour, got.End.Sub(got.Start))

	got, err = RescheduleDelta(start, time.Hour, -int(MaxDeltaMinutes))
	require.NoError(t, err)
	assert.True(t, got.Start.Before(start))

	_, err = RescheduleDelta(start, time.Hour, int(MaxDeltaMinutes)+1)
	assert.ErrorIs(t, err, ErrDeltaOutOfRange)
	_, err = RescheduleDelta(start, time.Hour, -int(MaxDeltaMinutes)-1)
	assert.ErrorIs(t, err, ErrDeltaOutOfRange)
}

func TestRescheduleDelta_DurationInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		start := at(2024, time.January, 1, 0, 0).Add(time.Duration(rnd.Int63n(int64(365 * 24 * time.Hour))))
		dur := time.Duration(rnd.Int63n(int64(48*time.Hour))) - 2*time.Hour
		delta := rnd.Intn(4000) - 2000

		got, err := RescheduleDelta(start, dur, delta)
		require.NoError(t, err)
		assert.Equal(t, dur, got.End.Sub(got.Start))
		assert.Equal(t, time.Duration(delta)*time.Minute, got.Start.Sub(start))
	}
}

func TestPointerDeltaMinutes(t *testing.T) {
	tests := []struct {
		delta, scale float64
		want         int
	}{
		{delta: 45, scale: 1, want: 45},
		{delta: -45, scale: 1, want: -45},
		{delta: 3, scale: 0.5, want: 2},
		{delta: -1, scale: 0.5, want: 0},
		{delta: -3, scale: 0.5, want: -1},
		{delta: 10.4, scale: 1, want: 10},
		{delta: 0, scale: 2, want: 0},
		{delta: 0.5, scale: 1, want: 1},
		{delta: -0.5, scale: 1, want: 0},
		{delta: 2.5, scale: 1, want: 3},
		{delta: -2.5, scale: 1, want: -2},
		{delta: 0.49999999999999994, scale: 1, want: 0},
	}
	for _, tt := range tests {
		got, err := PointerDeltaMinutes(tt.delta, tt.scale)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "delta=%v scale=%v", tt.delta, tt.scale)
	}
}

func TestPointerDeltaMinutes_OutOfRange(t *testing.T) {
	for _, delta := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e12, -1e16, 1e20} {
		_, err := PointerDeltaMinutes(delta, 1)
		assert.ErrorIs(t, err, ErrDeltaOutOfRange, "delta=%v", delta)
	}

	got, err := PointerDeltaMinutes(float64(MaxDeltaMinutes), 1)
	require.NoError(t, err)
	assert.Equal(t, int(MaxDeltaMinutes), got)
}

func TestDragGesture_Lifecycle(t *testing.T) {
	g := NewDragGesture(1)
	assert.Equal(t, DragIdle, g.State())

	_, err := g.Move(10)
	assert.ErrorIs(t, err, ErrNotDragging)
	assert.ErrorIs(t, g.End(), ErrNotDragging)

	event := ev("standup", at(2024, time.May, 1, 10, 0), at(2024, time.May, 1, 11, 0))
	require.NoError(t, g.Begin(event, 200))
	assert.Equal(t, DragDragging, g.State())
	assert.Equal(t, "standup", g.EventID())
	assert.ErrorIs(t, g.Begin(event, 0), ErrDragInProgress)

	got, err := g.Move(245)
	require.NoError(t, err)
	assert.Equal(t, at(2024, time.May, 1, 10, 45), got.Start)
	assert.Equal(t, at(2024, time.May, 1, 11, 45), got.End)

	// Moves are relative to the anchor, so going back up undoes the shift.
	got, err = g.Move(170)
	require.NoError(t, err)
	assert.Equal(t, at(2024, time.May, 1, 9, 30), got.Start)
	assert.Equal(t, time.Hour, got.End.Sub(got.Start))

	require.NoError(t, g.End())
	assert.Equal(t, DragIdle, g.State())
	assert.Empty(t, g.EventID())
}

func TestDragGesture_Cancel(t *testing.T) {
	g := NewDragGesture(0.5)
	event := ev("review", at(2024, time.May, 1, 15, 0), at(2024, time.May, 1, 15, 20))
	require.NoError(t, g.Begin(event, 0))

	got, err := g.Move(60)
	require.NoError(t, err)
	assert.Equal(t, at(2024, time.May, 1, 15, 30), got.Start)

	orig, err := g.Cancel()
	require.NoError(t, err)
	assert.Equal(t, event.Start, orig.Start)
	assert.Equal(t, event.End, orig.End)
	assert.Equal(t, DragIdle, g.State())

	_, err = g.Cancel()
	assert.ErrorIs(t, err, ErrNotDragging)
}

func TestDragGesture_MoveOutOfRange(t *testing.T) {
	g := NewDragGesture(1)
	event := ev("standup", at(2024, time.May, 1, 10, 0), at(2024, time.May, 1, 11, 0))
	require.NoError(t, g.Begin(event, 0))

	for _, pointer := range []float64{1e12, 1e20, -1e16} {
		_, err := g.Move(pointer)
		assert.ErrorIs(t, err, ErrDeltaOutOfRange, "pointer=%v", pointer)
	}

	// The gesture survives a rejected move.
	assert.Equal(t, DragDragging, g.State())
	got, err := g.Move(30)
	require.NoError(t, err)
	assert.Equal(t, at(2024, time.May, 1, 10, 30), got.Start)
	assert.Equal(t, at(2024, time.May, 1, 11, 30), got.End)
}

func TestNewDragGesture_DefaultScale(t *testing.T) {
	g := NewDragGesture(-3)
	require.NoError(t, g.Begin(ev("x", at(2024, time.May, 1, 8, 0), at(2024, time.May, 1, 9, 0)), 0))
	got, err := g.Move(15)
	require.NoError(t, err)
	assert.Equal(t, at(2024, time.May, 1, 8, 15), got.Start)
	assert.Equal(t, "dragging", g.State().String())
}
