package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calgrid/internal/model"
)

func sampleEvent(id, title string, startHour int) model.Event {
	start := time.Date(2024, time.May, 1, startHour, 0, 0, 0, time.UTC)
	return model.Event{ID: id, Title: title, Start: start, End: start.Add(time.Hour), Color: "#3b82f6"}
}

func TestMemory_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	assert.Zero(t, s.Revision())

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	a, err := s.Add(ctx, sampleEvent("a", "Standup", 9))
	require.NoError(t, err)
	assert.Equal(t, "a", a.ID)

	b, err := s.Add(ctx, sampleEvent("", "Design review", 8))
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID, "store assigns an ID")

	_, err = s.Add(ctx, sampleEvent("a", "Duplicate", 10))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID, "insertion order is kept")
	assert.Equal(t, uint64(2), s.Revision())

	got, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Design review", got.Title)

	require.NoError(t, s.Delete(ctx, "a"))
	assert.ErrorIs(t, s.Delete(ctx, "a"), ErrNotFound)
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, uint64(3), s.Revision())
}

func TestMemory_ListIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	_, err := s.Add(ctx, sampleEvent("a", "Standup", 9))
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	list[0].Title = "mutated"

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Standup", got.Title)
}

func TestMemory_Validation(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, err := s.Add(ctx, sampleEvent("blank", "   ", 9))
	assert.ErrorIs(t, err, ErrInvalidEvent)
	assert.ErrorIs(t, err, model.ErrEmptyTitle)

	inverted := sampleEvent("inv", "Inverted", 9)
	inverted.End = inverted.Start.Add(-time.Minute)
	_, err = s.Add(ctx, inverted)
	assert.ErrorIs(t, err, model.ErrEndBeforeStart)

	_, err = s.Add(ctx, sampleEvent("ok", "Fine", 9))
	require.NoError(t, err)

	_, err = s.Update(ctx, "ok", Patch{End: mo.Some(time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC))})
	assert.ErrorIs(t, err, ErrInvalidEvent)

	got, err := s.Get(ctx, "ok")
	require.NoError(t, err)
	assert.Equal(t, 10, got.End.Hour(), "rejected update leaves the event untouched")
}

func TestMemory_Update(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	orig := sampleEvent("a", "Standup", 9)
	orig.Category = "Meeting"
	_, err := s.Add(ctx, orig)
	require.NoError(t, err)

	tests := []struct {
		name  string
		patch Patch
		check func(t *testing.T, ev model.Event)
	}{
		{
			name:  "title only",
			patch: Patch{Title: mo.Some("Daily standup")},
			check: func(t *testing.T, ev model.Event) {
				assert.Equal(t, "Daily standup", ev.Title)
				assert.Equal(t, "Meeting", ev.Category)
				assert.Equal(t, orig.Start, ev.Start)
			},
		},
		{
			name:  "clear category",
			patch: Patch{Category: mo.Some("")},
			check: func(t *testing.T, ev model.Event) {
				assert.Empty(t, ev.Category)
				assert.Equal(t, "Daily standup", ev.Title)
			},
		},
		{
			name:  "times",
			patch: TimesPatch(orig.Start.Add(45*time.Minute), orig.End.Add(45*time.Minute)),
			check: func(t *testing.T, ev model.Event) {
				assert.Equal(t, 45, ev.Start.Minute())
				assert.Equal(t, time.Hour, ev.Duration())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Update(ctx, "a", tt.patch)
			require.NoError(t, err)
			tt.check(t, got)

			stored, err := s.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, got, stored)
		})
	}

	rev := s.Revision()
	_, err = s.Update(ctx, "a", Patch{})
	require.NoError(t, err)
	assert.Equal(t, rev, s.Revision(), "empty patch is not a mutation")

	_, err = s.Update(ctx, "missing", Patch{Title: mo.Some("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPatch_JSON(t *testing.T) {
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Renamed","start":"2024-05-01T10:45:00Z"}`), &p))

	assert.True(t, p.Title.IsPresent())
	assert.True(t, p.Start.IsPresent())
	assert.True(t, p.End.IsAbsent())
	assert.True(t, p.Category.IsAbsent())

	ev := p.Apply(sampleEvent("a", "Standup", 9))
	assert.Equal(t, "Renamed", ev.Title)
	assert.Equal(t, 45, ev.Start.Minute())
	assert.Equal(t, 10, ev.End.Hour())
}

func TestOpenAndFlush(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "events.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Flush(), "clean store is not written")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	_, err = s.Add(ctx, sampleEvent("a", "Standup", 9))
	require.NoError(t, err)
	_, err = s.Add(ctx, sampleEvent("b", "Lunch", 12))
	require.NoError(t, err)
	require.NoError(t, s.Flush())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := Open(path)
	require.NoError(t, err)
	list, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "Lunch", list[1].Title)
	assert.True(t, list[1].Start.Equal(sampleEvent("b", "Lunch", 12).Start))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = Open(path)
	assert.Error(t, err)
}

func TestNewMemory_FlushWithoutFile(t *testing.T) {
	s := NewMemory()
	_, err := s.Add(context.Background(), sampleEvent("a", "Standup", 9))
	require.NoError(t, err)
	assert.NoError(t, s.Flush())
}
