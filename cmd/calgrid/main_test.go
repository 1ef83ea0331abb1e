package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calgrid/internal/calendar"
	"calgrid/internal/model"
	"calgrid/internal/store"
)

func TestPrintWeek(t *testing.T) {
	st := store.NewMemory()
	start := time.Date(2024, time.February, 15, 14, 0, 0, 0, time.UTC)
	_, err := st.Add(context.Background(), model.Event{ID: "zero", Title: "Ping", Start: start, End: start})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printWeek(&buf, st, "2024-02-15", time.UTC))

	var week []calendar.WeekColumn
	require.NoError(t, json.Unmarshal(buf.Bytes(), &week))
	require.Len(t, week, 7)
	require.Len(t, week[4].Placements, 1)
	assert.Equal(t, 840, week[4].Placements[0].Layout.VerticalOffset)
	assert.Equal(t, 0, week[4].Placements[0].Layout.VerticalExtent)
}

func TestPrintWeek_InvalidDate(t *testing.T) {
	var buf bytes.Buffer
	err := printWeek(&buf, store.NewMemory(), "not-a-date", time.UTC)

	var dateErr *calendar.InvalidDateError
	assert.True(t, errors.As(err, &dateErr))
	assert.Zero(t, buf.Len())
}
