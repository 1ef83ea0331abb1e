// Package store holds the event collection consumed by the layout engine.
// The engine only ever sees snapshots returned by List; mutation goes
// through Add, Update and Delete.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/samber/mo"

	"calgrid/internal/model"
)

var (
	ErrNotFound      = errors.New("event not found")
	ErrAlreadyExists = errors.New("event already exists")
	ErrInvalidEvent  = errors.New("invalid event")
)

// Store is the event collection. Implementations must hand out copies so
// callers can never alias stored state.
type Store interface {
	List(ctx context.Context) ([]model.Event, error)
	Get(ctx context.Context, id string) (model.Event, error)
	// Add stores ev, assigning an ID if it has none, and returns what was stored.
	Add(ctx context.Context, ev model.Event) (model.Event, error)
	// Update merges p into the event with the given ID.
	Update(ctx context.Context, id string, p Patch) (model.Event, error)
	Delete(ctx context.Context, id string) error
	// Revision changes on every successful mutation.
	Revision() uint64
}

// Patch is a partial update. Absent fields keep their stored value; a present
// empty string clears the field.
type Patch struct {
	Title       mo.Option[string]    `json:"title"`
	Description mo.Option[string]    `json:"description"`
	Start       mo.Option[time.Time] `json:"start"`
	End         mo.Option[time.Time] `json:"end"`
	Color       mo.Option[string]    `json:"color"`
	Category    mo.Option[string]    `json:"category"`
}

// TimesPatch sets only Start and End.
func TimesPatch(start, end time.Time) Patch {
	return Patch{Start: mo.Some(start), End: mo.Some(end)}
}

// IsEmpty reports whether p changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title.IsAbsent() && p.Description.IsAbsent() &&
		p.Start.IsAbsent() && p.End.IsAbsent() &&
		p.Color.IsAbsent() && p.Category.IsAbsent()
}

// Apply returns ev with p merged in. ev itself is not modified.
func (p Patch) Apply(ev model.Event) model.Event {
	ev.Title = p.Title.OrElse(ev.Title)
	ev.Description = p.Description.OrElse(ev.Description)
	ev.Start = p.Start.OrElse(ev.Start)
	ev.End = p.End.OrElse(ev.End)
	ev.Color = p.Color.OrElse(ev.Color)
	ev.Category = p.Category.OrElse(ev.Category)
	return ev
}
