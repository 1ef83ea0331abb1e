package web

import (
	"errors"
	"net/http"

	"calgrid/internal/calendar"
	appLog "calgrid/internal/log"
	"calgrid/internal/model"
	"calgrid/internal/store"
)

type dragStartRequest struct {
	ID      string  `json:"id"`
	Pointer float64 `json:"pointer"`
}

type dragMoveRequest struct {
	Pointer float64 `json:"pointer"`
}

type dragResponse struct {
	State string       `json:"state"`
	Event *model.Event `json:"event,omitempty"`
}

// POST /api/drag/start {"id": "...", "pointer": 312}
func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var req dragStartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid drag body: "+err.Error())
		return
	}

	ev, err := s.store.Get(r.Context(), req.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.dragMu.Lock()
	defer s.dragMu.Unlock()

	if err := s.drag.Begin(ev, req.Pointer); err != nil {
		writeDragError(w, err)
		return
	}
	appLog.Debug("drag started", "id", ev.ID, "pointer", req.Pointer)
	writeJSON(w, http.StatusOK, dragResponse{State: s.drag.State().String(), Event: &ev})
}

// POST /api/drag/move {"pointer": 357}
//
// The rescheduled interval is written straight through to the store.
func (s *Server) handleDragMove(w http.ResponseWriter, r *http.Request) {
	var req dragMoveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid drag body: "+err.Error())
		return
	}

	s.dragMu.Lock()
	defer s.dragMu.Unlock()

	next, err := s.drag.Move(req.Pointer)
	if err != nil {
		writeDragError(w, err)
		return
	}
	s.writeBack(w, r, s.drag.EventID(), next)
}

// POST /api/drag/end
func (s *Server) handleDragEnd(w http.ResponseWriter, _ *http.Request) {
	s.dragMu.Lock()
	defer s.dragMu.Unlock()

	id := s.drag.EventID()
	if err := s.drag.End(); err != nil {
		writeDragError(w, err)
		return
	}
	appLog.Debug("drag ended", "id", id)
	writeJSON(w, http.StatusOK, dragResponse{State: s.drag.State().String()})
}

// POST /api/drag/cancel restores the interval the event had on drag start.
func (s *Server) handleDragCancel(w http.ResponseWriter, r *http.Request) {
	s.dragMu.Lock()
	defer s.dragMu.Unlock()

	id := s.drag.EventID()
	orig, err := s.drag.Cancel()
	if err != nil {
		writeDragError(w, err)
		return
	}
	appLog.Debug("drag cancelled", "id", id)
	s.writeBack(w, r, id, orig)
}

// writeBack stores the interval for event id. Caller holds dragMu.
func (s *Server) writeBack(w http.ResponseWriter, r *http.Request, id string, next calendar.Reschedule) {
	updated, err := s.store.Update(r.Context(), id, store.TimesPatch(next.Start, next.End))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) && s.drag.State() == calendar.DragDragging {
			// The event vanished mid-drag.
			_, _ = s.drag.Cancel()
		}
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dragResponse{State: s.drag.State().String(), Event: &updated})
}

func writeDragError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calendar.ErrDragInProgress), errors.Is(err, calendar.ErrNotDragging):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, calendar.ErrDeltaOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
