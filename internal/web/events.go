package web

import (
	"net/http"

	appLog "calgrid/internal/log"
	"calgrid/internal/model"
	"calgrid/internal/store"
)

type eventsResponse struct {
	Events   []model.Event `json:"events"`
	Revision uint64        `json:"revision"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: events, Revision: s.store.Revision()})
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var ev model.Event
	if err := decodeJSON(w, r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event body: "+err.Error())
		return
	}

	added, err := s.store.Add(r.Context(), ev)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	appLog.Info("event added", "id", added.ID, "start", added.Start, "end", added.End)
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var p store.Patch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid patch body: "+err.Error())
		return
	}

	updated, err := s.store.Update(r.Context(), id, p)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	appLog.Info("event updated", "id", id)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	// A gesture on a deleted event has nothing left to move.
	s.dragMu.Lock()
	if s.drag.EventID() == id {
		_, _ = s.drag.Cancel()
	}
	s.dragMu.Unlock()

	appLog.Info("event deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
