package web

import (
	"net/http"
	"time"

	"calgrid/internal/calendar"
	appLog "calgrid/internal/log"
)

const dateLayout = calendar.DateLayout

type viewKey struct {
	view     string
	date     string
	selected string
	today    string
}

type viewEntry struct {
	revision  uint64
	updatedAt time.Time
	resp      any
}

type monthResponse struct {
	Date     string               `json:"date"`
	Previous string               `json:"previous"`
	Next     string               `json:"next"`
	Cells    []calendar.MonthCell `json:"cells"`
	Revision uint64               `json:"revision"`
}

type weekResponse struct {
	Date     string                `json:"date"`
	Previous string                `json:"previous"`
	Next     string                `json:"next"`
	Days     []calendar.WeekColumn `json:"days"`
	Revision uint64                `json:"revision"`
}

type agendaResponse struct {
	Date     string               `json:"date"`
	Days     []calendar.AgendaDay `json:"days"`
	Revision uint64               `json:"revision"`
}

// GET /api/month?date=2024-02-15&selected=2024-02-14
func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.dateParam(w, r, "date")
	if !ok {
		return
	}
	var selected time.Time
	if r.URL.Query().Get("selected") != "" {
		if selected, ok = s.dateParam(w, r, "selected"); !ok {
			return
		}
	}

	today := s.today()
	first := calendar.StartOfMonth(ref)
	key := viewKey{view: "month", date: first.Format(dateLayout), today: today.Format(dateLayout)}
	if !selected.IsZero() {
		key.selected = selected.Format(dateLayout)
	}

	s.serveView(w, key, func(rev uint64) (any, error) {
		events, err := s.store.List(r.Context())
		if err != nil {
			return nil, err
		}
		cells := calendar.BuildMonth(events, ref, calendar.MonthOptions{
			Today:    today,
			Selected: selected,
			Limit:    s.cfg.MonthCellLimit,
		})
		return monthResponse{
			Date:     first.Format(dateLayout),
			Previous: first.AddDate(0, -1, 0).Format(dateLayout),
			Next:     first.AddDate(0, 1, 0).Format(dateLayout),
			Cells:    cells,
			Revision: rev,
		}, nil
	})
}

// GET /api/week?date=2024-02-15
func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.dateParam(w, r, "date")
	if !ok {
		return
	}
	first := calendar.StartOfWeek(ref)

	s.serveView(w, viewKey{view: "week", date: first.Format(dateLayout)}, func(rev uint64) (any, error) {
		events, err := s.store.List(r.Context())
		if err != nil {
			return nil, err
		}
		return weekResponse{
			Date:     first.Format(dateLayout),
			Previous: calendar.AddDays(first, -calendar.WeekLength).Format(dateLayout),
			Next:     calendar.AddDays(first, calendar.WeekLength).Format(dateLayout),
			Days:     calendar.BuildWeek(events, first),
			Revision: rev,
		}, nil
	})
}

// GET /api/agenda?date=2024-02-15
func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.dateParam(w, r, "date")
	if !ok {
		return
	}
	first := calendar.StartOfWeek(ref)

	s.serveView(w, viewKey{view: "agenda", date: first.Format(dateLayout)}, func(rev uint64) (any, error) {
		events, err := s.store.List(r.Context())
		if err != nil {
			return nil, err
		}
		return agendaResponse{
			Date:     first.Format(dateLayout),
			Days:     calendar.BuildAgenda(events, first),
			Revision: rev,
		}, nil
	})
}

// serveView answers from the cache while the entry is fresh and the store
// has not changed, and rebuilds otherwise. The revision is read before the
// snapshot so a concurrent write can only make the entry look stale.
func (s *Server) serveView(w http.ResponseWriter, key viewKey, build func(rev uint64) (any, error)) {
	ttl := s.cfg.LayoutCacheTTL()
	rev := s.store.Revision()
	now := s.now()

	if ttl > 0 {
		s.viewMu.RLock()
		entry, ok := s.viewCache[key]
		s.viewMu.RUnlock()
		if ok && entry.revision == rev && now.Sub(entry.updatedAt) < ttl {
			writeJSON(w, http.StatusOK, entry.resp)
			return
		}
	}

	resp, err := build(rev)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	appLog.Debug("view computed", "view", key.view, "date", key.date, "revision", rev)

	if ttl > 0 {
		s.viewMu.Lock()
		s.pruneViews(now, ttl)
		s.viewCache[key] = viewEntry{revision: rev, updatedAt: now, resp: resp}
		s.viewMu.Unlock()
	}
	writeJSON(w, http.StatusOK, resp)
}

// pruneViews drops expired entries. Caller holds viewMu.
func (s *Server) pruneViews(now time.Time, ttl time.Duration) {
	for k, e := range s.viewCache {
		if now.Sub(e.updatedAt) >= ttl {
			delete(s.viewCache, k)
		}
	}
}

// dateParam reads a date query parameter; missing means today. On a bad
// value it writes a 400 and returns false.
func (s *Server) dateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return s.today(), true
	}
	d, err := calendar.ParseDate(raw, s.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, false
	}
	return d, true
}

func (s *Server) today() time.Time {
	return calendar.StartOfDay(s.now().In(s.loc))
}
