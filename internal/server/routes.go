package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/friendgrow/internal/calendar"
	"github.com/lazypower/friendgrow/internal/dates"
	"github.com/lazypower/friendgrow/internal/engine"
	"github.com/lazypower/friendgrow/internal/render"
	"github.com/lazypower/friendgrow/internal/store"
)

type friendJSON struct {
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	FreqWeeks int     `json:"freq_weeks"`
	LastSeen  *string `json:"last_seen"`
}

type entryJSON struct {
	friendJSON
	Status  string `json:"status"`
	Days    uint16 `json:"days"`
	DueText string `json:"due_text"`
}

func toFriendJSON(f store.Friend) friendJSON {
	return friendJSON{Name: f.Name, Location: f.Location, FreqWeeks: f.FreqWeeks, LastSeen: f.LastSeen}
}

// nameParam returns the {name} segment. chi routes on RawPath when the
// request carries one (e.g. an escaped "/"), leaving the segment encoded.
func nameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrFriendNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrFriendExists):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNameRequired),
		errors.Is(err, dates.ErrDateFormat),
		errors.Is(err, dates.ErrFrequency),
		errors.Is(err, dates.ErrSeenEarlier),
		errors.Is(err, dates.ErrSeenFuture):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrArithmetic):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.engine.DB.ListFriends()
	if err != nil {
		fail(w, err)
		return
	}
	out := make([]friendJSON, 0, len(friends))
	for _, f := range friends {
		out = append(out, toFriendJSON(f))
	}
	writeJSON(w, http.StatusOK, map[string]any{"friends": out})
}

func (s *Server) handleGetFriend(w http.ResponseWriter, r *http.Request) {
	f, err := s.engine.Friend(nameParam(r))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFriendJSON(*f))
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		Location  string `json:"location"`
		FreqWeeks int    `json:"freq_weeks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	f, err := s.engine.AddFriend(req.Name, req.Location, req.FreqWeeks)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFriendJSON(*f))
}

func (s *Server) handleUpdateFriend(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)

	var req struct {
		Location  *string `json:"location"`
		FreqWeeks *int    `json:"freq_weeks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Location == nil && req.FreqWeeks == nil {
		writeError(w, http.StatusBadRequest, "location or freq_weeks required")
		return
	}

	f, err := s.engine.Friend(name)
	if err != nil {
		fail(w, err)
		return
	}
	if req.FreqWeeks != nil {
		if f, err = s.engine.SetFrequency(name, *req.FreqWeeks); err != nil {
			fail(w, err)
			return
		}
	}
	if req.Location != nil {
		if f, err = s.engine.SetLocation(name, *req.Location); err != nil {
			fail(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, toFriendJSON(*f))
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	f, err := s.engine.RemoveFriend(nameParam(r))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "removed", "friend": toFriendJSON(*f)})
}

func (s *Server) handleRecordSeen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Date == "" {
		req.Date = dates.Format(s.engine.Today())
	}

	f, err := s.engine.RecordSeen(nameParam(r), req.Date)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFriendJSON(*f))
}

// cutoffParam reads ?cutoff=N; 0 means the configured cutoff.
func cutoffParam(r *http.Request) (uint16, bool) {
	c := r.URL.Query().Get("cutoff")
	if c == "" {
		return 0, true
	}
	n, err := strconv.Atoi(c)
	if err != nil || n < 1 || n > math.MaxUint16 {
		return 0, false
	}
	return uint16(n), true
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	cutoff, ok := cutoffParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "cutoff must be a positive number of days")
		return
	}

	entries, err := s.engine.ListUpcoming(cutoff)
	if err != nil {
		fail(w, err)
		return
	}

	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{
			friendJSON: toFriendJSON(e.Friend),
			Status:     e.Status.Kind.String(),
			Days:       e.Status.Days,
			DueText:    render.DueText(e.Status),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"today":    dates.Format(s.engine.Today()),
		"upcoming": out,
	})
}

func (s *Server) handleUpcomingCalendar(w http.ResponseWriter, r *http.Request) {
	cutoff, ok := cutoffParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "cutoff must be a positive number of days")
		return
	}

	entries, err := s.engine.ListUpcoming(cutoff)
	if err != nil {
		fail(w, err)
		return
	}
	data, err := calendar.Build(entries, s.engine.Clock.Now())
	if err != nil {
		fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="friendgrow.ics"`)
	w.Write(data)
}
