package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/conorfennell/arcana/internal/domain"
	"github.com/conorfennell/arcana/internal/draw"
	"github.com/conorfennell/arcana/internal/reading"
	"github.com/conorfennell/arcana/internal/storage"
	"github.com/conorfennell/arcana/internal/streak"
)

// handleCards lists the full catalog for the gallery view.
func (s *Server) handleCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.writeJSON(w, http.StatusOK, s.catalog.Cards())
	}
}

// handleCardDetail returns one card plus its favorited state.
func (s *Server) handleCardDetail() http.HandlerFunc {
	type response struct {
		domain.Card
		Favorited bool `json:"favorited"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		idStr := strings.TrimPrefix(r.URL.Path, "/api/cards/")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid card id")
			return
		}
		card, ok := s.catalog.ByID(id)
		if !ok {
			s.writeError(w, http.StatusNotFound, "card not found")
			return
		}
		favorited, err := s.db.IsFavorite(id)
		if err != nil {
			s.internalError(w, "failed to check favorite", err)
			return
		}
		s.writeJSON(w, http.StatusOK, response{Card: card, Favorited: favorited})
	}
}

// handleDraw draws cards, saves the history entry and, when a gateway is
// configured, requests the reading before responding. A gateway failure
// leaves the entry with a null reading and reports the cause alongside it.
func (s *Server) handleDraw() http.HandlerFunc {
	type request struct {
		Question string `json:"question"`
		Count    int    `json:"count"`
		Persona  string `json:"persona"`
	}
	type response struct {
		Entry        domain.HistoryEntry `json:"entry"`
		ReadingError string              `json:"reading_error,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Count == 0 {
			req.Count = 3
		}

		persona, ok := reading.PersonaByKey(valueOr(req.Persona, reading.DefaultPersonaKey))
		if !ok {
			s.writeError(w, http.StatusBadRequest, "unknown persona")
			return
		}

		cards, err := s.engine.Draw(req.Count)
		if err != nil {
			s.drawError(w, err)
			return
		}

		id, err := s.db.SaveEntry(req.Question, cards)
		if err != nil {
			s.internalError(w, "failed to save history entry", err)
			return
		}

		resp := response{}
		if s.readings != nil {
			system, user := reading.BuildPrompts(persona, req.Question, cards)
			text, err := s.readings.Reading(r.Context(), system, user)
			if err != nil {
				s.logger.Error("reading request failed", "entry", id, "error", err)
				resp.ReadingError = gatewayErrMessage(err)
			} else if err := s.db.UpdateReading(id, text); err != nil {
				s.internalError(w, "failed to store reading", err)
				return
			}
		}

		entry, err := s.db.Entry(id)
		if err != nil {
			s.internalError(w, "failed to reload entry", err)
			return
		}
		resp.Entry = entry
		s.writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) drawError(w http.ResponseWriter, err error) {
	if errors.Is(err, draw.ErrBadCount) {
		s.writeError(w, http.StatusBadRequest, "count out of range")
		return
	}
	// An empty catalog is a deployment fault, not a bad request.
	s.internalError(w, "draw failed", err)
}

// handleHistory returns recent entries, most recent first.
func (s *Server) handleHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				s.writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = min(n, 100)
		}
		entries, err := s.db.RecentEntries(limit)
		if err != nil {
			s.internalError(w, "failed to fetch history", err)
			return
		}
		if entries == nil {
			entries = []domain.HistoryEntry{}
		}
		s.writeJSON(w, http.StatusOK, entries)
	}
}

// handleDeleteHistory removes one entry by id.
func (s *Server) handleDeleteHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/history/")
		if id == "" {
			s.writeError(w, http.StatusBadRequest, "missing entry id")
			return
		}
		err := s.db.DeleteEntry(id)
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		if err != nil {
			s.internalError(w, "failed to delete entry", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleFavorites lists favorited card ids.
func (s *Server) handleFavorites() http.HandlerFunc {
	type response struct {
		CardIDs []int `json:"card_ids"`
		Count   int   `json:"count"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		ids, err := s.db.Favorites()
		if err != nil {
			s.internalError(w, "failed to fetch favorites", err)
			return
		}
		if ids == nil {
			ids = []int{}
		}
		s.writeJSON(w, http.StatusOK, response{CardIDs: ids, Count: len(ids)})
	}
}

// handleToggleFavorite flips a card's favorited state.
func (s *Server) handleToggleFavorite() http.HandlerFunc {
	type response struct {
		CardID    int  `json:"card_id"`
		Favorited bool `json:"favorited"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		path := strings.TrimPrefix(r.URL.Path, "/api/favorites/")
		idStr, ok := strings.CutSuffix(path, "/toggle")
		if !ok {
			s.writeError(w, http.StatusNotFound, "not found")
			return
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid card id")
			return
		}
		if _, exists := s.catalog.ByID(id); !exists {
			s.writeError(w, http.StatusNotFound, "card not found")
			return
		}
		favorited, err := s.db.ToggleFavorite(id)
		if err != nil {
			s.internalError(w, "failed to toggle favorite", err)
			return
		}
		s.writeJSON(w, http.StatusOK, response{CardID: id, Favorited: favorited})
	}
}

// handleStreak reports the daily-draw streak position.
func (s *Server) handleStreak() http.HandlerFunc {
	type response struct {
		Days         int    `json:"days"`
		LastDraw     string `json:"last_draw,omitempty"`
		DrawnToday   bool   `json:"drawn_today"`
		SkippedToday bool   `json:"skipped_today"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		now := time.Now()
		state, err := s.db.Streak()
		if err != nil {
			s.internalError(w, "failed to read streak", err)
			return
		}
		skipped, err := s.db.IsSkippedToday(now)
		if err != nil {
			s.internalError(w, "failed to read skip state", err)
			return
		}
		s.writeJSON(w, http.StatusOK, response{
			Days:         state.Days,
			LastDraw:     state.LastDraw,
			DrawnToday:   streak.DrawnOn(state, now),
			SkippedToday: skipped,
		})
	}
}

// handleDaily performs the daily single-card draw (POST) or returns today's
// record (GET). Drawing twice in one day is rejected with 409.
func (s *Server) handleDaily() http.HandlerFunc {
	type request struct {
		Persona string `json:"persona"`
	}
	type response struct {
		Date         string             `json:"date"`
		Cards        []domain.DrawnCard `json:"cards"`
		Reading      *string            `json:"reading"`
		ReadingError string             `json:"reading_error,omitempty"`
		Days         int                `json:"days"`
		EntryID      string             `json:"entry_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		today := streak.DateOf(now)

		switch r.Method {
		case http.MethodGet:
			rec, err := s.db.DailyRecord(today)
			if errors.Is(err, storage.ErrNotFound) {
				s.writeError(w, http.StatusNotFound, "no daily draw recorded today")
				return
			}
			if err != nil {
				s.internalError(w, "failed to read daily record", err)
				return
			}
			s.writeJSON(w, http.StatusOK, rec)
			return
		case http.MethodPost:
		default:
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		drawn, err := s.db.HasDrawnToday(now)
		if err != nil {
			s.internalError(w, "failed to read streak", err)
			return
		}
		if drawn {
			s.writeError(w, http.StatusConflict, "already drawn today")
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		persona, ok := reading.PersonaByKey(valueOr(req.Persona, reading.DefaultPersonaKey))
		if !ok {
			s.writeError(w, http.StatusBadRequest, "unknown persona")
			return
		}

		cards, err := s.engine.Draw(1)
		if err != nil {
			s.internalError(w, "daily draw failed", err)
			return
		}

		days, err := s.db.RecordDailyDraw(now)
		if err != nil {
			s.internalError(w, "failed to record daily draw", err)
			return
		}

		entryID, err := s.db.SaveEntry("", cards)
		if err != nil {
			s.internalError(w, "failed to save history entry", err)
			return
		}

		resp := response{Date: today, Cards: cards, Days: days, EntryID: entryID}
		if s.readings != nil {
			system, user := reading.BuildPrompts(persona, "", cards)
			text, err := s.readings.Reading(r.Context(), system, user)
			if err != nil {
				s.logger.Error("daily reading request failed", "entry", entryID, "error", err)
				resp.ReadingError = gatewayErrMessage(err)
			} else {
				resp.Reading = &text
				if err := s.db.UpdateReading(entryID, text); err != nil {
					s.internalError(w, "failed to store reading", err)
					return
				}
			}
		}

		rec := domain.DailyRecord{Date: today, Cards: cards, Reading: resp.Reading}
		if err := s.db.SaveDailyRecord(rec); err != nil {
			s.internalError(w, "failed to save daily record", err)
			return
		}

		s.writeJSON(w, http.StatusOK, resp)
	}
}

// handleSkipDaily marks today's daily draw as deliberately skipped.
func (s *Server) handleSkipDaily() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := s.db.SkipToday(time.Now()); err != nil {
			s.internalError(w, "failed to mark skip", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handlePersonas lists the available reader personas.
func (s *Server) handlePersonas() http.HandlerFunc {
	type persona struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		all := reading.Personas()
		out := make([]persona, len(all))
		for i, p := range all {
			out[i] = persona{Key: p.Key, Name: p.Name}
		}
		s.writeJSON(w, http.StatusOK, out)
	}
}

// gatewayErrMessage maps gateway failures to user-facing diagnostics. The
// server error path keeps the raw body so users can see what was rejected.
func gatewayErrMessage(err error) string {
	var serverErr *reading.ServerError
	switch {
	case errors.As(err, &serverErr):
		return fmt.Sprintf("reading service rejected the request (status %d): %s",
			serverErr.Status, serverErr.Body)
	case errors.Is(err, reading.ErrNoContent):
		return "no reading generated"
	case reading.IsTransport(err):
		return "could not reach the reading service"
	default:
		return "reading service returned an unreadable response"
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
