// Package web exposes the JSON HTTP API: drawing cards, history, favorites,
// the daily draw and AI readings.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/conorfennell/arcana/internal/catalog"
	"github.com/conorfennell/arcana/internal/draw"
	"github.com/conorfennell/arcana/internal/storage"
)

// ReadingClient produces reading text for a pair of prompts. nil disables
// AI readings; draws still work and entries keep a null reading.
type ReadingClient interface {
	Reading(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Server holds the dependencies for the HTTP API.
type Server struct {
	db       *storage.DB
	catalog  *catalog.Catalog
	engine   *draw.Engine
	readings ReadingClient
	router   *http.ServeMux
	logger   *slog.Logger
}

// NewServer creates and configures a new server.
func NewServer(db *storage.DB, cat *catalog.Catalog, engine *draw.Engine, readings ReadingClient) *Server {
	s := &Server{
		db:       db,
		catalog:  cat,
		engine:   engine,
		readings: readings,
		router:   http.NewServeMux(),
		logger:   slog.Default(),
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.HandleFunc("/api/cards", s.handleCards())
	s.router.HandleFunc("/api/cards/", s.handleCardDetail())
	s.router.HandleFunc("/api/draw", s.handleDraw())
	s.router.HandleFunc("/api/history", s.handleHistory())
	s.router.HandleFunc("/api/history/", s.handleDeleteHistory())
	s.router.HandleFunc("/api/favorites", s.handleFavorites())
	s.router.HandleFunc("/api/favorites/", s.handleToggleFavorite())
	s.router.HandleFunc("/api/streak", s.handleStreak())
	s.router.HandleFunc("/api/daily", s.handleDaily())
	s.router.HandleFunc("/api/daily/skip", s.handleSkipDaily())
	s.router.HandleFunc("/api/personas", s.handlePersonas())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) internalError(w http.ResponseWriter, what string, err error) {
	s.logger.Error(what, "error", err)
	s.writeError(w, http.StatusInternalServerError, "internal server error")
}
