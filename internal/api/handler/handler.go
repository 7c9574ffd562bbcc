// Package handler provides HTTP handlers for the results API. Handlers read
// from the scraper's in-memory store, scraping a game on first request — no
// persistence layer.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/slapshotlabs/rinkline/internal/api/respond"
	"github.com/slapshotlabs/rinkline/internal/config"
	"github.com/slapshotlabs/rinkline/internal/nhl"
	"github.com/slapshotlabs/rinkline/internal/pbp"
	"github.com/slapshotlabs/rinkline/internal/schedule"
	"github.com/slapshotlabs/rinkline/internal/scraper"
	"github.com/slapshotlabs/rinkline/internal/stats"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	scraper *scraper.Scraper
	client  *nhl.Client
	cfg     *config.Config
	logger  *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(s *scraper.Scraper, client *nhl.Client, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{scraper: s, client: client, cfg: cfg, logger: logger}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "rinkline API",
		"version": "1.0.0",
		"status":  "running",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"games":     len(h.scraper.ScrapedGames()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Games lists the game IDs currently in the store.
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	ids := h.scraper.ScrapedGames()
	if ids == nil {
		ids = []int{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"games": ids})
}

// gameID reads and validates the game ID route parameter.
func gameID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "gameID"))
	if err != nil || id < 1000000000 {
		return 0, false
	}
	return id, true
}

// events resolves a game's stream, scraping on first request, and maps
// pipeline errors onto statuses.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) ([]pbp.Event, int, bool) {
	id, ok := gameID(r)
	if !ok {
		respond.WriteError(w, http.StatusBadRequest, "BAD_GAME_ID", "game ID must be a ten-digit number")
		return nil, 0, false
	}
	events, err := h.scraper.PlayByPlay(r.Context(), id)
	switch {
	case err == nil:
		return events, id, true
	case errors.Is(err, scraper.ErrGameNotFound):
		respond.WriteError(w, http.StatusNotFound, "GAME_NOT_FOUND", "no such game")
	case errors.Is(err, scraper.ErrUnplayedGame):
		respond.WriteError(w, http.StatusNotFound, "GAME_UNPLAYED", "game has no plays yet")
	default:
		h.logger.Error("scrape failed", "game_id", id, "error", err)
		respond.WriteErrorDetail(w, http.StatusBadGateway, "SCRAPE_FAILED", "could not assemble the game", err.Error())
	}
	return nil, 0, false
}

// PlayByPlay serves a game's reconciled stream.
func (h *Handler) PlayByPlay(w http.ResponseWriter, r *http.Request) {
	events, _, ok := h.events(w, r)
	if !ok {
		return
	}
	respond.WriteJSON(w, http.StatusOK, events)
}

// Rosters serves a game's joined roster.
func (h *Handler) Rosters(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.events(w, r)
	if !ok {
		return
	}
	rosters, _ := h.scraper.Rosters(id)
	respond.WriteJSON(w, http.StatusOK, rosters)
}

// Shifts serves a game's repaired shifts.
func (h *Handler) Shifts(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.events(w, r)
	if !ok {
		return
	}
	shifts, _ := h.scraper.Shifts(id)
	respond.WriteJSON(w, http.StatusOK, shifts)
}

// Changes serves a game's substitution ticks.
func (h *Handler) Changes(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.events(w, r)
	if !ok {
		return
	}
	changes, _ := h.scraper.Changes(id)
	respond.WriteJSON(w, http.StatusOK, changes)
}

// statsOptions reads the grouping dimensions from the query string.
func statsOptions(r *http.Request) stats.Options {
	q := r.URL.Query()
	opts := stats.Options{Level: stats.LevelGame}
	switch q.Get("level") {
	case "period":
		opts.Level = stats.LevelPeriod
	case "session":
		opts.Level = stats.LevelSession
	case "season":
		opts.Level = stats.LevelSeason
	}
	opts.Strength = queryFlag(q.Get("strength"))
	opts.Score = queryFlag(q.Get("score"))
	opts.Teammates = queryFlag(q.Get("teammates"))
	opts.Opposition = queryFlag(q.Get("opposition"))
	return opts
}

func queryFlag(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// Stats serves the joined player view for a game.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	events, _, ok := h.events(w, r)
	if !ok {
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats.Stats(events, statsOptions(r)))
}

// Lines serves the line-combination view for a game.
func (h *Handler) Lines(w http.ResponseWriter, r *http.Request) {
	events, _, ok := h.events(w, r)
	if !ok {
		return
	}
	kind := stats.LineForwards
	if r.URL.Query().Get("kind") == "defense" {
		kind = stats.LineDefense
	}
	respond.WriteJSON(w, http.StatusOK, stats.Lines(events, kind, statsOptions(r)))
}

// Teams serves the team view for a game.
func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	events, _, ok := h.events(w, r)
	if !ok {
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats.TeamStats(events, statsOptions(r)))
}

// Schedule serves the week of games starting at a date.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	games, err := schedule.Week(r.Context(), h.client, date)
	if err != nil {
		h.logger.Error("schedule fetch failed", "date", date, "error", err)
		respond.WriteError(w, http.StatusBadGateway, "SCHEDULE_FAILED", "could not fetch the schedule")
		return
	}
	respond.WriteJSON(w, http.StatusOK, games)
}

// Standings serves the standings as of a date.
func (h *Handler) Standings(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	rows, err := schedule.Standings(r.Context(), h.client, date)
	if err != nil {
		h.logger.Error("standings fetch failed", "date", date, "error", err)
		respond.WriteError(w, http.StatusBadGateway, "STANDINGS_FAILED", "could not fetch the standings")
		return
	}
	respond.WriteJSON(w, http.StatusOK, rows)
}
