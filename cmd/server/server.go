// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tgarrity/leaguedesk/internal/api"
	"github.com/tgarrity/leaguedesk/internal/api/games"
	"github.com/tgarrity/leaguedesk/internal/api/leagues"
	"github.com/tgarrity/leaguedesk/internal/api/venues"
	"github.com/tgarrity/leaguedesk/internal/config"
	"github.com/tgarrity/leaguedesk/internal/ratelimit"
)

func newServer(cfg *config.Config, limiter *ratelimit.Limiter) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithWriteRateLimit(limiter),
		api.WithRequestID,
		api.WithContentType,
	)

	// Register routes
	registerRoutes(router)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// League routes
	mux.HandleFunc("GET /api/v1/leagues", leagues.HandleLeaguesList)
	mux.HandleFunc("POST /api/v1/leagues", leagues.HandleLeagueCreate)
	mux.HandleFunc("GET /api/v1/leagues/{id}", leagues.HandleLeagueDetail)
	mux.HandleFunc("PUT /api/v1/leagues/{id}", leagues.HandleLeagueUpdate)
	mux.HandleFunc("DELETE /api/v1/leagues/{id}", leagues.HandleLeagueDelete)

	// Season routes
	mux.HandleFunc("POST /api/v1/leagues/{id}/seasons", leagues.HandleSeasonCreate)
	mux.HandleFunc("GET /api/v1/leagues/{id}/seasons", leagues.HandleSeasonsList)
	mux.HandleFunc("GET /api/v1/seasons/{id}", leagues.HandleSeasonDetail)
	mux.HandleFunc("DELETE /api/v1/seasons/{id}", leagues.HandleSeasonDelete)
	mux.HandleFunc("GET /api/v1/seasons/{id}/roster", leagues.HandleRosterGet)
	mux.HandleFunc("PUT /api/v1/seasons/{id}/roster", leagues.HandleRosterPut)

	// Team routes
	mux.HandleFunc("POST /api/v1/leagues/{id}/teams", leagues.HandleTeamCreate)
	mux.HandleFunc("GET /api/v1/leagues/{id}/teams", leagues.HandleTeamsList)
	mux.HandleFunc("PUT /api/v1/leagues/{id}/teams/{team_id}", leagues.HandleTeamUpdate)
	mux.HandleFunc("DELETE /api/v1/leagues/{id}/teams/{team_id}", leagues.HandleTeamDelete)

	// Schedule routes
	mux.HandleFunc("POST /api/v1/seasons/{id}/schedule/preview", leagues.HandleSchedulePreview)
	mux.HandleFunc("POST /api/v1/seasons/{id}/schedule/generate", leagues.HandleScheduleGenerate)
	mux.HandleFunc("POST /api/v1/seasons/{id}/schedule/regenerate", leagues.HandleScheduleRegenerate)

	// Game routes
	mux.HandleFunc("GET /api/v1/seasons/{id}/games", games.HandleSeasonGamesList)
	mux.HandleFunc("GET /api/v1/games/{id}", games.HandleGameDetail)
	mux.HandleFunc("PATCH /api/v1/games/{id}", games.HandleGameResult)
	mux.HandleFunc("PUT /api/v1/games/{id}/schedule", games.HandleGameReschedule)

	// Venue routes
	mux.HandleFunc("GET /api/v1/venues", venues.HandleVenuesList)
	mux.HandleFunc("POST /api/v1/venues", venues.HandleVenueCreate)
	mux.HandleFunc("GET /api/v1/venues/{id}", venues.HandleVenueDetail)
	mux.HandleFunc("PUT /api/v1/venues/{id}", venues.HandleVenueUpdate)
	mux.HandleFunc("DELETE /api/v1/venues/{id}", venues.HandleVenueDelete)
	mux.HandleFunc("GET /api/v1/venues/{id}/hours", venues.HandleHoursList)
	mux.HandleFunc("PUT /api/v1/venues/{id}/hours/{day_of_week}", venues.HandleHoursUpdate)
	mux.HandleFunc("DELETE /api/v1/venues/{id}/hours/{day_of_week}", venues.HandleHoursDelete)
	mux.HandleFunc("POST /api/v1/venues/{id}/blocks", venues.HandleBlockCreate)
	mux.HandleFunc("GET /api/v1/venues/{id}/blocks", venues.HandleBlocksList)
	mux.HandleFunc("DELETE /api/v1/venues/{id}/blocks/{block_id}", venues.HandleBlockDelete)
	mux.HandleFunc("GET /api/v1/venues/{id}/utilization", venues.HandleUtilization)
	mux.HandleFunc("POST /api/v1/venues/{id}/conflict-check", venues.HandleConflictCheck)
}
