// internal/api/games/handlers.go
package games

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tgarrity/leaguedesk/internal/api/apiutil"
	appdb "github.com/tgarrity/leaguedesk/internal/db"
	"github.com/tgarrity/leaguedesk/internal/fixture"
)

const (
	gameQueryTimeout = 5 * time.Second
	gameIDPathKey    = "id"
	seasonIDPathKey  = "id"
)

var store *appdb.Store

type resultRequest struct {
	Status    string `json:"status"`
	HomeScore *int64 `json:"homeScore"`
	AwayScore *int64 `json:"awayScore"`
}

type rescheduleRequest struct {
	VenueID     *int64 `json:"venueId"`
	ScheduledAt string `json:"scheduledAt"`
}

// gameResponse flattens the nullable columns for JSON consumers.
type gameResponse struct {
	ID          int64     `json:"id"`
	SeasonID    int64     `json:"seasonId"`
	Round       int64     `json:"round"`
	HomeTeamID  int64     `json:"homeTeamId"`
	AwayTeamID  int64     `json:"awayTeamId"`
	VenueID     *int64    `json:"venueId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
	HomeScore   *int64    `json:"homeScore"`
	AwayScore   *int64    `json:"awayScore"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(db *appdb.DB) {
	if db == nil {
		return
	}
	store = db.Store
}

// GET /api/v1/seasons/{id}/games
func HandleSeasonGamesList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	seasonID, err := pathID(r, seasonIDPathKey)
	if err != nil {
		http.Error(w, "Invalid season ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), gameQueryTimeout)
	defer cancel()

	if _, err := s.GetSeason(ctx, seasonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Season not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to fetch season")
		http.Error(w, "Failed to fetch season", http.StatusInternalServerError)
		return
	}

	games, err := s.ListSeasonGames(ctx, seasonID)
	if err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to list games")
		http.Error(w, "Failed to list games", http.StatusInternalServerError)
		return
	}

	responses := make([]gameResponse, 0, len(games))
	for _, g := range games {
		responses = append(responses, toGameResponse(g))
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"games": responses}); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write games response")
	}
}

// GET /api/v1/games/{id}
func HandleGameDetail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gameID, err := pathID(r, gameIDPathKey)
	if err != nil {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), gameQueryTimeout)
	defer cancel()

	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to fetch game")
		http.Error(w, "Failed to fetch game", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, toGameResponse(game)); err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to write game response")
	}
}

// PATCH /api/v1/games/{id}
func HandleGameResult(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gameID, err := pathID(r, gameIDPathKey)
	if err != nil {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	var req resultRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), gameQueryTimeout)
	defer cancel()

	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to fetch game")
		http.Error(w, "Failed to fetch game", http.StatusInternalServerError)
		return
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = game.Status
	}
	if !gameStatusAllowed(status) {
		http.Error(w, "status must be scheduled, in_progress, or completed", http.StatusBadRequest)
		return
	}

	if (req.HomeScore == nil) != (req.AwayScore == nil) {
		http.Error(w, "homeScore and awayScore must be set together", http.StatusBadRequest)
		return
	}
	if req.HomeScore != nil && (*req.HomeScore < 0 || *req.AwayScore < 0) {
		http.Error(w, "scores must be 0 or greater", http.StatusBadRequest)
		return
	}
	if status == fixture.StatusCompleted && req.HomeScore == nil && !game.HomeScore.Valid {
		http.Error(w, "completed games require a score", http.StatusBadRequest)
		return
	}

	homeScore := game.HomeScore
	awayScore := game.AwayScore
	if req.HomeScore != nil {
		homeScore = apiutil.ToNullInt64(req.HomeScore)
		awayScore = apiutil.ToNullInt64(req.AwayScore)
	}

	updated, err := s.UpdateGameResult(ctx, appdb.UpdateGameResultParams{
		ID:        gameID,
		Status:    status,
		HomeScore: homeScore,
		AwayScore: awayScore,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to update game")
		http.Error(w, "Failed to update game", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, toGameResponse(updated)); err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to write game response")
	}
}

// PUT /api/v1/games/{id}/schedule
func HandleGameReschedule(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gameID, err := pathID(r, gameIDPathKey)
	if err != nil {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	var req rescheduleRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	scheduledAt, err := apiutil.ParseScheduledAt(req.ScheduledAt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.VenueID != nil && *req.VenueID <= 0 {
		http.Error(w, "venueId must be a positive integer", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), gameQueryTimeout)
	defer cancel()

	if _, err := s.GetGame(ctx, gameID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to fetch game")
		http.Error(w, "Failed to fetch game", http.StatusInternalServerError)
		return
	}

	if req.VenueID != nil {
		if _, err := s.GetVenue(ctx, *req.VenueID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Venue not found", http.StatusNotFound)
				return
			}
			logger.Error().Err(err).Int64("venue_id", *req.VenueID).Msg("Failed to fetch venue")
			http.Error(w, "Failed to fetch venue", http.StatusInternalServerError)
			return
		}
	}

	updated, err := s.UpdateGameSchedule(ctx, appdb.UpdateGameScheduleParams{
		ID:          gameID,
		VenueID:     apiutil.ToNullInt64(req.VenueID),
		ScheduledAt: scheduledAt,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to reschedule game")
		http.Error(w, "Failed to reschedule game", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, toGameResponse(updated)); err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to write game response")
	}
}

func toGameResponse(g appdb.Game) gameResponse {
	resp := gameResponse{
		ID:          g.ID,
		SeasonID:    g.SeasonID,
		Round:       g.Round,
		HomeTeamID:  g.HomeTeamID,
		AwayTeamID:  g.AwayTeamID,
		ScheduledAt: g.ScheduledAt,
		Status:      g.Status,
	}
	if g.VenueID.Valid {
		venueID := g.VenueID.Int64
		resp.VenueID = &venueID
	}
	if g.HomeScore.Valid {
		homeScore := g.HomeScore.Int64
		resp.HomeScore = &homeScore
	}
	if g.AwayScore.Valid {
		awayScore := g.AwayScore.Int64
		resp.AwayScore = &awayScore
	}
	return resp
}

func gameStatusAllowed(status string) bool {
	switch status {
	case fixture.StatusScheduled, fixture.StatusInProgress, fixture.StatusCompleted:
		return true
	default:
		return false
	}
}

func pathID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(key))
	if raw == "" {
		return 0, fmt.Errorf("invalid ID")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID")
	}
	return id, nil
}

func loadStore() *appdb.Store {
	return store
}
