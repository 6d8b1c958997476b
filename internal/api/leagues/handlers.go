// internal/api/leagues/handlers.go
package leagues

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
	leagueQueryTimeout  = 5 * time.Second
	leagueIDPathKey     = "id"
	seasonIDPathKey     = "id"
	teamIDPathKey       = "team_id"
	seasonDateLayout    = "2006-01-02"
	defaultLeagueStatus = "active"
	defaultTeamStatus   = "active"
)

var (
	database  *appdb.DB
	store     *appdb.Store
	committer *fixture.Committer
)

type leagueRequest struct {
	Name   string `json:"name"`
	Sport  string `json:"sport"`
	Status string `json:"status"`
}

type seasonRequest struct {
	Name     string `json:"name"`
	StartsOn string `json:"startsOn"`
	EndsOn   string `json:"endsOn"`
}

type teamRequest struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type rosterRequest struct {
	TeamIDs []int64 `json:"teamIds"`
}

type leagueInput struct {
	Name   string
	Sport  string
	Status string
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(db *appdb.DB) {
	if db == nil {
		return
	}
	database = db
	store = db.Store
	committer = fixture.NewCommitter(store)
}

// GET /api/v1/leagues
func HandleLeaguesList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	leagues, err := s.ListLeagues(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list leagues")
		http.Error(w, "Failed to list leagues", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"leagues": leagues}); err != nil {
		logger.Error().Err(err).Msg("Failed to write leagues response")
	}
}

// POST /api/v1/leagues
func HandleLeagueCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req leagueRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	input, err := parseLeagueRequest(req, defaultLeagueStatus)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	league, err := s.CreateLeague(ctx, appdb.CreateLeagueParams{
		Name:  input.Name,
		Sport: input.Sport,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create league")
		http.Error(w, "Failed to create league", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, league); err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to write league response")
	}
}

// GET /api/v1/leagues/{id}
func HandleLeagueDetail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	leagueID, err := leagueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid league ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	league, err := s.GetLeague(ctx, leagueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "League not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to fetch league")
		http.Error(w, "Failed to fetch league", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, league); err != nil {
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to write league response")
	}
}

// PUT /api/v1/leagues/{id}
func HandleLeagueUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	leagueID, err := leagueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid league ID", http.StatusBadRequest)
		return
	}

	var req leagueRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	input, err := parseLeagueRequest(req, "")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	updated, err := s.UpdateLeague(ctx, appdb.UpdateLeagueParams{
		ID:     leagueID,
		Name:   input.Name,
		Sport:  input.Sport,
		Status: input.Status,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "League not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to update league")
		http.Error(w, "Failed to update league", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, updated); err != nil {
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to write league response")
	}
}

// DELETE /api/v1/leagues/{id}
func HandleLeagueDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	leagueID, err := leagueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid league ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	affected, err := s.DeleteLeague(ctx, leagueID)
	if err != nil {
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to delete league")
		http.Error(w, "Failed to delete league", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		http.Error(w, "League not found", http.StatusNotFound)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"deleted": leagueID}); err != nil {
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to write league delete response")
	}
}

// POST /api/v1/leagues/{id}/seasons
func HandleSeasonCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	leagueID, err := leagueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid league ID", http.StatusBadRequest)
		return
	}

	var req seasonRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	startsOn, err := parseOptionalSeasonDate(req.StartsOn, "startsOn")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	endsOn, err := parseOptionalSeasonDate(req.EndsOn, "endsOn")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if startsOn.Valid && endsOn.Valid && startsOn.Time.After(endsOn.Time) {
		http.Error(w, "startsOn must be on or before endsOn", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "League not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to fetch league")
		http.Error(w, "Failed to fetch league", http.StatusInternalServerError)
		return
	}

	season, err := s.CreateSeason(ctx, appdb.CreateSeasonParams{
		LeagueID: leagueID,
		Name:     name,
		StartsOn: startsOn,
		EndsOn:   endsOn,
	})
	if err != nil {
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to create season")
		http.Error(w, "Failed to create season", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, season); err != nil {
		logger.Error().Err(err).Int64("season_id", season.ID).Msg("Failed to write season response")
	}
}

// GET /api/v1/leagues/{id}/seasons
func HandleSeasonsList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	leagueID, err := leagueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid league ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "League not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to fetch league")
		http.Error(w, "Failed to fetch league", http.StatusInternalServerError)
		return
	}

	seasons, err := s.ListLeagueSeasons(ctx, leagueID)
	if err != nil {
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to list seasons")
		http.Error(w, "Failed to list seasons", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"seasons": seasons}); err != nil {
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to write seasons response")
	}
}

// GET /api/v1/seasons/{id}
func HandleSeasonDetail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	seasonID, err := seasonIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid season ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	season, err := s.GetSeason(ctx, seasonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Season not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to fetch season")
		http.Error(w, "Failed to fetch season", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, season); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write season response")
	}
}

// DELETE /api/v1/seasons/{id}
func HandleSeasonDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	seasonID, err := seasonIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid season ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	affected, err := s.DeleteSeason(ctx, seasonID)
	if err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to delete season")
		http.Error(w, "Failed to delete season", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		http.Error(w, "Season not found", http.StatusNotFound)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"deleted": seasonID}); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write season delete response")
	}
}

// POST /api/v1/leagues/{id}/teams
func HandleTeamCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	leagueID, err := leagueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid league ID", http.StatusBadRequest)
		return
	}

	var req teamRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "League not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to fetch league")
		http.Error(w, "Failed to fetch league", http.StatusInternalServerError)
		return
	}

	team, err := s.CreateTeam(ctx, appdb.CreateTeamParams{
		LeagueID: leagueID,
		Name:     name,
	})
	if err != nil {
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to create team")
		http.Error(w, "Failed to create team", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, team); err != nil {
		logger.Error().Err(err).Int64("team_id", team.ID).Msg("Failed to write team response")
	}
}

// GET /api/v1/leagues/{id}/teams
func HandleTeamsList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	leagueID, err := leagueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid league ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "League not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to fetch league")
		http.Error(w, "Failed to fetch league", http.StatusInternalServerError)
		return
	}

	teams, err := s.ListLeagueTeams(ctx, leagueID)
	if err != nil {
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to list teams")
		http.Error(w, "Failed to list teams", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"teams": teams}); err != nil {
		logger.Error().Err(err).Int64("league_id", leagueID).Msg("Failed to write teams response")
	}
}

// PUT /api/v1/leagues/{id}/teams/{team_id}
func HandleTeamUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	leagueID, err := leagueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid league ID", http.StatusBadRequest)
		return
	}

	teamID, err := teamIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid team ID", http.StatusBadRequest)
		return
	}

	var req teamRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = defaultTeamStatus
	}
	if !teamStatusAllowed(status) {
		http.Error(w, "status must be active or inactive", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Team not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to fetch team")
		http.Error(w, "Failed to update team", http.StatusInternalServerError)
		return
	}
	if team.LeagueID != leagueID {
		http.Error(w, "Team not found", http.StatusNotFound)
		return
	}

	updated, err := s.UpdateTeam(ctx, appdb.UpdateTeamParams{
		ID:     teamID,
		Name:   name,
		Status: status,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Team not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to update team")
		http.Error(w, "Failed to update team", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, updated); err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to write team response")
	}
}

// DELETE /api/v1/leagues/{id}/teams/{team_id}
func HandleTeamDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	leagueID, err := leagueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid league ID", http.StatusBadRequest)
		return
	}

	teamID, err := teamIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid team ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Team not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to fetch team")
		http.Error(w, "Failed to delete team", http.StatusInternalServerError)
		return
	}
	if team.LeagueID != leagueID {
		http.Error(w, "Team not found", http.StatusNotFound)
		return
	}

	affected, err := s.DeleteTeam(ctx, teamID)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to delete team")
		http.Error(w, "Failed to delete team", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		http.Error(w, "Team not found", http.StatusNotFound)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"deleted": teamID}); err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to write team delete response")
	}
}

// GET /api/v1/seasons/{id}/roster
func HandleRosterGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	seasonID, err := seasonIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid season ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
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

	teams, err := s.TeamsForSeason(ctx, seasonID)
	if err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to load roster")
		http.Error(w, "Failed to load roster", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"teams": teams}); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write roster response")
	}
}

// PUT /api/v1/seasons/{id}/roster
func HandleRosterPut(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	db := loadDB()
	if s == nil || db == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	seasonID, err := seasonIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid season ID", http.StatusBadRequest)
		return
	}

	var req rosterRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	seen := make(map[int64]struct{}, len(req.TeamIDs))
	for _, teamID := range req.TeamIDs {
		if teamID <= 0 {
			http.Error(w, "teamIds must be positive integers", http.StatusBadRequest)
			return
		}
		if _, dup := seen[teamID]; dup {
			http.Error(w, fmt.Sprintf("teamIds contains duplicate team %d", teamID), http.StatusBadRequest)
			return
		}
		seen[teamID] = struct{}{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), leagueQueryTimeout)
	defer cancel()

	season, err := s.GetSeason(ctx, seasonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Season not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to fetch season")
		http.Error(w, "Failed to fetch season", http.StatusInternalServerError)
		return
	}

	// Every team on the roster must belong to the season's league.
	for _, teamID := range req.TeamIDs {
		team, err := s.GetTeam(ctx, teamID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, fmt.Sprintf("Team %d not found", teamID), http.StatusBadRequest)
				return
			}
			logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to fetch team")
			http.Error(w, "Failed to update roster", http.StatusInternalServerError)
			return
		}
		if team.LeagueID != season.LeagueID {
			http.Error(w, fmt.Sprintf("Team %d does not belong to this league", teamID), http.StatusBadRequest)
			return
		}
	}

	err = db.RunInTx(ctx, func(txdb *appdb.DB) error {
		return txdb.Store.ReplaceSeasonRoster(ctx, seasonID, req.TeamIDs)
	})
	if err != nil {
		// A team deleted between the ownership check above and the write
		// surfaces here as a foreign key failure.
		if apiutil.IsForeignKeyViolation(err) {
			http.Error(w, "teamIds references a missing team", http.StatusBadRequest)
			return
		}
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to update roster")
		http.Error(w, "Failed to update roster", http.StatusInternalServerError)
		return
	}

	teams, err := s.TeamsForSeason(ctx, seasonID)
	if err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to load roster")
		http.Error(w, "Failed to load roster", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"teams": teams}); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write roster response")
	}
}

func parseLeagueRequest(req leagueRequest, defaultStatus string) (leagueInput, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return leagueInput{}, fmt.Errorf("name is required")
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = defaultStatus
	}
	if !leagueStatusAllowed(status) {
		return leagueInput{}, fmt.Errorf("status must be active or archived")
	}

	return leagueInput{
		Name:   name,
		Sport:  strings.TrimSpace(req.Sport),
		Status: status,
	}, nil
}

func parseOptionalSeasonDate(raw, field string) (sql.NullTime, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return sql.NullTime{}, nil
	}
	parsed, err := time.Parse(seasonDateLayout, raw)
	if err != nil {
		return sql.NullTime{}, fmt.Errorf("%s must be a valid date (YYYY-MM-DD)", field)
	}
	return sql.NullTime{Time: parsed, Valid: true}, nil
}

func leagueStatusAllowed(status string) bool {
	switch status {
	case "active", "archived":
		return true
	default:
		return false
	}
}

func teamStatusAllowed(status string) bool {
	switch status {
	case "active", "inactive":
		return true
	default:
		return false
	}
}

func leagueIDFromRequest(r *http.Request) (int64, error) {
	return pathID(r, leagueIDPathKey)
}

func seasonIDFromRequest(r *http.Request) (int64, error) {
	return pathID(r, seasonIDPathKey)
}

func teamIDFromRequest(r *http.Request) (int64, error) {
	return pathID(r, teamIDPathKey)
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

func loadDB() *appdb.DB {
	return database
}
