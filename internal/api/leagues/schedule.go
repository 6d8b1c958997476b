package leagues

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tgarrity/leaguedesk/internal/api/apiutil"
	appdb "github.com/tgarrity/leaguedesk/internal/db"
	"github.com/tgarrity/leaguedesk/internal/fixture"
	"github.com/tgarrity/leaguedesk/internal/venueplan"
)

type scheduleRequest struct {
	VenueID *int64 `json:"venueId"`
}

// venueConflictError marks a generated game that lands outside the venue's
// usable hours.
type venueConflictError struct {
	VenueID     int64
	ScheduledAt time.Time
	State       venueplan.State
}

func (e venueConflictError) Error() string {
	return fmt.Sprintf("venue %d is %s at %s", e.VenueID, e.State, e.ScheduledAt.Format(time.RFC3339))
}

// POST /api/v1/seasons/{id}/schedule/preview
func HandleSchedulePreview(w http.ResponseWriter, r *http.Request) {
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
	if len(teams) < 2 {
		http.Error(w, "At least two teams are required to build a schedule", http.StatusUnprocessableEntity)
		return
	}

	rounds := fixture.GenerateRoundRobin(teams)

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"rounds": rounds}); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write schedule preview")
	}
}

// POST /api/v1/seasons/{id}/schedule/generate
func HandleScheduleGenerate(w http.ResponseWriter, r *http.Request) {
	handleScheduleCommit(w, r, false)
}

// POST /api/v1/seasons/{id}/schedule/regenerate
func HandleScheduleRegenerate(w http.ResponseWriter, r *http.Request) {
	handleScheduleCommit(w, r, true)
}

func handleScheduleCommit(w http.ResponseWriter, r *http.Request, regenerate bool) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	db := loadDB()
	if s == nil || db == nil || committer == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	seasonID, err := seasonIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid season ID", http.StatusBadRequest)
		return
	}

	req, err := decodeScheduleRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
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

	if !regenerate {
		count, err := s.CountSeasonGames(ctx, seasonID)
		if err != nil {
			logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to check existing schedule")
			http.Error(w, "Failed to check existing schedule", http.StatusInternalServerError)
			return
		}
		if count > 0 {
			http.Error(w, "Schedule already exists for this season", http.StatusConflict)
			return
		}
	}

	opts := fixture.CommitOptions{
		Overwrite: regenerate,
		VenueID:   req.VenueID,
	}
	if req.VenueID != nil {
		venueID := *req.VenueID
		if _, err := s.GetVenue(ctx, venueID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Venue not found", http.StatusNotFound)
				return
			}
			logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to fetch venue")
			http.Error(w, "Failed to fetch venue", http.StatusInternalServerError)
			return
		}

		check, err := venueConflictCheck(ctx, s, venueID)
		if err != nil {
			logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to load venue availability")
			http.Error(w, "Failed to load venue availability", http.StatusInternalServerError)
			return
		}
		opts.Conflict = check
	}

	var games []fixture.GameRecord
	err = db.RunInTx(ctx, func(txdb *appdb.DB) error {
		var commitErr error
		games, commitErr = committer.Commit(ctx, txdb.Store, seasonID, opts)
		return commitErr
	})
	if err != nil {
		if errors.Is(err, fixture.ErrNothingToSchedule) {
			http.Error(w, "At least two teams are required to build a schedule", http.StatusUnprocessableEntity)
			return
		}
		var conflict venueConflictError
		if errors.As(err, &conflict) {
			logger.Warn().Int64("season_id", seasonID).Int64("venue_id", conflict.VenueID).
				Time("scheduled_at", conflict.ScheduledAt).Msg("Schedule conflicts with venue availability")
			http.Error(w, conflict.Error(), http.StatusConflict)
			return
		}
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to commit schedule")
		http.Error(w, "Failed to commit schedule", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, map[string]any{"games": games}); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write schedule response")
	}
}

func decodeScheduleRequest(r *http.Request) (scheduleRequest, error) {
	var req scheduleRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		// An empty body means "no options".
		if errors.Is(err, io.EOF) {
			return scheduleRequest{}, nil
		}
		return scheduleRequest{}, err
	}
	if req.VenueID != nil && *req.VenueID <= 0 {
		return scheduleRequest{}, fmt.Errorf("venueId must be a positive integer")
	}
	return req, nil
}

// venueConflictCheck loads the venue's weekly availability once and returns a
// hook that rejects any game landing in a closed or reserved hour.
func venueConflictCheck(ctx context.Context, s *appdb.Store, venueID int64) (fixture.ConflictCheck, error) {
	hours, err := s.ListVenueHours(ctx, venueID)
	if err != nil {
		return nil, err
	}
	blocks, err := s.ListReservedBlocks(ctx, venueID)
	if err != nil {
		return nil, err
	}
	evaluator := venueplan.NewEvaluator(hours, blocks)

	return func(ctx context.Context, rec fixture.GameRecord) error {
		day := int(rec.ScheduledAt.Weekday())
		hour := rec.ScheduledAt.Hour()
		classification := evaluator.Classify(day, hour)
		if classification.State != venueplan.StateAvailable {
			return venueConflictError{
				VenueID:     venueID,
				ScheduledAt: rec.ScheduledAt,
				State:       classification.State,
			}
		}
		return nil
	}, nil
}
