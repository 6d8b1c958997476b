// internal/api/venues/handlers.go
package venues

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
	"github.com/tgarrity/leaguedesk/internal/venueplan"
)

const (
	venueQueryTimeout  = 5 * time.Second
	venueIDPathKey     = "id"
	blockIDPathKey     = "block_id"
	dayOfWeekParam     = "day_of_week"
	defaultVenueStatus = "active"
)

var (
	database *appdb.DB
	store    *appdb.Store
)

type venueRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
	Status   string `json:"status"`
}

type hoursWindow struct {
	OpensAt  string `json:"opensAt"`
	ClosesAt string `json:"closesAt"`
}

type hoursRequest struct {
	Windows []hoursWindow `json:"windows"`
}

type blockRequest struct {
	DayOfWeek int    `json:"dayOfWeek"`
	Category  string `json:"category"`
	StartsAt  string `json:"startsAt"`
	EndsAt    string `json:"endsAt"`
	Note      string `json:"note"`
}

type conflictCheckRequest struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartsAt  string `json:"startsAt"`
	EndsAt    string `json:"endsAt"`
}

// hourCell is the JSON view of one classified venue hour.
type hourCell struct {
	Hour     int    `json:"hour"`
	State    string `json:"state"`
	Category string `json:"category,omitempty"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(db *appdb.DB) {
	if db == nil {
		return
	}
	database = db
	store = db.Store
}

// GET /api/v1/venues
func HandleVenuesList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	venues, err := s.ListVenues(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list venues")
		http.Error(w, "Failed to list venues", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"venues": venues}); err != nil {
		logger.Error().Err(err).Msg("Failed to write venues response")
	}
}

// POST /api/v1/venues
func HandleVenueCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req venueRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	venue, err := s.CreateVenue(ctx, appdb.CreateVenueParams{
		Name:     name,
		Address:  strings.TrimSpace(req.Address),
		Timezone: strings.TrimSpace(req.Timezone),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create venue")
		http.Error(w, "Failed to create venue", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, venue); err != nil {
		logger.Error().Err(err).Int64("venue_id", venue.ID).Msg("Failed to write venue response")
	}
}

// GET /api/v1/venues/{id}
func HandleVenueDetail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	venueID, err := venueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid venue ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	venue, err := s.GetVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Venue not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to fetch venue")
		http.Error(w, "Failed to fetch venue", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, venue); err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to write venue response")
	}
}

// PUT /api/v1/venues/{id}
func HandleVenueUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	venueID, err := venueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid venue ID", http.StatusBadRequest)
		return
	}

	var req venueRequest
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
		status = defaultVenueStatus
	}
	if status != "active" && status != "inactive" {
		http.Error(w, "status must be active or inactive", http.StatusBadRequest)
		return
	}

	timezone := strings.TrimSpace(req.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	updated, err := s.UpdateVenue(ctx, appdb.UpdateVenueParams{
		ID:       venueID,
		Name:     name,
		Address:  strings.TrimSpace(req.Address),
		Timezone: timezone,
		Status:   status,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Venue not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to update venue")
		http.Error(w, "Failed to update venue", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, updated); err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to write venue response")
	}
}

// DELETE /api/v1/venues/{id}
func HandleVenueDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	venueID, err := venueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid venue ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	affected, err := s.DeleteVenue(ctx, venueID)
	if err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to delete venue")
		http.Error(w, "Failed to delete venue", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		http.Error(w, "Venue not found", http.StatusNotFound)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"deleted": venueID}); err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to write venue delete response")
	}
}

// GET /api/v1/venues/{id}/hours
func HandleHoursList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	venueID, err := venueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid venue ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	if _, err := s.GetVenue(ctx, venueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Venue not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to fetch venue")
		http.Error(w, "Failed to fetch venue", http.StatusInternalServerError)
		return
	}

	hours, err := s.ListVenueHours(ctx, venueID)
	if err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to list venue hours")
		http.Error(w, "Failed to list venue hours", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"hours": hours}); err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to write venue hours response")
	}
}

// PUT /api/v1/venues/{id}/hours/{day_of_week}
func HandleHoursUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	db := loadDB()
	if s == nil || db == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	venueID, err := venueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid venue ID", http.StatusBadRequest)
		return
	}

	day, err := apiutil.ParseDayOfWeekField(r.PathValue(dayOfWeekParam), dayOfWeekParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req hoursRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	windows := make([]venueplan.WeeklyAvailability, 0, len(req.Windows))
	for _, window := range req.Windows {
		opensAt, err := apiutil.ParseClockField(window.OpensAt, "opensAt")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		closesAt, err := apiutil.ParseClockField(window.ClosesAt, "closesAt")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if closesAt <= opensAt {
			http.Error(w, "opensAt must be before closesAt", http.StatusBadRequest)
			return
		}
		windows = append(windows, venueplan.WeeklyAvailability{
			VenueID:   venueID,
			DayOfWeek: day,
			OpensAt:   opensAt,
			ClosesAt:  closesAt,
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	if _, err := s.GetVenue(ctx, venueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Venue not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to fetch venue")
		http.Error(w, "Failed to fetch venue", http.StatusInternalServerError)
		return
	}

	err = db.RunInTx(ctx, func(txdb *appdb.DB) error {
		return txdb.Store.ReplaceVenueDayHours(ctx, venueID, day, windows)
	})
	if err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Int("day_of_week", day).Msg("Failed to update venue hours")
		http.Error(w, "Failed to update venue hours", http.StatusInternalServerError)
		return
	}

	hours, err := s.ListVenueHours(ctx, venueID)
	if err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to list venue hours")
		http.Error(w, "Failed to list venue hours", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"hours": hours}); err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to write venue hours response")
	}
}

// DELETE /api/v1/venues/{id}/hours/{day_of_week}
func HandleHoursDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	venueID, err := venueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid venue ID", http.StatusBadRequest)
		return
	}

	day, err := apiutil.ParseDayOfWeekField(r.PathValue(dayOfWeekParam), dayOfWeekParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	if _, err := s.DeleteVenueDayHours(ctx, venueID, day); err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Int("day_of_week", day).Msg("Failed to delete venue hours")
		http.Error(w, "Failed to delete venue hours", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"deleted": true}); err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to write venue hours response")
	}
}

// POST /api/v1/venues/{id}/blocks
func HandleBlockCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	venueID, err := venueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid venue ID", http.StatusBadRequest)
		return
	}

	var req blockRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		http.Error(w, "dayOfWeek must be between 0 (Sunday) and 6 (Saturday)", http.StatusBadRequest)
		return
	}
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if !venueplan.ValidCategory(category) {
		http.Error(w, "category must be league, tournament, practice, or closed", http.StatusBadRequest)
		return
	}
	startsAt, err := apiutil.ParseClockField(req.StartsAt, "startsAt")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	endsAt, err := apiutil.ParseClockField(req.EndsAt, "endsAt")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if endsAt <= startsAt {
		http.Error(w, "startsAt must be before endsAt", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	if _, err := s.GetVenue(ctx, venueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Venue not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to fetch venue")
		http.Error(w, "Failed to fetch venue", http.StatusInternalServerError)
		return
	}

	block := venueplan.ReservedBlock{
		VenueID:   venueID,
		DayOfWeek: req.DayOfWeek,
		Category:  venueplan.UsageCategory(category),
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Note:      strings.TrimSpace(req.Note),
	}

	created, err := s.CreateReservedBlock(ctx, block)
	if err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to create reserved block")
		http.Error(w, "Failed to create reserved block", http.StatusInternalServerError)
		return
	}

	// Blocks outside operating hours are legal but worth surfacing to the
	// caller, since the hour they reserve can never be available anyway.
	evaluator, err := loadEvaluator(ctx, s, venueID)
	if err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to load venue availability")
		http.Error(w, "Failed to load venue availability", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, map[string]any{
		"block":        created,
		"outsideHours": evaluator.BlockOutsideHours(created),
	}); err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to write reserved block response")
	}
}

// GET /api/v1/venues/{id}/blocks
func HandleBlocksList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	venueID, err := venueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid venue ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	if _, err := s.GetVenue(ctx, venueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Venue not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to fetch venue")
		http.Error(w, "Failed to fetch venue", http.StatusInternalServerError)
		return
	}

	blocks, err := s.ListReservedBlocks(ctx, venueID)
	if err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to list reserved blocks")
		http.Error(w, "Failed to list reserved blocks", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"blocks": blocks}); err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to write reserved blocks response")
	}
}

// DELETE /api/v1/venues/{id}/blocks/{block_id}
func HandleBlockDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	venueID, err := venueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid venue ID", http.StatusBadRequest)
		return
	}

	blockID, err := apiutil.PathID(r, blockIDPathKey)
	if err != nil {
		http.Error(w, "Invalid block ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	affected, err := s.DeleteReservedBlock(ctx, venueID, blockID)
	if err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Int64("block_id", blockID).Msg("Failed to delete reserved block")
		http.Error(w, "Failed to delete reserved block", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		http.Error(w, "Reserved block not found", http.StatusNotFound)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"deleted": blockID}); err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to write reserved block response")
	}
}

// GET /api/v1/venues/{id}/utilization
func HandleUtilization(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	venueID, err := venueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid venue ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	if _, err := s.GetVenue(ctx, venueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Venue not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to fetch venue")
		http.Error(w, "Failed to fetch venue", http.StatusInternalServerError)
		return
	}

	evaluator, err := loadEvaluator(ctx, s, venueID)
	if err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to load venue availability")
		http.Error(w, "Failed to load venue availability", http.StatusInternalServerError)
		return
	}

	first, last := evaluator.HourRange()
	grid := evaluator.WeekGrid()

	days := make([]map[string]any, 0, 7)
	var available, reserved, closed int
	for day := 0; day < 7; day++ {
		cells := make([]hourCell, 0, len(grid[day]))
		for _, cell := range grid[day] {
			cells = append(cells, toHourCell(cell))
			switch cell.State {
			case venueplan.StateAvailable:
				available++
			case venueplan.StateReserved:
				reserved++
			default:
				closed++
			}
		}
		days = append(days, map[string]any{
			"dayOfWeek": day,
			"hours":     cells,
		})
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"firstHour": first,
		"lastHour":  last,
		"days":      days,
		"summary": map[string]int{
			"availableHours": available,
			"reservedHours":  reserved,
			"closedHours":    closed,
		},
	}); err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to write utilization response")
	}
}

// POST /api/v1/venues/{id}/conflict-check
func HandleConflictCheck(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	s := loadStore()
	if s == nil {
		logger.Error().Msg("Database store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	venueID, err := venueIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid venue ID", http.StatusBadRequest)
		return
	}

	var req conflictCheckRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		http.Error(w, "dayOfWeek must be between 0 (Sunday) and 6 (Saturday)", http.StatusBadRequest)
		return
	}
	startsAt, err := apiutil.ParseClockField(req.StartsAt, "startsAt")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	endsAt, err := apiutil.ParseClockField(req.EndsAt, "endsAt")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if endsAt <= startsAt {
		http.Error(w, "startsAt must be before endsAt", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	if _, err := s.GetVenue(ctx, venueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Venue not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to fetch venue")
		http.Error(w, "Failed to fetch venue", http.StatusInternalServerError)
		return
	}

	evaluator, err := loadEvaluator(ctx, s, venueID)
	if err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to load venue availability")
		http.Error(w, "Failed to load venue availability", http.StatusInternalServerError)
		return
	}

	probe := venueplan.ReservedBlock{
		VenueID:   venueID,
		DayOfWeek: req.DayOfWeek,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
	}

	// Classify each touched hour so the caller sees what is in the way, not
	// just a boolean.
	startHour := clockHour(startsAt)
	endHour := clockHour(endsAt)
	if strings.HasSuffix(endsAt, ":00") {
		endHour--
	}
	cells := make([]hourCell, 0, endHour-startHour+1)
	conflict := false
	for hour := startHour; hour <= endHour; hour++ {
		cell := venueplan.HourClassification{
			Hour:           hour,
			Classification: evaluator.Classify(req.DayOfWeek, hour),
		}
		if cell.State != venueplan.StateAvailable {
			conflict = true
		}
		cells = append(cells, toHourCell(cell))
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"conflict":     conflict,
		"outsideHours": evaluator.BlockOutsideHours(probe),
		"hours":        cells,
	}); err != nil {
		logger.Error().Err(err).Int64("venue_id", venueID).Msg("Failed to write conflict check response")
	}
}

func loadEvaluator(ctx context.Context, s *appdb.Store, venueID int64) (*venueplan.Evaluator, error) {
	hours, err := s.ListVenueHours(ctx, venueID)
	if err != nil {
		return nil, err
	}
	blocks, err := s.ListReservedBlocks(ctx, venueID)
	if err != nil {
		return nil, err
	}
	return venueplan.NewEvaluator(hours, blocks), nil
}

func toHourCell(cell venueplan.HourClassification) hourCell {
	out := hourCell{
		Hour:  cell.Hour,
		State: cell.State.String(),
	}
	if cell.State == venueplan.StateReserved {
		out.Category = string(cell.Category)
	}
	return out
}

func clockHour(clock string) int {
	hour, err := strconv.Atoi(strings.SplitN(clock, ":", 2)[0])
	if err != nil {
		return 0
	}
	return hour
}

func venueIDFromRequest(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(venueIDPathKey))
	if raw == "" {
		return 0, fmt.Errorf("invalid venue ID")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid venue ID")
	}
	return id, nil
}

func loadStore() *appdb.Store {
	return store
}

func loadDB() *appdb.DB {
	return database
}
